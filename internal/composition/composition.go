// Package composition cross-tabulates community membership against
// categorical node metadata.
package composition

import (
	"fmt"
	"sort"

	"schoolnet/cohort/internal/graph"
)

// Metadata maps node ID -> field -> category value. It is never modified.
type Metadata map[string]map[string]string

// Fields returns the union of field names across all nodes, sorted
func (m Metadata) Fields() []string {
	set := make(map[string]struct{})
	for _, rec := range m {
		for f := range rec {
			set[f] = struct{}{}
		}
	}
	fields := make([]string, 0, len(set))
	for f := range set {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Options controls an analysis
type Options struct {
	// Strict fails with UnknownNodeError when a member has no metadata.
	Strict bool

	// Fields restricts and orders the analysed fields. Empty means all fields.
	Fields []string
}

// Summary describes one community
type Summary struct {
	CommunityID int `json:"community_id" yaml:"community_id"`
	Size        int `json:"size" yaml:"size"`

	// Members in natural node order.
	Members []string `json:"members" yaml:"members"`

	// Distributions maps field -> value -> count among members.
	Distributions map[string]map[string]int `json:"distributions" yaml:"distributions"`

	// Unlabeled counts members absent from the metadata table.
	Unlabeled int `json:"unlabeled" yaml:"unlabeled"`
}

// Dominant returns the most frequent value of field and its count.
// Ties go to the lexically smallest value.
func (s Summary) Dominant(field string) (string, int) {
	var best string
	bestCount := 0
	for value, count := range s.Distributions[field] {
		if count > bestCount || (count == bestCount && value < best) {
			best, bestCount = value, count
		}
	}
	return best, bestCount
}

// UnknownNodeError is returned in strict mode for a node without metadata
type UnknownNodeError struct {
	NodeID      string
	CommunityID int
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node %q (community %d) has no metadata", e.NodeID, e.CommunityID)
}

// Analyze produces one Summary per community of p. Communities are numbered
// in order of first appearance over nodes in natural order. Members missing
// from md add to Size and Unlabeled but to no distribution, unless
// opts.Strict is set.
func Analyze(p *graph.Partition, md Metadata, opts Options) ([]Summary, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = md.Fields()
	}

	communities := p.Communities()
	summaries := make([]Summary, 0, len(communities))
	for id, members := range communities {
		s := Summary{
			CommunityID:   id,
			Size:          len(members),
			Members:       members,
			Distributions: make(map[string]map[string]int, len(fields)),
		}
		for _, f := range fields {
			s.Distributions[f] = make(map[string]int)
		}
		for _, node := range members {
			rec, ok := md[node]
			if !ok {
				if opts.Strict {
					return nil, &UnknownNodeError{NodeID: node, CommunityID: id}
				}
				s.Unlabeled++
				continue
			}
			for _, f := range fields {
				if v, ok := rec[f]; ok {
					s.Distributions[f][v]++
				}
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// CoverageGaps lists partition members with no metadata, in natural order
func CoverageGaps(p *graph.Partition, md Metadata) []string {
	var gaps []string
	for _, id := range p.NodeIDs() {
		if _, ok := md[id]; !ok {
			gaps = append(gaps, id)
		}
	}
	return gaps
}

package graph

import (
	"github.com/cockroachdb/errors"
)

// Partition assigns every node to exactly one community. It is immutable:
// constructors copy their input and accessors return copies.
type Partition struct {
	assign map[string]int
}

// NewPartition builds a partition from a node -> community label mapping.
// Labels are kept as given; use Canonical for first-appearance numbering.
func NewPartition(assign map[string]int) *Partition {
	cp := make(map[string]int, len(assign))
	for id, c := range assign {
		cp[id] = c
	}
	return &Partition{assign: cp}
}

// PartitionFromSets builds a partition where the i-th set becomes community i.
// Empty sets and nodes listed twice are rejected.
func PartitionFromSets(sets [][]string) (*Partition, error) {
	assign := make(map[string]int)
	for c, members := range sets {
		if len(members) == 0 {
			return nil, errors.Wrapf(ErrPartitionMismatch, "community %d is empty", c)
		}
		for _, id := range members {
			if prev, dup := assign[id]; dup {
				return nil, errors.Wrapf(ErrPartitionMismatch, "node %q in communities %d and %d", id, prev, c)
			}
			assign[id] = c
		}
	}
	return &Partition{assign: assign}, nil
}

// Community returns the community label of a node
func (p *Partition) Community(id string) (int, bool) {
	c, ok := p.assign[id]
	return c, ok
}

// NodeCount returns the number of assigned nodes
func (p *Partition) NodeCount() int { return len(p.assign) }

// Len returns the number of communities
func (p *Partition) Len() int {
	labels := make(map[int]struct{})
	for _, c := range p.assign {
		labels[c] = struct{}{}
	}
	return len(labels)
}

// Assignment returns a copy of the node -> community mapping
func (p *Partition) Assignment() map[string]int {
	cp := make(map[string]int, len(p.assign))
	for id, c := range p.assign {
		cp[id] = c
	}
	return cp
}

// NodeIDs returns the assigned nodes in natural order
func (p *Partition) NodeIDs() []string {
	ids := make([]string, 0, len(p.assign))
	for id := range p.assign {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Communities returns member lists ordered by first appearance when walking
// nodes in natural order; members are in natural order too.
func (p *Partition) Communities() [][]string {
	var out [][]string
	slot := make(map[int]int)
	for _, id := range p.NodeIDs() {
		c := p.assign[id]
		i, ok := slot[c]
		if !ok {
			i = len(out)
			slot[c] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], id)
	}
	return out
}

// Canonical returns an equivalent partition whose labels are 0..k-1 in
// first-appearance order, matching the order of Communities.
func (p *Partition) Canonical() *Partition {
	assign := make(map[string]int, len(p.assign))
	for c, members := range p.Communities() {
		for _, id := range members {
			assign[id] = c
		}
	}
	return &Partition{assign: assign}
}

// Validate checks that p covers exactly the nodes of g
func (p *Partition) Validate(g *Graph) error {
	if len(p.assign) != g.NodeCount() {
		return errors.Wrapf(ErrPartitionMismatch, "partition has %d nodes, graph has %d", len(p.assign), g.NodeCount())
	}
	for id := range p.assign {
		if !g.HasNode(id) {
			return errors.Wrapf(ErrPartitionMismatch, "node %q is not in the graph", id)
		}
	}
	return nil
}

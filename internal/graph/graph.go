package graph

import (
	"math"
	"sort"
	"strconv"
)

// Edge is an undirected edge as supplied by a graph source.
// A zero Weight means the edge carries no weight and counts as 1.0.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// Neighbor is one entry of a node's adjacency list
type Neighbor struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

type arc struct {
	to     int
	weight float64
}

// Graph is an immutable simple undirected graph with optional edge weights.
// Nodes are indexed in natural ID order; adjacency lists are sorted by index.
// Repeated node pairs are coalesced by summing their weights.
type Graph struct {
	ids      []string
	index    map[string]int
	adj      [][]arc
	strength []float64 // weighted degree
	edges    int
	total    float64 // sum of edge weights
}

// NewGraph builds a Graph from explicit nodes (which may be isolated) and an edge list.
// Edge endpoints missing from nodes are added implicitly.
func NewGraph(nodes []string, edges []Edge) (*Graph, error) {
	seen := make(map[string]struct{}, len(nodes))
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, id := range nodes {
		if id == "" {
			return nil, &InvalidGraphError{Reason: "empty node id"}
		}
		add(id)
	}
	for _, e := range edges {
		if err := validateEdge(e); err != nil {
			return nil, err
		}
		add(e.Source)
		add(e.Target)
	}

	SortIDs(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	// Coalesce duplicates before building adjacency so each pair appears once
	type pair struct{ u, v int }
	weights := make(map[pair]float64, len(edges))
	order := make([]pair, 0, len(edges))
	for _, e := range edges {
		u, v := index[e.Source], index[e.Target]
		if u > v {
			u, v = v, u
		}
		key := pair{u, v}
		if _, ok := weights[key]; !ok {
			order = append(order, key)
		}
		weights[key] += effectiveWeight(e.Weight)
	}

	g := &Graph{
		ids:      ids,
		index:    index,
		adj:      make([][]arc, len(ids)),
		strength: make([]float64, len(ids)),
		edges:    len(order),
	}
	for _, key := range order {
		w := weights[key]
		g.adj[key.u] = append(g.adj[key.u], arc{to: key.v, weight: w})
		g.adj[key.v] = append(g.adj[key.v], arc{to: key.u, weight: w})
		g.strength[key.u] += w
		g.strength[key.v] += w
		g.total += w
	}
	for i := range g.adj {
		a := g.adj[i]
		sort.Slice(a, func(x, y int) bool { return a[x].to < a[y].to })
	}
	return g, nil
}

func validateEdge(e Edge) error {
	switch {
	case e.Source == "" || e.Target == "":
		return &InvalidGraphError{Source: e.Source, Target: e.Target, Weight: e.Weight, Reason: "empty node id"}
	case e.Source == e.Target:
		return &InvalidGraphError{Source: e.Source, Target: e.Target, Weight: e.Weight, Reason: "self-loop"}
	case math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0):
		return &InvalidGraphError{Source: e.Source, Target: e.Target, Weight: e.Weight, Reason: "non-finite weight"}
	case e.Weight < 0:
		return &InvalidGraphError{Source: e.Source, Target: e.Target, Weight: e.Weight, Reason: "negative weight"}
	}
	return nil
}

func effectiveWeight(w float64) float64 {
	if w == 0 {
		return 1
	}
	return w
}

// NodeCount returns the number of nodes, isolated ones included
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct node pairs joined by an edge
func (g *Graph) EdgeCount() int { return g.edges }

// HasNode reports whether id is a member of the graph
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// NodeIDs returns all node IDs in natural order (for deterministic output)
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Neighbors returns the neighbours of id with the coalesced weight of each edge.
// Unknown IDs have no neighbours.
func (g *Graph) Neighbors(id string) []Neighbor {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]Neighbor, len(g.adj[i]))
	for k, a := range g.adj[i] {
		out[k] = Neighbor{ID: g.ids[a.to], Weight: a.weight}
	}
	return out
}

// Degree returns the sum of incident edge weights, or the number of incident
// edges when weighted is false.
func (g *Graph) Degree(id string, weighted bool) float64 {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	if weighted {
		return g.strength[i]
	}
	return float64(len(g.adj[i]))
}

// TotalWeight returns L, the total edge weight (the edge count when unweighted)
func (g *Graph) TotalWeight(weighted bool) float64 {
	if weighted {
		return g.total
	}
	return float64(g.edges)
}

// Edges returns every edge once, Source ordered before Target, sorted
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for u, arcs := range g.adj {
		for _, a := range arcs {
			if a.to > u {
				out = append(out, Edge{Source: g.ids[u], Target: g.ids[a.to], Weight: a.weight})
			}
		}
	}
	return out
}

// StripWeights returns a copy of the graph with every edge weight set to 1
func (g *Graph) StripWeights() *Graph {
	s := &Graph{
		ids:      g.ids,
		index:    g.index,
		adj:      make([][]arc, len(g.adj)),
		strength: make([]float64, len(g.adj)),
		edges:    g.edges,
		total:    float64(g.edges),
	}
	for i, arcs := range g.adj {
		s.adj[i] = make([]arc, len(arcs))
		for k, a := range arcs {
			s.adj[i][k] = arc{to: a.to, weight: 1}
		}
		s.strength[i] = float64(len(arcs))
	}
	return s
}

// CompareIDs orders node IDs naturally: integers numerically, everything else
// byte-wise, integers before non-integers.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortIDs sorts ids in place using CompareIDs
func SortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) < 0 })
}

package graph

import (
	"github.com/cockroachdb/errors"

	"schoolnet/cohort/internal/db"
)

// FromDB loads the named network from the store as a Graph.
// Stored nodes without edges become isolated nodes.
func FromDB(d *db.DB, network string) (*Graph, error) {
	if _, err := d.GetNetwork(network); err != nil {
		return nil, err
	}
	dbNodes, err := d.NetworkNodes(network)
	if err != nil {
		return nil, err
	}
	dbEdges, err := d.NetworkEdges(network)
	if err != nil {
		return nil, err
	}

	nodes := make([]string, 0, len(dbNodes))
	for _, n := range dbNodes {
		nodes = append(nodes, n.ID)
	}
	edges := make([]Edge, 0, len(dbEdges))
	for _, e := range dbEdges {
		var w float64
		if e.Weight != nil {
			w = *e.Weight
		}
		edges = append(edges, Edge{Source: e.SourceID, Target: e.TargetID, Weight: w})
	}

	g, err := NewGraph(nodes, edges)
	if err != nil {
		return nil, errors.Wrapf(err, "building network %q", network)
	}
	return g, nil
}

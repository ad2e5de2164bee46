package graph

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidGraph marks every construction-time rejection
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrEmptyGraph is a non-fatal condition: no nodes or no edges.
	// Optimizer and evaluator return trivial results instead of failing.
	ErrEmptyGraph = errors.New("graph has no edges")

	// ErrPartitionMismatch means a partition does not cover exactly the graph's nodes
	ErrPartitionMismatch = errors.New("partition does not match graph")
)

// InvalidGraphError describes a malformed edge or node rejected at construction
type InvalidGraphError struct {
	Source string
	Target string
	Weight float64
	Reason string
}

func (e *InvalidGraphError) Error() string {
	if e.Source == "" && e.Target == "" {
		return fmt.Sprintf("invalid graph: %s", e.Reason)
	}
	return fmt.Sprintf("invalid graph: edge (%q, %q) weight %g: %s", e.Source, e.Target, e.Weight, e.Reason)
}

// Is lets errors.Is match any InvalidGraphError against ErrInvalidGraph
func (e *InvalidGraphError) Is(target error) bool {
	return target == ErrInvalidGraph
}

package graph

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestLouvainInvariants uses property-based testing over random graphs.
// These properties should hold for any input graph.
func TestLouvainInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60

	properties := gopter.NewProperties(parameters)

	properties.Property("partition covers every node exactly once", prop.ForAll(
		func(n int, seed int64, weighted bool) bool {
			g := randomGraph(n, seed, weighted)
			p := Louvain(g, LouvainOptions{Weighted: weighted}).Partition
			if p.Validate(g) != nil {
				return false
			}
			count := 0
			for _, members := range p.Communities() {
				if len(members) == 0 {
					return false
				}
				count += len(members)
			}
			return count == g.NodeCount()
		},
		gen.IntRange(0, 30),
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("optimizer is deterministic", prop.ForAll(
		func(n int, seed int64) bool {
			g := randomGraph(n, seed, true)
			opts := LouvainOptions{Weighted: true}
			a := Louvain(g, opts).Partition.Assignment()
			b := Louvain(g, opts).Partition.Assignment()
			if len(a) != len(b) {
				return false
			}
			for id, c := range a {
				if b[id] != c {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
		gen.Int64(),
	))

	properties.Property("result is no worse than singletons", prop.ForAll(
		func(n int, seed int64, weighted bool) bool {
			g := randomGraph(n, seed, weighted)
			singletons := make(map[string]int)
			for i, id := range g.NodeIDs() {
				singletons[id] = i
			}
			base, err := Modularity(g, NewPartition(singletons), weighted)
			if err != nil {
				return false
			}
			q, err := Modularity(g, Louvain(g, LouvainOptions{Weighted: weighted}).Partition, weighted)
			return err == nil && q >= base-1e-12
		},
		gen.IntRange(1, 30),
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("tracked modularity matches evaluator", prop.ForAll(
		func(n int, seed int64, weighted bool) bool {
			g := randomGraph(n, seed, weighted)
			res := Louvain(g, LouvainOptions{Weighted: weighted})
			q, err := Modularity(g, res.Partition, weighted)
			return err == nil && math.Abs(q-res.Modularity) < 1e-9
		},
		gen.IntRange(0, 30),
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("modularity ignores community labels", prop.ForAll(
		func(n int, seed int64, shift int) bool {
			g := randomGraph(n, seed, true)
			p := Louvain(g, LouvainOptions{Weighted: true}).Partition
			relabeled := make(map[string]int)
			for id, c := range p.Assignment() {
				relabeled[id] = shift - 3*c
			}
			q1, err1 := Modularity(g, p, true)
			q2, err2 := Modularity(g, NewPartition(relabeled), true)
			return err1 == nil && err2 == nil && math.Abs(q1-q2) < 1e-12
		},
		gen.IntRange(0, 30),
		gen.Int64(),
		gen.IntRange(-1000, 1000),
	))

	properties.Property("unweighted evaluation equals stripped graph", prop.ForAll(
		func(n int, seed int64) bool {
			g := randomGraph(n, seed, true)
			p := Louvain(g, LouvainOptions{}).Partition
			qu, err1 := Modularity(g, p, false)
			qs, err2 := Modularity(g.StripWeights(), p, true)
			return err1 == nil && err2 == nil && math.Abs(qu-qs) < 1e-12
		},
		gen.IntRange(0, 30),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

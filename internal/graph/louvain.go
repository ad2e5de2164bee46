package graph

import (
	"math"
	"sort"
)

// Louvain configuration constants.
const (
	// DefaultResolution reproduces classical modularity maximization.
	// Higher values favour more, smaller communities.
	DefaultResolution = 1.0

	// DefaultTolerance stops aggregation once a pass gains no more than this.
	DefaultTolerance = 1e-7

	// DefaultMaxSweeps bounds full sweeps within one local-moving phase.
	DefaultMaxSweeps = 1000

	// DefaultMaxLevels bounds the number of aggregation passes.
	DefaultMaxLevels = 100

	// moveEpsilon is the margin a normalised gain must beat to count as better
	moveEpsilon = 1e-12
)

// LouvainOptions configures the optimizer
type LouvainOptions struct {
	// Weighted uses stored edge weights; otherwise every edge counts as 1.
	Weighted bool

	// Resolution scales the null-model term. Default: 1.0
	Resolution float64

	// Tolerance is the minimum modularity gain for another pass. Default: 1e-7
	Tolerance float64

	// MaxSweeps limits sweeps per local-moving phase. Default: 1000
	MaxSweeps int

	// MaxLevels limits aggregation passes. Default: 100
	MaxLevels int
}

// Validate replaces non-positive values with defaults
func (o *LouvainOptions) Validate() {
	if o.Resolution <= 0 || math.IsNaN(o.Resolution) {
		o.Resolution = DefaultResolution
	}
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxSweeps <= 0 {
		o.MaxSweeps = DefaultMaxSweeps
	}
	if o.MaxLevels <= 0 {
		o.MaxLevels = DefaultMaxLevels
	}
}

// DefaultLouvainOptions returns unweighted classical settings
func DefaultLouvainOptions() LouvainOptions {
	return LouvainOptions{
		Resolution: DefaultResolution,
		Tolerance:  DefaultTolerance,
		MaxSweeps:  DefaultMaxSweeps,
		MaxLevels:  DefaultMaxLevels,
	}
}

// LouvainResult is the optimizer output
type LouvainResult struct {
	// Partition over the original node IDs, canonically numbered.
	Partition *Partition `json:"-"`

	// Modularity as tracked by the optimizer at its own resolution.
	Modularity float64 `json:"modularity"`

	// Levels is the number of local-moving passes that moved at least one node.
	Levels int `json:"levels"`

	// Sweeps counts full node sweeps across all levels.
	Sweeps int `json:"sweeps"`

	// Converged is false when a sweep or level bound cut the run short.
	Converged bool `json:"converged"`
}

// Louvain partitions g by multi-level greedy modularity maximization.
// It is deterministic: nodes are visited in index order and ties between
// candidate communities go to the lowest community identifier. g is not modified.
func Louvain(g *Graph, opts LouvainOptions) *LouvainResult {
	opts.Validate()

	n := g.NodeCount()
	membership := make([]int, n) // original node -> node of the current level
	for i := range membership {
		membership[i] = i
	}

	res := &LouvainResult{Converged: true}
	lvl := newLevel(g, opts.Weighted)

	if lvl.m2 > 0 {
		q := lvl.modularity(membership, n, opts.Resolution)
		for {
			if res.Levels >= opts.MaxLevels {
				res.Converged = false
				break
			}
			comm, moved, sweeps, settled := lvl.localMove(opts.Resolution, opts.MaxSweeps)
			res.Sweeps += sweeps
			if !settled {
				res.Converged = false
			}
			if !moved {
				break
			}
			k := renumber(comm)
			for o := range membership {
				membership[o] = comm[membership[o]]
			}
			res.Levels++

			next := lvl.modularity(comm, k, opts.Resolution)
			gain := next - q
			q = next
			if gain <= opts.Tolerance || k == lvl.size() {
				break
			}
			lvl = lvl.aggregate(comm, k)
		}
		res.Modularity = q
	}

	assign := make(map[string]int, n)
	for o, id := range g.ids {
		assign[id] = membership[o]
	}
	res.Partition = NewPartition(assign).Canonical()
	return res
}

// level is one (possibly aggregated) graph the optimizer works on.
// loop holds self-loop weight, which is twice the internal weight of the
// community a super-node stands for, and counts once toward its degree.
type level struct {
	adj    [][]arc
	loop   []float64
	degree []float64
	m2     float64 // Σ degree = 2L
}

func newLevel(g *Graph, weighted bool) *level {
	n := g.NodeCount()
	l := &level{
		adj:    make([][]arc, n),
		loop:   make([]float64, n),
		degree: make([]float64, n),
	}
	for i, arcs := range g.adj {
		l.adj[i] = make([]arc, len(arcs))
		for k, a := range arcs {
			w := a.weight
			if !weighted {
				w = 1
			}
			l.adj[i][k] = arc{to: a.to, weight: w}
			l.degree[i] += w
		}
		l.m2 += l.degree[i]
	}
	return l
}

func (l *level) size() int { return len(l.adj) }

// localMove runs sweeps from the singleton partition until a sweep moves
// nothing or maxSweeps is reached. settled is false in the latter case.
func (l *level) localMove(gamma float64, maxSweeps int) (comm []int, moved bool, sweeps int, settled bool) {
	n := l.size()
	comm = make([]int, n)
	tot := make([]float64, n)
	for i := range comm {
		comm[i] = i
		tot[i] = l.degree[i]
	}

	weightTo := make([]float64, n)
	mark := make([]int, n) // visit stamp that last touched weightTo[c]
	stamp := 0
	var candidates []int

	for sweeps < maxSweeps {
		moves := 0
		for i := 0; i < n; i++ {
			ki := l.degree[i]
			old := comm[i]

			stamp++
			candidates = candidates[:0]
			for _, a := range l.adj[i] {
				c := comm[a.to]
				if mark[c] != stamp {
					mark[c] = stamp
					weightTo[c] = 0
					candidates = append(candidates, c)
				}
				weightTo[c] += a.weight
			}

			tot[old] -= ki
			var kOld float64
			if mark[old] == stamp {
				kOld = weightTo[old]
			}
			stayGain := l.gain(kOld, tot[old], ki, gamma)

			best, bestGain := -1, math.Inf(-1)
			for _, c := range candidates {
				if c == old {
					continue
				}
				gain := l.gain(weightTo[c], tot[c], ki, gamma)
				if gain > bestGain+moveEpsilon || (math.Abs(gain-bestGain) <= moveEpsilon && c < best) {
					best, bestGain = c, gain
				}
			}

			target := old
			if best >= 0 && bestGain > stayGain+moveEpsilon {
				target = best
				moves++
			}
			comm[i] = target
			tot[target] += ki
		}
		sweeps++
		if moves == 0 {
			return comm, moved, sweeps, true
		}
		moved = true
	}
	return comm, moved, sweeps, false
}

// gain is the normalised benefit of placing a node of degree ki into a
// community with total degree tot, given kIn weight from the node into it.
func (l *level) gain(kIn, tot, ki, gamma float64) float64 {
	return (kIn - gamma*tot*ki/l.m2) / l.m2
}

// modularity evaluates a dense labelling comm with k communities
func (l *level) modularity(comm []int, k int, gamma float64) float64 {
	internal := make([]float64, k)
	degree := make([]float64, k)
	for i, arcs := range l.adj {
		c := comm[i]
		degree[c] += l.degree[i]
		internal[c] += l.loop[i] / 2
		for _, a := range arcs {
			if comm[a.to] == c {
				internal[c] += a.weight / 2
			}
		}
	}
	return quality(internal, degree, l.m2/2, gamma)
}

// aggregate collapses each community of comm into a super-node
func (l *level) aggregate(comm []int, k int) *level {
	cross := make([]map[int]float64, k)
	next := &level{
		adj:    make([][]arc, k),
		loop:   make([]float64, k),
		degree: make([]float64, k),
		m2:     l.m2,
	}
	for i, arcs := range l.adj {
		ci := comm[i]
		next.loop[ci] += l.loop[i]
		for _, a := range arcs {
			cj := comm[a.to]
			if cj == ci {
				next.loop[ci] += a.weight
				continue
			}
			if cross[ci] == nil {
				cross[ci] = make(map[int]float64)
			}
			cross[ci][cj] += a.weight
		}
	}
	for c := 0; c < k; c++ {
		arcs := make([]arc, 0, len(cross[c]))
		for to, w := range cross[c] {
			arcs = append(arcs, arc{to: to, weight: w})
		}
		sort.Slice(arcs, func(x, y int) bool { return arcs[x].to < arcs[y].to })
		next.adj[c] = arcs
		next.degree[c] = next.loop[c]
		for _, a := range arcs {
			next.degree[c] += a.weight
		}
	}
	return next
}

// renumber rewrites comm in place to dense labels 0..k-1 in first-appearance order
func renumber(comm []int) int {
	dense := make(map[int]int)
	for i, c := range comm {
		d, ok := dense[c]
		if !ok {
			d = len(dense)
			dense[c] = d
		}
		comm[i] = d
	}
	return len(dense)
}

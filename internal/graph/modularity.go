package graph

// Modularity computes Q = Σ_c [ L_c/L − (D_c/2L)² ] for partition p of g.
// With weighted false every edge counts as 1 regardless of its stored weight.
// A graph without edges has modularity 0.
func Modularity(g *Graph, p *Partition, weighted bool) (float64, error) {
	return ModularityResolution(g, p, weighted, DefaultResolution)
}

// ModularityResolution is Modularity with the expected-edges term scaled by gamma
func ModularityResolution(g *Graph, p *Partition, weighted bool, gamma float64) (float64, error) {
	if err := p.Validate(g); err != nil {
		return 0, err
	}
	total := g.TotalWeight(weighted)
	if total == 0 {
		return 0, nil
	}

	// Dense community slots in node order keep the summation order fixed
	comm := make([]int, g.NodeCount())
	slot := make(map[int]int)
	for i, id := range g.ids {
		label := p.assign[id]
		s, ok := slot[label]
		if !ok {
			s = len(slot)
			slot[label] = s
		}
		comm[i] = s
	}

	internal := make([]float64, len(slot))
	degree := make([]float64, len(slot))
	for u, arcs := range g.adj {
		cu := comm[u]
		if weighted {
			degree[cu] += g.strength[u]
		} else {
			degree[cu] += float64(len(arcs))
		}
		for _, a := range arcs {
			if a.to <= u || comm[a.to] != cu {
				continue
			}
			if weighted {
				internal[cu] += a.weight
			} else {
				internal[cu]++
			}
		}
	}

	return quality(internal, degree, total, gamma), nil
}

// quality sums the per-community modularity terms.
// internal holds L_c, degree holds D_c, total is L.
func quality(internal, degree []float64, total, gamma float64) float64 {
	if total == 0 {
		return 0
	}
	var q float64
	for c := range internal {
		frac := degree[c] / (2 * total)
		q += internal[c]/total - gamma*frac*frac
	}
	return q
}

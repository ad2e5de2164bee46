package graph

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// TopologyReport summarizes the structure a partition was computed on
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes" yaml:"total_nodes"`
	TotalEdges        int            `json:"total_edges" yaml:"total_edges"`
	TotalWeight       float64        `json:"total_weight" yaml:"total_weight"`
	NumComponents     int            `json:"num_components" yaml:"num_components"`
	LargestComponent  int            `json:"largest_component" yaml:"largest_component"`
	SmallestComponent int            `json:"smallest_component" yaml:"smallest_component"`
	IsolatedCount     int            `json:"isolated_count" yaml:"isolated_count"`
	IsolatedIDs       []string       `json:"isolated_ids" yaml:"isolated_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram" yaml:"degree_histogram"`
}

// ComputeTopology reports components, isolated nodes and the degree
// distribution of g. At most topN isolated IDs are listed.
func ComputeTopology(g *Graph, topN int) *TopologyReport {
	n := g.NodeCount()
	if n == 0 {
		return &TopologyReport{DegreeHistogram: defaultHistogram()}
	}

	uf := newUnionFind(n)
	for u, arcs := range g.adj {
		for _, a := range arcs {
			uf.union(u, a.to)
		}
	}

	sizes := uf.componentSizes()
	largest, smallest := 0, n
	for _, s := range sizes {
		if s > largest {
			largest = s
		}
		if s < smallest {
			smallest = s
		}
	}

	// Isolated: degree == 0, already in natural order
	var isolated []string
	histogram := defaultHistogram()
	for i, id := range g.ids {
		degree := len(g.adj[i])
		if degree == 0 {
			isolated = append(isolated, id)
		}
		histogram[degreeBucket(degree)].Count++
	}
	isolatedCount := len(isolated)
	if topN >= 0 && len(isolated) > topN {
		isolated = isolated[:topN]
	}

	return &TopologyReport{
		TotalNodes:        n,
		TotalEdges:        g.EdgeCount(),
		TotalWeight:       g.TotalWeight(true),
		NumComponents:     len(sizes),
		LargestComponent:  largest,
		SmallestComponent: smallest,
		IsolatedCount:     isolatedCount,
		IsolatedIDs:       isolated,
		DegreeHistogram:   histogram,
	}
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}

package graph

import "sort"

// fragileLinkEdges is the largest cross-edge count for which two communities
// are considered only loosely connected
const fragileLinkEdges = 2

// ArticulationPoint is a node whose removal disconnects its component
type ArticulationPoint struct {
	ID        string `json:"id" yaml:"id"`
	Community int    `json:"community" yaml:"community"`
	Degree    int    `json:"degree" yaml:"degree"`
}

// BridgeEdge is an edge whose removal disconnects its component
type BridgeEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// CrossCommunity is set when the endpoints are in different communities.
	CrossCommunity bool `json:"cross_community" yaml:"cross_community"`
}

// CommunityLink aggregates the edges running between two communities
type CommunityLink struct {
	A       int     `json:"a" yaml:"a"`
	B       int     `json:"b" yaml:"b"`
	Edges   int     `json:"edges" yaml:"edges"`
	Weight  float64 `json:"weight" yaml:"weight"`
	Fragile bool    `json:"fragile" yaml:"fragile"`
}

// BridgeReport describes how the communities of a partition hang together
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points" yaml:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges" yaml:"bridge_edges"`
	Links              []CommunityLink     `json:"links" yaml:"links"`
	APCount            int                 `json:"ap_count" yaml:"ap_count"`
	BridgeCount        int                 `json:"bridge_count" yaml:"bridge_count"`
}

// ComputeBridges finds articulation points and bridge edges of g and the
// edge counts between every pair of communities of p. Lists of points and
// bridges are cut to topN when topN is positive; counts are not.
func ComputeBridges(g *Graph, p *Partition, topN int) *BridgeReport {
	n := g.NodeCount()
	if n == 0 {
		return &BridgeReport{}
	}
	community := func(i int) int {
		c, _ := p.Community(g.ids[i])
		return c
	}

	disc := make([]int, n)
	low := make([]int, n)
	visited := make([]bool, n)
	isAP := make([]bool, n)
	var bridgePairs [][2]int
	counter := 1

	const noParent = -1

	// Iterative Tarjan for each connected component
	type frame struct {
		node, parent, ni int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node

			if top.ni < len(g.adj[node]) {
				child := g.adj[node][top.ni].to
				top.ni++
				if child == top.parent {
					continue
				}
				if visited[child] {
					if disc[child] < low[node] {
						low[node] = disc[child]
					}
					continue
				}
				visited[child] = true
				disc[child] = counter
				low[child] = counter
				counter++
				if node == start {
					rootChildren++
				}
				stack = append(stack, frame{child, node, 0})
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			pn := stack[len(stack)-1].node
			if low[node] < low[pn] {
				low[pn] = low[node]
			}
			if low[node] > disc[pn] {
				bridgePairs = append(bridgePairs, [2]int{pn, node})
			}
			if pn != start && low[node] >= disc[pn] {
				isAP[pn] = true
			}
		}

		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	report := &BridgeReport{}
	for i := 0; i < n; i++ {
		if isAP[i] {
			report.ArticulationPoints = append(report.ArticulationPoints, ArticulationPoint{
				ID:        g.ids[i],
				Community: community(i),
				Degree:    len(g.adj[i]),
			})
		}
	}
	sort.SliceStable(report.ArticulationPoints, func(i, j int) bool {
		return report.ArticulationPoints[i].Degree > report.ArticulationPoints[j].Degree
	})

	sort.Slice(bridgePairs, func(i, j int) bool {
		a, b := bridgePairs[i], bridgePairs[j]
		if a[0] > a[1] {
			a[0], a[1] = a[1], a[0]
		}
		if b[0] > b[1] {
			b[0], b[1] = b[1], b[0]
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	for _, pair := range bridgePairs {
		u, v := pair[0], pair[1]
		if u > v {
			u, v = v, u
		}
		report.BridgeEdges = append(report.BridgeEdges, BridgeEdge{
			Source:         g.ids[u],
			Target:         g.ids[v],
			CrossCommunity: community(u) != community(v),
		})
	}

	report.APCount = len(report.ArticulationPoints)
	report.BridgeCount = len(report.BridgeEdges)
	if topN > 0 {
		if len(report.ArticulationPoints) > topN {
			report.ArticulationPoints = report.ArticulationPoints[:topN]
		}
		if len(report.BridgeEdges) > topN {
			report.BridgeEdges = report.BridgeEdges[:topN]
		}
	}

	report.Links = communityLinks(g, community)
	return report
}

// communityLinks counts edges between each pair of distinct communities,
// loosest pairs first
func communityLinks(g *Graph, community func(int) int) []CommunityLink {
	type pair struct{ a, b int }
	links := make(map[pair]*CommunityLink)
	for u, arcs := range g.adj {
		for _, a := range arcs {
			if a.to <= u {
				continue
			}
			cu, cv := community(u), community(a.to)
			if cu == cv {
				continue
			}
			if cu > cv {
				cu, cv = cv, cu
			}
			key := pair{cu, cv}
			l, ok := links[key]
			if !ok {
				l = &CommunityLink{A: cu, B: cv}
				links[key] = l
			}
			l.Edges++
			l.Weight += a.weight
		}
	}

	out := make([]CommunityLink, 0, len(links))
	for _, l := range links {
		l.Fragile = l.Edges <= fragileLinkEdges
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Edges != out[j].Edges {
			return out[i].Edges < out[j].Edges
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

package graph

// unionFind implements union-find over node indices with path compression and union by rank
type unionFind struct {
	parent []int
	rank   []int
	size   []int
}

// newUnionFind creates n singleton components
func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// find returns the root of the component containing i, with path compression
func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

// union merges the components containing a and b. Returns true if they were separate.
func (uf *unionFind) union(a, b int) bool {
	rootA, rootB := uf.find(a), uf.find(b)
	if rootA == rootB {
		return false
	}
	if uf.rank[rootA] < uf.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	uf.parent[rootB] = rootA
	uf.size[rootA] += uf.size[rootB]
	if uf.rank[rootA] == uf.rank[rootB] {
		uf.rank[rootA]++
	}
	return true
}

// componentSizes returns the size of every component, in root index order
func (uf *unionFind) componentSizes() []int {
	var sizes []int
	for i := range uf.parent {
		if uf.find(i) == i {
			sizes = append(sizes, uf.size[i])
		}
	}
	return sizes
}

// Package depgraph implements the generic directed multigraph shared by
// the SL-CFG and PDG: stable insertion-order integer node indices, an
// identity-keyed node set, (src,dst,kind)-deduplicated edges, and the
// traversal helpers downstream DOT emission needs.
package depgraph

// Edge is a directed edge from Src to Dst carrying a Kind.
type Edge[N comparable, K comparable] struct {
	Src, Dst N
	Kind     K
}

// Graph is a directed multigraph over node identities N with edge
// labels K. Parallel edges of the same (src, dst, kind) are
// deduplicated; everything else is kept.
type Graph[N comparable, K comparable] struct {
	index     map[N]int
	order     []N
	highlight map[N]bool

	out map[N][]Edge[N, K]
	in  map[N][]Edge[N, K]

	// edgeSet dedups by (src, dst, kind).
	edgeSet map[edgeKey[N, K]]struct{}
}

type edgeKey[N comparable, K comparable] struct {
	src, dst N
	kind     K
}

// New returns an empty graph.
func New[N comparable, K comparable]() *Graph[N, K] {
	return &Graph[N, K]{
		index:     make(map[N]int),
		highlight: make(map[N]bool),
		out:       make(map[N][]Edge[N, K]),
		in:        make(map[N][]Edge[N, K]),
		edgeSet:   make(map[edgeKey[N, K]]struct{}),
	}
}

// AddNode inserts n if it is not already present and returns its
// stable, insertion-order index. Idempotent: adding the same node
// twice returns the same index.
func (g *Graph[N, K]) AddNode(n N) int {
	if idx, ok := g.index[n]; ok {
		return idx
	}
	idx := len(g.order)
	g.index[n] = idx
	g.order = append(g.order, n)
	return idx
}

// HasNode reports whether n has been inserted.
func (g *Graph[N, K]) HasNode(n N) bool {
	_, ok := g.index[n]
	return ok
}

// NodeIndex returns n's stable index, or -1 if n was never added.
func (g *Graph[N, K]) NodeIndex(n N) int {
	if idx, ok := g.index[n]; ok {
		return idx
	}
	return -1
}

// Nodes returns all nodes in insertion order.
func (g *Graph[N, K]) Nodes() []N {
	return append([]N(nil), g.order...)
}

// Len returns the number of nodes.
func (g *Graph[N, K]) Len() int {
	return len(g.order)
}

// AddEdge adds a src->dst edge of the given kind, inserting either
// endpoint if necessary. Returns false if the (src, dst, kind) triple
// already exists (no duplicate edge is added).
func (g *Graph[N, K]) AddEdge(src, dst N, kind K) bool {
	g.AddNode(src)
	g.AddNode(dst)

	key := edgeKey[N, K]{src, dst, kind}
	if _, ok := g.edgeSet[key]; ok {
		return false
	}
	g.edgeSet[key] = struct{}{}

	e := Edge[N, K]{src, dst, kind}
	g.out[src] = append(g.out[src], e)
	g.in[dst] = append(g.in[dst], e)
	return true
}

// OutEdges returns n's out-edges in the order they were added.
func (g *Graph[N, K]) OutEdges(n N) []Edge[N, K] {
	return append([]Edge[N, K](nil), g.out[n]...)
}

// InEdges returns n's in-edges in the order they were added.
func (g *Graph[N, K]) InEdges(n N) []Edge[N, K] {
	return append([]Edge[N, K](nil), g.in[n]...)
}

// Edges returns every edge in the graph, in insertion (node-major, then
// per-node add order) order.
func (g *Graph[N, K]) Edges() []Edge[N, K] {
	var all []Edge[N, K]
	for _, n := range g.order {
		all = append(all, g.out[n]...)
	}
	return all
}

// Highlight marks n for downstream visualization. It has no effect on
// analysis results; it exists purely so DOT emission can render
// confirmed-omittable nodes distinctly.
func (g *Graph[N, K]) Highlight(n N) {
	g.highlight[n] = true
}

// IsHighlighted reports whether n was marked via Highlight.
func (g *Graph[N, K]) IsHighlighted(n N) bool {
	return g.highlight[n]
}

// AllPaths returns every simple path (no repeated node) from src to
// dst, via DFS with on-stack cycle avoidance. Used by tests; neither
// DOT emission nor the dependence walker calls it (the walker has its
// own cheaper single-step recursion).
func (g *Graph[N, K]) AllPaths(src, dst N) [][]N {
	var paths [][]N
	onStack := make(map[N]bool)
	var path []N

	var dfs func(n N)
	dfs = func(n N) {
		path = append(path, n)
		onStack[n] = true
		defer func() {
			onStack[n] = false
			path = path[:len(path)-1]
		}()

		if n == dst {
			paths = append(paths, append([]N(nil), path...))
			return
		}
		for _, e := range g.out[n] {
			if !onStack[e.Dst] {
				dfs(e.Dst)
			}
		}
	}
	dfs(src)
	return paths
}

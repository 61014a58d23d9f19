package depgraph

// FindCycles returns every elementary cycle in g, each as a sequence
// of nodes in cycle order starting from its lowest-indexed member
// (which also dedups each cycle to one appearance). It runs a DFS per
// root node that only reports a cycle when the path returns to the
// node it started from, and only counts it if that start node is the
// minimum-indexed node on the cycle.
//
// This is not on the hot path of the dependence walker (which never
// needs full cycle enumeration, only a visited set); it exists for
// the same reason the original did: diagnosing and visualizing loops
// in a graph that is expected to contain them.
func (g *Graph[N, K]) FindCycles() [][]N {
	out := make(map[int][]int)
	for _, n := range g.order {
		src := g.index[n]
		for _, e := range g.out[n] {
			out[src] = append(out[src], g.index[e.Dst])
		}
	}

	var cycles [][]int
	path := []int{}
	onPath := make(map[int]bool)

	var dfs func(root, node int)
	dfs = func(root, node int) {
		if onPath[node] {
			if node == root {
				minNode := node
				for _, n := range path {
					if n < minNode {
						minNode = n
					}
				}
				if minNode == root {
					cycles = append(cycles, append([]int(nil), path...))
				}
			}
			return
		}
		onPath[node] = true
		path = append(path, node)
		for _, next := range out[node] {
			dfs(root, next)
		}
		path = path[:len(path)-1]
		onPath[node] = false
	}
	for root := range out {
		dfs(root, root)
	}

	result := make([][]N, len(cycles))
	for i, cycle := range cycles {
		nodes := make([]N, len(cycle))
		for j, idx := range cycle {
			nodes[j] = g.order[idx]
		}
		result[i] = nodes
	}
	return result
}

// Package postdom builds a post-dominator tree over a function's basic
// blocks. go/ssa ships a dominator tree (BasicBlock.Dominees/Idom) but
// no post-dominator tree, and spec §4.7 needs one to refine
// omissibility. Built with the standard Cooper-Harvey-Kennedy
// iterative dominance algorithm, run over the reversed CFG rooted at a
// virtual exit node that collects every block with no successors.
package postdom

import "golang.org/x/tools/go/ssa"

// node is a post-dominator-tree node: a real basic block, or nil for
// the virtual exit collecting every block with no real successor.
type node = *ssa.BasicBlock

// Tree is a function's post-dominator tree.
type Tree struct {
	idom      map[node]node
	number    map[node]int
	processed map[node]bool
}

// Build computes the post-dominator tree of f.
func Build(f *ssa.Function) *Tree {
	var exits []node
	for _, b := range f.Blocks {
		if len(b.Succs) == 0 {
			exits = append(exits, b)
		}
	}

	// rsuccs(n) are n's successors in the reversed graph, i.e. its
	// predecessors in the real CFG; the virtual root's reversed
	// successors are every real exit block.
	rsuccs := func(n node) []node {
		if n == nil {
			return exits
		}
		return n.Preds
	}
	// rpreds(n) are n's predecessors in the reversed graph, i.e.
	// its successors in the real CFG; a real exit block's only
	// reversed predecessor is the virtual root.
	rpreds := func(n node) []node {
		if n == nil {
			return nil
		}
		if len(n.Succs) == 0 {
			return []node{nil}
		}
		return n.Succs
	}

	post := postorder(nil, rsuccs)
	number := make(map[node]int, len(post))
	for i, n := range post {
		number[n] = i
	}
	order := make([]node, len(post))
	for i, n := range post {
		order[len(post)-1-i] = n
	}

	idom := map[node]node{nil: nil}
	processed := map[node]bool{nil: true}

	changed := true
	for changed {
		changed = false
		for _, n := range order[1:] { // order[0] is the root
			var newIdom node
			first := true
			for _, p := range rpreds(n) {
				if !processed[p] {
					continue
				}
				if first {
					newIdom = p
					first = false
					continue
				}
				newIdom = intersect(newIdom, p, idom, number)
			}
			if first {
				continue // unreachable from the exit
			}
			if !processed[n] || idom[n] != newIdom {
				idom[n] = newIdom
				processed[n] = true
				changed = true
			}
		}
	}

	return &Tree{idom: idom, number: number, processed: processed}
}

func postorder(root node, succs func(node) []node) []node {
	visited := map[node]bool{}
	var post []node
	var visit func(n node)
	visit = func(n node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, s := range succs(n) {
			visit(s)
		}
		post = append(post, n)
	}
	visit(root)
	return post
}

func intersect(a, b node, idom map[node]node, number map[node]int) node {
	for a != b {
		for number[a] < number[b] {
			a = idom[a]
		}
		for number[b] < number[a] {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether a post-dominates b: every path from b to
// the function's exit(s) passes through a. A block unreachable from
// any exit (e.g. stuck in an infinite loop with no break) is
// conservatively reported as post-dominated by nothing but itself.
func (t *Tree) Dominates(a, b node) bool {
	if a == b {
		return true
	}
	if !t.processed[b] {
		return false
	}
	for n := b; ; {
		parent, ok := t.idom[n]
		if !ok {
			return false
		}
		if parent == n {
			return false // reached the virtual root without finding a
		}
		if parent == a {
			return true
		}
		n = parent
	}
}

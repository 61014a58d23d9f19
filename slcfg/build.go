package slcfg

import (
	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/depgraph"
	"github.com/aclements/depanalysis/ir"
)

// Graph is the SL-CFG: a Graph[Node, struct{}] (every edge is CTR, so
// the edge label carries no information).
type Graph = depgraph.Graph[Node, struct{}]

const ctr = struct{}{}

// qualifies reports whether instr belongs in the SL-CFG node set: a
// debug-located store, load, or declaration.
func qualifies(instr ssa.Instruction) bool {
	if !ir.HasDebugLoc(instr) {
		return false
	}
	switch ir.Classify(instr) {
	case ir.Store, ir.Load, ir.Declare:
		return true
	}
	return false
}

// firstQualifying finds the first qualifying instruction reachable by
// walking forward from the start of block b, recursing into b's
// successors if b itself has none. from is the block the search
// originated at (guarded against revisiting, per spec: "guarded
// against revisiting B itself to avoid trivial back-edges") and
// visited guards against looping forever around a cycle of blocks
// that contain no qualifying instruction at all.
func firstQualifying(b *ssa.BasicBlock, from *ssa.BasicBlock, visited map[*ssa.BasicBlock]bool) (ssa.Instruction, bool) {
	if visited[b] {
		return nil, false
	}
	visited[b] = true

	for _, instr := range b.Instrs {
		if qualifies(instr) {
			return instr, true
		}
	}
	for _, s := range b.Succs {
		if s == from {
			continue
		}
		if j, ok := firstQualifying(s, from, visited); ok {
			return j, true
		}
	}
	return nil, false
}

// Build constructs the SL-CFG for f per spec §4.4.
func Build(f *ssa.Function) *Graph {
	g := depgraph.New[Node, struct{}]()
	entry, exit := Entry(), Exit()
	g.AddNode(entry)
	g.AddNode(exit)

	for _, b := range f.Blocks {
		var prev ssa.Instruction
		for _, instr := range b.Instrs {
			if !qualifies(instr) {
				continue
			}
			cur := Real(instr)
			if prev != nil {
				g.AddEdge(Real(prev), cur, ctr)
			} else {
				g.AddNode(cur)
			}
			prev = instr
		}

		if prev == nil {
			continue
		}
		p := Real(prev)

		hasSuccessors := len(b.Succs) > 0
		for _, s := range b.Succs {
			if j, ok := firstQualifying(s, b, map[*ssa.BasicBlock]bool{}); ok {
				g.AddEdge(p, Real(j), ctr)
			}
		}
		if !hasSuccessors && ir.BlockIsLoopEnd(b.Comment) {
			g.AddEdge(p, exit, ctr)
		}
	}

	// Sentinel connection: the simpler "no out-edges -> connect to
	// EXIT" policy together with the for.end sink rule, per the
	// design notes' recommendation (the earlier for.cond/for.inc
	// promotion variants are not implemented; this repo picks one
	// policy and documents it, as §4.4 asks).
	for _, n := range g.Nodes() {
		if n.IsSentinel() {
			continue
		}
		if len(g.InEdges(n)) == 0 {
			g.AddEdge(entry, n, ctr)
		}
		if len(g.OutEdges(n)) == 0 {
			g.AddEdge(n, exit, ctr)
		}
	}

	return g
}

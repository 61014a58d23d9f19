package pdg

import (
	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/depgraph"
	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/postdom"
	"github.com/aclements/depanalysis/slcfg"
)

// ConditionalSets maps each basic block to the data-dependence edges
// of the instructions in that block which the refiner confirmed
// omittable: §4.7's "conditional dependence set", grouped by the
// confirmed instruction's basic block.
type ConditionalSets map[*ssa.BasicBlock][]depgraph.Edge[slcfg.Node, DepKind]

// Refine implements §4.7's post-dominance confirmation pass over every
// instruction I that targets a non-escaped local and isn't already
// omittable: for each of I's RAW/WAR/WAW edges (I may be either
// endpoint), the edge's Dst must precede its Src in program order when
// both share a basic block, or the edge's Src block must post-dominate
// its Dst block otherwise. Control (CTR) edges are not part of this
// check; the walker's anchor -> predecessor orientation (§4.6) makes
// the same-block case trivially true for a genuine data edge, so the
// check meaningfully bites only across blocks, where a path from the
// earlier access to the function's exit can skip the later one. If
// every edge touching I passes, I is promoted to omittable and those
// edges become its conditional dependence set, grouped by I's block.
func Refine(g *Graph, pd *postdom.Tree, sets *locality.Sets, first locality.Omittable) (locality.Omittable, ConditionalSets) {
	out := make(locality.Omittable, len(first))
	for k, v := range first {
		out[k] = v
	}

	cond := make(ConditionalSets)
	for _, n := range g.Nodes() {
		if n.IsSentinel() || out[n.Instr] {
			continue
		}
		addr, ok := ir.AddressOperand(n.Instr)
		if !ok || !sets.IsLocal(addr) {
			continue
		}

		var edges []depgraph.Edge[slcfg.Node, DepKind]
		for _, e := range g.OutEdges(n) {
			if e.Kind != CTR {
				edges = append(edges, e)
			}
		}
		for _, e := range g.InEdges(n) {
			if e.Kind != CTR {
				edges = append(edges, e)
			}
		}

		allOrdered := true
		for _, e := range edges {
			if !edgeOrdered(pd, e) {
				allOrdered = false
				break
			}
		}
		if !allOrdered {
			continue
		}

		out[n.Instr] = true
		if len(edges) > 0 {
			b := n.Instr.Block()
			cond[b] = append(cond[b], edges...)
		}
	}

	return out, cond
}

// edgeOrdered reports whether e's endpoints satisfy §4.7's ordering
// rule: same block requires Dst to precede Src in program order;
// different blocks require Src's block to post-dominate Dst's block.
func edgeOrdered(pd *postdom.Tree, e depgraph.Edge[slcfg.Node, DepKind]) bool {
	src, dst := e.Src.Instr, e.Dst.Instr
	bs, bd := src.Block(), dst.Block()
	if bs == bd {
		return instrIndex(dst) < instrIndex(src)
	}
	return pd.Dominates(bs, bd)
}

// instrIndex returns instr's position within its basic block's
// instruction list, for the in-block program-order comparison.
func instrIndex(instr ssa.Instruction) int {
	b := instr.Block()
	for i, in := range b.Instrs {
		if in == instr {
			return i
		}
	}
	return -1
}

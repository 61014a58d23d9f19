// Package pdg builds the Program Dependence Graph: the SL-CFG's
// control-dependence (CTR) edges plus the data dependences the
// Recursive Dependence Walker discovers (§4.6), and the post-dominance
// confirmation pass that refines the first-pass omissibility
// classification (§4.7).
package pdg

import (
	"github.com/aclements/depanalysis/depgraph"
	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/oracle"
	"github.com/aclements/depanalysis/slcfg"
	"github.com/aclements/depanalysis/trace"
)

// DepKind labels a PDG edge.
type DepKind int

const (
	// CTR is a control-dependence edge, copied straight from the
	// SL-CFG.
	CTR DepKind = iota
	// RAW is a write-then-read (flow) data dependence.
	RAW
	// WAR is a read-then-write (anti) data dependence.
	WAR
	// WAW is a write-then-write (output) data dependence.
	WAW
)

func (k DepKind) String() string {
	switch k {
	case RAW:
		return "RAW"
	case WAR:
		return "WAR"
	case WAW:
		return "WAW"
	default:
		return "CTR"
	}
}

// Graph is the PDG proper.
type Graph = depgraph.Graph[slcfg.Node, DepKind]

func toDepKind(r oracle.Result) DepKind {
	switch r {
	case oracle.Output:
		return WAW
	case oracle.Flow:
		return RAW
	case oracle.Anti:
		return WAR
	default:
		return CTR // unreachable: callers never convert None/Input
	}
}

// Build constructs the PDG for a function whose SL-CFG is cfg, using o
// to classify candidate data dependences.
//
// It performs the outer/inner recursive walk of §4.6: an outer walk
// over the whole SL-CFG (backward from EXIT, guarded by
// already-outer-checked so every node's inner walk runs exactly once)
// and, for each node reached, an inner walk backward over its SL-CFG
// predecessors that stops following a path the moment the oracle
// reports a true dependence (early-return-on-hit), guarded by a fresh
// already-inner-checked set per anchor so a diamond or loop in the
// SL-CFG is never walked more than once for the same anchor. Edges
// point anchor -> predecessor: the later access depends on the
// earlier one.
func Build(cfg *slcfg.Graph, o oracle.Oracle) *Graph {
	return BuildTraced(cfg, o, nil)
}

// BuildTraced is Build, additionally recording into tr (the
// -debugfuncs CLI analog) one node per anchor, with a leaf for each
// oracle hit or declaration stop of that anchor's inner walk. tr may be nil, in
// which case no trace is recorded and BuildTraced behaves exactly like
// Build.
func BuildTraced(cfg *slcfg.Graph, o oracle.Oracle, tr *trace.Tree) *Graph {
	g := depgraph.New[slcfg.Node, DepKind]()
	for _, n := range cfg.Nodes() {
		g.AddNode(n)
	}
	for _, e := range cfg.Edges() {
		g.AddEdge(e.Src, e.Dst, CTR)
	}

	outerChecked := make(map[slcfg.Node]bool)
	var outer func(n slcfg.Node)
	outer = func(n slcfg.Node) {
		if outerChecked[n] {
			return
		}
		outerChecked[n] = true
		for _, e := range cfg.InEdges(n) {
			outer(e.Src)
		}
		if !n.IsSentinel() {
			walkInner(g, cfg, o, n, tr)
		}
	}
	outer(slcfg.Exit())

	return g
}

func walkInner(g *Graph, cfg *slcfg.Graph, o oracle.Oracle, anchor slcfg.Node, tr *trace.Tree) {
	anchorAddr, anchorHasAddr := ir.AddressOperand(anchor.Instr)

	if tr != nil {
		tr.Pushf("anchor %s", anchor)
		defer tr.Pop()
	}

	checked := make(map[slcfg.Node]bool)
	var search func(n slcfg.Node)
	search = func(n slcfg.Node) {
		for _, e := range cfg.InEdges(n) {
			pred := e.Src
			if checked[pred] {
				continue
			}
			checked[pred] = true
			if pred.IsSentinel() {
				continue
			}
			// Case (2) of §4.6: a declaration whose declared
			// address equals the anchor's address operand
			// shadows any earlier definition -- stop here
			// instead of walking past it.
			if declAddr, isDecl := ir.DeclaredAddress(pred.Instr); isDecl {
				if anchorHasAddr && declAddr == anchorAddr {
					if tr != nil {
						tr.Leaff("%s shadows anchor, stop", pred)
					}
					continue
				}
				if tr != nil {
					tr.SetEdge("declare, continue")
				}
				search(pred)
				continue
			}
			res := o.Query(pred.Instr, anchor.Instr)
			switch res {
			case oracle.None, oracle.Input:
				if tr != nil {
					tr.SetEdge(res.String())
				}
				search(pred)
			default:
				if tr != nil {
					tr.Leaff("%s -> %s (%s), hit", anchor, pred, res)
				}
				g.AddEdge(anchor, pred, toDepKind(res))
			}
		}
	}
	search(anchor)
}

// Package emit renders the analyzer's outputs in the formats the
// original dependence-analysis LLVM pass produced: a DOT graph per
// function, an instruction-info side file for load/store nodes that
// end up isolated (no in- or out-edges), an append-only
// ignored-instructions log, and a cross-file dependence map keyed by
// "fileID:line". These are grounded directly on
// PDG::dumpToDot/dumpInstructionInfo/getDPDepMap in the original
// source.
package emit

import (
	"fmt"
	"go/token"
	"io"

	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/pdg"
	"github.com/aclements/depanalysis/slcfg"
)

// nodeLabel is PDG::nodeLabel ported to Go: the node index, then
// write(name)/read(name), then the line and column the instruction
// carries. Declarations get their own label in writeDotNodes.
func nodeLabel(fset *token.FileSet, g *pdg.Graph, n slcfg.Node) string {
	idx := g.NodeIndex(n)
	var kind string
	switch ir.Classify(n.Instr) {
	case ir.Store:
		kind = "write"
	case ir.Load:
		kind = "read"
	default:
		return fmt.Sprintf("%d", idx)
	}
	name := ir.NormalizeName(varName(n.Instr))
	pos := fset.Position(n.Instr.Pos())
	return fmt.Sprintf("%d\\n%s(%s) %d, %d", idx, kind, name, pos.Line, pos.Column)
}

func varName(instr ssa.Instruction) string {
	addr, ok := ir.AddressOperand(instr)
	if !ok {
		return "n/a"
	}
	return ir.VarName(addr)
}

// WritePDGDot renders the PDG of one function as a Graphviz DOT graph,
// highlighting confirmed-omittable nodes in red, the way the original
// tool highlighted nodes marked via Node::setHighlighted.
func WritePDGDot(w io.Writer, fset *token.FileSet, g *pdg.Graph, omit locality.Omittable) {
	fmt.Fprint(w, "digraph g {\n")

	for _, n := range g.Nodes() {
		idx := g.NodeIndex(n)
		switch {
		case n.Kind == slcfg.EntryKind:
			fmt.Fprintf(w, "\t%q [label=entry];\n", fmt.Sprint(idx))
		case n.Kind == slcfg.ExitKind:
			fmt.Fprintf(w, "\t%q [label=exit];\n", fmt.Sprint(idx))
		case !ir.HasDebugLoc(n.Instr):
			// no debug location: the original tool skips
			// these nodes entirely in dumpToDot.
		case ir.Classify(n.Instr) == ir.Store || ir.Classify(n.Instr) == ir.Load:
			style := ""
			if g.IsHighlighted(n) || omit[n.Instr] {
				style = ",style=filled,fillcolor=red"
			}
			fmt.Fprintf(w, "\t%q [label=%q%s];\n", fmt.Sprint(idx), nodeLabel(fset, g, n), style)
		case ir.Classify(n.Instr) == ir.Declare:
			pos := fset.Position(n.Instr.Pos())
			name := ir.NormalizeName(varName(n.Instr))
			label := fmt.Sprintf("%d\\ndeclare(%s): %d,%d", idx, name, pos.Line, pos.Column)
			fmt.Fprintf(w, "\t%q [label=%q,shape=rectangle,fillcolor=wheat,style=filled];\n", fmt.Sprint(idx), label)
		}
	}

	fmt.Fprint(w, "\n")

	for _, e := range g.Edges() {
		srcIdx, dstIdx := g.NodeIndex(e.Src), g.NodeIndex(e.Dst)
		switch e.Kind {
		case pdg.RAW, pdg.WAR, pdg.WAW:
			if varName(e.Src.Instr) == varName(e.Dst.Instr) {
				fmt.Fprintf(w, "\t%q -> %q [label=%q];\n", fmt.Sprint(srcIdx), fmt.Sprint(dstIdx), "")
			}
		case pdg.CTR:
			fmt.Fprintf(w, "\t%q -> %q [style=dotted];\n", fmt.Sprint(srcIdx), fmt.Sprint(dstIdx))
		}
	}

	fmt.Fprint(w, "}\n")
}

// WriteSLCFGDot renders the SL-CFG alone, before any data-dependence
// edges are added, useful for debugging §4.4 in isolation.
func WriteSLCFGDot(w io.Writer, fset *token.FileSet, g *slcfg.Graph) {
	fmt.Fprint(w, "digraph g {\n")
	for _, n := range g.Nodes() {
		idx := g.NodeIndex(n)
		switch n.Kind {
		case slcfg.EntryKind:
			fmt.Fprintf(w, "\t%q [label=entry];\n", fmt.Sprint(idx))
		case slcfg.ExitKind:
			fmt.Fprintf(w, "\t%q [label=exit];\n", fmt.Sprint(idx))
		default:
			pos := fset.Position(n.Instr.Pos())
			name := ir.NormalizeName(varName(n.Instr))
			fmt.Fprintf(w, "\t%q [label=\"%d\\n%s %d,%d\"];\n", fmt.Sprint(idx), idx, name, pos.Line, pos.Column)
		}
	}
	fmt.Fprint(w, "\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(w, "\t%q -> %q [style=dotted];\n", fmt.Sprint(g.NodeIndex(e.Src)), fmt.Sprint(g.NodeIndex(e.Dst)))
	}
	fmt.Fprint(w, "}\n")
}

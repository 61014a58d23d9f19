package emit

import (
	"fmt"
	"go/token"
	"io"

	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/pdg"
)

// writeInstrLine writes instr's "w|name|line|col" or "r|name|line|col"
// line to w, the wire format both WriteInstructionInfo and
// WriteOmittedInstructions share. It reports whether a line was
// written at all: instr must carry a debug location and classify as a
// load or store.
func writeInstrLine(w io.Writer, fset *token.FileSet, instr ssa.Instruction) bool {
	if !ir.HasDebugLoc(instr) {
		return false
	}
	isWrite := ir.Classify(instr) == ir.Store
	if !isWrite && ir.Classify(instr) != ir.Load {
		return false
	}
	tag := "r"
	if isWrite {
		tag = "w"
	}
	pos := fset.Position(instr.Pos())
	fmt.Fprintf(w, "%s|%s|%d|%d\n", tag, ir.NormalizeName(varName(instr)), pos.Line, pos.Column)
	return true
}

// WriteInstructionInfo writes one "w|name|line|col" or "r|name|line|col"
// line per real node that ends up with neither an in-edge nor an
// out-edge in the PDG: a load or store the graph otherwise has nothing
// to say about. The SL-CFG's sentinel-connection pass (§4.4) gives
// every real node at least one edge in each direction, so this
// ordinarily writes nothing; the format is kept for parity with
// PDG::dumpInstructionInfo; the check still matters once the
// post-dominance refiner (§4.7) is free to prune CTR edges that later
// turn out to be entirely redundant, a generalization this repo
// doesn't implement.
func WriteInstructionInfo(w io.Writer, fset *token.FileSet, g *pdg.Graph) {
	for _, n := range g.Nodes() {
		if n.IsSentinel() {
			continue
		}
		if len(g.InEdges(n)) != 0 || len(g.OutEdges(n)) != 0 {
			continue
		}
		writeInstrLine(w, fset, n.Instr)
	}
}

// WriteOmittedInstructions appends the file §6(d) describes: an
// append-only log receiving one line, in WriteInstructionInfo's own
// "w|name|line|col"/"r|name|line|col" format, per instruction that the
// first pass or the post-dominance refiner confirmed omittable. Unlike
// WriteInstructionInfo (which reports on PDG connectivity), this
// iterates the omissibility verdict directly, so it also covers
// instructions the PDG still wired up with edges that the refiner
// determined were never actually load-bearing.
func WriteOmittedInstructions(w io.Writer, fset *token.FileSet, g *pdg.Graph, omit locality.Omittable) {
	for _, n := range g.Nodes() {
		if n.IsSentinel() || !omit[n.Instr] {
			continue
		}
		writeInstrLine(w, fset, n.Instr)
	}
}

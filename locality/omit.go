package locality

import (
	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/ir"
)

// Omittable is the core's headline output: the set of load/store
// instructions whose tracing can safely be elided. It only grows as
// the pipeline runs (§4.3 first pass, then §4.7's post-dominance
// refinement).
type Omittable map[ssa.Instruction]bool

// ClassifyFirstPass implements §4.3's first pass over every load/store
// in f: an instruction with no debug location is always omittable
// (compiler-synthesized, carries no source-line identity downstream);
// otherwise it is omittable iff its address operand is a local that
// was never written through a debug-located store.
//
// This is the later, looser policy from the design notes' Open
// Question (3): a written-but-never-escaped local remains eligible for
// confirmation by the post-dominance refiner (§4.7) rather than being
// permanently excluded, which the earlier "declareMap[v] = true on any
// write" variant would have done.
func ClassifyFirstPass(f *ssa.Function, s *Sets) Omittable {
	omit := make(Omittable)
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			switch ir.Classify(instr) {
			case ir.Store, ir.Load:
			default:
				continue
			}
			if !ir.HasDebugLoc(instr) {
				omit[instr] = true
				continue
			}
			v, ok := ir.AddressOperand(instr)
			if !ok {
				continue
			}
			if s.IsLocal(v) && !s.WrittenLocals[v] {
				omit[instr] = true
			}
		}
	}
	return omit
}

// Package locality implements §4.1 (Locality Sets Builder), §4.2
// (Escape Filter), and the first pass of §4.3 (Omissibility
// Classifier) from the dependence analyzer spec.
package locality

import (
	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/ir"
)

// Sets holds the per-function locality state. Mutated only while
// Build/filterEscapes run; frozen thereafter.
type Sets struct {
	Locals        map[ssa.Value]bool
	WrittenLocals map[ssa.Value]bool
}

// Build computes (locals, written_locals) for f per §4.1, then applies
// the escape filter (§4.2). The function is pure and order-independent
// over the instruction stream.
func Build(f *ssa.Function) *Sets {
	s := &Sets{
		Locals:        make(map[ssa.Value]bool),
		WrittenLocals: make(map[ssa.Value]bool),
	}

	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			switch ir.Classify(instr) {
			case ir.Declare:
				if v, ok := ir.DeclaredAddress(instr); ok {
					s.Locals[v] = true
				}
			case ir.ValueBind:
				if v, ok := ir.BoundValue(instr); ok {
					s.Locals[v] = true
				}
			case ir.Store:
				// Stores without a debug location are
				// compiler-synthesized parameter-init
				// copies, not user writes: they must not
				// contribute to written_locals. This
				// distinction is load-bearing for
				// correctness (§4.1). A store at its own
				// Alloc's declaration position is that
				// declaration's initializer (x := 3), not
				// a later write, and is not counted either.
				if ir.HasDebugLoc(instr) {
					if v, ok := ir.AddressOperand(instr); ok {
						if a, isAlloc := v.(*ssa.Alloc); isAlloc && a.Pos() == instr.Pos() {
							continue
						}
						s.WrittenLocals[v] = true
					}
				}
			}
		}
	}

	filterEscapes(f, s)
	return s
}

// filterEscapes implements §4.2: remove from locals any value passed
// by reference to a call or returned from the function.
//
// Iterating only CallArgs (not the callee value) is the stricter of
// the two interpretations the original tool's variants disagreed on
// (one used getNumOperands()-1, effectively skipping the callee
// operand; the other iterated every operand including it). The
// stricter interpretation is specified: the called function value is
// a use of the function, not an aliasing escape of a local.
func filterEscapes(f *ssa.Function, s *Sets) {
	for _, b := range f.Blocks {
		for _, instr := range b.Instrs {
			for _, arg := range ir.CallArgs(instr) {
				delete(s.Locals, arg)
			}
			for _, ret := range ir.ReturnOperands(instr) {
				delete(s.Locals, ret)
			}
		}
	}
}

// IsLocal reports whether v is a non-escaped local.
func (s *Sets) IsLocal(v ssa.Value) bool {
	return s.Locals[v]
}

// IsWrittenLocal reports whether v is a non-escaped local that was
// written through at least one debug-located store.
func (s *Sets) IsWrittenLocal(v ssa.Value) bool {
	return s.Locals[v] && s.WrittenLocals[v]
}

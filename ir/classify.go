// Package ir classifies golang.org/x/tools/go/ssa instructions into the
// categories the dependence analyzer cares about, and isolates the
// name-normalization heuristics the rest of the analyzer needs (see
// "Name normalization" in the design notes: these heuristics should live
// behind one module rather than scattered through the pipeline).
package ir

import (
	"go/token"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// Category is the opcode category a memory-relevant instruction falls
// into.
type Category int

const (
	Other Category = iota
	Declare
	ValueBind
	Store
	Load
	Call
	Return
	GetElementPtr
	SignExtend
)

func (c Category) String() string {
	switch c {
	case Declare:
		return "declare"
	case ValueBind:
		return "value-bind"
	case Store:
		return "store"
	case Load:
		return "load"
	case Call:
		return "call"
	case Return:
		return "return"
	case GetElementPtr:
		return "getelementptr"
	case SignExtend:
		return "sign-extend"
	default:
		return "other"
	}
}

// Classify returns the opcode category of instr.
//
// Loads are *ssa.UnOp with Op==token.MUL: go/ssa represents the
// dereference "*p" as a unary MUL, the same way knil and other
// SSA-consuming analyzers in the ecosystem recognize a load.
func Classify(instr ssa.Instruction) Category {
	switch v := instr.(type) {
	case *ssa.Alloc:
		return Declare
	case *ssa.DebugRef:
		if !v.IsAddr {
			return ValueBind
		}
		return Other
	case *ssa.Store:
		return Store
	case *ssa.UnOp:
		if v.Op == token.MUL {
			return Load
		}
		return Other
	case *ssa.Call, *ssa.Go, *ssa.Defer:
		return Call
	case *ssa.Return:
		return Return
	case *ssa.FieldAddr, *ssa.IndexAddr:
		return GetElementPtr
	case *ssa.Convert:
		return SignExtend
	default:
		return Other
	}
}

// IsMemoryAccess reports whether instr is a load or a store.
func IsMemoryAccess(instr ssa.Instruction) bool {
	switch Classify(instr) {
	case Store, Load:
		return true
	}
	return false
}

// HasDebugLoc reports whether instr carries a source position. Stores
// without one are compiler-synthesized (e.g. the implicit copy-in of an
// address-taken parameter) and must not be treated as user writes; see
// locality.Build.
func HasDebugLoc(instr ssa.Instruction) bool {
	return instr.Pos() != token.NoPos
}

// AddressOperand returns the address operand of a store or load: the
// pointer being written to, or the pointer being dereferenced. ok is
// false for any other instruction.
func AddressOperand(instr ssa.Instruction) (v ssa.Value, ok bool) {
	switch i := instr.(type) {
	case *ssa.Store:
		return i.Addr, true
	case *ssa.UnOp:
		if i.Op == token.MUL {
			return i.X, true
		}
	}
	return nil, false
}

// DeclaredAddress returns the address value a declare instruction
// introduces.
func DeclaredAddress(instr ssa.Instruction) (v ssa.Value, ok bool) {
	if a, isAlloc := instr.(*ssa.Alloc); isAlloc {
		return a, true
	}
	return nil, false
}

// BoundValue returns the value a value-bind instruction introduces.
func BoundValue(instr ssa.Instruction) (v ssa.Value, ok bool) {
	if d, isRef := instr.(*ssa.DebugRef); isRef && !d.IsAddr {
		return d.X, true
	}
	return nil, false
}

// CallArgs returns the argument operands of a call-family instruction,
// not including the callee value itself. The stricter of the two
// variants the original tool's escape filter disagreed on: the callee
// value is a use of the function, not an alias of an escaping local, so
// it must not be treated as an escaping argument.
func CallArgs(instr ssa.Instruction) []ssa.Value {
	switch i := instr.(type) {
	case *ssa.Call:
		return i.Call.Args
	case *ssa.Go:
		return i.Call.Args
	case *ssa.Defer:
		return i.Call.Args
	}
	return nil
}

// ReturnOperands returns the result operands of a return instruction.
func ReturnOperands(instr ssa.Instruction) []ssa.Value {
	if r, ok := instr.(*ssa.Return); ok {
		return r.Results
	}
	return nil
}

// BlockIsLoopEnd reports whether a basic block's name marks it as a
// loop-exit region with no fallthrough successor, per the SL-CFG
// sentinel-attachment policy (see slcfg.Build).
//
// The original LLVM-based tool matched on "for.end", clang's name for
// a loop-exit block. go/ssa's builder names the same block
// "for.done" (see its for/range-statement lowering), so that is what
// this checks; "for.end" is still accepted in case an analyzed
// package's own SSA carries a block named that way some other way.
func BlockIsLoopEnd(name string) bool {
	return strings.Contains(name, "for.done") || strings.Contains(name, "for.end")
}

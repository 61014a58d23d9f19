// Package oracle answers "do these two memory accesses touch the same
// location, and if so in which direction does the dependence run"
// queries for the dependence walker (§4.6).
//
// A full abstract interpreter (a persistent frame/heap binding chain)
// could answer this precisely, but a general dependence analyzer over
// arbitrary programs can't afford that: it would need points-to
// analysis across every call site to be sound. This package trims the
// idea down to what can be answered locally and cheaply -- identity of
// the address value itself, plus constant-index and constant-field
// disambiguation over a common base -- and otherwise reports the two
// addresses as independent, per spec §3's invariant that a dependence
// edge is never emitted between two instructions whose address
// operands are distinct IR values with no provable relationship.
package oracle

import (
	"go/constant"
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/ir"
)

// Result classifies the kind of dependence an oracle finds between an
// earlier instruction src and a later instruction dst that may access
// the same location.
type Result int

const (
	// None means src and dst provably never touch the same
	// location: no dependence at all.
	None Result = iota
	// Output is a write-after-write (WAW) dependence.
	Output
	// Flow is a write-then-read (RAW) dependence.
	Flow
	// Anti is a read-then-write (WAR) dependence.
	Anti
	// Input is a read-then-read (RAR) "dependence" -- not a true
	// ordering constraint, but tracked the way the original tool
	// tracks it, since the walker still wants to know accesses
	// share a location.
	Input
)

func (r Result) String() string {
	switch r {
	case Output:
		return "WAW"
	case Flow:
		return "RAW"
	case Anti:
		return "WAR"
	case Input:
		return "RAR"
	default:
		return "none"
	}
}

// Oracle answers whether two memory-access instructions depend on
// each other and, if so, in which direction.
type Oracle interface {
	Query(src, dst ssa.Instruction) Result
}

// ValueOracle is the default Oracle: it compares address operands
// structurally, recognizing identical values, and constant indices
// and struct fields that provably diverge.
type ValueOracle struct{}

// Query implements Oracle.
func (ValueOracle) Query(src, dst ssa.Instruction) Result {
	srcAddr, ok := ir.AddressOperand(src)
	if !ok {
		return None
	}
	dstAddr, ok := ir.AddressOperand(dst)
	if !ok {
		return None
	}
	if !mayAlias(srcAddr, dstAddr) {
		return None
	}

	srcWrite := ir.Classify(src) == ir.Store
	dstWrite := ir.Classify(dst) == ir.Store
	switch {
	case srcWrite && dstWrite:
		return Output
	case srcWrite && !dstWrite:
		return Flow
	case !srcWrite && dstWrite:
		return Anti
	default:
		return Input
	}
}

// mayAlias reports whether a and b could denote the same memory
// location. Per spec §3's invariant, a RAW/WAR/WAW edge is never
// emitted between two instructions whose address operands are
// distinct IR values: two addresses only may-alias when they are
// identical, or are IndexAddr/FieldAddr chains over a common,
// provably-related base. Anything else -- two unrelated Allocs, an
// Alloc against a parameter, mismatched chain shapes -- is reported as
// definitely not aliasing rather than conservatively aliasing.
func mayAlias(a, b ssa.Value) bool {
	if a == b {
		return true
	}

	ia, aIsIndex := a.(*ssa.IndexAddr)
	ib, bIsIndex := b.(*ssa.IndexAddr)
	if aIsIndex && bIsIndex {
		if !mayAlias(ia.X, ib.X) {
			return false
		}
		if ca, ok := ia.Index.(*ssa.Const); ok {
			if cb, ok := ib.Index.(*ssa.Const); ok {
				if ca.Value != nil && cb.Value != nil {
					return constant.Compare(ca.Value, token.EQL, cb.Value)
				}
			}
		}
		return true
	}

	fa, aIsField := a.(*ssa.FieldAddr)
	fb, bIsField := b.(*ssa.FieldAddr)
	if aIsField && bIsField {
		if fa.Field != fb.Field {
			return false
		}
		return mayAlias(fa.X, fb.X)
	}

	return false
}

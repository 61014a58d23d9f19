// Package slcfg builds the Store/Load control-flow graph (SL-CFG): the
// sparse successor graph restricted to debug-located memory accesses
// and variable declarations, per spec §4.4.
package slcfg

import "golang.org/x/tools/go/ssa"

// Kind distinguishes the two synthetic sentinels from a real
// instruction node.
type Kind int

const (
	RealKind Kind = iota
	EntryKind
	ExitKind
)

// Node is a tagged variant { Entry, Exit, Real(I) }, the design notes'
// recommended replacement for the original tool's sentinel pointer
// casts ((Instruction*)ENTRY = 1000000 etc.): a re-implementation
// should model sentinels as a proper sum type, not pointer arithmetic.
//
// Node is comparable (Kind plus an interface value) so it can key a
// depgraph.Graph directly.
type Node struct {
	Kind  Kind
	Instr ssa.Instruction
}

// Entry is the synthetic SL-CFG/PDG entry sentinel.
func Entry() Node { return Node{Kind: EntryKind} }

// Exit is the synthetic SL-CFG/PDG exit sentinel.
func Exit() Node { return Node{Kind: ExitKind} }

// Real wraps a real load/store/declaration instruction as a node.
func Real(instr ssa.Instruction) Node { return Node{Kind: RealKind, Instr: instr} }

// IsSentinel reports whether n is ENTRY or EXIT.
func (n Node) IsSentinel() bool { return n.Kind != RealKind }

func (n Node) String() string {
	switch n.Kind {
	case EntryKind:
		return "ENTRY"
	case ExitKind:
		return "EXIT"
	default:
		if n.Instr == nil {
			return "<nil>"
		}
		return n.Instr.String()
	}
}

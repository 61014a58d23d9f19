// Package recursion flags functions reachable from themselves through
// the static call graph. The orchestrator records the flag in each
// function's result and in its -v banner; it does not change how the
// function is analyzed.
//
// This uses golang.org/x/tools/go/callgraph/cha to build a sound
// (over-approximate, class-hierarchy-analysis) whole-program call
// graph from SSA, including indirect and interface calls, rather than
// a hand-rolled AST walk that would need its own handling for
// closures and indirect calls to stay sound.
package recursion

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/ssa"
)

// Analyzer reports, for every function in the package, whether it is
// reachable from itself in the package's call graph.
var Analyzer = &analysis.Analyzer{
	Name:       "deprecursion",
	Doc:        "determines which functions may be (directly or transitively) self-recursive",
	Run:        run,
	ResultType: reflect.TypeOf(Result(nil)),
	Requires:   []*analysis.Analyzer{buildssa.Analyzer},
}

// Result maps each analyzed function to whether it may recurse.
type Result map[*ssa.Function]bool

func run(pass *analysis.Pass) (interface{}, error) {
	ssainfo := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)

	prog := ssainfo.Pkg.Prog
	cg := cha.CallGraph(prog)

	res := Result{}
	for _, fn := range ssainfo.SrcFuncs {
		res[fn] = isSelfRecursive(cg, fn)
	}
	return res, nil
}

// isSelfRecursive reports whether fn can reach itself by following
// one or more call edges out of cg.
func isSelfRecursive(cg *callgraph.Graph, fn *ssa.Function) bool {
	node := cg.Nodes[fn]
	if node == nil {
		return false
	}

	visited := map[*callgraph.Node]bool{}
	var visit func(n *callgraph.Node) bool
	visit = func(n *callgraph.Node) bool {
		for _, e := range n.Out {
			if e.Callee == node {
				return true
			}
			if visited[e.Callee] {
				continue
			}
			visited[e.Callee] = true
			if visit(e.Callee) {
				return true
			}
		}
		return false
	}
	return visit(node)
}

// Package directive collects //go:dep-omit and //go:dep-no-omit
// source pragmas, the analyzer's escape hatch for functions whose
// omissibility the rest of the pipeline should not second-guess.
package directive

import (
	"go/ast"
	"reflect"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Omit and NoOmit are the two directives this package recognizes.
const (
	Omit   = "//go:dep-omit"
	NoOmit = "//go:dep-no-omit"
)

// Analyzer collects directives attached to each function declaration
// in the files under analysis.
var Analyzer = &analysis.Analyzer{
	Name:       "depdirectives",
	Doc:        "collect //go:dep-omit and //go:dep-no-omit directives for function declarations",
	Run:        run,
	ResultType: reflect.TypeOf(Result(nil)),
}

// Result maps a function declaration to the directives found directly
// above it.
type Result map[*ast.FuncDecl][]string

func run(pass *analysis.Pass) (interface{}, error) {
	res := Result{}
	for _, f := range pass.Files {
		cgs := f.Comments
		for _, decl := range f.Decls {
			var directives []string
			for len(cgs) > 0 && cgs[0].Pos() < decl.Pos() {
				for _, c := range cgs[0].List {
					if strings.HasPrefix(c.Text, Omit) || strings.HasPrefix(c.Text, NoOmit) {
						directives = append(directives, strings.TrimSpace(c.Text))
					}
				}
				cgs = cgs[1:]
			}
			for len(cgs) > 0 && cgs[0].Pos() < decl.End() {
				cgs = cgs[1:]
			}
			if fdecl, ok := decl.(*ast.FuncDecl); ok && len(directives) > 0 {
				res[fdecl] = directives
			}
		}
	}
	return res, nil
}

// Has reports whether directives for a function include name.
func Has(directives []string, name string) bool {
	for _, d := range directives {
		if d == name {
			return true
		}
	}
	return false
}

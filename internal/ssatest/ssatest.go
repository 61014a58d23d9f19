// Package ssatest builds tiny golang.org/x/tools/go/ssa programs from
// inline source for the core packages' unit tests, the standard
// pattern the ecosystem uses to test SSA-consuming analyzers without
// needing a real on-disk module (see also golang.org/x/tools/go/ssa's
// own tests and the various go/analysis SSA-based checkers).
package ssatest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Build parses and type-checks src as a single-file package named p,
// builds its SSA form, and returns the named function plus the
// FileSet needed to resolve debug locations.
//
// The build uses ssa.NaiveForm (disabling the lifting/mem2reg pass
// that go/ssa otherwise runs) together with ssa.GlobalDebug. Without
// NaiveForm, go/ssa promotes every local whose address is never taken
// straight into registers, leaving no *ssa.Alloc/*ssa.Store/*ssa.UnOp
// trail at all -- the opposite of the un-optimized, every-local-has-
// an-address IR this analyzer needs to walk. GlobalDebug additionally
// emits *ssa.DebugRef instructions, the value-binding intrinsic the
// analyzer tracks.
func Build(t *testing.T, src, name string) (*ssa.Function, *token.FileSet) {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tc := &types.Config{Importer: importer.Default()}
	pkg := types.NewPackage("p", "")
	ssapkg, _, err := ssautil.BuildPackage(tc, fset, pkg, []*ast.File{file}, ssa.GlobalDebug|ssa.NaiveForm)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ssapkg.Build()

	fn := ssapkg.Func(name)
	if fn == nil {
		t.Fatalf("function %q not found in built package", name)
	}
	return fn, fset
}

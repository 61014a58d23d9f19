package analysis

import (
	"go/ast"
	"testing"

	"github.com/aclements/depanalysis/counters"
	"github.com/aclements/depanalysis/directive"
	"github.com/aclements/depanalysis/internal/ssatest"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/oracle"
	"github.com/aclements/depanalysis/pdg"
	"github.com/aclements/depanalysis/postdom"
	"github.com/aclements/depanalysis/slcfg"
)

// End-to-end smoke test of the pipeline run() wires together, without
// standing up a full analysis.Pass (which needs a real on-disk module
// to load via go/packages). This exercises the same call sequence
// run() makes.
func TestPipelineEndToEnd(t *testing.T) {
	fn, _ := ssatest.Build(t, `package p

func use(x int) {}

func Target(cond bool) {
	var x int
	if cond {
		x = 1
	} else {
		x = 2
	}
	use(x)
}
`, "Target")

	sets := locality.Build(fn)
	first := locality.ClassifyFirstPass(fn, sets)

	cfg := slcfg.Build(fn)
	g := pdg.Build(cfg, oracle.ValueOracle{})
	pd := postdom.Build(fn)
	refined, cond := pdg.Refine(g, pd, sets, first)

	if refined == nil {
		t.Fatal("expected a non-nil refined omittable set")
	}
	_ = cond

	c := &counters.Counters{}
	countInstrs(fn, refined, c)
	if c.Total() == 0 {
		t.Error("expected a non-zero total instruction count")
	}
}

func TestSkipByDirective(t *testing.T) {
	fdecl := &ast.FuncDecl{Name: ast.NewIdent("Target")}
	dirs := directive.Result{fdecl: {directive.NoOmit}}

	fn, _ := ssatest.Build(t, `package p

func Target() int {
	return 1
}
`, "Target")

	if !skipByDirective(fn, dirs) {
		t.Error("expected Target to be skipped by //go:dep-no-omit")
	}

	dirs2 := directive.Result{fdecl: {directive.Omit}}
	if skipByDirective(fn, dirs2) {
		t.Error("//go:dep-omit alone should not skip the function")
	}
}

package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aclements/depanalysis/internal/ssatest"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/oracle"
	"github.com/aclements/depanalysis/pdg"
	"github.com/aclements/depanalysis/postdom"
	"github.com/aclements/depanalysis/slcfg"
)

func TestWritePDGDotContainsEntryExit(t *testing.T) {
	fn, fset := ssatest.Build(t, `package p

func Target() int {
	x := 1
	return x
}
`, "Target")

	cfg := slcfg.Build(fn)
	g := pdg.Build(cfg, oracle.ValueOracle{})
	sets := locality.Build(fn)
	omit := locality.ClassifyFirstPass(fn, sets)

	var buf bytes.Buffer
	WritePDGDot(&buf, fset, g, omit)
	out := buf.String()

	if !strings.Contains(out, "digraph g {") {
		t.Error("missing DOT header")
	}
	if !strings.Contains(out, "label=entry") {
		t.Error("missing entry node")
	}
	if !strings.Contains(out, "label=exit") {
		t.Error("missing exit node")
	}
}

func TestDepMapRoundTrip(t *testing.T) {
	fn, fset := ssatest.Build(t, `package p

func use(x int) {}

func Target() {
	var x int
	x = 1
	x = 2
	use(x)
}
`, "Target")

	cfg := slcfg.Build(fn)
	g := pdg.Build(cfg, oracle.ValueOracle{})

	depMap := BuildDepMap(g, fset, nil)
	if len(depMap) == 0 {
		t.Fatal("expected at least one dependence map entry")
	}

	var buf bytes.Buffer
	WriteDepMap(&buf, depMap)
	if buf.Len() == 0 {
		t.Fatal("expected non-empty depmap output")
	}
}

// WriteOmittedInstructions is §6(d)'s ignoring_intructions.txt dump: one
// w|name|line|col or r|name|line|col line per instruction the refiner
// confirmed omittable.
func TestWriteOmittedInstructions(t *testing.T) {
	fn, fset := ssatest.Build(t, `package p

func use(x int) {}

func Target() {
	var x int
	x = 1
	x = 2
	use(x)
}
`, "Target")

	sets := locality.Build(fn)
	first := locality.ClassifyFirstPass(fn, sets)

	cfg := slcfg.Build(fn)
	g := pdg.Build(cfg, oracle.ValueOracle{})
	pd := postdom.Build(fn)
	refined, _ := pdg.Refine(g, pd, sets, first)

	var buf bytes.Buffer
	WriteOmittedInstructions(&buf, fset, g, refined)
	out := buf.String()

	if strings.Count(out, "\n") != 3 {
		t.Errorf("expected 3 confirmed-omittable lines, got %q", out)
	}
	if !strings.Contains(out, "w|x|") {
		t.Errorf("expected a write line for x, got %q", out)
	}
	if !strings.Contains(out, "r|x|") {
		t.Errorf("expected a read line for x, got %q", out)
	}
}

// Package analysis wires locality, slcfg, oracle, pdg, and postdom
// together into the end-to-end, per-function dependence pipeline as a
// golang.org/x/tools/go/analysis Analyzer.
package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"github.com/aclements/depanalysis/counters"
	"github.com/aclements/depanalysis/directive"
	"github.com/aclements/depanalysis/emit"
	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/locality"
	"github.com/aclements/depanalysis/oracle"
	"github.com/aclements/depanalysis/pdg"
	"github.com/aclements/depanalysis/postdom"
	"github.com/aclements/depanalysis/recursion"
	"github.com/aclements/depanalysis/schedule"
	"github.com/aclements/depanalysis/slcfg"
	"github.com/aclements/depanalysis/trace"
)

var (
	slcfgDotDir string
	pdgDotDir   string
	instrInfo   string
	ignoring    string
	fmapPath    string
	fmapCmd     string
	depMapPath  string
	verbose     bool
	debugFuncs  string
	traceDotDir string
	jobs        int
	// removeTransitive is kept only for command-line parity with the
	// original tool's -removeTransitiveDeps flag. The walker (§4.6)
	// stops at the first oracle hit on every path it explores, so it
	// never records a transitive dependence edge to begin with --
	// there is nothing left for this flag to remove.
	removeTransitive bool
)

// Analyzer is the dependence analyzer's entry point.
var Analyzer = &analysis.Analyzer{
	Name: "depanalysis",
	Doc:  "builds per-function locality sets, SL-CFG, and PDG to classify which load/store debug traces are safely omittable",
	Run:  run,
	Requires: []*analysis.Analyzer{
		buildssa.Analyzer,
		recursion.Analyzer,
		directive.Analyzer,
	},
	ResultType: reflect.TypeOf((*Result)(nil)),
}

func init() {
	Analyzer.Flags.StringVar(&slcfgDotDir, "slcfg-dot", "", "if set, write each function's SL-CFG as <dir>/<func>.slcfg.dot")
	Analyzer.Flags.StringVar(&pdgDotDir, "pdg-dot", "", "if set, write each function's PDG as <dir>/<func>.dot")
	Analyzer.Flags.StringVar(&instrInfo, "instr-info", "", "if set, write isolated load/store instruction info to this file")
	Analyzer.Flags.StringVar(&ignoring, "ignoring", "", "if set, append one line per confirmed-omittable instruction to this file")
	Analyzer.Flags.StringVar(&fmapPath, "fmap", "", "file-ID mapping file for the emitted dependence map")
	Analyzer.Flags.StringVar(&fmapCmd, "fmap-cmd", "", "shell command whose stdout generates the -fmap file-ID mapping, in place of -fmap")
	Analyzer.Flags.StringVar(&depMapPath, "depmap", "", "if set, write the cross-function dependence map to this file")
	Analyzer.Flags.BoolVar(&removeTransitive, "remove-transitive", false, "no-op, kept for command-line compatibility")
	Analyzer.Flags.BoolVar(&verbose, "v", false, "print a per-function statistics banner as each function finishes")
	Analyzer.Flags.StringVar(&debugFuncs, "debugfuncs", "", "comma-separated function names to record a walker debug trace for")
	Analyzer.Flags.StringVar(&traceDotDir, "trace-dot", "", "if set (with -debugfuncs), write each traced function's walk as <dir>/<func>.trace.dot")
	Analyzer.Flags.IntVar(&jobs, "j", 0, "number of functions to analyze concurrently (default: GOMAXPROCS)")
}

// FuncResult is the full pipeline output for a single function.
type FuncResult struct {
	Func      *ssa.Function
	SLCFG     *slcfg.Graph
	PDG       *pdg.Graph
	Omit      locality.Omittable
	Cond      pdg.ConditionalSets
	Recursive bool
}

// Result is the analyzer's aggregate output.
type Result struct {
	Funcs    []*FuncResult
	Counters *counters.Counters
}

func run(pass *analysis.Pass) (interface{}, error) {
	ssainfo := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)
	recur := pass.ResultOf[recursion.Analyzer].(recursion.Result)
	dirs := pass.ResultOf[directive.Analyzer].(directive.Result)

	res := &Result{Counters: &counters.Counters{}}
	o := oracle.ValueOracle{}

	var filemap map[string]string
	switch {
	case fmapCmd != "":
		out, err := emit.RunFileMapCmd(fmapCmd)
		if err != nil {
			return nil, err
		}
		filemap, err = emit.ParseFileMap(bytes.NewReader(out))
		if err != nil {
			return nil, err
		}
	case fmapPath != "":
		f, err := os.Open(fmapPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		filemap, err = emit.ParseFileMap(f)
		if err != nil {
			return nil, err
		}
	}

	var ignoringW *os.File
	if ignoring != "" {
		f, err := os.OpenFile(ignoring, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ignoringW = f
	}

	debugSet := make(map[string]bool)
	for _, name := range strings.Split(debugFuncs, ",") {
		if name = strings.TrimSpace(name); name != "" {
			debugSet[name] = true
		}
	}

	// The worker pool (SPEC_FULL's ambient schedule.Pool) runs one
	// independent per-function job at a time per slot; every job's
	// shared-state writes (res.Funcs, depMap, the -ignoring file) are
	// serialized behind mu, since each function's own pipeline run
	// (SL-CFG/PDG build, refinement) touches nothing but its own
	// *ssa.Function and needs no coordination with any other job.
	poolSize := jobs
	if poolSize <= 0 {
		poolSize = runtime.GOMAXPROCS(0)
	}
	pool := schedule.New(poolSize)

	var mu sync.Mutex
	depMap := map[string]map[string]bool{}
	var firstErr error
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for _, fn := range ssainfo.SrcFuncs {
		fn := fn
		if skipByDirective(fn, dirs) {
			continue
		}

		pool.Go(func() {
			fr := &FuncResult{Func: fn, Recursive: recur[fn]}

			sets := locality.Build(fn)
			first := locality.ClassifyFirstPass(fn, sets)

			cfg := slcfg.Build(fn)

			var tr *trace.Tree
			if debugSet[fn.Name()] {
				tr = &trace.Tree{}
			}
			g := pdg.BuildTraced(cfg, o, tr)
			pd := postdom.Build(fn)
			refined, cond := pdg.Refine(g, pd, sets, first)

			fr.SLCFG = cfg
			fr.PDG = g
			fr.Omit = refined
			fr.Cond = cond

			fc := &counters.Counters{}
			countInstrs(fn, refined, fc)

			if verbose {
				fmt.Fprintf(os.Stderr, "---------- Omission Analysis on %s (%v) ----------\n", fn.Name(), fr.Recursive)
				fmt.Fprintf(os.Stderr, "\t%d/%d load/store instructions omittable\n", fc.Omittable(), fc.Total())
			}

			if err := writeGraphs(pass, fn, cfg, g, refined); err != nil {
				setErr(err)
				return
			}
			if tr != nil && traceDotDir != "" {
				f, err := os.Create(filepath.Join(traceDotDir, fn.Name()+".trace.dot"))
				if err != nil {
					setErr(err)
					return
				}
				tr.WriteToDot(f)
				f.Close()
			}

			fnDepMap := emit.BuildDepMap(g, pass.Fset, filemap)

			mu.Lock()
			res.Counters.AddTotal(int(fc.Total()))
			res.Counters.AddOmittable(int(fc.Omittable()))
			res.Funcs = append(res.Funcs, fr)
			if ignoringW != nil {
				emit.WriteOmittedInstructions(ignoringW, pass.Fset, g, refined)
			}
			for k, vs := range fnDepMap {
				if depMap[k] == nil {
					depMap[k] = map[string]bool{}
				}
				for v := range vs {
					depMap[k][v] = true
				}
			}
			mu.Unlock()
		})
	}
	pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(res.Funcs, func(i, j int) bool {
		return res.Funcs[i].Func.Pos() < res.Funcs[j].Func.Pos()
	})

	if instrInfo != "" {
		f, err := os.Create(instrInfo)
		if err != nil {
			return nil, err
		}
		for _, fr := range res.Funcs {
			emit.WriteInstructionInfo(f, pass.Fset, fr.PDG)
		}
		f.Close()
	}

	if depMapPath != "" {
		f, err := os.Create(depMapPath)
		if err != nil {
			return nil, err
		}
		emit.WriteDepMap(f, depMap)
		f.Close()
	}

	return res, nil
}

func writeGraphs(pass *analysis.Pass, fn *ssa.Function, cfg *slcfg.Graph, g *pdg.Graph, omit locality.Omittable) error {
	if slcfgDotDir != "" {
		f, err := os.Create(filepath.Join(slcfgDotDir, fn.Name()+".slcfg.dot"))
		if err != nil {
			return err
		}
		emit.WriteSLCFGDot(f, pass.Fset, cfg)
		f.Close()
	}
	if pdgDotDir != "" {
		f, err := os.Create(filepath.Join(pdgDotDir, fn.Name()+".dot"))
		if err != nil {
			return err
		}
		emit.WritePDGDot(f, pass.Fset, g, omit)
		f.Close()
	}
	return nil
}

// skipByDirective reports whether fn's declaration is tagged
// //go:dep-no-omit, which this analyzer treats as "don't trust this
// function's own omissibility classification" by excluding it from the
// result entirely; a conservative treatment rather than guessing at
// intended per-directive semantics beyond opt-out.
func skipByDirective(fn *ssa.Function, dirs directive.Result) bool {
	for node, ds := range dirs {
		if node.Name.Name == fn.Name() && directive.Has(ds, directive.NoOmit) {
			return true
		}
	}
	return false
}

func countInstrs(fn *ssa.Function, omit locality.Omittable, c *counters.Counters) {
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch ir.Classify(instr) {
			case ir.Store, ir.Load:
			default:
				continue
			}
			c.AddTotal(1)
			if omit[instr] {
				c.AddOmittable(1)
			}
		}
	}
}

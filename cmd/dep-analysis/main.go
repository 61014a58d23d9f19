// Command dep-analysis classifies which load and store debug traces
// in a Go package are safe to omit without losing any
// observable dependence information, the same report the original
// LLVM dep-analysis pass produced for C/C++.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/aclements/depanalysis/analysis"
)

func main() {
	singlechecker.Main(analysis.Analyzer)
}

package emit

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"sort"
	"strings"

	"github.com/aclements/depanalysis/ir"
	"github.com/aclements/depanalysis/pdg"
)

// ParseFileMap reads the "id\tfilename" lines PDG::getDPDepMap's -fmap
// flag points at and returns filename -> id.
func ParseFileMap(r io.Reader) (map[string]string, error) {
	m := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		id, file := line[:tab], line[tab+1:]
		m[file] = id
	}
	return m, sc.Err()
}

// BuildDepMap implements PDG::getDPDepMap: a map from "fileID:line" to
// the set of "KIND fileID:line|varName" strings describing the later
// accesses that depend on the access at that location.
//
// Two deliberate departures from the original: edges are read in this
// repo's own anchor-depends-on-predecessor orientation (see pdg.Build)
// rather than the original's Src/Dst convention, so the key is built
// from the predecessor (the earlier, defining access) and the value
// from the anchor (the later, dependent access) -- the natural
// reading, rather than the original's swapped srcDL/dstDL use that
// looks like a latent bug rather than an intentional design. SCA and
// RAR dependence kinds aren't modeled in this port at all (see
// DESIGN.md), so the "skip SCA/RAR" branch in the original has no
// counterpart here: only CTR edges are skipped.
func BuildDepMap(g *pdg.Graph, fset *token.FileSet, filemap map[string]string) map[string]map[string]bool {
	depMap := map[string]map[string]bool{}

	for _, e := range g.Edges() {
		if e.Kind != pdg.RAW && e.Kind != pdg.WAR && e.Kind != pdg.WAW {
			continue
		}
		anchor, pred := e.Src, e.Dst
		if anchor.IsSentinel() || pred.IsSentinel() {
			continue
		}
		if !ir.HasDebugLoc(anchor.Instr) || !ir.HasDebugLoc(pred.Instr) {
			continue
		}

		nameAnchor := varName(anchor.Instr)
		namePred := varName(pred.Instr)
		if nameAnchor != namePred {
			continue
		}
		name := ir.NormalizeName(namePred)

		predPos := fset.Position(pred.Instr.Pos())
		anchorPos := fset.Position(anchor.Instr.Pos())

		fileID, ok := filemap[predPos.Filename]
		if !ok {
			fileID = "1"
		}

		key := fmt.Sprintf("%s:%d", fileID, predPos.Line)
		val := fmt.Sprintf("%s %s:%d|%s", e.Kind.String(), fileID, anchorPos.Line, name)

		if depMap[key] == nil {
			depMap[key] = map[string]bool{}
		}
		depMap[key][val] = true
	}

	return depMap
}

// WriteDepMap writes a deterministic, sorted rendering of depMap, one
// "key => value" line per entry, sorted values comma-joined.
func WriteDepMap(w io.Writer, depMap map[string]map[string]bool) {
	keys := make([]string, 0, len(depMap))
	for k := range depMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		vals := make([]string, 0, len(depMap[k]))
		for v := range depMap[k] {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		fmt.Fprintf(w, "%s => %s\n", k, strings.Join(vals, ", "))
	}
}

package ir

import (
	"go/token"
	"go/types"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ssa"
)

// VarName derives a human-readable variable name for a load/store
// instruction, the Go analog of the original tool's getVarName: it
// walks *ssa.IndexAddr/*ssa.FieldAddr chains to build names like
// "a[i][j]", strips the synthesized ".addr" suffix go/ssa style
// compilers sometimes attach to address-taken parameter copies, and
// unwraps *ssa.Convert (our sign-extend analog).
func VarName(v ssa.Value) string {
	switch x := v.(type) {
	case *ssa.Alloc:
		return stripAddrSuffix(x.Comment)
	case *ssa.IndexAddr:
		return VarName(x.X) + "[" + VarName(x.Index) + "]"
	case *ssa.FieldAddr:
		return VarName(x.X) + "." + fieldName(x)
	case *ssa.Convert:
		return VarName(x.X)
	case *ssa.UnOp:
		if x.Op == token.MUL {
			name := VarName(x.X)
			if name == "" {
				return "*?"
			}
			return "*" + name
		}
	}
	if v.Name() != "" {
		return v.Name()
	}
	return "n/a"
}

func fieldName(f *ssa.FieldAddr) string {
	pt, ok := f.X.Type().Underlying().(*types.Pointer)
	if !ok {
		return strconv.Itoa(f.Field)
	}
	st, ok := pt.Elem().Underlying().(*types.Struct)
	if !ok || f.Field >= st.NumFields() {
		return strconv.Itoa(f.Field)
	}
	return st.Field(f.Field).Name()
}

func stripAddrSuffix(name string) string {
	if i := strings.Index(name, ".addr"); i >= 0 {
		return name[:i]
	}
	return name
}

// ssaVersionSuffix matches a trailing SSA version suffix such as
// "x.1" or "x.42", the Go analog of an LLVM SSA register's ".N"
// rewrite.
var ssaVersionSuffix = regexp.MustCompile(`^(.+)\.[0-9]+$`)

// NormalizeName strips a trailing ".N" SSA-version suffix from name,
// per spec: "Variable names ending in .<digits> ... are normalized by
// stripping the trailing .N before comparison and emission."
func NormalizeName(name string) string {
	if m := ssaVersionSuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

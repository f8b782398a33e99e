package compiler

import (
	"github.com/rubiojr/c2js/headers"
)

// injectShims prepends `const name = impl;` for every shimmed function of
// the included headers that the program references, in table order.
// Names the program declares itself are left alone.
func injectShims(tbl *headers.Table, included []string, prog *JSProgram) []string {
	used := make(map[string]bool)
	walkJSProgram(prog, func(e JSExpr) bool {
		if id, ok := e.(*JSIdent); ok {
			used[id.Name] = true
		}
		return false
	})
	own := declaredNames(prog)

	var names []string
	for _, f := range tbl.Shims(included) {
		if !used[f.Name] || own[f.Name] {
			continue
		}
		prog.Shims = append(prog.Shims, &JSVar{
			Kind:  "const",
			Binds: []JSBinding{{Name: f.Name, Value: &JSRaw{Code: f.Shim}}},
		})
		names = append(names, f.Name)
	}
	return names
}

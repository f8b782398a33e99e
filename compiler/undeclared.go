package compiler

import (
	"sort"
)

var jsKeywords = map[string]bool{
	"function": true, "return": true, "let": true, "const": true, "var": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"true": true, "false": true, "null": true, "new": true, "typeof": true,
}

var jsBuiltins = map[string]bool{
	"console": true, "log": true, "Math": true, "prompt": true,
	"Number": true, "Array": true, "String": true, "parseInt": true,
	"structuredClone": true, "undefined": true, "NaN": true, "Infinity": true,
}

// declaredNames collects every let/const binding, function name and
// parameter in the program, at any scope.
func declaredNames(prog *JSProgram) map[string]bool {
	out := make(map[string]bool)
	visit := func(s JSStmt) {
		switch st := s.(type) {
		case *JSVar:
			for _, b := range st.Binds {
				out[b.Name] = true
			}
		case *JSFunc:
			out[st.Name] = true
			for _, p := range st.Params {
				out[p] = true
			}
		}
	}
	forEachJSStmt(prog.Shims, visit)
	forEachJSStmt(prog.Globals, visit)
	for _, fn := range prog.Funcs {
		forEachJSStmt([]JSStmt{fn}, visit)
	}
	forEachJSStmt(prog.Main, visit)
	return out
}

// undeclared lists identifier references that nothing declares. Scoping
// is flat: a name declared anywhere counts as declared everywhere. Member
// names, object keys and string contents are not identifiers here. The
// result is sorted and never nil.
func undeclared(prog *JSProgram) []string {
	declared := declaredNames(prog)
	seen := make(map[string]bool)
	out := []string{}
	walkJSProgram(prog, func(e JSExpr) bool {
		id, ok := e.(*JSIdent)
		if !ok {
			return false
		}
		name := id.Name
		if declared[name] || jsKeywords[name] || jsBuiltins[name] || seen[name] {
			return false
		}
		seen[name] = true
		out = append(out, name)
		return false
	})
	sort.Strings(out)
	return out
}

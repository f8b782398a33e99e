package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rubiojr/c2js/headers"
	"github.com/rubiojr/c2js/parser"
	"github.com/rubiojr/c2js/preprocess"
)

// checkHeaders is the header gate. Every include must name a header in the
// table, and every called identifier must be licensed by one of the
// included headers unless it is the entry point, a user-defined function or
// a macro name. Calls inside macro replacement text are checked too, and a
// macro whose replacement is a single identifier is checked as that
// identifier when it is called.
func checkHeaders(tbl *headers.Table, includes []preprocess.Include, toks []parser.Token, macros map[string]*macro, entry string) ([]string, error) {
	var names []string
	for _, inc := range includes {
		if !tbl.Has(inc.Name) {
			return nil, errorf(UnknownHeaderError, inc.Line, "unknown header %s", includeString(inc))
		}
		names = append(names, inc.Name)
	}
	licensed := tbl.Licensed(names)
	user := userFunctions(toks)

	illegal := make(map[string]int)
	scan := func(ts []parser.Token) {
		for i := 0; i+1 < len(ts); i++ {
			t := ts[i]
			if t.Kind != parser.Ident || !ts[i+1].Is("(") {
				continue
			}
			name := t.Text
			if m := macros[name]; m != nil {
				if len(m.toks) != 1 || m.toks[0].Kind != parser.Ident {
					continue
				}
				name = m.toks[0].Text
			}
			if name == entry || user[name] {
				continue
			}
			if _, ok := licensed[name]; ok {
				continue
			}
			if _, seen := illegal[name]; !seen {
				illegal[name] = t.Pos.Line
			}
		}
	}
	scan(toks)
	for _, m := range macros {
		scan(m.toks)
	}
	if len(illegal) == 0 {
		return names, nil
	}

	bad := make([]string, 0, len(illegal))
	for name := range illegal {
		bad = append(bad, name)
	}
	sort.Strings(bad)
	described := make([]string, len(bad))
	for i, name := range bad {
		if h, ok := tbl.Owner(name); ok {
			described[i] = fmt.Sprintf("%s (needs <%s>)", name, h)
		} else {
			described[i] = name
		}
	}
	err := errorf(IllegalCallError, illegal[bad[0]], "call not licensed by the included headers: %s", strings.Join(described, ", "))
	return nil, err
}

// userFunctions finds names declared or defined as functions: an
// identifier followed by "(" and preceded by a type keyword or a type name,
// possibly with pointer stars in between.
func userFunctions(toks []parser.Token) map[string]bool {
	out := make(map[string]bool)
	for i, t := range toks {
		if t.Kind != parser.Ident || i+1 >= len(toks) || !toks[i+1].Is("(") {
			continue
		}
		j := i - 1
		for j >= 0 && toks[j].Is("*") {
			j--
		}
		if j < 0 {
			continue
		}
		prev := toks[j]
		stars := j < i-1
		switch {
		case prev.Kind == parser.Keyword && parser.IsTypeKeyword(prev.Text):
			out[t.Text] = true
		case prev.Kind == parser.Ident && !stars:
			out[t.Text] = true
		case prev.Kind == parser.Ident && (j == 0 || declBoundary(toks[j-1])):
			// "Point *make(" at the start of a declaration; "a * f(" in an
			// expression is a multiplication.
			out[t.Text] = true
		}
	}
	return out
}

func declBoundary(t parser.Token) bool {
	return t.Is(";") || t.Is("{") || t.Is("}") || (t.Kind == parser.Keyword && parser.IsTypeKeyword(t.Text))
}

func includeString(inc preprocess.Include) string {
	if inc.System {
		return "<" + inc.Name + ">"
	}
	return `"` + inc.Name + `"`
}

package compiler

import (
	"github.com/rubiojr/c2js/ast"
)

// structTable maps struct tags and typedef names to ordered field names,
// plus non-struct typedef aliases.
type structTable struct {
	fields  map[string][]string
	aliases map[string]ast.TypeSpec
}

func (st *structTable) lookup(name string) ([]string, bool) {
	f, ok := st.fields[name]
	return f, ok
}

// export returns a copy for Result.Structs.
func (st *structTable) export() map[string][]string {
	out := make(map[string][]string, len(st.fields))
	for name, f := range st.fields {
		out[name] = append([]string(nil), f...)
	}
	return out
}

// collectStructs builds the struct table. Typedef'd definitions are
// registered first under their alias, then tagged definitions under their
// tag; on a name collision the typedef entry wins. Typedefs naming an
// existing struct (`typedef struct Point P;`) share its field list.
func collectStructs(prog *ast.Program) (*structTable, error) {
	st := &structTable{fields: make(map[string][]string), aliases: make(map[string]ast.TypeSpec)}
	var defs []*ast.StructDef
	var typedefs []*ast.TypedefDecl
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.StructDef:
			defs = append(defs, n)
		case *ast.TypedefDecl:
			typedefs = append(typedefs, n)
		}
		return true
	})

	fromTypedef := make(map[string]bool)
	for _, d := range defs {
		if d.Alias == "" {
			continue
		}
		names, err := fieldNames(d, d.Alias)
		if err != nil {
			return nil, err
		}
		if fromTypedef[d.Alias] {
			return nil, errorf(MalformedStructError, d.SourceLine, "typedef %s defined twice", d.Alias)
		}
		st.fields[d.Alias] = names
		fromTypedef[d.Alias] = true
	}
	tagged := make(map[string]bool)
	for _, d := range defs {
		if d.Tag == "" {
			continue
		}
		names, err := fieldNames(d, "struct "+d.Tag)
		if err != nil {
			return nil, err
		}
		if tagged[d.Tag] {
			return nil, errorf(MalformedStructError, d.SourceLine, "struct %s defined twice", d.Tag)
		}
		tagged[d.Tag] = true
		if !fromTypedef[d.Tag] {
			st.fields[d.Tag] = names
		}
	}
	for _, td := range typedefs {
		if f, ok := st.fields[td.Type.Name]; ok && !td.Type.Primitive() {
			st.fields[td.Name] = f
			continue
		}
		if td.Type.Struct {
			return nil, errorf(SyntaxError, td.SourceLine, "typedef %s: unknown struct %s", td.Name, td.Type.Name)
		}
		st.aliases[td.Name] = td.Type
	}
	return st, nil
}

func fieldNames(d *ast.StructDef, label string) ([]string, error) {
	seen := make(map[string]bool, len(d.Fields))
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if seen[f.Name] {
			return nil, errorf(MalformedStructError, f.Line, "%s: duplicate field %s", label, f.Name)
		}
		seen[f.Name] = true
		names = append(names, f.Name)
	}
	return names, nil
}

// stripStructs removes struct definitions and typedefs from the program.
// Variables declared together with a definition (`struct P {...} a, b;`)
// become a plain declaration in its place.
var stripStructs = ast.Chain(
	ast.RemoveStatements("strip-typedefs", func(s ast.Statement) bool {
		_, ok := s.(*ast.TypedefDecl)
		return ok
	}),
	ast.RewriteStatements("strip-structs", func(s ast.Statement) ([]ast.Statement, bool) {
		def, ok := s.(*ast.StructDef)
		if !ok {
			return nil, false
		}
		if len(def.Vars) == 0 {
			return nil, true
		}
		decl := &ast.DeclStmt{
			BaseStmt: def.BaseStmt,
			Type:     ast.TypeSpec{Name: def.Tag, Struct: true},
			Decls:    def.Vars,
		}
		return []ast.Statement{decl}, true
	}),
)

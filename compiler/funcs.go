package compiler

import (
	"github.com/rubiojr/c2js/ast"
)

// lowerProgram splits the top level into globals, helper functions and the
// entry function, whose body becomes the script's top-level code.
// Prototypes are dropped; helpers keep their source order.
func (l *lowerer) lowerProgram(prog *ast.Program, entry string) (*JSProgram, error) {
	out := &JSProgram{}
	defined := make(map[string]int)
	var main *ast.FuncDef
	for _, s := range prog.Statements {
		switch st := s.(type) {
		case *ast.FuncDef:
			if st.Body == nil {
				continue
			}
			if line, dup := defined[st.Name]; dup {
				return nil, errorf(SyntaxError, st.SourceLine, "function %s already defined at line %d", st.Name, line)
			}
			defined[st.Name] = st.SourceLine
			if st.Name == entry {
				main = st
				continue
			}
			fn, err := l.function(st)
			if err != nil {
				return nil, err
			}
			out.Funcs = append(out.Funcs, fn)
		case *ast.DeclStmt:
			vars, err := l.decl(st)
			if err != nil {
				return nil, err
			}
			out.Globals = append(out.Globals, vars...)
		case *ast.EmptyStmt:
		default:
			return nil, errorf(SyntaxError, s.StmtLine(), "unexpected %T at file scope", s)
		}
	}
	if main == nil {
		return nil, errorf(MissingEntryPointError, 0, "no %s function defined", entry)
	}
	stmts := trimTerminalReturn(main.Body.Stmts)
	if line := firstReturn(stmts); line > 0 {
		return nil, errorf(SyntaxError, line, "return in %s is only supported as a final `return 0;`", entry)
	}
	body, err := l.stmts(stmts)
	if err != nil {
		return nil, err
	}
	out.Main = body
	return out, nil
}

func (l *lowerer) function(fd *ast.FuncDef) (*JSFunc, error) {
	if err := l.checkName(fd.Name, fd.SourceLine); err != nil {
		return nil, err
	}
	fn := &JSFunc{Name: fd.Name}
	for _, p := range fd.Params {
		if err := l.checkName(p.Name, fd.SourceLine); err != nil {
			return nil, err
		}
		typ, err := l.resolve(p.Type, fd.SourceLine)
		if err != nil {
			return nil, err
		}
		if typ.Pointer > 1 || (typ.Pointer == 1 && typ.Name != "char") {
			return nil, errorf(SyntaxError, fd.SourceLine, "%s: pointer parameter %s is not supported", fd.Name, p.Name)
		}
		fn.Params = append(fn.Params, p.Name)
	}
	body, err := l.stmts(fd.Body.Stmts)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// trimTerminalReturn drops a final `return 0;`: the entry body runs at top
// level, where return is not allowed. Other returns are left in place for
// firstReturn to report.
func trimTerminalReturn(stmts []ast.Statement) []ast.Statement {
	if len(stmts) == 0 {
		return stmts
	}
	ret, ok := stmts[len(stmts)-1].(*ast.ReturnStmt)
	if !ok || ret.Value == nil {
		return stmts
	}
	v := ret.Value
	for {
		p, ok := v.(*ast.ParenExpr)
		if !ok {
			break
		}
		v = p.X
	}
	if lit, ok := v.(*ast.IntLit); ok && lit.Value == "0" {
		return stmts[:len(stmts)-1]
	}
	return stmts
}

// firstReturn returns the line of the first return statement in stmts,
// nested ones included, or 0.
func firstReturn(stmts []ast.Statement) int {
	line := 0
	for _, s := range stmts {
		ast.Inspect(s, func(n ast.Node) bool {
			if ret, ok := n.(*ast.ReturnStmt); ok && line == 0 {
				line = ret.SourceLine
			}
			return line == 0
		})
		if line > 0 {
			break
		}
	}
	return line
}

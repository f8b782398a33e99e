package ast

// Transform rewrites an AST. Implementations must not mutate the input program.
type Transform interface {
	Name() string
	Transform(prog *Program) *Program
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*Program) *Program
}

func (t TransformFunc) Name() string                     { return t.N }
func (t TransformFunc) Transform(prog *Program) *Program { return t.F(prog) }

// Chain composes transforms left-to-right into a single Transform.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(prog *Program) *Program {
			for _, t := range transforms {
				prog = t.Transform(prog)
			}
			return prog
		},
	}
}

// RewriteStatements returns a Transform that replaces every statement s for
// which fn returns (repl, true) with repl, at top level and inside nested
// blocks. Replacements are not visited again. Unchanged subtrees are shared
// with the input.
func RewriteStatements(name string, fn func(Statement) ([]Statement, bool)) Transform {
	return TransformFunc{
		N: name,
		F: func(prog *Program) *Program {
			stmts, changed := rewriteIn(prog.Statements, fn)
			if !changed {
				return prog
			}
			return &Program{Statements: stmts, SourceFile: prog.SourceFile}
		},
	}
}

// RemoveStatements returns a Transform that drops every statement matching
// drop, at top level and inside nested blocks.
func RemoveStatements(name string, drop func(Statement) bool) Transform {
	return RewriteStatements(name, func(s Statement) ([]Statement, bool) {
		return nil, drop(s)
	})
}

func rewriteIn(stmts []Statement, fn func(Statement) ([]Statement, bool)) ([]Statement, bool) {
	out := stmts
	replaced := false
	for i, s := range stmts {
		repl, ok := fn(s)
		if ok && !replaced {
			out = append([]Statement(nil), stmts[:i]...)
			replaced = true
		}
		switch {
		case ok:
			out = append(out, repl...)
		case replaced:
			out = append(out, s)
		}
	}
	out, changed := mapSlice(out, func(s Statement) Statement { return rewriteNested(s, fn) })
	return out, replaced || changed
}

// rewriteNested rewrites the statement lists owned by s.
func rewriteNested(s Statement, fn func(Statement) ([]Statement, bool)) Statement {
	switch s := s.(type) {
	case *FuncDef:
		if s.Body == nil {
			return s
		}
		body := rewriteNested(s.Body, fn).(*Block)
		if body == s.Body {
			return s
		}
		cp := *s
		cp.Body = body
		return &cp
	case *Block:
		stmts, changed := rewriteIn(s.Stmts, fn)
		if !changed {
			return s
		}
		return &Block{BaseStmt: s.BaseStmt, Stmts: stmts}
	case *IfStmt:
		then := rewriteNested(s.Then, fn)
		var els Statement
		if s.Else != nil {
			els = rewriteNested(s.Else, fn)
		}
		if then == s.Then && els == s.Else {
			return s
		}
		cp := *s
		cp.Then, cp.Else = then, els
		return &cp
	case *WhileStmt:
		if body := rewriteNested(s.Body, fn); body != s.Body {
			cp := *s
			cp.Body = body
			return &cp
		}
	case *DoWhileStmt:
		if body := rewriteNested(s.Body, fn); body != s.Body {
			cp := *s
			cp.Body = body
			return &cp
		}
	case *ForStmt:
		if body := rewriteNested(s.Body, fn); body != s.Body {
			cp := *s
			cp.Body = body
			return &cp
		}
	case *SwitchStmt:
		var cases []CaseClause
		for i, c := range s.Cases {
			body, changed := rewriteIn(c.Body, fn)
			if changed && cases == nil {
				cases = append([]CaseClause(nil), s.Cases...)
			}
			if cases != nil {
				cases[i].Body = body
			}
		}
		if cases != nil {
			cp := *s
			cp.Cases = cases
			return &cp
		}
	}
	return s
}

// mapSlice applies fn to each element. Returns (newSlice, true) if any
// element changed, or (original, false) if all elements are identical.
func mapSlice[T any](items []T, fn func(T) T) ([]T, bool) {
	var out []T
	modified := false
	for i, item := range items {
		newItem := fn(item)
		if any(newItem) != any(item) {
			if !modified {
				out = make([]T, len(items))
				copy(out[:i], items[:i])
				modified = true
			}
		}
		if modified {
			out[i] = newItem
		}
	}
	if !modified {
		return items, false
	}
	return out, true
}

package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainEmpty(t *testing.T) {
	prog := &Program{SourceFile: "test.c"}
	result := Chain().Transform(prog)
	assert.Same(t, prog, result, "empty chain returns same program")
}

func TestChainOrdering(t *testing.T) {
	var order []string
	step := func(name string) Transform {
		return TransformFunc{N: name, F: func(prog *Program) *Program {
			order = append(order, name)
			return prog
		}}
	}
	Chain(step("first"), step("second"), step("third")).Transform(&Program{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func isStruct(s Statement) bool {
	_, ok := s.(*StructDef)
	return ok
}

func TestRemoveStatements_TopLevelAndNested(t *testing.T) {
	inner := &StructDef{Tag: "Local"}
	keep := &ExprStmt{X: &Ident{Name: "x"}}
	body := &Block{Stmts: []Statement{inner, keep}}
	fn := &FuncDef{Name: "main", Body: body}
	top := &StructDef{Tag: "Point"}
	prog := &Program{Statements: []Statement{top, fn}, SourceFile: "a.c"}

	out := RemoveStatements("strip-structs", isStruct).Transform(prog)

	require.Len(t, out.Statements, 1)
	newFn := out.Statements[0].(*FuncDef)
	assert.NotSame(t, fn, newFn, "changed function is copied")
	assert.Equal(t, []Statement{keep}, newFn.Body.Stmts)
	assert.Equal(t, "a.c", out.SourceFile)

	// input untouched
	assert.Len(t, prog.Statements, 2)
	assert.Len(t, body.Stmts, 2)
}

func TestRemoveStatements_NoChangeSharesInput(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&FuncDef{Name: "main", Body: &Block{Stmts: []Statement{&ExprStmt{X: &Ident{Name: "x"}}}}},
	}}
	out := RemoveStatements("noop", isStruct).Transform(prog)
	assert.Same(t, prog, out)
}

func TestRemoveStatements_InsideControlFlow(t *testing.T) {
	empty := func(s Statement) bool {
		_, ok := s.(*EmptyStmt)
		return ok
	}
	sw := &SwitchStmt{Tag: &Ident{Name: "x"}, Cases: []CaseClause{
		{Value: &IntLit{Value: "1"}, Body: []Statement{&EmptyStmt{}, &BreakStmt{}}},
	}}
	loop := &WhileStmt{Cond: &Ident{Name: "c"}, Body: &Block{Stmts: []Statement{&EmptyStmt{}, sw}}}
	prog := &Program{Statements: []Statement{&FuncDef{Name: "main", Body: &Block{Stmts: []Statement{loop}}}}}

	out := RemoveStatements("strip-empty", empty).Transform(prog)

	newLoop := out.Statements[0].(*FuncDef).Body.Stmts[0].(*WhileStmt)
	loopBody := newLoop.Body.(*Block)
	require.Len(t, loopBody.Stmts, 1)
	newSw := loopBody.Stmts[0].(*SwitchStmt)
	assert.Len(t, newSw.Cases[0].Body, 1)
	assert.Len(t, sw.Cases[0].Body, 2, "original switch untouched")
}

func TestCheckChain(t *testing.T) {
	var ran []string
	ok := CheckFunc{N: "ok", F: func(*Program) error { ran = append(ran, "ok"); return nil }}
	bad := CheckFunc{N: "bad", F: func(*Program) error { ran = append(ran, "bad"); return errors.New("boom") }}
	never := CheckFunc{N: "never", F: func(*Program) error { ran = append(ran, "never"); return nil }}

	err := CheckChain{ok, bad, never}.Run(&Program{})
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"ok", "bad"}, ran)
	assert.Equal(t, "bad", bad.Name())
}

func TestInspect_VisitsExpressions(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&FuncDef{Name: "main", Body: &Block{Stmts: []Statement{
			&DeclStmt{Decls: []Declarator{{Name: "a", Init: &Ident{Name: "b"}}}},
			&ForStmt{
				Cond: &BinaryExpr{Op: "<", X: &Ident{Name: "i"}, Y: &Ident{Name: "n"}},
				Body: &ExprStmt{X: &CallExpr{Func: &Ident{Name: "f"}, Args: []Expr{&MemberExpr{X: &Ident{Name: "p"}, Name: "x"}}}},
			},
		}}},
	}}
	var names []string
	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"b", "i", "n", "f", "p"}, names)
}

func TestInspect_SkipChildren(t *testing.T) {
	prog := &Program{Statements: []Statement{
		&FuncDef{Name: "f", Body: &Block{Stmts: []Statement{&ExprStmt{X: &Ident{Name: "hidden"}}}}},
	}}
	var seen int
	Inspect(prog, func(n Node) bool {
		seen++
		_, isFunc := n.(*FuncDef)
		return !isFunc
	})
	assert.Equal(t, 2, seen)
}

func TestIsPrimitive(t *testing.T) {
	assert.True(t, IsPrimitive("int"))
	assert.True(t, IsPrimitive("unsigned long"))
	assert.False(t, IsPrimitive("Point"))
	assert.False(t, IsPrimitive("unsigned Point"))
	assert.False(t, IsPrimitive(""))
	assert.True(t, TypeSpec{Name: "char"}.Primitive())
	assert.False(t, TypeSpec{Name: "int", Struct: true}.Primitive())
}

func TestCallee(t *testing.T) {
	assert.Equal(t, "f", (&CallExpr{Func: &Ident{Name: "f"}}).Callee())
	assert.Equal(t, "f", (&CallExpr{Func: &ParenExpr{X: &ParenExpr{X: &Ident{Name: "f"}}}}).Callee())
	assert.Equal(t, "", (&CallExpr{Func: &ParenExpr{X: &IndexExpr{X: &Ident{Name: "t"}, Index: &IntLit{Value: "0"}}}}).Callee())
}

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/c2js/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := Lex("test.c", src)
	require.NoError(t, err)
	prog, err := Parse(toks, 0)
	require.NoError(t, err)
	return prog
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()
	toks, err := Lex("test.c", src)
	require.NoError(t, err)
	_, err = Parse(toks, 0)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	return perr
}

func TestParse_FunctionAndBody(t *testing.T) {
	prog := parse(t, "int add(int a, int b) { return a + b; }\nint main(void) { int x = add(1, 2); return 0; }")
	require.Len(t, prog.Statements, 2)

	add := prog.Statements[0].(*ast.FuncDef)
	assert.Equal(t, "add", add.Name)
	require.Len(t, add.Params, 2)
	assert.Equal(t, "a", add.Params[0].Name)
	assert.Equal(t, "int", add.Params[1].Type.Name)
	require.NotNil(t, add.Body)

	main := prog.Statements[1].(*ast.FuncDef)
	assert.Equal(t, "main", main.Name)
	assert.Empty(t, main.Params)
	require.Len(t, main.Body.Stmts, 2)
	decl := main.Body.Stmts[0].(*ast.DeclStmt)
	assert.Equal(t, "x", decl.Decls[0].Name)
	call := decl.Decls[0].Init.(*ast.CallExpr)
	assert.Equal(t, "add", call.Callee())
	assert.Len(t, call.Args, 2)
}

func TestParse_Prototype(t *testing.T) {
	prog := parse(t, "void greet(char name[]);")
	fn := prog.Statements[0].(*ast.FuncDef)
	assert.Nil(t, fn.Body)
	assert.True(t, fn.Params[0].Array)
}

func TestParse_StructForms(t *testing.T) {
	prog := parse(t, `
struct Point { int x; int y; };
typedef struct { float w, h; char label[16]; } Size;
typedef struct Node { int v; } NodeT;
Point p;
Size s;
struct Node n;
NodeT m;
`)
	require.Len(t, prog.Statements, 7)

	pt := prog.Statements[0].(*ast.StructDef)
	assert.Equal(t, "Point", pt.Tag)
	assert.Empty(t, pt.Alias)
	require.Len(t, pt.Fields, 2)
	assert.Equal(t, "x", pt.Fields[0].Name)
	assert.Equal(t, "y", pt.Fields[1].Name)

	sz := prog.Statements[1].(*ast.StructDef)
	assert.Equal(t, "Size", sz.Alias)
	var names []string
	for _, f := range sz.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"w", "h", "label"}, names)
	assert.Len(t, sz.Fields[2].Dims, 1)

	node := prog.Statements[2].(*ast.StructDef)
	assert.Equal(t, "Node", node.Tag)
	assert.Equal(t, "NodeT", node.Alias)

	p := prog.Statements[3].(*ast.DeclStmt)
	assert.Equal(t, "Point", p.Type.Name)
	assert.False(t, p.Type.Struct)
	n := prog.Statements[5].(*ast.DeclStmt)
	assert.True(t, n.Type.Struct)
}

func TestParse_StructWithVars(t *testing.T) {
	prog := parse(t, "struct P { int a; } one, two[3];")
	def := prog.Statements[0].(*ast.StructDef)
	require.Len(t, def.Vars, 2)
	assert.Equal(t, "two", def.Vars[1].Name)
	assert.Len(t, def.Vars[1].Dims, 1)
}

func TestParse_MalformedStruct(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing semicolon", "struct P { int x int y; };", `expected ";" after field x`},
		{"no type", "struct P { x; };", "expected field declaration"},
		{"empty body", "struct P { };", "struct body has no fields"},
		{"unterminated", "struct P { int x;", "unterminated struct body"},
		{"missing name", "struct P { int ; };", "expected field name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.src)
			assert.True(t, perr.Struct, "should be reported as a struct error")
			assert.Contains(t, perr.Msg, tt.msg)
			assert.Contains(t, perr.Msg, "struct P")
		})
	}
}

func TestParse_Declarations(t *testing.T) {
	prog := parse(t, "int main() { int a, b = 2; int arr[3] = {1, 2, 3}; float m[2][3]; char s[] = \"hi\"; const int K = 4; }")
	body := prog.Statements[0].(*ast.FuncDef).Body.Stmts

	d0 := body[0].(*ast.DeclStmt)
	require.Len(t, d0.Decls, 2)
	assert.Nil(t, d0.Decls[0].Init)
	assert.Equal(t, &ast.IntLit{Value: "2"}, d0.Decls[1].Init)

	d1 := body[1].(*ast.DeclStmt)
	list := d1.Decls[0].Init.(*ast.InitList)
	assert.Len(t, list.Elems, 3)

	d2 := body[2].(*ast.DeclStmt)
	assert.Len(t, d2.Decls[0].Dims, 2)

	d3 := body[3].(*ast.DeclStmt)
	require.Len(t, d3.Decls[0].Dims, 1)
	assert.Nil(t, d3.Decls[0].Dims[0])
	assert.Equal(t, "hi", d3.Decls[0].Init.(*ast.StringLit).Value)

	d4 := body[4].(*ast.DeclStmt)
	assert.True(t, d4.Type.Const)
}

func TestParse_ControlFlow(t *testing.T) {
	prog := parse(t, `int main() {
	for (int i = 0; i < 10; i++) { if (i % 2 == 0) continue; else break; }
	while (x > 0) x--;
	do { x++; } while (x < 3);
	switch (x) { case 1: y = 1; break; default: y = 0; }
	return 0;
}`)
	body := prog.Statements[0].(*ast.FuncDef).Body.Stmts
	require.Len(t, body, 5)

	f := body[0].(*ast.ForStmt)
	assert.IsType(t, &ast.DeclStmt{}, f.Init)
	assert.IsType(t, &ast.PostfixExpr{}, f.Post)
	assert.IsType(t, &ast.WhileStmt{}, body[1])
	assert.IsType(t, &ast.DoWhileStmt{}, body[2])

	sw := body[3].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Body, 2)
	assert.Nil(t, sw.Cases[1].Value)

	ret := body[4].(*ast.ReturnStmt)
	assert.Equal(t, &ast.IntLit{Value: "0"}, ret.Value)
}

func TestParse_Precedence(t *testing.T) {
	prog := parse(t, "int main() { x = a + b * c - d; }")
	stmt := prog.Statements[0].(*ast.FuncDef).Body.Stmts[0].(*ast.ExprStmt)
	as := stmt.X.(*ast.AssignExpr)
	sub := as.Value.(*ast.BinaryExpr)
	assert.Equal(t, "-", sub.Op)
	add := sub.X.(*ast.BinaryExpr)
	assert.Equal(t, "+", add.Op)
	mul := add.Y.(*ast.BinaryExpr)
	assert.Equal(t, "*", mul.Op)
}

func TestParse_Expressions(t *testing.T) {
	prog := parse(t, `int main() { scanf("%d", &v[i].n); y = (float)x; z = c ? 1 : 2; s = "a" "b"; n = 10UL; f = 1.5f; }`)
	body := prog.Statements[0].(*ast.FuncDef).Body.Stmts

	call := body[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	addr := call.Args[1].(*ast.UnaryExpr)
	assert.Equal(t, "&", addr.Op)
	mem := addr.X.(*ast.MemberExpr)
	assert.Equal(t, "n", mem.Name)
	assert.IsType(t, &ast.IndexExpr{}, mem.X)

	cast := body[1].(*ast.ExprStmt).X.(*ast.AssignExpr).Value.(*ast.CastExpr)
	assert.Equal(t, "float", cast.Type.Name)

	assert.IsType(t, &ast.CondExpr{}, body[2].(*ast.ExprStmt).X.(*ast.AssignExpr).Value)
	assert.Equal(t, "ab", body[3].(*ast.ExprStmt).X.(*ast.AssignExpr).Value.(*ast.StringLit).Value)
	assert.Equal(t, "10", body[4].(*ast.ExprStmt).X.(*ast.AssignExpr).Value.(*ast.IntLit).Value)
	assert.Equal(t, "1.5", body[5].(*ast.ExprStmt).X.(*ast.AssignExpr).Value.(*ast.FloatLit).Value)
}

func TestParse_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"arrow", "int main() { p->x = 1; }", "'->' is not supported"},
		{"deref", "int main() { *p = 1; }", "pointer dereference"},
		{"sizeof", "int main() { n = sizeof(int); }", "sizeof"},
		{"goto", "int main() { goto end; }", "goto"},
		{"variadic", "int f(int n, ...);", "variadic"},
		{"missing semicolon", "int main() { x = 1 }", `expected ";"`},
		{"unterminated block", "int main() { x = 1;", "unterminated block"},
		{"unknown type", "Foo x;", "expected declaration"},
		{"unnamed param in definition", "int f(int) { return 0; }", "parameter 1 has no name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.src)
			assert.False(t, perr.Struct)
			assert.Contains(t, perr.Error(), tt.msg)
		})
	}
}

func TestParse_DepthLimit(t *testing.T) {
	src := "int main() { x = "
	for i := 0; i < 50; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 50; i++ {
		src += ")"
	}
	src += "; }"
	toks, err := Lex("test.c", src)
	require.NoError(t, err)

	_, err = Parse(toks, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooDeep))

	_, err = Parse(toks, 0)
	assert.NoError(t, err)
}

func TestParse_ErrorLine(t *testing.T) {
	perr := parseErr(t, "int main() {\n  int x = 1;\n  y = ;\n}")
	assert.Equal(t, 3, perr.Pos.Line)
	assert.Contains(t, perr.Error(), "line 3: expected expression")
}

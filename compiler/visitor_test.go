package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkJSProgramVisitsEverySection(t *testing.T) {
	prog := &JSProgram{
		Shims:   []JSStmt{&JSVar{Kind: "const", Binds: []JSBinding{{Name: "s", Value: &JSRaw{Code: "hidden"}}}}},
		Globals: []JSStmt{&JSVar{Kind: "let", Binds: []JSBinding{{Name: "g", Value: jsIdent("one")}}}},
		Funcs: []*JSFunc{{Name: "f", Body: []JSStmt{
			&JSIf{Cond: jsIdent("two"), Then: []JSStmt{&JSReturn{Value: jsIdent("three")}}},
		}}},
		Main: []JSStmt{&JSSwitch{Tag: jsIdent("four"), Cases: []JSCase{
			{Value: jsNum("1"), Body: []JSStmt{&JSExprStmt{X: &JSTemplate{Parts: []JSTemplatePart{{Text: "t", Expr: jsIdent("five")}}}}}},
		}}},
	}
	var names []string
	walkJSProgram(prog, func(e JSExpr) bool {
		if id, ok := e.(*JSIdent); ok {
			names = append(names, id.Name)
		}
		return false
	})
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, names)
}

func TestWalkJSStopsEarly(t *testing.T) {
	body := []JSStmt{
		&JSExprStmt{X: jsIdent("a")},
		&JSExprStmt{X: jsIdent("b")},
	}
	seen := 0
	stopped := walkJSStmts(body, func(e JSExpr) bool {
		seen++
		return true
	})
	assert.True(t, stopped)
	assert.Equal(t, 1, seen)
}

func TestWalkJSExprChildren(t *testing.T) {
	e := &JSCall{
		Func: jsIdent("f"),
		Args: []JSExpr{
			&JSArrow{Body: &JSObject{Props: []JSProp{{Key: "k", Value: jsIdent("v")}}}},
			&JSCond{Cond: jsIdent("c"), Then: &JSIndex{X: jsIdent("arr"), Index: jsIdent("i")}, Else: &JSParen{X: jsIdent("p")}},
		},
	}
	var names []string
	walkJSExpr(e, func(x JSExpr) bool {
		if id, ok := x.(*JSIdent); ok {
			names = append(names, id.Name)
		}
		return false
	})
	assert.Equal(t, []string{"f", "v", "c", "arr", "i", "p"}, names)
}

func TestForEachJSStmtNested(t *testing.T) {
	inner := &JSVar{Kind: "let", Binds: []JSBinding{{Name: "deep"}}}
	init := &JSVar{Kind: "let", Binds: []JSBinding{{Name: "i"}}}
	list := []JSStmt{
		&JSWhile{Cond: jsIdent("x"), Body: []JSStmt{
			&JSFor{Init: init, Body: []JSStmt{&JSBlock{Body: []JSStmt{inner}}}},
		}},
	}
	var vars []string
	forEachJSStmt(list, func(s JSStmt) {
		if v, ok := s.(*JSVar); ok {
			vars = append(vars, v.Binds[0].Name)
		}
	})
	assert.Equal(t, []string{"i", "deep"}, vars)
}

func TestUndeclared(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"none", "int main() { int a = 1; a++; }", []string{}},
		{"sorted and unique", "int main() { int a; a = zeta + alpha + zeta; }", []string{"alpha", "zeta"}},
		{"params and functions", "int f(int p) { return p + q; }\nint main() { f(1); }", []string{"q"}},
		{"for init", "int main() { for (int i = 0; i < n; i++) {} }", []string{"n"}},
		{"members are not names", "struct P { int x; };\nint main() { struct P p; p.x = p.y; }", []string{}},
		{"strings are not names", "#include <stdio.h>\nint main() { printf(\"total\"); }", []string{}},
		{"globals", "int g;\nint main() { g = 1; }", []string{}},
		{"declared later still counts", "int main() { x = 1; int x; }", []string{}},
		{"builtins", "int main() { int n; n = NaN; }", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := translate(t, tt.src)
			assert.Equal(t, tt.want, res.Undeclared)
		})
	}
}

func TestShimsFollowTableOrder(t *testing.T) {
	res := translate(t, "#include <math.h>\nint main() { double a = floor(2.5) + pow(2, 3) + sqrt(4); }")
	assert.Contains(t, res.Code, "const sqrt = Math.sqrt;\nconst pow = Math.pow;\nconst floor = Math.floor;\n\n")
	assert.NotContains(t, res.Code, "Math.sin")
}

func TestShimSkippedWhenProgramDeclaresName(t *testing.T) {
	res := translate(t, "#include <math.h>\ndouble sqrt(double x) { return x; }\nint main() { double r = sqrt(4); }")
	assert.NotContains(t, res.Code, "const sqrt")
	assert.Contains(t, res.Code, "function sqrt(x) {")
}

package compiler

// JavaScript output AST types represent the structure of the generated
// script. Lowering builds a JSProgram; later passes rewrite it and the
// printer serializes it.

// --- Interfaces ---

// JSStmt is a statement.
type JSStmt interface{ jsStmt() }

// JSExpr is an expression.
type JSExpr interface{ jsExpr() }

// --- Program level ---

// JSProgram is a complete translated script.
type JSProgram struct {
	Shims   []JSStmt // const bindings for library functions
	Globals []JSStmt // file-scope declarations
	Funcs   []*JSFunc
	Main    []JSStmt // entry function body, run at top level
}

// JSFunc represents: function name(params) { body }
type JSFunc struct {
	Name   string
	Params []string
	Body   []JSStmt
}

func (*JSFunc) jsStmt() {}

// --- Statement level ---

// JSBinding is one name in a let/const statement.
type JSBinding struct {
	Name  string
	Value JSExpr // nil for an uninitialized let
}

// JSVar represents: let a = 1, b; (or const).
type JSVar struct {
	Kind  string // "let" or "const"
	Binds []JSBinding
}

func (*JSVar) jsStmt() {}

// JSExprStmt is an expression used as a statement.
type JSExprStmt struct {
	X JSExpr
}

func (*JSExprStmt) jsStmt() {}

// JSBlock is a nested { } scope.
type JSBlock struct {
	Body []JSStmt
}

func (*JSBlock) jsStmt() {}

// JSIf represents: if (cond) { then } else { else }. An Else holding a
// single *JSIf prints as `else if`.
type JSIf struct {
	Cond JSExpr
	Then []JSStmt
	Else []JSStmt
}

func (*JSIf) jsStmt() {}

// JSWhile represents: while (cond) { body }
type JSWhile struct {
	Cond JSExpr
	Body []JSStmt
}

func (*JSWhile) jsStmt() {}

// JSDoWhile represents: do { body } while (cond);
type JSDoWhile struct {
	Body []JSStmt
	Cond JSExpr
}

func (*JSDoWhile) jsStmt() {}

// JSFor represents: for (init; cond; post) { body }. Init is a *JSVar, a
// *JSExprStmt or nil.
type JSFor struct {
	Init JSStmt
	Cond JSExpr
	Post JSExpr
	Body []JSStmt
}

func (*JSFor) jsStmt() {}

// JSCase is one switch arm; Value is nil for default.
type JSCase struct {
	Value JSExpr
	Body  []JSStmt
}

// JSSwitch represents: switch (tag) { cases }
type JSSwitch struct {
	Tag   JSExpr
	Cases []JSCase
}

func (*JSSwitch) jsStmt() {}

// JSReturn represents: return [value];
type JSReturn struct {
	Value JSExpr
}

func (*JSReturn) jsStmt() {}

// JSBreak represents: break;
type JSBreak struct{}

func (*JSBreak) jsStmt() {}

// JSContinue represents: continue;
type JSContinue struct{}

func (*JSContinue) jsStmt() {}

// --- Expression level ---

// JSIdent is a name reference.
type JSIdent struct {
	Name string
	Line int
}

func (*JSIdent) jsExpr() {}

// JSNumber is a numeric literal as written.
type JSNumber struct {
	Value string
}

func (*JSNumber) jsExpr() {}

// JSString is a quoted string. Value holds the body with escapes as
// written in the C source.
type JSString struct {
	Value string
	Quote byte // '"' or '\''
}

func (*JSString) jsExpr() {}

// JSTemplatePart is literal text followed by an optional interpolation.
type JSTemplatePart struct {
	Text string // already escaped for a template literal
	Expr JSExpr // nil for trailing text
}

// JSTemplate is a template literal `text${expr}text`.
type JSTemplate struct {
	Parts []JSTemplatePart
}

func (*JSTemplate) jsExpr() {}

// JSBinary represents: x op y
type JSBinary struct {
	Op string
	X  JSExpr
	Y  JSExpr
}

func (*JSBinary) jsExpr() {}

// JSUnary represents a prefix operator.
type JSUnary struct {
	Op   string
	X    JSExpr
	Line int
}

func (*JSUnary) jsExpr() {}

// JSPostfix represents: x++ or x--
type JSPostfix struct {
	Op string
	X  JSExpr
}

func (*JSPostfix) jsExpr() {}

// JSAssign represents: target op value
type JSAssign struct {
	Op     string
	Target JSExpr
	Value  JSExpr
}

func (*JSAssign) jsExpr() {}

// JSCond represents: cond ? then : else
type JSCond struct {
	Cond JSExpr
	Then JSExpr
	Else JSExpr
}

func (*JSCond) jsExpr() {}

// JSCall represents: fn(args)
type JSCall struct {
	Func JSExpr
	Args []JSExpr
	Line int
}

func (*JSCall) jsExpr() {}

// JSIndex represents: x[index]
type JSIndex struct {
	X     JSExpr
	Index JSExpr
}

func (*JSIndex) jsExpr() {}

// JSMember represents: x.name
type JSMember struct {
	X    JSExpr
	Name string
}

func (*JSMember) jsExpr() {}

// JSParen represents: (x)
type JSParen struct {
	X JSExpr
}

func (*JSParen) jsExpr() {}

// JSArray represents: [a, b, c]
type JSArray struct {
	Elems []JSExpr
}

func (*JSArray) jsExpr() {}

// JSProp is one object literal property.
type JSProp struct {
	Key   string
	Value JSExpr
}

// JSObject represents: { k: v, ... }
type JSObject struct {
	Props []JSProp
}

func (*JSObject) jsExpr() {}

// JSArrow represents: (params) => body
type JSArrow struct {
	Params []string
	Body   JSExpr
}

func (*JSArrow) jsExpr() {}

// JSRaw is a JavaScript expression taken verbatim from the capability
// table. Analyses do not look inside it.
type JSRaw struct {
	Code string
}

func (*JSRaw) jsExpr() {}

// --- Constructors for generated code ---

func jsIdent(name string) *JSIdent { return &JSIdent{Name: name} }

func jsNum(v string) *JSNumber { return &JSNumber{Value: v} }

func jsCall(fn JSExpr, args ...JSExpr) *JSCall { return &JSCall{Func: fn, Args: args} }

// jsPath builds a.b.c member chains from a dotted name.
func jsPath(first string, rest ...string) JSExpr {
	var x JSExpr = jsIdent(first)
	for _, name := range rest {
		x = &JSMember{X: x, Name: name}
	}
	return x
}

// jsMethod builds recv.name(args), parenthesizing recv unless it is
// already a primary expression.
func jsMethod(recv JSExpr, name string, args ...JSExpr) *JSCall {
	switch recv.(type) {
	case *JSIdent, *JSMember, *JSIndex, *JSCall, *JSParen, *JSString, *JSTemplate:
	default:
		recv = &JSParen{X: recv}
	}
	return jsCall(&JSMember{X: recv, Name: name}, args...)
}

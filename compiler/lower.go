package compiler

import (
	"strings"

	"github.com/rubiojr/c2js/ast"
)

// jsReserved are JavaScript words that are valid C identifiers but cannot
// name a binding in the generated script.
var jsReserved = map[string]bool{
	"class": true, "let": true, "var": true, "function": true, "new": true,
	"this": true, "typeof": true, "delete": true, "in": true, "instanceof": true,
	"yield": true, "await": true, "export": true, "import": true, "super": true,
	"null": true, "true": true, "false": true,
}

// lowerer converts the C syntax tree into the JavaScript tree.
type lowerer struct {
	structs *structTable
}

func (l *lowerer) checkName(name string, line int) error {
	if jsReserved[name] {
		return errorf(SyntaxError, line, "%q is a reserved word in JavaScript", name)
	}
	return nil
}

// resolve follows typedef aliases until it reaches a primitive or a struct
// name. Qualifiers accumulate along the way.
func (l *lowerer) resolve(t ast.TypeSpec, line int) (ast.TypeSpec, error) {
	for range 64 {
		if t.Primitive() {
			return t, nil
		}
		if _, ok := l.structs.lookup(t.Name); ok {
			t.Struct = true
			return t, nil
		}
		alias, ok := l.structs.aliases[t.Name]
		if !ok || t.Struct {
			if t.Struct {
				return t, errorf(SyntaxError, line, "unknown struct %s", t.Name)
			}
			return t, errorf(SyntaxError, line, "unknown type %s", t.Name)
		}
		alias.Const = alias.Const || t.Const
		alias.Pointer += t.Pointer
		t = alias
	}
	return t, errorf(SyntaxError, line, "typedef %s refers to itself", t.Name)
}

// --- Statements ---

func (l *lowerer) stmts(list []ast.Statement) ([]JSStmt, error) {
	var out []JSStmt
	for _, s := range list {
		js, err := l.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, js...)
	}
	return out, nil
}

// body lowers a control-flow body; a block's statements are spliced in
// since every JS body is printed with braces.
func (l *lowerer) body(s ast.Statement) ([]JSStmt, error) {
	if b, ok := s.(*ast.Block); ok {
		return l.stmts(b.Stmts)
	}
	return l.stmt(s)
}

func (l *lowerer) stmt(s ast.Statement) ([]JSStmt, error) {
	switch st := s.(type) {
	case *ast.DeclStmt:
		return l.decl(st)
	case *ast.ExprStmt:
		x, err := l.expr(st.X)
		if err != nil {
			return nil, err
		}
		return []JSStmt{&JSExprStmt{X: x}}, nil
	case *ast.EmptyStmt:
		return nil, nil
	case *ast.Block:
		body, err := l.stmts(st.Stmts)
		if err != nil {
			return nil, err
		}
		return []JSStmt{&JSBlock{Body: body}}, nil
	case *ast.IfStmt:
		cond, err := l.expr(st.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.body(st.Then)
		if err != nil {
			return nil, err
		}
		out := &JSIf{Cond: cond, Then: then}
		if st.Else != nil {
			if out.Else, err = l.body(st.Else); err != nil {
				return nil, err
			}
		}
		return []JSStmt{out}, nil
	case *ast.WhileStmt:
		cond, err := l.expr(st.Cond)
		if err != nil {
			return nil, err
		}
		body, err := l.body(st.Body)
		if err != nil {
			return nil, err
		}
		return []JSStmt{&JSWhile{Cond: cond, Body: body}}, nil
	case *ast.DoWhileStmt:
		body, err := l.body(st.Body)
		if err != nil {
			return nil, err
		}
		cond, err := l.expr(st.Cond)
		if err != nil {
			return nil, err
		}
		return []JSStmt{&JSDoWhile{Body: body, Cond: cond}}, nil
	case *ast.ForStmt:
		return l.forStmt(st)
	case *ast.SwitchStmt:
		tag, err := l.expr(st.Tag)
		if err != nil {
			return nil, err
		}
		out := &JSSwitch{Tag: tag}
		for _, c := range st.Cases {
			var jc JSCase
			if c.Value != nil {
				if jc.Value, err = l.expr(c.Value); err != nil {
					return nil, err
				}
			}
			if jc.Body, err = l.stmts(c.Body); err != nil {
				return nil, err
			}
			out.Cases = append(out.Cases, jc)
		}
		return []JSStmt{out}, nil
	case *ast.ReturnStmt:
		ret := &JSReturn{}
		if st.Value != nil {
			v, err := l.expr(st.Value)
			if err != nil {
				return nil, err
			}
			ret.Value = v
		}
		return []JSStmt{ret}, nil
	case *ast.BreakStmt:
		return []JSStmt{&JSBreak{}}, nil
	case *ast.ContinueStmt:
		return []JSStmt{&JSContinue{}}, nil
	case *ast.FuncDef:
		return nil, errorf(SyntaxError, st.SourceLine, "nested function %s is not supported", st.Name)
	}
	return nil, errorf(SyntaxError, s.StmtLine(), "unsupported statement %T", s)
}

func (l *lowerer) forStmt(st *ast.ForStmt) ([]JSStmt, error) {
	out := &JSFor{}
	switch in := st.Init.(type) {
	case *ast.DeclStmt:
		decls, err := l.decl(in)
		if err != nil {
			return nil, err
		}
		// A for header holds a single declaration statement.
		merged := &JSVar{Kind: "let"}
		for i, d := range decls {
			v := d.(*JSVar)
			if i == 0 {
				merged.Kind = v.Kind
			} else if v.Kind != merged.Kind {
				merged.Kind = "let"
			}
			merged.Binds = append(merged.Binds, v.Binds...)
		}
		out.Init = merged
	case *ast.ExprStmt:
		x, err := l.expr(in.X)
		if err != nil {
			return nil, err
		}
		out.Init = &JSExprStmt{X: x}
	}
	var err error
	if st.Cond != nil {
		if out.Cond, err = l.expr(st.Cond); err != nil {
			return nil, err
		}
	}
	if st.Post != nil {
		if out.Post, err = l.expr(st.Post); err != nil {
			return nil, err
		}
	}
	if out.Body, err = l.body(st.Body); err != nil {
		return nil, err
	}
	return []JSStmt{out}, nil
}

// --- Declarations ---

// decl lowers each declarator into its own let/const statement. The
// classification order is struct arrays, primitive arrays, struct scalars,
// then plain primitives.
func (l *lowerer) decl(d *ast.DeclStmt) ([]JSStmt, error) {
	out := make([]JSStmt, 0, len(d.Decls))
	for _, dc := range d.Decls {
		line := dc.Line
		if line == 0 {
			line = d.SourceLine
		}
		if err := l.checkName(dc.Name, line); err != nil {
			return nil, err
		}
		typ, err := l.resolve(d.Type, line)
		if err != nil {
			return nil, err
		}
		typ.Pointer += dc.Pointer
		value, err := l.declValue(typ, dc, line)
		if err != nil {
			return nil, err
		}
		kind := "let"
		if typ.Const && dc.Init != nil {
			kind = "const"
		}
		out = append(out, &JSVar{Kind: kind, Binds: []JSBinding{{Name: dc.Name, Value: value}}})
	}
	return out, nil
}

func (l *lowerer) declValue(typ ast.TypeSpec, dc ast.Declarator, line int) (JSExpr, error) {
	if typ.Pointer > 0 {
		// char * is the one pointer the subset has: a string.
		if typ.Pointer == 1 && typ.Name == "char" && len(dc.Dims) == 0 {
			return l.optExpr(dc.Init)
		}
		return nil, errorf(SyntaxError, line, "pointer declaration %s is not supported", dc.Name)
	}
	var fields []string
	if typ.Struct {
		fields, _ = l.structs.lookup(typ.Name)
	}
	switch {
	case typ.Struct && len(dc.Dims) > 0:
		return l.structArray(dc.Name, fields, dc.Dims, dc.Init, line)
	case len(dc.Dims) > 0:
		return l.primitiveArray(dc.Name, typ, dc.Dims, dc.Init, line)
	case typ.Struct:
		if dc.Init == nil {
			return zeroObject(fields), nil
		}
		return l.structValue(dc.Name, fields, dc.Init, line)
	}
	if _, ok := dc.Init.(*ast.InitList); ok {
		return nil, errorf(SyntaxError, line, "brace initializer for scalar %s", dc.Name)
	}
	return l.optExpr(dc.Init)
}

// zeroObject is a struct value with every field set to 0.
func zeroObject(fields []string) *JSObject {
	obj := &JSObject{Props: make([]JSProp, len(fields))}
	for i, f := range fields {
		obj.Props[i] = JSProp{Key: f, Value: jsNum("0")}
	}
	return obj
}

// structValue maps an initializer list onto the fields in order. Missing
// trailing fields get 0. Any other initializer is kept as an expression.
func (l *lowerer) structValue(name string, fields []string, init ast.Expr, line int) (JSExpr, error) {
	list, ok := init.(*ast.InitList)
	if !ok {
		return l.expr(init)
	}
	if len(list.Elems) > len(fields) {
		return nil, errorf(SyntaxError, line, "too many initializers for %s: %d values for %d fields", name, len(list.Elems), len(fields))
	}
	obj := zeroObject(fields)
	for i, el := range list.Elems {
		v, err := l.initValue(el)
		if err != nil {
			return nil, err
		}
		obj.Props[i].Value = v
	}
	return obj, nil
}

// structArray builds Array.from({ length: N }, () => ...) with a fresh
// object per slot, nesting for each extra dimension.
func (l *lowerer) structArray(name string, fields []string, dims []ast.Expr, init ast.Expr, line int) (JSExpr, error) {
	if init != nil {
		list, ok := init.(*ast.InitList)
		if !ok {
			return nil, errorf(SyntaxError, line, "array %s needs a brace initializer", name)
		}
		arr := &JSArray{}
		for _, el := range list.Elems {
			var v JSExpr
			var err error
			if len(dims) > 1 {
				v, err = l.structArray(name, fields, dims[1:], el, line)
			} else {
				v, err = l.structValue(name, fields, el, line)
			}
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, v)
		}
		return arr, nil
	}
	var slot JSExpr = zeroObject(fields)
	for i := len(dims) - 1; i >= 0; i-- {
		n, err := l.dim(name, dims[i], line)
		if err != nil {
			return nil, err
		}
		slot = arrayFrom(n, slot)
	}
	return slot, nil
}

// primitiveArray keeps an initializer list as an array literal with
// exactly its elements, and fills an uninitialized array with zeros.
func (l *lowerer) primitiveArray(name string, typ ast.TypeSpec, dims []ast.Expr, init ast.Expr, line int) (JSExpr, error) {
	switch in := init.(type) {
	case nil:
	case *ast.StringLit:
		if typ.Name == "char" && len(dims) == 1 {
			return &JSString{Value: in.Value, Quote: '"'}, nil
		}
		return nil, errorf(SyntaxError, line, "string initializer for non-char array %s", name)
	case *ast.InitList:
		return l.initValue(in)
	default:
		return nil, errorf(SyntaxError, line, "array %s needs a brace initializer", name)
	}
	last, err := l.dim(name, dims[len(dims)-1], line)
	if err != nil {
		return nil, err
	}
	var slot JSExpr = jsMethod(jsCall(jsIdent("Array"), last), "fill", jsNum("0"))
	for i := len(dims) - 2; i >= 0; i-- {
		n, err := l.dim(name, dims[i], line)
		if err != nil {
			return nil, err
		}
		slot = arrayFrom(n, slot)
	}
	return slot, nil
}

func (l *lowerer) dim(name string, d ast.Expr, line int) (JSExpr, error) {
	if d == nil {
		return nil, errorf(SyntaxError, line, "array %s has no size and no initializer", name)
	}
	return l.expr(d)
}

// arrayFrom builds Array.from({ length: n }, () => slot).
func arrayFrom(n, slot JSExpr) JSExpr {
	length := &JSObject{Props: []JSProp{{Key: "length", Value: n}}}
	return jsCall(jsPath("Array", "from"), length, &JSArrow{Body: slot})
}

// initValue lowers an initializer element; nested brace lists become
// nested array literals.
func (l *lowerer) initValue(e ast.Expr) (JSExpr, error) {
	list, ok := e.(*ast.InitList)
	if !ok {
		return l.expr(e)
	}
	arr := &JSArray{Elems: make([]JSExpr, 0, len(list.Elems))}
	for _, el := range list.Elems {
		v, err := l.initValue(el)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
	}
	return arr, nil
}

// --- Expressions ---

func (l *lowerer) optExpr(e ast.Expr) (JSExpr, error) {
	if e == nil {
		return nil, nil
	}
	return l.expr(e)
}

func (l *lowerer) expr(e ast.Expr) (JSExpr, error) {
	switch ex := e.(type) {
	case *ast.Ident:
		if err := l.checkName(ex.Name, ex.Line); err != nil {
			return nil, err
		}
		return &JSIdent{Name: ex.Name, Line: ex.Line}, nil
	case *ast.IntLit:
		return jsNum(intLiteral(ex.Value)), nil
	case *ast.FloatLit:
		return jsNum(ex.Value), nil
	case *ast.CharLit:
		return &JSString{Value: ex.Value, Quote: '\''}, nil
	case *ast.StringLit:
		return &JSString{Value: ex.Value, Quote: '"'}, nil
	case *ast.BinaryExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		y, err := l.expr(ex.Y)
		if err != nil {
			return nil, err
		}
		return &JSBinary{Op: ex.Op, X: x, Y: y}, nil
	case *ast.UnaryExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		return &JSUnary{Op: ex.Op, X: x, Line: exprLine(ex)}, nil
	case *ast.PostfixExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		return &JSPostfix{Op: ex.Op, X: x}, nil
	case *ast.AssignExpr:
		target, err := l.expr(ex.Target)
		if err != nil {
			return nil, err
		}
		value, err := l.expr(ex.Value)
		if err != nil {
			return nil, err
		}
		return &JSAssign{Op: ex.Op, Target: target, Value: value}, nil
	case *ast.CondExpr:
		cond, err := l.expr(ex.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.expr(ex.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.expr(ex.Else)
		if err != nil {
			return nil, err
		}
		return &JSCond{Cond: cond, Then: then, Else: els}, nil
	case *ast.CallExpr:
		name := ex.Callee()
		if name == "" {
			return nil, errorf(SyntaxError, ex.Line, "only named functions can be called")
		}
		if err := l.checkName(name, ex.Line); err != nil {
			return nil, err
		}
		call := &JSCall{Func: &JSIdent{Name: name, Line: ex.Line}, Line: ex.Line}
		for _, a := range ex.Args {
			v, err := l.expr(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, v)
		}
		return call, nil
	case *ast.IndexExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		idx, err := l.expr(ex.Index)
		if err != nil {
			return nil, err
		}
		return &JSIndex{X: x, Index: idx}, nil
	case *ast.MemberExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		return &JSMember{X: x, Name: ex.Name}, nil
	case *ast.CastExpr:
		return l.cast(ex)
	case *ast.ParenExpr:
		x, err := l.expr(ex.X)
		if err != nil {
			return nil, err
		}
		return &JSParen{X: x}, nil
	case *ast.InitList:
		return nil, errorf(SyntaxError, exprLine(ex), "brace initializer outside a declaration")
	}
	return nil, errorf(SyntaxError, exprLine(e), "unsupported expression %T", e)
}

// cast truncates toward zero for integer targets and is a no-op otherwise.
func (l *lowerer) cast(ex *ast.CastExpr) (JSExpr, error) {
	line := exprLine(ex)
	typ, err := l.resolve(ex.Type, line)
	if err != nil {
		return nil, err
	}
	if typ.Struct {
		return nil, errorf(SyntaxError, line, "cast to struct %s is not supported", typ.Name)
	}
	x, err := l.expr(ex.X)
	if err != nil {
		return nil, err
	}
	if integerType(typ.Name) {
		return jsCall(jsPath("Math", "trunc"), x), nil
	}
	return &JSParen{X: x}, nil
}

func integerType(name string) bool {
	if name == "void" {
		return false
	}
	for _, w := range strings.Fields(name) {
		if w == "float" || w == "double" {
			return false
		}
	}
	return true
}

// intLiteral rewrites C octal constants (010) to JavaScript's 0o form.
func intLiteral(v string) string {
	if len(v) < 2 || v[0] != '0' {
		return v
	}
	for i := 1; i < len(v); i++ {
		if v[i] < '0' || v[i] > '7' {
			return v
		}
	}
	return "0o" + v[1:]
}

// exprLine returns the line of the first identifier or string literal
// under e, or 0.
func exprLine(e ast.Expr) int {
	line := 0
	ast.Inspect(e, func(n ast.Node) bool {
		if line > 0 {
			return false
		}
		switch n := n.(type) {
		case *ast.Ident:
			line = n.Line
		case *ast.StringLit:
			line = n.Line
		case *ast.CallExpr:
			line = n.Line
		}
		return line == 0
	})
	return line
}

package compiler

import (
	"strconv"
	"strings"

	"github.com/rubiojr/c2js/headers"
)

// stdioPass rewrites I/O and string-copy calls used as statements:
//
//	printf("x=%d\n", x);          console.log(`x=${x}`);
//	printf("Age: "); scanf(...);  age = Number(prompt("Age: "));
//	scanf("%d %d", &a, &b);       a = Number(prompt()); b = Number(prompt());
//	puts(s);                      console.log(s);
//	strcpy(d, s);                 d = s;
type stdioPass struct {
	tbl      *headers.Table
	licensed map[string]headers.Func
	user     map[string]bool // functions the program defines itself
}

func (p *stdioPass) program(prog *JSProgram) error {
	for _, fn := range prog.Funcs {
		body, err := p.block(fn.Body)
		if err != nil {
			return err
		}
		fn.Body = body
	}
	main, err := p.block(prog.Main)
	if err != nil {
		return err
	}
	prog.Main = main
	return p.checkLeftovers(prog)
}

// ioName returns the name of a rewritable library call, or "".
func (p *stdioPass) ioName(name string) string {
	if p.user[name] {
		return ""
	}
	f, ok := p.licensed[name]
	if !ok {
		return ""
	}
	switch {
	case name == "printf", name == "scanf", name == "puts":
		return name
	case f.Assign != "":
		return name
	}
	return ""
}

// statementCall returns the call and its rewritable name when s is a bare
// library call statement.
func (p *stdioPass) statementCall(s JSStmt) (*JSCall, string) {
	es, ok := s.(*JSExprStmt)
	if !ok {
		return nil, ""
	}
	call, ok := es.X.(*JSCall)
	if !ok {
		return nil, ""
	}
	id, ok := call.Func.(*JSIdent)
	if !ok {
		return nil, ""
	}
	return call, p.ioName(id.Name)
}

func (p *stdioPass) block(list []JSStmt) ([]JSStmt, error) {
	out := make([]JSStmt, 0, len(list))
	for i := 0; i < len(list); i++ {
		s := list[i]
		if err := p.nested(s); err != nil {
			return nil, err
		}
		call, name := p.statementCall(s)
		switch name {
		case "":
			out = append(out, s)
		case "printf":
			if i+1 < len(list) {
				if next, nn := p.statementCall(list[i+1]); nn == "scanf" {
					st, ok, err := p.promptedInput(call, next)
					if err != nil {
						return nil, err
					}
					if ok {
						out = append(out, st)
						i++
						continue
					}
				}
			}
			st, err := p.printf(call)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		case "scanf":
			sts, err := p.scanf(call, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, sts...)
		case "puts":
			if len(call.Args) != 1 {
				return nil, errorf(SyntaxError, call.Line, "puts takes 1 argument, got %d", len(call.Args))
			}
			out = append(out, &JSExprStmt{X: jsCall(jsPath("console", "log"), call.Args[0])})
		default:
			st, err := p.assignCall(name, call)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
	}
	return out, nil
}

// nested rewrites the statement lists inside a compound statement.
func (p *stdioPass) nested(s JSStmt) error {
	var err error
	switch st := s.(type) {
	case *JSBlock:
		st.Body, err = p.block(st.Body)
	case *JSIf:
		if st.Then, err = p.block(st.Then); err == nil {
			st.Else, err = p.block(st.Else)
		}
	case *JSWhile:
		st.Body, err = p.block(st.Body)
	case *JSDoWhile:
		st.Body, err = p.block(st.Body)
	case *JSFor:
		st.Body, err = p.block(st.Body)
	case *JSSwitch:
		for i := range st.Cases {
			if st.Cases[i].Body, err = p.block(st.Cases[i].Body); err != nil {
				return err
			}
		}
	}
	return err
}

func formatArg(call *JSCall, fn string) (string, error) {
	if len(call.Args) == 0 {
		return "", errorf(SyntaxError, call.Line, "%s needs a format string", fn)
	}
	s, ok := call.Args[0].(*JSString)
	if !ok || s.Quote != '"' {
		return "", errorf(UnsupportedFormatError, call.Line, "%s format must be a string literal", fn)
	}
	return s.Value, nil
}

func (p *stdioPass) printf(call *JSCall) (JSStmt, error) {
	format, err := formatArg(call, "printf")
	if err != nil {
		return nil, err
	}
	pieces, err := parseFormat(p.tbl, format, call.Line)
	if err != nil {
		return nil, err
	}
	args := call.Args[1:]
	if n := specCount(pieces); n != len(args) {
		return nil, errorf(FormatMismatchError, call.Line, "printf format %q has %d specifiers but %d arguments", format, n, len(args))
	}
	last := len(pieces) - 1
	pieces[last].Lit = stripNewline(pieces[last].Lit)
	tmpl := &JSTemplate{Parts: make([]JSTemplatePart, len(pieces))}
	for i, pc := range pieces {
		tmpl.Parts[i].Text = templateText(pc.Lit)
		if pc.Spec != nil {
			tmpl.Parts[i].Expr = interpolate(pc.Spec, args[i])
		}
	}
	return &JSExprStmt{X: jsCall(jsPath("console", "log"), tmpl)}, nil
}

// interpolate applies precision, radix and width to one printf argument.
func interpolate(spec *fmtSpec, x JSExpr) JSExpr {
	prec := jsNum(strconv.Itoa(spec.Prec))
	switch spec.Verb {
	case 'f', 'F':
		if spec.Prec >= 0 {
			x = jsMethod(x, "toFixed", prec)
		}
	case 'e', 'E':
		if spec.Prec >= 0 {
			x = jsMethod(x, "toExponential", prec)
		}
	case 'g', 'G':
		if spec.Prec > 0 {
			x = jsMethod(x, "toPrecision", prec)
		}
	case 'x':
		x = jsMethod(x, "toString", jsNum("16"))
	case 'X':
		x = jsMethod(jsMethod(x, "toString", jsNum("16")), "toUpperCase")
	}
	if spec.Width > 0 {
		w := jsNum(strconv.Itoa(spec.Width))
		str := jsCall(jsIdent("String"), x)
		switch {
		case strings.Contains(spec.Flags, "-"):
			x = jsMethod(str, "padEnd", w)
		case strings.Contains(spec.Flags, "0") && spec.Conv == headers.Numeric:
			x = jsMethod(str, "padStart", w, &JSString{Value: "0", Quote: '"'})
		default:
			x = jsMethod(str, "padStart", w)
		}
	}
	return x
}

// promptedInput folds a specifier-free printf followed by a one-value
// scanf into a single prompt. ok is false when the pair does not qualify.
func (p *stdioPass) promptedInput(printCall, scanCall *JSCall) (JSStmt, bool, error) {
	if len(printCall.Args) != 1 || len(scanCall.Args) != 2 {
		return nil, false, nil
	}
	format, err := formatArg(printCall, "printf")
	if err != nil {
		return nil, false, err
	}
	pieces, err := parseFormat(p.tbl, format, printCall.Line)
	if err != nil {
		return nil, false, err
	}
	if specCount(pieces) != 0 {
		return nil, false, nil
	}
	text := &JSString{Value: stripNewline(pieces[0].Lit), Quote: '"'}
	sts, err := p.scanf(scanCall, text)
	if err != nil || len(sts) != 1 {
		return nil, false, err
	}
	return sts[0], true, nil
}

// scanf emits one assignment per destination. prompt, when set, is the
// text shown for the input.
func (p *stdioPass) scanf(call *JSCall, prompt JSExpr) ([]JSStmt, error) {
	format, err := formatArg(call, "scanf")
	if err != nil {
		return nil, err
	}
	pieces, err := parseFormat(p.tbl, format, call.Line)
	if err != nil {
		return nil, err
	}
	dests := call.Args[1:]
	if n := specCount(pieces); n != len(dests) {
		return nil, errorf(FormatMismatchError, call.Line, "scanf format %q has %d specifiers but %d destinations", format, n, len(dests))
	}
	var out []JSStmt
	i := 0
	for _, pc := range pieces {
		if pc.Spec == nil {
			continue
		}
		dest, err := destination(dests[i], call.Line)
		if err != nil {
			return nil, err
		}
		i++
		var read JSExpr = jsCall(jsIdent("prompt"))
		if prompt != nil {
			read = jsCall(jsIdent("prompt"), prompt)
		}
		switch pc.Spec.Conv {
		case headers.Numeric:
			read = jsCall(jsIdent("Number"), read)
		case headers.Character:
			read = &JSIndex{X: read, Index: jsNum("0")}
		}
		out = append(out, &JSExprStmt{X: &JSAssign{Op: "=", Target: dest, Value: read}})
	}
	return out, nil
}

// destination strips & from a scanf argument and checks it is assignable.
func destination(e JSExpr, line int) (JSExpr, error) {
	if u, ok := e.(*JSUnary); ok && u.Op == "&" {
		e = u.X
	}
	if assignable(e) {
		return e, nil
	}
	return nil, errorf(SyntaxError, line, "scanf destination must be a variable, array element or field")
}

func assignable(e JSExpr) bool {
	switch x := e.(type) {
	case *JSIdent, *JSIndex, *JSMember:
		return true
	case *JSParen:
		return assignable(x.X)
	}
	return false
}

// assignCall rewrites strcpy-style calls into assignments.
func (p *stdioPass) assignCall(name string, call *JSCall) (JSStmt, error) {
	if len(call.Args) != 2 {
		return nil, errorf(SyntaxError, call.Line, "%s takes 2 arguments, got %d", name, len(call.Args))
	}
	if !assignable(call.Args[0]) {
		return nil, errorf(SyntaxError, call.Line, "%s destination must be a variable, array element or field", name)
	}
	op := p.licensed[name].Assign
	return &JSExprStmt{X: &JSAssign{Op: op, Target: call.Args[0], Value: call.Args[1]}}, nil
}

// checkLeftovers rejects address-of outside scanf and I/O calls used as
// values, which the rewrite above does not reach.
func (p *stdioPass) checkLeftovers(prog *JSProgram) error {
	var err error
	walkJSProgram(prog, func(e JSExpr) bool {
		switch x := e.(type) {
		case *JSUnary:
			if x.Op == "&" {
				err = errorf(SyntaxError, x.Line, "address-of operator is only supported in scanf arguments")
			}
		case *JSCall:
			if id, ok := x.Func.(*JSIdent); ok && p.ioName(id.Name) != "" {
				err = errorf(SyntaxError, x.Line, "%s can only be used as a statement", id.Name)
			}
		}
		return err != nil
	})
	return err
}

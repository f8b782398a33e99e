package compiler

import (
	"fmt"
	"strings"
)

// PrintJSProgram serializes a JSProgram. Sections (shims, globals,
// functions, entry body) are separated by a blank line; empty sections are
// skipped.
func PrintJSProgram(prog *JSProgram) string {
	var sections []string
	render := func(stmts []JSStmt) {
		if len(stmts) == 0 {
			return
		}
		p := &jsPrinter{}
		for _, s := range stmts {
			p.printStmt(s)
		}
		sections = append(sections, strings.TrimRight(p.sb.String(), "\n"))
	}
	render(prog.Shims)
	render(prog.Globals)
	if len(prog.Funcs) > 0 {
		p := &jsPrinter{}
		for i, fn := range prog.Funcs {
			if i > 0 {
				p.blank()
			}
			p.printStmt(fn)
		}
		sections = append(sections, strings.TrimRight(p.sb.String(), "\n"))
	}
	render(prog.Main)
	return strings.Join(sections, "\n\n")
}

// PrintJSStmts serializes a statement list at top level.
func PrintJSStmts(stmts []JSStmt) string {
	p := &jsPrinter{}
	for _, s := range stmts {
		p.printStmt(s)
	}
	return p.sb.String()
}

type jsPrinter struct {
	sb     strings.Builder
	indent int
}

func (p *jsPrinter) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *jsPrinter) blank() {
	p.sb.WriteByte('\n')
}

func (p *jsPrinter) writeIndent() {
	for range p.indent {
		p.sb.WriteString("    ")
	}
}

func (p *jsPrinter) body(stmts []JSStmt) {
	p.indent++
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.indent--
}

func (p *jsPrinter) printStmt(s JSStmt) {
	switch st := s.(type) {
	case *JSFunc:
		p.line("function %s(%s) {", st.Name, strings.Join(st.Params, ", "))
		p.body(st.Body)
		p.line("}")
	case *JSVar:
		p.line("%s;", varString(st))
	case *JSExprStmt:
		p.line("%s;", exprString(st.X))
	case *JSBlock:
		p.line("{")
		p.body(st.Body)
		p.line("}")
	case *JSIf:
		p.printIf(st)
	case *JSWhile:
		p.line("while (%s) {", exprString(st.Cond))
		p.body(st.Body)
		p.line("}")
	case *JSDoWhile:
		p.line("do {")
		p.body(st.Body)
		p.line("} while (%s);", exprString(st.Cond))
	case *JSFor:
		init := ""
		switch in := st.Init.(type) {
		case *JSVar:
			init = varString(in)
		case *JSExprStmt:
			init = exprString(in.X)
		}
		cond, post := "", ""
		if st.Cond != nil {
			cond = " " + exprString(st.Cond)
		}
		if st.Post != nil {
			post = " " + exprString(st.Post)
		}
		p.line("for (%s;%s;%s) {", init, cond, post)
		p.body(st.Body)
		p.line("}")
	case *JSSwitch:
		p.line("switch (%s) {", exprString(st.Tag))
		p.indent++
		for _, c := range st.Cases {
			if c.Value == nil {
				p.line("default:")
			} else {
				p.line("case %s:", exprString(c.Value))
			}
			p.body(c.Body)
		}
		p.indent--
		p.line("}")
	case *JSReturn:
		if st.Value != nil {
			p.line("return %s;", exprString(st.Value))
		} else {
			p.line("return;")
		}
	case *JSBreak:
		p.line("break;")
	case *JSContinue:
		p.line("continue;")
	}
}

func (p *jsPrinter) printIf(st *JSIf) {
	p.line("if (%s) {", exprString(st.Cond))
	for {
		p.body(st.Then)
		if len(st.Else) == 0 {
			break
		}
		if next, ok := st.Else[0].(*JSIf); ok && len(st.Else) == 1 {
			p.line("} else if (%s) {", exprString(next.Cond))
			st = next
			continue
		}
		p.line("} else {")
		p.body(st.Else)
		break
	}
	p.line("}")
}

func varString(v *JSVar) string {
	parts := make([]string, len(v.Binds))
	for i, b := range v.Binds {
		if b.Value != nil {
			parts[i] = b.Name + " = " + exprString(b.Value)
		} else {
			parts[i] = b.Name
		}
	}
	return v.Kind + " " + strings.Join(parts, ", ")
}

func exprString(e JSExpr) string {
	switch x := e.(type) {
	case *JSIdent:
		return x.Name
	case *JSNumber:
		return x.Value
	case *JSString:
		q := string(x.Quote)
		if x.Quote == 0 {
			q = `"`
		}
		return q + x.Value + q
	case *JSTemplate:
		var sb strings.Builder
		sb.WriteByte('`')
		for _, part := range x.Parts {
			sb.WriteString(part.Text)
			if part.Expr != nil {
				sb.WriteString("${")
				sb.WriteString(exprString(part.Expr))
				sb.WriteString("}")
			}
		}
		sb.WriteByte('`')
		return sb.String()
	case *JSBinary:
		if x.Op == "," {
			return exprString(x.X) + ", " + exprString(x.Y)
		}
		return exprString(x.X) + " " + x.Op + " " + exprString(x.Y)
	case *JSUnary:
		operand := exprString(x.X)
		// keep "- -x" from printing as the decrement "--x"
		if (x.Op == "-" || x.Op == "+") && strings.HasPrefix(operand, x.Op) {
			return x.Op + " " + operand
		}
		return x.Op + operand
	case *JSPostfix:
		return exprString(x.X) + x.Op
	case *JSAssign:
		return exprString(x.Target) + " " + x.Op + " " + exprString(x.Value)
	case *JSCond:
		return exprString(x.Cond) + " ? " + exprString(x.Then) + " : " + exprString(x.Else)
	case *JSCall:
		return exprString(x.Func) + "(" + exprList(x.Args) + ")"
	case *JSIndex:
		return exprString(x.X) + "[" + exprString(x.Index) + "]"
	case *JSMember:
		return exprString(x.X) + "." + x.Name
	case *JSParen:
		return "(" + exprString(x.X) + ")"
	case *JSArray:
		return "[" + exprList(x.Elems) + "]"
	case *JSObject:
		if len(x.Props) == 0 {
			return "{}"
		}
		parts := make([]string, len(x.Props))
		for i, prop := range x.Props {
			parts[i] = prop.Key + ": " + exprString(prop.Value)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *JSArrow:
		body := exprString(x.Body)
		if _, ok := x.Body.(*JSObject); ok {
			body = "(" + body + ")"
		}
		return "(" + strings.Join(x.Params, ", ") + ") => " + body
	case *JSRaw:
		return x.Code
	}
	return fmt.Sprintf("/* unknown %T */", e)
}

func exprList(list []JSExpr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = exprString(e)
	}
	return strings.Join(parts, ", ")
}

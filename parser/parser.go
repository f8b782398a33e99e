// Package parser turns C source of the accepted subset into an ast.Program.
//
// Grammar:
//
//	program     = (structDef | typedef | funcDef | declaration)* EOF
//	structDef   = ["typedef"] "struct" [IDENT] "{" field+ "}" (IDENT | declarators)? ";"
//	field       = type fieldName ("," fieldName)* ";"
//	funcDef     = type IDENT "(" params ")" (block | ";")
//	declaration = type declarator ("," declarator)* ";"
//	declarator  = "*"* IDENT ("[" [expr] "]")* ["=" initializer]
//	statement   = block | if | while | do | for | switch | return | break
//	            | continue | declaration | expr ";" | ";"
//	expr        = assign ("," assign)*
//	assign      = cond [assignOp assign]
//	cond        = binary ["?" expr ":" cond]
//	unary       = ("-"|"+"|"!"|"~"|"++"|"--"|"&") unary | "(" type ")" unary | postfix
//	postfix     = primary ("[" expr "]" | "(" args ")" | "." IDENT | "++" | "--")*
//
// Struct tags and typedef names become type names as soon as they are
// declared, so `Point p;` parses once `struct Point` has been seen.
package parser

import (
	"fmt"
	"strings"

	"github.com/rubiojr/c2js/ast"
)

// DefaultMaxDepth bounds statement and expression nesting.
const DefaultMaxDepth = 200

// Parser consumes the token slice produced by Lex and builds an AST.
type Parser struct {
	MaxDepth int // 0 means DefaultMaxDepth

	toks  []Token
	pos   int
	depth int
	limit int
	types map[string]bool
}

// Parse parses toks with the given nesting limit.
func Parse(toks []Token, maxDepth int) (*ast.Program, error) {
	p := &Parser{MaxDepth: maxDepth}
	return p.Parse(toks)
}

// Parse parses a complete translation unit.
func (p *Parser) Parse(toks []Token) (*ast.Program, error) {
	p.toks, p.pos, p.depth = toks, 0, 0
	p.types = make(map[string]bool)
	p.limit = p.MaxDepth
	if p.limit <= 0 {
		p.limit = DefaultMaxDepth
	}
	prog := &ast.Program{}
	for p.peek().Kind != EOF {
		s, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, s)
	}
	return prog, nil
}

// --- token helpers ---

func (p *Parser) peek() Token { return p.peekAt(0) }

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset < len(p.toks) {
		return p.toks[p.pos+offset]
	}
	if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		return Token{Kind: EOF, Pos: last.Pos}
	}
	return Token{Kind: EOF}
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(text string) bool {
	if p.peek().Is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(text string) (Token, error) {
	tok := p.peek()
	if !tok.Is(text) {
		return tok, p.errorf(tok, "expected %q, got %s", text, tok)
	}
	p.pos++
	return tok, nil
}

func (p *Parser) expectIdent(what string) (Token, error) {
	tok := p.peek()
	if tok.Kind != Ident {
		return tok, p.errorf(tok, "expected %s, got %s", what, tok)
	}
	p.pos++
	return tok, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) *Error {
	return &Error{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.limit {
		return &Error{Pos: p.peek().Pos, Msg: fmt.Sprintf("nesting deeper than %d levels", p.limit), Err: ErrTooDeep}
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) isTypeStart(tok Token) bool {
	switch tok.Kind {
	case Keyword:
		return typeKeywords[tok.Text]
	case Ident:
		return p.types[tok.Text]
	}
	return false
}

// startsStructDef reports whether the tokens at the cursor open a struct
// body: `struct {` or `struct Tag {`.
func (p *Parser) startsStructDef() bool {
	if !p.peek().Is("struct") {
		return false
	}
	return p.peekAt(1).Is("{") || (p.peekAt(1).Kind == Ident && p.peekAt(2).Is("{"))
}

func (p *Parser) stars() int {
	n := 0
	for p.accept("*") {
		n++
		for p.accept("const") {
		}
	}
	return n
}

// --- declarations ---

func (p *Parser) parseTopLevel() (ast.Statement, error) {
	tok := p.peek()
	line := tok.Pos.Line
	switch {
	case tok.Is("typedef"):
		return p.parseTypedef()
	case p.startsStructDef():
		return p.parseStructDef(false, line)
	case tok.Is(";"):
		p.advance()
		return &ast.EmptyStmt{BaseStmt: ast.BaseStmt{SourceLine: line}}, nil
	case p.isTypeStart(tok):
		ts, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		stars := p.stars()
		if p.peek().Kind == Ident && p.peekAt(1).Is("(") {
			name := p.advance()
			ts.Pointer += stars
			return p.parseFunc(ts, name, line)
		}
		return p.parseDeclRest(ts, stars, line)
	}
	return nil, p.errorf(tok, "expected declaration or function definition, got %s", tok)
}

// parseTypeSpec reads qualifiers, a base type and nothing else; pointer
// stars belong to the declarator.
func (p *Parser) parseTypeSpec() (ast.TypeSpec, error) {
	var ts ast.TypeSpec
	var words []string
	start := p.peek()
loop:
	for {
		tok := p.peek()
		switch {
		case tok.Is("const"):
			ts.Const = true
			p.advance()
		case tok.Is("static"), tok.Is("volatile"), tok.Is("extern"), tok.Is("register"), tok.Is("auto"):
			p.advance()
		case tok.Kind == Keyword && ast.IsPrimitive(tok.Text):
			if ts.Name != "" {
				return ts, p.errorf(tok, "unexpected %s after type %s", tok, ts.Name)
			}
			words = append(words, tok.Text)
			p.advance()
		case tok.Is("struct"):
			if ts.Name != "" || len(words) > 0 {
				return ts, p.errorf(tok, "unexpected %s in type", tok)
			}
			p.advance()
			tag, err := p.expectIdent("struct tag")
			if err != nil {
				return ts, err
			}
			ts.Struct = true
			ts.Name = tag.Text
		case tok.Kind == Ident && p.types[tok.Text] && ts.Name == "" && len(words) == 0:
			ts.Name = tok.Text
			p.advance()
		default:
			break loop
		}
	}
	if len(words) > 0 {
		ts.Name = strings.Join(words, " ")
	}
	if ts.Name == "" {
		return ts, p.errorf(start, "expected type, got %s", start)
	}
	return ts, nil
}

func (p *Parser) parseDeclRest(ts ast.TypeSpec, stars, line int) (*ast.DeclStmt, error) {
	decl := &ast.DeclStmt{BaseStmt: ast.BaseStmt{SourceLine: line}, Type: ts}
	for {
		d, err := p.parseDeclarator(stars)
		if err != nil {
			return nil, err
		}
		decl.Decls = append(decl.Decls, d)
		if !p.accept(",") {
			break
		}
		stars = p.stars()
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseDeclarator(stars int) (ast.Declarator, error) {
	tok, err := p.expectIdent("identifier")
	if err != nil {
		return ast.Declarator{}, err
	}
	d := ast.Declarator{Name: tok.Text, Pointer: stars, Line: tok.Pos.Line}
	for p.accept("[") {
		if p.accept("]") {
			d.Dims = append(d.Dims, nil)
			continue
		}
		n, err := p.parseCond()
		if err != nil {
			return d, err
		}
		if _, err := p.expect("]"); err != nil {
			return d, err
		}
		d.Dims = append(d.Dims, n)
	}
	if p.accept("=") {
		init, err := p.parseInitializer()
		if err != nil {
			return d, err
		}
		d.Init = init
	}
	return d, nil
}

func (p *Parser) parseInitializer() (ast.Expr, error) {
	if !p.peek().Is("{") {
		return p.parseAssign()
	}
	err := p.enter()
	defer p.leave()
	if err != nil {
		return nil, err
	}
	p.advance()
	list := &ast.InitList{}
	for !p.peek().Is("}") {
		e, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, e)
		if !p.accept(",") {
			break
		}
	}
	if _, err := p.expect("}"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseFunc(ret ast.TypeSpec, name Token, line int) (*ast.FuncDef, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	fn := &ast.FuncDef{BaseStmt: ast.BaseStmt{SourceLine: line}, Name: name.Text, Return: ret}
	if p.peek().Is("void") && p.peekAt(1).Is(")") {
		p.advance()
	} else if !p.peek().Is(")") {
		for {
			if tok := p.peek(); tok.Is("...") {
				return nil, p.errorf(tok, "function %s: variadic parameters are not supported", name.Text)
			}
			pt, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			prm := ast.Param{Type: pt}
			prm.Type.Pointer += p.stars()
			if p.peek().Kind == Ident {
				prm.Name = p.advance().Text
			}
			for p.accept("[") {
				if !p.peek().Is("]") {
					if _, err := p.parseCond(); err != nil {
						return nil, err
					}
				}
				if _, err := p.expect("]"); err != nil {
					return nil, err
				}
				prm.Array = true
			}
			fn.Params = append(fn.Params, prm)
			if !p.accept(",") {
				break
			}
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if p.accept(";") {
		return fn, nil
	}
	if !p.peek().Is("{") {
		return nil, p.errorf(p.peek(), "expected function body or ';' after %s(...), got %s", name.Text, p.peek())
	}
	for i, prm := range fn.Params {
		if prm.Name == "" {
			return nil, p.errorf(name, "function %s: parameter %d has no name", name.Text, i+1)
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (p *Parser) parseTypedef() (ast.Statement, error) {
	tdTok := p.advance()
	line := tdTok.Pos.Line
	if p.startsStructDef() {
		return p.parseStructDef(true, line)
	}
	ts, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	ts.Pointer += p.stars()
	name, err := p.expectIdent("typedef name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	p.types[name.Text] = true
	return &ast.TypedefDecl{BaseStmt: ast.BaseStmt{SourceLine: line}, Type: ts, Name: name.Text}, nil
}

func (p *Parser) parseStructDef(typedef bool, line int) (*ast.StructDef, error) {
	if _, err := p.expect("struct"); err != nil {
		return nil, err
	}
	def := &ast.StructDef{BaseStmt: ast.BaseStmt{SourceLine: line}}
	if p.peek().Kind == Ident {
		def.Tag = p.advance().Text
		p.types[def.Tag] = true
	}
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	label := "struct"
	if def.Tag != "" {
		label = "struct " + def.Tag
	}
	def.Fields, err = p.parseFields(open, label)
	if err != nil {
		return nil, err
	}
	if typedef {
		alias, err := p.expectIdent("typedef name after struct body")
		if err != nil {
			return nil, err
		}
		def.Alias = alias.Text
		p.types[alias.Text] = true
	} else if def.Tag == "" {
		return nil, p.errorf(open, "anonymous struct needs a typedef name")
	} else if !p.peek().Is(";") {
		for {
			d, err := p.parseDeclarator(p.stars())
			if err != nil {
				return nil, err
			}
			def.Vars = append(def.Vars, d)
			if !p.accept(",") {
				break
			}
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return def, nil
}

// parseFields reads semicolon-terminated field declarations up to and
// including the closing brace. Every failure is reported as a struct error.
func (p *Parser) parseFields(open Token, label string) ([]ast.Field, error) {
	structErr := func(tok Token, format string, args ...any) error {
		return &Error{Pos: tok.Pos, Msg: label + ": " + fmt.Sprintf(format, args...), Struct: true}
	}
	var fields []ast.Field
	for !p.peek().Is("}") {
		tok := p.peek()
		if tok.Kind == EOF {
			return nil, structErr(open, "unterminated struct body")
		}
		if !p.isTypeStart(tok) {
			return nil, structErr(tok, "expected field declaration, got %s", tok)
		}
		ts, err := p.parseTypeSpec()
		if err != nil {
			return nil, structErr(tok, "%s", err.(*Error).Msg)
		}
		for {
			stars := p.stars()
			name := p.peek()
			if name.Kind != Ident {
				return nil, structErr(name, "expected field name, got %s", name)
			}
			p.advance()
			f := ast.Field{Type: ts, Name: name.Text, Line: name.Pos.Line}
			f.Type.Pointer += stars
			for p.accept("[") {
				n, err := p.parseCond()
				if err != nil {
					return nil, structErr(name, "field %s: bad array size", name.Text)
				}
				if !p.accept("]") {
					return nil, structErr(p.peek(), "field %s: expected \"]\", got %s", name.Text, p.peek())
				}
				f.Dims = append(f.Dims, n)
			}
			fields = append(fields, f)
			if !p.accept(",") {
				break
			}
		}
		if !p.accept(";") {
			return nil, structErr(p.peek(), "expected \";\" after field %s, got %s", fields[len(fields)-1].Name, p.peek())
		}
	}
	p.advance()
	if len(fields) == 0 {
		return nil, structErr(open, "struct body has no fields")
	}
	return fields, nil
}

// --- statements ---

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	block := &ast.Block{BaseStmt: ast.BaseStmt{SourceLine: open.Pos.Line}}
	for !p.peek().Is("}") {
		if p.peek().Kind == EOF {
			return nil, p.errorf(open, "unterminated block: missing \"}\"")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, s)
	}
	p.advance()
	return block, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	err := p.enter()
	defer p.leave()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	base := ast.BaseStmt{SourceLine: tok.Pos.Line}
	switch {
	case tok.Is("{"):
		return p.parseBlock()
	case tok.Is(";"):
		p.advance()
		return &ast.EmptyStmt{BaseStmt: base}, nil
	case tok.Is("if"):
		return p.parseIf(base)
	case tok.Is("while"):
		p.advance()
		cond, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{BaseStmt: base, Cond: cond, Body: body}, nil
	case tok.Is("do"):
		p.advance()
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("while"); err != nil {
			return nil, err
		}
		cond, err := p.parseParenExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.DoWhileStmt{BaseStmt: base, Body: body, Cond: cond}, nil
	case tok.Is("for"):
		return p.parseFor(base)
	case tok.Is("switch"):
		return p.parseSwitch(base)
	case tok.Is("return"):
		p.advance()
		if p.accept(";") {
			return &ast.ReturnStmt{BaseStmt: base}, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{BaseStmt: base, Value: v}, nil
	case tok.Is("break"), tok.Is("continue"):
		p.advance()
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		if tok.Text == "break" {
			return &ast.BreakStmt{BaseStmt: base}, nil
		}
		return &ast.ContinueStmt{BaseStmt: base}, nil
	case tok.Is("typedef"):
		return p.parseTypedef()
	case tok.Is("goto"):
		return nil, p.errorf(tok, "goto is not supported")
	case tok.Is("case"), tok.Is("default"):
		return nil, p.errorf(tok, "%s outside of switch", tok)
	case p.startsStructDef():
		return p.parseStructDef(false, base.SourceLine)
	case p.isTypeStart(tok):
		return p.parseLocalDecl(base.SourceLine)
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{BaseStmt: base, X: x}, nil
}

func (p *Parser) parseLocalDecl(line int) (*ast.DeclStmt, error) {
	ts, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	stars := p.stars()
	if p.peek().Kind == Ident && p.peekAt(1).Is("(") {
		return nil, p.errorf(p.peek(), "function %s: nested function declarations are not supported", p.peek().Text)
	}
	return p.parseDeclRest(ts, stars, line)
}

func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return x, nil
}

func (p *Parser) parseIf(base ast.BaseStmt) (*ast.IfStmt, error) {
	p.advance()
	cond, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	st := &ast.IfStmt{BaseStmt: base, Cond: cond, Then: then}
	if p.accept("else") {
		st.Else, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *Parser) parseFor(base ast.BaseStmt) (*ast.ForStmt, error) {
	p.advance()
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	st := &ast.ForStmt{BaseStmt: base}
	switch tok := p.peek(); {
	case tok.Is(";"):
		p.advance()
	case p.isTypeStart(tok):
		decl, err := p.parseLocalDecl(tok.Pos.Line)
		if err != nil {
			return nil, err
		}
		st.Init = decl
	default:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		st.Init = &ast.ExprStmt{BaseStmt: ast.BaseStmt{SourceLine: tok.Pos.Line}, X: x}
	}
	if !p.peek().Is(";") {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		st.Cond = cond
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if !p.peek().Is(")") {
		post, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		st.Post = post
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	st.Body = body
	return st, nil
}

func (p *Parser) parseSwitch(base ast.BaseStmt) (*ast.SwitchStmt, error) {
	p.advance()
	tag, err := p.parseParenExpr()
	if err != nil {
		return nil, err
	}
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	st := &ast.SwitchStmt{BaseStmt: base, Tag: tag}
	for !p.peek().Is("}") {
		tok := p.peek()
		switch {
		case tok.Kind == EOF:
			return nil, p.errorf(open, "unterminated switch body")
		case tok.Is("case"):
			p.advance()
			v, err := p.parseCond()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			st.Cases = append(st.Cases, ast.CaseClause{Value: v, Line: tok.Pos.Line})
		case tok.Is("default"):
			p.advance()
			if _, err := p.expect(":"); err != nil {
				return nil, err
			}
			st.Cases = append(st.Cases, ast.CaseClause{Line: tok.Pos.Line})
		case len(st.Cases) == 0:
			return nil, p.errorf(tok, "expected case or default, got %s", tok)
		default:
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			last := &st.Cases[len(st.Cases)-1]
			last.Body = append(last.Body, s)
		}
	}
	p.advance()
	return st, nil
}

// --- expressions ---

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

var unaryOps = map[string]bool{
	"-": true, "+": true, "!": true, "~": true, "++": true, "--": true, "&": true,
}

var binaryPrec = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	x, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	for p.accept(",") {
		y, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: ",", X: x, Y: y}
	}
	return x, nil
}

func (p *Parser) parseAssign() (ast.Expr, error) {
	x, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind == Punct && assignOps[tok.Text] {
		p.advance()
		v, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ast.AssignExpr{Op: tok.Text, Target: x, Value: v}, nil
	}
	return x, nil
}

func (p *Parser) parseCond() (ast.Expr, error) {
	c, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.accept("?") {
		return c, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	return &ast.CondExpr{Cond: c, Then: then, Else: els}, nil
}

// parseBinary is precedence climbing over binaryPrec; all levels are left
// associative.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := binaryPrec[tok.Text]
		if tok.Kind != Punct || !ok || prec < minPrec {
			return x, nil
		}
		p.advance()
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: tok.Text, X: x, Y: y}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	err := p.enter()
	defer p.leave()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	switch {
	case tok.Kind == Punct && unaryOps[tok.Text]:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: tok.Text, X: x}, nil
	case tok.Is("*"):
		return nil, p.errorf(tok, "pointer dereference is not supported")
	case tok.Is("sizeof"):
		return nil, p.errorf(tok, "sizeof is not supported")
	case tok.Is("(") && p.isTypeStart(p.peekAt(1)):
		p.advance()
		ts, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		if p.stars() > 0 {
			return nil, p.errorf(tok, "pointer casts are not supported")
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Type: ts, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch {
		case tok.Is("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &ast.IndexExpr{X: x, Index: idx}
		case tok.Is("("):
			p.advance()
			call := &ast.CallExpr{Func: x, Line: tok.Pos.Line}
			for !p.peek().Is(")") {
				arg, err := p.parseAssign()
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, arg)
				if !p.accept(",") {
					break
				}
			}
			if _, err := p.expect(")"); err != nil {
				return nil, err
			}
			x = call
		case tok.Is("."):
			p.advance()
			name, err := p.expectIdent("member name")
			if err != nil {
				return nil, err
			}
			x = &ast.MemberExpr{X: x, Name: name.Text}
		case tok.Is("->"):
			return nil, p.errorf(tok, "'->' is not supported: pointers are outside the accepted subset")
		case tok.Is("++"), tok.Is("--"):
			p.advance()
			x = &ast.PostfixExpr{Op: tok.Text, X: x}
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case Ident:
		p.advance()
		return &ast.Ident{Name: tok.Text, Line: tok.Pos.Line}, nil
	case Int:
		p.advance()
		return &ast.IntLit{Value: strings.TrimRight(tok.Text, "uUlL")}, nil
	case Float:
		p.advance()
		return &ast.FloatLit{Value: strings.TrimRight(tok.Text, "fFlL")}, nil
	case Char:
		p.advance()
		return &ast.CharLit{Value: tok.Text[1 : len(tok.Text)-1]}, nil
	case String:
		var sb strings.Builder
		for p.peek().Kind == String {
			t := p.advance().Text
			sb.WriteString(t[1 : len(t)-1])
		}
		return &ast.StringLit{Value: sb.String(), Line: tok.Pos.Line}, nil
	}
	if tok.Is("(") {
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{X: x}, nil
	}
	return nil, p.errorf(tok, "expected expression, got %s", tok)
}

package ast

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Statement is the interface for statement nodes. Top-level items (functions,
// struct definitions, global declarations) are statements too.
type Statement interface {
	Node
	stmt()
	StmtLine() int
}

// BaseStmt provides common fields for all statements.
type BaseStmt struct {
	SourceLine int // line in the original source
}

func (b BaseStmt) StmtLine() int { return b.SourceLine }

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node of one translation unit.
type Program struct {
	Statements []Statement
	SourceFile string
}

func (p *Program) node() {}

// TypeSpec is a declaration's type as written: base name plus qualifiers.
type TypeSpec struct {
	Name    string // "int", "unsigned int", "char", or a struct/typedef name
	Struct  bool   // written with the struct keyword
	Const   bool
	Pointer int // number of '*' in the base type
}

// Primitive reports whether the type is a builtin arithmetic type or void.
func (t TypeSpec) Primitive() bool {
	return !t.Struct && IsPrimitive(t.Name)
}

// Field is one struct member declarator.
type Field struct {
	Type TypeSpec
	Name string
	Dims []Expr
	Line int
}

// StructDef is `struct Tag { ... };` or `typedef struct [Tag] { ... } Alias;`.
type StructDef struct {
	BaseStmt
	Tag    string
	Alias  string // typedef name; empty for a plain tagged definition
	Fields []Field
	Vars   []Declarator // declarators after the closing brace of a plain definition
}

func (s *StructDef) node() {}
func (s *StructDef) stmt() {}

// TypedefDecl is `typedef <type> Name;` for a non-struct-body type.
type TypedefDecl struct {
	BaseStmt
	Type TypeSpec
	Name string
}

func (t *TypedefDecl) node() {}
func (t *TypedefDecl) stmt() {}

// Param is one function parameter. Array parameters keep Array set.
type Param struct {
	Type  TypeSpec
	Name  string
	Array bool
}

// FuncDef is a function definition, or a prototype when Body is nil.
type FuncDef struct {
	BaseStmt
	Name   string
	Return TypeSpec
	Params []Param
	Body   *Block
}

func (f *FuncDef) node() {}
func (f *FuncDef) stmt() {}

// Declarator is one name in a declaration: `a`, `a[3]`, `a = 1`.
type Declarator struct {
	Name    string
	Pointer int
	Dims    []Expr
	Init    Expr // nil when absent
	Line    int
}

// DeclStmt is a variable declaration with one or more declarators.
type DeclStmt struct {
	BaseStmt
	Type  TypeSpec
	Decls []Declarator
}

func (d *DeclStmt) node() {}
func (d *DeclStmt) stmt() {}

// Block is `{ stmts }`.
type Block struct {
	BaseStmt
	Stmts []Statement
}

func (b *Block) node() {}
func (b *Block) stmt() {}

// ExprStmt is an expression followed by ';'.
type ExprStmt struct {
	BaseStmt
	X Expr
}

func (e *ExprStmt) node() {}
func (e *ExprStmt) stmt() {}

// EmptyStmt is a lone ';'.
type EmptyStmt struct {
	BaseStmt
}

func (e *EmptyStmt) node() {}
func (e *EmptyStmt) stmt() {}

// IfStmt is if/else. Else is nil when absent.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Statement
	Else Statement
}

func (i *IfStmt) node() {}
func (i *IfStmt) stmt() {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Statement
}

func (w *WhileStmt) node() {}
func (w *WhileStmt) stmt() {}

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	BaseStmt
	Body Statement
	Cond Expr
}

func (d *DoWhileStmt) node() {}
func (d *DoWhileStmt) stmt() {}

// ForStmt is `for (init; cond; post) body`. Init is a *DeclStmt, an
// *ExprStmt or nil; Cond and Post may be nil.
type ForStmt struct {
	BaseStmt
	Init Statement
	Cond Expr
	Post Expr
	Body Statement
}

func (f *ForStmt) node() {}
func (f *ForStmt) stmt() {}

// CaseClause is one `case v:` or `default:` arm. Default has Value == nil.
type CaseClause struct {
	Value Expr
	Body  []Statement
	Line  int
}

// SwitchStmt is `switch (tag) { cases }`.
type SwitchStmt struct {
	BaseStmt
	Tag   Expr
	Cases []CaseClause
}

func (s *SwitchStmt) node() {}
func (s *SwitchStmt) stmt() {}

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

func (r *ReturnStmt) node() {}
func (r *ReturnStmt) stmt() {}

// BreakStmt is `break;`.
type BreakStmt struct {
	BaseStmt
}

func (b *BreakStmt) node() {}
func (b *BreakStmt) stmt() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	BaseStmt
}

func (c *ContinueStmt) node() {}
func (c *ContinueStmt) stmt() {}

// --- Expressions ---

// Ident is a name reference.
type Ident struct {
	Name string
	Line int
}

func (i *Ident) node() {}
func (i *Ident) expr() {}

// IntLit is an integer constant; Value is the digits with any suffix removed.
type IntLit struct {
	Value string
}

func (i *IntLit) node() {}
func (i *IntLit) expr() {}

// FloatLit is a floating constant; Value has any suffix removed.
type FloatLit struct {
	Value string
}

func (f *FloatLit) node() {}
func (f *FloatLit) expr() {}

// CharLit is a character constant. Value is the body between the quotes,
// escapes kept as written.
type CharLit struct {
	Value string
}

func (c *CharLit) node() {}
func (c *CharLit) expr() {}

// StringLit is a string literal. Value is the body between the quotes with
// escapes kept as written; adjacent literals are already concatenated.
type StringLit struct {
	Value string
	Line  int
}

func (s *StringLit) node() {}
func (s *StringLit) expr() {}

// BinaryExpr is `X op Y`, including the comma operator.
type BinaryExpr struct {
	Op string
	X  Expr
	Y  Expr
}

func (b *BinaryExpr) node() {}
func (b *BinaryExpr) expr() {}

// UnaryExpr is a prefix operator: - + ! ~ ++ -- &.
type UnaryExpr struct {
	Op string
	X  Expr
}

func (u *UnaryExpr) node() {}
func (u *UnaryExpr) expr() {}

// PostfixExpr is `X++` or `X--`.
type PostfixExpr struct {
	Op string
	X  Expr
}

func (p *PostfixExpr) node() {}
func (p *PostfixExpr) expr() {}

// AssignExpr is `Target op Value` for = and the compound assignments.
type AssignExpr struct {
	Op     string
	Target Expr
	Value  Expr
}

func (a *AssignExpr) node() {}
func (a *AssignExpr) expr() {}

// CondExpr is `Cond ? Then : Else`.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (c *CondExpr) node() {}
func (c *CondExpr) expr() {}

// CallExpr is `Func(args)`. Func is an *Ident for every call the subset
// accepts.
type CallExpr struct {
	Func Expr
	Args []Expr
	Line int
}

func (c *CallExpr) node() {}
func (c *CallExpr) expr() {}

// Callee returns the called name, or "" when Func is not an identifier.
// Parentheses around the identifier, as left by macro expansion, are
// looked through.
func (c *CallExpr) Callee() string {
	f := c.Func
	for {
		p, ok := f.(*ParenExpr)
		if !ok {
			break
		}
		f = p.X
	}
	if id, ok := f.(*Ident); ok {
		return id.Name
	}
	return ""
}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	X     Expr
	Index Expr
}

func (i *IndexExpr) node() {}
func (i *IndexExpr) expr() {}

// MemberExpr is `X.Name`.
type MemberExpr struct {
	X    Expr
	Name string
}

func (m *MemberExpr) node() {}
func (m *MemberExpr) expr() {}

// CastExpr is `(Type) X`.
type CastExpr struct {
	Type TypeSpec
	X    Expr
}

func (c *CastExpr) node() {}
func (c *CastExpr) expr() {}

// ParenExpr is `(X)`. Parentheses are kept so output precedence matches the
// source, including those added by macro expansion.
type ParenExpr struct {
	X Expr
}

func (p *ParenExpr) node() {}
func (p *ParenExpr) expr() {}

// InitList is a brace initializer `{a, b, c}`.
type InitList struct {
	Elems []Expr
}

func (i *InitList) node() {}
func (i *InitList) expr() {}

var primitives = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true,
}

// IsPrimitive reports whether name is a builtin type. Multi-word names such
// as "unsigned long" are primitive when every word is.
func IsPrimitive(name string) bool {
	if name == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == ' ' {
			if !primitives[name[start:i]] {
				return false
			}
			start = i + 1
		}
	}
	return true
}

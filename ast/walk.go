package ast

// Inspect traverses the tree rooted at n in depth-first order. It calls f for
// each node; when f returns false the node's children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *StructDef:
		for _, fd := range n.Fields {
			inspectExprs(fd.Dims, f)
		}
		inspectDecls(n.Vars, f)
	case *FuncDef:
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *DeclStmt:
		inspectDecls(n.Decls, f)
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *DoWhileStmt:
		Inspect(n.Body, f)
		Inspect(n.Cond, f)
	case *ForStmt:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
		inspectOpt(n.Cond, f)
		inspectOpt(n.Post, f)
		Inspect(n.Body, f)
	case *SwitchStmt:
		Inspect(n.Tag, f)
		for _, c := range n.Cases {
			inspectOpt(c.Value, f)
			for _, s := range c.Body {
				Inspect(s, f)
			}
		}
	case *ReturnStmt:
		inspectOpt(n.Value, f)
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *UnaryExpr:
		Inspect(n.X, f)
	case *PostfixExpr:
		Inspect(n.X, f)
	case *AssignExpr:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CondExpr:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *CallExpr:
		Inspect(n.Func, f)
		inspectExprs(n.Args, f)
	case *IndexExpr:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *MemberExpr:
		Inspect(n.X, f)
	case *CastExpr:
		Inspect(n.X, f)
	case *ParenExpr:
		Inspect(n.X, f)
	case *InitList:
		inspectExprs(n.Elems, f)
	}
}

func inspectOpt(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		inspectOpt(e, f)
	}
}

func inspectDecls(decls []Declarator, f func(Node) bool) {
	for _, d := range decls {
		inspectExprs(d.Dims, f)
		inspectOpt(d.Init, f)
	}
}

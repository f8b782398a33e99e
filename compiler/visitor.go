package compiler

// walkJSProgram traverses every section of the program and calls fn on
// every expression. Returns true as soon as fn returns true.
func walkJSProgram(prog *JSProgram, fn func(JSExpr) bool) bool {
	if walkJSStmts(prog.Shims, fn) || walkJSStmts(prog.Globals, fn) {
		return true
	}
	for _, f := range prog.Funcs {
		if walkJSStmt(f, fn) {
			return true
		}
	}
	return walkJSStmts(prog.Main, fn)
}

func walkJSStmts(list []JSStmt, fn func(JSExpr) bool) bool {
	for _, s := range list {
		if walkJSStmt(s, fn) {
			return true
		}
	}
	return false
}

func walkJSStmt(s JSStmt, fn func(JSExpr) bool) bool {
	switch st := s.(type) {
	case *JSFunc:
		return walkJSStmts(st.Body, fn)
	case *JSVar:
		for _, b := range st.Binds {
			if walkJSExpr(b.Value, fn) {
				return true
			}
		}
	case *JSExprStmt:
		return walkJSExpr(st.X, fn)
	case *JSBlock:
		return walkJSStmts(st.Body, fn)
	case *JSIf:
		return walkJSExpr(st.Cond, fn) || walkJSStmts(st.Then, fn) || walkJSStmts(st.Else, fn)
	case *JSWhile:
		return walkJSExpr(st.Cond, fn) || walkJSStmts(st.Body, fn)
	case *JSDoWhile:
		return walkJSStmts(st.Body, fn) || walkJSExpr(st.Cond, fn)
	case *JSFor:
		if st.Init != nil && walkJSStmt(st.Init, fn) {
			return true
		}
		return walkJSExpr(st.Cond, fn) || walkJSExpr(st.Post, fn) || walkJSStmts(st.Body, fn)
	case *JSSwitch:
		if walkJSExpr(st.Tag, fn) {
			return true
		}
		for _, c := range st.Cases {
			if walkJSExpr(c.Value, fn) || walkJSStmts(c.Body, fn) {
				return true
			}
		}
	case *JSReturn:
		return walkJSExpr(st.Value, fn)
	}
	return false
}

// walkJSExpr calls fn on the expression, then recurses into child
// expressions. JSRaw has no children.
func walkJSExpr(e JSExpr, fn func(JSExpr) bool) bool {
	if e == nil {
		return false
	}
	if fn(e) {
		return true
	}
	switch ex := e.(type) {
	case *JSTemplate:
		for _, p := range ex.Parts {
			if walkJSExpr(p.Expr, fn) {
				return true
			}
		}
	case *JSBinary:
		return walkJSExpr(ex.X, fn) || walkJSExpr(ex.Y, fn)
	case *JSUnary:
		return walkJSExpr(ex.X, fn)
	case *JSPostfix:
		return walkJSExpr(ex.X, fn)
	case *JSAssign:
		return walkJSExpr(ex.Target, fn) || walkJSExpr(ex.Value, fn)
	case *JSCond:
		return walkJSExpr(ex.Cond, fn) || walkJSExpr(ex.Then, fn) || walkJSExpr(ex.Else, fn)
	case *JSCall:
		if walkJSExpr(ex.Func, fn) {
			return true
		}
		for _, a := range ex.Args {
			if walkJSExpr(a, fn) {
				return true
			}
		}
	case *JSIndex:
		return walkJSExpr(ex.X, fn) || walkJSExpr(ex.Index, fn)
	case *JSMember:
		return walkJSExpr(ex.X, fn)
	case *JSParen:
		return walkJSExpr(ex.X, fn)
	case *JSArray:
		for _, el := range ex.Elems {
			if walkJSExpr(el, fn) {
				return true
			}
		}
	case *JSObject:
		for _, p := range ex.Props {
			if walkJSExpr(p.Value, fn) {
				return true
			}
		}
	case *JSArrow:
		return walkJSExpr(ex.Body, fn)
	}
	return false
}

// forEachJSStmt calls fn on every statement in list and in the bodies
// nested under it, parents first.
func forEachJSStmt(list []JSStmt, fn func(JSStmt)) {
	for _, s := range list {
		fn(s)
		switch st := s.(type) {
		case *JSFunc:
			forEachJSStmt(st.Body, fn)
		case *JSBlock:
			forEachJSStmt(st.Body, fn)
		case *JSIf:
			forEachJSStmt(st.Then, fn)
			forEachJSStmt(st.Else, fn)
		case *JSWhile:
			forEachJSStmt(st.Body, fn)
		case *JSDoWhile:
			forEachJSStmt(st.Body, fn)
		case *JSFor:
			if st.Init != nil {
				fn(st.Init)
			}
			forEachJSStmt(st.Body, fn)
		case *JSSwitch:
			for _, c := range st.Cases {
				forEachJSStmt(c.Body, fn)
			}
		}
	}
}

package compiler

import "github.com/playXE/js/internal/ast"

// hoistedNames walks a function body (not descending into nested function
// literals) collecting every `var`-declared and function-declared name, per
// spec.md §4.4 Pass 1: "Hoist Var and Function declarations to the enclosing
// function scope." usesArguments reports whether the literal identifier
// `arguments` appears anywhere in the body (also without descending into
// nested functions, since each function has its own arguments object).
func hoistedNames(body []ast.Node) (vars []string, funcs []*ast.FunctionDeclaration, usesArguments bool) {
	var walkStmt func(n ast.Node)
	var walkExpr func(n ast.Node)

	walkExpr = func(n ast.Node) {
		switch e := n.(type) {
		case nil:
			return
		case *ast.Identifier:
			if e.Name == "arguments" {
				usesArguments = true
			}
		case *ast.ThisExpression, *ast.Literal:
			return
		case *ast.ArrayLiteral:
			for _, el := range e.Elements {
				walkExpr(el.Value)
			}
		case *ast.ObjectLiteral:
			for _, p := range e.Properties {
				if p.Computed {
					walkExpr(p.KeyExpr)
				}
				walkExpr(p.Value)
			}
		case *ast.FunctionExpression:
			// Do not descend: separate function scope.
		case *ast.UnaryExpression:
			walkExpr(e.Argument)
		case *ast.UpdateExpression:
			walkExpr(e.Argument)
		case *ast.BinaryExpression:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.LogicalExpression:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.AssignmentExpression:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.ConditionalExpression:
			walkExpr(e.Test)
			walkExpr(e.Consequent)
			walkExpr(e.Alternate)
		case *ast.MemberExpression:
			walkExpr(e.Object)
			if e.Computed {
				walkExpr(e.Property)
			}
		case *ast.CallExpression:
			walkExpr(e.Callee)
			for _, a := range e.Arguments {
				walkExpr(a.Value)
			}
		case *ast.NewExpression:
			walkExpr(e.Callee)
			for _, a := range e.Arguments {
				walkExpr(a.Value)
			}
		case *ast.SequenceExpression:
			for _, sub := range e.Expressions {
				walkExpr(sub)
			}
		}
	}

	walkStmt = func(n ast.Node) {
		switch s := n.(type) {
		case nil:
			return
		case *ast.VariableDeclaration:
			if s.Kind == ast.VarVar {
				for _, d := range s.Declarations {
					vars = append(vars, d.Name)
					walkExpr(d.Init)
				}
			} else {
				for _, d := range s.Declarations {
					walkExpr(d.Init)
				}
			}
		case *ast.FunctionDeclaration:
			funcs = append(funcs, s)
		case *ast.BlockStatement:
			for _, sub := range s.Body {
				walkStmt(sub)
			}
		case *ast.ExpressionStatement:
			walkExpr(s.Expression)
		case *ast.IfStatement:
			walkExpr(s.Test)
			walkStmt(s.Consequent)
			walkStmt(s.Alternate)
		case *ast.ForStatement:
			walkStmt(s.Init)
			walkExpr(s.Test)
			walkExpr(s.Update)
			walkStmt(s.Body)
		case *ast.ForInStatement:
			walkStmt(s.Left)
			walkExpr(s.Right)
			walkStmt(s.Body)
		case *ast.WhileStatement:
			walkExpr(s.Test)
			walkStmt(s.Body)
		case *ast.DoWhileStatement:
			walkExpr(s.Test)
			walkStmt(s.Body)
		case *ast.ReturnStatement:
			walkExpr(s.Argument)
		case *ast.ThrowStatement:
			walkExpr(s.Argument)
		case *ast.TryStatement:
			for _, sub := range s.Block.Body {
				walkStmt(sub)
			}
			if s.Handler != nil {
				for _, sub := range s.Handler.Body.Body {
					walkStmt(sub)
				}
			}
			if s.Finalizer != nil {
				for _, sub := range s.Finalizer.Body {
					walkStmt(sub)
				}
			}
		case *ast.LabeledStatement:
			walkStmt(s.Body)
		}
	}

	for _, n := range body {
		walkStmt(n)
	}
	return vars, funcs, usesArguments
}

package compiler

import (
	"github.com/playXE/js/internal/ast"
	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/value"
)

// compileExpression compiles n, leaving exactly one value on the stack
// (net stack effect +1), per spec §6's opcode table.
func (c *Compiler) compileExpression(n ast.Node) {
	switch e := n.(type) {
	case *ast.ThisExpression:
		c.w.Emit(bytecode.OpPushThis)
	case *ast.Literal:
		c.compileLiteral(e)
	case *ast.Identifier:
		c.compileIdentifierRead(e.Name)
	case *ast.ArrayLiteral:
		c.compileArrayLiteral(e)
	case *ast.ObjectLiteral:
		c.compileObjectLiteral(e)
	case *ast.FunctionExpression:
		nested := CompileFunction(c.symbols, c.host, e.Name, e.Params, e.Body, e.Strict || c.cb.Strict, c.scope)
		idx := c.cb.AddNested(nested)
		c.w.Emit(bytecode.OpGetFunction, idx)
	case *ast.UnaryExpression:
		c.compileUnary(e)
	case *ast.UpdateExpression:
		c.compileUpdate(e)
	case *ast.BinaryExpression:
		c.compileBinary(e)
	case *ast.LogicalExpression:
		c.compileLogical(e)
	case *ast.AssignmentExpression:
		c.compileAssignment(e)
	case *ast.ConditionalExpression:
		c.compileConditional(e)
	case *ast.MemberExpression:
		c.compileMemberGet(e)
	case *ast.CallExpression:
		c.compileCall(e)
	case *ast.NewExpression:
		c.compileNew(e)
	case *ast.SequenceExpression:
		for i, sub := range e.Expressions {
			if i > 0 {
				c.w.Emit(bytecode.OpPop)
			}
			c.compileExpression(sub)
		}
	default:
		jserror.NewFault("compiler: unsupported expression node")
	}
}

func (c *Compiler) compileLiteral(e *ast.Literal) {
	switch e.Kind {
	case ast.LitNumber:
		if i := int32(e.Number); float64(i) == e.Number {
			c.w.Emit(bytecode.OpPushInt, uint32(i))
		} else {
			idx := c.cb.AddLiteral(value.Double(e.Number))
			c.w.Emit(bytecode.OpPushLiteral, idx)
		}
	case ast.LitString:
		idx := c.cb.AddLiteral(c.host.NewString(e.String))
		c.w.Emit(bytecode.OpPushLiteral, idx)
	case ast.LitBool:
		if e.Bool {
			c.w.Emit(bytecode.OpPushTrue)
		} else {
			c.w.Emit(bytecode.OpPushFalse)
		}
	case ast.LitNull:
		c.w.Emit(bytecode.OpPushNull)
	case ast.LitUndefined:
		c.w.Emit(bytecode.OpPushUndef)
	}
}

// compileIdentifierRead emits GET_VAR when name resolves in some enclosing
// compile-time scope, or GET_GLOBAL otherwise, per spec §4.4.
func (c *Compiler) compileIdentifierRead(name string) {
	if name == "this" {
		c.w.Emit(bytecode.OpPushThis)
		return
	}
	if c.scope.resolves(name) {
		c.w.Emit(bytecode.OpGetVar, c.nameIndex(name), c.feedbackSlot())
	} else {
		c.w.Emit(bytecode.OpGetGlobal, c.nameIndex(name))
	}
}

// compileIdentifierWrite stores the value already on top of the stack into
// name. SET_VAR/SET_GLOBAL leave that value on top afterward (see
// opcode.go), so callers that don't want the stored value left behind must
// follow with a POP.
func (c *Compiler) compileIdentifierWrite(name string) {
	if c.scope.resolves(name) {
		c.w.Emit(bytecode.OpSetVar, c.nameIndex(name), c.feedbackSlot())
	} else {
		c.w.Emit(bytecode.OpSetGlobal, c.nameIndex(name))
	}
}

func (c *Compiler) compileArrayLiteral(e *ast.ArrayLiteral) {
	hasSpread := false
	for _, el := range e.Elements {
		if el.Spread {
			hasSpread = true
			break
		}
	}
	if !hasSpread {
		for _, el := range e.Elements {
			if el.Value == nil {
				c.w.Emit(bytecode.OpPushUndef) // elision/hole, represented as undefined element
			} else {
				c.compileExpression(el.Value)
			}
		}
		c.w.Emit(bytecode.OpNewArray, uint32(len(e.Elements)))
		return
	}
	// With a spread present, build the array by appending elements at
	// runtime via CALL_BUILTIN's "apply"-style effect rather than NEWARRAY's
	// fixed-count form, per spec §4.4's Call/spread handling generalized to
	// array literals.
	c.w.Emit(bytecode.OpNewArray, 0)
	for _, el := range e.Elements {
		c.w.Emit(bytecode.OpDup)
		if el.Spread {
			c.compileExpression(el.Value)
			c.w.Emit(bytecode.OpCallBuiltin, 2, bytecode.BuiltinArrayPushSpread, 0)
		} else {
			if el.Value == nil {
				c.w.Emit(bytecode.OpPushUndef)
			} else {
				c.compileExpression(el.Value)
			}
			c.w.Emit(bytecode.OpCallBuiltin, 2, bytecode.BuiltinArrayPush, 0)
		}
		c.w.Emit(bytecode.OpPop)
	}
}

func (c *Compiler) compileObjectLiteral(e *ast.ObjectLiteral) {
	c.w.Emit(bytecode.OpNewObject)
	for _, p := range e.Properties {
		c.w.Emit(bytecode.OpDup)
		c.compileExpression(p.Value)
		if p.Computed {
			c.compileExpression(p.KeyExpr)
			c.w.Emit(bytecode.OpSwap)
			c.w.Emit(bytecode.OpPutByVal)
		} else {
			c.w.Emit(bytecode.OpPutById, c.nameIndex(p.Key), c.feedbackSlot())
		}
		// PUT_BY_ID/PUT_BY_VAL leave the stored value on top; discard it so
		// only the object itself remains for the next property (or as this
		// literal's final result).
		c.w.Emit(bytecode.OpPop)
	}
}

func (c *Compiler) compileUnary(e *ast.UnaryExpression) {
	if e.Operator == ast.UnaryDelete {
		c.compileDelete(e.Argument)
		return
	}
	if e.Operator == ast.UnaryTypeof {
		if id, ok := e.Argument.(*ast.Identifier); ok && !c.scope.resolves(id.Name) {
			// typeof on an unresolved identifier must not throw a
			// ReferenceError (SPEC_FULL.md §12). GET_GLOBAL throws on a
			// missing global, so the name is read as a property of the
			// global object instead, which yields undefined on a miss.
			c.w.Emit(bytecode.OpGlobalThis)
			c.w.Emit(bytecode.OpGetById, c.nameIndex(id.Name), c.feedbackSlot())
			c.w.Emit(bytecode.OpTypeof)
			return
		}
	}
	c.compileExpression(e.Argument)
	switch e.Operator {
	case ast.UnaryNeg:
		c.w.Emit(bytecode.OpNeg)
	case ast.UnaryPos:
		c.w.Emit(bytecode.OpPos)
	case ast.UnaryBitNot:
		c.w.Emit(bytecode.OpBitNot)
	case ast.UnaryLogicalNot:
		c.w.Emit(bytecode.OpLogicalNot)
	case ast.UnaryTypeof:
		c.w.Emit(bytecode.OpTypeof)
	case ast.UnaryVoid:
		c.w.Emit(bytecode.OpPop)
		c.w.Emit(bytecode.OpPushUndef)
	}
}

func (c *Compiler) compileDelete(target ast.Node) {
	switch t := target.(type) {
	case *ast.Identifier:
		c.w.Emit(bytecode.OpDeleteVar, c.nameIndex(t.Name))
	case *ast.MemberExpression:
		c.compileExpression(t.Object)
		if t.Computed {
			c.compileExpression(t.Property)
			c.w.Emit(bytecode.OpDeleteByVal)
		} else {
			name := t.Property.(*ast.Identifier).Name
			c.w.Emit(bytecode.OpDeleteById, c.nameIndex(name))
		}
	default:
		// Not a reference: evaluate for side effects, then delete always
		// reports success.
		c.compileExpression(target)
		c.w.Emit(bytecode.OpPop)
		c.w.Emit(bytecode.OpPushTrue)
	}
}

// Hidden names used to stash an object/key/value between two stack-deep
// reads and writes that PUT_BY_ID/PUT_BY_VAL's 2-operand stack contracts
// can't express directly. A NUL prefix keeps these unreachable from source
// text; reuse across (nested) update/compound-assignment sites is safe
// because each save/use pair runs to completion, in program order, before
// the next one starts — this is a single-threaded stack machine with no
// concurrent live ranges.
const (
	tempObj = "\x00updObj"
	tempKey = "\x00updKey"
	tempVal = "\x00updVal"
)

// stashTop declares/overwrites a hidden local with the value on top of the
// stack and discards the extra copy DECL_LET leaves behind.
func (c *Compiler) stashTop(name string) {
	c.scope.declare(name)
	c.w.Emit(bytecode.OpDeclLet, c.nameIndex(name))
	c.w.Emit(bytecode.OpPop)
}

func (c *Compiler) loadTemp(name string) {
	c.w.Emit(bytecode.OpGetVar, c.nameIndex(name), c.feedbackSlot())
}

// compileUpdate compiles `++x`/`x--`/etc., reading the current value,
// computing old +/- 1, writing the result back, and leaving old (postfix)
// or new (prefix) on the stack.
func (c *Compiler) compileUpdate(e *ast.UpdateExpression) {
	op := bytecode.OpAdd
	if e.Operator == ast.UpdateDecrement {
		op = bytecode.OpSub
	}
	switch t := e.Argument.(type) {
	case *ast.Identifier:
		c.compileIdentifierRead(t.Name)
		c.w.Emit(bytecode.OpDup)
		c.w.Emit(bytecode.OpPushInt, 1)
		c.w.Emit(op)
		// stack: [old, new]; SET_VAR stores new and leaves it on top.
		c.compileIdentifierWrite(t.Name)
		c.finishUpdateResult(e.Prefix)
	case *ast.MemberExpression:
		if t.Computed {
			c.compileExpression(t.Object)
			c.stashTop(tempObj)
			c.compileExpression(t.Property)
			c.stashTop(tempKey)
			c.loadTemp(tempObj)
			c.loadTemp(tempKey)
			c.w.Emit(bytecode.OpGetByVal)
			c.w.Emit(bytecode.OpDup)
			c.w.Emit(bytecode.OpPushInt, 1)
			c.w.Emit(op)
			// stack: [old, new]
			c.stashTop(tempVal)
			// stack: [old]
			c.loadTemp(tempObj)
			c.loadTemp(tempKey)
			c.loadTemp(tempVal)
			c.w.Emit(bytecode.OpPutByVal)
			// stack: [old, new]
			c.finishUpdateResult(e.Prefix)
		} else {
			c.compileExpression(t.Object)
			c.stashTop(tempObj)
			name := t.Property.(*ast.Identifier).Name
			nameIx := c.nameIndex(name)
			c.loadTemp(tempObj)
			c.w.Emit(bytecode.OpGetById, nameIx, c.feedbackSlot())
			c.w.Emit(bytecode.OpDup)
			c.w.Emit(bytecode.OpPushInt, 1)
			c.w.Emit(op)
			// stack: [old, new]
			c.stashTop(tempVal)
			// stack: [old]
			c.loadTemp(tempObj)
			c.loadTemp(tempVal)
			c.w.Emit(bytecode.OpPutById, nameIx, c.feedbackSlot())
			// stack: [old, new]
			c.finishUpdateResult(e.Prefix)
		}
	default:
		jserror.NewFault("compiler: invalid update target")
	}
}

// finishUpdateResult expects a [old, new] stack (new on top) and collapses
// it to the value an update expression should evaluate to.
func (c *Compiler) finishUpdateResult(prefix bool) {
	if prefix {
		c.w.Emit(bytecode.OpSwap)
		c.w.Emit(bytecode.OpPop)
	} else {
		c.w.Emit(bytecode.OpPop)
	}
}

func (c *Compiler) compileBinary(e *ast.BinaryExpression) {
	c.compileExpression(e.Left)
	c.compileExpression(e.Right)
	switch e.Operator {
	case ast.BinAdd:
		c.w.Emit(bytecode.OpAdd)
	case ast.BinSub:
		c.w.Emit(bytecode.OpSub)
	case ast.BinMul:
		c.w.Emit(bytecode.OpMul)
	case ast.BinDiv:
		c.w.Emit(bytecode.OpDiv)
	case ast.BinMod:
		c.w.Emit(bytecode.OpRem)
	case ast.BinBitAnd:
		c.w.Emit(bytecode.OpBitAnd)
	case ast.BinBitOr:
		c.w.Emit(bytecode.OpBitOr)
	case ast.BinBitXor:
		c.w.Emit(bytecode.OpBitXor)
	case ast.BinShl:
		c.w.Emit(bytecode.OpShl)
	case ast.BinShr:
		c.w.Emit(bytecode.OpShr)
	case ast.BinUShr:
		c.w.Emit(bytecode.OpUShr)
	case ast.BinEq:
		c.w.Emit(bytecode.OpEq)
	case ast.BinNeq:
		c.w.Emit(bytecode.OpNeq)
	case ast.BinStrictEq:
		c.w.Emit(bytecode.OpStrictEq)
	case ast.BinStrictNeq:
		c.w.Emit(bytecode.OpNStrictEq)
	case ast.BinLess:
		c.w.Emit(bytecode.OpLess)
	case ast.BinLessEq:
		c.w.Emit(bytecode.OpLessEq)
	case ast.BinGreater:
		c.w.Emit(bytecode.OpGreater)
	case ast.BinGreaterEq:
		c.w.Emit(bytecode.OpGreaterEq)
	case ast.BinIn:
		c.w.Emit(bytecode.OpIn)
	case ast.BinInstanceof:
		c.w.Emit(bytecode.OpInstanceof)
	}
}

// compileLogical compiles `&&`/`||` with short-circuit evaluation: duplicate
// the left value, conditionally jump over popping it and evaluating the
// right operand, per spec §4.4.
func (c *Compiler) compileLogical(e *ast.LogicalExpression) {
	c.compileExpression(e.Left)
	c.w.Emit(bytecode.OpDup)
	var skip int
	if e.Operator == ast.LogicalAnd {
		skip = c.cjmpFalse()
	} else {
		skip = c.cjmpTrue()
	}
	c.w.Emit(bytecode.OpPop)
	c.compileExpression(e.Right)
	c.patch(skip)
}

func (c *Compiler) compileConditional(e *ast.ConditionalExpression) {
	c.compileExpression(e.Test)
	elseJmp := c.cjmpFalse()
	c.compileExpression(e.Consequent)
	endJmp := c.jmp()
	c.patch(elseJmp)
	c.compileExpression(e.Alternate)
	c.patch(endJmp)
}

func (c *Compiler) compileMemberGet(e *ast.MemberExpression) {
	c.compileExpression(e.Object)
	if e.Computed {
		c.compileExpression(e.Property)
		c.w.Emit(bytecode.OpGetByVal)
	} else {
		name := e.Property.(*ast.Identifier).Name
		c.w.Emit(bytecode.OpGetById, c.nameIndex(name), c.feedbackSlot())
	}
}

// binOpForAssign maps a compound assignment operator to the binary opcode
// it desugars to (`a op= b` behaves as `a = a op b`).
func binOpForAssign(op ast.AssignmentOperator) bytecode.Op {
	switch op {
	case ast.AssignAdd:
		return bytecode.OpAdd
	case ast.AssignSub:
		return bytecode.OpSub
	case ast.AssignMul:
		return bytecode.OpMul
	case ast.AssignDiv:
		return bytecode.OpDiv
	case ast.AssignMod:
		return bytecode.OpRem
	case ast.AssignAnd:
		return bytecode.OpBitAnd
	case ast.AssignOr:
		return bytecode.OpBitOr
	case ast.AssignXor:
		return bytecode.OpBitXor
	case ast.AssignShl:
		return bytecode.OpShl
	case ast.AssignShr:
		return bytecode.OpShr
	case ast.AssignUShr:
		return bytecode.OpUShr
	default:
		jserror.NewFault("compiler: unsupported compound assignment operator")
		return 0
	}
}

// compileAssignment handles `=` and the compound (`+=`, etc.) operators.
// PUT_BY_ID/PUT_BY_VAL/SET_VAR/SET_GLOBAL all leave the stored value on top
// of the stack afterward, which is exactly an assignment expression's
// result, so no extra DUP/POP bookkeeping is needed for the plain-identifier
// and non-computed-member cases.
func (c *Compiler) compileAssignment(e *ast.AssignmentExpression) {
	plain := e.Operator == ast.AssignPlain

	switch t := e.Left.(type) {
	case *ast.Identifier:
		if plain {
			c.compileExpression(e.Right)
		} else {
			c.compileIdentifierRead(t.Name)
			c.compileExpression(e.Right)
			c.w.Emit(binOpForAssign(e.Operator))
		}
		c.compileIdentifierWrite(t.Name)

	case *ast.MemberExpression:
		if t.Computed {
			// PUT_BY_VAL needs [object, key, value] with value on top, but
			// building that directly would require a 3-deep stack rotation
			// no primitive here supports, so object/key/value are staged
			// through hidden locals and reloaded in the right order.
			c.compileExpression(t.Object)
			c.stashTop(tempObj)
			c.compileExpression(t.Property)
			c.stashTop(tempKey)
			if plain {
				c.compileExpression(e.Right)
			} else {
				c.loadTemp(tempObj)
				c.loadTemp(tempKey)
				c.w.Emit(bytecode.OpGetByVal)
				c.compileExpression(e.Right)
				c.w.Emit(binOpForAssign(e.Operator))
			}
			c.stashTop(tempVal)
			c.loadTemp(tempObj)
			c.loadTemp(tempKey)
			c.loadTemp(tempVal)
			c.w.Emit(bytecode.OpPutByVal)
		} else {
			nameIx := c.nameIndex(t.Property.(*ast.Identifier).Name)
			c.compileExpression(t.Object)
			if plain {
				// stack: [obj]; PUT_BY_ID wants [obj, value].
				c.compileExpression(e.Right)
				c.w.Emit(bytecode.OpPutById, nameIx, c.feedbackSlot())
			} else {
				c.stashTop(tempObj)
				c.loadTemp(tempObj)
				c.w.Emit(bytecode.OpGetById, nameIx, c.feedbackSlot())
				c.compileExpression(e.Right)
				c.w.Emit(binOpForAssign(e.Operator))
				// stack: [new]
				c.stashTop(tempVal)
				c.loadTemp(tempObj)
				c.loadTemp(tempVal)
				c.w.Emit(bytecode.OpPutById, nameIx, c.feedbackSlot())
			}
		}

	default:
		jserror.NewFault("compiler: invalid assignment target")
	}
}

func (c *Compiler) compileArguments(args []ast.ArrayElement) (argc int, spread bool) {
	for _, a := range args {
		if a.Spread {
			spread = true
		}
	}
	if !spread {
		for _, a := range args {
			c.compileExpression(a.Value)
		}
		return len(args), false
	}
	// Build a single array for CALL_BUILTIN's apply-style dispatch.
	c.w.Emit(bytecode.OpNewArray, 0)
	for _, a := range args {
		c.w.Emit(bytecode.OpDup)
		c.compileExpression(a.Value)
		if a.Spread {
			c.w.Emit(bytecode.OpCallBuiltin, 2, bytecode.BuiltinArrayPushSpread, 0)
		} else {
			c.w.Emit(bytecode.OpCallBuiltin, 2, bytecode.BuiltinArrayPush, 0)
		}
		c.w.Emit(bytecode.OpPop)
	}
	return 1, true
}

// compileCall compiles a call expression. Method calls (`obj.f(...)`) push
// the receiver as `this`; plain calls push undefined, per spec §4.4.
func (c *Compiler) compileCall(e *ast.CallExpression) {
	var thisExpr ast.Node
	var calleeLoad func()
	if m, ok := e.Callee.(*ast.MemberExpression); ok {
		thisExpr = m.Object
		calleeLoad = func() { c.compileMemberGet(m) }
	} else {
		calleeLoad = func() { c.compileExpression(e.Callee) }
	}

	if thisExpr != nil {
		// Evaluate the receiver once: duplicate it for both `this` and the
		// property lookup object, per MEMBER access + CALL's combined stack
		// contract [this, callee, args...].
		c.compileExpression(thisExpr)
		c.w.Emit(bytecode.OpDup)
		m := e.Callee.(*ast.MemberExpression)
		if m.Computed {
			c.compileExpression(m.Property)
			c.w.Emit(bytecode.OpGetByVal)
		} else {
			name := m.Property.(*ast.Identifier).Name
			c.w.Emit(bytecode.OpGetById, c.nameIndex(name), c.feedbackSlot())
		}
	} else {
		c.w.Emit(bytecode.OpPushUndef)
		calleeLoad()
	}

	argc, spread := c.compileArguments(e.Arguments)
	if spread {
		// Stack is exactly [this, callee, argsArray] at this point (argc/
		// spread above only describe compileArguments' own contribution);
		// the apply builtin's calling convention is always these 3 values.
		c.w.Emit(bytecode.OpCallBuiltin, 3, bytecode.BuiltinApply, 0)
	} else {
		c.w.Emit(bytecode.OpCall, uint32(argc))
	}
}

func (c *Compiler) compileNew(e *ast.NewExpression) {
	c.w.Emit(bytecode.OpPushUndef) // `this` slot, replaced by NEW with the freshly allocated instance
	c.compileExpression(e.Callee)
	argc, spread := c.compileArguments(e.Arguments)
	if spread {
		c.w.Emit(bytecode.OpCallBuiltin, 3, bytecode.BuiltinApply, 1)
	} else {
		c.w.Emit(bytecode.OpNew, uint32(argc))
	}
}

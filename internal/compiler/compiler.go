// Package compiler implements the two-pass compiler of spec.md §4.4: a
// scope-analysis pass that classifies bindings and decides hoisting, and an
// emission pass that walks the AST producing a flat bytecode.CodeBlock.
package compiler

import (
	"github.com/playXE/js/internal/ast"
	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/symbol"
)

// lexScope is the compiler's compile-time mirror of the runtime Environment
// chain, used only to classify an identifier as a known local (emit
// GET_VAR/SET_VAR) or unresolved (emit GET_GLOBAL/SET_GLOBAL), per spec
// §4.4's "Identifier access" contract. It intentionally carries no slot
// indices: GET_VAR/SET_VAR resolve by walking the runtime env chain (which
// mirrors this compile-time chain one-for-one), not by static offset, so
// this structure only needs to answer "declared somewhere in an enclosing
// scope, yes or no".
type lexScope struct {
	names         map[string]bool
	parent        *lexScope
	isFunctionTop bool
}

func newFunctionScope(parent *lexScope) *lexScope {
	return &lexScope{names: make(map[string]bool), parent: parent, isFunctionTop: true}
}

func newBlockScope(parent *lexScope) *lexScope {
	return &lexScope{names: make(map[string]bool), parent: parent}
}

func (s *lexScope) declare(name string) { s.names[name] = true }

func (s *lexScope) resolves(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.names[name] {
			return true
		}
	}
	return false
}

// loopContext tracks the bookkeeping break/continue need: where continue
// should jump to, the list of not-yet-patched forward break jumps, and the
// PUSH_ENV nesting depth at loop entry so break/continue can emit the right
// number of POP_ENV instructions to unwind back to it before jumping. The
// opcode table (spec §6) is explicitly non-exhaustive and spec §4.4
// describes the abstract "SET_ENV(depth_delta) before the jump" operation;
// this is concretized here as emitting depth_delta literal POP_ENV
// instructions immediately before the jump, which has the identical runtime
// effect using opcodes actually in the table.
type loopContext struct {
	continueTarget int
	breakPatches   []int
	envDepthAtLoop int
	label          string
}

// Compiler holds the state for compiling one function body (or the top
// level Program) into one CodeBlock.
type Compiler struct {
	symbols *symbol.Table
	host    object.Host // used only to materialize string literals into the literal pool at compile time
	cb      *bytecode.CodeBlock
	w       bytecode.Writer

	scope    *lexScope
	envDepth int

	loops []*loopContext

	// pendingLoopLabel carries a LabeledStatement's label across to the
	// loop it immediately wraps, consumed by takeLoopLabel at the start of
	// compiling that loop.
	pendingLoopLabel string
}

func newCompiler(symbols *symbol.Table, host object.Host, parentScope *lexScope, isFunction bool) *Compiler {
	var scope *lexScope
	if isFunction {
		scope = newFunctionScope(parentScope)
	} else {
		scope = newBlockScope(parentScope)
	}
	return &Compiler{
		symbols: symbols,
		host:    host,
		cb:      bytecode.NewCodeBlock(),
		scope:   scope,
	}
}

// feedbackSlot returns a fresh feedback slot index; spec.md does not require
// de-duplicating feedback slots across distinct bytecode sites (each GET_
// BY_ID/GET_VAR site gets its own), so this always allocates a new one. The
// name is kept for readability at call sites, not for slot reuse.
func (c *Compiler) feedbackSlot() uint32 {
	return c.cb.AddFeedbackSlot()
}

func (c *Compiler) nameIndex(name string) uint32 {
	return c.cb.AddName(c.symbols.Intern(name))
}

// CompileProgram compiles a top-level Program into its CodeBlock. host
// provides string-literal materialization (Compile is always called with a
// live Runtime Heap already constructed, per spec.md §6's Runtime API).
func CompileProgram(symbols *symbol.Table, host object.Host, prog *ast.Program, strict bool) *bytecode.CodeBlock {
	c := newCompiler(symbols, host, nil, true)
	c.cb.TopLevel = true
	c.cb.Strict = strict
	c.cb.Name = symbols.Intern("")

	vars, funcs, usesArgs := hoistedNames(prog.Body)
	c.cb.UseArguments = usesArgs
	for _, v := range vars {
		c.scope.declare(v)
		c.cb.Variables = append(c.cb.Variables, symbols.Intern(v))
	}
	for _, f := range funcs {
		c.scope.declare(f.Name)
	}

	for _, v := range vars {
		// DECL_LET consumes the initializer on top of stack and leaves it
		// there afterward (see opcode.go); a bare hoisting declaration has
		// no initializer expression, so one is synthesized here.
		c.w.Emit(bytecode.OpPushUndef)
		c.w.Emit(bytecode.OpDeclLet, c.nameIndex(v))
		c.w.Emit(bytecode.OpPop)
	}
	for _, f := range funcs {
		c.compileFunctionDeclarationBinding(f)
	}

	// The value of each top-level expression statement is kept in a hidden
	// binding, so the program returns the last one it evaluated (undefined
	// if none ran).
	const completion = "\x00completion"
	c.w.Emit(bytecode.OpPushUndef)
	c.w.Emit(bytecode.OpDeclLet, c.nameIndex(completion))
	c.w.Emit(bytecode.OpPop)
	for _, stmt := range prog.Body {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			c.compileExpression(es.Expression)
			c.w.Emit(bytecode.OpSetVar, c.nameIndex(completion), c.feedbackSlot())
			c.w.Emit(bytecode.OpPop)
			continue
		}
		c.compileStatement(stmt)
	}
	c.w.Emit(bytecode.OpGetVar, c.nameIndex(completion), c.feedbackSlot())
	c.w.Emit(bytecode.OpRet)

	c.cb.Code = c.w.Code
	c.cb.ParamCount = 0
	c.cb.VarCount = uint16(len(vars))
	return c.cb
}

// CompileFunction compiles a function literal's body into its own
// CodeBlock, nested under parent (appended to parent.cb.Codes by the
// caller, per GET_FUNCTION's contract). enclosingScope is the lexical scope
// active at the point of the function literal, used to classify free
// variable references.
func CompileFunction(symbols *symbol.Table, host object.Host, name string, params []*ast.Param, body *ast.BlockStatement, strict bool, enclosingScope *lexScope) *bytecode.CodeBlock {
	c := newCompiler(symbols, host, enclosingScope, true)
	c.cb.Strict = strict
	c.cb.Name = symbols.Intern(name)

	restAt := int32(-1)
	for i, p := range params {
		c.scope.declare(p.Name)
		c.cb.Params = append(c.cb.Params, symbols.Intern(p.Name))
		if p.Rest {
			restAt = int32(i)
		}
	}
	c.cb.RestAt = restAt
	c.cb.ParamCount = uint16(len(params))

	vars, funcs, usesArgs := hoistedNames(body.Body)
	c.cb.UseArguments = usesArgs
	for _, v := range vars {
		if !c.scope.names[v] {
			c.scope.declare(v)
			c.cb.Variables = append(c.cb.Variables, symbols.Intern(v))
		}
	}
	for _, f := range funcs {
		c.scope.declare(f.Name)
	}

	for _, v := range vars {
		c.w.Emit(bytecode.OpPushUndef)
		c.w.Emit(bytecode.OpDeclLet, c.nameIndex(v))
		c.w.Emit(bytecode.OpPop)
	}
	for _, f := range funcs {
		c.compileFunctionDeclarationBinding(f)
	}

	for _, stmt := range body.Body {
		c.compileStatement(stmt)
	}
	c.w.Emit(bytecode.OpPushUndef)
	c.w.Emit(bytecode.OpRet)

	c.cb.Code = c.w.Code
	c.cb.VarCount = uint16(len(vars))
	return c.cb
}

// CompileTopLevelFunction compiles a standalone function (one with no
// enclosing lexical scope — spec.md §6's `compile`, as opposed to a nested
// function literal reached via a Program's own compilation) into its
// CodeBlock. It is CompileFunction with a nil enclosingScope, exposed
// separately because lexScope is unexported and so cannot be constructed
// outside this package.
func CompileTopLevelFunction(symbols *symbol.Table, host object.Host, name string, params []*ast.Param, body *ast.BlockStatement, strict bool) *bytecode.CodeBlock {
	return CompileFunction(symbols, host, name, params, body, strict, nil)
}

// compileFunctionDeclarationBinding compiles a hoisted function declaration:
// seeds the binding for its name with DECL_LET, builds its closure and
// stores it into that binding, at the point hoisting places it (function
// scope entry, before the rest of the body runs).
func (c *Compiler) compileFunctionDeclarationBinding(f *ast.FunctionDeclaration) {
	c.scope.declare(f.Name)
	c.w.Emit(bytecode.OpPushUndef)
	c.w.Emit(bytecode.OpDeclLet, c.nameIndex(f.Name))
	c.w.Emit(bytecode.OpPop)
	nested := CompileFunction(c.symbols, c.host, f.Name, f.Params, f.Body, f.Strict || c.cb.Strict, c.scope)
	idx := c.cb.AddNested(nested)
	c.w.Emit(bytecode.OpGetFunction, idx)
	c.w.Emit(bytecode.OpSetVar, c.nameIndex(f.Name), c.feedbackSlot())
	c.w.Emit(bytecode.OpPop)
}

// jmp reserves an unconditional forward jump, returning the displacement
// offset for a later PatchJump once the target is known (the "jmp()"
// primitive of spec §4.4's fixup API).
func (c *Compiler) jmp() int { return c.w.EmitJump(bytecode.OpJmp) }

// cjmpFalse reserves a JMP_IF_FALSE (the "cjmp(cond)" primitive,
// specialized to the condition this compiler needs at every call site:
// jump when the popped value is falsy).
func (c *Compiler) cjmpFalse() int { return c.w.EmitJump(bytecode.OpJmpIfFalse) }

func (c *Compiler) cjmpTrue() int { return c.w.EmitJump(bytecode.OpJmpIfTrue) }

// gotoBackward writes an immediate backward jump to target.
func (c *Compiler) gotoBackward(target int) {
	disp := c.w.EmitJump(bytecode.OpJmp)
	c.w.PatchJump(disp, target)
}

func (c *Compiler) patch(dispOffset int) {
	c.w.PatchJump(dispOffset, c.w.Len())
}

// pushEnv emits PUSH_ENV and enters a new block-level compile-time scope.
func (c *Compiler) pushEnv() {
	c.w.Emit(bytecode.OpPushEnv)
	c.envDepth++
	c.scope = newBlockScope(c.scope)
}

// popEnv emits POP_ENV and leaves the current block-level compile-time
// scope.
func (c *Compiler) popEnv() {
	c.w.Emit(bytecode.OpPopEnv)
	c.envDepth--
	c.scope = c.scope.parent
}

// unwindTo emits the POP_ENV instructions needed to go from the current
// envDepth down to target (see loopContext's doc comment), without actually
// leaving the compile-time scopes (a break/continue jump abandons the
// compile-time scope same as the source positions after it do, so the
// compiler's own scope stack is left untouched; only the runtime env
// nesting needs unwinding here).
func (c *Compiler) unwindTo(target int) {
	for d := c.envDepth; d > target; d-- {
		c.w.Emit(bytecode.OpPopEnv)
	}
}

package interpreter

import (
	"math"
	"strconv"

	"github.com/playXE/js/internal/bytecode"
	"github.com/playXE/js/internal/environment"
	"github.com/playXE/js/internal/jserror"
	"github.com/playXE/js/internal/object"
	"github.com/playXE/js/internal/symbol"
	"github.com/playXE/js/internal/value"
)

// run is the fetch/decode/dispatch loop for one frame activation. It
// returns either the frame's completion value (OpRet) or an uncaught thrown
// value that propagated past every PUSH_CATCH handler this frame itself
// installed — the caller (Interpreter.invoke, for a nested JS call, or the
// Runtime entry point at the very top) is responsible for continuing the
// unwind into whatever Go call invoked this frame, per spec.md §7.
func (ip *Interpreter) run(f *frame) (value.Value, *value.Value) {
	for {
		op := bytecode.Op(f.code[f.pc])
		f.pc++

		switch op {
		case bytecode.OpNop, bytecode.OpLoopHint:
			// no-op

		case bytecode.OpPushUndef:
			f.push(value.Undefined())
		case bytecode.OpPushNull:
			f.push(value.Null())
		case bytecode.OpPushTrue:
			f.push(value.Bool(true))
		case bytecode.OpPushFalse:
			f.push(value.Bool(false))
		case bytecode.OpPushNaN:
			f.push(value.Double(math.NaN()))
		case bytecode.OpPushThis:
			f.push(f.this)
		case bytecode.OpPushInt:
			f.push(value.Int32(f.readI32()))
		case bytecode.OpPushLiteral:
			f.push(f.cb.Literals[f.readU32()])
		case bytecode.OpGetFunction:
			idx := f.readU32()
			nested := f.cb.Codes[idx]
			data := &object.FunctionData{
				CodeBlock: nested,
				Name:      ip.Heap.Symbols().String(nested.Name),
				ParamsLen: uint32(nested.ParamCount),
				Closure:   f.env,
			}
			f.push(ip.newFunctionObject(data, value.Undefined(), true))

		case bytecode.OpPop:
			f.pop()
		case bytecode.OpDup:
			f.push(f.top())
		case bytecode.OpSwap:
			b, a := f.pop(), f.pop()
			f.push(b)
			f.push(a)

		case bytecode.OpAdd:
			b, a := f.pop(), f.pop()
			r, thrown := ip.add(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpSub:
			b, a := f.pop(), f.pop()
			r, thrown := ip.numericBinary(a, b, func(x, y float64) float64 { return x - y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpMul:
			b, a := f.pop(), f.pop()
			r, thrown := ip.numericBinary(a, b, func(x, y float64) float64 { return x * y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpDiv:
			b, a := f.pop(), f.pop()
			r, thrown := ip.numericBinary(a, b, func(x, y float64) float64 { return x / y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpRem:
			b, a := f.pop(), f.pop()
			r, thrown := ip.numericBinary(a, b, math.Mod)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpBitAnd:
			b, a := f.pop(), f.pop()
			r, thrown := ip.bitwiseBinary(a, b, func(x, y int32) int32 { return x & y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpBitOr:
			b, a := f.pop(), f.pop()
			r, thrown := ip.bitwiseBinary(a, b, func(x, y int32) int32 { return x | y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpBitXor:
			b, a := f.pop(), f.pop()
			r, thrown := ip.bitwiseBinary(a, b, func(x, y int32) int32 { return x ^ y })
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpShl:
			b, a := f.pop(), f.pop()
			r, thrown := ip.shiftLeft(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpShr:
			b, a := f.pop(), f.pop()
			r, thrown := ip.shiftRight(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)
		case bytecode.OpUShr:
			b, a := f.pop(), f.pop()
			r, thrown := ip.unsignedShiftRight(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(r)

		case bytecode.OpNeg:
			a := f.pop()
			n, thrown := ip.toNumber(a)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(numberValue(-n))
		case bytecode.OpPos:
			a := f.pop()
			n, thrown := ip.toNumber(a)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(numberValue(n))
		case bytecode.OpBitNot:
			a := f.pop()
			i, thrown := ip.toInt32(a)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(numberValue(float64(^i)))
		case bytecode.OpLogicalNot:
			a := f.pop()
			f.push(value.Bool(!ip.toBoolean(a)))
		case bytecode.OpTypeof:
			a := f.pop()
			f.push(ip.Heap.NewString(ip.typeofValue(a)))

		case bytecode.OpEq:
			b, a := f.pop(), f.pop()
			eq, thrown := ip.looseEquals(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(eq))
		case bytecode.OpNeq:
			b, a := f.pop(), f.pop()
			eq, thrown := ip.looseEquals(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(!eq))
		case bytecode.OpStrictEq:
			b, a := f.pop(), f.pop()
			f.push(value.Bool(ip.strictEquals(a, b)))
		case bytecode.OpNStrictEq:
			b, a := f.pop(), f.pop()
			f.push(value.Bool(!ip.strictEquals(a, b)))
		case bytecode.OpLess:
			b, a := f.pop(), f.pop()
			r, thrown := ip.less(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))
		case bytecode.OpLessEq:
			b, a := f.pop(), f.pop()
			r, thrown := ip.lessEq(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))
		case bytecode.OpGreater:
			b, a := f.pop(), f.pop()
			r, thrown := ip.greater(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))
		case bytecode.OpGreaterEq:
			b, a := f.pop(), f.pop()
			r, thrown := ip.greaterEq(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))
		case bytecode.OpIn:
			b, a := f.pop(), f.pop()
			r, thrown := ip.inOperator(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))
		case bytecode.OpInstanceof:
			b, a := f.pop(), f.pop()
			r, thrown := ip.instanceOf(a, b)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(r))

		case bytecode.OpJmp:
			f.jumpRel(f.readI32())
		case bytecode.OpJmpIfTrue:
			disp := f.readI32()
			if ip.toBoolean(f.pop()) {
				f.jumpRel(disp)
			}
		case bytecode.OpJmpIfFalse:
			disp := f.readI32()
			if !ip.toBoolean(f.pop()) {
				f.jumpRel(disp)
			}
		case bytecode.OpRet:
			if len(f.stack) == 0 {
				return value.Undefined(), nil
			}
			return f.pop(), nil
		case bytecode.OpThrow:
			thrown := f.pop()
			if f.raise(thrown) {
				continue
			}
			return value.Undefined(), &thrown

		case bytecode.OpCall:
			argc := f.readU32()
			args := f.popArgs(int(argc))
			callee := f.pop()
			this := f.pop()
			result, thrown := ip.Call(callee, this, args)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(result)
		case bytecode.OpNew:
			argc := f.readU32()
			args := f.popArgs(int(argc))
			callee := f.pop()
			f.pop() // discard the PUSH_UNDEF `this` placeholder
			result, thrown := ip.Construct(callee, args)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(result)
		case bytecode.OpCallBuiltin:
			argc := f.readU32()
			builtinID := f.readU32()
			effect := f.readU32()
			args := f.popArgs(int(argc))
			fn := ip.Builtins[builtinID]
			result, thrown := fn(ip, args, effect == 1)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(result)

		case bytecode.OpGetById:
			nameIx := f.readU32()
			fbIx := f.readU32()
			obj := f.pop()
			v, thrown := ip.getById(obj, f.cb.Names[nameIx], &f.cb.Feedback[fbIx])
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpPutById:
			nameIx := f.readU32()
			fbIx := f.readU32()
			v := f.pop()
			obj := f.pop()
			if thrown := ip.putById(obj, f.cb.Names[nameIx], v, &f.cb.Feedback[fbIx]); thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpGetByVal:
			key := f.pop()
			obj := f.pop()
			sym, thrown := ip.keyFromValue(key)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			v, thrown := ip.getMember(obj, sym)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpPutByVal:
			v := f.pop()
			key := f.pop()
			obj := f.pop()
			sym, thrown := ip.keyFromValue(key)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			if thrown := ip.putMember(obj, sym, v); thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)

		case bytecode.OpPushEnv:
			f.env = environment.New(ip.Heap.Roots.Ordinary, f.env)
		case bytecode.OpPopEnv:
			f.env = f.env.Outer
		case bytecode.OpGetEnv:
			depth := f.readU32()
			e := f.env
			for i := uint32(0); i < depth; i++ {
				e = e.Outer
			}
			f.push(ip.Heap.NewObject(e.Record))
		case bytecode.OpGetVar:
			nameIx := f.readU32()
			fbIx := f.readU32()
			v, thrown := ip.getVar(f, f.cb.Names[nameIx], &f.cb.Feedback[fbIx])
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpSetVar:
			nameIx := f.readU32()
			_ = f.readU32() // feedback_ix: SET_VAR has deliberately no cache, see ic.go
			v := f.pop()
			if thrown := ip.setVar(f, f.cb.Names[nameIx], v); thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpDeclLet:
			nameSym := f.cb.Names[f.readU32()]
			v := f.pop()
			f.env.DeclareLexical(nameSym, false)
			f.env.Initialize(nameSym, v)
			f.push(v)
		case bytecode.OpDeclConst:
			nameSym := f.cb.Names[f.readU32()]
			v := f.pop()
			f.env.DeclareLexical(nameSym, true)
			f.env.Initialize(nameSym, v)
			f.push(v)
		case bytecode.OpGetGlobal:
			nameSym := f.cb.Names[f.readU32()]
			v, thrown := ip.getGlobal(nameSym)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpSetGlobal:
			nameSym := f.cb.Names[f.readU32()]
			v := f.pop()
			if thrown := ip.setGlobal(nameSym, v); thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(v)
		case bytecode.OpGlobalThis:
			f.push(ip.GlobalThis)

		case bytecode.OpPushCatch:
			disp := f.readI32()
			f.pushHandler(f.pc + int(disp))
		case bytecode.OpPopCatch:
			f.popHandler()

		case bytecode.OpForInSetup:
			obj := f.pop()
			var keys []symbol.Symbol
			if obj.IsObject() {
				keys = ip.Heap.Object(obj).GetPropertyNames(ip.Heap, true)
			}
			f.forIn = append(f.forIn, forInState{keys: keys})
		case bytecode.OpForInEnumerate:
			disp := f.readI32()
			st := &f.forIn[len(f.forIn)-1]
			if st.idx >= len(st.keys) {
				f.jumpRel(disp)
			} else {
				k := st.keys[st.idx]
				st.idx++
				var kv value.Value
				if k.IsIndex() {
					kv = ip.Heap.NewString(strconv.FormatUint(uint64(k.IndexValue()), 10))
				} else {
					kv = ip.Heap.NewString(ip.Heap.Symbols().String(k))
				}
				f.push(kv)
			}
		case bytecode.OpForInLeave:
			f.forIn = f.forIn[:len(f.forIn)-1]

		case bytecode.OpNewArray:
			count := f.readU32()
			elems := f.popArgs(int(count))
			arr := object.NewArray(ip.Heap.Roots.Array, ip.ArrayProto)
			for i, v := range elems {
				arr.Indexed.Put(uint32(i), v)
			}
			f.push(ip.Heap.NewObject(arr))
		case bytecode.OpNewObject:
			f.push(ip.Heap.NewObject(object.NewOrdinary(ip.Heap.Roots.Ordinary, ip.ObjectProto)))
		case bytecode.OpSpread:
			jserror.NewFault("interpreter: OpSpread reached the dispatch loop")

		case bytecode.OpDeleteVar:
			nameSym := f.cb.Names[f.readU32()]
			ok := f.env.Lookup(nameSym) == nil
			f.push(value.Bool(ok))
		case bytecode.OpDeleteById:
			nameSym := f.cb.Names[f.readU32()]
			obj := f.pop()
			f.push(value.Bool(ip.deleteMember(obj, nameSym)))
		case bytecode.OpDeleteByVal:
			key := f.pop()
			obj := f.pop()
			sym, thrown := ip.keyFromValue(key)
			if thrown != nil {
				if f.raise(*thrown) {
					continue
				}
				return value.Undefined(), thrown
			}
			f.push(value.Bool(ip.deleteMember(obj, sym)))

		default:
			jserror.NewFault("interpreter: unknown opcode")
		}
	}
}

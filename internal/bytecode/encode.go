package bytecode

import "encoding/binary"

// Writer accumulates an instruction stream for one CodeBlock. The compiler's
// emitter owns one Writer per function body being compiled.
type Writer struct {
	Code []byte
}

// Len returns the current cursor (the offset the next emitted instruction
// will start at).
func (w *Writer) Len() int { return len(w.Code) }

// Emit appends op and its operand words, returning the offset op was
// written at.
func (w *Writer) Emit(op Op, operands ...uint32) int {
	if len(operands) != op.OperandWords() {
		panic("bytecode: operand count mismatch for opcode")
	}
	pos := len(w.Code)
	w.Code = append(w.Code, byte(op))
	for _, o := range operands {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], o)
		w.Code = append(w.Code, buf[:]...)
	}
	return pos
}

// EmitJump appends a jump-family opcode with a placeholder displacement,
// returning the offset of the displacement field for a later PatchJump
// call. Used by the compiler's fixup API (jmp/cjmp/try_) for forward jumps
// whose target isn't known yet.
func (w *Writer) EmitJump(op Op) int {
	pos := len(w.Code)
	w.Code = append(w.Code, byte(op))
	w.Code = append(w.Code, 0, 0, 0, 0)
	return pos + 1
}

// PatchJump writes the relative displacement from the byte immediately
// after the jump instruction (dispOffset+4) to target into the 4 bytes at
// dispOffset, as returned by EmitJump.
func (w *Writer) PatchJump(dispOffset int, target int) {
	rel := int32(target - (dispOffset + 4))
	binary.LittleEndian.PutUint32(w.Code[dispOffset:dispOffset+4], uint32(rel))
}

// Uint32At decodes the little-endian u32 operand at offset.
func Uint32At(code []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(code[offset : offset+4])
}

// Int32At decodes the little-endian i32 operand (used for jump
// displacements) at offset.
func Int32At(code []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(code[offset : offset+4]))
}

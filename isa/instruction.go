package isa

import "fmt"

// Instruction is a decoded program-memory entry. Register numbers are
// opcode-class-dependent: for SW/SWS, Src1 names the value register and
// Src2 names the base register; for LW/LWS, Src1 names the base register
// and Dest names the destination; for branches, Src1 names the condition
// register. Immediate is a raw 32-bit field — for branches and JUMP it
// holds the signed relative displacement computed at load time (stored in
// two's-complement bit pattern), for ADDI/SUBI/LW/SW/LWS/SWS it holds the
// operand/offset as parsed.
type Instruction struct {
	Opcode    Opcode
	Src1      uint32
	Src2      uint32
	Dest      uint32
	Immediate uint32
	Label     string
}

// String renders the instruction roughly as it would appear in the
// assembly source, for diagnostics and log messages.
func (i Instruction) String() string {
	switch {
	case i.Opcode == EOP || i.Opcode == NOP:
		return i.Opcode.String()
	case IsIntALUReg(i.Opcode) || IsIntMultDiv(i.Opcode):
		return fmt.Sprintf("%s R%d, R%d, R%d", i.Opcode, i.Dest, i.Src1, i.Src2)
	case IsFPALU(i.Opcode):
		return fmt.Sprintf("%s F%d, F%d, F%d", i.Opcode, i.Dest, i.Src1, i.Src2)
	case IsIntALUImm(i.Opcode):
		return fmt.Sprintf("%s R%d, R%d, %d", i.Opcode, i.Dest, i.Src1, int32(i.Immediate))
	case i.Opcode == LW:
		return fmt.Sprintf("LW R%d, %d(R%d)", i.Dest, int32(i.Immediate), i.Src1)
	case i.Opcode == LWS:
		return fmt.Sprintf("LWS F%d, %d(R%d)", i.Dest, int32(i.Immediate), i.Src1)
	case i.Opcode == SW:
		return fmt.Sprintf("SW R%d, %d(R%d)", i.Src1, int32(i.Immediate), i.Src2)
	case i.Opcode == SWS:
		return fmt.Sprintf("SWS F%d, %d(R%d)", i.Src1, int32(i.Immediate), i.Src2)
	case IsBranch(i.Opcode):
		return fmt.Sprintf("%s R%d, %s", i.Opcode, i.Src1, i.Label)
	case IsJump(i.Opcode):
		return fmt.Sprintf("JUMP %s", i.Label)
	default:
		return i.Opcode.String()
	}
}

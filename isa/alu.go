package isa

import "math"

// Eval implements every ALU, branch, and jump operation. It does not
// cover loads and stores, whose address computation and memory access
// live in timing/tomasulo (loads/stores need the data memory, which this
// package has no dependency on).
//
// value1/value2 are the operand bit patterns (already resolved from
// registers or forwarded values); immediate and pc are as captured on the
// reservation station / ROB entry at issue time. For ADDI/SUBI the caller
// passes the instruction's sign-extended immediate as value2 — there is no
// second source register to rename, so the reservation station carries the
// immediate in the slot value2 would otherwise occupy. The returned
// branchTaken flag is meaningful only for branches and JUMP; result for a
// branch or JUMP is the resolved next-pc (taken or fall-through).
func Eval(op Opcode, value1, value2, immediate, pc uint32) (result uint32, branchTaken bool) {
	switch op {
	case ADD, ADDI:
		return value1 + value2, false
	case SUB, SUBI:
		return value1 - value2, false
	case XOR:
		return value1 ^ value2, false
	case AND:
		return value1 & value2, false
	case MULT:
		return value1 * value2, false
	case DIV:
		return value1 / value2, false
	case ADDS:
		return math.Float32bits(math.Float32frombits(value1) + math.Float32frombits(value2)), false
	case SUBS:
		return math.Float32bits(math.Float32frombits(value1) - math.Float32frombits(value2)), false
	case MULTS:
		return math.Float32bits(math.Float32frombits(value1) * math.Float32frombits(value2)), false
	case DIVS:
		return math.Float32bits(math.Float32frombits(value1) / math.Float32frombits(value2)), false
	case JUMP:
		return pc + 4 + immediate, true
	default:
		return evalBranch(op, value1, immediate, pc)
	}
}

// evalBranch computes the condition on value1 (interpreted as signed
// 32-bit) and the resolved next-pc for one of the six conditional
// branches.
func evalBranch(op Opcode, value1, immediate, pc uint32) (result uint32, taken bool) {
	signed := int32(value1)
	switch op {
	case BEQZ:
		taken = signed == 0
	case BNEZ:
		taken = signed != 0
	case BLTZ:
		taken = signed < 0
	case BGTZ:
		taken = signed > 0
	case BLEZ:
		taken = signed <= 0
	case BGEZ:
		taken = signed >= 0
	default:
		return pc + 4, false
	}
	if taken {
		return pc + 4 + immediate, true
	}
	return pc + 4, false
}

// EffectiveAddress computes base + immediate for a load or store, as
// 32-bit wraparound arithmetic.
func EffectiveAddress(base, immediate uint32) uint32 {
	return base + immediate
}

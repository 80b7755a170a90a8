// Package asm parses the simulator's textual assembly format into a
// Program: a flat, label-resolved instruction list ready to be loaded into
// the engine's instruction memory. It follows a loader package's shape (a
// functional-option constructor producing a Program result struct, errors
// wrapped with %w instead of the reference's exit(-1)), and borrows its
// line-oriented tokenizer / label table from a GVM-style assembler's
// parser (see DESIGN.md for the grounding detail).
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/tomasim/isa"
)

// Program is the result of loading an assembly file: the decoded,
// label-resolved instruction stream plus the base address it was loaded
// at and the pc of the instruction immediately preceding EOP, the
// simulator's halt condition.
type Program struct {
	Instructions      []isa.Instruction
	BaseAddress       uint32
	LastInstructionPC uint32
}

// options configures Load/Parse.
type options struct {
	baseAddress uint32
}

// Option configures the assembler.
type Option func(*options)

// WithBaseAddress sets the address the first instruction is loaded at.
// The default is 0.
func WithBaseAddress(addr uint32) Option {
	return func(o *options) { o.baseAddress = addr }
}

// Load reads and assembles the file at path.
func Load(path string, opts ...Option) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asm: open %s: %w", path, err)
	}
	defer f.Close()

	prog, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("asm: %s: %w", path, err)
	}
	return prog, nil
}

// Parse assembles the program read from r.
func Parse(r io.Reader, opts ...Option) (*Program, error) {
	o := options{baseAddress: 0}
	for _, opt := range opts {
		opt(&o)
	}

	insns, labels, err := tokenizeAndDecode(r)
	if err != nil {
		return nil, err
	}

	if err := resolveLabels(insns, labels); err != nil {
		return nil, err
	}

	prog := &Program{
		Instructions: insns,
		BaseAddress:  o.baseAddress,
	}
	prog.LastInstructionPC = lastInstructionPC(insns, o.baseAddress)
	return prog, nil
}

// tokenizeAndDecode performs the first pass: one instruction per line,
// with an optional leading "label:" token, building both the decoded
// instruction list and the label -> instruction-index table.
func tokenizeAndDecode(r io.Reader) ([]isa.Instruction, map[string]int, error) {
	var insns []isa.Instruction
	labels := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := tokenizeLine(line)
		if len(fields) == 0 {
			continue
		}

		if strings.HasSuffix(fields[0], ":") {
			labels[strings.TrimSuffix(fields[0], ":")] = len(insns)
			fields = fields[1:]
			if len(fields) == 0 {
				return nil, nil, fmt.Errorf("line %d: label with no instruction", lineNo)
			}
		}

		inst, err := decodeFields(fields)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		insns = append(insns, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading program: %w", err)
	}

	return insns, labels, nil
}

// tokenizeLine splits a line on whitespace and commas; operand tokens like
// "R1," or "20(R0)" keep their register-prefix/parenthesis characters for
// decodeFields to strip.
func tokenizeLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '\r'
	})
}

// decodeFields decodes a tokenized instruction line (mnemonic + operands,
// label already stripped) into an isa.Instruction. Label operands
// (branches, JUMP) are left unresolved in inst.Label; resolveLabels fills
// in Immediate once every label in the program is known.
func decodeFields(fields []string) (isa.Instruction, error) {
	mnemonic := fields[0]
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return isa.Instruction{}, fmt.Errorf("unknown opcode %q", mnemonic)
	}
	inst := isa.Instruction{Opcode: op}
	operands := fields[1:]

	switch {
	case op == isa.EOP || op == isa.NOP:
		return inst, nil

	case isa.IsIntALUReg(op) || isa.IsIntMultDiv(op) || isa.IsFPALU(op):
		if len(operands) != 3 {
			return inst, fmt.Errorf("%s: expected 3 register operands, got %d", mnemonic, len(operands))
		}
		dest, err := parseReg(operands[0])
		if err != nil {
			return inst, err
		}
		src1, err := parseReg(operands[1])
		if err != nil {
			return inst, err
		}
		src2, err := parseReg(operands[2])
		if err != nil {
			return inst, err
		}
		inst.Dest, inst.Src1, inst.Src2 = dest, src1, src2
		return inst, nil

	case isa.IsIntALUImm(op):
		if len(operands) != 3 {
			return inst, fmt.Errorf("%s: expected dest, src, imm operands, got %d", mnemonic, len(operands))
		}
		dest, err := parseReg(operands[0])
		if err != nil {
			return inst, err
		}
		src1, err := parseReg(operands[1])
		if err != nil {
			return inst, err
		}
		imm, err := parseImmediate(operands[2])
		if err != nil {
			return inst, err
		}
		inst.Dest, inst.Src1, inst.Immediate = dest, src1, imm
		return inst, nil

	case isa.IsLoad(op):
		if len(operands) != 2 {
			return inst, fmt.Errorf("%s: expected dest, offset(base) operands, got %d", mnemonic, len(operands))
		}
		dest, err := parseReg(operands[0])
		if err != nil {
			return inst, err
		}
		imm, base, err := parseMemOperand(operands[1])
		if err != nil {
			return inst, err
		}
		inst.Dest, inst.Immediate, inst.Src1 = dest, imm, base
		return inst, nil

	case isa.IsStore(op):
		if len(operands) != 2 {
			return inst, fmt.Errorf("%s: expected src, offset(base) operands, got %d", mnemonic, len(operands))
		}
		src, err := parseReg(operands[0])
		if err != nil {
			return inst, err
		}
		imm, base, err := parseMemOperand(operands[1])
		if err != nil {
			return inst, err
		}
		inst.Src1, inst.Immediate, inst.Src2 = src, imm, base
		return inst, nil

	case isa.IsBranch(op):
		if len(operands) != 2 {
			return inst, fmt.Errorf("%s: expected src, label operands, got %d", mnemonic, len(operands))
		}
		src1, err := parseReg(operands[0])
		if err != nil {
			return inst, err
		}
		inst.Src1, inst.Label = src1, operands[1]
		return inst, nil

	case isa.IsJump(op):
		if len(operands) != 1 {
			return inst, fmt.Errorf("JUMP: expected a single label operand, got %d", len(operands))
		}
		inst.Label = operands[0]
		return inst, nil

	default:
		return inst, fmt.Errorf("%s: unsupported opcode", mnemonic)
	}
}

// parseReg strips the leading register-class letter (R or F) and parses
// the remaining digits.
func parseReg(tok string) (uint32, error) {
	trimmed := strings.TrimLeft(tok, "RF")
	n, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid register operand %q: %w", tok, err)
	}
	return uint32(n), nil
}

// parseImmediate parses an immediate in base 0 (0x.../0.../decimal),
// allowing an optional leading sign, and returns its 32-bit two's
// complement bit pattern.
func parseImmediate(tok string) (uint32, error) {
	n, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		un, uerr := strconv.ParseUint(tok, 0, 32)
		if uerr != nil {
			return 0, fmt.Errorf("invalid immediate %q: %w", tok, err)
		}
		return uint32(un), nil
	}
	return uint32(int32(n)), nil
}

// parseMemOperand parses a load/store memory operand of the form
// "imm(Rbase)".
func parseMemOperand(tok string) (imm uint32, base uint32, err error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return 0, 0, fmt.Errorf("invalid memory operand %q, expected imm(Rbase)", tok)
	}
	immTok := tok[:open]
	baseTok := tok[open+1 : len(tok)-1]

	imm, err = parseImmediate(immTok)
	if err != nil {
		return 0, 0, err
	}
	base, err = parseReg(baseTok)
	if err != nil {
		return 0, 0, err
	}
	return imm, base, nil
}

// resolveLabels fills in the Immediate field of every branch/JUMP
// instruction with its relative displacement: (label_index - this_index -
// 1) * 4, computed as signed arithmetic so backward branches produce the
// correct negative displacement.
func resolveLabels(insns []isa.Instruction, labels map[string]int) error {
	for i := range insns {
		inst := &insns[i]
		if !isa.IsBranch(inst.Opcode) && !isa.IsJump(inst.Opcode) {
			continue
		}
		target, ok := labels[inst.Label]
		if !ok {
			return fmt.Errorf("unresolved label %q referenced by instruction %d", inst.Label, i)
		}
		displacement := int32(target-i-1) * 4
		inst.Immediate = uint32(displacement)
	}
	return nil
}

// lastInstructionPC returns the pc of the instruction immediately
// preceding the first EOP in the program, or the pc of the final
// instruction if no EOP is present.
func lastInstructionPC(insns []isa.Instruction, base uint32) uint32 {
	for i, inst := range insns {
		if inst.Opcode == isa.EOP {
			if i == 0 {
				return isa.Undefined
			}
			return base + uint32(i-1)*4
		}
	}
	if len(insns) == 0 {
		return isa.Undefined
	}
	return base + uint32(len(insns)-1)*4
}

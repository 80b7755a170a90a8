package asm_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/asm"
	"github.com/sarchlab/tomasim/isa"
)

var _ = Describe("Parse", func() {
	It("decodes register-register and register-immediate ALU instructions", func() {
		src := `
			ADD R1, R2, R3
			ADDI R4, R5, -8
			SUBI R6, R7, 0x10
		`
		prog, err := asm.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(3))

		Expect(prog.Instructions[0]).To(Equal(isa.Instruction{Opcode: isa.ADD, Dest: 1, Src1: 2, Src2: 3}))
		Expect(prog.Instructions[1]).To(Equal(isa.Instruction{Opcode: isa.ADDI, Dest: 4, Src1: 5, Immediate: 0xFFFFFFF8})) // -8
		Expect(prog.Instructions[2]).To(Equal(isa.Instruction{Opcode: isa.SUBI, Dest: 6, Src1: 7, Immediate: 0x10}))
	})

	It("decodes loads and stores with an imm(base) operand", func() {
		src := `
			LW R1, 16(R2)
			SW R1, -4(R2)
			LWS F1, 0(R3)
			SWS F1, 0(R3)
		`
		prog, err := asm.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions[0]).To(Equal(isa.Instruction{Opcode: isa.LW, Dest: 1, Src1: 2, Immediate: 16}))
		Expect(prog.Instructions[1]).To(Equal(isa.Instruction{Opcode: isa.SW, Src1: 1, Src2: 2, Immediate: 0xFFFFFFFC})) // -4
		Expect(prog.Instructions[2]).To(Equal(isa.Instruction{Opcode: isa.LWS, Dest: 1, Src1: 3, Immediate: 0}))
		Expect(prog.Instructions[3]).To(Equal(isa.Instruction{Opcode: isa.SWS, Src1: 1, Src2: 3, Immediate: 0}))
	})

	It("resolves a forward branch label to a positive displacement", func() {
		src := `
			BEQZ R1, skip
			ADD R2, R2, R2
			skip: EOP
		`
		prog, err := asm.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Instructions).To(HaveLen(3))
		// skip is instruction index 2; branch is index 0: (2-0-1)*4 = 4
		Expect(int32(prog.Instructions[0].Immediate)).To(Equal(int32(4)))
	})

	It("resolves a backward branch label to a negative displacement", func() {
		src := `
			loop: ADD R1, R1, R1
			BNEZ R1, loop
			EOP
		`
		prog, err := asm.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())
		// loop is index 0; branch is index 1: (0-1-1)*4 = -8
		Expect(int32(prog.Instructions[1].Immediate)).To(Equal(int32(-8)))
	})

	It("resolves a JUMP label the same way as a branch", func() {
		src := `
			JUMP done
			ADD R1, R1, R1
			done: EOP
		`
		prog, err := asm.Parse(strings.NewReader(src))
		Expect(err).NotTo(HaveOccurred())
		Expect(int32(prog.Instructions[0].Immediate)).To(Equal(int32(4)))
	})

	It("records the pc of the instruction preceding EOP", func() {
		src := `
			ADD R1, R1, R1
			SUB R2, R2, R2
			EOP
		`
		prog, err := asm.Parse(strings.NewReader(src), asm.WithBaseAddress(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.LastInstructionPC).To(Equal(uint32(4)))
	})

	It("honors a non-zero base address", func() {
		src := `ADD R1, R1, R1`
		prog, err := asm.Parse(strings.NewReader(src), asm.WithBaseAddress(0x1000))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.BaseAddress).To(Equal(uint32(0x1000)))
		Expect(prog.LastInstructionPC).To(Equal(uint32(0x1000)))
	})

	It("rejects an unknown mnemonic", func() {
		_, err := asm.Parse(strings.NewReader("FROB R1, R2, R3"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unresolved label", func() {
		_, err := asm.Parse(strings.NewReader("BEQZ R1, nowhere"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects the wrong operand count", func() {
		_, err := asm.Parse(strings.NewReader("ADD R1, R2"))
		Expect(err).To(HaveOccurred())
	})
})

package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/isa"
)

var _ = Describe("Opcode lookup and classification", func() {
	It("round-trips every mnemonic through String and Lookup", func() {
		for _, name := range []string{
			"LW", "SW", "ADD", "ADDI", "SUB", "SUBI", "XOR", "AND", "MULT", "DIV",
			"BEQZ", "BNEZ", "BLTZ", "BGTZ", "BLEZ", "BGEZ", "JUMP", "EOP",
			"LWS", "SWS", "ADDS", "SUBS", "MULTS", "DIVS",
		} {
			op, ok := isa.Lookup(name)
			Expect(ok).To(BeTrue(), "mnemonic %s should resolve", name)
			Expect(op.String()).To(Equal(name))
		}
	})

	It("rejects an unknown mnemonic", func() {
		_, ok := isa.Lookup("NOTANOPCODE")
		Expect(ok).To(BeFalse())
	})

	DescribeTable("unit allocation",
		func(op isa.Opcode, want isa.UnitType) {
			got, ok := isa.UnitFor(op)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("ADD -> Integer", isa.ADD, isa.Integer),
		Entry("ADDI -> Integer", isa.ADDI, isa.Integer),
		Entry("BEQZ -> Integer", isa.BEQZ, isa.Integer),
		Entry("JUMP -> Integer", isa.JUMP, isa.Integer),
		Entry("LW -> Memory", isa.LW, isa.MemoryUnit),
		Entry("SW -> Memory", isa.SW, isa.MemoryUnit),
		Entry("LWS -> Memory", isa.LWS, isa.MemoryUnit),
		Entry("ADDS -> Adder", isa.ADDS, isa.Adder),
		Entry("SUBS -> Adder", isa.SUBS, isa.Adder),
		Entry("MULT -> Multiplier", isa.MULT, isa.Multiplier),
		Entry("MULTS -> Multiplier", isa.MULTS, isa.Multiplier),
		Entry("DIV -> Divider", isa.DIV, isa.Divider),
		Entry("DIVS -> Divider", isa.DIVS, isa.Divider),
	)

	It("reports no unit for EOP and NOP", func() {
		_, ok := isa.UnitFor(isa.EOP)
		Expect(ok).To(BeFalse())
		_, ok = isa.UnitFor(isa.NOP)
		Expect(ok).To(BeFalse())
	})

	DescribeTable("reservation-station class allocation",
		func(op isa.Opcode, want isa.RSClass) {
			got, ok := isa.ClassFor(op)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("ADD -> IntegerRS", isa.ADD, isa.IntegerRS),
		Entry("BEQZ -> IntegerRS", isa.BEQZ, isa.IntegerRS),
		Entry("JUMP -> IntegerRS", isa.JUMP, isa.IntegerRS),
		Entry("ADDS -> AddRS", isa.ADDS, isa.AddRS),
		Entry("MULTS -> MultRS", isa.MULTS, isa.MultRS),
		Entry("MULT -> MultRS", isa.MULT, isa.MultRS),
		Entry("DIV -> MultRS", isa.DIV, isa.MultRS),
		Entry("LW -> LoadRS", isa.LW, isa.LoadRS),
		Entry("SW -> LoadRS", isa.SW, isa.LoadRS),
	)

	It("classifies destinations", func() {
		Expect(isa.HasIntDestination(isa.ADD)).To(BeTrue())
		Expect(isa.HasIntDestination(isa.LW)).To(BeTrue())
		Expect(isa.HasIntDestination(isa.SW)).To(BeFalse())
		Expect(isa.HasFPDestination(isa.LWS)).To(BeTrue())
		Expect(isa.HasFPDestination(isa.ADDS)).To(BeTrue())
		Expect(isa.HasDestination(isa.BEQZ)).To(BeFalse())
		Expect(isa.HasDestination(isa.JUMP)).To(BeFalse())
	})

	It("round-trips UnitType through its config spelling", func() {
		for _, ut := range []isa.UnitType{isa.Integer, isa.Adder, isa.Multiplier, isa.Divider, isa.MemoryUnit} {
			got, ok := isa.ParseUnitType(ut.String())
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(ut))
		}
	})
})

var _ = Describe("Instruction.String", func() {
	It("renders a register-register ALU instruction", func() {
		inst := isa.Instruction{Opcode: isa.ADD, Dest: 1, Src1: 2, Src2: 3}
		Expect(inst.String()).To(Equal("ADD R1, R2, R3"))
	})

	It("renders a register-immediate ALU instruction", func() {
		inst := isa.Instruction{Opcode: isa.ADDI, Dest: 1, Src1: 2, Immediate: 0xFFFFFFFC} // -4
		Expect(inst.String()).To(Equal("ADDI R1, R2, -4"))
	})

	It("renders a load and a store", func() {
		lw := isa.Instruction{Opcode: isa.LW, Dest: 4, Src1: 5, Immediate: 8}
		Expect(lw.String()).To(Equal("LW R4, 8(R5)"))

		sw := isa.Instruction{Opcode: isa.SW, Src1: 4, Src2: 5, Immediate: 8}
		Expect(sw.String()).To(Equal("SW R4, 8(R5)"))
	})

	It("renders a branch and a jump", func() {
		b := isa.Instruction{Opcode: isa.BEQZ, Src1: 2, Label: "loop"}
		Expect(b.String()).To(Equal("BEQZ R2, loop"))

		j := isa.Instruction{Opcode: isa.JUMP, Label: "done"}
		Expect(j.String()).To(Equal("JUMP done"))
	})
})

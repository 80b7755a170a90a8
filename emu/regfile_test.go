package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/isa"
)

var _ = Describe("RegFile", func() {
	var rf *emu.RegFile

	BeforeEach(func() {
		rf = emu.NewRegFile()
	})

	It("starts with every register and tag undefined", func() {
		for i := uint32(0); i < isa.NumGPRegisters; i++ {
			Expect(rf.IntBits(i)).To(Equal(isa.Undefined))
			Expect(rf.FPBits(i)).To(Equal(isa.Undefined))
			Expect(rf.IntTag(i)).To(Equal(isa.Undefined))
			Expect(rf.FPTag(i)).To(Equal(isa.Undefined))
		}
	})

	It("round-trips a signed integer value", func() {
		rf.SetInt(3, -5)
		Expect(rf.Int(3)).To(Equal(int32(-5)))
	})

	It("round-trips a float value bit-identically", func() {
		rf.SetFP(1, 10.0)
		Expect(rf.FP(1)).To(Equal(float32(10.0)))
		Expect(rf.FPBits(1)).To(Equal(uint32(0x41200000)))
	})

	Describe("rename tag clearing", func() {
		It("clears a tag that still matches the committing ROB index", func() {
			rf.SetIntTag(2, 7)
			rf.ClearIntTagIfMatches(2, 7)
			Expect(rf.IntTag(2)).To(Equal(isa.Undefined))
		})

		It("leaves a newer writer's tag untouched", func() {
			rf.SetIntTag(2, 7)
			rf.SetIntTag(2, 9) // a younger instruction re-renames R2
			rf.ClearIntTagIfMatches(2, 7)
			Expect(rf.IntTag(2)).To(Equal(uint32(9)))
		})
	})

	It("clears every tag on ClearAllTags", func() {
		rf.SetIntTag(1, 2)
		rf.SetFPTag(3, 4)
		rf.ClearAllTags()
		Expect(rf.IntTag(1)).To(Equal(isa.Undefined))
		Expect(rf.FPTag(3)).To(Equal(isa.Undefined))
	})
})

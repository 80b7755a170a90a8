package tomasulo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/isa"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

var _ = Describe("Universal invariants", func() {
	It("holds CheckInvariants at every cycle boundary of a RAW-hazard run", func() {
		cfg := tomasulo.Config{
			ROBSize: 3, IntRS: 3, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{{Type: isa.Integer, Latency: 2, Instances: 1}},
		}
		eng, _, _ := buildEngine("ADDI R1, R0, 3\nADDI R2, R1, 4\nEOP\n", cfg, 64)

		for !eng.Halted() {
			eng.Tick()
			Expect(eng.CheckInvariants()).To(Succeed())
		}
	})

	It("keeps rob occupancy within [0, rob_size] and head/tail in range", func() {
		cfg := tomasulo.Config{
			ROBSize: 2, IntRS: 2, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{{Type: isa.Integer, Latency: 1, Instances: 1}},
		}
		eng, _, _ := buildEngine("ADDI R1, R0, 1\nADDI R2, R0, 2\nEOP\n", cfg, 64)

		for !eng.Halted() {
			eng.Tick()
			Expect(eng.ROBCount()).To(BeNumerically("<=", 2))
			Expect(eng.ROBHead()).To(BeNumerically("<", 2))
			Expect(eng.ROBTail()).To(BeNumerically("<", 2))
		}
	})
})

var _ = Describe("Determinism", func() {
	It("produces identical traces across two runs of the same program", func() {
		cfg := tomasulo.Config{
			ROBSize: 4, IntRS: 2, MultRS: 2, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{
				{Type: isa.Integer, Latency: 1, Instances: 1},
				{Type: isa.Multiplier, Latency: 4, Instances: 1},
			},
		}
		src := "ADDI R1, R0, 2\nMULT R2, R1, R1\nADDI R3, R2, 1\nEOP\n"

		eng1, regs1, _ := buildEngine(src, cfg, 64)
		eng1.Run(0)

		eng2, regs2, _ := buildEngine(src, cfg, 64)
		eng2.Run(0)

		Expect(eng1.Cycle()).To(Equal(eng2.Cycle()))
		Expect(eng1.InstructionsCommitted()).To(Equal(eng2.InstructionsCommitted()))
		Expect(eng1.Log()).To(Equal(eng2.Log()))
		Expect(regs1.Int(1)).To(Equal(regs2.Int(1)))
		Expect(regs1.Int(2)).To(Equal(regs2.Int(2)))
		Expect(regs1.Int(3)).To(Equal(regs2.Int(3)))
	})

	It("matches IPC = instructions_committed / clock_cycles", func() {
		cfg := tomasulo.Config{
			ROBSize: 2, IntRS: 1, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{{Type: isa.Integer, Latency: 2, Instances: 1}},
		}
		eng, _, _ := buildEngine("ADDI R1, R0, 5\nEOP\n", cfg, 64)
		eng.Run(0)

		want := float64(eng.InstructionsCommitted()) / float64(eng.Cycle())
		Expect(eng.IPC()).To(Equal(want))
	})
})

var _ = Describe("Boundary — ROB size 1 degenerates to serial execution", func() {
	It("commits one instruction fully before the next can issue", func() {
		cfg := tomasulo.Config{
			ROBSize: 1, IntRS: 1, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{{Type: isa.Integer, Latency: 2, Instances: 1}},
		}
		eng, regs, _ := buildEngine("ADDI R1, R0, 1\nADDI R2, R0, 2\nEOP\n", cfg, 64)

		eng.Run(0)

		Expect(regs.Int(1)).To(Equal(int32(1)))
		Expect(regs.Int(2)).To(Equal(int32(2)))

		log := eng.Log()
		Expect(log).To(HaveLen(2))
		// With a single ROB slot the second instruction cannot issue before
		// the first retires, and cannot execute before the first's result
		// has been written back — no two instructions are ever in flight.
		Expect(log[1].IssueCycle).To(BeNumerically(">=", log[0].CommitCycle))
		Expect(log[1].ExeCycle).To(BeNumerically(">", log[0].WRCycle))
	})
})

var _ = Describe("Branch commit boundary", func() {
	It("leaves the machine fully idle immediately after a taken branch commits", func() {
		cfg := tomasulo.Config{
			ROBSize: 4, IntRS: 4, IssueWidth: 1,
			Units: []tomasulo.UnitSpec{{Type: isa.Integer, Latency: 1, Instances: 1}},
		}
		src := `
			ADDI R1, R0, 1
			BNEZ R1, L
			ADDI R2, R0, 99
			L: ADDI R3, R0, 7
			EOP
		`
		eng, regs, _ := buildEngine(src, cfg, 64)

		// Tick until the branch (the second committed instruction) retires.
		for len(eng.Log()) < 2 {
			eng.Tick()
		}

		Expect(eng.ROBCount()).To(Equal(uint32(0)))
		for _, u := range eng.UnitsSnapshot() {
			Expect(u.Busy).To(Equal(uint32(0)))
		}
		for i := uint32(0); i < isa.NumGPRegisters; i++ {
			Expect(regs.IntTag(i)).To(Equal(isa.Undefined))
		}

		eng.Run(0)
		Expect(regs.Int(3)).To(Equal(int32(7)))
	})
})

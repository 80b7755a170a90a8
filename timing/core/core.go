// Package core provides Simulator, the façade that wires an assembled
// program and a pair of architectural state objects (emu.Memory,
// emu.RegFile) into a timing/tomasulo.Engine and exposes the external
// inspection API: register/tag access, IPC/instruction/cycle counters,
// and the presentation-only pretty-printers for registers, memory, ROB,
// reservation stations, the pending window, and the execution log.
//
// It is a thin wrapper that owns the shared emu state and forwards to
// the underlying cycle-accurate engine.
package core

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/tomasim/asm"
	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/isa"
	"github.com/sarchlab/tomasim/timing/tomasulo"
)

// Simulator wraps the shared architectural state (Memory, RegFile) and the
// Tomasulo engine that executes a loaded program against them.
type Simulator struct {
	mem  *emu.Memory
	regs *emu.RegFile
	cfg  tomasulo.Config
	eng  *tomasulo.Engine
}

// NewSimulator allocates a Simulator with the given data-memory size and
// structural parameters (§6.1's mandatory constructor parameters).
// issueWidth of 0 defaults to 1. The caller must add at least one
// functional unit per AddExecutionUnit before calling Load.
func NewSimulator(memoryBytes, robSize, intRS, addRS, multRS, loadBuffers, issueWidth uint32) *Simulator {
	return &Simulator{
		mem:  emu.NewMemory(memoryBytes),
		regs: emu.NewRegFile(),
		cfg: tomasulo.Config{
			ROBSize:     robSize,
			IntRS:       intRS,
			AddRS:       addRS,
			MultRS:      multRS,
			LoadBuffers: loadBuffers,
			IssueWidth:  issueWidth,
		},
	}
}

// AddExecutionUnit appends instances copies of a unit of the given type
// and latency to the functional-unit pool, mirroring
// sim_ooo::init_exec_unit. Must be called before Load.
func (s *Simulator) AddExecutionUnit(t isa.UnitType, latency, instances uint32) {
	s.cfg.Units = append(s.cfg.Units, tomasulo.UnitSpec{Type: t, Latency: latency, Instances: instances})
}

// Load assembles the program at path and constructs the engine that will
// execute it. Load may be called only once per Simulator.
func (s *Simulator) Load(path string, opts ...asm.Option) error {
	prog, err := asm.Load(path, opts...)
	if err != nil {
		return err
	}
	return s.loadProgram(prog)
}

// LoadSource assembles src (as the text of an assembly file) and
// constructs the engine, for callers that already have the program text
// in memory rather than on disk.
func (s *Simulator) LoadSource(src string, opts ...asm.Option) error {
	prog, err := asm.Parse(strings.NewReader(src), opts...)
	if err != nil {
		return err
	}
	return s.loadProgram(prog)
}

func (s *Simulator) loadProgram(prog *asm.Program) error {
	eng, err := tomasulo.NewEngine(s.mem, s.regs, s.cfg, prog.Instructions, prog.BaseAddress, prog.LastInstructionPC)
	if err != nil {
		return fmt.Errorf("core: %w", err)
	}
	s.eng = eng
	return nil
}

// Run advances the engine n cycles, or to completion when n == 0.
func (s *Simulator) Run(n uint32) { s.eng.Run(n) }

// Tick advances the engine exactly one cycle.
func (s *Simulator) Tick() { s.eng.Tick() }

// Halted reports whether the simulated program has finished.
func (s *Simulator) Halted() bool { return s.eng.Halted() }

// Cycle returns the number of clock cycles elapsed.
func (s *Simulator) Cycle() uint32 { return s.eng.Cycle() }

// InstructionsCommitted returns the number of instructions committed.
func (s *Simulator) InstructionsCommitted() uint32 { return s.eng.InstructionsCommitted() }

// IPC returns instructions_committed / clock_cycles.
func (s *Simulator) IPC() float64 { return s.eng.IPC() }

// Int returns the signed value of integer register reg.
func (s *Simulator) Int(reg uint32) int32 { return s.regs.Int(reg) }

// SetInt sets integer register reg to value.
func (s *Simulator) SetInt(reg uint32, value int32) { s.regs.SetInt(reg, value) }

// FP returns the IEEE-754 binary32 value of FP register reg.
func (s *Simulator) FP(reg uint32) float32 { return s.regs.FP(reg) }

// SetFP sets FP register reg to value.
func (s *Simulator) SetFP(reg uint32, value float32) { s.regs.SetFP(reg, value) }

// IntTag returns the rename tag of integer register reg (isa.Undefined
// if the architectural value is current).
func (s *Simulator) IntTag(reg uint32) uint32 { return s.regs.IntTag(reg) }

// FPTag returns the rename tag of FP register reg.
func (s *Simulator) FPTag(reg uint32) uint32 { return s.regs.FPTag(reg) }

// ReadMemoryWord reads 4 little-endian bytes at addr.
func (s *Simulator) ReadMemoryWord(addr uint32) uint32 { return s.mem.ReadWord(addr) }

// WriteMemoryWord writes value as 4 little-endian bytes at addr, for
// pre-loading data memory before Run.
func (s *Simulator) WriteMemoryWord(addr, value uint32) { s.mem.WriteWord(addr, value) }

// Log returns the commit log accumulated so far, in commit order.
func (s *Simulator) Log() []tomasulo.CommitLogEntry { return s.eng.Log() }

// PrintRegisters renders every integer and floating-point register with
// its current value and rename tag, column-aligned.
func (s *Simulator) PrintRegisters() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REG\tVALUE\tTAG\tFREG\tVALUE\tTAG")
	for i := uint32(0); i < isa.NumGPRegisters; i++ {
		fmt.Fprintf(w, "R%d\t%d\t%s\tF%d\t%g\t%s\n",
			i, s.regs.Int(i), tagString(s.regs.IntTag(i)),
			i, s.regs.FP(i), tagString(s.regs.FPTag(i)))
	}
	w.Flush()
	return b.String()
}

// PrintMemoryRange renders the bytes in [start, end) as hex, 16 bytes per
// row with the row's base address as a label.
func (s *Simulator) PrintMemoryRange(start, end uint32) string {
	var b strings.Builder
	data := s.mem.Range(start, end)
	for i := 0; i < len(data); i += 16 {
		row := data[i:]
		if len(row) > 16 {
			row = row[:16]
		}
		fmt.Fprintf(&b, "%08X:", start+uint32(i))
		for _, by := range row {
			fmt.Fprintf(&b, " %02X", by)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// PrintROB renders every ROB slot: index, occupancy, pc, stage, ready
// flag, destination, and value.
func (s *Simulator) PrintROB() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tOCC\tPC\tINST\tSTATE\tREADY\tDEST\tVALUE")
	for _, e := range s.eng.ROBSnapshot() {
		fmt.Fprintf(w, "%d\t%v\t%s\t%s\t%s\t%v\t%s\t%s\n",
			e.Index, e.Occupied, pcString(e.PC), e.Instruction, e.State,
			e.Ready, tagString(e.Destination), tagString(e.Value))
	}
	w.Flush()
	return b.String()
}

// PrintRS renders every reservation-station/load-buffer slot across all
// four classes.
func (s *Simulator) PrintRS() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tIDX\tOCC\tINST\tVJ\tVK\tQJ\tQK\tDEST\tADDR")
	for _, e := range s.eng.RSSnapshot() {
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Class, e.Index, e.Occupied, e.Instruction,
			tagString(e.Value1), tagString(e.Value2),
			tagString(e.Tag1), tagString(e.Tag2),
			tagString(e.Destination), tagString(e.Address))
	}
	w.Flush()
	return b.String()
}

// PrintWindow renders the pending-instruction (instruction window) table:
// the cycle each stage was entered for every ROB slot.
func (s *Simulator) PrintWindow() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tPC\tISSUE\tEXE\tWR\tCOMMIT")
	for _, e := range s.eng.WindowSnapshot() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Index, pcString(e.PC), tagString(e.IssueCycle), tagString(e.ExeCycle),
			tagString(e.WRCycle), tagString(e.CommitCycle))
	}
	w.Flush()
	return b.String()
}

// PrintLog renders the execution log: one row per committed instruction,
// in commit order, with its full cycle history.
func (s *Simulator) PrintLog() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PC\tINST\tISSUE\tEXE\tWR\tCOMMIT")
	for _, e := range s.eng.Log() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
			pcString(e.PC), e.Instruction, e.IssueCycle, e.ExeCycle, e.WRCycle, e.CommitCycle)
	}
	w.Flush()
	return b.String()
}

// tagString renders a uint32 field as its value, or "-" for
// isa.Undefined — the pretty-printer's spelling of the sentinel.
func tagString(v uint32) string {
	if v == isa.Undefined {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

// pcString renders a program counter in hex, or "-" for isa.Undefined.
func pcString(pc uint32) string {
	if pc == isa.Undefined {
		return "-"
	}
	return fmt.Sprintf("0x%04X", pc)
}

package tomasulo

import (
	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/isa"
)

// Engine is the cycle-accurate Tomasulo scheduler. It owns the ROB, the
// reservation-station pools, the functional-unit pool, and the fetch
// pointer into a decoded instruction stream; it reads and writes the
// shared emu.Memory and emu.RegFile it was constructed with; those
// resources are owned exclusively by the scheduler while it runs.
type Engine struct {
	cfg Config

	mem  *emu.Memory
	regs *emu.RegFile

	program           []isa.Instruction
	baseAddress       uint32
	lastInstructionPC uint32

	fetchPC    uint32
	fetchIndex int

	rob   robBuffer
	rs    rsPools
	units []functionalUnit
	cdb   []cdbMessage
	log   []CommitLogEntry

	cycle                 uint32
	instructionsCommitted uint32
	halted                bool
}

// NewEngine constructs an Engine over the given memory and register file,
// wired to execute program (as produced by asm.Parse/asm.Load) starting
// at baseAddress. cfg must satisfy Config.Validate.
func NewEngine(mem *emu.Memory, regs *emu.RegFile, cfg Config, program []isa.Instruction, baseAddress, lastInstructionPC uint32) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IssueWidth == 0 {
		cfg.IssueWidth = cfg.issueWidthOrDefault()
	}

	e := &Engine{
		cfg:               cfg,
		mem:               mem,
		regs:              regs,
		program:           program,
		baseAddress:       baseAddress,
		lastInstructionPC: lastInstructionPC,
		fetchPC:           baseAddress,
		rob:               newROBBuffer(cfg.ROBSize),
		rs:                newRSPools(cfg),
	}
	for _, u := range cfg.Units {
		e.addExecutionUnit(u.Type, u.Latency, u.Instances)
	}
	return e, nil
}

// AddExecutionUnit appends instances copies of a unit of the given type
// and latency to the functional-unit pool, mirroring
// sim_ooo::init_exec_unit. It is exposed for callers that want to build
// up the unit pool incrementally rather than populating
// Config.Units up front.
func (e *Engine) AddExecutionUnit(t isa.UnitType, latency, instances uint32) {
	e.addExecutionUnit(t, latency, instances)
}

func (e *Engine) addExecutionUnit(t isa.UnitType, latency, instances uint32) {
	for i := uint32(0); i < instances; i++ {
		e.units = append(e.units, idleUnit(t, latency))
	}
}

// Halted reports whether the engine has committed the last real
// instruction and will advance no further.
func (e *Engine) Halted() bool { return e.halted }

// Cycle returns the number of cycles elapsed (clock_cycles).
func (e *Engine) Cycle() uint32 { return e.cycle }

// InstructionsCommitted returns the number of instructions committed.
func (e *Engine) InstructionsCommitted() uint32 { return e.instructionsCommitted }

// IPC returns instructions_committed / clock_cycles, or 0 before any
// cycle has elapsed.
func (e *Engine) IPC() float64 {
	if e.cycle == 0 {
		return 0
	}
	return float64(e.instructionsCommitted) / float64(e.cycle)
}

// FetchPC returns the address of the next instruction to be issued.
func (e *Engine) FetchPC() uint32 { return e.fetchPC }

// Log returns the commit log accumulated so far, in commit order.
func (e *Engine) Log() []CommitLogEntry {
	out := make([]CommitLogEntry, len(e.log))
	copy(out, e.log)
	return out
}

// Run advances the engine n cycles, or — when n == 0 — until the
// instruction preceding EOP commits. Run is a no-op once the
// engine has halted.
func (e *Engine) Run(n uint32) {
	if n == 0 {
		for !e.halted {
			e.Tick()
		}
		return
	}
	for i := uint32(0); i < n && !e.halted; i++ {
		e.Tick()
	}
}

// Tick advances the engine exactly one cycle, running COMMIT,
// WRITE_RESULT, EXECUTE dispatch + CDB broadcast, and ISSUE in that fixed
// order. A halting commit or a mispredict flush short-circuits the
// remainder of the cycle, matching the reference's own end-of-program
// early return.
func (e *Engine) Tick() {
	if e.halted {
		return
	}
	e.cycle++
	e.clearOneShotFlags()

	halting, flushed := e.commit()
	if halting {
		e.cycle++
		e.halted = true
		return
	}
	if flushed {
		return
	}

	e.writeResult()
	e.execute()
	e.issue()
}

// clearOneShotFlags is the top-of-cycle Tick step: decrement every unit's
// busy counter and clear the per-cycle one-shot flags.
func (e *Engine) clearOneShotFlags() {
	for i := range e.units {
		if e.units[i].busy > 0 {
			e.units[i].busy--
		}
		e.units[i].releasedThisCycle = false
	}
}

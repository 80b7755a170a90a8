package tomasulo

import "github.com/sarchlab/tomasim/isa"

// ROBEntrySnapshot is a machine-readable view of one ROB slot,
// letting tests and pretty-printers assert on structured state without
// scraping printed text.
type ROBEntrySnapshot struct {
	Index       uint32
	Occupied    bool
	PC          uint32
	Instruction isa.Instruction
	State       isa.Stage
	Ready       bool
	Destination uint32
	Value       uint32
	BranchTaken bool
}

// ROBSnapshot returns every ROB slot in index order, marking which are
// currently occupied.
func (e *Engine) ROBSnapshot() []ROBEntrySnapshot {
	occupied := make(map[uint32]bool, e.rob.count)
	for _, idx := range e.rob.occupiedIndices() {
		occupied[idx] = true
	}

	out := make([]ROBEntrySnapshot, len(e.rob.entries))
	for i := range e.rob.entries {
		idx := uint32(i)
		entry := e.rob.entries[i]
		out[i] = ROBEntrySnapshot{
			Index:       idx,
			Occupied:    occupied[idx],
			PC:          entry.pc,
			Instruction: entry.inst,
			State:       entry.state,
			Ready:       entry.ready,
			Destination: entry.destination,
			Value:       entry.value,
			BranchTaken: entry.branchTaken,
		}
	}
	return out
}

// ROBHead and ROBTail expose the ring buffer's head/tail indices and
// occupancy count for tests and pretty-printers.
func (e *Engine) ROBHead() uint32  { return e.rob.head }
func (e *Engine) ROBTail() uint32  { return e.rob.tail }
func (e *Engine) ROBCount() uint32 { return e.rob.count }

// RSEntrySnapshot is a machine-readable view of one reservation-station
// or load-buffer slot.
type RSEntrySnapshot struct {
	Class       isa.RSClass
	Index       int
	Occupied    bool
	PC          uint32
	Instruction isa.Instruction
	Value1      uint32
	Value2      uint32
	Tag1        uint32
	Tag2        uint32
	Destination uint32
	Address     uint32
}

// RSSnapshot returns every reservation-station/load-buffer slot across
// all four classes.
func (e *Engine) RSSnapshot() []RSEntrySnapshot {
	var out []RSEntrySnapshot
	for class := range e.rs {
		for i, rs := range e.rs[class] {
			out = append(out, RSEntrySnapshot{
				Class: isa.RSClass(class), Index: i, Occupied: rs.occupied,
				PC: rs.pc, Instruction: rs.inst,
				Value1: rs.value1, Value2: rs.value2,
				Tag1: rs.tag1, Tag2: rs.tag2,
				Destination: rs.destination, Address: rs.address,
			})
		}
	}
	return out
}

// WindowEntrySnapshot is a machine-readable view of one pending-
// instruction (instruction window) slot.
type WindowEntrySnapshot struct {
	Index       uint32
	PC          uint32
	IssueCycle  uint32
	ExeCycle    uint32
	WRCycle     uint32
	CommitCycle uint32
}

// WindowSnapshot returns every instruction-window slot in ROB-index
// order.
func (e *Engine) WindowSnapshot() []WindowEntrySnapshot {
	out := make([]WindowEntrySnapshot, len(e.rob.window))
	for i, w := range e.rob.window {
		out[i] = WindowEntrySnapshot{
			Index: uint32(i), PC: w.pc, IssueCycle: w.issueCycle,
			ExeCycle: w.exeCycle, WRCycle: w.wrCycle, CommitCycle: w.commitCycle,
		}
	}
	return out
}

// UnitSnapshot is a machine-readable view of one functional unit.
type UnitSnapshot struct {
	Index    int
	Type     isa.UnitType
	Latency  uint32
	Busy     uint32
	RobIndex uint32
	PC       uint32
}

// UnitsSnapshot returns every functional unit in pool order.
func (e *Engine) UnitsSnapshot() []UnitSnapshot {
	out := make([]UnitSnapshot, len(e.units))
	for i, u := range e.units {
		out[i] = UnitSnapshot{Index: i, Type: u.typ, Latency: u.latency, Busy: u.busy, RobIndex: u.robIndex, PC: u.pc}
	}
	return out
}

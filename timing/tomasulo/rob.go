package tomasulo

import "github.com/sarchlab/tomasim/isa"

// robEntry is one reorder-buffer slot (ROB entry). destination
// encodes an integer register as [0..31], an FP register as [32..63], or
// — for stores, once EXECUTE computes it — the effective byte address;
// it is isa.Undefined for instructions with no architectural destination
// (branches, JUMP). inst is carried alongside pc so COMMIT/EXECUTE can
// recover the opcode and source operands without indexing back into
// instruction memory by pc, which would be ambiguous the second time a
// loop body's pc is in flight.
type robEntry struct {
	pc          uint32
	inst        isa.Instruction
	state       isa.Stage
	ready       bool
	destination uint32
	value       uint32
	branchTaken bool
}

// windowEntry is the pending-instruction (instruction window) record for
// one ROB slot: the cycle each stage was entered.
type windowEntry struct {
	pc          uint32
	issueCycle  uint32
	exeCycle    uint32
	wrCycle     uint32
	commitCycle uint32
}

func newWindowEntry() windowEntry {
	return windowEntry{
		pc: isa.Undefined, issueCycle: isa.Undefined, exeCycle: isa.Undefined,
		wrCycle: isa.Undefined, commitCycle: isa.Undefined,
	}
}

// robBuffer is the circular reorder buffer: head/tail indices plus an
// explicit occupancy counter, avoiding a sentinel-as-empty-flag
// representation.
type robBuffer struct {
	entries []robEntry
	window  []windowEntry
	head    uint32
	tail    uint32
	count   uint32
}

func newROBBuffer(size uint32) robBuffer {
	entries := make([]robEntry, size)
	window := make([]windowEntry, size)
	for i := range entries {
		entries[i] = robEntry{pc: isa.Undefined, destination: isa.Undefined, value: isa.Undefined}
		window[i] = newWindowEntry()
	}
	return robBuffer{entries: entries, window: window}
}

// occupiedIndices returns the ROB slot indices currently in flight, in
// program order from the head.
func (r *robBuffer) occupiedIndices() []uint32 {
	idxs := make([]uint32, 0, r.count)
	size := uint32(len(r.entries))
	for i, pos := uint32(0), r.head; i < r.count; i, pos = i+1, (pos+1)%size {
		idxs = append(idxs, pos)
	}
	return idxs
}

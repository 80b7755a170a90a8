package tomasulo

import (
	"fmt"

	"github.com/sarchlab/tomasim/isa"
)

// CheckInvariants runs a handful of consistency assertions over the ROB,
// reservation stations, and register rename tags — callable after any
// Tick, intended for tests and debugging rather than the normal
// execution path.
func (e *Engine) CheckInvariants() error {
	size := uint32(len(e.rob.entries))
	if e.rob.count > size {
		return fmt.Errorf("tomasulo: rob occupancy %d exceeds capacity %d", e.rob.count, size)
	}
	if e.rob.head >= size || e.rob.tail >= size {
		return fmt.Errorf("tomasulo: rob head/tail out of range: head=%d tail=%d size=%d", e.rob.head, e.rob.tail, size)
	}

	occupied := make(map[uint32]bool, e.rob.count)
	for _, idx := range e.rob.occupiedIndices() {
		occupied[idx] = true
	}

	for idx := range occupied {
		if !e.rob.entries[idx].ready {
			continue
		}
		for class := range e.rs {
			for i, rs := range e.rs[class] {
				if rs.occupied && rs.destination == idx {
					return fmt.Errorf("tomasulo: ready rob entry %d still holds rs slot %s[%d]", idx, isa.RSClass(class), i)
				}
			}
		}
	}

	for reg := uint32(0); reg < isa.NumGPRegisters; reg++ {
		if tag := e.regs.IntTag(reg); tag != isa.Undefined {
			if !occupied[tag] || e.rob.entries[tag].destination != reg {
				return fmt.Errorf("tomasulo: int register %d rename tag %d does not name an occupied rob entry targeting it", reg, tag)
			}
		}
		if tag := e.regs.FPTag(reg); tag != isa.Undefined {
			want := reg + isa.NumGPRegisters
			if !occupied[tag] || e.rob.entries[tag].destination != want {
				return fmt.Errorf("tomasulo: fp register %d rename tag %d does not name an occupied rob entry targeting it", reg, tag)
			}
		}
	}

	return nil
}

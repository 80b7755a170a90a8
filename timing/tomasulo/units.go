package tomasulo

import "github.com/sarchlab/tomasim/isa"

// functionalUnit is one pipelined execution unit. latency counts the
// dispatch cycle itself, so busy is seeded with latency-1 remaining
// decrements and counts down to 0; the unit is occupied exactly while
// robIndex is not isa.Undefined. releasedThisCycle is the one-shot flag: a
// unit freed by WRITE_RESULT this cycle is not reusable by EXECUTE until
// the next cycle.
type functionalUnit struct {
	typ               isa.UnitType
	latency           uint32
	busy              uint32
	robIndex          uint32
	pc                uint32
	result            uint32
	rsClass           isa.RSClass
	rsIndex           int
	releasedThisCycle bool
}

func idleUnit(typ isa.UnitType, latency uint32) functionalUnit {
	return functionalUnit{typ: typ, latency: latency, robIndex: isa.Undefined, pc: isa.Undefined, result: isa.Undefined}
}

// findFreeUnit returns the lowest-indexed unit of type t that is not
// occupied by any in-flight instruction and was not released this very
// cycle. Occupancy is tracked by robIndex rather than the busy countdown:
// a latency-1 unit's busy counter reaches 0 the instant it is dispatched,
// in the same EXECUTE pass that dispatched it, so busy alone cannot tell
// a freshly-occupied unit from a truly idle one.
func findFreeUnit(units []functionalUnit, t isa.UnitType) (int, bool) {
	for i := range units {
		u := &units[i]
		if u.typ == t && u.robIndex == isa.Undefined && !u.releasedThisCycle {
			return i, true
		}
	}
	return 0, false
}

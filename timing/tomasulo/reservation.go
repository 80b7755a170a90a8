package tomasulo

import "github.com/sarchlab/tomasim/isa"

// rsEntry is one reservation-station / load-buffer slot. destination
// is the owning ROB index (invariant 1). A tag of isa.Undefined means the
// paired value has already been captured; otherwise the slot waits on
// that ROB index broadcasting on the CDB.
//
// dispatched is set the first time the slot is sent to a functional unit
// and cleared only when the slot is released at WRITE_RESULT — it
// subsumes both of the reference's "received a tag this cycle" and "has
// ever been executed" flags, since this engine's EXECUTE stage makes
// exactly one dispatch pass per cycle: a slot dispatched earlier in that
// pass cannot be reconsidered later in the same pass, so a single
// persistent flag is sufficient where the reference carried two.
type rsEntry struct {
	class       isa.RSClass
	occupied    bool
	pc          uint32
	inst        isa.Instruction
	value1      uint32
	value2      uint32
	tag1        uint32
	tag2        uint32
	destination uint32
	address     uint32
	dispatched  bool
}

func freeRS(class isa.RSClass) rsEntry {
	return rsEntry{
		class: class, pc: isa.Undefined, value1: isa.Undefined, value2: isa.Undefined,
		tag1: isa.Undefined, tag2: isa.Undefined, destination: isa.Undefined, address: isa.Undefined,
	}
}

// rsPools holds the four reservation-station/load-buffer classes as
// independently sized slices, one partitioned pool of rename slots per
// class.
type rsPools [4][]rsEntry

func newRSPools(cfg Config) rsPools {
	var pools rsPools
	for _, class := range []isa.RSClass{isa.IntegerRS, isa.AddRS, isa.MultRS, isa.LoadRS} {
		n := cfg.rsCount(class)
		slots := make([]rsEntry, n)
		for i := range slots {
			slots[i] = freeRS(class)
		}
		pools[class] = slots
	}
	return pools
}

func (p *rsPools) findFree(class isa.RSClass) (int, bool) {
	pool := p[class]
	for i := range pool {
		if !pool[i].occupied {
			return i, true
		}
	}
	return 0, false
}

func (p *rsPools) release(class isa.RSClass, index int) {
	p[class][index] = freeRS(class)
}

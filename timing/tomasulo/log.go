package tomasulo

import "github.com/sarchlab/tomasim/isa"

// cdbMessage is one entry of the per-cycle CDB broadcast snapshot built
// during WRITE_RESULT and applied to every waiting RS tag in a single
// pass during EXECUTE, per the design note on CDB modeling.
type cdbMessage struct {
	robIndex uint32
	value    uint32
}

// CommitLogEntry records one instruction's full cycle history as it
// retires, in commit order — the source of the execution log.
type CommitLogEntry struct {
	PC          uint32
	Instruction isa.Instruction
	IssueCycle  uint32
	ExeCycle    uint32
	WRCycle     uint32
	CommitCycle uint32
}

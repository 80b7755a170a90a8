package tomasulo

import (
	"sort"

	"github.com/sarchlab/tomasim/isa"
)

// commit retires the ROB head if it is ready. It returns halting if the
// committed instruction is the one immediately preceding EOP, and flushed if a
// mispredicted branch was just retired (in which case the rest of this
// cycle's stages are skipped — see Tick).
func (e *Engine) commit() (halting bool, flushed bool) {
	if e.rob.count == 0 {
		return false, false
	}
	idx := e.rob.head
	entry := &e.rob.entries[idx]
	if !entry.ready {
		return false, false
	}

	e.instructionsCommitted++
	e.rob.window[idx].commitCycle = e.cycle
	halting = entry.pc == e.lastInstructionPC

	op := entry.inst.Opcode
	switch {
	case isa.IsStore(op):
		e.mem.WriteWord(entry.destination, entry.value)
		e.logCommit(idx)
		e.retireHead()

	case isa.IsBranch(op) || isa.IsJump(op):
		e.logCommit(idx)
		if entry.branchTaken {
			e.flush(entry.value)
			flushed = true
		} else {
			e.retireHead()
		}

	case isa.HasFPDestination(op):
		reg := entry.destination - 32
		e.regs.SetFPBits(reg, entry.value)
		e.regs.ClearFPTagIfMatches(reg, idx)
		e.logCommit(idx)
		e.retireHead()

	case isa.HasIntDestination(op):
		e.regs.SetIntBits(entry.destination, entry.value)
		e.regs.ClearIntTagIfMatches(entry.destination, idx)
		e.logCommit(idx)
		e.retireHead()

	default:
		e.logCommit(idx)
		e.retireHead()
	}

	return halting, flushed
}

func (e *Engine) logCommit(idx uint32) {
	win := e.rob.window[idx]
	entry := e.rob.entries[idx]
	e.log = append(e.log, CommitLogEntry{
		PC:          entry.pc,
		Instruction: entry.inst,
		IssueCycle:  win.issueCycle,
		ExeCycle:    win.exeCycle,
		WRCycle:     win.wrCycle,
		CommitCycle: win.commitCycle,
	})
}

func (e *Engine) retireHead() {
	size := uint32(len(e.rob.entries))
	e.rob.head = (e.rob.head + 1) % size
	e.rob.count--
}

// flush implements the misprediction-recovery protocol: every ROB entry,
// RS slot, and functional unit is cleared, all rename tags reset, and the
// fetch pointer redirected to targetPC.
func (e *Engine) flush(targetPC uint32) {
	e.rob = newROBBuffer(e.cfg.ROBSize)
	for class := range e.rs {
		for i := range e.rs[class] {
			e.rs[class][i] = freeRS(isa.RSClass(class))
		}
	}
	for i := range e.units {
		e.units[i].busy = 0
		e.units[i].robIndex = isa.Undefined
		e.units[i].pc = isa.Undefined
		e.units[i].result = isa.Undefined
		e.units[i].releasedThisCycle = false
	}
	e.regs.ClearAllTags()
	e.fetchPC = targetPC
	e.fetchIndex = int((targetPC - e.baseAddress) / 4)
}

// writeResult drains every unit whose busy counter has
// reached 0, write its result into the owning ROB entry, release the
// owning RS slot, and build this cycle's CDB broadcast snapshot.
func (e *Engine) writeResult() {
	var snapshot []cdbMessage
	for i := range e.units {
		u := &e.units[i]
		if u.busy != 0 || u.robIndex == isa.Undefined {
			continue
		}

		rob := &e.rob.entries[u.robIndex]
		rob.value = u.result
		rob.ready = true
		rob.state = isa.WriteResult
		win := &e.rob.window[u.robIndex]
		if win.wrCycle == isa.Undefined {
			win.wrCycle = e.cycle
		}

		e.rs.release(u.rsClass, u.rsIndex)
		snapshot = append(snapshot, cdbMessage{robIndex: u.robIndex, value: u.result})

		u.robIndex = isa.Undefined
		u.pc = isa.Undefined
		u.result = isa.Undefined
		u.releasedThisCycle = true
	}
	e.cdb = snapshot
}

// execute first applies this cycle's CDB snapshot to
// every waiting RS tag in one pass, then dispatch ready RS slots to a free
// matching-type functional unit, oldest ROB index first within each class
// so a contended unit always goes to the oldest ready instruction rather
// than whichever slot happens to sit at the lowest array index.
func (e *Engine) execute() {
	e.applyCDB()

	for class := range e.rs {
		pool := e.rs[class]
		ready := make([]int, 0, len(pool))
		for i := range pool {
			rs := &pool[i]
			if !rs.occupied || rs.dispatched {
				continue
			}
			if rs.tag1 != isa.Undefined || rs.tag2 != isa.Undefined {
				continue
			}
			ready = append(ready, i)
		}
		sort.Slice(ready, func(a, b int) bool {
			return e.robAge(pool[ready[a]].destination) < e.robAge(pool[ready[b]].destination)
		})

		for _, i := range ready {
			rs := &pool[i]
			unitType, ok := isa.UnitFor(rs.inst.Opcode)
			if !ok {
				continue
			}
			uidx, ok := findFreeUnit(e.units, unitType)
			if !ok {
				continue
			}
			e.dispatch(rs, isa.RSClass(class), i, uidx)
		}
	}
}

// robAge ranks a ROB index by distance from the current head, so the
// oldest in-flight instruction (the one closest to committing) sorts
// first regardless of where the circular buffer's head currently sits.
func (e *Engine) robAge(robIndex uint32) uint32 {
	size := uint32(len(e.rob.entries))
	return (robIndex - e.rob.head + size) % size
}

func (e *Engine) applyCDB() {
	for _, msg := range e.cdb {
		for class := range e.rs {
			pool := e.rs[class]
			for i := range pool {
				rs := &pool[i]
				if !rs.occupied {
					continue
				}
				if rs.tag1 == msg.robIndex {
					rs.value1 = msg.value
					rs.tag1 = isa.Undefined
				}
				if rs.tag2 == msg.robIndex {
					rs.value2 = msg.value
					rs.tag2 = isa.Undefined
				}
			}
		}
	}
}

func (e *Engine) dispatch(rs *rsEntry, class isa.RSClass, rsIndex, unitIndex int) {
	result, branchTaken := e.computeResult(rs)

	u := &e.units[unitIndex]
	if u.latency > 0 {
		u.busy = u.latency - 1
	} else {
		u.busy = 0
	}
	u.robIndex = rs.destination
	u.pc = rs.pc
	u.result = result
	u.rsClass = class
	u.rsIndex = rsIndex

	rs.dispatched = true

	rob := &e.rob.entries[rs.destination]
	rob.state = isa.Execute
	win := &e.rob.window[rs.destination]
	if win.exeCycle == isa.Undefined {
		win.exeCycle = e.cycle
	}

	op := rs.inst.Opcode
	if isa.IsBranch(op) || isa.IsJump(op) {
		rob.branchTaken = branchTaken
	}
	if isa.IsStore(op) {
		rob.destination = rs.address
	}
}

// computeResult performs the EXECUTE-time computation for a
// dispatched RS slot: ALU/branch/jump evaluation via isa.Eval, or the
// load/store address-plus-memory handling that isa.Eval does not cover.
func (e *Engine) computeResult(rs *rsEntry) (result uint32, branchTaken bool) {
	op := rs.inst.Opcode
	switch {
	case isa.IsLoad(op):
		addr := isa.EffectiveAddress(rs.value1, rs.inst.Immediate)
		rs.address = addr
		return e.mem.ReadWord(addr), false
	case isa.IsStore(op):
		addr := isa.EffectiveAddress(rs.value2, rs.inst.Immediate)
		rs.address = addr
		return rs.value1, false
	default:
		return isa.Eval(op, rs.value1, rs.value2, rs.inst.Immediate, rs.pc)
	}
}

// issue allocates up to issue_width instructions from
// the fetch stream into the ROB and a matching reservation-station
// class, stopping at the first failure.
func (e *Engine) issue() {
	for n := uint32(0); n < e.cfg.IssueWidth; n++ {
		if e.fetchIndex < 0 || e.fetchIndex >= len(e.program) {
			return
		}
		inst := e.program[e.fetchIndex]
		if inst.Opcode == isa.EOP || inst.Opcode == isa.NOP {
			return
		}

		class, ok := isa.ClassFor(inst.Opcode)
		if !ok {
			return
		}
		if e.rob.count >= e.cfg.ROBSize {
			return
		}
		rsIndex, ok := e.rs.findFree(class)
		if !ok {
			return
		}

		pc := e.fetchPC
		robIndex := e.rob.tail
		e.allocateROB(robIndex, pc, inst)
		e.allocateRS(class, rsIndex, robIndex, pc, inst)

		size := uint32(len(e.rob.entries))
		e.rob.tail = (e.rob.tail + 1) % size
		e.rob.count++

		e.fetchIndex++
		e.fetchPC += 4
	}
}

func (e *Engine) allocateROB(idx, pc uint32, inst isa.Instruction) {
	entry := &e.rob.entries[idx]
	entry.pc = pc
	entry.inst = inst
	entry.state = isa.Issue
	entry.ready = false
	entry.branchTaken = false
	entry.value = isa.Undefined

	switch {
	case isa.IsStore(inst.Opcode):
		entry.destination = isa.Undefined
	case isa.HasIntDestination(inst.Opcode):
		entry.destination = inst.Dest
		e.regs.SetIntTag(inst.Dest, idx)
	case isa.HasFPDestination(inst.Opcode):
		entry.destination = inst.Dest + isa.NumGPRegisters
		e.regs.SetFPTag(inst.Dest, idx)
	default:
		entry.destination = isa.Undefined
	}

	e.rob.window[idx] = windowEntry{
		pc: pc, issueCycle: e.cycle, exeCycle: isa.Undefined,
		wrCycle: isa.Undefined, commitCycle: isa.Undefined,
	}
}

func (e *Engine) allocateRS(class isa.RSClass, rsIndex int, robIndex, pc uint32, inst isa.Instruction) {
	rs := &e.rs[class][rsIndex]
	*rs = rsEntry{
		class: class, occupied: true, pc: pc, inst: inst,
		destination: robIndex, address: isa.Undefined,
	}

	switch {
	case isa.IsIntALUReg(inst.Opcode) || isa.IsIntMultDiv(inst.Opcode) || isa.IsFPALU(inst.Opcode):
		rs.value1, rs.tag1 = e.captureOperand(inst.Src1, isa.IsFPALU(inst.Opcode))
		rs.value2, rs.tag2 = e.captureOperand(inst.Src2, isa.IsFPALU(inst.Opcode))

	case isa.IsIntALUImm(inst.Opcode):
		rs.value1, rs.tag1 = e.captureOperand(inst.Src1, false)
		rs.value2, rs.tag2 = inst.Immediate, isa.Undefined

	case isa.IsLoad(inst.Opcode):
		rs.value1, rs.tag1 = e.captureOperand(inst.Src1, false)
		rs.value2, rs.tag2 = isa.Undefined, isa.Undefined

	case isa.IsStore(inst.Opcode):
		rs.value1, rs.tag1 = e.captureOperand(inst.Src1, inst.Opcode == isa.SWS)
		rs.value2, rs.tag2 = e.captureOperand(inst.Src2, false)

	case isa.IsBranch(inst.Opcode):
		rs.value1, rs.tag1 = e.captureOperand(inst.Src1, false)
		rs.value2, rs.tag2 = isa.Undefined, isa.Undefined

	case isa.IsJump(inst.Opcode):
		rs.value1, rs.tag1 = isa.Undefined, isa.Undefined
		rs.value2, rs.tag2 = isa.Undefined, isa.Undefined
	}
}

// captureOperand implements operand snapshot rule: if the
// register's rename tag is undefined, its current value is captured
// directly; otherwise the tag is captured, unless the named ROB entry is
// already ready, in which case its value is captured instead (the
// already-ready bypass).
func (e *Engine) captureOperand(reg uint32, isFP bool) (value uint32, tag uint32) {
	var curTag, curVal uint32
	if isFP {
		curTag, curVal = e.regs.FPTag(reg), e.regs.FPBits(reg)
	} else {
		curTag, curVal = e.regs.IntTag(reg), e.regs.IntBits(reg)
	}
	if curTag == isa.Undefined {
		return curVal, isa.Undefined
	}
	if e.rob.entries[curTag].ready {
		return e.rob.entries[curTag].value, isa.Undefined
	}
	return isa.Undefined, curTag
}

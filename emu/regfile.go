package emu

import (
	"math"

	"github.com/sarchlab/tomasim/isa"
)

// RegFile holds the 32 integer and 32 floating-point general-purpose
// registers, each paired with a rename tag: isa.Undefined when the
// architectural value is current, or the ROB index of the in-flight
// instruction that will produce it.
//
// Values are stored as raw 32-bit patterns. Integer registers are
// interpreted as sign-extended two's-complement on read; floating-point
// registers are stored bit-identically and interpreted as IEEE-754
// binary32.
type RegFile struct {
	intValue [isa.NumGPRegisters]uint32
	fpValue  [isa.NumGPRegisters]uint32
	intTag   [isa.NumGPRegisters]uint32
	fpTag    [isa.NumGPRegisters]uint32
}

// NewRegFile returns a RegFile with every register and tag reset to
// isa.Undefined.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset sets every register value and rename tag back to isa.Undefined.
func (r *RegFile) Reset() {
	for i := 0; i < isa.NumGPRegisters; i++ {
		r.intValue[i] = isa.Undefined
		r.fpValue[i] = isa.Undefined
		r.intTag[i] = isa.Undefined
		r.fpTag[i] = isa.Undefined
	}
}

// Int returns the signed interpretation of integer register reg.
func (r *RegFile) Int(reg uint32) int32 {
	return int32(r.intValue[reg])
}

// SetInt sets integer register reg to the given signed value.
func (r *RegFile) SetInt(reg uint32, value int32) {
	r.intValue[reg] = uint32(value)
}

// IntBits returns the raw bit pattern of integer register reg.
func (r *RegFile) IntBits(reg uint32) uint32 {
	return r.intValue[reg]
}

// SetIntBits sets integer register reg to the given raw bit pattern.
func (r *RegFile) SetIntBits(reg uint32, value uint32) {
	r.intValue[reg] = value
}

// FP returns the IEEE-754 binary32 interpretation of FP register reg.
func (r *RegFile) FP(reg uint32) float32 {
	return math.Float32frombits(r.fpValue[reg])
}

// SetFP sets FP register reg to the given float32 value.
func (r *RegFile) SetFP(reg uint32, value float32) {
	r.fpValue[reg] = math.Float32bits(value)
}

// FPBits returns the raw bit pattern of FP register reg.
func (r *RegFile) FPBits(reg uint32) uint32 {
	return r.fpValue[reg]
}

// SetFPBits sets FP register reg to the given raw bit pattern.
func (r *RegFile) SetFPBits(reg uint32, value uint32) {
	r.fpValue[reg] = value
}

// IntTag returns the rename tag of integer register reg.
func (r *RegFile) IntTag(reg uint32) uint32 {
	return r.intTag[reg]
}

// SetIntTag sets the rename tag of integer register reg to robIndex.
func (r *RegFile) SetIntTag(reg uint32, robIndex uint32) {
	r.intTag[reg] = robIndex
}

// FPTag returns the rename tag of FP register reg.
func (r *RegFile) FPTag(reg uint32) uint32 {
	return r.fpTag[reg]
}

// SetFPTag sets the rename tag of FP register reg to robIndex.
func (r *RegFile) SetFPTag(reg uint32, robIndex uint32) {
	r.fpTag[reg] = robIndex
}

// ClearIntTagIfMatches clears the rename tag of integer register reg only
// if it still names robIndex — an older-writes-younger guard: a newer
// in-flight writer's tag is left untouched by an older instruction's
// commit.
func (r *RegFile) ClearIntTagIfMatches(reg uint32, robIndex uint32) {
	if r.intTag[reg] == robIndex {
		r.intTag[reg] = isa.Undefined
	}
}

// ClearFPTagIfMatches is the FP-register analogue of
// ClearIntTagIfMatches.
func (r *RegFile) ClearFPTagIfMatches(reg uint32, robIndex uint32) {
	if r.fpTag[reg] == robIndex {
		r.fpTag[reg] = isa.Undefined
	}
}

// ClearAllTags resets every rename tag to isa.Undefined. Called on branch
// misprediction flush (invariant 6): no register may still wait on
// a ROB entry younger than (or equal to) the mispredicted branch once the
// flush completes.
func (r *RegFile) ClearAllTags() {
	for i := 0; i < isa.NumGPRegisters; i++ {
		r.intTag[i] = isa.Undefined
		r.fpTag[i] = isa.Undefined
	}
}

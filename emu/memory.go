// Package emu provides the architectural state shared by the Tomasulo
// scheduler: a byte-addressable little-endian data memory and the
// integer/floating-point register file with its Tomasulo rename tags.
package emu

// Memory is a byte-addressable, little-endian data memory of a fixed,
// caller-configured size. Every byte is initialized to 0xFF, and
// address-range validation is the caller's responsibility: there is no
// bounds-fault semantics.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a Memory of the given size, with every byte set to
// 0xFF.
func NewMemory(size uint32) *Memory {
	m := &Memory{bytes: make([]byte, size)}
	m.Reset()
	return m
}

// Reset re-initializes every byte to 0xFF.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0xFF
	}
}

// Size returns the memory's size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint32) byte {
	return m.bytes[addr]
}

// WriteByte sets the byte at addr.
func (m *Memory) WriteByte(addr uint32, value byte) {
	m.bytes[addr] = value
}

// ReadWord reads 4 little-endian bytes starting at addr.
func (m *Memory) ReadWord(addr uint32) uint32 {
	return uint32(m.bytes[addr]) |
		uint32(m.bytes[addr+1])<<8 |
		uint32(m.bytes[addr+2])<<16 |
		uint32(m.bytes[addr+3])<<24
}

// WriteWord writes value as 4 little-endian bytes starting at addr.
func (m *Memory) WriteWord(addr uint32, value uint32) {
	m.bytes[addr] = byte(value)
	m.bytes[addr+1] = byte(value >> 8)
	m.bytes[addr+2] = byte(value >> 16)
	m.bytes[addr+3] = byte(value >> 24)
}

// Range returns a read-only view of the bytes in [start, end). It is used
// by the pretty-printers and must not be mutated by callers.
func (m *Memory) Range(start, end uint32) []byte {
	return m.bytes[start:end]
}

package emu

import "encoding/binary"

// DefaultMemorySize is the memory size used when none is configured.
const DefaultMemorySize = 128 * 1024

// Memory is a flat, byte-addressable, little-endian memory of fixed size.
// Accesses need not be aligned. An access that does not fit entirely
// inside memory fails with an *AccessFaultError and has no effect.
type Memory struct {
	data []byte
}

// NewMemory creates a zero-initialized memory of the given size in bytes.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

func (m *Memory) check(kind AccessKind, addr uint32, size int) error {
	if uint64(addr)+uint64(size) > uint64(len(m.data)) {
		return &AccessFaultError{Kind: kind, Addr: addr, Size: size, Limit: len(m.data)}
	}
	return nil
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) (uint8, error) {
	if err := m.check(AccessLoad, addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) (uint16, error) {
	if err := m.check(AccessLoad, addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[addr:]), nil
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	if err := m.check(AccessLoad, addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

// Fetch reads the instruction word at addr. It differs from Read32 only
// in the access kind reported on a fault.
func (m *Memory) Fetch(addr uint32) (uint32, error) {
	if err := m.check(AccessFetch, addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) error {
	if err := m.check(AccessStore, addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) error {
	if err := m.check(AccessStore, addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[addr:], value)
	return nil
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	if err := m.check(AccessStore, addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:], value)
	return nil
}

// LoadProgram copies program bytes into memory starting at addr.
// Nothing is copied if the program does not fit.
func (m *Memory) LoadProgram(addr uint32, program []byte) error {
	if err := m.check(AccessStore, addr, len(program)); err != nil {
		return err
	}
	copy(m.data[addr:], program)
	return nil
}

// ReadBytes returns a copy of n bytes starting at addr.
func (m *Memory) ReadBytes(addr uint32, n int) ([]byte, error) {
	if err := m.check(AccessLoad, addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.data[addr:])
	return out, nil
}

// Reset zeroes all of memory.
func (m *Memory) Reset() {
	clear(m.data)
}

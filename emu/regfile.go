// Package emu provides functional RV32I emulation.
package emu

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

// RegFile represents the RV32I register file.
// It contains 32 general-purpose registers (x0-x31) and the program
// counter (PC). Register x0 is hard-wired to zero.
type RegFile struct {
	x [NumRegisters]uint32

	// PC is the program counter.
	PC uint32
}

// ReadReg reads a register value. Register 0 always reads as 0.
// It panics with a *RegisterIndexError if reg is not below NumRegisters.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg >= NumRegisters {
		panic(&RegisterIndexError{Index: reg})
	}
	return r.x[reg]
}

// WriteReg writes a value to a register and returns the value the
// register holds afterwards. Writes to register 0 are ignored.
// It panics with a *RegisterIndexError if reg is not below NumRegisters.
func (r *RegFile) WriteReg(reg uint8, value uint32) uint32 {
	if reg >= NumRegisters {
		panic(&RegisterIndexError{Index: reg})
	}
	if reg == 0 {
		return 0
	}
	r.x[reg] = value
	return value
}

// Registers returns a copy of all register values.
func (r *RegFile) Registers() [NumRegisters]uint32 {
	return r.x
}

// Package emu provides functional RV32I emulation.
package emu

import "github.com/sarchlab/rv32sim/insts"

// LoadStoreUnit implements RV32I load and store operations.
// The effective address is rs1 + offset with 32-bit wraparound. A faulting
// access leaves registers and memory unchanged.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

func (lsu *LoadStoreUnit) addr(rs1 uint8, offset int32) uint32 {
	return lsu.regFile.ReadReg(rs1) + uint32(offset)
}

// LB loads a byte with sign extension: rd = sext(mem8[rs1 + offset])
func (lsu *LoadStoreUnit) LB(rd, rs1 uint8, offset int32) error {
	value, err := lsu.memory.Read8(lsu.addr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(insts.SignExtend(uint32(value), 8)))
	return nil
}

// LBU loads a byte with zero extension: rd = zext(mem8[rs1 + offset])
func (lsu *LoadStoreUnit) LBU(rd, rs1 uint8, offset int32) error {
	value, err := lsu.memory.Read8(lsu.addr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(value))
	return nil
}

// LH loads a halfword with sign extension: rd = sext(mem16[rs1 + offset])
func (lsu *LoadStoreUnit) LH(rd, rs1 uint8, offset int32) error {
	value, err := lsu.memory.Read16(lsu.addr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(insts.SignExtend(uint32(value), 16)))
	return nil
}

// LHU loads a halfword with zero extension: rd = zext(mem16[rs1 + offset])
func (lsu *LoadStoreUnit) LHU(rd, rs1 uint8, offset int32) error {
	value, err := lsu.memory.Read16(lsu.addr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint32(value))
	return nil
}

// LW loads a word: rd = mem32[rs1 + offset]
func (lsu *LoadStoreUnit) LW(rd, rs1 uint8, offset int32) error {
	value, err := lsu.memory.Read32(lsu.addr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, value)
	return nil
}

// SB stores the low byte of rs2: mem8[rs1 + offset] = rs2[7:0]
func (lsu *LoadStoreUnit) SB(rs1, rs2 uint8, offset int32) error {
	return lsu.memory.Write8(lsu.addr(rs1, offset), uint8(lsu.regFile.ReadReg(rs2)))
}

// SH stores the low halfword of rs2: mem16[rs1 + offset] = rs2[15:0]
func (lsu *LoadStoreUnit) SH(rs1, rs2 uint8, offset int32) error {
	return lsu.memory.Write16(lsu.addr(rs1, offset), uint16(lsu.regFile.ReadReg(rs2)))
}

// SW stores rs2: mem32[rs1 + offset] = rs2
func (lsu *LoadStoreUnit) SW(rs1, rs2 uint8, offset int32) error {
	return lsu.memory.Write32(lsu.addr(rs1, offset), lsu.regFile.ReadReg(rs2))
}

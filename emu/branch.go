// Package emu provides functional RV32I emulation.
package emu

// BranchUnit implements RV32I jumps and conditional branches.
//
// All methods take pc as the address of the jump or branch instruction
// itself. Offsets are byte offsets relative to that address and the link
// value is pc + 4.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// JAL writes the return address to rd and jumps to pc + offset.
func (b *BranchUnit) JAL(rd uint8, pc uint32, offset int32) {
	b.regFile.WriteReg(rd, pc+4)
	b.regFile.PC = pc + uint32(offset)
}

// JALR jumps to (rs1 + offset) with bit 0 cleared and writes the return
// address to rd.
func (b *BranchUnit) JALR(rd, rs1 uint8, pc uint32, offset int32) {
	// Read target first in case rd == rs1
	target := (b.regFile.ReadReg(rs1) + uint32(offset)) &^ 1

	b.regFile.WriteReg(rd, pc+4)
	b.regFile.PC = target
}

// Branch jumps to pc + offset if taken. Otherwise the PC is left as is.
func (b *BranchUnit) Branch(taken bool, pc uint32, offset int32) {
	if taken {
		b.regFile.PC = pc + uint32(offset)
	}
}

// BEQ reports whether rs1 == rs2.
func (b *BranchUnit) BEQ(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) == b.regFile.ReadReg(rs2)
}

// BNE reports whether rs1 != rs2.
func (b *BranchUnit) BNE(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) != b.regFile.ReadReg(rs2)
}

// BLT reports whether rs1 < rs2 as signed values.
func (b *BranchUnit) BLT(rs1, rs2 uint8) bool {
	return int32(b.regFile.ReadReg(rs1)) < int32(b.regFile.ReadReg(rs2))
}

// BGE reports whether rs1 >= rs2 as signed values.
func (b *BranchUnit) BGE(rs1, rs2 uint8) bool {
	return int32(b.regFile.ReadReg(rs1)) >= int32(b.regFile.ReadReg(rs2))
}

// BLTU reports whether rs1 < rs2 as unsigned values.
func (b *BranchUnit) BLTU(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) < b.regFile.ReadReg(rs2)
}

// BGEU reports whether rs1 >= rs2 as unsigned values.
func (b *BranchUnit) BGEU(rs1, rs2 uint8) bool {
	return b.regFile.ReadReg(rs1) >= b.regFile.ReadReg(rs2)
}

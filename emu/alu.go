// Package emu provides functional RV32I emulation.
package emu

// ALU implements RV32I arithmetic, logic, shift and compare operations.
// Every operation reads its sources before writing rd, so rd may alias
// a source register.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// ADD performs addition: rd = rs1 + rs2
func (a *ALU) ADD(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+a.regFile.ReadReg(rs2))
}

// SUB performs subtraction: rd = rs1 - rs2
func (a *ALU) SUB(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)-a.regFile.ReadReg(rs2))
}

// AND performs bitwise AND: rd = rs1 & rs2
func (a *ALU) AND(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&a.regFile.ReadReg(rs2))
}

// OR performs bitwise OR: rd = rs1 | rs2
func (a *ALU) OR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|a.regFile.ReadReg(rs2))
}

// XOR performs bitwise XOR: rd = rs1 ^ rs2
func (a *ALU) XOR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^a.regFile.ReadReg(rs2))
}

// SLL performs a logical left shift by the low 5 bits of rs2.
func (a *ALU) SLL(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1F
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)<<shamt)
}

// SRL performs a logical right shift by the low 5 bits of rs2.
func (a *ALU) SRL(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1F
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)>>shamt)
}

// SRA performs an arithmetic right shift by the low 5 bits of rs2.
func (a *ALU) SRA(rd, rs1, rs2 uint8) {
	shamt := a.regFile.ReadReg(rs2) & 0x1F
	a.regFile.WriteReg(rd, uint32(int32(a.regFile.ReadReg(rs1))>>shamt))
}

// SLT sets rd to 1 if rs1 < rs2 as signed values, else 0.
func (a *ALU) SLT(rd, rs1, rs2 uint8) {
	lt := int32(a.regFile.ReadReg(rs1)) < int32(a.regFile.ReadReg(rs2))
	a.regFile.WriteReg(rd, boolToWord(lt))
}

// SLTU sets rd to 1 if rs1 < rs2 as unsigned values, else 0.
func (a *ALU) SLTU(rd, rs1, rs2 uint8) {
	lt := a.regFile.ReadReg(rs1) < a.regFile.ReadReg(rs2)
	a.regFile.WriteReg(rd, boolToWord(lt))
}

// ADDI performs addition with immediate: rd = rs1 + imm
func (a *ALU) ADDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+uint32(imm))
}

// ANDI performs bitwise AND with the sign-extended immediate.
func (a *ALU) ANDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&uint32(imm))
}

// ORI performs bitwise OR with the sign-extended immediate.
func (a *ALU) ORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|uint32(imm))
}

// XORI performs bitwise XOR with the sign-extended immediate.
func (a *ALU) XORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^uint32(imm))
}

// SLLI performs a logical left shift by shamt[4:0].
func (a *ALU) SLLI(rd, rs1 uint8, shamt uint32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)<<(shamt&0x1F))
}

// SRLI performs a logical right shift by shamt[4:0].
func (a *ALU) SRLI(rd, rs1 uint8, shamt uint32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)>>(shamt&0x1F))
}

// SRAI performs an arithmetic right shift by shamt[4:0].
func (a *ALU) SRAI(rd, rs1 uint8, shamt uint32) {
	a.regFile.WriteReg(rd, uint32(int32(a.regFile.ReadReg(rs1))>>(shamt&0x1F)))
}

// SLTI sets rd to 1 if rs1 < imm as signed values, else 0.
func (a *ALU) SLTI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToWord(int32(a.regFile.ReadReg(rs1)) < imm))
}

// SLTIU sets rd to 1 if rs1 < imm as unsigned values, else 0.
// The immediate is sign-extended first, so -1 compares as 0xFFFFFFFF.
func (a *ALU) SLTIU(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToWord(a.regFile.ReadReg(rs1) < uint32(imm)))
}

// LUI loads the upper immediate: rd = imm
func (a *ALU) LUI(rd uint8, imm uint32) {
	a.regFile.WriteReg(rd, imm)
}

// AUIPC adds the upper immediate to the instruction address: rd = pc + imm
func (a *ALU) AUIPC(rd uint8, pc, imm uint32) {
	a.regFile.WriteReg(rd, pc+imm)
}

package insts

import "fmt"

// EncodeR encodes an R-type instruction.
func EncodeR(opcode Opcode, rd, funct3, rs1, rs2, funct7 uint8) uint32 {
	return uint32(funct7&0x7F)<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeI encodes an I-type instruction. Only imm[11:0] is used.
func EncodeI(opcode Opcode, rd, funct3, rs1 uint8, imm int32) uint32 {
	return uint32(imm&0xFFF)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeS encodes an S-type instruction. Only imm[11:0] is used.
func EncodeS(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	immU := uint32(imm & 0xFFF)
	return (immU>>5)<<25 | uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 | (immU&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeB encodes a B-type instruction. The offset must be even;
// imm[12:1] is used.
func EncodeB(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	immU := uint32(imm)
	return ((immU>>12)&0x1)<<31 | ((immU>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 | uint32(rs1&0x1F)<<15 | uint32(funct3&0x7)<<12 |
		((immU>>1)&0xF)<<8 | ((immU>>11)&0x1)<<7 | uint32(opcode&0x7F)
}

// EncodeU encodes a U-type instruction. Only imm[31:12] is used.
func EncodeU(opcode Opcode, rd uint8, imm uint32) uint32 {
	return imm&0xFFFFF000 | uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

// EncodeJ encodes a J-type instruction. The offset must be even;
// imm[20:1] is used.
func EncodeJ(opcode Opcode, rd uint8, imm int32) uint32 {
	immU := uint32(imm)
	return ((immU>>20)&0x1)<<31 | ((immU>>1)&0x3FF)<<21 |
		((immU>>11)&0x1)<<20 | ((immU>>12)&0xFF)<<12 |
		uint32(rd&0x1F)<<7 | uint32(opcode&0x7F)
}

type encoding struct {
	format Format
	opcode Opcode
	funct3 uint8
	funct7 uint8
}

var encodings = map[Op]encoding{
	OpLUI:    {FormatU, OpcodeLUI, 0, 0},
	OpAUIPC:  {FormatU, OpcodeAUIPC, 0, 0},
	OpJAL:    {FormatJ, OpcodeJAL, 0, 0},
	OpJALR:   {FormatI, OpcodeJALR, 0b000, 0},
	OpBEQ:    {FormatB, OpcodeBranch, 0b000, 0},
	OpBNE:    {FormatB, OpcodeBranch, 0b001, 0},
	OpBLT:    {FormatB, OpcodeBranch, 0b100, 0},
	OpBGE:    {FormatB, OpcodeBranch, 0b101, 0},
	OpBLTU:   {FormatB, OpcodeBranch, 0b110, 0},
	OpBGEU:   {FormatB, OpcodeBranch, 0b111, 0},
	OpLB:     {FormatI, OpcodeLoad, 0b000, 0},
	OpLH:     {FormatI, OpcodeLoad, 0b001, 0},
	OpLW:     {FormatI, OpcodeLoad, 0b010, 0},
	OpLBU:    {FormatI, OpcodeLoad, 0b100, 0},
	OpLHU:    {FormatI, OpcodeLoad, 0b101, 0},
	OpSB:     {FormatS, OpcodeStore, 0b000, 0},
	OpSH:     {FormatS, OpcodeStore, 0b001, 0},
	OpSW:     {FormatS, OpcodeStore, 0b010, 0},
	OpADDI:   {FormatI, OpcodeArithImm, 0b000, 0},
	OpSLTI:   {FormatI, OpcodeArithImm, 0b010, 0},
	OpSLTIU:  {FormatI, OpcodeArithImm, 0b011, 0},
	OpXORI:   {FormatI, OpcodeArithImm, 0b100, 0},
	OpORI:    {FormatI, OpcodeArithImm, 0b110, 0},
	OpANDI:   {FormatI, OpcodeArithImm, 0b111, 0},
	OpSLLI:   {FormatI, OpcodeArithImm, 0b001, 0},
	OpSRLI:   {FormatI, OpcodeArithImm, 0b101, 0},
	OpSRAI:   {FormatI, OpcodeArithImm, 0b101, 0b0100000},
	OpADD:    {FormatR, OpcodeArith, 0b000, 0},
	OpSUB:    {FormatR, OpcodeArith, 0b000, 0b0100000},
	OpSLL:    {FormatR, OpcodeArith, 0b001, 0},
	OpSLT:    {FormatR, OpcodeArith, 0b010, 0},
	OpSLTU:   {FormatR, OpcodeArith, 0b011, 0},
	OpXOR:    {FormatR, OpcodeArith, 0b100, 0},
	OpSRL:    {FormatR, OpcodeArith, 0b101, 0},
	OpSRA:    {FormatR, OpcodeArith, 0b101, 0b0100000},
	OpOR:     {FormatR, OpcodeArith, 0b110, 0},
	OpAND:    {FormatR, OpcodeArith, 0b111, 0},
	OpFENCE:  {FormatI, OpcodeFence, 0b000, 0},
	OpFENCEI: {FormatI, OpcodeFence, 0b001, 0},
}

// Encode builds the instruction word for op. Operands that the op's
// format does not encode are ignored. For shift-immediate operations imm
// is the shift amount.
func Encode(op Op, rd, rs1, rs2 uint8, imm int32) (uint32, error) {
	enc, ok := encodings[op]
	if !ok {
		return 0, fmt.Errorf("cannot encode operation %v", op)
	}

	switch enc.format {
	case FormatR:
		return EncodeR(enc.opcode, rd, enc.funct3, rs1, rs2, enc.funct7), nil
	case FormatI:
		if op == OpSLLI || op == OpSRLI || op == OpSRAI {
			imm = int32(enc.funct7)<<5 | imm&0x1F
		}
		return EncodeI(enc.opcode, rd, enc.funct3, rs1, imm), nil
	case FormatS:
		return EncodeS(enc.opcode, enc.funct3, rs1, rs2, imm), nil
	case FormatB:
		return EncodeB(enc.opcode, enc.funct3, rs1, rs2, imm), nil
	case FormatU:
		return EncodeU(enc.opcode, rd, uint32(imm)), nil
	case FormatJ:
		return EncodeJ(enc.opcode, rd, imm), nil
	}

	return 0, fmt.Errorf("cannot encode operation %v", op)
}

// MustEncode is like Encode but panics on error.
func MustEncode(op Op, rd, rs1, rs2 uint8, imm int32) uint32 {
	word, err := Encode(op, rd, rs1, rs2, imm)
	if err != nil {
		panic(err)
	}
	return word
}

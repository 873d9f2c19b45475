// Package insts provides RV32I instruction definitions and decoding.
package insts

// Op represents an RV32I operation.
type Op uint8

// RV32I operations.
const (
	OpUnknown Op = iota
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Short immediate and loads
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatU              // Upper immediate
	FormatJ              // Unconditional jump
)

// Opcode is the 7-bit primary opcode field.
type Opcode uint8

// RV32I primary opcodes.
const (
	OpcodeLUI      Opcode = 0b0110111
	OpcodeAUIPC    Opcode = 0b0010111
	OpcodeJAL      Opcode = 0b1101111
	OpcodeJALR     Opcode = 0b1100111
	OpcodeBranch   Opcode = 0b1100011
	OpcodeLoad     Opcode = 0b0000011
	OpcodeStore    Opcode = 0b0100011
	OpcodeArithImm Opcode = 0b0010011
	OpcodeArith    Opcode = 0b0110011
	OpcodeFence    Opcode = 0b0001111
)

// Instruction represents a decoded RV32I instruction.
//
// Only the fields used by the instruction's format are populated. The
// rest keep their zero value and carry no meaning for that operation.
type Instruction struct {
	Op     Op     // Operation
	Format Format // Encoding format

	// Sub-opcode fields, kept for diagnostics
	Funct3 uint8
	Funct7 uint8

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	// Imm holds the packed immediate bits before sign extension.
	// For shift-immediate operations only the low 5 bits are kept.
	// For U-type it is the pre-shifted upper immediate.
	Imm uint32

	// SImm is Imm sign-extended from the format's immediate width.
	SImm int32
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Field extraction primitives.

// RdField returns bits [11:7].
func RdField(word uint32) uint8 { return uint8((word >> 7) & 0x1F) }

// Rs1Field returns bits [19:15].
func Rs1Field(word uint32) uint8 { return uint8((word >> 15) & 0x1F) }

// Rs2Field returns bits [24:20].
func Rs2Field(word uint32) uint8 { return uint8((word >> 20) & 0x1F) }

// Funct3Field returns bits [14:12].
func Funct3Field(word uint32) uint8 { return uint8((word >> 12) & 0x07) }

// Funct7Field returns bits [31:25].
func Funct7Field(word uint32) uint8 { return uint8((word >> 25) & 0x7F) }

// OpcodeField returns bits [6:0].
func OpcodeField(word uint32) Opcode { return Opcode(word & 0x7F) }

// Decode decodes a 32-bit RV32I instruction word.
// Words with no defined mapping decode to an Instruction with Op set to
// OpUnknown.
func (d *Decoder) Decode(word uint32) Instruction {
	var inst Instruction

	switch OpcodeField(word) {
	case OpcodeLUI:
		d.unpackU(word, &inst)
		inst.Op = OpLUI
	case OpcodeAUIPC:
		d.unpackU(word, &inst)
		inst.Op = OpAUIPC
	case OpcodeJAL:
		d.unpackJ(word, &inst)
		inst.Op = OpJAL
	case OpcodeJALR:
		d.unpackI(word, &inst)
		inst.Op = OpJALR
	case OpcodeBranch:
		d.unpackB(word, &inst)
		d.decodeBranch(&inst)
	case OpcodeLoad:
		d.unpackI(word, &inst)
		d.decodeLoad(&inst)
	case OpcodeStore:
		d.unpackS(word, &inst)
		d.decodeStore(&inst)
	case OpcodeArithImm:
		d.unpackI(word, &inst)
		d.decodeArithImm(word, &inst)
	case OpcodeArith:
		d.unpackR(word, &inst)
		d.decodeArith(&inst)
	case OpcodeFence:
		d.unpackI(word, &inst)
		switch inst.Funct3 {
		case 0b000:
			inst.Op = OpFENCE
		case 0b001:
			inst.Op = OpFENCEI
		}
	}

	return inst
}

// unpackR extracts the fields of an R-type word.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
func (d *Decoder) unpackR(word uint32, inst *Instruction) {
	inst.Format = FormatR
	inst.Funct7 = Funct7Field(word)
	inst.Funct3 = Funct3Field(word)
	inst.Rs1 = Rs1Field(word)
	inst.Rs2 = Rs2Field(word)
	inst.Rd = RdField(word)
}

// unpackI extracts the fields of an I-type word.
// Format: imm[11:0] | rs1 | funct3 | rd | opcode
func (d *Decoder) unpackI(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Funct3 = Funct3Field(word)
	inst.Rs1 = Rs1Field(word)
	inst.Rd = RdField(word)
	inst.Imm = (word >> 20) & 0xFFF
	inst.SImm = SignExtend(inst.Imm, 12)
}

// unpackS extracts the fields of an S-type word.
// Format: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
func (d *Decoder) unpackS(word uint32, inst *Instruction) {
	inst.Format = FormatS
	inst.Funct3 = Funct3Field(word)
	inst.Rs1 = Rs1Field(word)
	inst.Rs2 = Rs2Field(word)

	imm := (word >> 7) & 0x1F   // imm[4:0]
	imm |= (word >> 20) & 0xFE0 // imm[11:5]
	inst.Imm = imm
	inst.SImm = SignExtend(imm, 12)
}

// unpackB extracts the fields of a B-type word.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | opcode
func (d *Decoder) unpackB(word uint32, inst *Instruction) {
	inst.Format = FormatB
	inst.Funct3 = Funct3Field(word)
	inst.Rs1 = Rs1Field(word)
	inst.Rs2 = Rs2Field(word)

	imm := (word >> 7) & 0x1E    // imm[4:1]
	imm |= (word >> 20) & 0x7E0  // imm[10:5]
	imm |= (word << 4) & 0x800   // imm[11]
	imm |= (word >> 19) & 0x1000 // imm[12]
	inst.Imm = imm
	inst.SImm = SignExtend(imm, 13)
}

// unpackU extracts the fields of a U-type word.
// Format: imm[31:12] | rd | opcode
func (d *Decoder) unpackU(word uint32, inst *Instruction) {
	inst.Format = FormatU
	inst.Rd = RdField(word)
	inst.Imm = word & 0xFFFFF000
	// The sign bit is already in position 31.
	inst.SImm = int32(inst.Imm)
}

// unpackJ extracts the fields of a J-type word.
// Format: imm[20|10:1|11|19:12] | rd | opcode
func (d *Decoder) unpackJ(word uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Rd = RdField(word)

	imm := (word >> 20) & 0x7FE    // imm[10:1]
	imm |= (word >> 9) & 0x800     // imm[11]
	imm |= word & 0xFF000          // imm[19:12]
	imm |= (word >> 11) & 0x100000 // imm[20]
	inst.Imm = imm
	inst.SImm = SignExtend(imm, 21)
}

func (d *Decoder) decodeBranch(inst *Instruction) {
	switch inst.Funct3 {
	case 0b000:
		inst.Op = OpBEQ
	case 0b001:
		inst.Op = OpBNE
	case 0b100:
		inst.Op = OpBLT
	case 0b101:
		inst.Op = OpBGE
	case 0b110:
		inst.Op = OpBLTU
	case 0b111:
		inst.Op = OpBGEU
	}
}

func (d *Decoder) decodeLoad(inst *Instruction) {
	switch inst.Funct3 {
	case 0b000:
		inst.Op = OpLB
	case 0b001:
		inst.Op = OpLH
	case 0b010:
		inst.Op = OpLW
	case 0b100:
		inst.Op = OpLBU
	case 0b101:
		inst.Op = OpLHU
	}
}

func (d *Decoder) decodeStore(inst *Instruction) {
	switch inst.Funct3 {
	case 0b000:
		inst.Op = OpSB
	case 0b001:
		inst.Op = OpSH
	case 0b010:
		inst.Op = OpSW
	}
}

// decodeArithImm selects the immediate ALU operation.
// Shift-immediates carry a 5-bit shift amount in imm[4:0] and use the
// funct7 position to select between logical and arithmetic right shift.
func (d *Decoder) decodeArithImm(word uint32, inst *Instruction) {
	switch inst.Funct3 {
	case 0b000:
		inst.Op = OpADDI
	case 0b010:
		inst.Op = OpSLTI
	case 0b011:
		inst.Op = OpSLTIU
	case 0b100:
		inst.Op = OpXORI
	case 0b110:
		inst.Op = OpORI
	case 0b111:
		inst.Op = OpANDI
	case 0b001:
		inst.Op = OpSLLI
		inst.Funct7 = Funct7Field(word)
		inst.Imm &= 0x1F
		inst.SImm = int32(inst.Imm)
	case 0b101:
		inst.Funct7 = Funct7Field(word)
		if inst.Funct7 == 0 {
			inst.Op = OpSRLI
		} else {
			inst.Op = OpSRAI
		}
		inst.Imm &= 0x1F
		inst.SImm = int32(inst.Imm)
	}
}

func (d *Decoder) decodeArith(inst *Instruction) {
	switch inst.Funct3 {
	case 0b000:
		if inst.Funct7 == 0 {
			inst.Op = OpADD
		} else {
			inst.Op = OpSUB
		}
	case 0b001:
		inst.Op = OpSLL
	case 0b010:
		inst.Op = OpSLT
	case 0b011:
		inst.Op = OpSLTU
	case 0b100:
		inst.Op = OpXOR
	case 0b101:
		if inst.Funct7 == 0 {
			inst.Op = OpSRL
		} else {
			inst.Op = OpSRA
		}
	case 0b110:
		inst.Op = OpOR
	case 0b111:
		inst.Op = OpAND
	}
}

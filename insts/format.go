package insts

import "fmt"

var opNames = [...]string{
	OpUnknown: "UNKNOWN",
	OpLUI:     "LUI",
	OpAUIPC:   "AUIPC",
	OpJAL:     "JAL",
	OpJALR:    "JALR",
	OpBEQ:     "BEQ",
	OpBNE:     "BNE",
	OpBLT:     "BLT",
	OpBGE:     "BGE",
	OpBLTU:    "BLTU",
	OpBGEU:    "BGEU",
	OpLB:      "LB",
	OpLH:      "LH",
	OpLW:      "LW",
	OpLBU:     "LBU",
	OpLHU:     "LHU",
	OpSB:      "SB",
	OpSH:      "SH",
	OpSW:      "SW",
	OpADDI:    "ADDI",
	OpSLTI:    "SLTI",
	OpSLTIU:   "SLTIU",
	OpXORI:    "XORI",
	OpORI:     "ORI",
	OpANDI:    "ANDI",
	OpSLLI:    "SLLI",
	OpSRLI:    "SRLI",
	OpSRAI:    "SRAI",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpSLL:     "SLL",
	OpSLT:     "SLT",
	OpSLTU:    "SLTU",
	OpXOR:     "XOR",
	OpSRL:     "SRL",
	OpSRA:     "SRA",
	OpOR:      "OR",
	OpAND:     "AND",
	OpFENCE:   "FENCE",
	OpFENCEI:  "FENCE.I",
}

// String returns the upper-case mnemonic of the operation.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// String renders the instruction in assembly syntax, e.g.
// "ADDI x10, x10, 1" or "LW x5, 8(x2)".
func (inst Instruction) String() string {
	switch inst.Op {
	case OpLUI, OpAUIPC:
		return fmt.Sprintf("%s x%d, 0x%x", inst.Op, inst.Rd, inst.Imm>>12)
	case OpJAL:
		return fmt.Sprintf("%s x%d, %d", inst.Op, inst.Rd, inst.SImm)
	case OpJALR:
		return fmt.Sprintf("%s x%d, %d(x%d)", inst.Op, inst.Rd, inst.SImm, inst.Rs1)
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return fmt.Sprintf("%s x%d, x%d, %d", inst.Op, inst.Rs1, inst.Rs2, inst.SImm)
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return fmt.Sprintf("%s x%d, %d(x%d)", inst.Op, inst.Rd, inst.SImm, inst.Rs1)
	case OpSB, OpSH, OpSW:
		return fmt.Sprintf("%s x%d, %d(x%d)", inst.Op, inst.Rs2, inst.SImm, inst.Rs1)
	case OpADDI, OpSLTI, OpSLTIU, OpXORI, OpORI, OpANDI:
		return fmt.Sprintf("%s x%d, x%d, %d", inst.Op, inst.Rd, inst.Rs1, inst.SImm)
	case OpSLLI, OpSRLI, OpSRAI:
		return fmt.Sprintf("%s x%d, x%d, %d", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
	case OpADD, OpSUB, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpSRA, OpOR, OpAND:
		return fmt.Sprintf("%s x%d, x%d, x%d", inst.Op, inst.Rd, inst.Rs1, inst.Rs2)
	default:
		return inst.Op.String()
	}
}

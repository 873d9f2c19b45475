// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RV32I machine code into structured
// instruction representations. It supports the six base formats:
//   - R: register-register ALU operations (ADD, SUB, SLL, SLT, ...)
//   - I: immediate ALU operations, loads, JALR and FENCE
//   - S: stores (SB, SH, SW)
//   - B: conditional branches (BEQ, BNE, BLT, BGE, BLTU, BGEU)
//   - U: LUI and AUIPC
//   - J: JAL
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00150513) // ADDI x10, x10, 1
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, SImm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.SImm)
package insts

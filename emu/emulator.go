// Package emu provides functional RV32I emulation.
package emu

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/insts"
)

// HookPosInstRetired is the hook position invoked after an instruction
// completes without error. The hook item is an *Event.
var HookPosInstRetired = &sim.HookPos{Name: "InstRetired"}

// Event describes a retired instruction. The emulator reuses one Event
// for every invocation, so hooks must copy it if they keep it.
type Event struct {
	// PC is the address of the instruction.
	PC uint32
	// Word is the raw instruction word.
	Word uint32
	// Inst is the decoded instruction.
	Inst insts.Instruction
	// NextPC is the program counter after execution.
	NextPC uint32
	// Count is the number of instructions retired so far, including this one.
	Count uint64
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// PC is the address the instruction was fetched from.
	PC uint32

	// Word is the fetched instruction word. Zero if the fetch faulted.
	Word uint32

	// Inst is the decoded instruction.
	Inst insts.Instruction

	// Err is set if the instruction could not be executed. The PC is left
	// at the faulting instruction and no other state has changed.
	Err error
}

// Snapshot is a copy of the architectural state.
type Snapshot struct {
	PC               uint32               `json:"pc"`
	Registers        [NumRegisters]uint32 `json:"registers"`
	InstructionCount uint64               `json:"instructions"`
}

// Emulator executes RV32I instructions functionally. It owns its register
// file and memory and is not safe for concurrent use.
type Emulator struct {
	*sim.HookableBase

	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	logger *logrus.Logger

	// Execution state
	instructionCount uint64
	event            Event
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithMemorySize sets the memory size in bytes.
func WithMemorySize(size int) EmulatorOption {
	return func(e *Emulator) {
		e.memory = NewMemory(size)
	}
}

// WithMemory uses an existing memory instead of allocating one.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithLogger sets the logger. Each step is logged at debug level.
func WithLogger(logger *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithEntryPoint sets the initial program counter.
func WithEntryPoint(pc uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.PC = pc
	}
}

// NewEmulator creates a new RV32I emulator with zeroed registers and
// DefaultMemorySize bytes of zeroed memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase: sim.NewHookableBase(),
		regFile:      &RegFile{},
		decoder:      insts.NewDecoder(),
		logger:       logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory(DefaultMemorySize)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// PC returns the program counter.
func (e *Emulator) PC() uint32 {
	return e.regFile.PC
}

// SetPC sets the program counter.
func (e *Emulator) SetPC(pc uint32) {
	e.regFile.PC = pc
}

// InstructionCount returns the number of instructions retired.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram copies program into memory at entry and sets the PC to entry.
func (e *Emulator) LoadProgram(entry uint32, program []byte) error {
	if err := e.memory.LoadProgram(entry, program); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	e.regFile.PC = entry
	return nil
}

// Reset zeroes registers, PC, memory and the instruction count.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{}
	e.memory.Reset()
	e.instructionCount = 0
}

// Snapshot returns a copy of the PC and registers.
func (e *Emulator) Snapshot() Snapshot {
	return Snapshot{
		PC:               e.regFile.PC,
		Registers:        e.regFile.Registers(),
		InstructionCount: e.instructionCount,
	}
}

// Step executes a single instruction: fetch the word at PC, decode it,
// advance PC by 4 and execute. Jumps and taken branches then override PC.
func (e *Emulator) Step() (result StepResult) {
	pc := e.regFile.PC
	result.PC = pc

	defer func() {
		if r := recover(); r != nil {
			regErr, ok := r.(*RegisterIndexError)
			if !ok {
				panic(r)
			}
			e.regFile.PC = pc
			result.Err = fmt.Errorf("internal invariant violated at PC=0x%X: %w", pc, regErr)
		}
	}()

	// 1. Fetch
	word, err := e.memory.Fetch(pc)
	if err != nil {
		result.Err = err
		return result
	}
	result.Word = word

	// 2. Decode
	result.Inst = e.decoder.Decode(word)

	// 3. Default advance
	e.regFile.PC = pc + 4

	// 4. Execute
	if err := e.execute(pc, word, &result.Inst); err != nil {
		e.regFile.PC = pc
		result.Err = err
		return result
	}

	e.instructionCount++

	if e.logger.IsLevelEnabled(logrus.DebugLevel) {
		e.logger.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%08X", pc),
			"word": fmt.Sprintf("0x%08X", word),
			"op":   result.Inst.Op.String(),
		}).Debug("step")
	}

	if e.NumHooks() > 0 {
		e.event = Event{
			PC:     pc,
			Word:   word,
			Inst:   result.Inst,
			NextPC: e.regFile.PC,
			Count:  e.instructionCount,
		}
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosInstRetired,
			Item:   &e.event,
		})
	}

	return result
}

// execute dispatches and executes a decoded instruction. pc is the
// address of the instruction; the register file PC already points past it.
func (e *Emulator) execute(pc, word uint32, inst *insts.Instruction) error {
	switch inst.Op {
	// Upper immediates
	case insts.OpLUI:
		e.alu.LUI(inst.Rd, inst.Imm)
	case insts.OpAUIPC:
		e.alu.AUIPC(inst.Rd, pc, inst.Imm)

	// Jumps
	case insts.OpJAL:
		e.branchUnit.JAL(inst.Rd, pc, inst.SImm)
	case insts.OpJALR:
		e.branchUnit.JALR(inst.Rd, inst.Rs1, pc, inst.SImm)

	// Conditional branches
	case insts.OpBEQ:
		e.branchUnit.Branch(e.branchUnit.BEQ(inst.Rs1, inst.Rs2), pc, inst.SImm)
	case insts.OpBNE:
		e.branchUnit.Branch(e.branchUnit.BNE(inst.Rs1, inst.Rs2), pc, inst.SImm)
	case insts.OpBLT:
		e.branchUnit.Branch(e.branchUnit.BLT(inst.Rs1, inst.Rs2), pc, inst.SImm)
	case insts.OpBGE:
		e.branchUnit.Branch(e.branchUnit.BGE(inst.Rs1, inst.Rs2), pc, inst.SImm)
	case insts.OpBLTU:
		e.branchUnit.Branch(e.branchUnit.BLTU(inst.Rs1, inst.Rs2), pc, inst.SImm)
	case insts.OpBGEU:
		e.branchUnit.Branch(e.branchUnit.BGEU(inst.Rs1, inst.Rs2), pc, inst.SImm)

	// Immediate ALU
	case insts.OpADDI:
		e.alu.ADDI(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpSLTI:
		e.alu.SLTI(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpSLTIU:
		e.alu.SLTIU(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpXORI:
		e.alu.XORI(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpORI:
		e.alu.ORI(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpANDI:
		e.alu.ANDI(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpSLLI:
		e.alu.SLLI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSRLI:
		e.alu.SRLI(inst.Rd, inst.Rs1, inst.Imm)
	case insts.OpSRAI:
		e.alu.SRAI(inst.Rd, inst.Rs1, inst.Imm)

	// Register ALU
	case insts.OpADD:
		e.alu.ADD(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSUB:
		e.alu.SUB(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLL:
		e.alu.SLL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLT:
		e.alu.SLT(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSLTU:
		e.alu.SLTU(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpXOR:
		e.alu.XOR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRL:
		e.alu.SRL(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpSRA:
		e.alu.SRA(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpOR:
		e.alu.OR(inst.Rd, inst.Rs1, inst.Rs2)
	case insts.OpAND:
		e.alu.AND(inst.Rd, inst.Rs1, inst.Rs2)

	// Loads
	case insts.OpLB:
		return e.lsu.LB(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpLH:
		return e.lsu.LH(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpLW:
		return e.lsu.LW(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpLBU:
		return e.lsu.LBU(inst.Rd, inst.Rs1, inst.SImm)
	case insts.OpLHU:
		return e.lsu.LHU(inst.Rd, inst.Rs1, inst.SImm)

	// Stores
	case insts.OpSB:
		return e.lsu.SB(inst.Rs1, inst.Rs2, inst.SImm)
	case insts.OpSH:
		return e.lsu.SH(inst.Rs1, inst.Rs2, inst.SImm)
	case insts.OpSW:
		return e.lsu.SW(inst.Rs1, inst.Rs2, inst.SImm)

	// OpUnknown, OpFENCE and OpFENCEI
	default:
		return &UnimplementedInstructionError{PC: pc, Word: word, Op: inst.Op}
	}

	return nil
}

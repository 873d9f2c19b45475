package benchmarks

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// exercises a different group of instructions and ends by falling off the
// end of its program.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		loopCountdown(),
		fibonacci(),
		arraySum(),
		byteAccess(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a loop,
// memory traffic and calls.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopCountdown(),
		arraySum(),
		functionCalls(),
	}
}

func encR(op insts.Op, rd, rs1, rs2 uint8) uint32       { return insts.MustEncode(op, rd, rs1, rs2, 0) }
func encI(op insts.Op, rd, rs1 uint8, imm int32) uint32 { return insts.MustEncode(op, rd, rs1, 0, imm) }
func encS(op insts.Op, rs1, rs2 uint8, imm int32) uint32 {
	return insts.MustEncode(op, 0, rs1, rs2, imm)
}
func encB(op insts.Op, rs1, rs2 uint8, off int32) uint32 {
	return insts.MustEncode(op, 0, rs1, rs2, off)
}

// 1. Arithmetic Sequential - independent ADDIs across five registers
func arithmeticSequential() Benchmark {
	var prog []uint32
	for n := 0; n < 4; n++ {
		for rd := uint8(1); rd <= 5; rd++ {
			prog = append(prog, encI(insts.OpADDI, rd, rd, 1))
		}
	}

	return Benchmark{
		Name:         "arithmetic_sequential",
		Description:  "20 independent ADDI operations",
		Program:      BuildProgram(prog...),
		ExpectedRegs: map[uint8]uint32{1: 4, 2: 4, 3: 4, 4: 4, 5: 4},
	}
}

// 2. Dependency Chain - each ADDI depends on the previous one
func dependencyChain() Benchmark {
	prog := make([]uint32, 20)
	for n := range prog {
		prog[n] = encI(insts.OpADDI, 10, 10, 1)
	}

	return Benchmark{
		Name:         "dependency_chain",
		Description:  "20 dependent ADDIs (x10 = x10 + 1)",
		Program:      BuildProgram(prog...),
		ExpectedRegs: map[uint8]uint32{10: 20},
	}
}

// 3. Memory Sequential - store then reload words
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "SW/LW round trip through memory",
		Program: BuildProgram(
			encI(insts.OpADDI, 2, 0, 0x100),
			encI(insts.OpADDI, 5, 0, 42),
			encS(insts.OpSW, 2, 5, 0),
			encS(insts.OpSW, 2, 5, 4),
			encI(insts.OpLW, 6, 2, 0),
			encI(insts.OpLW, 7, 2, 4),
			encR(insts.OpADD, 10, 6, 7),
		),
		ExpectedRegs: map[uint8]uint32{10: 84},
	}
}

// 4. Function Calls - JAL into a leaf and JALR back
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "JAL/JALR call and return",
		Program: BuildProgram(
			insts.MustEncode(insts.OpJAL, 1, 0, 0, 12), // 0: call leaf
			encI(insts.OpADDI, 10, 10, 1),              // 4
			insts.MustEncode(insts.OpJAL, 0, 0, 0, 12), // 8: jump to end
			encI(insts.OpADDI, 11, 0, 5),               // 12: leaf
			encI(insts.OpJALR, 0, 1, 0),                // 16: return
		),
		ExpectedRegs: map[uint8]uint32{1: 4, 10: 1, 11: 5},
	}
}

// 5. Loop Countdown - BNE back edge
func loopCountdown() Benchmark {
	return Benchmark{
		Name:        "loop_countdown",
		Description: "count x10 down from 10 with a BNE loop",
		Program: BuildProgram(
			encI(insts.OpADDI, 10, 0, 10),
			encI(insts.OpADDI, 10, 10, -1),
			encB(insts.OpBNE, 10, 0, -4),
		),
		ExpectedRegs: map[uint8]uint32{10: 0},
	}
}

// 6. Fibonacci - iterative fib(10)
func fibonacci() Benchmark {
	return Benchmark{
		Name:        "fibonacci",
		Description: "iterative fib(10) into x10",
		Program: BuildProgram(
			encI(insts.OpADDI, 5, 0, 0),  // a = 0
			encI(insts.OpADDI, 6, 0, 1),  // b = 1
			encI(insts.OpADDI, 7, 0, 10), // n = 10
			encR(insts.OpADD, 28, 5, 6),  // 12: t = a + b
			encI(insts.OpADDI, 5, 6, 0),  // a = b
			encI(insts.OpADDI, 6, 28, 0), // b = t
			encI(insts.OpADDI, 7, 7, -1), // n--
			encB(insts.OpBNE, 7, 0, -16), // 28: loop
			encI(insts.OpADDI, 10, 5, 0), // x10 = a
		),
		ExpectedRegs: map[uint8]uint32{10: 55},
	}
}

// 7. Array Sum - LW walk over an array prepared by Setup
func arraySum() Benchmark {
	return Benchmark{
		Name:        "array_sum",
		Description: "sum four words at 0x200",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			for n := uint32(0); n < 4; n++ {
				_ = memory.Write32(0x200+4*n, n+1)
			}
		},
		Program: BuildProgram(
			encI(insts.OpADDI, 5, 0, 0x200),
			encI(insts.OpADDI, 6, 0, 4),
			encI(insts.OpLW, 7, 5, 0), // 8: loop
			encR(insts.OpADD, 10, 10, 7),
			encI(insts.OpADDI, 5, 5, 4),
			encI(insts.OpADDI, 6, 6, -1),
			encB(insts.OpBNE, 6, 0, -16),
		),
		ExpectedRegs: map[uint8]uint32{10: 10},
	}
}

// 8. Byte Access - signed and unsigned sub-word loads
func byteAccess() Benchmark {
	return Benchmark{
		Name:        "byte_access",
		Description: "SB/SH with LB/LBU/LH/LHU extension",
		Program: BuildProgram(
			encI(insts.OpADDI, 5, 0, -2),
			encS(insts.OpSB, 0, 5, 0x100),
			encS(insts.OpSH, 0, 5, 0x102),
			encI(insts.OpLB, 6, 0, 0x100),
			encI(insts.OpLBU, 7, 0, 0x100),
			encI(insts.OpLH, 8, 0, 0x102),
			encI(insts.OpLHU, 9, 0, 0x102),
			encR(insts.OpSLTU, 10, 0, 7),
		),
		ExpectedRegs: map[uint8]uint32{
			6:  0xFFFFFFFE,
			7:  0xFE,
			8:  0xFFFFFFFE,
			9:  0xFFFE,
			10: 1,
		},
	}
}

// Validate the decode and step paths - measures allocations per instruction
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

const iterations = 100000

var words = []uint32{
	0x00150513, // ADDI x10, x10, 1
	0x00812283, // LW x5, 8(x2)
	0x407302B3, // SUB x5, x6, x7
	0xFEB54EE3, // BLT x10, x11, -4
}

type measurement struct {
	ops     int
	elapsed time.Duration
	mallocs uint64
	bytes   uint64
}

func measure(ops int, fn func()) measurement {
	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	fn()
	elapsed := time.Since(start)

	runtime.ReadMemStats(&m2)

	return measurement{
		ops:     ops,
		elapsed: elapsed,
		mallocs: m2.Mallocs - m1.Mallocs,
		bytes:   m2.TotalAlloc - m1.TotalAlloc,
	}
}

func report(name string, m measurement) bool {
	perOp := float64(m.mallocs) / float64(m.ops)

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Operations:          %d\n", m.ops)
	fmt.Printf("  Time elapsed:        %v\n", m.elapsed)
	fmt.Printf("  Operations/second:   %.0f\n", float64(m.ops)/m.elapsed.Seconds())
	fmt.Printf("  Allocations:         %d\n", m.mallocs)
	fmt.Printf("  Allocated bytes:     %d\n", m.bytes)
	fmt.Printf("  Allocations per op:  %.3f\n", perOp)

	// The GC and runtime may allocate a little on their own.
	if perOp < 0.01 {
		fmt.Printf("  OK\n\n")
		return true
	}
	fmt.Printf("  WARNING: allocation on the hot path\n\n")
	return false
}

func main() {
	decoder := insts.NewDecoder()

	decode := measure(iterations*len(words), func() {
		for n := 0; n < iterations; n++ {
			for _, w := range words {
				_ = decoder.Decode(w)
			}
		}
	})

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	e := emu.NewEmulator(emu.WithMemorySize(4096), emu.WithLogger(logger))
	// ADDI x10, x10, 1; JAL x0, -4
	loop := []byte{0x13, 0x05, 0x15, 0x00, 0x6F, 0xF0, 0xDF, 0xFF}
	if err := e.LoadProgram(0, loop); err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(1)
	}

	step := measure(iterations, func() {
		for n := 0; n < iterations; n++ {
			if res := e.Step(); res.Err != nil {
				fmt.Fprintf(os.Stderr, "step: %v\n", res.Err)
				os.Exit(1)
			}
		}
	})

	fmt.Printf("RV32I Hot Path Validation\n")
	fmt.Printf("=========================\n\n")

	ok := report("Decode", decode)
	ok = report("Step", step) && ok

	if got := e.RegFile().ReadReg(10); got != iterations/2 {
		fmt.Printf("x10 = %d, want %d\n", got, iterations/2)
		ok = false
	}

	if !ok {
		os.Exit(1)
	}
}

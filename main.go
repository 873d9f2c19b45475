// Package main provides the entry point for rv32sim.
// rv32sim is an instruction-level RV32I simulator.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I Instruction Set Simulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <program.hex|program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to YAML configuration file")
	fmt.Println("  -trace       Print each retired instruction")
	fmt.Println("  -regs        Append non-zero registers to trace lines")
	fmt.Println("  -max-cycles  Stop after this many cycles")
	fmt.Println("  -end         Stop when the PC reaches this address")
	fmt.Println("  -delay       Pause between cycles")
	fmt.Println("  -mem         Memory size in bytes")
	fmt.Println("  -coverage    Report executed instruction addresses")
	fmt.Println("  -dump        Print the final state as JSON")
	fmt.Println("  -i           Step interactively")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI and")
	fmt.Println("'go run ./cmd/rv32dis' to disassemble a program.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}

// Package main provides rv32dis, which decodes a program and prints one
// instruction per line.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/loader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rv32dis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	base := fs.Uint("base", 0, "Load address for hex programs")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rv32dis [options] <program.hex|program.elf>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	prog, err := loader.Load(fs.Arg(0), uint32(*base))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	disassemble(stdout, prog)
	return 0
}

func disassemble(w io.Writer, prog *loader.Program) {
	decoder := insts.NewDecoder()

	for _, seg := range prog.Segments {
		if seg.Flags&loader.SegmentFlagExecute == 0 {
			continue
		}

		for off := 0; off+4 <= len(seg.Data); off += 4 {
			word := binary.LittleEndian.Uint32(seg.Data[off:])
			inst := decoder.Decode(word)
			fmt.Fprintf(w, "%08x: %08x  %s\n", seg.VirtAddr+uint32(off), word, inst)
		}
	}
}

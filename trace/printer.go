// Package trace provides hooks that observe retired instructions.
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora/v4"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/emu"
)

// Printer writes one line per retired instruction.
type Printer struct {
	w         io.Writer
	registers bool
	color     bool
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithRegisters appends the non-zero registers to each line.
func WithRegisters(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.registers = enabled
	}
}

// WithColor enables ANSI colors.
func WithColor(enabled bool) PrinterOption {
	return func(p *Printer) {
		p.color = enabled
	}
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{w: w}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Func implements sim.Hook.
func (p *Printer) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosInstRetired {
		return
	}

	evt := ctx.Item.(*emu.Event)

	addr := fmt.Sprintf("0x%08X", evt.PC)
	text := evt.Inst.String()
	if p.color {
		addr = aurora.Colorize(addr, aurora.CyanFg).String()
		text = aurora.Colorize(text, aurora.YellowFg|aurora.BrightFg).String()
	}

	line := fmt.Sprintf("%8d  %s: %08X  %s", evt.Count, addr, evt.Word, text)

	if p.registers {
		if e, ok := ctx.Domain.(*emu.Emulator); ok {
			line += "  " + FormatRegisters(e.RegFile(), true)
		}
	}

	_, _ = fmt.Fprintln(p.w, line)
}

// FormatRegisters renders registers as "x1=0x00000004 x2=...". With
// nonZeroOnly set, zero registers are skipped.
func FormatRegisters(regFile *emu.RegFile, nonZeroOnly bool) string {
	var sb strings.Builder
	regs := regFile.Registers()
	for i, v := range regs {
		if nonZeroOnly && v == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "x%d=0x%08X", i, v)
	}
	return sb.String()
}

// DumpRegisters writes all registers four per row, followed by the PC.
func DumpRegisters(w io.Writer, regFile *emu.RegFile) {
	regs := regFile.Registers()
	for i := 0; i < len(regs); i += 4 {
		_, _ = fmt.Fprintf(w, "x%-2d 0x%08X  x%-2d 0x%08X  x%-2d 0x%08X  x%-2d 0x%08X\n",
			i, regs[i], i+1, regs[i+1], i+2, regs[i+2], i+3, regs[i+3])
	}
	_, _ = fmt.Fprintf(w, "pc  0x%08X\n", regFile.PC)
}

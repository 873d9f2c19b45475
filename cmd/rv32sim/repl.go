package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/sarchlab/rv32sim/driver"
	"github.com/sarchlab/rv32sim/trace"
)

const replHelpMessage = `Commands:

step [n]          Execute n instructions (default 1)
continue          Run until a stop condition
regs              Print all registers
mem <addr> [n]    Print n words of memory starting at addr (default 4)
break [addr]      Set a breakpoint, or list breakpoints
delete <addr>     Remove a breakpoint
pc                Print the program counter
help              Print this help message
quit              Exit

Press ^D to exit`

var replCommands = []prompt.Suggest{
	{Text: "step", Description: "Execute n instructions"},
	{Text: "continue", Description: "Run until a stop condition"},
	{Text: "regs", Description: "Print all registers"},
	{Text: "mem", Description: "Print memory words"},
	{Text: "break", Description: "Set or list breakpoints"},
	{Text: "delete", Description: "Remove a breakpoint"},
	{Text: "pc", Description: "Print the program counter"},
	{Text: "help", Description: "Print help"},
	{Text: "quit", Description: "Exit"},
}

// session executes interactive commands against a runner.
type session struct {
	ctx    context.Context
	runner *driver.Runner
	out    io.Writer
	color  bool
	quit   bool
}

func newSession(ctx context.Context, runner *driver.Runner, out io.Writer, color bool) *session {
	return &session{ctx: ctx, runner: runner, out: out, color: color}
}

func (s *session) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func (s *session) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintln(s.out, colorizeError(s.color, fmt.Sprintf(format, args...)))
}

func (s *session) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "step", "s":
		s.step(args)
	case "continue", "c":
		s.cont()
	case "regs", "r":
		trace.DumpRegisters(s.out, s.runner.Emulator().RegFile())
	case "mem", "m":
		s.mem(args)
	case "break", "b":
		s.setBreak(args)
	case "delete", "d":
		s.deleteBreak(args)
	case "pc":
		s.printf("pc 0x%08X\n", s.runner.Emulator().PC())
	case "help", "h":
		s.printf("%s\n", replHelpMessage)
	case "quit", "exit", "q":
		s.quit = true
	default:
		s.errorf("Unknown command %q. Type 'help' for assistance.", cmd)
	}
}

func (s *session) step(args []string) {
	n := uint64(1)
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil || v == 0 {
			s.errorf("invalid step count %q", args[0])
			return
		}
		n = v
	}

	e := s.runner.Emulator()
	for i := uint64(0); i < n; i++ {
		result := e.Step()
		if result.Err != nil {
			s.errorf("Fault: %v", result.Err)
			return
		}
		s.printf("0x%08X: %08X  %s\n", result.PC, result.Word,
			colorizeInfo(s.color, result.Inst.String()))
	}
}

func (s *session) cont() {
	result := s.runner.Run(s.ctx)
	if result.Reason == driver.StopFault {
		s.errorf("Fault: %v", result.Err)
	}
	s.printf("Stopped: %s after %d cycles at PC=0x%08X\n",
		result.Reason, result.Cycles, result.PC)
}

func (s *session) mem(args []string) {
	if len(args) == 0 {
		s.errorf("usage: mem <addr> [n]")
		return
	}

	addr, err := parseAddress(args[0])
	if err != nil {
		s.errorf("%v", err)
		return
	}

	n := 4
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			s.errorf("invalid word count %q", args[1])
			return
		}
		n = v
	}

	memory := s.runner.Emulator().Memory()
	for i := 0; i < n; i++ {
		a := addr + uint32(4*i)
		word, err := memory.Read32(a)
		if err != nil {
			s.errorf("%v", err)
			return
		}
		s.printf("0x%08X: %08X\n", a, word)
	}
}

func (s *session) setBreak(args []string) {
	if len(args) == 0 {
		for _, pc := range s.runner.Breakpoints() {
			s.printf("0x%08X\n", pc)
		}
		return
	}

	addr, err := parseAddress(args[0])
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if err := s.runner.AddBreakpoint(addr); err != nil {
		s.errorf("%v", err)
		return
	}
	s.printf("Breakpoint at 0x%08X\n", addr)
}

func (s *session) deleteBreak(args []string) {
	if len(args) == 0 {
		s.errorf("usage: delete <addr>")
		return
	}

	addr, err := parseAddress(args[0])
	if err != nil {
		s.errorf("%v", err)
		return
	}
	s.runner.RemoveBreakpoint(addr)
}

func (s *session) complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(replCommands, d.GetWordBeforeCursor(), true)
}

func (s *session) livePrefix() (string, bool) {
	return fmt.Sprintf("0x%08X> ", s.runner.Emulator().PC()), true
}

func runREPL(s *session) {
	s.printf("rv32sim interactive mode. Type 'help' for assistance.\n\n")

	prompt.New(
		s.execute,
		s.complete,
		prompt.OptionLivePrefix(s.livePrefix),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool {
			return s.quit
		}),
	).Run()
}

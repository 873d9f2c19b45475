// Package main provides the entry point for rv32sim.
// rv32sim is an instruction-level RV32I simulator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"

	"github.com/sarchlab/rv32sim/config"
	"github.com/sarchlab/rv32sim/driver"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/trace"
)

// Exit codes.
const (
	exitOK    = 0
	exitSetup = 1
	exitFault = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	configPath  string
	verbose     bool
	trace       bool
	regs        bool
	color       bool
	maxCycles   uint64
	end         string
	delay       string
	mem         int
	coverage    bool
	dump        bool
	interactive bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet("rv32sim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configPath, "config", "", "Path to YAML configuration file")
	fs.BoolVar(&f.verbose, "v", false, "Verbose output")
	fs.BoolVar(&f.trace, "trace", false, "Print each retired instruction")
	fs.BoolVar(&f.regs, "regs", false, "Append non-zero registers to trace lines")
	fs.BoolVar(&f.color, "color", false, "Colorize output (default: on when stdout is a terminal and no config file is given)")
	fs.Uint64Var(&f.maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = unbounded)")
	fs.StringVar(&f.end, "end", "", "Stop when the PC reaches this address (default: end of program)")
	fs.StringVar(&f.delay, "delay", "", "Pause between cycles, e.g. 100ms")
	fs.IntVar(&f.mem, "mem", 0, "Memory size in bytes")
	fs.BoolVar(&f.coverage, "coverage", false, "Report executed instruction addresses")
	fs.BoolVar(&f.dump, "dump", false, "Print the final state as JSON")
	fs.BoolVar(&f.interactive, "i", false, "Step interactively")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rv32sim [options] <program.hex|program.elf>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("missing program path")
	}

	return f, fs, nil
}

// buildConfig loads the config file, if any, and applies the flags that
// were set explicitly on the command line. Without a config file, color
// follows whether stdout is a terminal.
func buildConfig(f *flags, fs *flag.FlagSet, tty bool) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Trace.Color = tty
	if f.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "trace":
			cfg.Trace.Enabled = f.trace
		case "regs":
			cfg.Trace.Registers = f.regs
		case "color":
			cfg.Trace.Color = f.color
		case "max-cycles":
			cfg.MaxCycles = f.maxCycles
		case "end":
			var addr uint32
			addr, err = parseAddress(f.end)
			cfg.EndAddress = addr
		case "delay":
			cfg.Delay = f.delay
		case "mem":
			cfg.MemorySize = f.mem
		case "v":
			if f.verbose {
				cfg.LogLevel = logrus.DebugLevel.String()
			}
		}
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(stderr)
	level, _ := cfg.Level()
	logger.SetLevel(level)
	return logger
}

func run(args []string, stdout, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		return exitSetup
	}

	cfg, err := buildConfig(f, fs, isTerminal(stdout))
	if err != nil {
		fmt.Fprintln(stderr, colorizeError(false, fmt.Sprintf("Error: %v", err)))
		return exitSetup
	}

	color := cfg.Trace.Color

	logger := newLogger(cfg, stderr)
	programPath := fs.Arg(0)

	// Load the program
	prog, err := loader.Load(programPath, cfg.LoadAddress)
	if err != nil {
		fmt.Fprintln(stderr, colorizeError(color, fmt.Sprintf("Error loading program: %v", err)))
		return exitSetup
	}

	emulator := emu.NewEmulator(
		emu.WithMemorySize(cfg.MemorySize),
		emu.WithLogger(logger),
	)
	if err := prog.LoadInto(emulator.Memory()); err != nil {
		fmt.Fprintln(stderr, colorizeError(color, fmt.Sprintf("Error loading program: %v", err)))
		return exitSetup
	}

	entry := prog.EntryPoint
	if cfg.EntryPoint != 0 {
		entry = cfg.EntryPoint
	}
	emulator.SetPC(entry)

	end := cfg.EndAddress
	if end == 0 {
		end = prog.End()
	}

	logger.WithFields(logrus.Fields{
		"program":  programPath,
		"entry":    fmt.Sprintf("0x%08X", entry),
		"end":      fmt.Sprintf("0x%08X", end),
		"segments": len(prog.Segments),
	}).Debug("program loaded")

	if cfg.Trace.Enabled {
		emulator.AcceptHook(trace.NewPrinter(stdout,
			trace.WithRegisters(cfg.Trace.Registers),
			trace.WithColor(cfg.Trace.Color),
		))
	}

	var coverage *trace.Coverage
	if f.coverage {
		coverage = trace.NewCoverage(cfg.MemorySize)
		emulator.AcceptHook(coverage)
	}

	delay, _ := cfg.DelayDuration()
	runnerOpts := []driver.RunnerOption{
		driver.WithLogger(logger),
		driver.WithDelay(delay),
		driver.WithMaxCycles(cfg.MaxCycles),
	}
	if end > entry {
		runnerOpts = append(runnerOpts, driver.WithEndAddress(end))
	}
	runner := driver.NewRunner(emulator, runnerOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if f.interactive {
		runREPL(newSession(ctx, runner, stdout, color))
		return exitOK
	}

	result := runner.Run(ctx)
	printResult(stdout, stderr, color, result)

	if coverage != nil {
		fmt.Fprintf(stdout, "Coverage: %d addresses, %.1f%% of [0x%X, 0x%X)\n",
			coverage.Count(), 100*coverage.Ratio(entry, end), entry, end)
	}

	if f.dump {
		if err := dumpState(stdout, color, emulator, result); err != nil {
			fmt.Fprintln(stderr, colorizeError(color, fmt.Sprintf("Error: %v", err)))
			return exitSetup
		}
	}

	if result.Reason == driver.StopFault {
		return exitFault
	}
	return exitOK
}

func printResult(stdout, stderr io.Writer, color bool, result driver.Result) {
	if result.Err != nil && result.Reason == driver.StopFault {
		fmt.Fprintln(stderr, colorizeError(color, fmt.Sprintf("Fault: %v", result.Err)))
	}

	fmt.Fprintf(stdout, "Stopped: %s after %d cycles at PC=0x%08X\n",
		result.Reason, result.Cycles, result.PC)
}

type stateDump struct {
	Reason string       `json:"reason"`
	Cycles uint64       `json:"cycles"`
	Error  string       `json:"error,omitempty"`
	State  emu.Snapshot `json:"state"`
}

func dumpState(w io.Writer, color bool, e *emu.Emulator, result driver.Result) error {
	d := stateDump{
		Reason: result.Reason.String(),
		Cycles: result.Cycles,
		State:  e.Snapshot(),
	}
	if result.Err != nil {
		d.Error = result.Err.Error()
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	data = pretty.Pretty(data)
	if color {
		data = pretty.Color(data, nil)
	}

	_, err = w.Write(data)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// parseAddress accepts decimal, 0x-prefixed hex and 0o/0b forms.
func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}

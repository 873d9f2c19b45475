// Package benchmarks runs small RV32I programs through the emulator and
// checks their final register state.
package benchmarks

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/driver"
	"github.com/sarchlab/rv32sim/emu"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// StopReason tells why the run ended
	StopReason string `json:"stop_reason"`

	// Passed is true if the run reached the end address and every
	// expected register matched
	Passed bool `json:"passed"`

	// Mismatches lists the registers that did not match
	Mismatches []string `json:"mismatches,omitempty"`

	// Error holds the fault message, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Setup prepares the emulator state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the RV32I machine code, loaded at address 0
	Program []byte

	// ExpectedRegs maps register indices to their expected final values
	ExpectedRegs map[uint8]uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// MemorySize is the emulator memory size in bytes
	MemorySize int

	// MaxCycles bounds each run so a broken program cannot spin forever
	MaxCycles uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose logs each run
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MemorySize: emu.DefaultMemorySize,
		MaxCycles:  1_000_000,
		Output:     os.Stdout,
		Verbose:    false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
	logger     *logrus.Logger
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(config.Output)
	logger.SetLevel(logrus.WarnLevel)
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
		logger:     logger,
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll(ctx context.Context) []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(ctx, bench))
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(ctx context.Context, bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	e := emu.NewEmulator(
		emu.WithMemorySize(h.config.MemorySize),
		emu.WithLogger(h.logger),
	)

	if err := e.LoadProgram(0, bench.Program); err != nil {
		result.StopReason = driver.StopFault.String()
		result.Error = err.Error()
		return result
	}

	// Run setup if provided
	if bench.Setup != nil {
		bench.Setup(e.RegFile(), e.Memory())
	}

	runner := driver.NewRunner(e,
		driver.WithEndAddress(uint32(len(bench.Program))),
		driver.WithMaxCycles(h.config.MaxCycles),
		driver.WithLogger(h.logger),
	)

	// Run simulation and measure time
	start := time.Now()
	run := runner.Run(ctx)
	result.WallTime = time.Since(start)

	result.InstructionsRetired = run.Cycles
	result.StopReason = run.Reason.String()
	if run.Err != nil {
		result.Error = run.Err.Error()
	}

	regs := make([]int, 0, len(bench.ExpectedRegs))
	for reg := range bench.ExpectedRegs {
		regs = append(regs, int(reg))
	}
	sort.Ints(regs)

	for _, reg := range regs {
		want := bench.ExpectedRegs[uint8(reg)]
		if got := e.RegFile().ReadReg(uint8(reg)); got != want {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("x%d: got 0x%08X, want 0x%08X", reg, got, want))
		}
	}

	result.Passed = run.Reason == driver.StopEndAddress && len(result.Mismatches) == 0

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== rv32sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}

		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  Stop Reason:          %s\n", r.StopReason)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error:                %s\n", r.Error)
		}
		for _, m := range r.Mismatches {
			_, _ = fmt.Fprintf(h.config.Output, "  Mismatch: %s\n", m)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,instructions,stop_reason,passed,wall_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%s,%t,%d\n",
			r.Name,
			r.InstructionsRetired,
			r.StopReason,
			r.Passed,
			r.WallTime.Nanoseconds(),
		)
	}
}

// PrintJSON outputs benchmark results as indented JSON.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize results: %w", err)
	}

	_, err = fmt.Fprintln(h.config.Output, string(data))
	return err
}

// BuildProgram assembles instruction words into a byte slice.
func BuildProgram(instrs ...uint32) []byte {
	program := make([]byte, 0, len(instrs)*4)
	for _, inst := range instrs {
		program = binary.LittleEndian.AppendUint32(program, inst)
	}
	return program
}

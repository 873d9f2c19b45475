// Package driver runs an emulator until a stop condition is met.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/emu"
)

// StopReason tells why a run ended.
type StopReason int

// Stop reasons.
const (
	// StopFault means an instruction could not be executed.
	StopFault StopReason = iota
	// StopMaxCycles means the cycle bound was reached.
	StopMaxCycles
	// StopEndAddress means the PC reached or passed the end address.
	StopEndAddress
	// StopBreakpoint means the PC reached a breakpoint.
	StopBreakpoint
	// StopCanceled means the context was canceled.
	StopCanceled
)

var stopReasonNames = [...]string{
	StopFault:      "fault",
	StopMaxCycles:  "max-cycles",
	StopEndAddress: "end-address",
	StopBreakpoint: "breakpoint",
	StopCanceled:   "canceled",
}

func (r StopReason) String() string {
	if r < 0 || int(r) >= len(stopReasonNames) {
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
	return stopReasonNames[r]
}

// Result describes how a run ended.
type Result struct {
	Reason StopReason

	// Cycles is the number of instructions executed by this run.
	Cycles uint64

	// PC is the program counter when the run stopped. On a fault it is the
	// address of the faulting instruction.
	PC uint32

	// Err holds the fault for StopFault and the context error for
	// StopCanceled.
	Err error
}

// Runner drives an emulator one cycle at a time.
type Runner struct {
	emulator *emu.Emulator

	maxCycles  uint64
	endAddress uint32
	hasEnd     bool
	delay      time.Duration

	breakpoints *bitset.BitSet

	logger *logrus.Logger
}

// RunnerOption is a functional option for configuring the Runner.
type RunnerOption func(*Runner)

// WithMaxCycles bounds the number of cycles per run. 0 means unbounded.
func WithMaxCycles(n uint64) RunnerOption {
	return func(r *Runner) {
		r.maxCycles = n
	}
}

// WithEndAddress stops the run once the PC is at or past addr.
func WithEndAddress(addr uint32) RunnerOption {
	return func(r *Runner) {
		r.endAddress = addr
		r.hasEnd = true
	}
}

// WithDelay sleeps for d between cycles.
func WithDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.delay = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for the emulator.
func NewRunner(emulator *emu.Emulator, opts ...RunnerOption) *Runner {
	r := &Runner{
		emulator:    emulator,
		breakpoints: bitset.New(uint(emulator.Memory().Size())),
		logger:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Emulator returns the driven emulator.
func (r *Runner) Emulator() *emu.Emulator {
	return r.emulator
}

// AddBreakpoint stops future runs before the instruction at pc executes.
// An address outside memory is rejected since its fetch would fault first.
func (r *Runner) AddBreakpoint(pc uint32) error {
	size := r.emulator.Memory().Size()
	if uint64(pc) >= uint64(size) {
		return fmt.Errorf("breakpoint 0x%X outside memory [0, 0x%X)", pc, size)
	}
	r.breakpoints.Set(uint(pc))
	return nil
}

// RemoveBreakpoint removes the breakpoint at pc, if any.
func (r *Runner) RemoveBreakpoint(pc uint32) {
	r.breakpoints.Clear(uint(pc))
}

// Breakpoints returns the breakpoint addresses in ascending order.
func (r *Runner) Breakpoints() []uint32 {
	out := make([]uint32, 0, r.breakpoints.Count())
	for i, ok := r.breakpoints.NextSet(0); ok; i, ok = r.breakpoints.NextSet(i + 1) {
		out = append(out, uint32(i))
	}
	return out
}

// Run executes cycles until a stop condition holds. The breakpoint at the
// starting PC is ignored so that a stopped run can be resumed.
func (r *Runner) Run(ctx context.Context) Result {
	r.logger.WithFields(logrus.Fields{
		"pc": fmt.Sprintf("0x%08X", r.emulator.PC()),
	}).Debug("run started")

	result := r.run(ctx)

	entry := r.logger.WithFields(logrus.Fields{
		"cycles": result.Cycles,
		"pc":     fmt.Sprintf("0x%08X", result.PC),
		"reason": result.Reason.String(),
	})
	if result.Err != nil {
		entry = entry.WithError(result.Err)
	}
	entry.Debug("run stopped")

	return result
}

func (r *Runner) run(ctx context.Context) Result {
	var cycles uint64

	var timer *time.Timer
	if r.delay > 0 {
		timer = time.NewTimer(r.delay)
		timer.Stop()
		defer timer.Stop()
	}

	stop := func(reason StopReason, err error) Result {
		return Result{
			Reason: reason,
			Cycles: cycles,
			PC:     r.emulator.PC(),
			Err:    err,
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return stop(StopCanceled, err)
		}

		if r.maxCycles > 0 && cycles >= r.maxCycles {
			return stop(StopMaxCycles, nil)
		}

		pc := r.emulator.PC()
		if r.hasEnd && pc >= r.endAddress {
			return stop(StopEndAddress, nil)
		}

		if cycles > 0 && r.breakpoints.Test(uint(pc)) {
			return stop(StopBreakpoint, nil)
		}

		if res := r.emulator.Step(); res.Err != nil {
			return stop(StopFault, res.Err)
		}
		cycles++

		if timer != nil {
			timer.Reset(r.delay)
			select {
			case <-ctx.Done():
				return stop(StopCanceled, ctx.Err())
			case <-timer.C:
			}
		}
	}
}

package trace

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/rv32sim/emu"
)

// Coverage records the address of every retired instruction.
type Coverage struct {
	pcs *bitset.BitSet
}

// NewCoverage creates an empty Coverage sized for memSize bytes. It grows
// if an address beyond memSize is recorded.
func NewCoverage(memSize int) *Coverage {
	return &Coverage{pcs: bitset.New(uint(memSize))}
}

// Func implements sim.Hook.
func (c *Coverage) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosInstRetired {
		return
	}

	c.pcs.Set(uint(ctx.Item.(*emu.Event).PC))
}

// Covered reports whether an instruction at pc has retired.
func (c *Coverage) Covered(pc uint32) bool {
	return c.pcs.Test(uint(pc))
}

// Count returns the number of distinct addresses executed.
func (c *Coverage) Count() uint {
	return c.pcs.Count()
}

// Addresses returns the executed addresses in ascending order.
func (c *Coverage) Addresses() []uint32 {
	out := make([]uint32, 0, c.pcs.Count())
	for i, ok := c.pcs.NextSet(0); ok; i, ok = c.pcs.NextSet(i + 1) {
		out = append(out, uint32(i))
	}
	return out
}

// Ratio returns the fraction of word-aligned addresses in [start, end)
// that were executed.
func (c *Coverage) Ratio(start, end uint32) float64 {
	if end <= start {
		return 0
	}

	var total, hit int
	for pc := uint64(start); pc < uint64(end); pc += 4 {
		total++
		if c.Covered(uint32(pc)) {
			hit++
		}
	}
	return float64(hit) / float64(total)
}

// Reset clears all recorded addresses.
func (c *Coverage) Reset() {
	c.pcs.ClearAll()
}

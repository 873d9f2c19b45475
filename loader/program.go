// Package loader reads RV32I programs from hex listings and ELF32
// executables.
package loader

import (
	"fmt"
	"math"

	"github.com/sarchlab/rv32sim/emu"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment is a contiguous block of program memory.
type Segment struct {
	// VirtAddr is the address where this segment should be loaded.
	VirtAddr uint32
	// Data contains the initialized segment contents.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint32
	// Flags contains the segment protection flags. The emulator does not
	// enforce them.
	Flags SegmentFlags
}

// Program is a parsed program ready to be placed in memory.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint32
	// Segments contains all loadable segments.
	Segments []Segment
}

// End returns the address one past the highest loaded byte, saturating at
// 0xFFFFFFFF.
func (p *Program) End() uint32 {
	var end uint64
	for _, seg := range p.Segments {
		if e := uint64(seg.VirtAddr) + uint64(seg.MemSize); e > end {
			end = e
		}
	}
	return uint32(min(end, math.MaxUint32))
}

// LoadInto copies every segment into memory and zero-fills BSS. It fails
// with the memory's access fault if a segment does not fit.
func (p *Program) LoadInto(memory *emu.Memory) error {
	for _, seg := range p.Segments {
		if err := memory.LoadProgram(seg.VirtAddr, seg.Data); err != nil {
			return fmt.Errorf("failed to load segment at 0x%x: %w", seg.VirtAddr, err)
		}

		bss := int(seg.MemSize) - len(seg.Data)
		if bss <= 0 {
			continue
		}
		bssAddr := seg.VirtAddr + uint32(len(seg.Data))
		if err := memory.LoadProgram(bssAddr, make([]byte, bss)); err != nil {
			return fmt.Errorf("failed to clear bss at 0x%x: %w", bssAddr, err)
		}
	}
	return nil
}

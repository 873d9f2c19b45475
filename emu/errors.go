package emu

import (
	"fmt"

	"github.com/sarchlab/rv32sim/insts"
)

// UnimplementedInstructionError reports a fetched word that the emulator
// cannot execute. This covers reserved encodings as well as FENCE and
// FENCE.I, which decode but have no execution semantics here.
type UnimplementedInstructionError struct {
	PC   uint32
	Word uint32
	Op   insts.Op
}

func (e *UnimplementedInstructionError) Error() string {
	return fmt.Sprintf("unimplemented instruction %v (0x%08X) at PC=0x%X", e.Op, e.Word, e.PC)
}

// AccessKind identifies the kind of memory access that faulted.
type AccessKind uint8

// Memory access kinds.
const (
	AccessFetch AccessKind = iota
	AccessLoad
	AccessStore
)

func (k AccessKind) String() string {
	switch k {
	case AccessFetch:
		return "fetch"
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	default:
		return fmt.Sprintf("AccessKind(%d)", uint8(k))
	}
}

// AccessFaultError reports an access that falls outside memory.
type AccessFaultError struct {
	Kind  AccessKind
	Addr  uint32
	Size  int
	Limit int
}

func (e *AccessFaultError) Error() string {
	return fmt.Sprintf("%s of %d bytes at 0x%X outside memory [0, 0x%X)",
		e.Kind, e.Size, e.Addr, e.Limit)
}

// RegisterIndexError reports a register index outside x0-x31. The decoder
// only produces 5-bit indices, so this indicates a bug in the caller.
type RegisterIndexError struct {
	Index uint8
}

func (e *RegisterIndexError) Error() string {
	return fmt.Sprintf("register x%d out of bounds [0, %d)", e.Index, NumRegisters)
}

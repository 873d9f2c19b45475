package emu_test

import (
	"encoding/binary"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

func assemble(words ...uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}

type retiredRecorder struct {
	events []emu.Event
}

func (r *retiredRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosInstRetired {
		return
	}
	r.events = append(r.events, *ctx.Item.(*emu.Event))
}

var _ = Describe("Emulator", func() {
	var e *emu.Emulator

	BeforeEach(func() {
		e = emu.NewEmulator()
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with zeroed state", func() {
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory().Size()).To(Equal(emu.DefaultMemorySize))
			Expect(e.PC()).To(Equal(uint32(0)))
			Expect(e.RegFile().Registers()).To(Equal([emu.NumRegisters]uint32{}))
		})

		It("should apply options", func() {
			e = emu.NewEmulator(emu.WithMemorySize(1024), emu.WithEntryPoint(0x40))

			Expect(e.Memory().Size()).To(Equal(1024))
			Expect(e.PC()).To(Equal(uint32(0x40)))
		})

		It("should share an existing memory", func() {
			memory := emu.NewMemory(64)
			e = emu.NewEmulator(emu.WithMemory(memory))

			Expect(e.Memory()).To(BeIdenticalTo(memory))
		})
	})

	Describe("LoadProgram", func() {
		It("should copy the program and set the PC", func() {
			Expect(e.LoadProgram(0x100, []byte{0xDE, 0xAD, 0xBE, 0xEF})).To(Succeed())

			Expect(e.PC()).To(Equal(uint32(0x100)))
			Expect(e.Memory().Read32(0x100)).To(Equal(uint32(0xEFBEADDE)))
		})

		It("should fail if the program does not fit", func() {
			e = emu.NewEmulator(emu.WithMemorySize(8))

			Expect(e.LoadProgram(4, make([]byte, 8))).NotTo(Succeed())
			Expect(e.PC()).To(Equal(uint32(0)))
		})
	})

	Describe("Step", func() {
		It("should execute a nop", func() {
			Expect(e.LoadProgram(0, assemble(0x00000013))).To(Succeed())

			result := e.Step()

			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.PC).To(Equal(uint32(0)))
			Expect(result.Word).To(Equal(uint32(0x00000013)))
			Expect(result.Inst.Op).To(Equal(insts.OpADDI))
			Expect(e.PC()).To(Equal(uint32(4)))
			Expect(e.RegFile().Registers()).To(Equal([emu.NumRegisters]uint32{}))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should run a counting loop until the branch falls through", func() {
			Expect(e.LoadProgram(0, assemble(
				0x00150513, // ADDI x10, x10, 1
				0xFEB54EE3, // BLT x10, x11, -4
			))).To(Succeed())
			e.RegFile().WriteReg(11, 3)

			for i := 0; i < 6; i++ {
				Expect(e.Step().Err).NotTo(HaveOccurred())
			}

			Expect(e.RegFile().ReadReg(10)).To(Equal(uint32(3)))
			Expect(e.PC()).To(Equal(uint32(8)))
		})

		It("should link and return through JAL and JALR", func() {
			Expect(e.LoadProgram(0, assemble(
				insts.MustEncode(insts.OpJAL, 1, 0, 0, 8),  // 0: JAL x1, 8
				insts.MustEncode(insts.OpADDI, 5, 0, 0, 7), // 4: ADDI x5, x0, 7
				insts.MustEncode(insts.OpADDI, 6, 0, 0, 9), // 8: ADDI x6, x0, 9
				insts.MustEncode(insts.OpJALR, 0, 1, 0, 0), // 12: JALR x0, 0(x1)
			))).To(Succeed())

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.PC()).To(Equal(uint32(8)))
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint32(4)))

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.PC()).To(Equal(uint32(4)))

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.RegFile().ReadReg(5)).To(Equal(uint32(7)))
			Expect(e.RegFile().ReadReg(6)).To(Equal(uint32(9)))
		})

		It("should build addresses with LUI and AUIPC", func() {
			Expect(e.LoadProgram(0x10, assemble(
				insts.MustEncode(insts.OpLUI, 1, 0, 0, 0x12345000),
				insts.MustEncode(insts.OpAUIPC, 2, 0, 0, 0x1000),
			))).To(Succeed())

			Expect(e.Step().Err).NotTo(HaveOccurred())
			Expect(e.Step().Err).NotTo(HaveOccurred())

			Expect(e.RegFile().ReadReg(1)).To(Equal(uint32(0x12345000)))
			Expect(e.RegFile().ReadReg(2)).To(Equal(uint32(0x1014)))
		})

		It("should store and load through memory", func() {
			Expect(e.LoadProgram(0, assemble(
				insts.MustEncode(insts.OpADDI, 2, 0, 0, 0x200),
				insts.MustEncode(insts.OpADDI, 5, 0, 0, -2),
				insts.MustEncode(insts.OpSW, 0, 2, 5, -4),
				insts.MustEncode(insts.OpLBU, 6, 2, 0, -4),
				insts.MustEncode(insts.OpLH, 7, 2, 0, -4),
			))).To(Succeed())

			for i := 0; i < 5; i++ {
				Expect(e.Step().Err).NotTo(HaveOccurred())
			}

			Expect(e.Memory().Read32(0x1FC)).To(Equal(uint32(0xFFFFFFFE)))
			Expect(e.RegFile().ReadReg(6)).To(Equal(uint32(0xFE)))
			Expect(e.RegFile().ReadReg(7)).To(Equal(uint32(0xFFFFFFFE)))
		})

		It("should fail on FENCE without changing state", func() {
			Expect(e.LoadProgram(0, assemble(0x0FF0000F))).To(Succeed())
			e.RegFile().WriteReg(3, 99)
			before := e.Snapshot()

			result := e.Step()

			var unimpl *emu.UnimplementedInstructionError
			Expect(errors.As(result.Err, &unimpl)).To(BeTrue())
			Expect(unimpl.Op).To(Equal(insts.OpFENCE))
			Expect(unimpl.PC).To(Equal(uint32(0)))
			Expect(unimpl.Word).To(Equal(uint32(0x0FF0000F)))
			Expect(e.Snapshot()).To(Equal(before))
			Expect(e.Memory().Read32(0)).To(Equal(uint32(0x0FF0000F)))
		})

		It("should fail on FENCE.I and reserved encodings", func() {
			Expect(e.LoadProgram(0, assemble(0x0000100F, 0xFFFFFFFF))).To(Succeed())

			result := e.Step()
			Expect(result.Err).To(MatchError(ContainSubstring("FENCE.I")))

			e.SetPC(4)
			result = e.Step()
			Expect(result.Inst.Op).To(Equal(insts.OpUnknown))
			Expect(result.Err).To(HaveOccurred())
			Expect(e.PC()).To(Equal(uint32(4)))
		})

		It("should fault on a fetch past the end of memory", func() {
			e = emu.NewEmulator(emu.WithMemorySize(16), emu.WithEntryPoint(16))

			result := e.Step()

			var fault *emu.AccessFaultError
			Expect(errors.As(result.Err, &fault)).To(BeTrue())
			Expect(fault.Kind).To(Equal(emu.AccessFetch))
			Expect(e.PC()).To(Equal(uint32(16)))
			Expect(e.InstructionCount()).To(Equal(uint64(0)))
		})

		It("should fault on a store past the end of memory and restore the PC", func() {
			e = emu.NewEmulator(emu.WithMemorySize(64))
			Expect(e.LoadProgram(0, assemble(
				insts.MustEncode(insts.OpSW, 0, 0, 0, 62),
			))).To(Succeed())

			result := e.Step()

			var fault *emu.AccessFaultError
			Expect(errors.As(result.Err, &fault)).To(BeTrue())
			Expect(fault.Kind).To(Equal(emu.AccessStore))
			Expect(e.PC()).To(Equal(uint32(0)))
		})

		It("should fault on a load past the end of memory", func() {
			e = emu.NewEmulator(emu.WithMemorySize(64))
			Expect(e.LoadProgram(0, assemble(
				insts.MustEncode(insts.OpLW, 1, 0, 0, -4),
			))).To(Succeed())

			result := e.Step()

			var fault *emu.AccessFaultError
			Expect(errors.As(result.Err, &fault)).To(BeTrue())
			Expect(fault.Addr).To(Equal(uint32(0xFFFFFFFC)))
			Expect(e.RegFile().ReadReg(1)).To(Equal(uint32(0)))
		})
	})

	Describe("hooks", func() {
		It("should report each retired instruction", func() {
			recorder := &retiredRecorder{}
			e.AcceptHook(recorder)
			Expect(e.LoadProgram(0, assemble(0x00000013, 0x00150513, 0x0FF0000F))).To(Succeed())

			e.Step()
			e.Step()
			e.Step()

			Expect(recorder.events).To(HaveLen(2))
			Expect(recorder.events[0].PC).To(Equal(uint32(0)))
			Expect(recorder.events[0].NextPC).To(Equal(uint32(4)))
			Expect(recorder.events[1].Inst.Op).To(Equal(insts.OpADDI))
			Expect(recorder.events[1].Count).To(Equal(uint64(2)))
		})
	})

	Describe("logging", func() {
		It("should log steps at debug level", func() {
			logger, hook := test.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)
			e = emu.NewEmulator(emu.WithLogger(logger))
			Expect(e.LoadProgram(0, assemble(0x00150513))).To(Succeed())

			e.Step()

			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("op", "ADDI"))
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("pc", "0x00000000"))
		})
	})

	Describe("Reset", func() {
		It("should zero registers, memory and the count", func() {
			Expect(e.LoadProgram(0x20, assemble(0x00150513))).To(Succeed())
			e.Step()

			e.Reset()

			Expect(e.Snapshot()).To(Equal(emu.Snapshot{}))
			Expect(e.Memory().Read32(0x20)).To(Equal(uint32(0)))
		})
	})
})

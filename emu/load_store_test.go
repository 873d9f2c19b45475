package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		memory = emu.NewMemory(0x100)
		lsu = emu.NewLoadStoreUnit(regFile, memory)

		regFile.WriteReg(1, 0x40)
		Expect(memory.Write32(0x40, 0x8081F0FF)).To(Succeed())
	})

	Describe("loads", func() {
		It("should sign-extend bytes", func() {
			Expect(lsu.LB(2, 1, 0)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should zero-extend bytes", func() {
			Expect(lsu.LBU(2, 1, 0)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFF)))
		})

		It("should sign-extend halfwords", func() {
			Expect(lsu.LH(2, 1, 2)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(0xFFFF8081)))
		})

		It("should zero-extend halfwords", func() {
			Expect(lsu.LHU(2, 1, 2)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(0x8081)))
		})

		It("should load words with a negative offset", func() {
			regFile.WriteReg(1, 0x44)

			Expect(lsu.LW(2, 1, -4)).To(Succeed())
			Expect(regFile.ReadReg(2)).To(Equal(uint32(0x8081F0FF)))
		})

		It("should leave rd unchanged on a fault", func() {
			regFile.WriteReg(2, 7)
			regFile.WriteReg(1, 0xFE)

			err := lsu.LW(2, 1, 0)

			var fault *emu.AccessFaultError
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.Addr).To(Equal(uint32(0xFE)))
			Expect(regFile.ReadReg(2)).To(Equal(uint32(7)))
		})
	})

	Describe("stores", func() {
		BeforeEach(func() {
			regFile.WriteReg(2, 0x11223344)
		})

		It("should store the low byte", func() {
			Expect(lsu.SB(1, 2, 8)).To(Succeed())
			Expect(memory.Read32(0x48)).To(Equal(uint32(0x44)))
		})

		It("should store the low halfword", func() {
			Expect(lsu.SH(1, 2, 8)).To(Succeed())
			Expect(memory.Read32(0x48)).To(Equal(uint32(0x3344)))
		})

		It("should store the word", func() {
			Expect(lsu.SW(1, 2, 8)).To(Succeed())
			Expect(memory.Read32(0x48)).To(Equal(uint32(0x11223344)))
		})

		It("should wrap the effective address", func() {
			regFile.WriteReg(1, 0xFFFFFFFC)

			Expect(lsu.SW(1, 2, 0x10)).To(Succeed())
			Expect(memory.Read32(0x0C)).To(Equal(uint32(0x11223344)))
		})
	})
})

package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("Formatting", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should name every operation", func() {
		for op := insts.OpLUI; op <= insts.OpFENCEI; op++ {
			inst := insts.Instruction{Op: op}
			Expect(inst.String()).To(HavePrefix(op.String()))
			Expect(op.String()).NotTo(Equal("UNKNOWN"))
		}
	})

	It("should name unknown and out-of-range operations", func() {
		Expect(insts.OpUnknown.String()).To(Equal("UNKNOWN"))
		Expect(insts.Op(200).String()).To(Equal("Op(200)"))
		Expect(insts.OpFENCEI.String()).To(Equal("FENCE.I"))
	})

	DescribeTable("should render assembly text",
		func(word uint32, expected string) {
			Expect(decoder.Decode(word).String()).To(Equal(expected))
		},
		Entry("ADDI", uint32(0x00150513), "ADDI x10, x10, 1"),
		Entry("negative ADDI", uint32(0x80000093), "ADDI x1, x0, -2048"),
		Entry("ADD", uint32(0x002081B3), "ADD x3, x1, x2"),
		Entry("SRAI", uint32(0x40315093), "SRAI x1, x2, 3"),
		Entry("LW", uint32(0x00812283), "LW x5, 8(x2)"),
		Entry("SW", uint32(0xFE512E23), "SW x5, -4(x2)"),
		Entry("BLT", uint32(0xFEB54EE3), "BLT x10, x11, -4"),
		Entry("LUI", uint32(0x123450B7), "LUI x1, 0x12345"),
		Entry("JAL", uint32(0x010000EF), "JAL x1, 16"),
		Entry("JALR", uint32(0x00008067), "JALR x0, 0(x1)"),
		Entry("FENCE", uint32(0x0FF0000F), "FENCE"),
		Entry("reserved", uint32(0xFFFFFFFF), "UNKNOWN"),
	)
})

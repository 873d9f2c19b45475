package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const loopProgram = `# x11 = 3; count x10 up to x11
00300593  // ADDI x11, x0, 3
00150513  // ADDI x10, x10, 1
FEB54EE3  // BLT x10, x11, -4
`

var _ = Describe("rv32sim", func() {
	var (
		dir            string
		configPath     string
		stdout, stderr *bytes.Buffer
	)

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	runWith := func(args ...string) int {
		return run(append([]string{"-config", configPath}, args...), stdout, stderr)
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		configPath = writeFile("sim.yaml", "trace:\n  color: false\nlog_level: error\n")
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	It("should print usage without a program", func() {
		Expect(run(nil, stdout, stderr)).To(Equal(exitSetup))
		Expect(stderr.String()).To(ContainSubstring("Usage: rv32sim"))
	})

	It("should run to the end of the program", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith(prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("Stopped: end-address after 7 cycles at PC=0x0000000C"))
	})

	It("should exit with a fault code on an unimplemented instruction", func() {
		prog := writeFile("fence.hex", "0FF0000F\n")

		Expect(runWith(prog)).To(Equal(exitFault))
		Expect(stderr.String()).To(ContainSubstring("Fault: unimplemented instruction FENCE"))
		Expect(stdout.String()).To(ContainSubstring("Stopped: fault after 0 cycles at PC=0x00000000"))
	})

	It("should honor the cycle bound", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-max-cycles", "2", prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("Stopped: max-cycles after 2 cycles"))
	})

	It("should honor an explicit end address", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-end", "0x8", prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("Stopped: end-address after 2 cycles at PC=0x00000008"))
	})

	It("should not colorize output that is not a terminal", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(run([]string{"-trace", prog}, stdout, stderr)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("ADDI x11, x0, 3"))
		Expect(stdout.String()).NotTo(ContainSubstring("\x1b["))
	})

	It("should colorize when asked", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-color", "-trace", prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("\x1b["))
	})

	It("should trace retired instructions", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-trace", prog)).To(Equal(exitOK))
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		Expect(lines[0]).To(HaveSuffix("ADDI x11, x0, 3"))
		Expect(lines).To(HaveLen(8))
	})

	It("should report coverage", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-coverage", prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring("Coverage: 3 addresses, 100.0% of [0x0, 0xC)"))
	})

	It("should dump the final state as JSON", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-dump", prog)).To(Equal(exitOK))
		Expect(stdout.String()).To(ContainSubstring(`"reason": "end-address"`))
		Expect(stdout.String()).To(ContainSubstring(`"pc": 12`))
		Expect(stdout.String()).To(ContainSubstring(`"instructions": 7`))
	})

	It("should reject an invalid configuration", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-mem", "3", prog)).To(Equal(exitSetup))
		Expect(stderr.String()).To(ContainSubstring("multiple of 4"))
	})

	It("should reject an invalid end address", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-end", "nowhere", prog)).To(Equal(exitSetup))
		Expect(stderr.String()).To(ContainSubstring("invalid address"))
	})

	It("should report load errors", func() {
		prog := writeFile("bad.hex", "xyz\n")

		Expect(runWith(prog)).To(Equal(exitSetup))
		Expect(stderr.String()).To(ContainSubstring("line 1"))
	})

	It("should fail when the program does not fit in memory", func() {
		prog := writeFile("loop.hex", loopProgram)

		Expect(runWith("-mem", "8", prog)).To(Equal(exitSetup))
		Expect(stderr.String()).To(ContainSubstring("Error loading program"))
	})
})

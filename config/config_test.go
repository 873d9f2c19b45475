package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
	})

	Describe("DefaultConfig", func() {
		It("should return valid defaults", func() {
			c := config.DefaultConfig()

			Expect(c.MemorySize).To(Equal(131072))
			Expect(c.MaxCycles).To(Equal(uint64(0)))
			Expect(c.LogLevel).To(Equal("info"))
			Expect(c.Validate()).To(Succeed())
		})
	})

	Describe("LoadConfig", func() {
		It("should override only the fields present", func() {
			path := filepath.Join(tempDir, "sim.yaml")
			Expect(os.WriteFile(path, []byte(
				"memory_size: 4096\n"+
					"max_cycles: 100\n"+
					"delay: 250ms\n"+
					"trace:\n"+
					"  enabled: true\n"+
					"  registers: true\n"), 0644)).To(Succeed())

			c, err := config.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.MemorySize).To(Equal(4096))
			Expect(c.MaxCycles).To(Equal(uint64(100)))
			Expect(c.Trace.Enabled).To(BeTrue())
			Expect(c.Trace.Registers).To(BeTrue())
			Expect(c.Trace.Color).To(BeFalse())
			Expect(c.LogLevel).To(Equal("info"))
			Expect(c.DelayDuration()).To(Equal(250 * time.Millisecond))
		})

		It("should fail for a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(tempDir, "missing.yaml"))

			Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
		})

		It("should fail for malformed YAML", func() {
			path := filepath.Join(tempDir, "bad.yaml")
			Expect(os.WriteFile(path, []byte("memory_size: [1, 2\n"), 0644)).To(Succeed())

			_, err := config.LoadConfig(path)

			Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
		})
	})

	Describe("SaveConfig", func() {
		It("should round trip through LoadConfig", func() {
			path := filepath.Join(tempDir, "out.yaml")
			c := config.DefaultConfig()
			c.EntryPoint = 0x100
			c.EndAddress = 0x200
			c.LogLevel = "debug"

			Expect(c.SaveConfig(path)).To(Succeed())
			loaded, err := config.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		})

		It("should fail for an unwritable path", func() {
			err := config.DefaultConfig().SaveConfig(filepath.Join(tempDir, "no", "such", "dir.yaml"))

			Expect(err).To(MatchError(ContainSubstring("failed to write config file")))
		})
	})

	Describe("Validate", func() {
		DescribeTable("rejects invalid settings",
			func(mutate func(*config.Config), msg string) {
				c := config.DefaultConfig()
				mutate(c)
				Expect(c.Validate()).To(MatchError(ContainSubstring(msg)))
			},
			Entry("zero memory", func(c *config.Config) { c.MemorySize = 0 }, "memory_size must be > 0"),
			Entry("unaligned memory", func(c *config.Config) { c.MemorySize = 1022 }, "multiple of 4"),
			Entry("entry outside memory", func(c *config.Config) { c.EntryPoint = 0x20000 }, "entry_point"),
			Entry("load address outside memory", func(c *config.Config) { c.LoadAddress = 0xFFFFFFFF }, "load_address"),
			Entry("bad delay", func(c *config.Config) { c.Delay = "soon" }, "invalid delay"),
			Entry("negative delay", func(c *config.Config) { c.Delay = "-1s" }, "delay must be >= 0"),
			Entry("bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "invalid log_level"),
		)

		It("should parse the log level", func() {
			c := config.DefaultConfig()
			c.LogLevel = "warn"

			Expect(c.Level()).To(Equal(logrus.WarnLevel))
		})
	})

	Describe("Clone", func() {
		It("should return an independent copy", func() {
			c := config.DefaultConfig()
			clone := c.Clone()
			clone.Trace.Enabled = true
			clone.MemorySize = 64

			Expect(c.Trace.Enabled).To(BeFalse())
			Expect(c.MemorySize).To(Equal(131072))
		})
	})
})

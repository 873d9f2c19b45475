// Package config holds the simulator configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

// TraceConfig controls the instruction trace printer.
type TraceConfig struct {
	// Enabled prints one line per retired instruction.
	Enabled bool `yaml:"enabled"`

	// Registers appends the non-zero registers to each trace line.
	Registers bool `yaml:"registers"`

	// Color highlights trace lines with ANSI colors.
	Color bool `yaml:"color"`
}

// Config holds the simulator settings.
type Config struct {
	// MemorySize is the size of simulated memory in bytes. Default: 131072.
	MemorySize int `yaml:"memory_size"`

	// EntryPoint overrides the program's entry point when non-zero. Hex
	// programs otherwise start at LoadAddress and ELF programs at the
	// header's entry point.
	EntryPoint uint32 `yaml:"entry_point"`

	// LoadAddress is where hex programs are placed in memory.
	LoadAddress uint32 `yaml:"load_address"`

	// MaxCycles bounds the number of executed instructions. 0 means no bound.
	MaxCycles uint64 `yaml:"max_cycles"`

	// EndAddress stops the run once the PC reaches or passes it.
	// 0 means the end of the loaded program.
	EndAddress uint32 `yaml:"end_address"`

	// Delay is a Go duration string paced between cycles, e.g. "200ms".
	Delay string `yaml:"delay"`

	Trace TraceConfig `yaml:"trace"`

	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `yaml:"log_level"`
}

// DefaultMemorySize matches emu.DefaultMemorySize.
const DefaultMemorySize = 128 * 1024

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		MemorySize: DefaultMemorySize,
		Delay:      "0s",
		LogLevel:   "info",
	}
}

// LoadConfig loads a Config from a YAML file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MemorySize%4 != 0 {
		return fmt.Errorf("memory_size must be a multiple of 4")
	}
	if uint64(c.EntryPoint) >= uint64(c.MemorySize) {
		return fmt.Errorf("entry_point 0x%x is outside memory", c.EntryPoint)
	}
	if uint64(c.LoadAddress) >= uint64(c.MemorySize) {
		return fmt.Errorf("load_address 0x%x is outside memory", c.LoadAddress)
	}
	if _, err := c.DelayDuration(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// DelayDuration parses Delay. An empty string means no delay.
func (c *Config) DelayDuration() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", c.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("delay must be >= 0")
	}
	return d, nil
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadHex parses a hex listing with one 32-bit instruction word per line.
// Words may carry a 0x prefix. Blank lines and text after '#' or '//' are
// ignored. Words are placed little-endian at consecutive addresses starting
// at base, which is also the entry point.
func LoadHex(r io.Reader, base uint32) (*Program, error) {
	var data []byte

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		digits := strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X")
		word, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid instruction word %q", lineNo, line)
		}

		data = binary.LittleEndian.AppendUint32(data, uint32(word))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex program: %w", err)
	}

	prog := &Program{EntryPoint: base}
	if len(data) > 0 {
		prog.Segments = []Segment{{
			VirtAddr: base,
			Data:     data,
			MemSize:  uint32(len(data)),
			Flags:    SegmentFlagRead | SegmentFlagWrite | SegmentFlagExecute,
		}}
	}

	return prog, nil
}

// LoadHexFile opens path and parses it with LoadHex.
func LoadHexFile(path string, base uint32) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hex file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := LoadHex(f, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func stripComment(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Load reads the program at path. Files starting with the ELF magic are
// parsed as ELF executables and base is ignored; anything else is parsed
// as a hex listing placed at base.
func Load(path string, base uint32) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}

	head := make([]byte, len(elfMagic))
	n, _ := io.ReadFull(f, head)
	_ = f.Close()

	if n == len(elfMagic) && bytes.Equal(head, elfMagic) {
		return LoadELF(path)
	}

	return LoadHexFile(path, base)
}

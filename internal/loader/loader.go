// Package loader implements the LC-3 object-file format: a big-endian
// origin word followed by big-endian program words, loaded verbatim into
// memory starting at that origin. No header, checksum, or symbol table.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"lc3/internal/memory"
)

// Load reads an object-file stream from r and places its payload into mem
// at the stream's declared origin. It returns the origin so the caller can
// set PC to it (spec §4.6: "After loading, PC must equal O, or the fixed
// default 0x3000 if the host chooses to override").
//
// A stream shorter than two bytes is a load failure (spec §7 kind 2). A
// trailing odd byte past the last complete word is ignored, per spec §6.
func Load(r io.Reader, mem *memory.Memory) (uint16, error) {
	var origin uint16
	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		return 0, fmt.Errorf("lc3: failed to read image origin: %w", err)
	}

	var words []uint16
	for {
		var word uint16
		if err := binary.Read(r, binary.BigEndian, &word); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return 0, fmt.Errorf("lc3: failed to read image word at %#04x: %w", origin+uint16(len(words)), err)
		}
		words = append(words, word)
	}
	mem.LoadAt(origin, words)
	return origin, nil
}

// LoadFile opens path and loads it via Load. A missing or unreadable file
// is a load failure that must propagate before the machine starts
// (spec §7 kind 2).
func LoadFile(path string, mem *memory.Memory) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("lc3: failed to open image %q: %w", path, err)
	}
	defer f.Close()
	return Load(f, mem)
}

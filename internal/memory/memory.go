// Package memory implements the LC-3's 65,536-word address space,
// including the memory-mapped keyboard status/data registers.
//
// An independent memory exists per Machine (spec REDESIGN note: no
// process-global memory), making the interpreter embeddable for scripted
// tests, same as the teacher's mem.Bus.
package memory

const (
	// KBSR is the keyboard status register. Reading it polls the host.
	KBSR uint16 = 0xFE00
	// KBDR holds the most recently polled character's byte value.
	KBDR uint16 = 0xFE02
)

// KeyboardPoll reports whether a character is available from the host and,
// if so, its byte value. It is invoked as a side effect of reading KBSR.
type KeyboardPoll func() (byte, bool)

// Memory is a flat, word-addressed 65,536-cell store.
type Memory struct {
	cells [1 << 16]uint16
	Poll  KeyboardPoll
}

// New returns a zeroed Memory. poll may be nil, in which case KBSR always
// reports no character available.
func New(poll KeyboardPoll) *Memory {
	return &Memory{Poll: poll}
}

// Read returns the word at addr. Reading KBSR first polls the host: if a
// character is ready, KBSR is latched to 0x8000 and KBDR to the character's
// byte value; otherwise KBSR is zeroed. KBDR reads do not themselves
// consume input -- consumption happens at the KBSR read that reports
// readiness.
func (m *Memory) Read(addr uint16) uint16 {
	if addr == KBSR {
		if m.Poll != nil {
			if c, ok := m.Poll(); ok {
				m.cells[KBSR] = 0x8000
				m.cells[KBDR] = uint16(c)
			} else {
				m.cells[KBSR] = 0
			}
		} else {
			m.cells[KBSR] = 0
		}
	}
	return m.cells[addr]
}

// Write stores value at addr. It has no side effects.
func (m *Memory) Write(addr uint16, value uint16) {
	m.cells[addr] = value
}

// LoadAt copies words into memory starting at origin, used by the image
// loader. It does not itself interpret the origin word of an object file.
func (m *Memory) LoadAt(origin uint16, words []uint16) {
	addr := origin
	for _, w := range words {
		m.cells[addr] = w
		addr++
	}
}

package vm

import "fmt"

// Trap vectors consumed from bits [7:0] of a TRAP instruction (spec §4.5).
const (
	TrapGETC  byte = 0x20
	TrapOUT   byte = 0x21
	TrapPUTS  byte = 0x22
	TrapIN    byte = 0x23
	TrapPUTSP byte = 0x24
	TrapHALT  byte = 0x25
)

// trap -- TRAP: dispatch on the low 8 bits of the instruction to one of
// the six service routines. This implementation does not save PC into R7
// before the call (spec §9's open question, resolved per the observed
// source): control returns implicitly to the instruction after TRAP.
func (m *Machine) trap(instr uint16) error {
	return m.Trap(byte(instr & 0xFF))
}

// Trap invokes the named service routine directly, independent of
// instruction decoding -- used by the debugger and by tests that want to
// exercise a single trap in isolation.
func (m *Machine) Trap(vector byte) error {
	switch vector {
	case TrapGETC:
		return m.trapGetc()
	case TrapOUT:
		return m.trapOut()
	case TrapPUTS:
		return m.trapPuts()
	case TrapIN:
		return m.trapIn()
	case TrapPUTSP:
		return m.trapPutsp()
	case TrapHALT:
		return m.trapHalt()
	default:
		return fmt.Errorf("lc3: fatal: unknown trap vector %#02x", vector)
	}
}

// trapGetc -- GETC: read one character from the host (blocking, no echo)
// into R0. Flags are not updated; R0 is not a flag-setting destination
// here per spec §4.5/§4.4 (TRAP is not in the flag-setting set).
func (m *Machine) trapGetc() error {
	c, err := m.Host.ReadCharBlocking()
	if err != nil {
		c = 0 // spec §7 kind 3: EOF during blocking trap treated as 0
	}
	m.Reg[R0] = uint16(c)
	return nil
}

// trapOut -- OUT: write the low byte of R0 to the host. No newline
// appended.
func (m *Machine) trapOut() error {
	return m.Host.WriteBytes([]byte{byte(m.Reg[R0])})
}

// trapPuts -- PUTS: starting at M[R0], write one character per word (low
// byte only) until a zero word. Nonzero high bytes are not emitted (spec
// §9 open question, resolved per the observed source's asymmetry with
// PUTSP).
func (m *Machine) trapPuts() error {
	addr := m.Reg[R0]
	var out []byte
	for {
		w := m.Mem.Read(addr)
		if w == 0 {
			break
		}
		out = append(out, byte(w&0xFF))
		addr++
	}
	return m.Host.WriteBytes(out)
}

// trapIn -- IN: prompt, read one character with echo, store in R0.
func (m *Machine) trapIn() error {
	if err := m.Host.WriteBytes([]byte("Enter a character: ")); err != nil {
		return err
	}
	c, err := m.Host.ReadCharBlocking()
	if err != nil {
		c = 0
	}
	if err := m.Host.WriteBytes([]byte{c}); err != nil {
		return err
	}
	m.Reg[R0] = uint16(c)
	return nil
}

// trapPutsp -- PUTSP: starting at M[R0], each word packs two characters
// low-byte-first; emit the low byte, then the high byte if nonzero;
// advance until a zero word. Unlike PUTS, a nonzero high byte is emitted
// -- this asymmetry is deliberate (spec §9).
func (m *Machine) trapPutsp() error {
	addr := m.Reg[R0]
	var out []byte
	for {
		w := m.Mem.Read(addr)
		if w == 0 {
			break
		}
		lo := byte(w & 0xFF)
		out = append(out, lo)
		if hi := byte(w >> 8); hi != 0 {
			out = append(out, hi)
		}
		addr++
	}
	return m.Host.WriteBytes(out)
}

// trapHalt -- HALT: print a notice, clear Running. The fetch loop ends
// after this Step returns (spec §4.5, P6).
func (m *Machine) trapHalt() error {
	if err := m.Host.WriteBytes([]byte("\n--- HALT ---\n")); err != nil {
		return err
	}
	m.Running = false
	return nil
}

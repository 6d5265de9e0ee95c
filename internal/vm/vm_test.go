package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lc3/internal/bits"
	"lc3/internal/host"
)

func newTestMachine() *Machine {
	return New(host.Null{})
}

func TestAddImmediatePositive(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0x1023) // ADD R0, R0, #3
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(3), m.Reg[R0])
	assert.Equal(t, uint16(bits.POS), m.Reg[RCOND])
	assert.Equal(t, uint16(0x3001), m.Reg[RPC])
}

func TestAddImmediateSignExtension(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0x127F) // ADD R1, R1, #-1
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0xFFFF), m.Reg[R1])
	assert.Equal(t, uint16(bits.NEG), m.Reg[RCOND])
}

func TestNot(t *testing.T) {
	m := newTestMachine()
	m.Reg[R2] = 0x00FF
	m.Mem.Write(0x3000, 0x94BF) // NOT R2, R2
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0xFF00), m.Reg[R2])
	assert.Equal(t, uint16(bits.NEG), m.Reg[RCOND])
}

func TestLDIChain(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0xA001) // LDI R0, #1
	m.Mem.Write(0x3002, 0x4000)
	m.Mem.Write(0x4000, 0x1234)
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x1234), m.Reg[R0])
	assert.Equal(t, uint16(bits.POS), m.Reg[RCOND])
}

func TestBranchTakenOnZero(t *testing.T) {
	m := newTestMachine()
	m.Reg[RCOND] = uint16(bits.ZRO)
	m.Mem.Write(0x3000, 0x0402) // BRz #2
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x3003), m.Reg[RPC])
}

func TestBranchNotTakenWhenFlagMismatched(t *testing.T) {
	m := newTestMachine()
	m.Reg[RCOND] = uint16(bits.POS)
	m.Mem.Write(0x3000, 0x0402) // BRz #2
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x3001), m.Reg[RPC])
}

func TestLeaSetsFlags(t *testing.T) {
	// LEA R0, #1 at 0x3000 -> R0 = 0x3002 (PC after fetch is 0x3001)
	m := newTestMachine()
	m.Mem.Write(0x3000, 0xE001)
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x3002), m.Reg[R0])
	assert.Equal(t, uint16(bits.POS), m.Reg[RCOND])
}

func TestJsrSavesR7AndJumps(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0x4800) // JSR #0 (long, offset 0 is a no-op jump but R7 still saved)
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x3001), m.Reg[R7])
}

func TestJsrrJumpsToBaseRegister(t *testing.T) {
	m := newTestMachine()
	m.Reg[R3] = 0x5000
	m.Mem.Write(0x3000, 0x40C0) // JSRR R3
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x5000), m.Reg[RPC])
}

func TestStWritesAtPcRelativeAddress(t *testing.T) {
	m := newTestMachine()
	m.Reg[R0] = 0xBEEF
	m.Mem.Write(0x3000, 0x3002) // ST R0, #2 -> M[0x3001+2]
	m.Reg[RPC] = 0x3000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0xBEEF), m.Mem.Read(0x3003))
}

func TestLdReadsAtPcRelativeAddress(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x4000, 0x2003) // LD R0, #3 -> M[0x4001+3]
	m.Mem.Write(0x4004, 0xBEEF)
	m.Reg[RPC] = 0x4000

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0xBEEF), m.Reg[R0])
	assert.Equal(t, uint16(bits.NEG), m.Reg[RCOND])
}

func TestReservedOpcodesAbort(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0x8000) // RTI
	m.Reg[RPC] = 0x3000
	assert.Error(t, m.Step())

	m.Reg[RPC] = 0x3000
	m.Mem.Write(0x3000, 0xD000) // RES
	assert.Error(t, m.Step())
}

func TestKeyboardPollLatchesOnlyOnKBSRRead(t *testing.T) {
	available := true
	var polled int
	m := New(host.Null{})
	m.Mem.Poll = func() (byte, bool) {
		polled++
		return 'x', available
	}

	status := m.Mem.Read(0x3000) // unrelated address: no poll, no latch
	assert.Equal(t, uint16(0), status)
	assert.Equal(t, 0, polled)

	status = m.Mem.Read(0xFE00) // KBSR: polls and latches
	assert.Equal(t, uint16(0x8000), status)
	assert.Equal(t, uint16('x'), m.Mem.Read(0xFE02))
	assert.Equal(t, 1, polled)

	available = false
	status = m.Mem.Read(0xFE00)
	assert.Equal(t, uint16(0), status)
}

func TestRunHaltsCleanly(t *testing.T) {
	m := newTestMachine()
	m.Mem.Write(0x3000, 0x1023) // ADD R0, R0, #3
	m.Mem.Write(0x3001, 0xF025) // TRAP HALT
	m.Running = true

	assert.NoError(t, m.Run())
	assert.False(t, m.Running)
	assert.Equal(t, uint16(3), m.Reg[R0])
}

func TestPutsEmitsLowByteOnly(t *testing.T) {
	m := newTestMachine()
	m.Reg[R0] = 0x4000
	for i, c := range []uint16{'H', 'i', '!', 0} {
		m.Mem.Write(0x4000+uint16(i), c)
	}

	var written []byte
	m.Host = capturingAdapter{write: func(b []byte) { written = append(written, b...) }}
	assert.NoError(t, m.Trap(TrapPUTS))
	assert.Equal(t, "Hi!", string(written))
}

func TestPutspEmitsBothBytesWhenHighNonzero(t *testing.T) {
	m := newTestMachine()
	m.Reg[R0] = 0x4000
	// 'a' then 'b' packed low-first: 0x6261, terminated by 0
	m.Mem.Write(0x4000, 0x6261)
	m.Mem.Write(0x4001, 0)

	var written []byte
	m.Host = capturingAdapter{write: func(b []byte) { written = append(written, b...) }}
	assert.NoError(t, m.Trap(TrapPUTSP))
	assert.Equal(t, "ab", string(written))
}

// capturingAdapter is a minimal host.Adapter for tests that need to
// observe trap output without a real terminal.
type capturingAdapter struct {
	write func([]byte)
}

func (capturingAdapter) TryReadChar() (byte, bool)     { return 0, false }
func (capturingAdapter) ReadCharBlocking() (byte, error) { return 0, nil }
func (c capturingAdapter) WriteBytes(b []byte) error {
	c.write(b)
	return nil
}

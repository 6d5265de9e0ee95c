// Package vm implements the LC-3 register file and the fetch/decode/execute
// cycle. It has no memory or registers of its own at package scope -- each
// Machine owns its state, so the interpreter is embeddable (e.g. for
// scripted tests or the debugger TUI).
package vm

import (
	"fmt"

	"lc3/internal/bits"
	"lc3/internal/host"
	"lc3/internal/memory"
)

// Register indices into Machine.Reg. Only PC and COND carry non-general
// semantics; R0-R7 are freely usable by guest programs.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RPC
	RCOND
	RCount
)

// PCStart is the default program counter, used unless the image loader's
// origin overrides it.
const PCStart uint16 = 0x3000

// Machine is the complete interpreter state: registers, memory, the
// running flag, and the host I/O adapter trap routines and the KBSR poll
// depend on.
type Machine struct {
	Reg     [RCount]uint16
	Mem     *memory.Memory
	Running bool
	Host    host.Adapter
}

// New constructs a Machine with PC at PCStart, COND at ZRO, and memory
// wired to poll h for the KBSR/KBDR side effect described in spec §4.3.
func New(h host.Adapter) *Machine {
	m := &Machine{Host: h}
	m.Mem = memory.New(func() (byte, bool) {
		return m.Host.TryReadChar()
	})
	m.Reg[RPC] = PCStart
	m.Reg[RCOND] = uint16(bits.ZRO)
	return m
}

// UpdateFlags derives and stores the condition flag for the current value
// of register r (spec §4.1). It is invoked by every flag-setting opcode
// immediately after the register write it follows.
func (m *Machine) UpdateFlags(r int) {
	m.Reg[RCOND] = uint16(bits.FlagFor(m.Reg[r]))
}

// Step performs one fetch/decode/execute cycle: read the word at PC,
// post-increment PC, dispatch on the high 4 bits to the opcode table.
func (m *Machine) Step() error {
	instr := m.Mem.Read(m.Reg[RPC])
	m.Reg[RPC]++

	op := instr >> 12
	entry := Opcodes[op]
	if entry.Exec == nil {
		return fmt.Errorf("lc3: unmapped opcode %#x at pc %#04x", op, m.Reg[RPC]-1)
	}
	return entry.Exec(m, instr)
}

// Run drives the fetch/decode/execute loop until Running is cleared (HALT)
// or a fatal illegal-opcode abort occurs, in which case its error is
// returned. A prior call must set Running; the loader does not do this
// implicitly.
func (m *Machine) Run() error {
	for m.Running {
		if err := m.Step(); err != nil {
			m.Running = false
			return err
		}
	}
	return nil
}

// abort reports a fatal illegal-instruction error per spec §7 kind 1.
func abort(name string) error {
	return fmt.Errorf("lc3: fatal: %s is reserved and may not be executed", name)
}

package vm

import "lc3/internal/bits"

// Every handler receives the already-fetched instruction word; PC has
// already been post-incremented by Step, so "PC" below always means the
// address of the instruction following the one being executed -- this is
// load-bearing for LEA, BR, LD, LDI, ST, STI's PC-relative offsets (spec
// §4.2, P3).

// add -- ADD: DR <- SR1 + (imm5 or SR2). Sets flags on DR.
func (m *Machine) add(instr uint16) error {
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	if (instr>>5)&0x1 == 1 {
		imm5 := bits.SignExtend(instr&0x1F, 5)
		m.Reg[dr] = m.Reg[sr1] + imm5
	} else {
		sr2 := instr & 0x7
		m.Reg[dr] = m.Reg[sr1] + m.Reg[sr2]
	}
	m.UpdateFlags(int(dr))
	return nil
}

// and -- AND: DR <- SR1 AND (imm5 or SR2). Sets flags on DR.
func (m *Machine) and(instr uint16) error {
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	if (instr>>5)&0x1 == 1 {
		imm5 := bits.SignExtend(instr&0x1F, 5)
		m.Reg[dr] = m.Reg[sr1] & imm5
	} else {
		sr2 := instr & 0x7
		m.Reg[dr] = m.Reg[sr1] & m.Reg[sr2]
	}
	m.UpdateFlags(int(dr))
	return nil
}

// not -- NOT: DR <- bitwise complement of SR. Sets flags on DR.
func (m *Machine) not(instr uint16) error {
	dr := (instr >> 9) & 0x7
	sr := (instr >> 6) & 0x7
	m.Reg[dr] = ^m.Reg[sr]
	m.UpdateFlags(int(dr))
	return nil
}

// br -- BR: conditional branch on n/z/p against COND.
func (m *Machine) br(instr uint16) error {
	condMask := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	if condMask&m.Reg[RCOND] != 0 {
		m.Reg[RPC] += pcOffset
	}
	return nil
}

// jmp -- JMP/RET: PC <- R[base]. bits[8:6] == 7 is the RET convention.
func (m *Machine) jmp(instr uint16) error {
	base := (instr >> 6) & 0x7
	m.Reg[RPC] = m.Reg[base]
	return nil
}

// jsr -- JSR/JSRR: R7 <- PC, then either PC += pcoffset11 (JSR) or
// PC <- R[base] (JSRR), selected by bit 11.
func (m *Machine) jsr(instr uint16) error {
	m.Reg[R7] = m.Reg[RPC]
	if (instr>>11)&0x1 == 1 {
		pcOffset := bits.SignExtend(instr&0x7FF, 11)
		m.Reg[RPC] += pcOffset
	} else {
		base := (instr >> 6) & 0x7
		m.Reg[RPC] = m.Reg[base]
	}
	return nil
}

// ld -- LD: DR <- M[PC + pcoffset9]. Sets flags on DR.
func (m *Machine) ld(instr uint16) error {
	dr := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	m.Reg[dr] = m.Mem.Read(m.Reg[RPC] + pcOffset)
	m.UpdateFlags(int(dr))
	return nil
}

// ldi -- LDI: DR <- M[M[PC + pcoffset9]]. Sets flags on DR.
func (m *Machine) ldi(instr uint16) error {
	dr := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	ptr := m.Mem.Read(m.Reg[RPC] + pcOffset)
	m.Reg[dr] = m.Mem.Read(ptr)
	m.UpdateFlags(int(dr))
	return nil
}

// ldr -- LDR: DR <- M[R[base] + offset6]. Sets flags on DR.
func (m *Machine) ldr(instr uint16) error {
	dr := (instr >> 9) & 0x7
	base := (instr >> 6) & 0x7
	offset := bits.SignExtend(instr&0x3F, 6)
	m.Reg[dr] = m.Mem.Read(m.Reg[base] + offset)
	m.UpdateFlags(int(dr))
	return nil
}

// lea -- LEA: DR <- PC + pcoffset9. Sets flags on DR (spec §9 resolves
// the "does LEA set flags" open question in the affirmative, matching the
// reference implementation).
func (m *Machine) lea(instr uint16) error {
	dr := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	m.Reg[dr] = m.Reg[RPC] + pcOffset
	m.UpdateFlags(int(dr))
	return nil
}

// st -- ST: M[PC + pcoffset9] <- SR.
func (m *Machine) st(instr uint16) error {
	sr := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	m.Mem.Write(m.Reg[RPC]+pcOffset, m.Reg[sr])
	return nil
}

// sti -- STI: M[M[PC + pcoffset9]] <- SR.
func (m *Machine) sti(instr uint16) error {
	sr := (instr >> 9) & 0x7
	pcOffset := bits.SignExtend(instr&0x1FF, 9)
	ptr := m.Mem.Read(m.Reg[RPC] + pcOffset)
	m.Mem.Write(ptr, m.Reg[sr])
	return nil
}

// str -- STR: M[R[base] + offset6] <- SR.
func (m *Machine) str(instr uint16) error {
	sr := (instr >> 9) & 0x7
	base := (instr >> 6) & 0x7
	offset := bits.SignExtend(instr&0x3F, 6)
	m.Mem.Write(m.Reg[base]+offset, m.Reg[sr])
	return nil
}

// rti -- RTI is reserved in user mode; this interpreter has no
// privileged mode, so it is always a fatal abort (spec §1, §7 kind 1).
func (m *Machine) rti(uint16) error {
	return abort("RTI")
}

// res -- RES is a reserved opcode; always a fatal abort.
func (m *Machine) res(uint16) error {
	return abort("RES")
}

package vm

// An Opcode names one of the sixteen 4-bit LC-3 opcode slots and the
// handler that executes it. Unlike the 6502's sparse 256-byte opcode
// space (mapped with a map[byte]Opcode in the teacher's implementation),
// LC-3's opcode field is a dense 4 bits, so a plain 16-entry array is
// both simpler and exhaustive: every index is either a real instruction
// or a reserved slot that actively aborts.
type Opcode struct {
	Name string
	Exec func(m *Machine, instr uint16) error
}

// Opcodes is indexed by bits [15:12] of the fetched instruction word.
var Opcodes = [16]Opcode{
	0x0: {Name: "BR", Exec: (*Machine).br},
	0x1: {Name: "ADD", Exec: (*Machine).add},
	0x2: {Name: "LD", Exec: (*Machine).ld},
	0x3: {Name: "ST", Exec: (*Machine).st},
	0x4: {Name: "JSR", Exec: (*Machine).jsr},
	0x5: {Name: "AND", Exec: (*Machine).and},
	0x6: {Name: "LDR", Exec: (*Machine).ldr},
	0x7: {Name: "STR", Exec: (*Machine).str},
	0x8: {Name: "RTI", Exec: (*Machine).rti},
	0x9: {Name: "NOT", Exec: (*Machine).not},
	0xA: {Name: "LDI", Exec: (*Machine).ldi},
	0xB: {Name: "STI", Exec: (*Machine).sti},
	0xC: {Name: "JMP", Exec: (*Machine).jmp},
	0xD: {Name: "RES", Exec: (*Machine).res},
	0xE: {Name: "LEA", Exec: (*Machine).lea},
	0xF: {Name: "TRAP", Exec: (*Machine).trap},
}

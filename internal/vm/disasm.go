package vm

import "fmt"

// Disassemble renders a single instruction word as a one-line mnemonic,
// for the debugger's opcode dump. It never mutates machine state and has
// no bearing on execution semantics.
func Disassemble(instr uint16) string {
	op := instr >> 12
	name := Opcodes[op].Name
	if name == "" {
		return fmt.Sprintf("??? (%#04x)", instr)
	}
	return fmt.Sprintf("%s (%#04x)", name, instr)
}

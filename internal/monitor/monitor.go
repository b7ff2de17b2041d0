// Package monitor implements an interactive terminal debugger over the
// control surface: a bubbletea model showing registers, flags, the last
// fault, and a RAM page table, driven one bus cycle or one instruction
// at a time by the keyboard.
package monitor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"cyclenes/internal/console"
	"cyclenes/internal/cpu"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	haltStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// monitorRunBurst bounds a single "r" keypress so the TUI stays
// responsive against a ROM that never halts on its own (no PPU vblank
// to wait on in this core).
const monitorRunBurst = 200000

type model struct {
	con    *console.Console
	offset uint16
}

// New returns a bubbletea program wrapping con, starting the RAM page
// table view at offset.
func New(con *console.Console, offset uint16) *tea.Program {
	return tea.NewProgram(model{con: con, offset: offset})
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "c":
		m.con.StepCycle()
	case "n":
		// arm single-step and run until the next instruction retires
		// (re-asserting halt) or an opcode fault halts the core.
		m.con.Step()
		for m.con.StepCycle() == 0 {
		}
	case "r":
		m.con.RunCycles(monitorRunBurst)
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		val := m.con.Bus.Read(addr)
		if addr == m.con.CPU.PC {
			fmt.Fprintf(&b, "[%02x] ", val)
		} else {
			fmt.Fprintf(&b, " %02x  ", val)
		}
	}
	return b.String()
}

func (m model) pageTable() string {
	header := dimStyle.Render("addr | " + strings.Repeat("  _  ", 16))
	lines := []string{header}
	base := m.offset &^ 0xF
	for p := uint16(0); p < 8; p++ {
		lines = append(lines, m.renderPage(base+p*16))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	c := m.con.CPU
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", c.P&cpu.FlagN != 0},
		{"V", c.P&cpu.FlagV != 0},
		{"U", c.P&cpu.FlagU != 0},
		{"B", c.P&cpu.FlagB != 0},
		{"D", c.P&cpu.FlagD != 0},
		{"I", c.P&cpu.FlagI != 0},
		{"Z", c.P&cpu.FlagZ != 0},
		{"C", c.P&cpu.FlagC != 0},
	}
	var flags strings.Builder
	for _, f := range flagBits {
		if f.set {
			flags.WriteString(f.name + " ")
		} else {
			flags.WriteString(". ")
		}
	}

	haltLine := "running"
	if c.Halted() {
		haltLine = haltStyle.Render("HALTED")
	}
	if f := c.LastFault(); f != nil {
		haltLine += fmt.Sprintf(" (%s)", f.Error())
	}

	return fmt.Sprintf(
		"%s\nPC: $%04X  S: $%02X  cycles: %d\nA: $%02X  X: $%02X  Y: $%02X\n%s\n%s\n\n[space] step cycle  [n] step instruction  [r] run  [q] quit",
		headerStyle.Render("gones monitor"),
		c.PC, c.S, c.CycleCount(),
		c.A, c.X, c.Y,
		flags.String(),
		haltLine,
	)
}

// nextOpcode dumps the decode-table entry for the byte at PC, the way
// hejops-gone's debugger dumps the pending opcode under the cursor.
func (m model) nextOpcode() string {
	opcode := m.con.Bus.Read(m.con.CPU.PC)
	return dimStyle.Render(strings.TrimRight(spew.Sdump(cpu.DescribeOpcode(opcode)), "\n"))
}

func (m model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.pageTable(), "", m.status(), "", m.nextOpcode())
}

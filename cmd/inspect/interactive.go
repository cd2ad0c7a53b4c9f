package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	handleregistry "github.com/wippyai/handle-registry"
	"github.com/wippyai/handle-registry/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxLogLines = 12

type inspectModel struct {
	session *session
	input   textinput.Model
	log     []string
	history []string
	histIdx int
}

func newInspectModel(s *session) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "register 1000 Widget"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &inspectModel{
		session: s,
		input:   ti,
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.history = append(m.history, line)
			m.histIdx = len(m.history)
			m.runCommand(line)
			return m, nil

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else {
				m.histIdx = len(m.history)
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectModel) runCommand(line string) {
	out, err := m.session.eval(line)
	m.appendLog("> " + line)
	if err != nil {
		m.appendLog(errorStyle.Render(err.Error()))
		return
	}
	if out != "" {
		for _, l := range strings.Split(out, "\n") {
			m.appendLog(resultStyle.Render(l))
		}
	}
}

func (m *inspectModel) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Handle Registry Inspector"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • help for commands • esc quit"))

	return b.String()
}

func (m *inspectModel) renderTable() string {
	boxes := m.session.reg.Enumerate(handleregistry.Untyped)
	if len(boxes) == 0 {
		return helpStyle.Render("(no registered handles)") + "\n"
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Handle() < boxes[j].Handle() })

	var b strings.Builder
	fmt.Fprintf(&b, "%d registered:\n", len(boxes))
	for _, bx := range boxes {
		info := m.session.reg.Describe(bx)
		b.WriteString("  ")
		b.WriteString(handleStyle.Render(fmt.Sprintf("%x", uintptr(bx.Handle()))))
		b.WriteString(" ")
		b.WriteString(tagStyle.Render(string(bx.Tag())))
		b.WriteString(" ")
		b.WriteString(info.Registration.String())
		if info.Registration == registry.RegistrationCounted {
			fmt.Fprintf(&b, " refs=%d", info.Refs)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInspectModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

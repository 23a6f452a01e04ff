package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historySize = 6

type interactiveModel struct {
	env     *config.Env
	owned   *wstring.Owned
	input   textinput.Model
	history []entry
}

type entry struct {
	command string
	result  string
	err     error
}

func newInteractiveModel(env *config.Env, initial string) (*interactiveModel, error) {
	o, err := wstring.CreateString(env.Runtime, initial)
	if err != nil {
		return nil, err
	}
	ti := textinput.New()
	ti.Placeholder = "push text | unit 1F600 | reserve n | clear | eq text | reset text"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{env: env, owned: o, input: ti}, nil
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

// execute runs one command line and records it.
func (m *interactiveModel) execute(line string) {
	e := entry{command: line}
	if cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " "); cmd == "reset" {
		o, err := wstring.CreateString(m.env.Runtime, arg)
		if err != nil {
			e.err = err
		} else {
			_ = m.owned.Close()
			m.owned = o
			e.result = fmt.Sprintf("new string of %d units", o.Ref().Len())
		}
	} else {
		e.result, e.err = apply(m.owned.Pin(), line)
	}
	m.history = append(m.history, e)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

// close releases the string. The model renders nothing afterwards.
func (m *interactiveModel) close() {
	if m.owned != nil {
		_ = m.owned.Close()
		m.owned = nil
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.close()
			return m, tea.Quit

		case "enter":
			if m.owned == nil {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(line) == "quit" {
				m.close()
				return m, tea.Quit
			}
			m.execute(line)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	if m.owned == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Wide String Inspector"))
	b.WriteString(" ")
	b.WriteString(string(m.env.Backend))
	b.WriteString("\n\n")

	for _, l := range inspect(m.env, m.owned.Ref()).lines() {
		b.WriteString(labelStyle.Render(l.label))
		b.WriteString(valueStyle.Render(l.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, e := range m.history {
		b.WriteString(helpStyle.Render("> " + e.command))
		b.WriteString("  ")
		if e.err != nil {
			b.WriteString(errorStyle.Render(e.err.Error()))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • quit or esc exit"))
	return b.String()
}

func runInteractive(env *config.Env, initial string) error {
	m, err := newInteractiveModel(env, initial)
	if err != nil {
		return err
	}
	defer m.close()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

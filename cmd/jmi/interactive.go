package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Framatome/jmi/jmitest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type methodEntry struct {
	class  string
	def    *jmitest.MethodDef
	params []string
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	vm       *jmitest.VM
	entries  []methodEntry
	inputs   []textinput.Model
	err      error
	result   string
	stats    string
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
	stats  string
}

func newInteractiveModel(vm *jmitest.VM) *interactiveModel {
	var entries []methodEntry
	for _, name := range vm.ClassNames() {
		for _, def := range vm.Class(name).Methods() {
			if def.Name == "<init>" {
				continue
			}
			params, err := paramDescs(def.Sig)
			if err != nil {
				continue
			}
			entries = append(entries, methodEntry{class: name, def: def, params: params})
		}
	}
	return &interactiveModel{vm: vm, entries: entries, state: stateSelectMethod}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateSelectMethod || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectMethod && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callSelected
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callSelected

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.stats = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.stats = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.stats = msg.stats
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	e := m.entries[m.selected]
	m.inputs = make([]textinput.Model, len(e.params))
	for i, d := range e.params {
		ti := textinput.New()
		ti.Placeholder = javaType(d)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callSelected() tea.Msg {
	e := m.entries[m.selected]
	rawArgs := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		rawArgs[i] = input.Value()
	}

	result, err := invoke(e.class, e.def, rawArgs)
	if err != nil {
		return callResultMsg{err: err}
	}
	stats := fmt.Sprintf("class lookups: %d • method lookups: %d",
		m.vm.FindClassCalls(e.class),
		m.vm.MethodLookups(e.class, e.def.Name, e.def.Sig))
	return callResultMsg{result: result, stats: stats}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("JMI Workbench"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		b.WriteString("Select a method to call:\n\n")
		for i, e := range m.entries {
			line := m.formatEntry(e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", methodStyle.Render(e.class+"."+e.def.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(javaType(e.params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", methodStyle.Render(e.class+"."+e.def.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
			b.WriteString("\n")
			b.WriteString(helpStyle.Render(m.stats))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatEntry(e methodEntry) string {
	class := strings.ReplaceAll(e.class, "/", ".")
	params := make([]string, len(e.params))
	for i, d := range e.params {
		params[i] = typeStyle.Render(javaType(d))
	}
	ret := javaType(e.def.Sig[strings.IndexByte(e.def.Sig, ')')+1:])
	line := classStyle.Render(class) + "." + methodStyle.Render(e.def.Name) +
		"(" + strings.Join(params, ", ") + ") -> " + typeStyle.Render(ret)
	if e.def.Static {
		line = "static " + line
	}
	return line
}

func runInteractive(vm *jmitest.VM) error {
	p := tea.NewProgram(newInteractiveModel(vm), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

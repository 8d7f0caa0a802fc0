// Package tui renders the checklist in the terminal with Bubble Tea and
// forwards key presses to the controller as intents.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/checklist/internal/checklist"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

// EventMsg delivers a controller event into the Bubble Tea loop.
type EventMsg checklist.Event

const loadingStatus = "loading…"

// Cursor positions other than task rows.
const (
	cursorRoot = -1
)

var (
	tintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#2f95dc"))
	selectedStyle    = lipgloss.NewStyle().Bold(true)
	placeholderStyle = lipgloss.NewStyle().Faint(true)
	statusStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#d14"))
)

// Model is the Bubble Tea model. Task rows are indexed from 0; the add
// affordance sits at len(tasks).
type Model struct {
	ctrl    *checklist.Controller
	state   types.State
	cursor  int
	editing bool
	input   textinput.Model
	status  string
	isError bool
}

// New returns a model over ctrl showing its current state.
func New(ctrl *checklist.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = types.SentinelText
	ti.CharLimit = 0
	ti.Width = 40

	return Model{
		ctrl:   ctrl,
		state:  ctrl.State(),
		cursor: cursorRoot,
		input:  ti,
		status: "enter: toggle/edit/add  a: add  d: delete  r: reload  q: quit",
	}
}

// Run starts the program. subscribe receives a function that forwards
// controller events into the program; it is called before the first render.
func Run(ctrl *checklist.Controller, subscribe func(func(checklist.Event))) error {
	program := tea.NewProgram(New(ctrl))
	if subscribe != nil {
		subscribe(func(ev checklist.Event) { program.Send(EventMsg(ev)) })
	}
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(checklist.Event(msg)), nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	}
	return m, nil
}

func (m Model) handleEvent(ev checklist.Event) Model {
	m.state = m.ctrl.State()
	m.cursor = m.clamp(m.cursor)
	switch ev.Kind {
	case checklist.EventHydrated:
		m.setStatus(fmt.Sprintf("loaded %d items", len(m.state.Tasks)), false)
	case checklist.EventLoadFailed:
		m.setStatus(fmt.Sprintf("load failed: %v (r to retry)", ev.Err), true)
	case checklist.EventSaveFailed:
		m.setStatus(fmt.Sprintf("not saved: %v", ev.Err), true)
	}
	return m
}

func (m *Model) setStatus(s string, isError bool) {
	m.status = s
	m.isError = isError
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = m.clamp(m.cursor - 1)
	case "down", "j":
		m.cursor = m.clamp(m.cursor + 1)
	case "enter", " ":
		return m.activate()
	case "a":
		if m.state.Expanded() && !m.holdForLoad() {
			m.apply(m.ctrl.AddTask())
			m.cursor = len(m.state.Tasks) - 1
		}
	case "d", "x":
		if m.onRow() && !m.holdForLoad() {
			st, err := m.ctrl.DeleteTask(m.cursor)
			m.apply(st)
			if err != nil {
				m.setStatus(err.Error(), true)
			}
			m.cursor = m.clamp(m.cursor)
		}
	case "r":
		m.apply(m.ctrl.Reload())
		if m.ctrl.Hydrating() {
			m.setStatus(loadingStatus, false)
		}
	}
	return m, nil
}

// activate handles enter on the current cursor position.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch {
	case m.cursor == cursorRoot:
		m.apply(m.ctrl.ToggleExpansion())
		m.cursor = cursorRoot
		if m.ctrl.Hydrating() {
			m.setStatus(loadingStatus, false)
		}
		return m, nil
	case m.holdForLoad():
		return m, nil
	case m.onRow():
		m.editing = true
		m.input.SetValue(m.state.Tasks[m.cursor].DisplayValue())
		m.input.CursorEnd()
		return m, m.input.Focus()
	default:
		m.apply(m.ctrl.AddTask())
		m.cursor = len(m.state.Tasks) - 1
		return m, nil
	}
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		m.setStatus("edit cancelled", false)
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		st, err := m.ctrl.EditTask(m.cursor, m.input.Value())
		m.apply(st)
		if err != nil {
			m.setStatus(err.Error(), true)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// holdForLoad reports whether a pending load must land before the list may
// change. Mutating earlier would discard the load and overwrite the store.
func (m *Model) holdForLoad() bool {
	if !m.ctrl.Hydrating() {
		return false
	}
	m.setStatus(loadingStatus, false)
	return true
}

func (m *Model) apply(st types.State) {
	m.state = st
}

func (m Model) onRow() bool {
	return m.state.Expanded() && m.cursor >= 0 && m.cursor < len(m.state.Tasks)
}

// clamp bounds a cursor to the positions currently rendered.
func (m Model) clamp(c int) int {
	if !m.state.Expanded() {
		return cursorRoot
	}
	add := len(m.state.Tasks)
	if c < cursorRoot {
		return cursorRoot
	}
	if c > add {
		return add
	}
	return c
}

func (m Model) View() string {
	var b strings.Builder

	dot := tintStyle.Render("●")
	root := "Click here to start " + dot
	if m.cursor == cursorRoot {
		root = selectedStyle.Render("> ") + root
	} else {
		root = "  " + root
	}
	b.WriteString(root + "\n")

	if m.state.Expanded() {
		for _, row := range m.state.Rows() {
			prefix := "    "
			if m.cursor == row.Index {
				prefix = selectedStyle.Render("  > ")
			}
			var text string
			switch {
			case m.editing && m.cursor == row.Index:
				text = m.input.View()
			case row.Value == "":
				text = placeholderStyle.Render(row.Placeholder)
			default:
				text = row.Value
			}
			b.WriteString(prefix + text + " " + dot + "\n")
		}
		prefix := "    "
		if m.cursor == len(m.state.Tasks) {
			prefix = selectedStyle.Render("  > ")
		}
		b.WriteString(prefix + tintStyle.Render("+") + "\n")
	}

	style := statusStyle
	if m.isError {
		style = errorStyle
	}
	b.WriteString("\n" + style.Render(m.status) + "\n")
	return b.String()
}

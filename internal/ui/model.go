// Package ui contains the Bubble Tea program for the dashboard. The model is
// a thin observer: it issues engine commands and re-renders from store
// events; all orchestration lives in internal/engine.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxboard/muxboard/internal/engine"
	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/store"
)

type Mode int

const (
	ModeList Mode = iota
	ModeQuit
)

// StoreEventMsg wraps a store event for the Bubble Tea loop. The app layer
// bridges Store.Subscribe into Program.Send with this type.
type StoreEventMsg struct {
	Event store.Event
}

type actionResultMsg struct {
	info string
	err  error
}

type shutdownMsg struct {
	report engine.ShutdownReport
}

type sessionRow struct {
	id        string
	template  string
	project   string
	attention string
	age       string
}

// Model drives the dashboard: a filterable session list plus the
// quit-confirmation prompt.
type Model struct {
	engine *engine.Engine

	mode        Mode
	rows        []sessionRow
	cursor      int
	filter      textinput.Model
	filtering   bool
	quitCursor  int
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
}

// NewModel initialises the dashboard against an already-connected engine.
func NewModel(eng *engine.Engine, width, height int) *Model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"
	m := &Model{
		engine:      eng,
		filter:      filter,
		width:       width,
		height:      height,
		fixedWidth:  width > 0,
		fixedHeight: height > 0,
	}
	m.reloadRows()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.fixedWidth {
			m.width = msg.Width
		}
		if !m.fixedHeight {
			m.height = msg.Height
		}
		return m, nil
	case StoreEventMsg:
		m.reloadRows()
		return m, nil
	case actionResultMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
			m.infoMsg = msg.info
			m.infoExpire = time.Now().Add(4 * time.Second)
		}
		m.reloadRows()
		return m, nil
	case shutdownMsg:
		if msg.report.Exited {
			return m, tea.Quit
		}
		m.mode = ModeList
		return m, nil
	case tea.KeyMsg:
		if m.mode == ModeQuit {
			return m.updateQuit(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.SetValue("")
			m.filter.Blur()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.clampCursor()
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		events.Quit.Prompt(m.engine.State.SessionCount())
		m.mode = ModeQuit
		m.quitCursor = 0
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visibleRows())-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "enter":
		if row, ok := m.selectedRow(); ok {
			return m, focusCmd(m.engine, row.id)
		}
	case "x":
		if row, ok := m.selectedRow(); ok {
			return m, closeCmd(m.engine, row.id, false)
		}
	case "X":
		if row, ok := m.selectedRow(); ok {
			return m, closeCmd(m.engine, row.id, true)
		}
	case "n":
		if tpls := m.engine.Workspace.Templates; len(tpls) > 0 {
			return m, spawnCmd(m.engine, tpls[0].Name)
		}
		m.errMsg = "no templates in workspace"
	case "o":
		if projects := m.engine.State.Projects(); len(projects) > 0 {
			return m, openProjectCmd(m.engine, projects[0].ID)
		}
		m.errMsg = "no projects in workspace"
	case "r":
		return m, refreshCmd(m.engine)
	}
	return m, nil
}

func (m *Model) updateQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeList
		return m, nil
	case "up", "k":
		if m.quitCursor > 0 {
			m.quitCursor--
		}
	case "down", "j":
		if m.quitCursor < len(quitChoices)-1 {
			m.quitCursor++
		}
	case "enter":
		action := quitChoices[m.quitCursor].action
		if action == engine.QuitCancel {
			m.mode = ModeList
			return m, nil
		}
		return m, shutdownCmd(m.engine, action)
	}
	return m, nil
}

func (m *Model) reloadRows() {
	sessions := m.engine.State.Sessions()
	rows := make([]sessionRow, 0, len(sessions))
	for _, sess := range sessions {
		rows = append(rows, sessionRow{
			id:        sess.ID,
			template:  sess.TemplateID,
			project:   sess.ProjectID,
			attention: sess.Attention.String(),
			age:       formatAge(time.Since(sess.SpawnedAt)),
		})
	}
	m.rows = rows
	m.clampCursor()
}

func (m *Model) selectedRow() (sessionRow, bool) {
	visible := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return sessionRow{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	if max := len(m.visibleRows()) - 1; m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

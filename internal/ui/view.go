package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/muxboard/muxboard/internal/engine"
	"github.com/muxboard/muxboard/internal/format/table"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	workingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type quitChoice struct {
	action engine.QuitAction
	label  string
}

// Order matters: it is the order presented in the quit prompt.
var quitChoices = []quitChoice{
	{engine.QuitCloseManaged, "Close managed sessions and quit"},
	{engine.QuitCloseAll, "Close ALL windows and quit"},
	{engine.QuitLeaveRunning, "Leave sessions running and quit"},
	{engine.QuitCancel, "Cancel"},
}

func (m *Model) View() string {
	if m.mode == ModeQuit {
		return m.viewQuit()
	}
	return m.viewList()
}

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("muxboard"))
	if active := m.engine.State.ActiveProject(); active != "" {
		b.WriteString(dimStyle.Render("  project: " + active))
	}
	b.WriteString("\n\n")

	visible := m.visibleRows()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("no managed sessions — n spawns a template, o opens a project"))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(visible))
		for _, row := range visible {
			rows = append(rows, []string{row.id, row.template, row.project, row.attention, row.age})
		}
		lines := table.FormatWidth(rows, []table.Alignment{
			table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignRight,
		}, m.width)
		for i, line := range lines {
			styled := m.styleRow(visible[i], line)
			if i == m.cursor {
				styled = selectedStyle.Render(line)
			}
			b.WriteString(styled)
			b.WriteString("\n")
		}
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString("\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.infoMsg != "" && time.Now().Before(m.infoExpire) {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(m.infoMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter focus · n spawn · x close · X force · / filter · r refresh · q quit"))
	return b.String()
}

func (m *Model) viewQuit() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Quit muxboard?"))
	b.WriteString("\n\n")
	count := m.engine.State.SessionCount()
	if count > 0 {
		b.WriteString(dimStyle.Render(pluralSessions(count) + " still managed"))
		b.WriteString("\n\n")
	}
	for i, choice := range quitChoices {
		line := "  " + choice.label
		if i == m.quitCursor {
			line = selectedStyle.Render("> " + choice.label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter confirm · esc cancel"))
	return b.String()
}

func (m *Model) styleRow(row sessionRow, line string) string {
	switch row.attention {
	case "waiting":
		return waitingStyle.Render(line)
	case "working":
		return workingStyle.Render(line)
	default:
		return line
	}
}

// visibleRows applies the fuzzy filter over id, template, and project.
func (m *Model) visibleRows() []sessionRow {
	needle := strings.TrimSpace(m.filter.Value())
	if needle == "" {
		return m.rows
	}
	out := make([]sessionRow, 0, len(m.rows))
	for _, row := range m.rows {
		haystack := row.id + " " + row.template + " " + row.project
		if fuzzy.MatchFold(needle, haystack) {
			out = append(out, row)
		}
	}
	return out
}

func pluralSessions(count int) string {
	if count == 1 {
		return "1 session"
	}
	return strconv.Itoa(count) + " sessions"
}

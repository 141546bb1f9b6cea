package engine

import (
	"fmt"

	"github.com/muxboard/muxboard/internal/logging/events"
)

// QuitAction is the user's disposition for in-flight sessions at exit. It is
// the sole input the engine consumes to choose a shutdown path.
type QuitAction int

const (
	QuitCancel QuitAction = iota
	QuitCloseAll
	QuitCloseManaged
	QuitLeaveRunning
)

func (a QuitAction) String() string {
	switch a {
	case QuitCloseAll:
		return "close-all"
	case QuitCloseManaged:
		return "close-managed"
	case QuitLeaveRunning:
		return "leave-running"
	default:
		return "cancel"
	}
}

// ShutdownReport summarizes a shutdown pass. Exited is false only for
// CANCEL; every other action proceeds to disconnect regardless of cleanup
// failures, which are downgraded to Warnings.
type ShutdownReport struct {
	Action   QuitAction
	Closed   int
	Total    int
	Warnings []string
	Exited   bool
}

// Shutdown runs the quit-policy state machine. Terminal on entry: once an
// action other than CANCEL is chosen, shutdown completes unconditionally
// after best-effort cleanup.
func (e *Engine) Shutdown(action QuitAction) ShutdownReport {
	events.Quit.Action(action.String())
	report := ShutdownReport{Action: action}

	switch action {
	case QuitCancel:
		return report

	case QuitLeaveRunning:
		e.Conn.Disconnect()

	case QuitCloseManaged:
		sessions := e.State.Sessions()
		report.Total = len(sessions)
		closed, results := e.Terminator.CloseAllManaged(sessions, e.Spawner, true)
		report.Closed = closed
		if closed < report.Total {
			warn := fmt.Sprintf("%d of %d managed sessions could not be closed", report.Total-closed, report.Total)
			report.Warnings = append(report.Warnings, warn)
			events.Quit.Warning(warn)
			for _, r := range results {
				if !r.Success {
					events.Quit.Warning(fmt.Sprintf("session %s: %s", r.SessionID, r.Error))
				}
			}
		}
		e.Conn.Disconnect()

	case QuitCloseAll:
		// Every tab reachable through the live connection, managed or not.
		if err := e.Topology.Refresh(); err != nil {
			warn := fmt.Sprintf("topology refresh failed: %v", err)
			report.Warnings = append(report.Warnings, warn)
			events.Quit.Warning(warn)
		}
		for _, window := range e.Topology.Windows() {
			for _, tab := range window.Tabs {
				report.Total++
				result := e.Terminator.CloseTab(tab.ID, false)
				if result.Success {
					report.Closed++
					continue
				}
				warn := fmt.Sprintf("tab %s: %s", tab.ID, result.Error)
				report.Warnings = append(report.Warnings, warn)
				events.Quit.Warning(warn)
			}
		}
		e.Conn.Disconnect()
	}

	report.Exited = true
	events.Quit.Done(action.String(), report.Closed, report.Total)
	return report
}

package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxboard/muxboard/internal/engine"
	"github.com/muxboard/muxboard/internal/mux"
)

func focusCmd(eng *engine.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		if err := eng.FocusSession(id); err != nil {
			if errors.Is(err, mux.ErrSessionNotFound) {
				return actionResultMsg{info: fmt.Sprintf("Session %s vanished, removed", id)}
			}
			return actionResultMsg{err: err}
		}
		return actionResultMsg{info: fmt.Sprintf("Focused %s", id)}
	}
}

func closeCmd(eng *engine.Engine, id string, force bool) tea.Cmd {
	return func() tea.Msg {
		result := eng.CloseManagedSession(id, force)
		switch {
		case result.Success && result.ForceRequired:
			return actionResultMsg{info: fmt.Sprintf("Force-closed %s", id)}
		case result.Success:
			return actionResultMsg{info: fmt.Sprintf("Closed %s", id)}
		case result.ForceRequired:
			return actionResultMsg{err: fmt.Errorf("%s has a running process; use X to force-close", id)}
		default:
			return actionResultMsg{err: fmt.Errorf("close %s: %s", id, result.Error)}
		}
	}
}

func spawnCmd(eng *engine.Engine, template string) tea.Cmd {
	return func() tea.Msg {
		result := eng.SpawnTemplate(template)
		if !result.Success {
			return actionResultMsg{err: fmt.Errorf("spawn %s: %s", template, result.Error)}
		}
		return actionResultMsg{info: fmt.Sprintf("Spawned %s (%s)", template, result.SessionID)}
	}
}

func openProjectCmd(eng *engine.Engine, id string) tea.Cmd {
	return func() tea.Msg {
		results, err := eng.OpenProject(id)
		if err != nil {
			return actionResultMsg{err: err}
		}
		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		if failed > 0 {
			return actionResultMsg{err: fmt.Errorf("opened %s with %d of %d spawns failed", id, failed, len(results))}
		}
		return actionResultMsg{info: fmt.Sprintf("Opened %s (%d sessions)", id, len(results))}
	}
}

func refreshCmd(eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		if err := eng.Topology.Refresh(); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{info: "Topology refreshed"}
	}
}

func shutdownCmd(eng *engine.Engine, action engine.QuitAction) tea.Cmd {
	return func() tea.Msg {
		return shutdownMsg{report: eng.Shutdown(action)}
	}
}

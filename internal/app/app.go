package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muxboard/muxboard/internal/engine"
	"github.com/muxboard/muxboard/internal/mux"
	"github.com/muxboard/muxboard/internal/mux/tmuxcc"
	"github.com/muxboard/muxboard/internal/store"
	"github.com/muxboard/muxboard/internal/ui"
	"github.com/muxboard/muxboard/internal/workspace"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath    string
	WorkspacePath string
	Width         int
	Height        int
}

// Run constructs the store, engine, and UI, connects to the multiplexer, and
// executes the Bubble Tea program. Every component receives its dependencies
// explicitly; the only process-wide state is the log file.
func Run(cfg Config) error {
	ws, err := workspace.Load(cfg.WorkspacePath)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}

	state := store.New()
	for _, p := range ws.Projects {
		state.AddProject(&store.Project{
			ID:        p.ID,
			Name:      p.Name,
			Path:      p.Path,
			Templates: append([]string(nil), p.Templates...),
		})
	}

	dial := func() (mux.Client, error) {
		return tmuxcc.Dial(cfg.SocketPath)
	}
	eng := engine.New(cfg.SocketPath, dial, state, ws)
	if err := eng.Connect(); err != nil {
		return err
	}

	model := ui.NewModel(eng, cfg.Width, cfg.Height)
	program := tea.NewProgram(model, tea.WithAltScreen())

	cancel := state.Subscribe(func(e store.Event) {
		program.Send(ui.StoreEventMsg{Event: e})
	})
	defer cancel()

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

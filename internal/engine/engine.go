// Package engine is muxboard's orchestration core: the connection to the
// multiplexer, the topology mirror, session spawning and termination, and
// the quit-policy state machine. The engine is constructed explicitly and
// handed its collaborators; nothing here is a package-level singleton.
package engine

import (
	"errors"
	"fmt"

	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/mux"
	"github.com/muxboard/muxboard/internal/store"
	"github.com/muxboard/muxboard/internal/workspace"
)

// Engine ties the core components together behind one handle the UI can
// drive.
type Engine struct {
	Conn       *Conn
	Runner     *Runner
	Topology   *Topology
	Spawner    *Spawner
	Terminator *Terminator
	State      *store.Store
	Workspace  workspace.Workspace
}

// New wires an engine. The dial func is the only way the engine reaches the
// multiplexer, so tests substitute a capability-interface fake there.
func New(socket string, dial DialFunc, state *store.Store, ws workspace.Workspace) *Engine {
	conn := NewConn(socket, dial)
	runner := NewRunner(conn)
	topo := NewTopology(runner)
	return &Engine{
		Conn:       conn,
		Runner:     runner,
		Topology:   topo,
		Spawner:    NewSpawner(runner, topo, state),
		Terminator: NewTerminator(runner),
		State:      state,
		Workspace:  ws,
	}
}

// Connect establishes the connection and primes the topology mirror. A
// refused connection gets an actionable message.
func (e *Engine) Connect() error {
	if err := e.Conn.Connect(); err != nil {
		if mux.IsRefused(err) {
			return fmt.Errorf("multiplexer refused the connection: %w", err)
		}
		return fmt.Errorf("connect to multiplexer: %w", err)
	}
	return e.Topology.Refresh()
}

// OpenProject activates a project and spawns its initial templates
// sequentially. Individual spawn failures are reported in the results, never
// raised.
func (e *Engine) OpenProject(id string) ([]SpawnResult, error) {
	project, ok := e.State.Project(id)
	if !ok {
		return nil, fmt.Errorf("unknown project %q", id)
	}
	e.State.OpenProject(id)
	tpls := make([]workspace.Template, 0, len(project.Templates))
	for _, name := range project.Templates {
		if tpl, found := e.Workspace.Template(name); found {
			tpls = append(tpls, tpl)
		}
	}
	return e.Spawner.SpawnInitial(tpls, project), nil
}

// SpawnTemplate spawns one template into the active project, if any.
func (e *Engine) SpawnTemplate(name string) SpawnResult {
	tpl, ok := e.Workspace.Template(name)
	if !ok {
		return SpawnResult{Success: false, Error: fmt.Sprintf("unknown template %q", name)}
	}
	var project *store.Project
	if active := e.State.ActiveProject(); active != "" {
		project, _ = e.State.Project(active)
	}
	return e.Spawner.Spawn(tpl, project)
}

// FocusSession activates the session in the attached client. A session that
// vanished externally is detected here, removed from the store, and reported
// as a SessionError.
func (e *Engine) FocusSession(id string) error {
	events.Session.Activate(id)
	err := e.Runner.Do(func(client mux.Client) error {
		return client.ActivateSession(id)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, mux.ErrSessionNotFound) {
		e.dropVanished(id)
		return &SessionError{SessionID: id, Op: "focus", Err: mux.ErrSessionNotFound}
	}
	return &SessionError{SessionID: id, Op: "focus", Err: err}
}

// CloseManagedSession closes one managed session and, on success, untracks
// it and removes it from the store (emitting SessionClosed).
func (e *Engine) CloseManagedSession(id string, force bool) TerminationResult {
	result := e.Terminator.CloseSession(id, force)
	if result.Success {
		e.Spawner.Untrack(id)
		e.State.RemoveSession(id)
	}
	return result
}

func (e *Engine) dropVanished(id string) {
	events.Session.Vanished(id)
	e.Spawner.Untrack(id)
	e.State.RemoveSession(id)
}

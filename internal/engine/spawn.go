package engine

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/mux"
	"github.com/muxboard/muxboard/internal/store"
	"github.com/muxboard/muxboard/internal/workspace"
)

// envNamePattern validates environment variable names before they reach a
// shell. Values are passed through untouched; names are the injection
// surface.
var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SpawnResult reports one spawn attempt. Spawn failures are values, never
// errors, so batch flows continue past individual failures.
type SpawnResult struct {
	SessionID string
	TabID     string
	Success   bool
	Error     string
}

// Spawner creates sessions from templates and registers them as managed.
type Spawner struct {
	runner *Runner
	topo   *Topology
	state  *store.Store

	mu      sync.Mutex
	tracked map[string]trackedSession
}

type trackedSession struct {
	templateID string
	tabID      string
}

func NewSpawner(runner *Runner, topo *Topology, state *store.Store) *Spawner {
	return &Spawner{
		runner:  runner,
		topo:    topo,
		state:   state,
		tracked: make(map[string]trackedSession),
	}
}

// Spawn resolves the template, validates it, creates the session externally,
// and registers it as managed. A failed spawn is never registered.
func (s *Spawner) Spawn(tpl workspace.Template, project *store.Project) SpawnResult {
	requestID := uuid.NewString()
	projectID := ""
	if project != nil {
		projectID = project.ID
	}
	events.Session.Spawn(tpl.Name, projectID, requestID)

	for name := range tpl.Env {
		if !envNamePattern.MatchString(name) {
			return s.fail(tpl, fmt.Sprintf("invalid environment variable name %q", name))
		}
	}

	dir := tpl.Dir
	if dir == "" && project != nil {
		dir = project.Path
	}
	title := tpl.Title
	if title == "" {
		title = tpl.Name
	}

	var created mux.CreateSessionResult
	err := s.runner.Do(func(client mux.Client) error {
		var cerr error
		created, cerr = client.CreateSession(mux.CreateSessionRequest{
			Title:   title,
			Command: tpl.Command,
			Dir:     dir,
			Env:     tpl.Env,
		})
		return cerr
	})
	if err != nil {
		return s.fail(tpl, err.Error())
	}

	s.topo.MarkManaged(created.TabID, created.WindowID)
	s.mu.Lock()
	s.tracked[created.SessionID] = trackedSession{templateID: tpl.Name, tabID: created.TabID}
	s.mu.Unlock()

	sess := &store.ManagedSession{
		ID:           created.SessionID,
		TemplateID:   tpl.Name,
		ProjectID:    projectID,
		TabID:        created.TabID,
		Attention:    store.AttentionIdle,
		SpawnedAt:    time.Now(),
		LastActivity: time.Now(),
		Metadata:     map[string]string{"spawn_request": requestID},
	}
	s.state.AddSession(sess)

	events.Session.Spawned(created.SessionID, created.TabID)
	return SpawnResult{SessionID: created.SessionID, TabID: created.TabID, Success: true}
}

// SpawnInitial spawns a project's templates one at a time, in order. The
// sequencing is deliberate: concurrent creates would let the multiplexer
// order tabs nondeterministically.
func (s *Spawner) SpawnInitial(tpls []workspace.Template, project *store.Project) []SpawnResult {
	results := make([]SpawnResult, 0, len(tpls))
	for _, tpl := range tpls {
		results = append(results, s.Spawn(tpl, project))
	}
	return results
}

// Untrack drops a session from the managed table, typically after the
// terminator closed it.
func (s *Spawner) Untrack(sessionID string) {
	s.mu.Lock()
	delete(s.tracked, sessionID)
	s.mu.Unlock()
}

// Tracked reports whether the spawner still tracks the session id.
func (s *Spawner) Tracked(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tracked[sessionID]
	return ok
}

// TrackedCount returns the size of the managed table.
func (s *Spawner) TrackedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tracked)
}

func (s *Spawner) fail(tpl workspace.Template, reason string) SpawnResult {
	events.Session.SpawnFailed(tpl.Name, reason)
	return SpawnResult{Success: false, Error: reason}
}

// Package mux defines the capability surface muxboard consumes from the
// terminal multiplexer. The engine depends only on the Client interface;
// the single concrete implementation lives in internal/mux/tmuxcc and maps
// tmux sessions/windows/panes onto the dashboard's window/tab/session model.
package mux

// Window is a top-level container reported by the multiplexer.
type Window struct {
	ID   string
	Name string
	Tabs []Tab
}

// Tab groups sessions inside a window.
type Tab struct {
	ID       string
	WindowID string
	Title    string
	Sessions []Session
}

// Session is a single terminal surface running a command.
type Session struct {
	ID      string
	TabID   string
	Title   string
	Command string
	Active  bool
}

// CreateSessionRequest describes a session to spawn. An empty WindowID lets
// the adapter target the multiplexer's current window.
type CreateSessionRequest struct {
	WindowID string
	Title    string
	Command  string
	Dir      string
	Env      map[string]string
}

// CreateSessionResult reports the identifiers the multiplexer assigned.
type CreateSessionResult struct {
	SessionID string
	TabID     string
	WindowID  string
}

// Client is the multiplexer capability interface. Implementations classify
// every error they return (see Error); callers never inspect error text.
type Client interface {
	// ListWindows returns the full window → tab → session topology in the
	// multiplexer's own ordering.
	ListWindows() ([]Window, error)

	// CreateSession spawns a new session in a fresh tab.
	CreateSession(req CreateSessionRequest) (CreateSessionResult, error)

	// CloseSession closes one session. Without force it fails with
	// ErrForceRequired while a foreground process is still running.
	CloseSession(id string, force bool) error

	// CloseTab closes a tab and every session inside it. The force flag
	// behaves as for CloseSession.
	CloseTab(id string, force bool) error

	// ActivateSession focuses the session in the attached client.
	ActivateSession(id string) error

	// SessionByID resolves a live session or returns ErrSessionNotFound.
	SessionByID(id string) (*Session, error)

	// SessionVariable reads a multiplexer variable scoped to the session.
	SessionVariable(id, name string) (string, error)

	// Close tears down the underlying connection. Safe to call twice.
	Close() error
}

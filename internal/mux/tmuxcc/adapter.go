// Package tmuxcc implements mux.Client against a tmux server. Topology reads
// go through the gotmuxcc control-mode client; mutations that control mode
// does not expose (new-window with environment, kill-pane, select-pane) fall
// back to direct tmux invocations on the same socket.
package tmuxcc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strings"
	"syscall"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"

	"github.com/muxboard/muxboard/internal/mux"
)

// gracefulCommands are the foreground commands a session may be running and
// still close without force. Anything else is treated as real work.
var gracefulCommands = map[string]struct{}{
	"bash": {},
	"zsh":  {},
	"fish": {},
	"sh":   {},
	"dash": {},
}

type controlClient interface {
	ListSessionsFormat(format string) ([]string, error)
	ListWindowsFormat(target, filter, format string) ([]string, error)
	ListPanesFormat(target, filter, format string) ([]string, error)
	DisplayMessage(target, format string) (string, error)
	SwitchClient(*gotmux.SwitchClientOptions) error
	Close() error
}

type commander interface {
	Run() error
	Output() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error              { return r.cmd.Run() }
func (r realCommander) Output() ([]byte, error) { return r.cmd.Output() }

var (
	newControlClient = func(socketPath string) (controlClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}

	runTmuxCommand = func(name string, args ...string) commander {
		return realCommander{cmd: exec.Command(name, args...)}
	}
)

// Adapter is the sole concrete mux.Client. One Adapter owns one control-mode
// connection; muxboard never opens a second one.
type Adapter struct {
	socketPath string
	client     controlClient
}

// Dial connects to the tmux server on socketPath (empty uses tmux's default
// socket resolution). A refused connection is reported as such so the caller
// can suggest starting the server.
func Dial(socketPath string) (*Adapter, error) {
	client, err := newControlClient(socketPath)
	if err != nil {
		return nil, classifyDial(err)
	}
	a := &Adapter{socketPath: socketPath, client: client}
	// A dead socket file often accepts the client constructor and only
	// fails on first use, so probe immediately.
	if _, err := client.ListSessionsFormat("#{session_name}"); err != nil {
		_ = client.Close()
		return nil, classifyDial(err)
	}
	return a, nil
}

// Close shuts the control-mode connection down. Idempotent.
func (a *Adapter) Close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// ListWindows walks tmux sessions, windows, and panes and reassembles them
// as the dashboard's window → tab → session tree.
func (a *Adapter) ListWindows() ([]mux.Window, error) {
	sessionLines, err := a.client.ListSessionsFormat("#{session_name}")
	if err != nil {
		return nil, a.classify("list-windows", err)
	}
	windowLines, err := a.client.ListWindowsFormat("", "", "#{window_id}\t#{session_name}\t#{window_name}")
	if err != nil {
		return nil, a.classify("list-windows", err)
	}
	paneLines, err := a.client.ListPanesFormat("", "", "#{pane_id}\t#{window_id}\t#{pane_title}\t#{pane_current_command}\t#{?pane_active,1,0}")
	if err != nil {
		return nil, a.classify("list-windows", err)
	}

	windows := make([]mux.Window, 0, len(sessionLines))
	index := make(map[string]*mux.Window, len(sessionLines))
	for _, line := range sessionLines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		windows = append(windows, mux.Window{ID: name, Name: name})
		index[name] = &windows[len(windows)-1]
	}

	tabIndex := make(map[string]*mux.Tab)
	for _, line := range windowLines {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 3)
		if len(parts) < 3 {
			continue
		}
		win := index[parts[1]]
		if win == nil {
			continue
		}
		win.Tabs = append(win.Tabs, mux.Tab{ID: parts[0], WindowID: parts[1], Title: parts[2]})
		tabIndex[parts[0]] = &win.Tabs[len(win.Tabs)-1]
	}

	for _, line := range paneLines {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 5)
		if len(parts) < 5 {
			continue
		}
		tab := tabIndex[parts[1]]
		if tab == nil {
			continue
		}
		tab.Sessions = append(tab.Sessions, mux.Session{
			ID:      parts[0],
			TabID:   parts[1],
			Title:   parts[2],
			Command: parts[3],
			Active:  parts[4] == "1",
		})
	}
	return windows, nil
}

// CreateSession spawns the command in a fresh tab via new-window. The -P/-F
// round trip returns the identifiers tmux assigned.
func (a *Adapter) CreateSession(req mux.CreateSessionRequest) (mux.CreateSessionResult, error) {
	args := a.baseArgs()
	args = append(args, "new-window", "-d", "-P", "-F", "#{pane_id}\t#{window_id}\t#{session_name}")
	if req.WindowID != "" {
		args = append(args, "-t", req.WindowID+":")
	}
	if req.Title != "" {
		args = append(args, "-n", req.Title)
	}
	if req.Dir != "" {
		args = append(args, "-c", req.Dir)
	}
	for name, value := range req.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", name, value))
	}
	if req.Command != "" {
		args = append(args, req.Command)
	}
	output, err := runTmuxCommand("tmux", args...).Output()
	if err != nil {
		return mux.CreateSessionResult{}, a.classify("create-session", err)
	}
	parts := strings.SplitN(strings.TrimSpace(string(output)), "\t", 3)
	if len(parts) < 3 {
		return mux.CreateSessionResult{}, mux.Generic("create-session", fmt.Errorf("unexpected new-window output %q", string(output)))
	}
	return mux.CreateSessionResult{SessionID: parts[0], TabID: parts[1], WindowID: parts[2]}, nil
}

// CloseSession kills the pane behind the session. Graceful closes refuse
// while a non-shell foreground command is running.
func (a *Adapter) CloseSession(id string, force bool) error {
	if !force {
		current, err := a.SessionVariable(id, "pane_current_command")
		if err != nil {
			return err
		}
		if _, ok := gracefulCommands[strings.TrimSpace(current)]; !ok {
			return mux.ErrForceRequired
		}
	}
	args := append(a.baseArgs(), "kill-pane", "-t", id)
	if err := runTmuxCommand("tmux", args...).Run(); err != nil {
		return a.classify("close-session", err)
	}
	return nil
}

// CloseTab kills the tmux window behind the tab, taking every session in it.
func (a *Adapter) CloseTab(id string, force bool) error {
	if !force {
		lines, err := a.client.ListPanesFormat(id, "", "#{pane_current_command}")
		if err != nil {
			return a.classify("close-tab", err)
		}
		for _, line := range lines {
			if _, ok := gracefulCommands[strings.TrimSpace(line)]; !ok {
				return mux.ErrForceRequired
			}
		}
	}
	args := append(a.baseArgs(), "kill-window", "-t", id)
	if err := runTmuxCommand("tmux", args...).Run(); err != nil {
		return a.classify("close-tab", err)
	}
	return nil
}

// ActivateSession focuses the session in the user's attached client: switch
// to its tmux session, select its window, then the pane itself.
func (a *Adapter) ActivateSession(id string) error {
	target, err := a.client.DisplayMessage(id, "#{session_name}\t#{window_id}")
	if err != nil {
		return a.classifyLookup("activate-session", err)
	}
	parts := strings.SplitN(strings.TrimSpace(target), "\t", 2)
	if len(parts) < 2 || parts[0] == "" {
		return mux.ErrSessionNotFound
	}
	if err := a.client.SwitchClient(&gotmux.SwitchClientOptions{TargetSession: parts[0]}); err != nil {
		return a.classify("activate-session", err)
	}
	args := append(a.baseArgs(), "select-window", "-t", parts[1])
	if err := runTmuxCommand("tmux", args...).Run(); err != nil {
		return a.classify("activate-session", err)
	}
	args = append(a.baseArgs(), "select-pane", "-t", id)
	if err := runTmuxCommand("tmux", args...).Run(); err != nil {
		return a.classify("activate-session", err)
	}
	return nil
}

// SessionByID resolves a session through display-message, which fails for
// dead pane ids.
func (a *Adapter) SessionByID(id string) (*mux.Session, error) {
	line, err := a.client.DisplayMessage(id, "#{pane_id}\t#{window_id}\t#{pane_title}\t#{pane_current_command}\t#{?pane_active,1,0}")
	if err != nil {
		return nil, a.classifyLookup("session-by-id", err)
	}
	parts := strings.SplitN(strings.TrimSpace(line), "\t", 5)
	if len(parts) < 5 || parts[0] != id {
		return nil, mux.ErrSessionNotFound
	}
	return &mux.Session{
		ID:      parts[0],
		TabID:   parts[1],
		Title:   parts[2],
		Command: parts[3],
		Active:  parts[4] == "1",
	}, nil
}

// SessionVariable reads a single tmux format variable scoped to the session.
func (a *Adapter) SessionVariable(id, name string) (string, error) {
	value, err := a.client.DisplayMessage(id, "#{"+name+"}")
	if err != nil {
		return "", a.classifyLookup("session-variable", err)
	}
	return strings.TrimSpace(value), nil
}

func (a *Adapter) baseArgs() []string {
	if strings.TrimSpace(a.socketPath) == "" {
		return []string{}
	}
	return []string{"-S", a.socketPath}
}

// classify tags transport errors. Severed control-mode connections surface
// as EOF/EPIPE/ECONNRESET or a closed-network error from gotmuxcc.
func (a *Adapter) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isSevered(err) {
		return mux.Lost(op, err)
	}
	return mux.Generic(op, err)
}

// classifyLookup is classify for per-session lookups, where a plain failure
// means the id no longer resolves.
func (a *Adapter) classifyLookup(op string, err error) error {
	if err == nil {
		return nil
	}
	if isSevered(err) {
		return mux.Lost(op, err)
	}
	return mux.ErrSessionNotFound
}

func classifyDial(err error) error {
	if err == nil {
		return nil
	}
	if isRefusedDial(err) {
		return mux.Refused("dial", fmt.Errorf("%w (is the tmux server running on this socket?)", err))
	}
	return mux.Generic("dial", err)
}

func isSevered(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

func isRefusedDial(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENOENT) ||
		isSevered(err)
}

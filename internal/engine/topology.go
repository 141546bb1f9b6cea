package engine

import (
	"sync"

	"github.com/muxboard/muxboard/internal/mux"
)

// TabState mirrors one tab as last observed by Refresh.
type TabState struct {
	ID         string
	WindowID   string
	Title      string
	SessionIDs []string
}

// WindowState mirrors one window: its ordered tabs and the subset of tab ids
// this engine manages.
type WindowState struct {
	ID      string
	Name    string
	Tabs    []TabState
	managed map[string]struct{}
}

// Managed reports whether the tab id is in this window's managed set.
func (w *WindowState) Managed(tabID string) bool {
	_, ok := w.managed[tabID]
	return ok
}

// Topology rebuilds the window → tab → session mirror from the multiplexer
// on demand. There is no incremental diffing: Refresh discards everything
// and walks the live tree, trading efficiency for correctness.
type Topology struct {
	runner *Runner

	mu      sync.Mutex
	windows map[string]*WindowState
	order   []string
}

func NewTopology(runner *Runner) *Topology {
	return &Topology{
		runner:  runner,
		windows: make(map[string]*WindowState),
	}
}

// Refresh performs a full resync. Managed tab ids survive a refresh only
// while their tab is still observed, which keeps the managed set a subset of
// live tabs. Requires an active connection; idempotent and safe to retry.
func (t *Topology) Refresh() error {
	var listed []mux.Window
	err := t.runner.Do(func(client mux.Client) error {
		var lerr error
		listed, lerr = client.ListWindows()
		return lerr
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	windows := make(map[string]*WindowState, len(listed))
	order := make([]string, 0, len(listed))
	for _, w := range listed {
		state := &WindowState{ID: w.ID, Name: w.Name, managed: make(map[string]struct{})}
		for _, tab := range w.Tabs {
			ts := TabState{ID: tab.ID, WindowID: w.ID, Title: tab.Title}
			for _, sess := range tab.Sessions {
				ts.SessionIDs = append(ts.SessionIDs, sess.ID)
			}
			state.Tabs = append(state.Tabs, ts)
			if prev, ok := t.windows[w.ID]; ok && prev.Managed(tab.ID) {
				state.managed[tab.ID] = struct{}{}
			}
		}
		windows[w.ID] = state
		order = append(order, w.ID)
	}
	t.windows = windows
	t.order = order
	return nil
}

// MarkManaged adds the tab to the window's managed set. An unknown window id
// is a no-op, never an error: the window may have closed between spawn and
// confirmation.
func (t *Topology) MarkManaged(tabID, windowID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[windowID]
	if !ok {
		return
	}
	w.managed[tabID] = struct{}{}
}

// Unmanage removes the tab from the window's managed set without touching
// the external tab. Unknown ids are no-ops.
func (t *Topology) Unmanage(tabID, windowID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w, ok := t.windows[windowID]; ok {
		delete(w.managed, tabID)
	}
}

// ManagedTabIDs returns the managed set for one window, or the union across
// all windows when windowID is empty. Unknown window ids yield an empty set.
func (t *Topology) ManagedTabIDs(windowID string) map[string]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]struct{})
	if windowID != "" {
		if w, ok := t.windows[windowID]; ok {
			for id := range w.managed {
				out[id] = struct{}{}
			}
		}
		return out
	}
	for _, w := range t.windows {
		for id := range w.managed {
			out[id] = struct{}{}
		}
	}
	return out
}

// Windows returns the mirrored windows in the multiplexer's ordering.
func (t *Topology) Windows() []WindowState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]WindowState, 0, len(t.order))
	for _, id := range t.order {
		if w, ok := t.windows[id]; ok {
			out = append(out, *w)
		}
	}
	return out
}

// Window looks one mirrored window up by id.
func (t *Topology) Window(id string) (*WindowState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[id]
	return w, ok
}

// FindTab locates a tab anywhere in the mirror.
func (t *Topology) FindTab(tabID string) (*TabState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.order {
		w := t.windows[id]
		for i := range w.Tabs {
			if w.Tabs[i].ID == tabID {
				return &w.Tabs[i], true
			}
		}
	}
	return nil, false
}

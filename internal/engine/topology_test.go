package engine

import (
	"testing"

	"github.com/muxboard/muxboard/internal/mux"
)

func topologyFixture() []mux.Window {
	return []mux.Window{
		{
			ID:   "$1",
			Name: "alpha",
			Tabs: []mux.Tab{
				{ID: "@1", WindowID: "$1", Title: "editor", Sessions: []mux.Session{
					{ID: "%1", TabID: "@1", Title: "editor", Command: "vim"},
				}},
				{ID: "@2", WindowID: "$1", Title: "shell", Sessions: []mux.Session{
					{ID: "%2", TabID: "@2", Title: "shell", Command: "zsh"},
					{ID: "%3", TabID: "@2", Title: "logs", Command: "tail"},
				}},
			},
		},
		{
			ID:   "$2",
			Name: "beta",
			Tabs: []mux.Tab{
				{ID: "@3", WindowID: "$2", Title: "build", Sessions: []mux.Session{
					{ID: "%4", TabID: "@3", Title: "build", Command: "make"},
				}},
			},
		},
	}
}

func newTestTopology(t *testing.T, client *fakeClient) *Topology {
	t.Helper()
	topo := NewTopology(NewRunner(connectedConn(client)))
	if err := topo.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return topo
}

func TestTopologyRefreshMirrorsTree(t *testing.T) {
	client := &fakeClient{listWindowsFn: func() ([]mux.Window, error) {
		return topologyFixture(), nil
	}}
	topo := newTestTopology(t, client)

	windows := topo.Windows()
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].ID != "$1" || windows[1].ID != "$2" {
		t.Fatalf("expected multiplexer ordering, got %s, %s", windows[0].ID, windows[1].ID)
	}
	if len(windows[0].Tabs) != 2 {
		t.Fatalf("expected 2 tabs in $1, got %d", len(windows[0].Tabs))
	}
	tab, ok := topo.FindTab("@2")
	if !ok {
		t.Fatalf("expected to find tab @2")
	}
	if len(tab.SessionIDs) != 2 || tab.SessionIDs[0] != "%2" || tab.SessionIDs[1] != "%3" {
		t.Fatalf("unexpected sessions in @2: %v", tab.SessionIDs)
	}
}

func TestTopologyManagedSurvivesRefreshWhileTabLives(t *testing.T) {
	tree := topologyFixture()
	client := &fakeClient{listWindowsFn: func() ([]mux.Window, error) {
		return tree, nil
	}}
	topo := newTestTopology(t, client)

	topo.MarkManaged("@1", "$1")
	topo.MarkManaged("@3", "$2")

	if err := topo.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	w, _ := topo.Window("$1")
	if !w.Managed("@1") {
		t.Fatalf("expected @1 to stay managed across refresh")
	}

	// Tab @1 vanishes externally; the managed set must shrink with it.
	tree[0].Tabs = tree[0].Tabs[1:]
	if err := topo.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	w, _ = topo.Window("$1")
	if w.Managed("@1") {
		t.Fatalf("expected @1 to be unmanaged after its tab vanished")
	}
	if w2, _ := topo.Window("$2"); !w2.Managed("@3") {
		t.Fatalf("expected @3 to stay managed")
	}
}

func TestTopologyMarkManagedUnknownWindow(t *testing.T) {
	client := &fakeClient{listWindowsFn: func() ([]mux.Window, error) {
		return topologyFixture(), nil
	}}
	topo := newTestTopology(t, client)

	topo.MarkManaged("@9", "$9")
	if ids := topo.ManagedTabIDs("$9"); len(ids) != 0 {
		t.Fatalf("expected empty managed set for unknown window, got %v", ids)
	}
	if ids := topo.ManagedTabIDs(""); len(ids) != 0 {
		t.Fatalf("expected empty union, got %v", ids)
	}
}

func TestTopologyManagedTabIDs(t *testing.T) {
	client := &fakeClient{listWindowsFn: func() ([]mux.Window, error) {
		return topologyFixture(), nil
	}}
	topo := newTestTopology(t, client)

	topo.MarkManaged("@1", "$1")
	topo.MarkManaged("@2", "$1")
	topo.MarkManaged("@3", "$2")

	if ids := topo.ManagedTabIDs("$1"); len(ids) != 2 {
		t.Fatalf("expected 2 managed tabs in $1, got %v", ids)
	}
	union := topo.ManagedTabIDs("")
	if len(union) != 3 {
		t.Fatalf("expected union of 3 managed tabs, got %v", union)
	}
	for _, id := range []string{"@1", "@2", "@3"} {
		if _, ok := union[id]; !ok {
			t.Fatalf("expected %s in union %v", id, union)
		}
	}

	topo.Unmanage("@2", "$1")
	if ids := topo.ManagedTabIDs("$1"); len(ids) != 1 {
		t.Fatalf("expected 1 managed tab after Unmanage, got %v", ids)
	}
}

func TestTopologyRefreshFailureKeepsMirror(t *testing.T) {
	fail := false
	client := &fakeClient{listWindowsFn: func() ([]mux.Window, error) {
		if fail {
			return nil, mux.Generic("list", errTest)
		}
		return topologyFixture(), nil
	}}
	topo := newTestTopology(t, client)

	fail = true
	if err := topo.Refresh(); err == nil {
		t.Fatalf("expected refresh error")
	}
	if len(topo.Windows()) != 2 {
		t.Fatalf("expected mirror to survive failed refresh")
	}
}

package engine

import (
	"strings"
	"testing"

	"github.com/muxboard/muxboard/internal/mux"
	"github.com/muxboard/muxboard/internal/store"
	"github.com/muxboard/muxboard/internal/workspace"
)

func newTestSpawner(client *fakeClient) (*Spawner, *store.Store) {
	runner := NewRunner(connectedConn(client))
	state := store.New()
	return NewSpawner(runner, NewTopology(runner), state), state
}

func TestSpawnRegistersManagedSession(t *testing.T) {
	var gotReq mux.CreateSessionRequest
	client := &fakeClient{
		createSessionFn: func(req mux.CreateSessionRequest) (mux.CreateSessionResult, error) {
			gotReq = req
			return mux.CreateSessionResult{SessionID: "%7", TabID: "@4", WindowID: "$1"}, nil
		},
	}
	spawner, state := newTestSpawner(client)
	project := &store.Project{ID: "app", Name: "app", Path: "/work/app"}

	result := spawner.Spawn(workspace.Template{Name: "dev", Command: "npm run dev"}, project)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if gotReq.Command != "npm run dev" {
		t.Fatalf("unexpected command %q", gotReq.Command)
	}
	if gotReq.Dir != "/work/app" {
		t.Fatalf("expected project path fallback, got %q", gotReq.Dir)
	}
	if gotReq.Title != "dev" {
		t.Fatalf("expected template name as title fallback, got %q", gotReq.Title)
	}
	if result.SessionID != "%7" || result.TabID != "@4" {
		t.Fatalf("unexpected ids: %+v", result)
	}
	if !spawner.Tracked("%7") {
		t.Fatalf("expected session to be tracked")
	}
	sess, ok := state.Session("%7")
	if !ok {
		t.Fatalf("expected session in store")
	}
	if sess.TemplateID != "dev" || sess.ProjectID != "app" || sess.TabID != "@4" {
		t.Fatalf("unexpected stored session: %+v", sess)
	}
	if sess.Metadata["spawn_request"] == "" {
		t.Fatalf("expected spawn request id in metadata")
	}
}

func TestSpawnRejectsInvalidEnvNameBeforeRPC(t *testing.T) {
	client := &fakeClient{}
	spawner, state := newTestSpawner(client)

	tpl := workspace.Template{
		Name:    "dev",
		Command: "npm run dev",
		Env:     map[string]string{"1INVALID": "x"},
	}
	result := spawner.Spawn(tpl, nil)
	if result.Success {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(result.Error, "1INVALID") {
		t.Fatalf("expected offending name in error, got %q", result.Error)
	}
	if client.createCount() != 0 {
		t.Fatalf("expected no RPC for invalid template, got %d calls", client.createCount())
	}
	if state.SessionCount() != 0 {
		t.Fatalf("expected no session registered")
	}
}

func TestSpawnFailureIsAResultNotAnError(t *testing.T) {
	client := &fakeClient{
		createSessionFn: func(mux.CreateSessionRequest) (mux.CreateSessionResult, error) {
			return mux.CreateSessionResult{}, mux.Generic("new-window", errTest)
		},
	}
	spawner, state := newTestSpawner(client)

	result := spawner.Spawn(workspace.Template{Name: "dev", Command: "npm run dev"}, nil)
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if result.Error == "" {
		t.Fatalf("expected error detail in result")
	}
	if spawner.TrackedCount() != 0 {
		t.Fatalf("failed spawn must not be tracked")
	}
	if state.SessionCount() != 0 {
		t.Fatalf("failed spawn must not reach the store")
	}
}

func TestSpawnWhenDisconnected(t *testing.T) {
	client := &fakeClient{}
	runner := NewRunner(NewConn("", fixedDial(client)))
	state := store.New()
	spawner := NewSpawner(runner, NewTopology(runner), state)

	result := spawner.Spawn(workspace.Template{Name: "dev", Command: "npm run dev"}, nil)
	if result.Success {
		t.Fatalf("expected failure while disconnected")
	}
	if !strings.Contains(result.Error, ErrNotConnected.Error()) {
		t.Fatalf("expected not-connected detail, got %q", result.Error)
	}
}

func TestSpawnInitialContinuesPastFailures(t *testing.T) {
	next := 0
	client := &fakeClient{
		createSessionFn: func(mux.CreateSessionRequest) (mux.CreateSessionResult, error) {
			next++
			return mux.CreateSessionResult{
				SessionID: "%" + string(rune('0'+next)),
				TabID:     "@" + string(rune('0'+next)),
			}, nil
		},
	}
	spawner, state := newTestSpawner(client)

	tpls := []workspace.Template{
		{Name: "editor", Command: "vim"},
		{Name: "broken", Command: "x", Env: map[string]string{"BAD-NAME": "y"}},
		{Name: "shell", Command: "zsh"},
	}
	results := spawner.SpawnInitial(tpls, nil)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Fatalf("unexpected outcomes: %+v", results)
	}
	if client.createCount() != 2 {
		t.Fatalf("expected 2 creates, got %d", client.createCount())
	}
	if state.SessionCount() != 2 {
		t.Fatalf("expected 2 sessions registered, got %d", state.SessionCount())
	}
}

package engine

import (
	"errors"

	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/mux"
	"github.com/muxboard/muxboard/internal/store"
)

// TerminationResult reports one close attempt. ForceRequired records whether
// escalation happened (or would be needed), so callers can phrase
// "Force-closed" versus "Closed".
type TerminationResult struct {
	SessionID     string
	Success       bool
	ForceRequired bool
	Error         string
}

// Terminator closes sessions and tabs with graceful-then-forced escalation.
type Terminator struct {
	runner *Runner
}

func NewTerminator(runner *Runner) *Terminator {
	return &Terminator{runner: runner}
}

// CloseSession tries a graceful close first and escalates to a forced close
// only when the multiplexer signals a foreground process is still running
// and the caller permits it. A session that already vanished externally
// counts as closed.
func (t *Terminator) CloseSession(id string, force bool) TerminationResult {
	events.Session.Close(id, force)
	result := TerminationResult{SessionID: id}

	err := t.runner.Do(func(client mux.Client) error {
		return client.CloseSession(id, false)
	})
	if err == nil {
		result.Success = true
		events.Session.Closed(id, false)
		return result
	}
	if errors.Is(err, mux.ErrSessionNotFound) {
		result.Success = true
		events.Session.Vanished(id)
		return result
	}
	if !errors.Is(err, mux.ErrForceRequired) {
		result.Error = err.Error()
		return result
	}

	result.ForceRequired = true
	if !force {
		result.Error = mux.ErrForceRequired.Error()
		return result
	}
	err = t.runner.Do(func(client mux.Client) error {
		return client.CloseSession(id, true)
	})
	if err != nil && !errors.Is(err, mux.ErrSessionNotFound) {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	events.Session.Closed(id, true)
	return result
}

// CloseTab applies the same escalation at tab granularity, taking every
// session inside the tab with it.
func (t *Terminator) CloseTab(tabID string, force bool) TerminationResult {
	result := TerminationResult{SessionID: tabID}

	err := t.runner.Do(func(client mux.Client) error {
		return client.CloseTab(tabID, false)
	})
	if err == nil {
		result.Success = true
		return result
	}
	if errors.Is(err, mux.ErrSessionNotFound) {
		result.Success = true
		return result
	}
	if !errors.Is(err, mux.ErrForceRequired) {
		result.Error = err.Error()
		return result
	}

	result.ForceRequired = true
	if !force {
		result.Error = mux.ErrForceRequired.Error()
		return result
	}
	err = t.runner.Do(func(client mux.Client) error {
		return client.CloseTab(tabID, true)
	})
	if err != nil && !errors.Is(err, mux.ErrSessionNotFound) {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

// CloseAllManaged closes each given session independently: one failure never
// aborts the batch. Successfully closed sessions are untracked from the
// spawner's table; failures stay referenceable by id. Returns the success
// count and the full itemized result list.
func (t *Terminator) CloseAllManaged(sessions []*store.ManagedSession, spawner *Spawner, force bool) (int, []TerminationResult) {
	results := make([]TerminationResult, 0, len(sessions))
	closed := 0
	for _, sess := range sessions {
		result := t.CloseSession(sess.ID, force)
		if result.Success {
			closed++
			spawner.Untrack(sess.ID)
		}
		results = append(results, result)
	}
	return closed, results
}

// Package store holds the canonical dashboard state: managed sessions,
// projects, and the active project. Every mutation updates the maps first,
// then synchronously notifies each subscriber with a typed event. The mutex
// is held for the full mutation-plus-notification so observers always see
// events in mutation order. Subscribers must not call back into the store
// from inside their callback.
package store

import (
	"sort"
	"sync"

	"github.com/muxboard/muxboard/internal/logging/events"
)

type subscriber struct {
	id int
	fn func(Event)
}

// Store is the central reactive state container. Construct one per process
// and pass it explicitly to every component that needs it.
type Store struct {
	mu            sync.Mutex
	sessions      map[string]*ManagedSession
	projects      map[string]*Project
	activeProject string
	subscribers   []subscriber
	nextSub       int
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*ManagedSession),
		projects: make(map[string]*Project),
	}
}

// Subscribe registers an observer. The returned function cancels the
// subscription; both are safe to call from any goroutine.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// publish fans an event out to every subscriber. Callers hold s.mu.
func (s *Store) publish(e Event) {
	events.Store.Emit(eventName(e), len(s.subscribers))
	for _, sub := range s.subscribers {
		sub.fn(e)
	}
}

// AddSession registers a managed session and emits SessionSpawned.
func (s *Store) AddSession(sess *ManagedSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	s.publish(SessionSpawned{Session: sess.Clone()})
}

// RemoveSession drops a managed session and emits SessionClosed. Removing an
// unknown id is a no-op so orphan detection and explicit closes can race.
func (s *Store) RemoveSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	delete(s.sessions, id)
	s.publish(SessionClosed{Session: sess})
	return true
}

// SetAttention updates a session's attention state and emits
// SessionStatusChanged.
func (s *Store) SetAttention(id string, a Attention) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.Attention = a
	sess.LastActivity = now()
	s.publish(SessionStatusChanged{Session: sess.Clone()})
	return true
}

// AppendOutput adds lines to a session's bounded output buffer and emits
// SessionStatusChanged.
func (s *Store) AppendOutput(id string, lines ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.AppendOutput(lines...)
	sess.LastActivity = now()
	s.publish(SessionStatusChanged{Session: sess.Clone()})
	return true
}

// Session returns a copy of one managed session.
func (s *Store) Session(id string) (*ManagedSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Sessions returns copies of every managed session, oldest spawn first.
func (s *Store) Sessions() []*ManagedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ManagedSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpawnedAt.Equal(out[j].SpawnedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SpawnedAt.Before(out[j].SpawnedAt)
	})
	return out
}

// SessionCount reports how many sessions are currently managed.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// AddProject registers a project without activating it.
func (s *Store) AddProject(p *Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p.Clone()
}

// OpenProject makes the project active and emits ProjectOpened.
func (s *Store) OpenProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return false
	}
	s.activeProject = id
	s.publish(ProjectOpened{Project: p.Clone()})
	return true
}

// Project returns a copy of one project.
func (s *Store) Project(id string) (*Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Projects returns copies of every project, sorted by id.
func (s *Store) Projects() []*Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveProject returns the active project id, empty when none is open.
func (s *Store) ActiveProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeProject
}

// ReloadPlan emits PlanReloaded for the project. The plan parser lives
// outside the core; the store only guarantees delivery and ordering.
func (s *Store) ReloadPlan(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(PlanReloaded{ProjectID: projectID})
}

// SetWorkflowStage records a project's workflow stage and emits
// WorkflowStageChanged.
func (s *Store) SetWorkflowStage(projectID, stage string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return false
	}
	p.Stage = stage
	s.publish(WorkflowStageChanged{ProjectID: projectID, Stage: stage})
	return true
}

package store

// Event is a typed notification emitted by the store after a mutation.
// Observers receive events synchronously and in the exact order mutations
// were applied; the store never batches or coalesces.
type Event interface {
	event()
}

// SessionSpawned is emitted when a new managed session is registered.
type SessionSpawned struct {
	Session *ManagedSession
}

// SessionClosed is emitted when a managed session is removed, whether by a
// terminator call or by orphan detection.
type SessionClosed struct {
	Session *ManagedSession
}

// SessionStatusChanged is emitted when a session's attention state or output
// buffer changes.
type SessionStatusChanged struct {
	Session *ManagedSession
}

// ProjectOpened is emitted when the active project changes.
type ProjectOpened struct {
	Project *Project
}

// PlanReloaded is emitted when a project's task plan has been re-read.
type PlanReloaded struct {
	ProjectID string
}

// WorkflowStageChanged is emitted when a project advances through its
// workflow.
type WorkflowStageChanged struct {
	ProjectID string
	Stage     string
}

func (SessionSpawned) event()       {}
func (SessionClosed) event()        {}
func (SessionStatusChanged) event() {}
func (ProjectOpened) event()        {}
func (PlanReloaded) event()         {}
func (WorkflowStageChanged) event() {}

func eventName(e Event) string {
	switch e.(type) {
	case SessionSpawned:
		return "SessionSpawned"
	case SessionClosed:
		return "SessionClosed"
	case SessionStatusChanged:
		return "SessionStatusChanged"
	case ProjectOpened:
		return "ProjectOpened"
	case PlanReloaded:
		return "PlanReloaded"
	case WorkflowStageChanged:
		return "WorkflowStageChanged"
	default:
		return "Unknown"
	}
}

package store

import "time"

// Attention describes whether a managed session needs the user.
type Attention int

const (
	AttentionIdle Attention = iota
	AttentionWorking
	AttentionWaiting
)

func (a Attention) String() string {
	switch a {
	case AttentionWorking:
		return "working"
	case AttentionWaiting:
		return "waiting"
	default:
		return "idle"
	}
}

// outputCap bounds the per-session last-output buffer. Output beyond this is
// the multiplexer's scrollback problem, not ours.
const outputCap = 200

// ManagedSession is a session this engine created and tracks. The external
// multiplexer may close it independently; that is detected lazily on the
// next focus or close attempt.
type ManagedSession struct {
	ID           string
	TemplateID   string
	ProjectID    string
	TabID        string
	Attention    Attention
	SpawnedAt    time.Time
	LastActivity time.Time
	Metadata     map[string]string

	output []string
}

// AppendOutput adds lines to the bounded last-output buffer, evicting the
// oldest entries once the cap is reached.
func (s *ManagedSession) AppendOutput(lines ...string) {
	s.output = append(s.output, lines...)
	if overflow := len(s.output) - outputCap; overflow > 0 {
		s.output = append(s.output[:0], s.output[overflow:]...)
	}
}

// Output returns a copy of the buffered last-output lines.
func (s *ManagedSession) Output() []string {
	if len(s.output) == 0 {
		return nil
	}
	out := make([]string, len(s.output))
	copy(out, s.output)
	return out
}

// Clone returns a deep copy so observers never share mutable state with the
// store.
func (s *ManagedSession) Clone() *ManagedSession {
	if s == nil {
		return nil
	}
	dup := *s
	dup.output = s.Output()
	if s.Metadata != nil {
		dup.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			dup.Metadata[k] = v
		}
	}
	return &dup
}

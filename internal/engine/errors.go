package engine

import (
	"errors"
	"fmt"
)

// ErrNotConnected guards every connection-dependent operation. It is
// returned before any RPC is attempted.
var ErrNotConnected = errors.New("not connected to the multiplexer")

// SessionError wraps a spawn or terminate failure with the session it
// concerns.
type SessionError struct {
	SessionID string
	Op        string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

package mux

import (
	"errors"
	"fmt"
)

// ErrForceRequired signals that a graceful close was declined because a
// foreground process is still running. Callers decide whether to escalate.
var ErrForceRequired = errors.New("foreground process still running, force required")

// ErrSessionNotFound is returned when a session id no longer resolves,
// typically because the user closed it outside the dashboard.
var ErrSessionNotFound = errors.New("session not found")

// ErrorKind classifies a transport error. The kind is assigned exactly once,
// at the adapter boundary, so the retry layer dispatches on a typed tag
// instead of matching error text.
type ErrorKind int

const (
	// KindGeneric covers failures that are not connection related.
	KindGeneric ErrorKind = iota
	// KindRefused means the multiplexer rejected or could not accept the
	// initial connection (server not running, bad socket).
	KindRefused
	// KindLost means an established connection was severed mid-operation.
	KindLost
)

func (k ErrorKind) String() string {
	switch k {
	case KindRefused:
		return "refused"
	case KindLost:
		return "lost"
	default:
		return "generic"
	}
}

// Error wraps a transport failure with its classification and the operation
// that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mux %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Refused wraps err as a refused-connection failure.
func Refused(op string, err error) error {
	return &Error{Kind: KindRefused, Op: op, Err: err}
}

// Lost wraps err as a severed-connection failure.
func Lost(op string, err error) error {
	return &Error{Kind: KindLost, Op: op, Err: err}
}

// Generic wraps err as a non-connection failure.
func Generic(op string, err error) error {
	return &Error{Kind: KindGeneric, Op: op, Err: err}
}

// IsLost reports whether err carries the severed-connection tag.
func IsLost(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == KindLost
}

// IsRefused reports whether err carries the refused-connection tag.
func IsRefused(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == KindRefused
}

package engine

import (
	"context"
	"sync"
	"time"

	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/mux"
)

// DefaultMaxRetries bounds reconnect attempts. Small on purpose: a
// permanently unreachable server should fail fast, not storm.
const DefaultMaxRetries = 3

// attemptTimeout caps one RPC attempt. Control-mode round trips are normally
// sub-millisecond; a stalled attempt is indistinguishable from a severed
// connection and is treated as one.
const attemptTimeout = 5 * time.Second

// Runner wraps connection-dependent operations with reconnect-and-retry.
// Rules:
//   - a connection-lost error triggers reconnect then retry, up to
//     MaxRetries attempts;
//   - a failed reconnect consumes an attempt but does not abort the loop;
//   - once the budget is spent, the original error from the last failed
//     operation call is returned, not a reconnect error;
//   - any other error propagates immediately with no retry.
//
// The runner also serializes RPCs: at most one operation is in flight
// against the connection handle at any time.
type Runner struct {
	conn       *Conn
	MaxRetries int

	mu sync.Mutex
}

func NewRunner(conn *Conn) *Runner {
	return &Runner{conn: conn, MaxRetries: DefaultMaxRetries}
}

// Do executes op under the retry policy described on Runner.
func (r *Runner) Do(op func(mux.Client) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, err := r.conn.Require()
	if err != nil {
		return err
	}
	err = attempt(client, op)
	if err == nil || !mux.IsLost(err) {
		return err
	}

	budget := r.MaxRetries
	if budget <= 0 {
		budget = DefaultMaxRetries
	}
	lastErr := err
	for i := 0; i < budget; i++ {
		events.Conn.Retry(i+1, budget)
		if rerr := r.conn.Reconnect(); rerr != nil {
			continue
		}
		client, err := r.conn.Require()
		if err != nil {
			continue
		}
		err = attempt(client, op)
		if err == nil {
			return nil
		}
		if !mux.IsLost(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// attempt bounds one operation call. The goroutine running a stalled op is
// abandoned; the adapter's next reconnect invalidates its handle.
func attempt(client mux.Client, op func(mux.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), attemptTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- op(client)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return mux.Lost("rpc", ctx.Err())
	}
}

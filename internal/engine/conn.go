package engine

import (
	"sync"

	"github.com/muxboard/muxboard/internal/logging/events"
	"github.com/muxboard/muxboard/internal/mux"
)

// DialFunc opens a new connection to the multiplexer. The adapter classifies
// refused versus generic failures before they reach the engine.
type DialFunc func() (mux.Client, error)

// Conn owns the single connection handle to the multiplexer. It is connected
// only when BOTH the handle is set AND the flag is true; neither alone is
// sufficient, which guards against partially initialized states.
type Conn struct {
	socket string
	dial   DialFunc

	mu        sync.Mutex
	client    mux.Client
	connected bool
}

// NewConn builds a disconnected manager. socket is only used for trace
// output; the dial func carries the real target.
func NewConn(socket string, dial DialFunc) *Conn {
	return &Conn{socket: socket, dial: dial}
}

// Connect establishes the handle. Connecting twice is a no-op.
func (c *Conn) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil && c.connected {
		return nil
	}
	client, err := c.dial()
	if err != nil {
		events.Conn.ConnectFailed(c.socket, err)
		return err
	}
	c.client = client
	c.connected = true
	events.Conn.Connect(c.socket)
	return nil
}

// Disconnect releases the handle. Idempotent and always safe to call.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		_ = c.client.Close()
		events.Conn.Disconnect()
	}
	c.client = nil
	c.connected = false
}

// Reconnect tears the handle down and dials again.
func (c *Conn) Reconnect() error {
	c.Disconnect()
	err := c.Connect()
	events.Conn.Reconnect(err == nil)
	return err
}

// IsConnected is the composite check: handle set and flag true.
func (c *Conn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil && c.connected
}

// Require returns the live client or fails fast with ErrNotConnected. Every
// connection-dependent call sites this guard first.
func (c *Conn) Require() (mux.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil || !c.connected {
		return nil, ErrNotConnected
	}
	return c.client, nil
}

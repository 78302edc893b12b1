package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// Connection is one client attached to a Hub. Messages for every group the
// connection joined arrive on Messages until the connection is closed.
type Connection struct {
	id     uuid.UUID
	ch     chan messaging.Envelope
	done   chan struct{}
	mu     sync.RWMutex
	closed bool

	// guarded by Hub.mu
	groups map[string]struct{}
}

func newConnection(bufferSize int) *Connection {
	return &Connection{
		id:     uuid.New(),
		ch:     make(chan messaging.Envelope, bufferSize),
		done:   make(chan struct{}),
		groups: make(map[string]struct{}),
	}
}

// ID returns the connection ID.
func (c *Connection) ID() uuid.UUID {
	return c.id
}

// Messages is closed when the connection is.
func (c *Connection) Messages() <-chan messaging.Envelope {
	return c.ch
}

// Done is closed when the connection is.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// deliver never blocks; it reports false when the buffer is full or the
// connection is closed.
func (c *Connection) deliver(env messaging.Envelope) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}
	select {
	case c.ch <- env:
		return true
	default:
		return false
	}
}

func (c *Connection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
	close(c.done)
}

package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// Hub is an in-process registry of client connections and the groups they
// joined. It implements messaging.Sender: a send reaches every connection in
// the group. Slow consumers whose buffer is full are disconnected rather than
// blocking the sender. All methods are safe for concurrent use.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uuid.UUID]*Connection
	groups     map[string]map[uuid.UUID]*Connection
	bufferSize int
	closed     bool
	logger     *slog.Logger
	wg         sync.WaitGroup
}

var _ messaging.Sender = (*Hub)(nil)

// Option configures a Hub.
type Option func(*Hub)

// WithBufferSize sets the per-connection buffer. Values below 1 become 1.
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		h.bufferSize = max(n, 1)
	}
}

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		conns:      make(map[uuid.UUID]*Connection),
		groups:     make(map[string]map[uuid.UUID]*Connection),
		bufferSize: 64,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Connect registers a connection that lives until ctx is done, Disconnect is
// called, or the hub closes.
func (h *Hub) Connect(ctx context.Context) (*Connection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	conn := newConnection(h.bufferSize)
	h.conns[conn.id] = conn

	if ctx.Done() != nil {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			select {
			case <-ctx.Done():
				h.Disconnect(conn.id)
			case <-conn.done:
			}
		}()
	}

	h.logger.LogAttrs(ctx, slog.LevelDebug, "connection opened", logger.ConnectionID(conn.id))
	return conn, nil
}

// Connection returns a registered connection.
func (h *Hub) Connection(id uuid.UUID) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.conns[id]
	return conn, ok
}

// Disconnect removes the connection from the hub and all its groups and
// closes it. Unknown IDs are ignored.
func (h *Hub) Disconnect(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(id)
}

// AddToGroup subscribes the connection to g.
func (h *Hub) AddToGroup(id uuid.UUID, g group.Group) error {
	if g.IsZero() {
		return ErrEmptyGroup
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	conn, ok := h.conns[id]
	if !ok {
		return ErrConnectionNotFound
	}

	key := g.String()
	members, ok := h.groups[key]
	if !ok {
		members = make(map[uuid.UUID]*Connection)
		h.groups[key] = members
	}
	members[id] = conn
	conn.groups[key] = struct{}{}
	return nil
}

// RemoveFromGroup unsubscribes the connection from g.
func (h *Hub) RemoveFromGroup(id uuid.UUID, g group.Group) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[id]
	if !ok {
		return ErrConnectionNotFound
	}

	key := g.String()
	h.leave(key, id)
	delete(conn.groups, key)
	return nil
}

// Groups lists the groups a connection joined.
func (h *Hub) Groups(id uuid.UUID) []group.Group {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.conns[id]
	if !ok {
		return nil
	}
	out := make([]group.Group, 0, len(conn.groups))
	for key := range conn.groups {
		out = append(out, group.Parse(key))
	}
	return out
}

// Members returns how many connections are in g.
func (h *Hub) Members(g group.Group) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[g.String()])
}

// Send delivers an envelope to every connection in g.
func (h *Hub) Send(ctx context.Context, g group.Group, method string, payload any) error {
	return h.Deliver(ctx, messaging.NewEnvelope(g, method, payload))
}

// Deliver fans out a prebuilt envelope, keeping its ID. Relays use it to
// re-deliver messages that arrived from another instance.
func (h *Hub) Deliver(ctx context.Context, env messaging.Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	for id, conn := range h.groups[env.Group.String()] {
		if conn.deliver(env) {
			continue
		}
		h.logger.LogAttrs(ctx, slog.LevelWarn, "dropping slow connection",
			logger.ConnectionID(id),
			logger.GroupName(env.Group),
			logger.Method(env.Method),
		)
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.Disconnect(id)
		}()
	}
	return nil
}

// Close disconnects every connection. Later sends return ErrHubClosed.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for id := range h.conns {
		h.remove(id)
	}
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// remove requires h.mu held for writing.
func (h *Hub) remove(id uuid.UUID) {
	conn, ok := h.conns[id]
	if !ok {
		return
	}
	for key := range conn.groups {
		h.leave(key, id)
	}
	delete(h.conns, id)
	conn.close()
}

func (h *Hub) leave(key string, id uuid.UUID) {
	members := h.groups[key]
	delete(members, id)
	if len(members) == 0 {
		delete(h.groups, key)
	}
}

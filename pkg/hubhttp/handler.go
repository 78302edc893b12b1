package hubhttp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/entityhub/pkg/binder"
	"github.com/dmitrymomot/entityhub/pkg/broadcast"
	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/notify"
)

// Handler exposes a broadcast.Hub over HTTP: a server-sent event stream per
// client and endpoints to join or leave groups on an open stream.
type Handler struct {
	hub         *broadcast.Hub
	transformer notify.GroupTransformer
	logger      *slog.Logger
}

type Option func(*Handler)

// WithGroupTransformer applies t to every group a client subscribes to, the
// same transform the dispatcher applies to destinations.
func WithGroupTransformer(t notify.GroupTransformer) Option {
	return func(h *Handler) {
		h.transformer = t
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates the hub HTTP handler.
func NewHandler(hub *broadcast.Hub, opts ...Option) *Handler {
	h := &Handler{
		hub:    hub,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts:
//
//	GET    /stream?group=order&group=order/42
//	POST   /connections/{id}/groups   {"parts": ["order", 42]}
//	DELETE /connections/{id}/groups   {"parts": ["order", 42]}
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stream", h.Stream)
	r.Post("/connections/{id}/groups", h.Subscribe)
	r.Delete("/connections/{id}/groups", h.Unsubscribe)
	return r
}

// Connected is the first signal patch of a stream.
type Connected struct {
	ConnectionID uuid.UUID     `json:"connectionId"`
	Groups       []group.Group `json:"groups"`
}

// Stream opens an SSE stream. Each message delivered to the connection is
// pushed as a datastar signal patch under "notification".
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := h.hub.Connect(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	defer h.hub.Disconnect(conn.ID())

	joined := make([]group.Group, 0, len(r.URL.Query()["group"]))
	for _, raw := range r.URL.Query()["group"] {
		g, err := h.resolve(ctx, group.Parse(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := h.hub.AddToGroup(conn.ID(), g); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		joined = append(joined, g)
	}

	sse := datastar.NewSSE(w, r)
	if err := patch(sse, "connection", Connected{ConnectionID: conn.ID(), Groups: joined}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-conn.Messages():
			if !ok {
				h.logger.LogAttrs(ctx, slog.LevelDebug, "stream closed by hub", logger.ConnectionID(conn.ID()))
				return
			}
			if err := patch(sse, "notification", env); err != nil {
				h.logger.LogAttrs(ctx, slog.LevelWarn, "stream write failed",
					logger.ConnectionID(conn.ID()),
					logger.Method(env.Method),
					logger.Error(err),
				)
				return
			}
		}
	}
}

// SubscribeRequest names a group by its parts.
type SubscribeRequest struct {
	Parts []any `json:"parts"`
}

// Subscribe adds an open connection to a group.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.hub.AddToGroup)
}

// Unsubscribe removes an open connection from a group.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.hub.RemoveFromGroup)
}

func (h *Handler) membership(w http.ResponseWriter, r *http.Request, apply func(uuid.UUID, group.Group) error) {
	id, err := binder.PathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidConnectionID)
		return
	}

	var req SubscribeRequest
	if err := binder.JSON(r, &req); err != nil {
		writeError(w, binder.Status(err), err)
		return
	}

	g, err := h.resolve(r.Context(), group.New(req.Parts...))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := apply(id, g); err != nil {
		switch {
		case errors.Is(err, broadcast.ErrConnectionNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, broadcast.ErrHubClosed):
			writeError(w, http.StatusServiceUnavailable, err)
		default:
			writeError(w, http.StatusBadRequest, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolve(ctx context.Context, g group.Group) (group.Group, error) {
	if g.IsZero() {
		return group.Group{}, ErrEmptyGroup
	}
	if h.transformer == nil {
		return g, nil
	}
	return h.transformer.Transform(ctx, g)
}

func patch(sse *datastar.ServerSentEventGenerator, key string, value any) error {
	data, err := json.Marshal(map[string]any{key: value})
	if err != nil {
		return err
	}
	return sse.PatchSignals(data)
}

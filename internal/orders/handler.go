package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/entityhub/pkg/binder"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/validator"
)

// OrderService is implemented by *Service.
type OrderService interface {
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	Create(ctx context.Context, in CreateInput) (Order, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc    OrderService
	logger *slog.Logger
}

// NewHandler creates the orders HTTP handler.
func NewHandler(svc OrderService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, logger: log}
}

// Routes mounts:
//
//	POST   /          create
//	GET    /{id}      fetch
//	PATCH  /{id}      partial update
//	DELETE /{id}      delete
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := binder.JSON(r, &in); err != nil {
		writeJSON(w, binder.Status(err), errorBody{Error: err.Error()})
		return
	}
	o, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := binder.PathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := binder.PathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	var in UpdateInput
	if err := binder.JSON(r, &in); err != nil {
		writeJSON(w, binder.Status(err), errorBody{Error: err.Error()})
		return
	}
	o, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := binder.PathUUID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error  string           `json:"error"`
	Fields validator.Errors `json:"fields,omitempty"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validator.ErrValidationFailed):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: validator.Extract(err)})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: ErrNotFound.Error()})
	case errors.Is(err, ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: ErrConflict.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "order request failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

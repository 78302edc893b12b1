package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entityhub/pkg/group"
)

// Sender delivers a method call with a payload to every client subscribed to a group.
type Sender interface {
	Send(ctx context.Context, g group.Group, method string, payload any) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, g group.Group, method string, payload any) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, g group.Group, method string, payload any) error {
	return f(ctx, g, method, payload)
}

// Envelope is the unit transports put on the wire.
type Envelope struct {
	ID      uuid.UUID   `json:"id"`
	Group   group.Group `json:"group"`
	Method  string      `json:"method"`
	Payload any         `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// NewEnvelope stamps a message with a fresh ID and the current time.
func NewEnvelope(g group.Group, method string, payload any) Envelope {
	return Envelope{
		ID:      uuid.New(),
		Group:   g,
		Method:  method,
		Payload: payload,
		SentAt:  time.Now().UTC(),
	}
}

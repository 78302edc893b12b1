package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/transaction"
)

// SendCommand is a send held back until the enclosing transaction commits.
type SendCommand struct {
	Group   group.Group
	Method  string
	Payload any

	sender Sender
}

// Run performs the deferred send.
func (c SendCommand) Run(ctx context.Context) error {
	return c.sender.Send(ctx, c.Group, c.Method, c.Payload)
}

// TransactionalSender wraps a Sender so that sends issued inside an active
// transaction are queued and delivered only after it fully commits.
// Outside a transaction it forwards immediately.
type TransactionalSender struct {
	next   Sender
	logger *slog.Logger
}

// Option configures a TransactionalSender.
type Option func(*TransactionalSender)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *TransactionalSender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTransactionalSender wraps next. It panics when next is nil.
func NewTransactionalSender(next Sender, opts ...Option) *TransactionalSender {
	if next == nil {
		panic(ErrNilSender)
	}
	s := &TransactionalSender{
		next:   next,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send queues the message on the active transaction of ctx, or sends it now
// when there is none.
func (s *TransactionalSender) Send(ctx context.Context, g group.Group, method string, payload any) error {
	tx, ok := transaction.Current(ctx)
	if !ok {
		return s.next.Send(ctx, g, method, payload)
	}

	cmd := SendCommand{Group: g, Method: method, Payload: payload, sender: s.next}
	if err := tx.OnCommit(cmd); err != nil {
		return errors.Join(ErrDeferFailed, err)
	}

	s.logger.DebugContext(ctx, "send deferred until commit",
		slog.String("group", g.String()),
		slog.String("method", method),
		slog.Int("tx_depth", tx.Depth()),
	)
	return nil
}

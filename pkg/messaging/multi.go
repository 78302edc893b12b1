package messaging

import (
	"context"
	"errors"

	"go.uber.org/multierr"

	"github.com/dmitrymomot/entityhub/pkg/group"
)

// MultiSender fans a message out to several senders in order.
// Every sender is attempted; failures are joined into one error.
type MultiSender struct {
	senders []Sender
}

// NewMultiSender ignores nil senders.
func NewMultiSender(senders ...Sender) *MultiSender {
	ms := &MultiSender{senders: make([]Sender, 0, len(senders))}
	for _, s := range senders {
		if s != nil {
			ms.senders = append(ms.senders, s)
		}
	}
	return ms
}

// Send delivers to every sender. The returned error wraps ErrDeliveryFailed
// and each individual failure, see multierr.Errors.
func (m *MultiSender) Send(ctx context.Context, g group.Group, method string, payload any) error {
	var errs error
	for _, s := range m.senders {
		errs = multierr.Append(errs, s.Send(ctx, g, method, payload))
	}
	if errs != nil {
		return errors.Join(ErrDeliveryFailed, errs)
	}
	return nil
}

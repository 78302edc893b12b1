package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// Deliverer receives envelopes relayed from other instances.
// broadcast.Hub implements it.
type Deliverer interface {
	Deliver(ctx context.Context, env messaging.Envelope) error
}

// Relay subscribes to every group channel under the prefix and hands
// messages published by other instances to the local Deliverer.
type Relay struct {
	client redis.UniversalClient
	target Deliverer
	opts   options
}

// NewRelay creates a relay that re-delivers published envelopes to target.
func NewRelay(client redis.UniversalClient, target Deliverer, opts ...Option) *Relay {
	return &Relay{client: client, target: target, opts: newOptions(opts)}
}

// Run blocks until ctx is done, relaying messages. Malformed messages are
// logged and skipped.
func (r *Relay) Run(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, r.opts.prefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return errors.Join(ErrSubscribeFailed, err)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.Handle(ctx, msg.Channel, msg.Payload); err != nil {
				r.opts.logger.LogAttrs(ctx, slog.LevelWarn, "relay message dropped",
					slog.String("channel", msg.Channel),
					logger.Error(err),
				)
			}
		}
	}
}

// Handle decodes one pub/sub message and delivers it unless it was
// published by this instance.
func (r *Relay) Handle(ctx context.Context, channel, payload string) error {
	var msg wireMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return errors.Join(ErrInvalidMessage, err)
	}
	if want := r.opts.prefix + msg.Group.String(); channel != want {
		return fmt.Errorf("%w: channel %q does not match group %q", ErrInvalidMessage, channel, msg.Group)
	}
	if msg.Origin == r.opts.instance {
		return nil
	}
	return r.target.Deliver(ctx, msg.Envelope)
}

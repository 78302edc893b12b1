package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// PublishClient is the part of a Redis client the Publisher uses.
type PublishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// wireMessage is what travels over pub/sub.
type wireMessage struct {
	Origin string `json:"origin"`
	messaging.Envelope
}

// Publisher is a messaging.Sender that publishes each message as JSON to the
// channel "<prefix><group>" so Relays on other instances can deliver it.
type Publisher struct {
	client PublishClient
	opts   options
}

var _ messaging.Sender = (*Publisher)(nil)

// NewPublisher creates a sender that publishes envelopes through client.
func NewPublisher(client PublishClient, opts ...Option) *Publisher {
	return &Publisher{client: client, opts: newOptions(opts)}
}

// InstanceID returns the origin stamped on published messages.
func (p *Publisher) InstanceID() string {
	return p.opts.instance
}

// Channel returns the pub/sub channel of g.
func (p *Publisher) Channel(g group.Group) string {
	return p.opts.prefix + g.String()
}

// Send publishes the envelope on the channel for g.
func (p *Publisher) Send(ctx context.Context, g group.Group, method string, payload any) error {
	data, err := json.Marshal(wireMessage{
		Origin:   p.opts.instance,
		Envelope: messaging.NewEnvelope(g, method, payload),
	})
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	if err := p.client.Publish(ctx, p.Channel(g), data).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

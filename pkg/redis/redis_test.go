package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
	"github.com/dmitrymomot/entityhub/pkg/redis"
)

type published struct {
	channel string
	data    []byte
}

type fakeClient struct {
	out []published
	err error
}

func (f *fakeClient) Publish(_ context.Context, channel string, message any) *goredis.IntCmd {
	f.out = append(f.out, published{channel: channel, data: message.([]byte)})
	return goredis.NewIntResult(1, f.err)
}

type collector struct {
	envs []messaging.Envelope
}

func (c *collector) Deliver(_ context.Context, env messaging.Envelope) error {
	c.envs = append(c.envs, env)
	return nil
}

func TestPublisher_Send(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	pub := redis.NewPublisher(client, redis.WithPrefix("test:"), redis.WithInstanceID("a"))

	require.NoError(t, pub.Send(context.Background(), group.New("Order", 42), "order/42/add", map[string]any{"id": "42"}))
	require.Len(t, client.out, 1)
	assert.Equal(t, "test:order/42", client.out[0].channel)
	assert.Equal(t, "test:order", pub.Channel(group.New("order")))

	var wire map[string]any
	require.NoError(t, json.Unmarshal(client.out[0].data, &wire))
	assert.Equal(t, "a", wire["origin"])
	assert.Equal(t, "a", pub.InstanceID())
	assert.Equal(t, "order/42", wire["group"])
	assert.Equal(t, "order/42/add", wire["method"])
	assert.NotEmpty(t, wire["id"])
}

func TestPublisher_SendErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	pub := redis.NewPublisher(&fakeClient{err: boom})
	err := pub.Send(context.Background(), group.New("order"), "order/add", 1)
	assert.ErrorIs(t, err, redis.ErrPublishFailed)
	assert.ErrorIs(t, err, boom)

	err = redis.NewPublisher(&fakeClient{}).Send(context.Background(), group.New("order"), "order/add", func() {})
	assert.ErrorIs(t, err, redis.ErrPublishFailed)
}

func TestRelay_Handle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &fakeClient{}
	remote := redis.NewPublisher(client, redis.WithPrefix("test:"), redis.WithInstanceID("remote"))
	local := redis.NewPublisher(client, redis.WithPrefix("test:"), redis.WithInstanceID("local"))

	require.NoError(t, remote.Send(ctx, group.New("order", 1), "order/1/update", "x"))
	require.NoError(t, local.Send(ctx, group.New("order", 1), "order/1/update", "y"))

	target := &collector{}
	relay := redis.NewRelay(nil, target, redis.WithPrefix("test:"), redis.WithInstanceID("local"))

	for _, msg := range client.out {
		require.NoError(t, relay.Handle(ctx, msg.channel, string(msg.data)))
	}

	require.Len(t, target.envs, 1, "own messages must be skipped")
	env := target.envs[0]
	assert.Equal(t, group.New("order", 1), env.Group)
	assert.Equal(t, "order/1/update", env.Method)
	assert.Equal(t, "x", env.Payload)
	assert.WithinDuration(t, time.Now(), env.SentAt, time.Minute)

	assert.ErrorIs(t, relay.Handle(ctx, "test:order/1", "{not json"), redis.ErrInvalidMessage)
	assert.ErrorIs(t, relay.Handle(ctx, "test:order/2", string(client.out[0].data)), redis.ErrInvalidMessage)
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://bad", ConnectTimeout: time.Second})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

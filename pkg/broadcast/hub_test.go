package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entityhub/pkg/broadcast"
	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

func receive(t *testing.T, conn *broadcast.Connection) messaging.Envelope {
	t.Helper()
	select {
	case env, ok := <-conn.Messages():
		require.True(t, ok, "messages channel closed")
		return env
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return messaging.Envelope{}
	}
}

func assertEmpty(t *testing.T, conn *broadcast.Connection) {
	t.Helper()
	select {
	case env := <-conn.Messages():
		t.Fatalf("unexpected message %q", env.Method)
	default:
	}
}

func TestHub_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hub := broadcast.NewHub()
	t.Cleanup(func() { _ = hub.Close() })

	all, err := hub.Connect(ctx)
	require.NoError(t, err)
	one, err := hub.Connect(ctx)
	require.NoError(t, err)
	other, err := hub.Connect(ctx)
	require.NoError(t, err)

	require.NoError(t, hub.AddToGroup(all.ID(), group.New("order")))
	require.NoError(t, hub.AddToGroup(one.ID(), group.New("Order", 42)))
	require.NoError(t, hub.AddToGroup(other.ID(), group.New("order", 7)))

	require.NoError(t, hub.Send(ctx, group.New("order"), "order/add", "payload"))
	require.NoError(t, hub.Send(ctx, group.New("order", 42), "order/42/add", "payload"))

	env := receive(t, all)
	assert.Equal(t, "order/add", env.Method)
	assert.Equal(t, group.New("order"), env.Group)
	assert.Equal(t, "payload", env.Payload)
	assert.NotEqual(t, uuid.Nil, env.ID)
	assertEmpty(t, all)

	assert.Equal(t, "order/42/add", receive(t, one).Method)
	assertEmpty(t, other)
}

func TestHub_Groups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hub := broadcast.NewHub()
	t.Cleanup(func() { _ = hub.Close() })

	conn, err := hub.Connect(ctx)
	require.NoError(t, err)

	g := group.New("order", 42)
	require.NoError(t, hub.AddToGroup(conn.ID(), g))
	require.NoError(t, hub.AddToGroup(conn.ID(), g))
	assert.Equal(t, 1, hub.Members(g))
	assert.Equal(t, []group.Group{g}, hub.Groups(conn.ID()))

	require.NoError(t, hub.RemoveFromGroup(conn.ID(), g))
	assert.Equal(t, 0, hub.Members(g))
	assert.Empty(t, hub.Groups(conn.ID()))

	require.NoError(t, hub.Send(ctx, g, "order/42/update", 1))
	assertEmpty(t, conn)

	assert.ErrorIs(t, hub.AddToGroup(uuid.New(), g), broadcast.ErrConnectionNotFound)
	assert.ErrorIs(t, hub.RemoveFromGroup(uuid.New(), g), broadcast.ErrConnectionNotFound)
	assert.ErrorIs(t, hub.AddToGroup(conn.ID(), group.Group{}), broadcast.ErrEmptyGroup)
	assert.Nil(t, hub.Groups(uuid.New()))
}

func TestHub_Disconnect(t *testing.T) {
	t.Parallel()

	t.Run("explicit", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub()
		t.Cleanup(func() { _ = hub.Close() })

		conn, err := hub.Connect(context.Background())
		require.NoError(t, err)
		require.NoError(t, hub.AddToGroup(conn.ID(), group.New("order")))

		hub.Disconnect(conn.ID())
		hub.Disconnect(conn.ID())

		_, ok := hub.Connection(conn.ID())
		assert.False(t, ok)
		assert.Equal(t, 0, hub.Members(group.New("order")))
		_, open := <-conn.Messages()
		assert.False(t, open)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub()
		t.Cleanup(func() { _ = hub.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		conn, err := hub.Connect(ctx)
		require.NoError(t, err)

		cancel()
		select {
		case <-conn.Done():
		case <-time.After(time.Second):
			t.Fatal("connection not closed after context cancellation")
		}
		_, ok := hub.Connection(conn.ID())
		assert.False(t, ok)
	})

	t.Run("slow consumer", func(t *testing.T) {
		t.Parallel()
		hub := broadcast.NewHub(broadcast.WithBufferSize(1))
		t.Cleanup(func() { _ = hub.Close() })

		ctx := context.Background()
		conn, err := hub.Connect(ctx)
		require.NoError(t, err)
		g := group.New("order")
		require.NoError(t, hub.AddToGroup(conn.ID(), g))

		require.NoError(t, hub.Send(ctx, g, "order/add", 1))
		require.NoError(t, hub.Send(ctx, g, "order/add", 2))

		assert.Eventually(t, func() bool {
			_, ok := hub.Connection(conn.ID())
			return !ok
		}, time.Second, 10*time.Millisecond)

		env, ok := <-conn.Messages()
		require.True(t, ok)
		assert.Equal(t, 1, env.Payload)
		_, ok = <-conn.Messages()
		assert.False(t, ok)
	})
}

func TestHub_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hub := broadcast.NewHub()

	conn, err := hub.Connect(ctx)
	require.NoError(t, err)

	require.NoError(t, hub.Close())
	require.NoError(t, hub.Close())

	<-conn.Done()
	_, err = hub.Connect(ctx)
	assert.ErrorIs(t, err, broadcast.ErrHubClosed)
	assert.ErrorIs(t, hub.Send(ctx, group.New("order"), "order/add", 1), broadcast.ErrHubClosed)
	assert.ErrorIs(t, hub.AddToGroup(conn.ID(), group.New("order")), broadcast.ErrHubClosed)
}

func TestHub_AsSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hub := broadcast.NewHub()
	t.Cleanup(func() { _ = hub.Close() })

	conn, err := hub.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, hub.AddToGroup(conn.ID(), group.New("order")))

	var sender messaging.Sender = messaging.NewMultiSender(hub)
	require.NoError(t, sender.Send(ctx, group.New("order"), "order/delete", []any{"42"}))
	assert.Equal(t, []any{"42"}, receive(t, conn).Payload)
}

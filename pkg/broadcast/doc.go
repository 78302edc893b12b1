// Package broadcast is the in-process delivery end of entity notifications.
//
// A Hub tracks client connections and the groups each one joined. It
// implements messaging.Sender, so it can sit behind a notify.Dispatcher
// directly or inside a messaging.MultiSender next to a cross-instance
// publisher:
//
//	hub := broadcast.NewHub(broadcast.WithBufferSize(64))
//	defer hub.Close()
//
//	conn, err := hub.Connect(r.Context())
//	if err != nil {
//		return err
//	}
//	_ = hub.AddToGroup(conn.ID(), group.New("order", 42))
//
//	for env := range conn.Messages() {
//		write(env.Method, env.Payload)
//	}
//
// Delivery never blocks. A connection whose buffer is full is disconnected
// and its Messages channel closed, so a stalled client cannot hold back the
// transaction that produced the notification. Connections also end when the
// context passed to Connect is done.
package broadcast

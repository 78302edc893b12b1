// Package redis connects entityhub instances through Redis pub/sub.
//
// Connect and Healthcheck manage the client. Publisher is a messaging.Sender
// that publishes every notification to the channel "<prefix><group>"; Relay
// pattern-subscribes to "<prefix>*" and hands messages from other instances
// to the local broadcast.Hub. Together they let a client connected to any
// instance receive notifications produced on every instance:
//
//	instance := uuid.NewString()
//	publisher := redis.NewPublisher(client, redis.WithInstanceID(instance))
//	relay := redis.NewRelay(client, hub, redis.WithInstanceID(instance))
//	go relay.Run(ctx)
//
//	sender := messaging.NewMultiSender(hub, publisher)
//
// The relay skips messages carrying its own instance ID, so the local hub is
// not served twice.
package redis

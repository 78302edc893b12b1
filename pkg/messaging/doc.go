// Package messaging defines how notifications leave the process.
//
// Sender is the single capability every transport implements: deliver a named
// method call with a payload to a group of subscribed clients. The package
// ships two decorators:
//
//   - TransactionalSender holds sends issued inside an active
//     transaction.Transaction and releases them, in order, when the transaction
//     commits. A rolled back transaction drops them.
//   - MultiSender delivers to several transports, for example the local hub and
//     a Redis publisher.
//
// Example:
//
//	sender := messaging.NewTransactionalSender(
//		messaging.NewMultiSender(hub, publisher),
//		messaging.WithLogger(log),
//	)
//
//	err := transaction.Run(ctx, func(ctx context.Context) error {
//		// queued, not yet delivered
//		return sender.Send(ctx, group.New("order", 42), "order/42/update", data)
//	})
//
// Envelope is the wire representation shared by transports.
package messaging

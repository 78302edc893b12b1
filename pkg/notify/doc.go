// Package notify fans entity change events out to delivery groups.
//
// For each entity type a Registry collects the strategies that decide who
// hears about a change:
//
//   - GroupSelector values map an event to zero or more groups. Built-in
//     selectors cover the common shapes: the entity name ("order"), the name
//     followed by the keys ("order/42"), custom names, and prefixed variants
//     such as "tenant/acme/order".
//   - An optional GroupTransformer rewrites each destination, e.g. to scope it
//     to a tenant, without changing the method name clients listen for.
//   - An optional PayloadTransformer per Kind shapes what is sent.
//
// A Dispatcher handles one Kind. Dispatch runs the selectors in order,
// deduplicates their groups, computes the payload once and sends it to every
// group in canonical order. The method name is the original group with the
// kind tag appended, so subscribers of "order/42" receive "order/42/add",
// "order/42/update" and "order/42/delete".
//
// Default payloads are the entity for adds, its keys for deletes, and an
// UpdateData with the keys and a JSON Patch for updates. An update whose
// patch is empty sends nothing, as does any payload transformer returning
// nil or an empty collection.
//
// # Usage
//
//	sender := messaging.NewTransactionalSender(hub)
//
//	orders := notify.NewRegistry[Order](sender, notify.WithLogger(log)).
//		UseEntityGroup().
//		UseEntityGroupWithKeys().
//		Processor(notify.ActionAll)
//
//	err := transaction.Run(ctx, func(ctx context.Context) error {
//		if err := repo.Insert(ctx, order); err != nil {
//			return err
//		}
//		return orders.OnAdded(ctx, order) // delivered after commit
//	})
//
// # Errors
//
// Selector, transformer and sender failures abort the dispatch and are
// returned joined with ErrSelectorFailed, ErrTransformFailed or
// ErrSendFailed. Groups already sent to stay sent. WithBestEffort keeps
// going after per-group failures and returns them combined.
//
// # Observability
//
// Each Dispatch opens a "notify.dispatch" span on the configured tracer
// (the global otel provider by default). WithMetrics attaches Prometheus
// counters for dispatches, sends, suppressed dispatches and failures by stage.
package notify

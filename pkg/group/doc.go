// Package group defines Group, the delivery address used to fan entity change
// notifications out to subscribers.
//
// A Group is an ordered list of parts such as an entity name and its key:
//
//	g := group.New("Order", 42) // "order/42"
//	g.Append("add")             // "order/42/add"
//	g.Prepend("tenant", "acme") // "tenant/acme/order/42"
//
// Parts are formatted with fmt, joined with Separator and lower-cased exactly once
// when the group is built. Two groups are equal when their canonical strings
// match, so group.New("A", "b") == group.New("a", "B").
//
// Group is a small comparable value. Prepend and Append never modify the receiver.
package group

// Package orders is the example domain of entityhubd: orders stored in
// Postgres whose changes are pushed to subscribers through the notify
// pipeline.
//
// Every mutation runs in pg.WithTx, so the order row and its notifications
// commit together. Subscribers listen on "order", "order/{id}" or
// "customer/{customer}/order".
package orders

// Package httpserver runs the entityhub HTTP surface with graceful shutdown.
//
// Run binds the listener, serves until the context is cancelled or the process
// receives SIGINT/SIGTERM, then calls Shutdown. Event streams never become
// idle on their own, so Shutdown first runs the drain hooks registered with
// WithDrainHook (typically closing the broadcast hub) and only then waits for
// in-flight requests.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithDrainHook(func(context.Context) { hub.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler provides liveness and readiness endpoints from named probes.
package httpserver

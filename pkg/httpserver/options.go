package httpserver

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	addr              string
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	drainHooks        []func(context.Context)
}

// WithAddr sets the listen address. It panics on an empty address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return func(o *options) { o.addr = addr }
}

// WithReadHeaderTimeout sets http.Server.ReadHeaderTimeout.
func WithReadHeaderTimeout(d time.Duration) Option {
	mustPositive("read header timeout", d)
	return func(o *options) { o.readHeaderTimeout = d }
}

// WithWriteTimeout sets http.Server.WriteTimeout. The default is no timeout,
// which long-lived streams need.
func WithWriteTimeout(d time.Duration) Option {
	mustPositive("write timeout", d)
	return func(o *options) { o.writeTimeout = d }
}

// WithIdleTimeout sets http.Server.IdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	mustPositive("idle timeout", d)
	return func(o *options) { o.idleTimeout = d }
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	mustPositive("shutdown timeout", d)
	return func(o *options) { o.shutdownTimeout = d }
}

// WithLogger sets the server logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDrainHook registers a hook that runs when shutdown begins, before
// in-flight requests are awaited. Long-lived handlers such as event streams
// must be released here, otherwise shutdown blocks until its timeout.
func WithDrainHook(h func(context.Context)) Option {
	if h == nil {
		panic("httpserver: nil drain hook")
	}
	return func(o *options) { o.drainHooks = append(o.drainHooks, h) }
}

func mustPositive(name string, d time.Duration) {
	if d <= 0 {
		panic("httpserver: " + name + " must be positive")
	}
}

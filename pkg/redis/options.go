package redis

import (
	"log/slog"

	"github.com/google/uuid"
)

const defaultPrefix = "entityhub:"

type options struct {
	prefix   string
	instance string
	logger   *slog.Logger
}

// Option configures a Publisher or Relay.
type Option func(*options)

// WithPrefix sets the channel prefix. Publisher and Relay must agree on it.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithInstanceID identifies this process. A Relay ignores messages published
// by a Publisher with the same instance ID, since those were already
// delivered locally.
func WithInstanceID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.instance = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		prefix:   defaultPrefix,
		instance: uuid.NewString(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package redis

import "time"

// Config is the Redis connection and fan-out configuration.
type Config struct {
	// ConnectionURL, e.g. "redis://:password@localhost:6379/0".
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	// ChannelPrefix namespaces the pub/sub channels, one channel per group.
	ChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" envDefault:"entityhub:"`
	// Enabled turns cross-instance fan-out on. A single instance does not need it.
	Enabled bool `env:"REDIS_ENABLED" envDefault:"false"`
}

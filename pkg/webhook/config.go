package webhook

import "time"

// Config enables webhook delivery when URL is set.
type Config struct {
	URL      string        `env:"WEBHOOK_URL"`
	Secret   string        `env:"WEBHOOK_SECRET"`
	Attempts int           `env:"WEBHOOK_ATTEMPTS" envDefault:"3"`
	Timeout  time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
}

package webhook

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff returns the delay before retry attempt n (n starts at 1).
type Backoff interface {
	Next(attempt int) time.Duration
}

// ExponentialBackoff doubles (by Multiplier) from Initial up to Max, with
// optional +/- Jitter fraction.
type ExponentialBackoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// Next returns Initial*Multiplier^(attempt-1) capped at Max and spread by
// Jitter. Attempts start at 1.
func (e ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	initial, maxDelay, mult := e.Initial, e.Max, e.Multiplier
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	if mult <= 1 {
		mult = 2
	}

	d := float64(initial) * math.Pow(mult, float64(attempt-1))
	if e.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*e.Jitter
	}
	return time.Duration(min(d, float64(maxDelay)))
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff time.Duration

// Next returns the fixed delay for every attempt.
func (f FixedBackoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(f)
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// Sender is a messaging.Sender that POSTs every notification as a JSON
// envelope to one HTTP endpoint. Transient failures (network errors, 429 and
// 5xx) are retried; other 4xx answers fail immediately with ErrRejected.
type Sender struct {
	url      string
	secret   string
	client   *http.Client
	attempts int
	backoff  Backoff
	now      func() time.Time
	logger   *slog.Logger
}

var _ messaging.Sender = (*Sender)(nil)

type Option func(*Sender)

// WithSecret signs each delivery; see Sign.
func WithSecret(secret string) Option {
	return func(s *Sender) { s.secret = secret }
}

// WithHTTPClient replaces the default client. Its timeout bounds a single attempt.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		if c != nil {
			s.client = c
		}
	}
}

// WithRetry sets the total number of attempts and the delay between them.
func WithRetry(attempts int, b Backoff) Option {
	return func(s *Sender) {
		s.attempts = max(attempts, 1)
		if b != nil {
			s.backoff = b
		}
	}
}

// WithLogger sets the logger for delivery attempts.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSender returns a Sender for url. It panics on an empty url.
func NewSender(url string, opts ...Option) *Sender {
	if url == "" {
		panic(ErrEmptyURL)
	}
	s := &Sender{
		url:      url,
		client:   &http.Client{Timeout: 5 * time.Second},
		attempts: 3,
		backoff:  ExponentialBackoff{Jitter: 0.1},
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds a Sender from cfg, or returns nil when cfg.URL is empty.
func NewFromConfig(cfg Config, opts ...Option) *Sender {
	if cfg.URL == "" {
		return nil
	}
	base := []Option{
		WithSecret(cfg.Secret),
		WithRetry(cfg.Attempts, nil),
	}
	if cfg.Timeout > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	return NewSender(cfg.URL, append(base, opts...)...)
}

// Send posts the envelope for g and method. Retryable failures are attempted
// again with the configured backoff until the attempts run out or ctx ends.
func (s *Sender) Send(ctx context.Context, g group.Group, method string, payload any) error {
	env := messaging.NewEnvelope(g, method, payload)
	body, err := json.Marshal(env)
	if err != nil {
		return errors.Join(ErrEncodePayload, err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, s.backoff.Next(attempt-1)); err != nil {
				return errors.Join(ErrDelivery, lastErr, err)
			}
		}

		retry, err := s.post(ctx, env, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
		s.logger.WarnContext(ctx, "webhook delivery attempt failed",
			logger.GroupName(g),
			logger.Method(method),
			slog.Int("attempt", attempt),
			logger.Error(err),
		)
	}
	return errors.Join(ErrDelivery, lastErr)
}

// post performs one delivery and reports whether a failure is worth retrying.
func (s *Sender) post(ctx context.Context, env messaging.Envelope, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return false, errors.Join(ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderID, env.ID.String())
	req.Header.Set(HeaderMethod, env.Method)
	if s.secret != "" {
		ts := s.now()
		req.Header.Set(HeaderTimestamp, fmt.Sprint(ts.Unix()))
		req.Header.Set(HeaderSignature, Sign(s.secret, ts, body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("webhook: endpoint answered %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

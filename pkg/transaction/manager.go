package transaction

import (
	"log/slog"
	"sync"
)

// Manager owns the single live Transaction of one logical scope, such as an
// HTTP request. Nested begins within the scope share that Transaction until it
// completes; the next Begin after completion starts a fresh one.
type Manager struct {
	mu     sync.Mutex
	tx     *Transaction
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger handed to transactions created by the Manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a Manager with no live transaction.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin returns the scope's live Transaction with its depth incremented, or
// starts a new one if there is none or the previous one has completed.
func (m *Manager) Begin() *Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tx == nil || m.tx.IsCommitted() {
		m.tx = newTransaction(m.logger)
		return m.tx
	}

	m.tx.Begin()
	return m.tx
}

// Current returns the live Transaction if one is active.
func (m *Manager) Current() (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tx == nil || m.tx.IsCommitted() {
		return nil, false
	}
	return m.tx, true
}

// Active reports whether a transaction is currently active in the scope.
func (m *Manager) Active() bool {
	_, ok := m.Current()
	return ok
}

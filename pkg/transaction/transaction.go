package transaction

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// Action is a unit of work deferred until a transaction commits or rolls back.
type Action interface {
	Run(ctx context.Context) error
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context) error

// Run calls f(ctx).
func (f ActionFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// State describes where a transaction is in its lifecycle.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Transaction is a reference-counted container of deferred actions.
// Nested Begin calls share one outcome: commit actions run only when the
// outermost Commit brings the depth back to zero, and any Rollback discards them.
//
// A Transaction belongs to a single logical scope. Its methods are safe to call
// from several goroutines, but the order of Begin/Commit/Rollback calls is the
// caller's responsibility.
type Transaction struct {
	mu         sync.Mutex
	depth      int
	rolledBack bool
	onCommit   []Action
	onRollback []Action
	logger     *slog.Logger
}

func newTransaction(logger *slog.Logger) *Transaction {
	return &Transaction{
		depth:  1,
		logger: logger,
	}
}

// Begin increments the nesting depth.
func (t *Transaction) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.depth++
}

// Depth returns the current nesting depth.
func (t *Transaction) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.depth
}

// IsCommitted reports whether the transaction is no longer pending,
// either because the depth reached zero or because it was rolled back.
func (t *Transaction) IsCommitted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal()
}

// WasRolledBack reports whether Rollback has run.
func (t *Transaction) WasRolledBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolledBack
}

// State returns the lifecycle state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.rolledBack:
		return StateRolledBack
	case t.depth <= 0:
		return StateCommitted
	default:
		return StateActive
	}
}

// OnCommit queues an action that runs once the outermost Commit completes.
func (t *Transaction) OnCommit(action Action) error {
	return t.enqueue(&t.onCommit, action)
}

// OnRollback queues an action that runs when the transaction is rolled back.
func (t *Transaction) OnRollback(action Action) error {
	return t.enqueue(&t.onRollback, action)
}

// PendingCommit returns a copy of the queued commit actions.
func (t *Transaction) PendingCommit() []Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.onCommit)
}

// PendingRollback returns a copy of the queued rollback actions.
func (t *Transaction) PendingRollback() []Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.onRollback)
}

// Commit decrements the depth. When the depth reaches zero the commit queue,
// as it was at that moment, is run in registration order. The first failing
// action stops the drain and its error is returned. Commit on a completed
// transaction is a no-op.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	if t.terminal() {
		t.mu.Unlock()
		return nil
	}

	t.depth--
	if t.depth > 0 {
		t.mu.Unlock()
		return nil
	}

	actions := t.onCommit
	t.onCommit = nil
	t.onRollback = nil
	t.mu.Unlock()

	t.logger.DebugContext(ctx, "committing transaction", slog.Int("actions", len(actions)))
	return drain(ctx, actions)
}

// Rollback marks the transaction as rolled back and runs the rollback queue in
// registration order. Queued commit actions are discarded. Only the first call
// has an effect, and a committed transaction cannot be rolled back.
//
// The rollback queue runs even when ctx is already cancelled; actions receive
// ctx values without its cancellation.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	if t.terminal() {
		t.mu.Unlock()
		return nil
	}

	t.rolledBack = true
	actions := t.onRollback
	t.onCommit = nil
	t.onRollback = nil
	t.mu.Unlock()

	t.logger.DebugContext(ctx, "rolling back transaction", slog.Int("actions", len(actions)))
	return drain(context.WithoutCancel(ctx), actions)
}

// Close releases the transaction. If it is still active, meaning Commit never
// brought the depth to zero, it is rolled back.
func (t *Transaction) Close(ctx context.Context) error {
	t.mu.Lock()
	active := !t.terminal()
	t.mu.Unlock()

	if active {
		return t.Rollback(ctx)
	}
	return nil
}

func (t *Transaction) enqueue(queue *[]Action, action Action) error {
	if action == nil {
		return ErrNilAction
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminal() {
		return ErrTransactionComplete
	}
	*queue = append(*queue, action)
	return nil
}

func (t *Transaction) terminal() bool {
	return t.depth <= 0 || t.rolledBack
}

func drain(ctx context.Context, actions []Action) error {
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := action.Run(ctx); err != nil {
			return errors.Join(ErrActionFailed, err)
		}
	}
	return nil
}

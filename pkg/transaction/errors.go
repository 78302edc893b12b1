package transaction

import "errors"

var (
	// ErrTransactionComplete is returned when an action is registered on a
	// transaction that has already committed or rolled back.
	ErrTransactionComplete = errors.New("transaction: already complete")

	// ErrActionFailed wraps an error returned by a deferred commit or rollback action.
	ErrActionFailed = errors.New("transaction: deferred action failed")

	// ErrNilAction is returned when a nil action is registered.
	ErrNilAction = errors.New("transaction: nil action")
)

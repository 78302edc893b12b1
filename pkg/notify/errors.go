package notify

import "errors"

var (
	ErrSelectorFailed  = errors.New("notify: group selector failed")
	ErrTransformFailed = errors.New("notify: transformer failed")
	ErrSendFailed      = errors.New("notify: send failed")
	ErrKindMismatch    = errors.New("notify: event kind does not match dispatcher")

	ErrGroupTransformerSet   = errors.New("notify: group transformer already registered")
	ErrPayloadTransformerSet = errors.New("notify: payload transformer already registered for kind")
	ErrInvalidKind           = errors.New("notify: invalid kind")
	ErrNilSelector           = errors.New("notify: nil selector")
)

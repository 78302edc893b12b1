package messaging

import "errors"

var (
	ErrNilSender      = errors.New("messaging: nil sender")
	ErrDeferFailed    = errors.New("messaging: failed to defer send until commit")
	ErrDeliveryFailed = errors.New("messaging: delivery failed")
)

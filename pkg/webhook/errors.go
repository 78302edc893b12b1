package webhook

import "errors"

var (
	ErrEmptyURL         = errors.New("webhook: endpoint URL is required")
	ErrEncodePayload    = errors.New("webhook: failed to encode payload")
	ErrDelivery         = errors.New("webhook: delivery failed")
	ErrRejected         = errors.New("webhook: endpoint rejected the notification")
	ErrInvalidSignature = errors.New("webhook: invalid signature")
	ErrSignatureExpired = errors.New("webhook: signature timestamp outside tolerance")
)

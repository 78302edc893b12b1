package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	ErrRedisNotReady                = errors.New("redis: server did not become ready in time")
	ErrEmptyConnectionURL           = errors.New("redis: empty connection URL")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	ErrPublishFailed                = errors.New("redis: publish failed")
	ErrInvalidMessage               = errors.New("redis: invalid relay message")
	ErrSubscribeFailed              = errors.New("redis: subscribe failed")
)

package hubhttp

import "errors"

var (
	ErrInvalidConnectionID = errors.New("hubhttp: invalid connection id")
	ErrEmptyGroup          = errors.New("hubhttp: group parts are required")
)

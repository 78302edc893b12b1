package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder: expected application/json")
	ErrInvalidJSON          = errors.New("binder: invalid JSON body")
	ErrBodyTooLarge         = errors.New("binder: request body too large")
	ErrInvalidPathParam     = errors.New("binder: invalid path parameter")
)

package broadcast

import "errors"

var (
	ErrHubClosed          = errors.New("broadcast: hub is closed")
	ErrConnectionNotFound = errors.New("broadcast: connection not found")
	ErrEmptyGroup         = errors.New("broadcast: empty group")
)

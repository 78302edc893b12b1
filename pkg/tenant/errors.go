package tenant

import "errors"

var ErrInvalidID = errors.New("tenant: invalid tenant identifier")

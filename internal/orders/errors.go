package orders

import "errors"

var (
	ErrNotFound  = errors.New("orders: order not found")
	ErrConflict  = errors.New("orders: order already exists")
	ErrStorage   = errors.New("orders: storage failure")
	ErrNotifying = errors.New("orders: failed to queue notification")
)

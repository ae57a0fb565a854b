package order

import "errors"

var (
	ErrInvalidQuantity = errors.New("order quantity must be > 0")
	ErrInvalidSide     = errors.New("invalid order side")
	ErrMissingPrice    = errors.New("limit/stop order requires a price")
	ErrUnknownOrder    = errors.New("unknown order")
	ErrInvalidState    = errors.New("invalid order state for operation")
)

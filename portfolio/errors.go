package portfolio

import "errors"

var (
	ErrInsufficientData = errors.New("equity curve needs at least 2 points")
	ErrBadFill          = errors.New("fill has invalid quantity or price")
)

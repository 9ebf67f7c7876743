package calculator

import "errors"

var (
	// ErrInsufficientData means the series is shorter than the indicator needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidWindow means a window or period was not positive.
	ErrInvalidWindow = errors.New("window must be positive")
)

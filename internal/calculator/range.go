package calculator

import (
	"errors"
	"fmt"
	"math"
)

// SupportResistance returns the lowest and highest of the last window closes.
func SupportResistance(closes []float64, window int) (support, resistance float64, err error) {
	if window <= 0 {
		return 0, 0, ErrInvalidWindow
	}
	if len(closes) < window {
		return 0, 0, fmt.Errorf("support/resistance(%d) over %d points: %w", window, len(closes), ErrInsufficientData)
	}
	support, resistance = MinMax(closes[len(closes)-window:])
	return support, resistance, nil
}

// MinMax scans values for the lowest and highest entry.
// Returns +Inf/-Inf for an empty slice.
func MinMax(values []float64) (low, high float64) {
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high
}

// Tail returns the last n values, or all of them when fewer exist.
func Tail(values []float64, n int) []float64 {
	if n < len(values) {
		return values[len(values)-n:]
	}
	return values
}

// RangePosition returns where price sits within [low, high] as a fraction.
// The result is not clamped: prices below low are negative.
func RangePosition(price, low, high float64) (float64, error) {
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	if high == low {
		return 0, errors.New("empty range")
	}
	return (price - low) / (high - low), nil
}

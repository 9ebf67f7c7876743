package calculator

import (
	"fmt"
	"math"
)

// SMA computes the simple moving average of the last window prices.
func SMA(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < window {
		return 0, fmt.Errorf("sma(%d) over %d points: %w", window, len(prices), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(prices) - window; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(window), nil
}

// EMA returns the last value of the exponential moving average with
// smoothing 2/(window+1), seeded with the first price and applied over the whole series.
func EMA(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < window {
		return 0, fmt.Errorf("ema(%d) over %d points: %w", window, len(prices), ErrInsufficientData)
	}
	series := EMASeries(prices, window)
	return series[len(series)-1], nil
}

// EMASeries returns the EMA recursion for every point of prices.
// It does not enforce a minimum length.
func EMASeries(prices []float64, window int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 || window <= 0 {
		return out
	}
	alpha := 2.0 / float64(window+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RollingSMA returns the SMA ending at every bar. Entries are NaN during the
// first window-1 bars and whenever the window contains a NaN.
func RollingSMA(prices []float64, window int) []float64 {
	out := make([]float64, len(prices))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	sum, nans := 0.0, 0
	for i, p := range prices {
		if math.IsNaN(p) {
			nans++
		} else {
			sum += p
		}
		if i >= window {
			if old := prices[i-window]; math.IsNaN(old) {
				nans--
			} else {
				sum -= old
			}
		}
		if i < window-1 || nans > 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

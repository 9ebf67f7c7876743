package calculator

import "fmt"

// RSI computes the relative strength index from the simple averages of the
// gains and losses over the last period first differences.
// Requires at least period+1 prices. Returns 100 when there were no losses.
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidWindow
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("rsi(%d) over %d points: %w", period, len(prices), ErrInsufficientData)
	}

	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

package calculator

import "fmt"

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	// MACDMinPoints is the shortest series MACD is computed for.
	MACDMinPoints = 35
)

// MACD returns the last MACD line (EMA12 - EMA26) and its EMA9 signal line.
func MACD(prices []float64) (line, signal float64, err error) {
	if len(prices) < MACDMinPoints {
		return 0, 0, fmt.Errorf("macd over %d points: %w", len(prices), ErrInsufficientData)
	}
	fast := EMASeries(prices, macdFast)
	slow := EMASeries(prices, macdSlow)
	macd := make([]float64, len(prices))
	for i := range prices {
		macd[i] = fast[i] - slow[i]
	}
	sig := EMASeries(macd, macdSignal)
	n := len(prices) - 1
	return macd[n], sig[n], nil
}

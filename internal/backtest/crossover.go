// Package backtest simulates a long/flat SMA-crossover strategy over daily bars.
package backtest

import (
	"errors"
	"fmt"
	"math"

	"QuantSuite/internal/calculator"
	"QuantSuite/internal/model"
)

// MinValidRows is the number of bars that must remain after the warm-up.
const MinValidRows = 10

var (
	// ErrInsufficientHistory means there are too few bars for the chosen windows.
	ErrInsufficientHistory = errors.New("insufficient history for backtest")
	// ErrConfiguration means the windows cannot form a meaningful crossover.
	ErrConfiguration = errors.New("invalid backtest configuration")
)

// Run backtests the crossover of SMA(fast) over SMA(slow). A bar is held when
// the fast average was above the slow one on the previous bar.
func Run(bars []model.OHLCV, fast, slow int) (*model.BacktestResult, error) {
	if fast <= 0 || slow <= 0 {
		return nil, fmt.Errorf("fast=%d slow=%d: %w", fast, slow, calculator.ErrInvalidWindow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("fast window %d must be smaller than slow window %d: %w", fast, slow, ErrConfiguration)
	}
	if need := max(fast, slow) + MinValidRows; len(bars) < need {
		return nil, fmt.Errorf("need %d bars, have %d: %w", need, len(bars), ErrInsufficientHistory)
	}

	closes := model.Closes(bars)
	fastSMA := calculator.RollingSMA(closes, fast)
	slowSMA := calculator.RollingSMA(closes, slow)
	if countDefined(fastSMA) < MinValidRows || countDefined(slowSMA) < MinValidRows {
		return nil, fmt.Errorf("fewer than %d defined averages: %w", MinValidRows, ErrInsufficientHistory)
	}

	rows := make([]model.BacktestRow, 0, len(bars))
	for i, b := range bars {
		if math.IsNaN(closes[i]) || math.IsNaN(fastSMA[i]) || math.IsNaN(slowSMA[i]) {
			continue
		}
		rows = append(rows, model.BacktestRow{
			Time:  b.Time,
			Close: closes[i],
			Fast:  fastSMA[i],
			Slow:  slowSMA[i],
		})
	}
	if len(rows) < MinValidRows {
		return nil, fmt.Errorf("%d usable rows: %w", len(rows), ErrInsufficientHistory)
	}

	bh, strat := 1.0, 1.0
	for i := range rows {
		r := &rows[i]
		if r.Fast > r.Slow {
			r.Signal = 1
		}
		if i > 0 {
			prev := rows[i-1]
			r.Position = prev.Signal
			if prev.Close != 0 {
				r.Return = r.Close/prev.Close - 1
			}
		}
		r.StrategyReturn = r.Return * float64(r.Position)
		bh *= 1 + r.Return
		strat *= 1 + r.StrategyReturn
		r.BuyHoldCurve = bh
		r.StrategyCurve = strat
	}

	return &model.BacktestResult{
		Fast:              fast,
		Slow:              slow,
		Rows:              rows,
		StrategyReturnPct: (strat - 1) * 100,
		BuyHoldReturnPct:  (bh - 1) * 100,
	}, nil
}

func countDefined(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

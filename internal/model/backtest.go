package model

import "time"

// BacktestRow is one bar of an SMA-crossover simulation.
type BacktestRow struct {
	Time           time.Time
	Close          float64
	Fast           float64
	Slow           float64
	Signal         int
	Position       int
	Return         float64
	StrategyReturn float64
	BuyHoldCurve   float64
	StrategyCurve  float64
}

// BacktestResult is the output of a long/flat crossover backtest.
type BacktestResult struct {
	Symbol            string
	Fast              int
	Slow              int
	Rows              []BacktestRow
	StrategyReturnPct float64
	BuyHoldReturnPct  float64
}

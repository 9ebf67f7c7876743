package model

import (
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the fetched history of one symbol.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Tick is a single observed live price.
type Tick struct {
	Time  time.Time
	Price float64
}

// Period names a lookback range and bar interval, e.g. {"6mo", "1d"}.
type Period struct {
	Range    string `yaml:"range"`
	Interval string `yaml:"interval"`
}

func (p Period) String() string { return p.Range + "/" + p.Interval }

// Closes extracts the close column.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column.
func Volumes(bars []OHLCV) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}

// SortAndDedupe orders bars by time and drops repeated timestamps, keeping the last one seen.
func SortAndDedupe(bars []OHLCV) []OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

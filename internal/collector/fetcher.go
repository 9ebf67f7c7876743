package collector

import (
	"context"
	"errors"

	"QuantSuite/internal/model"
)

// ErrNoData is returned when a source has nothing usable for a symbol.
var ErrNoData = errors.New("no data")

// QuoteFetcher returns the latest traded price of a symbol.
type QuoteFetcher interface {
	FetchLivePrice(ctx context.Context, symbol string) (float64, error)
	Name() string
}

// HistoryFetcher returns daily (or other interval) bars of a symbol.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error)
	Name() string
}

// Fetcher is a source that serves both quotes and history.
type Fetcher interface {
	QuoteFetcher
	HistoryFetcher
}

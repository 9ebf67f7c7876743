package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"QuantSuite/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers = 4
	DefaultTimeout = 15 * time.Second
)

// Observation is what was fetched for one watchlist symbol.
// Err is set when the history, or the quote when requested, could not be fetched.
type Observation struct {
	Symbol string
	Bars   []model.OHLCV
	Live   model.Reading
	Err    error
}

// Collector fans fetches out over a bounded worker pool.
type Collector struct {
	History HistoryFetcher
	Quotes  QuoteFetcher
	Workers int
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCollector creates a Collector with default pool size and per-symbol timeout.
func NewCollector(history HistoryFetcher, quotes QuoteFetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		History: history,
		Quotes:  quotes,
		Workers: DefaultWorkers,
		Timeout: DefaultTimeout,
		Logger:  logger,
	}
}

func (c *Collector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// FetchHistory returns the sorted, de-duplicated history of symbol.
func (c *Collector) FetchHistory(ctx context.Context, symbol string, period model.Period) (model.PriceSeries, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	bars, err := c.History.FetchHistory(ctx, symbol, period)
	if err != nil {
		return model.PriceSeries{Symbol: symbol}, fmt.Errorf("fetch history %s (%s): %w", symbol, period, err)
	}
	bars = model.SortAndDedupe(bars)
	if len(bars) == 0 {
		return model.PriceSeries{Symbol: symbol}, fmt.Errorf("fetch history %s (%s): %w", symbol, period, ErrNoData)
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

// LivePrice returns the live quote, or a NotApplicable reading when the
// quote source fails. The failure is logged and never propagated.
func (c *Collector) LivePrice(ctx context.Context, symbol string) model.Reading {
	if c.Quotes == nil {
		return model.NotApplicable()
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	p, err := c.Quotes.FetchLivePrice(ctx, symbol)
	if err != nil {
		c.Logger.Warn("live price unavailable", zap.String("symbol", symbol), zap.String("source", c.Quotes.Name()), zap.Error(err))
		return model.NotApplicable()
	}
	return model.OK(p)
}

// CollectAll fetches history (and optionally a live quote) for every symbol.
// Results come back in watchlist order; a failing symbol only marks its own
// Observation. The error is non-nil only when ctx is cancelled.
func (c *Collector) CollectAll(ctx context.Context, symbols []string, period model.Period, withQuote bool) ([]Observation, error) {
	out := make([]Observation, len(symbols))
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			out[i] = c.observe(gctx, sym, period, withQuote)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// CollectQuotes fetches live prices for every symbol over the worker pool.
// Readings are returned in input order; failures are NotApplicable.
func (c *Collector) CollectQuotes(ctx context.Context, symbols []string) []model.Reading {
	out := make([]model.Reading, len(symbols))
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			out[i] = c.LivePrice(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Collector) observe(ctx context.Context, symbol string, period model.Period, withQuote bool) Observation {
	obs := Observation{Symbol: symbol, Live: model.NotApplicable()}

	series, err := c.FetchHistory(ctx, symbol, period)
	if err != nil {
		c.Logger.Warn("history unavailable", zap.String("symbol", symbol), zap.Error(err))
		obs.Err = err
		return obs
	}
	obs.Bars = series.Bars

	if withQuote {
		obs.Live = c.LivePrice(ctx, symbol)
		if !obs.Live.Valid() {
			obs.Err = fmt.Errorf("live price %s: %w", symbol, ErrNoData)
		}
	}
	return obs
}

// ParseWatchlist splits a comma separated list, upper-cases and trims each
// entry, and drops blanks and repeats while keeping first-seen order.
func ParseWatchlist(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

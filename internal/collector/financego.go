package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"QuantSuite/internal/model"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// FinanceGoFetcher serves quotes and history through the finance-go Yahoo client.
type FinanceGoFetcher struct {
	Suffix string
	now    func() time.Time
}

// NewFinanceGoFetcher creates the alternate provider.
func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{Suffix: NSESuffix, now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchLivePrice(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	q, err := quote.Get(symbol + f.Suffix)
	if err != nil {
		return 0, fmt.Errorf("financego quote %s: %v: %w", symbol, err, ErrNoData)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return 0, fmt.Errorf("financego quote %s: %w", symbol, ErrNoData)
	}
	return q.RegularMarketPrice, nil
}

func (f *FinanceGoFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	end := f.now()
	start, err := RangeStart(end, period.Range)
	if err != nil {
		return nil, err
	}

	iter := chart.Get(&chart.Params{
		Symbol:   symbol + f.Suffix,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(period.Interval),
	})

	var bars []model.OHLCV
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   toFloat(bar.Open),
			High:   toFloat(bar.High),
			Low:    toFloat(bar.Low),
			Close:  toFloat(bar.Close),
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("financego chart %s: %v: %w", symbol, err, ErrNoData)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("financego chart %s: %w", symbol, ErrNoData)
	}
	return model.SortAndDedupe(bars), nil
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

// RangeStart converts a Yahoo-style range ("5d", "3mo", "1y", "ytd", "max") to a start time.
func RangeStart(end time.Time, rng string) (time.Time, error) {
	switch rng {
	case "ytd":
		return time.Date(end.Year(), 1, 1, 0, 0, 0, 0, end.Location()), nil
	case "max":
		return time.Unix(0, 0).UTC(), nil
	}

	units := []struct {
		suffix string
		apply  func(n int) time.Time
	}{
		{"mo", func(n int) time.Time { return end.AddDate(0, -n, 0) }},
		{"wk", func(n int) time.Time { return end.AddDate(0, 0, -7*n) }},
		{"d", func(n int) time.Time { return end.AddDate(0, 0, -n) }},
		{"y", func(n int) time.Time { return end.AddDate(-n, 0, 0) }},
	}
	for _, u := range units {
		if !strings.HasSuffix(rng, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(rng, u.suffix))
		if err != nil || n <= 0 {
			break
		}
		return u.apply(n), nil
	}
	return time.Time{}, fmt.Errorf("unsupported range %q", rng)
}

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"QuantSuite/internal/model"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultYahooBaseURL is the Yahoo Finance chart API host.
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	// NSESuffix maps an NSE symbol to its Yahoo ticker.
	NSESuffix = ".NS"
)

// YahooFetcher reads bar history (and a last-close quote) from the Yahoo chart API.
type YahooFetcher struct {
	client *resty.Client
	Suffix string
}

// NewYahooFetcher creates a chart client with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{client: client, Suffix: NSESuffix}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) ticker(symbol string) string { return symbol + f.Suffix }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, period model.Period) (*yahooChart, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": period.Interval,
			"range":    period.Range,
		}).
		Get("/v8/finance/chart/" + url.PathEscape(f.ticker(symbol)))
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %v: %w", symbol, err, ErrNoData)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: status %d: %w", symbol, resp.StatusCode(), ErrNoData)
	}

	var chart yahooChart
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode %s: %v: %w", symbol, err, ErrNoData)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error %s: %s: %w", symbol, chart.Chart.Error.Description, ErrNoData)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty result: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// FetchHistory returns bars for period. Null bars (holidays, halts) are skipped.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	chart, err := f.fetchChart(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: no bars: %w", symbol, ErrNoData)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: all bars null: %w", symbol, ErrNoData)
	}
	return model.SortAndDedupe(bars), nil
}

// FetchLivePrice returns the chart meta price, falling back to the last close.
func (f *YahooFetcher) FetchLivePrice(ctx context.Context, symbol string) (float64, error) {
	chart, err := f.fetchChart(ctx, symbol, model.Period{Range: "1d", Interval: "1d"})
	if err != nil {
		return 0, err
	}
	result := chart.Chart.Result[0]
	if p := result.Meta.RegularMarketPrice; p != nil {
		return *p, nil
	}
	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil {
				return *closes[i], nil
			}
		}
	}
	return 0, fmt.Errorf("yahoo %s: no price: %w", symbol, ErrNoData)
}

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultNSEBaseURL is the public NSE website.
	DefaultNSEBaseURL = "https://www.nseindia.com"
	nseTimeout        = 8 * time.Second
)

// NSEFetcher reads live prices from the NSE quote-equity endpoint.
type NSEFetcher struct {
	client *resty.Client
}

// NewNSEFetcher creates a quote client. The NSE endpoint rejects requests
// without browser-like headers.
func NewNSEFetcher(baseURL, proxyURL string) *NSEFetcher {
	if baseURL == "" {
		baseURL = DefaultNSEBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(nseTimeout).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &NSEFetcher{client: client}
}

func (f *NSEFetcher) Name() string { return "nse" }

type nseQuote struct {
	PriceInfo *struct {
		LastPrice *float64 `json:"lastPrice"`
	} `json:"priceInfo"`
}

// FetchLivePrice returns priceInfo.lastPrice. Any transport, status or
// shape problem is reported as ErrNoData.
func (f *NSEFetcher) FetchLivePrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		Get("/api/quote-equity")
	if err != nil {
		return 0, fmt.Errorf("nse quote %s: %v: %w", symbol, err, ErrNoData)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("nse quote %s: status %d: %w", symbol, resp.StatusCode(), ErrNoData)
	}

	var q nseQuote
	if err := json.Unmarshal(resp.Body(), &q); err != nil {
		return 0, fmt.Errorf("nse quote %s: decode: %v: %w", symbol, err, ErrNoData)
	}
	if q.PriceInfo == nil || q.PriceInfo.LastPrice == nil {
		return 0, fmt.Errorf("nse quote %s: missing priceInfo.lastPrice: %w", symbol, ErrNoData)
	}
	return *q.PriceInfo.LastPrice, nil
}

package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"QuantSuite/internal/model"
)

func TestNSEFetcher_LivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/quote-equity" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Query().Get("symbol") {
		case "TCS":
			w.Write([]byte(`{"info":{"symbol":"TCS"},"priceInfo":{"lastPrice":3912.5,"change":1.2}}`))
		case "EMPTY":
			w.Write([]byte(`{"info":{"symbol":"EMPTY"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := NewNSEFetcher(srv.URL, "")
	p, err := f.FetchLivePrice(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 3912.5 {
		t.Errorf("expected 3912.5, got %f", p)
	}

	for _, sym := range []string{"EMPTY", "BROKEN"} {
		if _, err := f.FetchLivePrice(context.Background(), sym); !errors.Is(err, ErrNoData) {
			t.Errorf("%s: expected ErrNoData, got %v", sym, err)
		}
	}
}

const chartJSON = `{"chart":{"result":[{"meta":{"regularMarketPrice":102.5},
"timestamp":[1704153600,1704067200,1704240000,1704240000],
"indicators":{"quote":[{"open":[101,100,null,103],"high":[102,101,null,104],"low":[100,99,null,102],
"close":[101.5,100.5,null,103.5],"volume":[2000,1000,null,3000]}]}}],"error":null}}`

func TestYahooFetcher_History(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, "")
	bars, err := f.FetchHistory(context.Background(), "RELIANCE", model.Period{Range: "6mo", Interval: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/RELIANCE.NS" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotRange != "6mo" {
		t.Errorf("unexpected range %s", gotRange)
	}
	// null bar skipped, out-of-order sorted
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Close != 100.5 || bars[1].Close != 101.5 || bars[2].Close != 103.5 {
		t.Errorf("unexpected closes: %+v", bars)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			t.Errorf("bars not strictly increasing at %d", i)
		}
	}

	live, err := f.FetchLivePrice(context.Background(), "RELIANCE")
	if err != nil || live != 102.5 {
		t.Errorf("expected meta price 102.5, got %f (%v)", live, err)
	}
}

func TestYahooFetcher_FailuresAreNoData(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"bad status", http.StatusTooManyRequests, `Too Many Requests`},
		{"bad json", http.StatusOK, `<html>`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewYahooFetcher(srv.URL, "")
			if _, err := f.FetchHistory(context.Background(), "GONE", model.Period{Range: "1y", Interval: "1d"}); !errors.Is(err, ErrNoData) {
				t.Errorf("expected ErrNoData, got %v", err)
			}
		})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()
	f := NewYahooFetcher(addr, "")
	if _, err := f.FetchHistory(context.Background(), "GONE", model.Period{Range: "1y", Interval: "1d"}); !errors.Is(err, ErrNoData) {
		t.Errorf("transport failure: expected ErrNoData, got %v", err)
	}
}

func TestCollectAll_OrderAndFailures(t *testing.T) {
	m := &MockFetcher{
		Price: 100,
		Count: 60,
		Fail:  map[string]error{"BAD": errors.New("boom")},
		Live:  map[string]float64{"TCS": 3900},
	}
	c := NewCollector(m, m, nil)
	c.Workers = 2

	symbols := []string{"RELIANCE", "BAD", "TCS", "SBIN"}
	obs, err := c.CollectAll(context.Background(), symbols, model.Period{Range: "6mo", Interval: "1d"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs) != len(symbols) {
		t.Fatalf("expected %d observations, got %d", len(symbols), len(obs))
	}
	for i, sym := range symbols {
		if obs[i].Symbol != sym {
			t.Errorf("position %d: expected %s, got %s", i, sym, obs[i].Symbol)
		}
	}
	if obs[1].Err == nil {
		t.Error("expected BAD to carry an error")
	}
	if obs[0].Err != nil || len(obs[0].Bars) != 60 {
		t.Errorf("RELIANCE: unexpected %v / %d bars", obs[0].Err, len(obs[0].Bars))
	}
	if !obs[2].Live.Valid() || obs[2].Live.Value != 3900 {
		t.Errorf("TCS: expected live 3900, got %v", obs[2].Live)
	}
}

type countingFetcher struct {
	MockFetcher
	active, peak atomic.Int32
}

func (f *countingFetcher) FetchHistory(ctx context.Context, symbol string, p model.Period) ([]model.OHLCV, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		old := f.peak.Load()
		if n <= old || f.peak.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return f.MockFetcher.FetchHistory(ctx, symbol, p)
}

func TestCollectAll_BoundedConcurrency(t *testing.T) {
	f := &countingFetcher{MockFetcher: MockFetcher{Price: 50, Count: 30}}
	c := NewCollector(f, nil, nil)
	c.Workers = 3

	symbols := ParseWatchlist("A,B,C,D,E,F,G,H,I,J")
	obs, err := c.CollectAll(context.Background(), symbols, model.Period{Range: "3mo", Interval: "1d"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.peak.Load(); got > 3 {
		t.Errorf("expected at most 3 concurrent fetches, saw %d", got)
	}
	for _, o := range obs {
		if o.Err != nil {
			t.Errorf("%s: unexpected error %v", o.Symbol, o.Err)
		}
	}
}

func TestCollectAll_PerSymbolTimeout(t *testing.T) {
	m := &MockFetcher{Price: 10, Count: 30, Delay: time.Second}
	c := NewCollector(m, m, nil)
	c.Timeout = 20 * time.Millisecond

	start := time.Now()
	obs, err := c.CollectAll(context.Background(), []string{"SLOW"}, model.Period{Range: "6mo", Interval: "1d"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs[0].Err == nil {
		t.Error("expected timeout error")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("timeout not honoured")
	}
}

func TestLivePrice_FailureIsNotApplicable(t *testing.T) {
	m := &MockFetcher{Fail: map[string]error{"X": ErrNoData}}
	c := NewCollector(m, m, nil)
	if r := c.LivePrice(context.Background(), "X"); r.Status != model.StatusNotApplicable {
		t.Errorf("expected NotApplicable, got %v", r.Status)
	}
	if r := NewCollector(m, nil, nil).LivePrice(context.Background(), "X"); r.Valid() {
		t.Error("no quote source should give no price")
	}
}

func TestParseWatchlist(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"RELIANCE, TCS, SBIN, INFY, HDFCBANK", []string{"RELIANCE", "TCS", "SBIN", "INFY", "HDFCBANK"}},
		{" tcs ,,TCS, infy ", []string{"TCS", "INFY"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		got := ParseWatchlist(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.raw, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: expected %v, got %v", tt.raw, tt.want, got)
				break
			}
		}
	}
}

func TestRangeStart(t *testing.T) {
	end := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		rng  string
		want time.Time
	}{
		{"5d", time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)},
		{"3mo", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"6mo", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"1y", time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"2wk", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"ytd", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := RangeStart(end, tt.rng)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.rng, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.rng, tt.want, got)
		}
	}
	for _, bad := range []string{"", "xyz", "0mo", "-1y"} {
		if _, err := RangeStart(end, bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestCollectQuotes(t *testing.T) {
	m := &MockFetcher{
		Live: map[string]float64{"TCS": 3900, "INFY": 1500},
		Fail: map[string]error{"BAD": ErrNoData},
	}
	c := NewCollector(m, m, nil)
	got := c.CollectQuotes(context.Background(), []string{"TCS", "BAD", "INFY"})
	if len(got) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(got))
	}
	if got[0].Value != 3900 || got[1].Valid() || got[2].Value != 1500 {
		t.Errorf("unexpected readings %+v", got)
	}
}

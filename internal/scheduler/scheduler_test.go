package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"QuantSuite/internal/collector"
	"QuantSuite/internal/model"
	"QuantSuite/internal/scanner"
	"QuantSuite/internal/session"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) SendWithRetry(_ context.Context, text string, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingSender) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func rising(n int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: c, Volume: 1000}
	}
	return bars
}

func newTestScheduler(m *collector.MockFetcher) (*Scheduler, *recordingSender) {
	sc := scanner.New(collector.NewCollector(m, m, nil), nil)
	rec := &recordingSender{}
	s := NewScheduler(context.Background(), sc, session.New(10), rec, []string{"UP", "BAD"}, nil)
	return s, rec
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(&collector.MockFetcher{})
	if err := s.RegisterAll(10*time.Second, "0 30 15 * * 1-5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.Cron.Entries()); got != 2 {
		t.Errorf("expected 2 entries, got %d", got)
	}
	if err := s.RegisterAll(time.Second, "not a cron"); err == nil {
		t.Error("expected error for a bad digest expression")
	}
}

func TestRefresh_SendsOnlyChanges(t *testing.T) {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"UP": rising(60)},
		Fail: map[string]error{"BAD": collector.ErrNoData},
	}
	s, rec := newTestScheduler(m)

	s.RunRefreshNow()
	s.RunRefreshNow()
	msgs := rec.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one message for an unchanged alert set, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "UP") || !strings.Contains(msgs[0], "MACD Bullish Cross") {
		t.Errorf("unexpected alert message:\n%s", msgs[0])
	}
	if got := len(s.Session.History("UP")); got != 2 {
		t.Errorf("expected 2 observed ticks, got %d", got)
	}

	// Too few bars for any indicator: evaluated, nothing alerts.
	m.Bars["UP"] = rising(10)
	s.RunRefreshNow()
	msgs = rec.messages()
	if len(msgs) != 2 || !strings.Contains(msgs[1], "Cleared: UP") {
		t.Errorf("expected a cleared notice, got %v", msgs)
	}
}

func TestRefresh_FetchFailureKeepsAlertState(t *testing.T) {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"UP": rising(60)},
		Fail: map[string]error{"BAD": collector.ErrNoData},
	}
	s, rec := newTestScheduler(m)

	s.RunRefreshNow()
	m.Fail["UP"] = collector.ErrNoData
	s.RunRefreshNow()
	delete(m.Fail, "UP")
	s.RunRefreshNow()

	msgs := rec.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected a single alert message across a failed tick, got %d: %v", len(msgs), msgs)
	}
	if strings.Contains(msgs[0], "Cleared") {
		t.Errorf("unexpected cleared notice:\n%s", msgs[0])
	}
}

func TestRefresh_FetchesQuoteOnce(t *testing.T) {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"UP": rising(60)},
		Live: map[string]float64{"UP": 170},
		Fail: map[string]error{"BAD": collector.ErrNoData},
	}
	s, rec := newTestScheduler(m)

	s.RunRefreshNow()
	if got := m.Calls("UP"); got != 2 {
		t.Errorf("expected one quote and one history call, got %d", got)
	}
	msgs := rec.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "170.00") {
		t.Errorf("expected the observed price in the alert, got %v", msgs)
	}
}

func TestDiffAlerts(t *testing.T) {
	prev := map[string]string{"A": "x", "B": "y", "C": "z", "E": "u"}
	rows := []model.AlertRow{
		{Symbol: "A", Notes: []string{"x"}},
		{Symbol: "B", Notes: []string{"y", "w"}},
		{Symbol: "D", Notes: []string{"v"}},
	}
	changed, cleared, next := diffAlerts(prev, rows, []string{"E", "F"})
	if len(changed) != 2 || changed[0].Symbol != "B" || changed[1].Symbol != "D" {
		t.Errorf("unexpected changed %+v", changed)
	}
	if len(cleared) != 1 || cleared[0] != "C" {
		t.Errorf("unexpected cleared %v", cleared)
	}
	if next["B"] != "y | w" || next["E"] != "u" || len(next) != 4 {
		t.Errorf("unexpected state %v", next)
	}
	if _, ok := next["F"]; ok {
		t.Errorf("unavailable symbol without previous state should not be tracked: %v", next)
	}
}

func TestDigest(t *testing.T) {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"UP": rising(120)},
		Fail: map[string]error{"BAD": collector.ErrNoData},
	}
	s, rec := newTestScheduler(m)
	s.digestTask()
	msgs := rec.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Ranking digest") || !strings.Contains(msgs[0], "Data errors: 1") {
		t.Errorf("unexpected digest %v", msgs)
	}
}

func TestHandleCommand(t *testing.T) {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{"UP": rising(60)},
		Fail: map[string]error{"BAD": collector.ErrNoData},
	}
	s, _ := newTestScheduler(m)
	ctx := context.Background()
	s.Session.Observe("UP", 159, time.Now())

	tests := []struct {
		cmd  string
		want string
	}{
		{"/rank", "1. UP"},
		{"/alerts", "RSI Overbought"},
		{"/breakout", "UP 159.00: Resistance Breakout"},
		{"/history up", "1 ticks"},
		{"/history", "Usage"},
		{"hello", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		if got := s.HandleCommand(ctx, tt.cmd); !strings.Contains(got, tt.want) {
			t.Errorf("%q: expected %q in reply, got:\n%s", tt.cmd, tt.want, got)
		}
	}
}

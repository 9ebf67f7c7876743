package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"QuantSuite/internal/model"
)

func TestRanking(t *testing.T) {
	records := []*model.RankRecord{
		{Symbol: "TCS", LastPrice: model.OK(3900), Score: 85, Grade: model.GradeStrongBuy, RSI: model.OK(55), RelVolume: model.OK(1.4)},
		{Symbol: "BAD", LastPrice: model.NotApplicable(), Grade: model.GradeDataError, RSI: model.NotApplicable(), RelVolume: model.NotApplicable()},
	}
	var buf bytes.Buffer
	if err := Ranking(&buf, records, records[:1], 70); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"TCS", "3900.00", "85", "STRONG BUY", "1.40x", "BAD", "DATA ERROR", "--", "Top ranked (score >= 70): TCS (85)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := Ranking(&buf, records, nil, 70); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No strong bullish") {
		t.Error("expected empty top-ranked note")
	}
}

func TestOverview(t *testing.T) {
	rep := &model.OverviewReport{
		Symbol:    "RELIANCE",
		LastPrice: model.NotApplicable(),
		Period:    model.Period{Range: "6mo", Interval: "1d"},
		Snapshot: model.IndicatorSnapshot{
			Windows:    model.DefaultWindows(),
			SMAFast:    model.OK(128),
			SMASlow:    model.OK(120.5),
			RSI:        model.Insufficient(),
			LastVolume: model.OK(1000),
			AvgVolume:  model.OK(1000),
			RelVolume:  model.OK(1),
		},
		Signal:   "Not Enough Data",
		Breakout: "Resistance Breakout",
	}
	var buf bytes.Buffer
	if err := Overview(&buf, rep); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"RELIANCE | 6mo/1d", "SMA(5)", "128.00", "120.50", "RSI(14)", "Resistance Breakout", "Not Enough Data", "1.00x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBacktestTail(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := &model.BacktestResult{Symbol: "SBIN", Fast: 20, Slow: 50, StrategyReturnPct: 12.345, BuyHoldReturnPct: -3.2}
	for i := 0; i < 5; i++ {
		res.Rows = append(res.Rows, model.BacktestRow{Time: t0.AddDate(0, 0, i), Close: 100, BuyHoldCurve: 1, StrategyCurve: 1})
	}
	var buf bytes.Buffer
	if err := Backtest(&buf, res, 2); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "12.35") || !strings.Contains(out, "-3.20") {
		t.Errorf("summary missing returns:\n%s", out)
	}
	if strings.Contains(out, "2024-01-03") || !strings.Contains(out, "2024-01-05") {
		t.Errorf("expected only the last 2 rows:\n%s", out)
	}
}

func TestEmptyNotes(t *testing.T) {
	var buf bytes.Buffer
	if err := Alerts(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if err := Picks(&buf, "Picks", nil); err != nil {
		t.Fatal(err)
	}
	if err := History(&buf, "TCS", nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"No special alert", "No suitable candidates", "Waiting for ticks for TCS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

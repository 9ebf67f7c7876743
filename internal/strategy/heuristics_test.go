package strategy

import (
	"testing"

	"QuantSuite/internal/model"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestDetectBreakout(t *testing.T) {
	th := model.DefaultThresholds()
	tests := []struct {
		name   string
		closes []float64
		want   string
	}{
		{"empty", nil, LabelNoData},
		{"last is 30-bar max", concat(repeat(100, 29), []float64{110}), LabelResistanceBreakout},
		{"within band of max", concat([]float64{110}, repeat(100, 28), []float64{109.5}), LabelResistanceBreakout},
		{"last is 30-bar min", concat(repeat(100, 29), []float64{90}), LabelSupportBreakdown},
		{"middle of range", concat([]float64{90, 110}, repeat(100, 28)), LabelInRange},
		{"single bar", []float64{50}, LabelResistanceBreakout},
		{"old high outside window", concat([]float64{500}, repeat(100, 29), []float64{95, 101}), LabelResistanceBreakout},
	}
	for _, tt := range tests {
		if got := DetectBreakout(barsFrom(tt.closes, 1), th); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestDetectPattern(t *testing.T) {
	th := model.DefaultThresholds()

	if got := DetectPattern(barsFrom(repeat(100, 39), 1), th); got != LabelTooFewCandles {
		t.Errorf("39 bars: expected %q, got %q", LabelTooFewCandles, got)
	}

	// lows of 100 in both legs, a 110 shoulder, recovery to 109
	w := concat(repeat(102, 14), []float64{100}, repeat(110, 5), repeat(104, 14), []float64{101}, repeat(109, 5))
	if got := DetectPattern(barsFrom(w, 1), th); got != LabelDoubleBottom {
		t.Errorf("W shape: expected %q, got %q", LabelDoubleBottom, got)
	}

	// highs of 120 in both legs, a 110 trough, breakdown to 108
	m := concat(repeat(115, 14), []float64{120}, repeat(110, 5), repeat(116, 14), []float64{119}, repeat(108, 5))
	if got := DetectPattern(barsFrom(m, 1), th); got != LabelDoubleTop {
		t.Errorf("M shape: expected %q, got %q", LabelDoubleTop, got)
	}

	if got := DetectPattern(barsFrom(repeat(100, 60), 1), th); got != LabelNoPattern {
		t.Errorf("flat: expected %q, got %q", LabelNoPattern, got)
	}
}

func TestClassifyFlow(t *testing.T) {
	th := model.DefaultThresholds()
	up := barsFrom(rangeCloses(100, 109), 1000)
	if got := ClassifyFlow(up, th); got != LabelAccumulation {
		t.Errorf("rising: expected %q, got %q", LabelAccumulation, got)
	}
	down := barsFrom([]float64{109, 108, 107, 106, 105, 104, 103, 102, 101, 100}, 1000)
	if got := ClassifyFlow(down, th); got != LabelDistribution {
		t.Errorf("falling: expected %q, got %q", LabelDistribution, got)
	}
	if got := ClassifyFlow(barsFrom(repeat(100, 10), 1000), th); got != LabelMixedFlow {
		t.Errorf("flat: expected %q, got %q", LabelMixedFlow, got)
	}
	if got := ClassifyFlow(barsFrom(repeat(100, 9), 1000), th); got != LabelTooFewCandles {
		t.Errorf("9 bars: expected %q, got %q", LabelTooFewCandles, got)
	}
}

func TestOverviewSignalAndTrend(t *testing.T) {
	snap := bullishSnapshot()
	if got := OverviewSignal(snap); got != SignalBuy {
		t.Errorf("expected BUY, got %s", got)
	}
	if got := Trend(snap); got != TrendBullish {
		t.Errorf("expected Bullish, got %s", got)
	}

	bear := &model.IndicatorSnapshot{
		Windows:    model.DefaultWindows(),
		SMAFast:    model.OK(95),
		SMASlow:    model.OK(100),
		EMAFast:    model.OK(96),
		EMASlow:    model.OK(99),
		RSI:        model.OK(40),
		MACD:       model.OK(-1),
		MACDSignal: model.OK(-0.5),
	}
	if got := OverviewSignal(bear); got != SignalSell {
		t.Errorf("expected SELL, got %s", got)
	}

	bear.RSI = model.OK(55)
	if got := OverviewSignal(bear); got != SignalHold {
		t.Errorf("expected HOLD, got %s", got)
	}

	bear.MACD = model.Insufficient()
	if got := OverviewSignal(bear); got != SignalNotEnough {
		t.Errorf("expected %q, got %s", SignalNotEnough, got)
	}

	flat := &model.IndicatorSnapshot{SMAFast: model.OK(100), SMASlow: model.OK(100)}
	if got := Trend(flat); got != TrendSideways {
		t.Errorf("expected Sideways, got %s", got)
	}
}

func TestAlerts(t *testing.T) {
	th := model.DefaultThresholds()
	snap := bullishSnapshot()
	snap.RSI = model.OK(25)
	notes := Alerts(snap, th)
	want := []string{"RSI Oversold (<30)", "MACD Bullish Cross", "Short-term Uptrend (SMA5>SMA20)"}
	if len(notes) != len(want) {
		t.Fatalf("expected %v, got %v", want, notes)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Errorf("note %d: expected %q, got %q", i, want[i], notes[i])
		}
	}

	if got := Alerts(&model.IndicatorSnapshot{}, th); len(got) != 0 {
		t.Errorf("empty snapshot should raise nothing, got %v", got)
	}
}

func TestPicks(t *testing.T) {
	snap := bullishSnapshot()
	if _, ok := SwingPick("INFY", 105, snap); !ok {
		t.Error("bullish snapshot should be a swing pick")
	}
	p, ok := TomorrowPick("INFY", 105, snap)
	if !ok || p.Score != 100 {
		t.Errorf("expected pick with score 100, got %+v ok=%v", p, ok)
	}

	snap.RSI = model.OK(64)
	if _, ok := SwingPick("INFY", 105, snap); ok {
		t.Error("RSI 64 is outside the swing band")
	}
	p, ok = TomorrowPick("INFY", 105, snap)
	if !ok || p.Score != 100 {
		t.Errorf("RSI 64 is inside the next-session band, got %+v", p)
	}

	snap.SMAFast = model.OK(90)
	snap.MACD = model.OK(0)
	p, ok = TomorrowPick("INFY", 105, snap)
	if ok || p.Score != 30 {
		t.Errorf("expected no pick with score 30, got %+v ok=%v", p, ok)
	}

	picks := []model.Pick{{Symbol: "A", Score: 60}, {Symbol: "B", Score: 100}, {Symbol: "C", Score: 70}}
	SortPicks(picks)
	if picks[0].Symbol != "B" || picks[2].Symbol != "A" {
		t.Errorf("unexpected order: %+v", picks)
	}
}

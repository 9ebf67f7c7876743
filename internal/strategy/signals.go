package strategy

import (
	"fmt"
	"sort"

	"QuantSuite/internal/model"
)

// Overview signals and screener trends.
const (
	SignalBuy         = "BUY"
	SignalSell        = "SELL"
	SignalHold        = "HOLD"
	SignalNotEnough   = "Not Enough Data"
	TrendBullish      = "Bullish"
	TrendBearish      = "Bearish"
	TrendSideways     = "Sideways"
	TrendInsufficient = "Weak / Insufficient"
)

// TomorrowPickMinimum is the lowest score that makes a next-session pick.
const TomorrowPickMinimum = 50

// OverviewSignal is BUY when SMA, EMA and MACD all point up with RSI above 50,
// SELL when they all point down with RSI below 50, HOLD otherwise.
func OverviewSignal(s *model.IndicatorSnapshot) string {
	for _, r := range []model.Reading{s.SMAFast, s.SMASlow, s.EMAFast, s.EMASlow, s.RSI, s.MACD, s.MACDSignal} {
		if !r.Valid() {
			return SignalNotEnough
		}
	}
	sma := s.SMAFast.Value - s.SMASlow.Value
	ema := s.EMAFast.Value - s.EMASlow.Value
	macd := s.MACD.Value - s.MACDSignal.Value
	rsi := s.RSI.Value
	switch {
	case sma > 0 && ema > 0 && macd > 0 && rsi > 50:
		return SignalBuy
	case sma < 0 && ema < 0 && macd < 0 && rsi < 50:
		return SignalSell
	default:
		return SignalHold
	}
}

// Trend classifies the fast/slow SMA relationship.
func Trend(s *model.IndicatorSnapshot) string {
	if !s.SMAFast.Valid() || !s.SMASlow.Valid() {
		return TrendInsufficient
	}
	switch {
	case s.SMAFast.Value > s.SMASlow.Value:
		return TrendBullish
	case s.SMAFast.Value < s.SMASlow.Value:
		return TrendBearish
	default:
		return TrendSideways
	}
}

// Alerts lists the RSI, MACD and SMA conditions currently true.
func Alerts(s *model.IndicatorSnapshot, th model.Thresholds) []string {
	var notes []string
	if s.RSI.Valid() {
		switch {
		case s.RSI.Value < th.RSIOversold:
			notes = append(notes, fmt.Sprintf("RSI Oversold (<%.0f)", th.RSIOversold))
		case s.RSI.Value > th.RSIOverbought:
			notes = append(notes, fmt.Sprintf("RSI Overbought (>%.0f)", th.RSIOverbought))
		}
	}
	if s.MACD.Valid() && s.MACDSignal.Valid() {
		switch {
		case s.MACD.Value > s.MACDSignal.Value:
			notes = append(notes, "MACD Bullish Cross")
		case s.MACD.Value < s.MACDSignal.Value:
			notes = append(notes, "MACD Bearish Cross")
		}
	}
	if s.SMAFast.Valid() && s.SMASlow.Valid() {
		f, sl := s.Windows.SMAFast, s.Windows.SMASlow
		switch {
		case s.SMAFast.Value > s.SMASlow.Value:
			notes = append(notes, fmt.Sprintf("Short-term Uptrend (SMA%d>SMA%d)", f, sl))
		case s.SMAFast.Value < s.SMASlow.Value:
			notes = append(notes, fmt.Sprintf("Short-term Downtrend (SMA%d<SMA%d)", f, sl))
		}
	}
	return notes
}

// SwingPick requires an SMA uptrend, RSI in [45,60] and MACD above its signal.
func SwingPick(symbol string, live float64, s *model.IndicatorSnapshot) (model.Pick, bool) {
	if !s.SMAFast.Valid() || !s.SMASlow.Valid() || !s.RSI.Valid() || !s.MACD.Valid() || !s.MACDSignal.Valid() {
		return model.Pick{}, false
	}
	trend := s.SMAFast.Value > s.SMASlow.Value
	rsiOK := s.RSI.Value >= 45 && s.RSI.Value <= 60
	macd := s.MACD.Value > s.MACDSignal.Value
	if !trend || !rsiOK || !macd {
		return model.Pick{}, false
	}
	return model.Pick{Symbol: symbol, LastPrice: live, RSI: s.RSI.Value, SMABullish: true, MACDAbove: true}, true
}

// TomorrowPick scores trend (40), RSI in [45,65] (30) and MACD (30);
// a symbol is picked at TomorrowPickMinimum or more.
func TomorrowPick(symbol string, live float64, s *model.IndicatorSnapshot) (model.Pick, bool) {
	if !s.SMAFast.Valid() || !s.SMASlow.Valid() || !s.RSI.Valid() || !s.MACD.Valid() || !s.MACDSignal.Valid() {
		return model.Pick{}, false
	}
	p := model.Pick{
		Symbol:     symbol,
		LastPrice:  live,
		RSI:        s.RSI.Value,
		SMABullish: s.SMAFast.Value > s.SMASlow.Value,
		MACDAbove:  s.MACD.Value > s.MACDSignal.Value,
	}
	if p.SMABullish {
		p.Score += 40
	}
	if p.RSI >= 45 && p.RSI <= 65 {
		p.Score += 30
	}
	if p.MACDAbove {
		p.Score += 30
	}
	return p, p.Score >= TomorrowPickMinimum
}

// SortPicks orders picks by score, highest first.
func SortPicks(picks []model.Pick) {
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Score > picks[j].Score })
}

package strategy

import (
	"fmt"

	"QuantSuite/internal/calculator"
	"QuantSuite/internal/model"
)

// Each scorer evaluates one row of the ranking table. Absent readings score zero.

func scoreSMATrend(s *model.IndicatorSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "SMA trend", Commentary: "n/a"}
	if s.SMAFast.Valid() && s.SMASlow.Valid() {
		f.Commentary = fmt.Sprintf("SMA%d %.2f vs SMA%d %.2f", s.Windows.SMAFast, s.SMAFast.Value, s.Windows.SMASlow, s.SMASlow.Value)
		if s.SMAFast.Value > s.SMASlow.Value {
			f.Points = 20
		}
	}
	return f
}

func scoreEMATrend(s *model.IndicatorSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "EMA trend", Commentary: "n/a"}
	if s.EMAFast.Valid() && s.EMASlow.Valid() {
		f.Commentary = fmt.Sprintf("EMA%d %.2f vs EMA%d %.2f", s.Windows.EMAFast, s.EMAFast.Value, s.Windows.EMASlow, s.EMASlow.Value)
		if s.EMAFast.Value > s.EMASlow.Value {
			f.Points = 20
		}
	}
	return f
}

func scoreMACD(s *model.IndicatorSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "MACD", Commentary: "n/a"}
	if s.MACD.Valid() && s.MACDSignal.Valid() {
		f.Commentary = fmt.Sprintf("%.2f vs signal %.2f", s.MACD.Value, s.MACDSignal.Value)
		if s.MACD.Value > s.MACDSignal.Value {
			f.Points = 15
		}
	}
	return f
}

// scoreRSI rewards the healthy-momentum band [45,60] and, less, (60,70].
func scoreRSI(s *model.IndicatorSnapshot) model.FactorScore {
	f := model.FactorScore{Name: "RSI", Commentary: "n/a"}
	if !s.RSI.Valid() {
		return f
	}
	rsi := s.RSI.Value
	f.Commentary = fmt.Sprintf("RSI=%.1f", rsi)
	switch {
	case rsi >= 45 && rsi <= 60:
		f.Points = 15
	case rsi > 60 && rsi <= 70:
		f.Points = 10
	}
	return f
}

// scoreSupportZone rewards a live price in the lowest part of the support/resistance range.
func scoreSupportZone(s *model.IndicatorSnapshot, live model.Reading, zonePct float64) model.FactorScore {
	f := model.FactorScore{Name: "Near support", Commentary: "n/a"}
	if !live.Valid() || !s.Support.Valid() || !s.Resistance.Valid() {
		return f
	}
	pos, err := calculator.RangePosition(live.Value, s.Support.Value, s.Resistance.Value)
	if err != nil {
		f.Commentary = err.Error()
		return f
	}
	pct := pos * 100
	f.Commentary = fmt.Sprintf("%.0f%% of range", pct)
	if pct >= 0 && pct <= zonePct {
		f.Points = 15
	}
	return f
}

func scoreVolume(s *model.IndicatorSnapshot, minRatio float64) model.FactorScore {
	f := model.FactorScore{Name: "Relative volume", Commentary: "n/a"}
	if !s.RelVolume.Valid() {
		return f
	}
	f.Commentary = fmt.Sprintf("%.2fx", s.RelVolume.Value)
	if s.RelVolume.Value >= minRatio {
		f.Points = 15
	}
	return f
}

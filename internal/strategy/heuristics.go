package strategy

import (
	"math"

	"QuantSuite/internal/calculator"
	"QuantSuite/internal/model"
)

// Heuristic labels.
const (
	LabelNoData             = "No data"
	LabelTooFewCandles      = "Too few candles"
	LabelResistanceBreakout = "Resistance Breakout"
	LabelSupportBreakdown   = "Support Breakdown"
	LabelInRange            = "In Range"
	LabelDoubleBottom       = "Possible W / Double Bottom"
	LabelDoubleTop          = "Possible Double Top"
	LabelNoPattern          = "No clear pattern"
	LabelAccumulation       = "Strong Accumulation"
	LabelDistribution       = "Strong Distribution"
	LabelMixedFlow          = "Mixed / Neutral"
)

// DetectBreakout compares the last close with the range of the recent closes.
// Fewer than BreakoutWindow bars uses whatever is available.
func DetectBreakout(bars []model.OHLCV, th model.Thresholds) string {
	if len(bars) == 0 {
		return LabelNoData
	}
	closes := model.Closes(bars)
	last := closes[len(closes)-1]
	lo, hi := calculator.MinMax(calculator.Tail(closes, th.BreakoutWindow))

	switch {
	case last >= hi*th.ResistanceBand:
		return LabelResistanceBreakout
	case last <= lo*th.SupportBand:
		return LabelSupportBreakdown
	default:
		return LabelInRange
	}
}

// DetectPattern looks for a crude double bottom or double top in the recent closes.
// The lookback is split into an early leg [0,15), a late leg [20,35)
// and a middle [15,25) that must clear the two outer extremes.
func DetectPattern(bars []model.OHLCV, th model.Thresholds) string {
	if len(bars) == 0 {
		return LabelNoData
	}
	if len(bars) < th.PatternLookback {
		return LabelTooFewCandles
	}
	recent := calculator.Tail(model.Closes(bars), th.PatternLookback)
	last := recent[len(recent)-1]
	early, mid, late := legs(recent)

	hint := LabelNoPattern

	low1, high1 := calculator.MinMax(early)
	low2, high2 := calculator.MinMax(late)
	trough, shoulder := calculator.MinMax(mid)

	if low1 != 0 && low2 != 0 && shoulder != 0 {
		if math.Abs(low1-low2)/low1 < th.Similarity && shoulder > low1*th.BottomShoulder && last > shoulder*th.BottomConfirm {
			hint = LabelDoubleBottom
		}
	}
	if high1 != 0 && high2 != 0 && trough != 0 {
		if math.Abs(high1-high2)/high1 < th.Similarity && trough < high1*th.TopShoulder && last < trough*th.TopConfirm {
			hint = LabelDoubleTop
		}
	}
	return hint
}

// legs slices the lookback window proportionally to the 40-bar layout (15/10/15 with 5-bar gaps).
func legs(recent []float64) (early, mid, late []float64) {
	n := len(recent)
	at := func(k int) int { return k * n / 40 }
	return recent[:at(15)], recent[at(15):at(25)], recent[at(20):at(35)]
}

// ClassifyFlow buckets recent volume by whether the close rose or fell.
func ClassifyFlow(bars []model.OHLCV, th model.Thresholds) string {
	if len(bars) == 0 {
		return LabelNoData
	}
	if len(bars) < th.FlowLookback {
		return LabelTooFewCandles
	}
	recent := bars[len(bars)-th.FlowLookback:]

	var up, down float64
	for i := 1; i < len(recent); i++ {
		chg := recent[i].Close - recent[i-1].Close
		switch {
		case chg > 0:
			up += recent[i].Volume
		case chg < 0:
			down += recent[i].Volume
		}
	}

	switch {
	case up > down*th.FlowDominance:
		return LabelAccumulation
	case down > up*th.FlowDominance:
		return LabelDistribution
	default:
		return LabelMixedFlow
	}
}

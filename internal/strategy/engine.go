package strategy

import (
	"sort"

	"QuantSuite/internal/calculator"
	"QuantSuite/internal/model"
)

// Grades maps a score to a label; walked top-down, first match wins.
var Grades = []struct {
	MinScore int
	Grade    model.Grade
}{
	{75, model.GradeStrongBuy},
	{60, model.GradeBuy},
	{40, model.GradeHold},
	{20, model.GradeWeak},
}

// DefaultGrade is the label for scores below every threshold.
const DefaultGrade = model.GradeBearish

// MaxScore is the sum of every rule's points.
const MaxScore = 100

func mapGrade(score int) model.Grade {
	for _, g := range Grades {
		if score >= g.MinScore {
			return g.Grade
		}
	}
	return DefaultGrade
}

// Score evaluates the ranking rules for one symbol using the default windows.
func Score(symbol string, bars []model.OHLCV, live model.Reading, th model.Thresholds) *model.RankRecord {
	snap := calculator.Compute(bars, model.DefaultWindows())
	return ScoreSnapshot(symbol, &snap, live, th)
}

// ScoreSnapshot evaluates the ranking rules against precomputed indicators.
func ScoreSnapshot(symbol string, snap *model.IndicatorSnapshot, live model.Reading, th model.Thresholds) *model.RankRecord {
	factors := []model.FactorScore{
		scoreSMATrend(snap),
		scoreEMATrend(snap),
		scoreMACD(snap),
		scoreRSI(snap),
		scoreSupportZone(snap, live, th.SupportZonePct),
		scoreVolume(snap, th.RelVolumeMin),
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	total = min(max(total, 0), MaxScore)

	return &model.RankRecord{
		Symbol:    symbol,
		LastPrice: live,
		Score:     total,
		Grade:     mapGrade(total),
		RSI:       snap.RSI,
		RelVolume: snap.RelVolume,
		Factors:   factors,
	}
}

// DataError is the record for a symbol whose data could not be fetched.
func DataError(symbol string, err error) *model.RankRecord {
	rec := &model.RankRecord{
		Symbol:    symbol,
		LastPrice: model.NotApplicable(),
		Grade:     model.GradeDataError,
		RSI:       model.NotApplicable(),
		RelVolume: model.NotApplicable(),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	return rec
}

// Rank sorts records by score, highest first. Ties keep their input order.
func Rank(records []*model.RankRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Score > records[j].Score })
}

// TopRanked returns the records scoring at least minScore, excluding data errors.
func TopRanked(records []*model.RankRecord, minScore int) []*model.RankRecord {
	var out []*model.RankRecord
	for _, r := range records {
		if r.Grade != model.GradeDataError && r.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}

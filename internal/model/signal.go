package model

// Grade is the categorical label mapped from a ranking score.
type Grade string

const (
	GradeStrongBuy Grade = "STRONG BUY"
	GradeBuy       Grade = "BUY"
	GradeHold      Grade = "HOLD"
	GradeWeak      Grade = "WEAK"
	GradeBearish   Grade = "BEARISH"
	GradeDataError Grade = "DATA ERROR"
)

// FactorScore is one evaluated row of the ranking rule table.
type FactorScore struct {
	Name       string
	Points     int
	Commentary string
}

// RankRecord is the scoring output for one watchlist symbol.
type RankRecord struct {
	Symbol    string
	LastPrice Reading
	Score     int
	Grade     Grade
	RSI       Reading
	RelVolume Reading
	Factors   []FactorScore
	Err       string
}

// OverviewReport is the single-symbol technicals view.
type OverviewReport struct {
	Symbol    string
	LastPrice Reading
	Period    Period
	Snapshot  IndicatorSnapshot
	Signal    string
	Breakout  string
	Err       string
}

// ScreenRow is one row of the trend screener.
type ScreenRow struct {
	Symbol    string
	LastPrice Reading
	SMAFast   Reading
	SMASlow   Reading
	Trend     string
	Err       string
}

// Pick is a swing or next-session candidate.
type Pick struct {
	Symbol     string
	LastPrice  float64
	RSI        float64
	SMABullish bool
	MACDAbove  bool
	Score      int
}

// LabelRow pairs a symbol with a heuristic label (breakout, pattern, flow).
type LabelRow struct {
	Symbol    string
	LastPrice Reading
	Label     string
}

// AlertRow lists the alert conditions currently true for a symbol.
type AlertRow struct {
	Symbol string
	Price  float64
	Notes  []string
}

// Package scanner runs the watchlist views: each operation fetches what it
// needs through the collector, computes indicators and applies the strategy
// rules. A symbol whose data cannot be fetched degrades to its own error row.
package scanner

import (
	"context"
	"fmt"
	"time"

	"QuantSuite/internal/backtest"
	"QuantSuite/internal/calculator"
	"QuantSuite/internal/collector"
	"QuantSuite/internal/model"
	"QuantSuite/internal/session"
	"QuantSuite/internal/strategy"

	"go.uber.org/zap"
)

// LabelDataError marks a row whose symbol could not be fetched.
const LabelDataError = "Data Error"

// Periods are the lookbacks used by the different views.
type Periods struct {
	Default  model.Period `yaml:"default"`
	Short    model.Period `yaml:"short"`
	Backtest model.Period `yaml:"backtest"`
}

// DefaultPeriods returns 6mo daily, 3mo daily for screener/alerts/flow and 1y daily for backtests.
func DefaultPeriods() Periods {
	return Periods{
		Default:  model.Period{Range: "6mo", Interval: "1d"},
		Short:    model.Period{Range: "3mo", Interval: "1d"},
		Backtest: model.Period{Range: "1y", Interval: "1d"},
	}
}

// Scanner composes collector, calculator and strategy.
type Scanner struct {
	Collector  *collector.Collector
	Windows    model.Windows
	Thresholds model.Thresholds
	Periods    Periods
	Logger     *zap.Logger
}

// New creates a Scanner with default windows, thresholds and periods.
func New(col *collector.Collector, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		Collector:  col,
		Windows:    model.DefaultWindows(),
		Thresholds: model.DefaultThresholds(),
		Periods:    DefaultPeriods(),
		Logger:     logger,
	}
}

func lastClose(bars []model.OHLCV) model.Reading {
	if len(bars) == 0 {
		return model.NotApplicable()
	}
	return model.OK(bars[len(bars)-1].Close)
}

// Overview computes the single-symbol technicals view with windows w.
// A missing live quote leaves LastPrice absent but still reports the technicals.
func (s *Scanner) Overview(ctx context.Context, symbol string, w model.Windows) *model.OverviewReport {
	rep := &model.OverviewReport{
		Symbol:    symbol,
		Period:    s.Periods.Default,
		LastPrice: s.Collector.LivePrice(ctx, symbol),
		Signal:    strategy.SignalNotEnough,
		Breakout:  strategy.LabelNoData,
	}

	series, err := s.Collector.FetchHistory(ctx, symbol, s.Periods.Default)
	if err != nil {
		s.Logger.Warn("overview without history", zap.String("symbol", symbol), zap.Error(err))
		rep.Err = err.Error()
		return rep
	}

	rep.Snapshot = calculator.Compute(series.Bars, w)
	rep.Signal = strategy.OverviewSignal(&rep.Snapshot)
	rep.Breakout = strategy.DetectBreakout(series.Bars, s.Thresholds)
	s.logDegraded(symbol, &rep.Snapshot)
	return rep
}

func (s *Scanner) logDegraded(symbol string, snap *model.IndicatorSnapshot) {
	named := []struct {
		name string
		r    model.Reading
	}{
		{"sma_fast", snap.SMAFast}, {"sma_slow", snap.SMASlow},
		{"ema_fast", snap.EMAFast}, {"ema_slow", snap.EMASlow},
		{"rsi", snap.RSI}, {"macd", snap.MACD},
		{"support_resistance", snap.Support}, {"rel_volume", snap.RelVolume},
	}
	var missing []string
	for _, n := range named {
		if !n.r.Valid() {
			missing = append(missing, n.name)
		}
	}
	if len(missing) > 0 {
		s.Logger.Warn("indicators unavailable", zap.String("symbol", symbol), zap.Strings("indicators", missing))
	}
}

// Backtest runs the SMA crossover over the backtest period.
func (s *Scanner) Backtest(ctx context.Context, symbol string, fast, slow int) (*model.BacktestResult, error) {
	series, err := s.Collector.FetchHistory(ctx, symbol, s.Periods.Backtest)
	if err != nil {
		return nil, err
	}
	res, err := backtest.Run(series.Bars, fast, slow)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", symbol, err)
	}
	res.Symbol = symbol
	s.Logger.Info("backtest complete",
		zap.String("symbol", symbol),
		zap.Int("fast", fast),
		zap.Int("slow", slow),
		zap.Int("rows", len(res.Rows)),
		zap.Float64("strategy_pct", res.StrategyReturnPct),
		zap.Float64("buy_hold_pct", res.BuyHoldReturnPct))
	return res, nil
}

// Screener classifies the fast/slow SMA trend of every symbol.
func (s *Scanner) Screener(ctx context.Context, watchlist []string) ([]model.ScreenRow, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, s.Periods.Short, true)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ScreenRow, len(obs))
	for i, o := range obs {
		if o.Err != nil {
			rows[i] = model.ScreenRow{
				Symbol:    o.Symbol,
				LastPrice: model.NotApplicable(),
				SMAFast:   model.NotApplicable(),
				SMASlow:   model.NotApplicable(),
				Trend:     LabelDataError,
				Err:       o.Err.Error(),
			}
			continue
		}
		snap := calculator.Compute(o.Bars, s.Windows)
		rows[i] = model.ScreenRow{
			Symbol:    o.Symbol,
			LastPrice: o.Live,
			SMAFast:   snap.SMAFast,
			SMASlow:   snap.SMASlow,
			Trend:     strategy.Trend(&snap),
		}
	}
	return rows, nil
}

// Rank scores every symbol and sorts by score, highest first.
func (s *Scanner) Rank(ctx context.Context, watchlist []string) ([]*model.RankRecord, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, s.Periods.Default, true)
	if err != nil {
		return nil, err
	}
	records := make([]*model.RankRecord, len(obs))
	for i, o := range obs {
		if o.Err != nil {
			records[i] = strategy.DataError(o.Symbol, o.Err)
			continue
		}
		records[i] = strategy.Score(o.Symbol, o.Bars, o.Live, s.Thresholds)
	}
	strategy.Rank(records)
	return records, nil
}

// Breakouts labels each symbol's last close against its recent range.
func (s *Scanner) Breakouts(ctx context.Context, watchlist []string) ([]model.LabelRow, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, s.Periods.Default, true)
	if err != nil {
		return nil, err
	}
	rows := make([]model.LabelRow, len(obs))
	for i, o := range obs {
		if o.Err != nil {
			rows[i] = model.LabelRow{Symbol: o.Symbol, LastPrice: model.NotApplicable(), Label: LabelDataError}
			continue
		}
		rows[i] = model.LabelRow{Symbol: o.Symbol, LastPrice: o.Live, Label: strategy.DetectBreakout(o.Bars, s.Thresholds)}
	}
	return rows, nil
}

// Alerts returns only the symbols with at least one active condition.
// Symbols without data are skipped.
func (s *Scanner) Alerts(ctx context.Context, watchlist []string) ([]model.AlertRow, error) {
	rows, _, err := s.scanAlerts(ctx, watchlist, nil)
	return rows, err
}

// AlertsWithQuotes evaluates alerts against live prices already observed,
// given in watchlist order, so no quote is fetched again. It also returns
// the symbols that could not be evaluated.
func (s *Scanner) AlertsWithQuotes(ctx context.Context, watchlist []string, live []model.Reading) ([]model.AlertRow, []string, error) {
	if len(live) != len(watchlist) {
		return nil, nil, fmt.Errorf("alerts: %d quotes for %d symbols", len(live), len(watchlist))
	}
	return s.scanAlerts(ctx, watchlist, live)
}

func (s *Scanner) scanAlerts(ctx context.Context, watchlist []string, live []model.Reading) ([]model.AlertRow, []string, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, s.Periods.Short, live == nil)
	if err != nil {
		return nil, nil, err
	}
	var (
		rows        []model.AlertRow
		unavailable []string
	)
	for i, o := range obs {
		price := o.Live
		if live != nil {
			price = live[i]
		}
		if o.Err != nil || !price.Valid() {
			unavailable = append(unavailable, o.Symbol)
			continue
		}
		snap := calculator.Compute(o.Bars, model.DefaultWindows())
		if notes := strategy.Alerts(&snap, s.Thresholds); len(notes) > 0 {
			rows = append(rows, model.AlertRow{Symbol: o.Symbol, Price: price.Value, Notes: notes})
		}
	}
	return rows, unavailable, nil
}

// Patterns looks for double bottoms and double tops.
func (s *Scanner) Patterns(ctx context.Context, watchlist []string) ([]model.LabelRow, error) {
	return s.labelHistory(ctx, watchlist, s.Periods.Default, strategy.DetectPattern)
}

// Flow classifies recent up/down volume.
func (s *Scanner) Flow(ctx context.Context, watchlist []string) ([]model.LabelRow, error) {
	return s.labelHistory(ctx, watchlist, s.Periods.Short, strategy.ClassifyFlow)
}

func (s *Scanner) labelHistory(ctx context.Context, watchlist []string, period model.Period, label func([]model.OHLCV, model.Thresholds) string) ([]model.LabelRow, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, period, false)
	if err != nil {
		return nil, err
	}
	rows := make([]model.LabelRow, len(obs))
	for i, o := range obs {
		if o.Err != nil {
			rows[i] = model.LabelRow{Symbol: o.Symbol, LastPrice: model.NotApplicable(), Label: strategy.LabelNoData}
			continue
		}
		rows[i] = model.LabelRow{Symbol: o.Symbol, LastPrice: lastClose(o.Bars), Label: label(o.Bars, s.Thresholds)}
	}
	return rows, nil
}

// SwingPicks returns the symbols meeting every swing condition.
func (s *Scanner) SwingPicks(ctx context.Context, watchlist []string) ([]model.Pick, error) {
	return s.picks(ctx, watchlist, strategy.SwingPick)
}

// TomorrowPicks returns the next-session candidates, best score first.
func (s *Scanner) TomorrowPicks(ctx context.Context, watchlist []string) ([]model.Pick, error) {
	picks, err := s.picks(ctx, watchlist, strategy.TomorrowPick)
	if err != nil {
		return nil, err
	}
	strategy.SortPicks(picks)
	return picks, nil
}

func (s *Scanner) picks(ctx context.Context, watchlist []string, pick func(string, float64, *model.IndicatorSnapshot) (model.Pick, bool)) ([]model.Pick, error) {
	obs, err := s.Collector.CollectAll(ctx, watchlist, s.Periods.Default, true)
	if err != nil {
		return nil, err
	}
	var out []model.Pick
	for _, o := range obs {
		if o.Err != nil {
			continue
		}
		snap := calculator.Compute(o.Bars, model.DefaultWindows())
		if p, ok := pick(o.Symbol, o.Live.Value, &snap); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ObserveLive fetches live prices and records them in sess.
// It returns the readings in input order; failed quotes are not recorded.
func (s *Scanner) ObserveLive(ctx context.Context, sess *session.Session, symbols []string) []model.Reading {
	readings := s.Collector.CollectQuotes(ctx, symbols)
	now := time.Now()
	for i, r := range readings {
		if r.Valid() {
			sess.Observe(symbols[i], r.Value, now)
		}
	}
	return readings
}

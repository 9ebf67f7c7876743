// Package report renders scanner results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"QuantSuite/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	gradeColors = map[string]lipgloss.Color{
		string(model.GradeStrongBuy): "#10B981",
		string(model.GradeBuy):       "#34D399",
		string(model.GradeHold):      "#F59E0B",
		string(model.GradeWeak):      "#F97316",
		string(model.GradeBearish):   "#EF4444",
		string(model.GradeDataError): "#6B7280",
		"SELL":                       "#EF4444",
	}
)

// newTable builds a bordered table; colorCol, when >= 0, colors that column by grade or signal.
func newTable(headers []string, rows [][]string, colorCol int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == colorCol && row >= 0 && row < len(rows) {
				if c, ok := gradeColors[rows[row][col]]; ok {
					return cellStyle.Foreground(c).Bold(true)
				}
			}
			return cellStyle
		})
}

func write(w io.Writer, title string, t fmt.Stringer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(title), t.String())
	return err
}

func note(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, mutedStyle.Render(text))
	return err
}

// Overview renders the single-symbol technicals view.
func Overview(w io.Writer, rep *model.OverviewReport) error {
	s := rep.Snapshot
	win := s.Windows
	rows := [][]string{
		{"Live price", rep.LastPrice.String()},
	}
	if rep.Err != "" {
		rows = append(rows, []string{"History", rep.Err})
	} else {
		rows = append(rows,
			[]string{fmt.Sprintf("SMA(%d)", win.SMAFast), s.SMAFast.String()},
			[]string{fmt.Sprintf("SMA(%d)", win.SMASlow), s.SMASlow.String()},
			[]string{fmt.Sprintf("EMA(%d)", win.EMAFast), s.EMAFast.String()},
			[]string{fmt.Sprintf("EMA(%d)", win.EMASlow), s.EMASlow.String()},
			[]string{fmt.Sprintf("RSI(%d)", win.RSIPeriod), s.RSI.String()},
			[]string{"MACD / Signal", s.MACD.String() + " / " + s.MACDSignal.String()},
			[]string{"Support / Resistance", s.Support.String() + " / " + s.Resistance.String()},
			[]string{fmt.Sprintf("Volume last / %dD avg", win.VolumeWindow), volume(s.LastVolume) + " / " + volume(s.AvgVolume)},
			[]string{"Relative volume", ratio(s.RelVolume)},
			[]string{"Breakout", rep.Breakout},
		)
	}
	rows = append(rows, []string{"Signal", rep.Signal})
	title := fmt.Sprintf("%s | %s", rep.Symbol, rep.Period)
	return write(w, title, newTable([]string{"Indicator", "Value"}, rows, 1))
}

func volume(r model.Reading) string {
	if !r.Valid() {
		return "--"
	}
	return strconv.FormatFloat(r.Value, 'f', 0, 64)
}

func ratio(r model.Reading) string {
	if !r.Valid() {
		return "--"
	}
	return fmt.Sprintf("%.2fx", r.Value)
}

// Backtest renders the summary and, when tail > 0, the last tail rows.
func Backtest(w io.Writer, res *model.BacktestResult, tail int) error {
	summary := newTable([]string{"Symbol", "Fast", "Slow", "Rows", "Strategy %", "Buy & Hold %"}, [][]string{{
		res.Symbol,
		strconv.Itoa(res.Fast),
		strconv.Itoa(res.Slow),
		strconv.Itoa(len(res.Rows)),
		fmt.Sprintf("%.2f", res.StrategyReturnPct),
		fmt.Sprintf("%.2f", res.BuyHoldReturnPct),
	}}, -1)
	if err := write(w, "SMA crossover backtest", summary); err != nil {
		return err
	}
	if tail <= 0 {
		return nil
	}
	rows := res.Rows
	if len(rows) > tail {
		rows = rows[len(rows)-tail:]
	}
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{
			r.Time.Format("2006-01-02"),
			fmt.Sprintf("%.2f", r.Close),
			fmt.Sprintf("%.2f", r.Fast),
			fmt.Sprintf("%.2f", r.Slow),
			strconv.Itoa(r.Position),
			fmt.Sprintf("%.4f", r.BuyHoldCurve),
			fmt.Sprintf("%.4f", r.StrategyCurve),
		}
	}
	return write(w, "Recent rows", newTable([]string{"Date", "Close", "Fast", "Slow", "Pos", "B&H", "Strategy"}, body, -1))
}

// Screener renders the trend screener.
func Screener(w io.Writer, rows []model.ScreenRow, fast, slow int) error {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{r.Symbol, r.LastPrice.String(), r.SMAFast.String(), r.SMASlow.String(), r.Trend}
	}
	headers := []string{"Symbol", "Price", fmt.Sprintf("SMA%d", fast), fmt.Sprintf("SMA%d", slow), "View"}
	return write(w, "Trend screener", newTable(headers, body, -1))
}

// Ranking renders the ranking table followed by the top-ranked list.
func Ranking(w io.Writer, records []*model.RankRecord, top []*model.RankRecord, minScore int) error {
	body := make([][]string, len(records))
	for i, r := range records {
		body[i] = []string{r.Symbol, r.LastPrice.String(), strconv.Itoa(r.Score), string(r.Grade), r.RSI.String(), ratio(r.RelVolume)}
	}
	if err := write(w, "Ranking", newTable([]string{"Symbol", "LTP", "Score", "Grade", "RSI", "RelVol"}, body, 3)); err != nil {
		return err
	}
	if len(top) == 0 {
		return note(w, "No strong bullish stocks at the moment based on the ranking model.")
	}
	names := make([]string, len(top))
	for i, r := range top {
		names[i] = fmt.Sprintf("%s (%d)", r.Symbol, r.Score)
	}
	return note(w, fmt.Sprintf("Top ranked (score >= %d): %s", minScore, strings.Join(names, ", ")))
}

// Factors renders the rule breakdown of one record.
func Factors(w io.Writer, rec *model.RankRecord) error {
	body := make([][]string, len(rec.Factors))
	for i, f := range rec.Factors {
		body[i] = []string{f.Name, strconv.Itoa(f.Points), f.Commentary}
	}
	return write(w, fmt.Sprintf("%s score breakdown", rec.Symbol), newTable([]string{"Rule", "Points", "Detail"}, body, -1))
}

// Labels renders a symbol/label table such as breakouts, patterns or flow.
func Labels(w io.Writer, title, column string, rows []model.LabelRow) error {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{r.Symbol, r.LastPrice.String(), r.Label}
	}
	return write(w, title, newTable([]string{"Symbol", "Price", column}, body, -1))
}

// Alerts renders the active alert conditions.
func Alerts(w io.Writer, rows []model.AlertRow) error {
	if len(rows) == 0 {
		return note(w, "No special alert conditions triggered right now.")
	}
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{r.Symbol, fmt.Sprintf("%.2f", r.Price), strings.Join(r.Notes, " | ")}
	}
	return write(w, "Active alerts", newTable([]string{"Symbol", "Price", "Alerts"}, body, -1))
}

// Picks renders swing or next-session candidates.
func Picks(w io.Writer, title string, picks []model.Pick) error {
	if len(picks) == 0 {
		return note(w, "No suitable candidates found right now.")
	}
	body := make([][]string, len(picks))
	for i, p := range picks {
		body[i] = []string{p.Symbol, fmt.Sprintf("%.2f", p.LastPrice), fmt.Sprintf("%.2f", p.RSI), yesNo(p.SMABullish), yesNo(p.MACDAbove), strconv.Itoa(p.Score)}
	}
	return write(w, title, newTable([]string{"Symbol", "LTP", "RSI(14)", "SMA5>SMA20", "MACD>Signal", "Score"}, body, -1))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// History renders the ticks observed in this session.
func History(w io.Writer, symbol string, ticks []model.Tick) error {
	if len(ticks) == 0 {
		return note(w, fmt.Sprintf("Waiting for ticks for %s...", symbol))
	}
	body := make([][]string, len(ticks))
	for i, t := range ticks {
		body[i] = []string{t.Time.Format("15:04:05"), fmt.Sprintf("%.2f", t.Price)}
	}
	return write(w, fmt.Sprintf("%s live ticks", symbol), newTable([]string{"Time", "LTP"}, body, -1))
}

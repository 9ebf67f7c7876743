package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"QuantSuite/internal/model"
)

// FormatRankDigest formats the daily digest: the top-ranked symbols and
// a one-line summary of the rest.
func FormatRankDigest(records []*model.RankRecord, minScore int, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏆 <b>Ranking digest</b> | %s\n\n", now.Format("2006-01-02")))

	var top, rest, failed int
	for _, r := range records {
		switch {
		case r.Grade == model.GradeDataError:
			failed++
		case r.Score >= minScore:
			top++
			b.WriteString(fmt.Sprintf("• <b>%s</b> %d (%s) LTP %s RSI %s\n",
				html.EscapeString(r.Symbol), r.Score, r.Grade, r.LastPrice, r.RSI))
		default:
			rest++
		}
	}
	if top == 0 {
		b.WriteString(fmt.Sprintf("No symbol scored %d or more.\n", minScore))
	}
	b.WriteString(fmt.Sprintf("\nBelow %d: %d | Data errors: %d\n", minScore, rest, failed))
	return b.String()
}

// FormatRanking lists every record with its score and grade.
func FormatRanking(records []*model.RankRecord) string {
	if len(records) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("📊 <b>Ranking</b>\n\n")
	for i, r := range records {
		b.WriteString(fmt.Sprintf("%d. %s %d %s\n", i+1, html.EscapeString(r.Symbol), r.Score, r.Grade))
	}
	return b.String()
}

// FormatAlerts lists the active alert conditions per symbol.
func FormatAlerts(rows []model.AlertRow) string {
	if len(rows) == 0 {
		return "No special alert conditions triggered right now."
	}
	var b strings.Builder
	b.WriteString("🚨 <b>Active alerts</b>\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("<b>%s</b> %.2f\n  %s\n", html.EscapeString(r.Symbol), r.Price, html.EscapeString(strings.Join(r.Notes, " | "))))
	}
	return b.String()
}

// FormatBreakouts lists breakout labels, skipping symbols still in range.
func FormatBreakouts(rows []model.LabelRow, inRange string) string {
	var b strings.Builder
	b.WriteString("📌 <b>Breakout scan</b>\n\n")
	n := 0
	for _, r := range rows {
		if r.Label == inRange {
			continue
		}
		n++
		b.WriteString(fmt.Sprintf("%s %s: %s\n", html.EscapeString(r.Symbol), r.LastPrice, r.Label))
	}
	if n == 0 {
		b.WriteString("Every symbol is in range.\n")
	}
	return b.String()
}

// FormatHistory summarises the ticks observed this session for a symbol.
func FormatHistory(symbol string, ticks []model.Tick) string {
	if len(ticks) == 0 {
		return fmt.Sprintf("No live prices observed for %s yet.", html.EscapeString(symbol))
	}
	first, last := ticks[0], ticks[len(ticks)-1]
	lo, hi := first.Price, first.Price
	for _, t := range ticks {
		lo = min(lo, t.Price)
		hi = max(hi, t.Price)
	}
	change := 0.0
	if first.Price != 0 {
		change = (last.Price - first.Price) / first.Price * 100
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏱ <b>%s</b> %d ticks since %s\n", html.EscapeString(symbol), len(ticks), first.Time.Format("15:04:05")))
	b.WriteString(fmt.Sprintf("Last: %.2f (%+.2f%%)\n", last.Price, change))
	b.WriteString(fmt.Sprintf("Low / High: %.2f / %.2f\n", lo, hi))
	return b.String()
}

// HelpText lists the supported commands.
func HelpText() string {
	return "Available commands:\n• /rank\n• /alerts\n• /breakout\n• /history SYMBOL"
}

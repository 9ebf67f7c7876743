package backtest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"QuantSuite/internal/model"
)

// Columns is the header of the exported backtest table.
var Columns = []string{
	"close", "fast", "slow", "signal", "position",
	"return", "strategy_return", "bh_curve", "strat_curve",
}

// WriteCSV writes the backtest rows as comma-separated text.
func WriteCSV(w io.Writer, res *model.BacktestResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range res.Rows {
		rec := []string{
			formatFloat(r.Close),
			formatFloat(r.Fast),
			formatFloat(r.Slow),
			strconv.Itoa(r.Signal),
			strconv.Itoa(r.Position),
			formatFloat(r.Return),
			formatFloat(r.StrategyReturn),
			formatFloat(r.BuyHoldCurve),
			formatFloat(r.StrategyCurve),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Row times are not part of the export.
func ReadCSV(r io.Reader) ([]model.BacktestRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}

	var rows []model.BacktestRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (model.BacktestRow, error) {
	var row model.BacktestRow
	floats := []*float64{&row.Close, &row.Fast, &row.Slow}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", Columns[i], err)
		}
		*dst = v
	}
	ints := []*int{&row.Signal, &row.Position}
	for i, dst := range ints {
		v, err := strconv.Atoi(rec[3+i])
		if err != nil {
			return row, fmt.Errorf("%s: %w", Columns[3+i], err)
		}
		*dst = v
	}
	tail := []*float64{&row.Return, &row.StrategyReturn, &row.BuyHoldCurve, &row.StrategyCurve}
	for i, dst := range tail {
		v, err := strconv.ParseFloat(rec[5+i], 64)
		if err != nil {
			return row, fmt.Errorf("%s: %w", Columns[5+i], err)
		}
		*dst = v
	}
	return row, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

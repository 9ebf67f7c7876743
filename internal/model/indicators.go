package model

import "fmt"

// Status tells whether an indicator produced a value.
type Status int

const (
	StatusOK Status = iota
	StatusInsufficient
	StatusNotApplicable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInsufficient:
		return "insufficient data"
	case StatusNotApplicable:
		return "not applicable"
	default:
		return "unknown"
	}
}

// Reading is an indicator result. Value is meaningful only when Status is StatusOK.
type Reading struct {
	Value  float64
	Status Status
}

// OK wraps a computed value.
func OK(v float64) Reading { return Reading{Value: v, Status: StatusOK} }

// Insufficient marks an indicator that lacked history.
func Insufficient() Reading { return Reading{Status: StatusInsufficient} }

// NotApplicable marks an indicator that has no meaning for the input, e.g. a zero average volume.
func NotApplicable() Reading { return Reading{Status: StatusNotApplicable} }

// Valid reports whether the reading carries a value.
func (r Reading) Valid() bool { return r.Status == StatusOK }

// String renders the value with two decimals, or "--" when absent.
func (r Reading) String() string {
	if !r.Valid() {
		return "--"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// Windows holds indicator window lengths.
type Windows struct {
	SMAFast      int `yaml:"sma_fast"`
	SMASlow      int `yaml:"sma_slow"`
	EMAFast      int `yaml:"ema_fast"`
	EMASlow      int `yaml:"ema_slow"`
	RSIPeriod    int `yaml:"rsi_period"`
	SRWindow     int `yaml:"sr_window"`
	VolumeWindow int `yaml:"volume_window"`
}

// DefaultWindows are the windows used by the ranking score.
func DefaultWindows() Windows {
	return Windows{
		SMAFast:      5,
		SMASlow:      20,
		EMAFast:      12,
		EMASlow:      26,
		RSIPeriod:    14,
		SRWindow:     30,
		VolumeWindow: 20,
	}
}

// IndicatorSnapshot holds all computed technical indicators for one symbol.
type IndicatorSnapshot struct {
	Windows    Windows
	LastClose  Reading
	SMAFast    Reading
	SMASlow    Reading
	EMAFast    Reading
	EMASlow    Reading
	RSI        Reading
	MACD       Reading
	MACDSignal Reading
	Support    Reading
	Resistance Reading
	LastVolume Reading
	AvgVolume  Reading
	RelVolume  Reading
}

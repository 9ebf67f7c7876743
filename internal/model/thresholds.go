package model

// Thresholds are the policy parameters of the heuristic detectors.
type Thresholds struct {
	// Breakout: last close against the range of the last BreakoutWindow closes.
	BreakoutWindow int     `yaml:"breakout_window"`
	ResistanceBand float64 `yaml:"resistance_band"`
	SupportBand    float64 `yaml:"support_band"`

	// Double bottom / double top over the last PatternLookback closes.
	PatternLookback int     `yaml:"pattern_lookback"`
	Similarity      float64 `yaml:"similarity"`
	BottomShoulder  float64 `yaml:"bottom_shoulder"`
	BottomConfirm   float64 `yaml:"bottom_confirm"`
	TopShoulder     float64 `yaml:"top_shoulder"`
	TopConfirm      float64 `yaml:"top_confirm"`

	// Up/down volume bucketing.
	FlowLookback  int     `yaml:"flow_lookback"`
	FlowDominance float64 `yaml:"flow_dominance"`

	// Alerts.
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`

	// Ranking.
	SupportZonePct float64 `yaml:"support_zone_pct"`
	RelVolumeMin   float64 `yaml:"rel_volume_min"`
	TopRankedMin   int     `yaml:"top_ranked_min"`
}

// DefaultThresholds returns the stock tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BreakoutWindow:  30,
		ResistanceBand:  0.995,
		SupportBand:     1.005,
		PatternLookback: 40,
		Similarity:      0.05,
		BottomShoulder:  1.05,
		BottomConfirm:   0.98,
		TopShoulder:     0.97,
		TopConfirm:      1.02,
		FlowLookback:    10,
		FlowDominance:   1.3,
		RSIOversold:     30,
		RSIOverbought:   70,
		SupportZonePct:  25,
		RelVolumeMin:    1.2,
		TopRankedMin:    70,
	}
}

package calculator

import (
	"fmt"

	"QuantSuite/internal/model"
)

// VolumeCheck compares the latest volume with its recent mean.
type VolumeCheck struct {
	Last  float64
	Avg   float64
	Ratio model.Reading
}

// RelativeVolume computes the last volume, the mean of the last window volumes,
// and their ratio. The ratio is NotApplicable when the mean is zero.
// Requires window+1 volumes.
func RelativeVolume(volumes []float64, window int) (VolumeCheck, error) {
	if window <= 0 {
		return VolumeCheck{}, ErrInvalidWindow
	}
	if len(volumes) < window+1 {
		return VolumeCheck{}, fmt.Errorf("relative volume(%d) over %d points: %w", window, len(volumes), ErrInsufficientData)
	}
	avg, err := SMA(volumes, window)
	if err != nil {
		return VolumeCheck{}, err
	}
	vc := VolumeCheck{Last: volumes[len(volumes)-1], Avg: avg, Ratio: model.NotApplicable()}
	if avg != 0 {
		vc.Ratio = model.OK(vc.Last / avg)
	}
	return vc, nil
}

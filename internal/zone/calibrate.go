package zone

import (
	"errors"
	"fmt"
)

// ErrNoSamples reports a calibration attempt with an empty sample set.
var ErrNoSamples = errors.New("zone: calibration requires at least one sample")

// CalibrateOptions tune how sampled areas expand into a threshold set.
type CalibrateOptions struct {
	// BandMargin widens the good band around the sampled min and max,
	// as a fraction of each.
	BandMargin float64 `json:"band_margin"`
	// FloorRatio sets MinArea as a fraction of GoodMin.
	FloorRatio float64 `json:"floor_ratio"`
	// CeilRatio sets MaxArea as a multiple of GoodMax.
	CeilRatio float64 `json:"ceil_ratio"`
}

// DefaultCalibrateOptions returns the stock expansion ratios.
func DefaultCalibrateOptions() CalibrateOptions {
	return CalibrateOptions{
		BandMargin: 0.10,
		FloorRatio: 0.5,
		CeilRatio:  1.3,
	}
}

// Calibrate derives a threshold set from candidate areas recorded while a
// hand was held at good distance. The sampled range, widened by BandMargin,
// becomes the good band; MinArea and MaxArea extend from it by FloorRatio
// and CeilRatio. The result is validated before it is returned.
func Calibrate(samples []float64, opts CalibrateOptions) (Thresholds, error) {
	if len(samples) == 0 {
		return Thresholds{}, ErrNoSamples
	}

	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if lo < 0 {
		return Thresholds{}, fmt.Errorf("zone: negative sample area %v", lo)
	}

	t := Thresholds{
		GoodMin: lo * (1 - opts.BandMargin),
		GoodMax: hi * (1 + opts.BandMargin),
	}
	t.MinArea = t.GoodMin * opts.FloorRatio
	t.MaxArea = t.GoodMax * opts.CeilRatio

	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

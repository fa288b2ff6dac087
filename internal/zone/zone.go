// Package zone classifies detected hand regions into discrete proximity
// zones from their pixel area.
package zone

import (
	"errors"
	"fmt"
)

// Zone is the proximity/validity classification of one evaluated frame.
type Zone string

// Exactly one of these is emitted per evaluated frame.
const (
	NotDetected  Zone = "not_detected"
	TooFar       Zone = "too_far"
	GoodDistance Zone = "good_distance"
	TooClose     Zone = "too_close"
	PalmTooLarge Zone = "palm_too_large"
	Error        Zone = "error"
)

// ErrInvalidThresholds reports a threshold tuple that violates the required
// ordering 0 <= MinArea <= GoodMin <= GoodMax <= MaxArea.
var ErrInvalidThresholds = errors.New("zone: invalid thresholds")

// Thresholds is the four-value area table driving classification. Areas are
// in pixels. Defaults are tuning starting points, not invariants; deployments
// are expected to calibrate their own set (see Calibrate).
type Thresholds struct {
	MinArea float64 `json:"min_area" koanf:"min_area"`
	GoodMin float64 `json:"good_min" koanf:"good_min"`
	GoodMax float64 `json:"good_max" koanf:"good_max"`
	MaxArea float64 `json:"max_area" koanf:"max_area"`
}

// Validate checks the ordering 0 <= MinArea <= GoodMin <= GoodMax <= MaxArea.
func (t Thresholds) Validate() error {
	if t.MinArea < 0 || t.MinArea > t.GoodMin || t.GoodMin > t.GoodMax || t.GoodMax > t.MaxArea {
		return fmt.Errorf("%w: min=%v good=[%v,%v] max=%v",
			ErrInvalidThresholds, t.MinArea, t.GoodMin, t.GoodMax, t.MaxArea)
	}
	return nil
}

// Classify maps a candidate area to its zone. The decision table, in
// precedence order:
//
//	area < MinArea            NotDetected (candidate discarded as noise)
//	area > MaxArea            PalmTooLarge
//	MinArea <= area < GoodMin TooFar
//	GoodMin <= area <= GoodMax GoodDistance
//	GoodMax < area <= MaxArea TooClose
//
// Classify covers frames where a candidate was found; the absence of any
// candidate is resolved to NotDetected by the caller before areas exist.
// Pure function of the area and the receiver.
func (t Thresholds) Classify(area float64) Zone {
	switch {
	case area < t.MinArea:
		return NotDetected
	case area > t.MaxArea:
		return PalmTooLarge
	case area < t.GoodMin:
		return TooFar
	case area <= t.GoodMax:
		return GoodDistance
	default:
		return TooClose
	}
}

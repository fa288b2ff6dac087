package pipeline

import (
	"fmt"

	"github.com/ayusman/mudra/internal/track"
	"github.com/ayusman/mudra/internal/vision"
	"github.com/ayusman/mudra/internal/zone"
)

// DefaultExtensionMargin is the normalized tip-to-joint displacement a
// finger must exceed to count as extended.
const DefaultExtensionMargin = 0.04

// Options is the full per-stream configuration surface. Every field has a
// stated default from DefaultOptions; deployments override per stream or
// per call (thresholds only).
type Options struct {
	// Skin bounds the HSV segmentation range and mask denoising.
	Skin vision.SkinConfig `json:"skin" koanf:"skin"`

	// EnhanceLowLight applies CLAHE to decoded frames before
	// segmentation.
	EnhanceLowLight bool    `json:"enhance_low_light" koanf:"enhance_low_light"`
	ClipLimit       float64 `json:"clip_limit" koanf:"clip_limit"`
	TileSize        int     `json:"tile_size" koanf:"tile_size"`

	// Mirror flips decoded frames horizontally for selfie-view rigs.
	// Off by default: boxes are reported in sensor orientation.
	Mirror bool `json:"mirror" koanf:"mirror"`

	// Thresholds drive zone classification unless a call overrides them.
	Thresholds zone.Thresholds `json:"thresholds" koanf:"thresholds"`

	// ExtensionMargin tunes finger-extension sensitivity.
	ExtensionMargin float64 `json:"extension_margin" koanf:"extension_margin"`

	// Tracker tunes motion history and classification.
	Tracker track.Config `json:"tracker" koanf:"tracker"`
}

// DefaultOptions returns the stock pipeline tuning.
func DefaultOptions() Options {
	return Options{
		Skin:            vision.DefaultSkinConfig(),
		EnhanceLowLight: true,
		ClipLimit:       vision.DefaultClipLimit,
		TileSize:        vision.DefaultTileSize,
		Mirror:          false,
		Thresholds:      zone.DefaultThresholds(),
		ExtensionMargin: DefaultExtensionMargin,
		Tracker:         track.DefaultConfig(),
	}
}

// Validate checks the parts of the configuration with hard orderings.
func (o Options) Validate() error {
	if err := o.Thresholds.Validate(); err != nil {
		return err
	}
	if o.ExtensionMargin < 0 {
		return fmt.Errorf("pipeline: extension margin %v must not be negative", o.ExtensionMargin)
	}
	if o.Skin.BlurKernel > 1 && o.Skin.BlurKernel%2 == 0 {
		return fmt.Errorf("pipeline: blur kernel %d must be odd", o.Skin.BlurKernel)
	}
	return nil
}

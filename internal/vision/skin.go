package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// SkinConfig bounds the HSV skin range and tunes mask denoising. Hue is in
// OpenCV 8-bit units (0-179); saturation and value are 0-255. All bounds
// are inclusive.
type SkinConfig struct {
	HueLow  float64 `json:"hue_low" koanf:"hue_low"`
	HueHigh float64 `json:"hue_high" koanf:"hue_high"`
	SatLow  float64 `json:"sat_low" koanf:"sat_low"`
	SatHigh float64 `json:"sat_high" koanf:"sat_high"`
	ValLow  float64 `json:"val_low" koanf:"val_low"`
	ValHigh float64 `json:"val_high" koanf:"val_high"`

	// BlurKernel is the median blur aperture; must be odd.
	BlurKernel int `json:"blur_kernel" koanf:"blur_kernel"`
	// MorphKernel is the edge length of the rectangular structuring
	// element used for erosion and dilation.
	MorphKernel int `json:"morph_kernel" koanf:"morph_kernel"`
	// ErodeIterations removes thin noise after blurring.
	ErodeIterations int `json:"erode_iterations" koanf:"erode_iterations"`
	// DilateIterations restores shape lost to erosion.
	DilateIterations int `json:"dilate_iterations" koanf:"dilate_iterations"`
}

// DefaultSkinConfig returns the stock skin-tone band and denoising setup.
func DefaultSkinConfig() SkinConfig {
	return SkinConfig{
		HueLow:           0,
		HueHigh:          20,
		SatLow:           48,
		SatHigh:          255,
		ValLow:           80,
		ValHigh:          255,
		BlurKernel:       5,
		MorphKernel:      3,
		ErodeIterations:  2,
		DilateIterations: 2,
	}
}

// SegmentSkin converts a BGR frame to HSV and produces a binary mask of
// pixels whose channels all fall inside the configured inclusive range,
// then denoises the mask: median blur to merge speckle, erosion to strip
// thin noise, dilation to restore eroded shape. Deterministic given the
// frame and config. The caller owns the returned mask.
func SegmentSkin(frame gocv.Mat, cfg SkinConfig) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	lb := gocv.NewScalar(cfg.HueLow, cfg.SatLow, cfg.ValLow, 0)
	ub := gocv.NewScalar(cfg.HueHigh, cfg.SatHigh, cfg.ValHigh, 0)
	gocv.InRangeWithScalar(hsv, lb, ub, &mask)

	if cfg.BlurKernel > 1 {
		gocv.MedianBlur(mask, &mask, cfg.BlurKernel)
	}

	if cfg.MorphKernel > 0 && (cfg.ErodeIterations > 0 || cfg.DilateIterations > 0) {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(cfg.MorphKernel, cfg.MorphKernel))
		defer kernel.Close()

		for i := 0; i < cfg.ErodeIterations; i++ {
			gocv.Erode(mask, &mask, kernel)
		}
		for i := 0; i < cfg.DilateIterations; i++ {
			gocv.Dilate(mask, &mask, kernel)
		}
	}

	return mask
}

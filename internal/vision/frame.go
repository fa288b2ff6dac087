// Package vision implements the frame-level stages of the proximity
// pipeline using GoCV (OpenCV): NV21 decoding, low-light enhancement,
// skin segmentation, and dominant-blob extraction.
package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Default low-light enhancement parameters.
const (
	// DefaultClipLimit is the CLAHE contrast clip limit.
	DefaultClipLimit = 3.0
	// DefaultTileSize is the CLAHE tile grid edge length.
	DefaultTileSize = 8
)

// FormatError reports an NV21 buffer whose length does not match its
// declared dimensions.
type FormatError struct {
	Width  int
	Height int
	Len    int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vision: NV21 buffer is %d bytes, want %d for %dx%d",
		e.Len, e.Width*e.Height*3/2, e.Width, e.Height)
}

// DecodeNV21 converts a packed NV21 buffer (full-resolution luma plane
// followed by 2x2-subsampled interleaved VU chroma) into a BGR Mat. The
// caller owns the returned Mat and must Close it. Fails with a *FormatError
// when the buffer length is not width*height*3/2 or the dimensions make the
// packed layout undefined (non-positive or odd).
func DecodeNV21(buf []byte, width, height int) (gocv.Mat, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 ||
		len(buf) != width*height*3/2 {
		return gocv.Mat{}, &FormatError{Width: width, Height: height, Len: len(buf)}
	}

	// The packed buffer is a single-channel Mat of height*3/2 rows: the
	// luma plane stacked on top of the interleaved chroma rows.
	packed, err := gocv.NewMatFromBytes(height*3/2, width, gocv.MatTypeCV8U, buf)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("vision: wrap NV21 buffer: %w", err)
	}
	defer packed.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(packed, &bgr, gocv.ColorYUVToBGRNV21)
	return bgr, nil
}

// EnhanceLowLight brightens a BGR frame with CLAHE applied to the L channel
// in LAB space. The source is untouched; the caller owns the returned Mat.
func EnhanceLowLight(src gocv.Mat, clipLimit float64, tileSize int) gocv.Mat {
	if clipLimit <= 0 {
		clipLimit = DefaultClipLimit
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(src, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()

	clahe := gocv.NewCLAHEWithParams(clipLimit, image.Pt(tileSize, tileSize))
	defer clahe.Close()
	clahe.Apply(channels[0], &channels[0])

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(channels, &merged)

	dst := gocv.NewMat()
	gocv.CvtColor(merged, &dst, gocv.ColorLabToBGR)
	return dst
}

// Mirror flips a frame horizontally for selfie-view deployments. The caller
// owns the returned Mat.
func Mirror(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Flip(src, &dst, 1)
	return dst
}

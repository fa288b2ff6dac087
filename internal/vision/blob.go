package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// Candidate is the dominant foreground region selected from a mask.
type Candidate struct {
	Area   float64
	Bounds image.Rectangle
}

// ExtractDominantBlob finds the maximal 8-connected foreground regions of a
// binary mask (external boundaries only; holes inside a region are not
// reported) and returns the one with the largest enclosed area along with
// its axis-aligned bounding box. Ties are broken by first-found in contour
// scan order: the comparison is strictly greater-than, so the earliest
// region of a tied area wins. Returns false when the mask has no foreground.
func ExtractDominantBlob(mask gocv.Mat) (Candidate, bool) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best := -1
	bestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if best < 0 || area > bestArea {
			best = i
			bestArea = area
		}
	}
	if best < 0 {
		return Candidate{}, false
	}

	return Candidate{
		Area:   bestArea,
		Bounds: gocv.BoundingRect(contours.At(best)),
	}, true
}

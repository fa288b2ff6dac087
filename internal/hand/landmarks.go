// Package hand models 21-point hand skeletons and derives per-frame pose
// features (finger extension, palm orientation, knuckle positions) from
// their geometry.
package hand

import (
	"fmt"
	"image"
	"math"
)

// Landmark indices following the MediaPipe hand model convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels a skeleton as a left or right hand.
type Handedness string

// Handedness labels as emitted by MediaPipe-style detectors.
const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Valid reports whether h is one of the two known labels.
func (h Handedness) Valid() bool {
	return h == Left || h == Right
}

// Point3D represents a landmark coordinate. X and Y are normalized to [0,1]
// relative to frame width and height; Z is relative depth with the wrist
// near zero.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SkeletonShapeError reports a landmark list that does not contain exactly
// NumLandmarks points.
type SkeletonShapeError struct {
	Got int
}

func (e *SkeletonShapeError) Error() string {
	return fmt.Sprintf("hand: skeleton has %d landmarks, want %d", e.Got, NumLandmarks)
}

// Skeleton is one detected hand: exactly 21 landmark points in anatomical
// order plus the detector's handedness label. Skeletons are produced
// externally once per detected hand per frame and are read-only inputs here.
type Skeleton struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
}

// NewSkeleton builds a Skeleton from a raw landmark list. It fails with a
// *SkeletonShapeError unless the list holds exactly NumLandmarks points.
func NewSkeleton(points []Point3D, handedness Handedness) (Skeleton, error) {
	if len(points) != NumLandmarks {
		return Skeleton{}, &SkeletonShapeError{Got: len(points)}
	}
	s := Skeleton{Handedness: handedness}
	copy(s.Points[:], points)
	return s, nil
}

// PalmCenter returns the centroid of the wrist and the index and pinky MCP
// joints, a stable reference point for motion tracking.
func (s Skeleton) PalmCenter() Point3D {
	w, i, p := s.Points[Wrist], s.Points[IndexMCP], s.Points[PinkyMCP]
	return Point3D{
		X: (w.X + i.X + p.X) / 3,
		Y: (w.Y + i.Y + p.Y) / 3,
		Z: (w.Z + i.Z + p.Z) / 3,
	}
}

// PixelBounds returns the axis-aligned bounding box of all landmarks scaled
// to frame dimensions and clamped to the frame.
func (s Skeleton) PixelBounds(width, height int) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range s.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	r := image.Rect(
		int(math.Floor(minX*float64(width))),
		int(math.Floor(minY*float64(height))),
		int(math.Ceil(maxX*float64(width))),
		int(math.Ceil(maxY*float64(height))),
	)
	return r.Intersect(image.Rect(0, 0, width, height))
}

// palmNormal returns the palm normal, the cross product of the index-MCP and
// pinky-MCP vectors out of the wrist, scaled to unit length. The zero vector
// comes back unchanged when the three landmarks are collinear.
func (s Skeleton) palmNormal() Point3D {
	w, i, p := s.Points[Wrist], s.Points[IndexMCP], s.Points[PinkyMCP]
	v1 := Point3D{X: i.X - w.X, Y: i.Y - w.Y, Z: i.Z - w.Z}
	v2 := Point3D{X: p.X - w.X, Y: p.Y - w.Y, Z: p.Z - w.Z}

	n := Point3D{
		X: v1.Y*v2.Z - v1.Z*v2.Y,
		Y: v1.Z*v2.X - v1.X*v2.Z,
		Z: v1.X*v2.Y - v1.Y*v2.X,
	}
	mag := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if mag > 0 {
		n.X /= mag
		n.Y /= mag
		n.Z /= mag
	}
	return n
}

// PalmNormalZ returns the z component of the unit palm normal. Its sign
// tracks which side of the hand faces the camera and its frame-to-frame
// change is the rotation signal used for flip detection.
func (s Skeleton) PalmNormalZ() float64 {
	return s.palmNormal().Z
}

// PalmFacing reports whether the palm side faces the camera. The normal's z
// sign is mirrored between hands, so the handedness label selects the test.
func (s Skeleton) PalmFacing() bool {
	nz := s.palmNormal().Z
	if s.Handedness == Right {
		return nz > 0
	}
	return nz < 0
}

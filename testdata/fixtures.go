// Package testdata provides synthetic fixtures shared by package tests:
// hand skeletons in known poses and packed NV21 frame buffers.
package testdata

import "github.com/ayusman/mudra/internal/hand"

// SplayedHandPoints returns a 21-point skeleton of a fully splayed hand
// with the palm facing the camera. Every fingertip sits well above its PIP
// joint and the thumb is extended laterally, so all five extension flags
// read true for any reasonable margin. Built as a right hand and mirrored
// around x=0.5 for a left one.
func SplayedHandPoints(handedness hand.Handedness) []hand.Point3D {
	pts := make([]hand.Point3D, hand.NumLandmarks)

	pts[hand.Wrist] = hand.Point3D{X: 0.50, Y: 0.85}

	// Thumb extends to the left of the right palm.
	pts[hand.ThumbCMC] = hand.Point3D{X: 0.44, Y: 0.78}
	pts[hand.ThumbMCP] = hand.Point3D{X: 0.40, Y: 0.73}
	pts[hand.ThumbIP] = hand.Point3D{X: 0.36, Y: 0.70}
	pts[hand.ThumbTip] = hand.Point3D{X: 0.28, Y: 0.67}

	pts[hand.IndexMCP] = hand.Point3D{X: 0.42, Y: 0.58}
	pts[hand.IndexPIP] = hand.Point3D{X: 0.41, Y: 0.46}
	pts[hand.IndexDIP] = hand.Point3D{X: 0.40, Y: 0.38}
	pts[hand.IndexTip] = hand.Point3D{X: 0.40, Y: 0.30}

	pts[hand.MiddleMCP] = hand.Point3D{X: 0.49, Y: 0.56}
	pts[hand.MiddlePIP] = hand.Point3D{X: 0.49, Y: 0.43}
	pts[hand.MiddleDIP] = hand.Point3D{X: 0.49, Y: 0.34}
	pts[hand.MiddleTip] = hand.Point3D{X: 0.49, Y: 0.26}

	pts[hand.RingMCP] = hand.Point3D{X: 0.56, Y: 0.57}
	pts[hand.RingPIP] = hand.Point3D{X: 0.57, Y: 0.45}
	pts[hand.RingDIP] = hand.Point3D{X: 0.57, Y: 0.37}
	pts[hand.RingTip] = hand.Point3D{X: 0.58, Y: 0.30}

	pts[hand.PinkyMCP] = hand.Point3D{X: 0.62, Y: 0.60}
	pts[hand.PinkyPIP] = hand.Point3D{X: 0.64, Y: 0.50}
	pts[hand.PinkyDIP] = hand.Point3D{X: 0.65, Y: 0.44}
	pts[hand.PinkyTip] = hand.Point3D{X: 0.66, Y: 0.38}

	if handedness == hand.Left {
		mirror(pts)
	}
	return pts
}

// FistPoints returns a 21-point skeleton of a closed fist with the palm
// facing the camera: every fingertip curls below its PIP joint and the
// thumb tip tucks inward, so all five extension flags read false.
func FistPoints(handedness hand.Handedness) []hand.Point3D {
	pts := make([]hand.Point3D, hand.NumLandmarks)

	pts[hand.Wrist] = hand.Point3D{X: 0.50, Y: 0.85}

	// Thumb tucked across the palm: tip right of its IP joint, which on
	// a palm-facing right hand reads as not extended.
	pts[hand.ThumbCMC] = hand.Point3D{X: 0.45, Y: 0.78}
	pts[hand.ThumbMCP] = hand.Point3D{X: 0.43, Y: 0.73}
	pts[hand.ThumbIP] = hand.Point3D{X: 0.44, Y: 0.69}
	pts[hand.ThumbTip] = hand.Point3D{X: 0.48, Y: 0.67, Z: -0.02}

	pts[hand.IndexMCP] = hand.Point3D{X: 0.42, Y: 0.58}
	pts[hand.IndexPIP] = hand.Point3D{X: 0.42, Y: 0.52, Z: -0.04}
	pts[hand.IndexDIP] = hand.Point3D{X: 0.43, Y: 0.58, Z: -0.05}
	pts[hand.IndexTip] = hand.Point3D{X: 0.44, Y: 0.63, Z: -0.03}

	pts[hand.MiddleMCP] = hand.Point3D{X: 0.49, Y: 0.56}
	pts[hand.MiddlePIP] = hand.Point3D{X: 0.49, Y: 0.50, Z: -0.04}
	pts[hand.MiddleDIP] = hand.Point3D{X: 0.49, Y: 0.57, Z: -0.05}
	pts[hand.MiddleTip] = hand.Point3D{X: 0.49, Y: 0.62, Z: -0.03}

	pts[hand.RingMCP] = hand.Point3D{X: 0.56, Y: 0.57}
	pts[hand.RingPIP] = hand.Point3D{X: 0.56, Y: 0.51, Z: -0.04}
	pts[hand.RingDIP] = hand.Point3D{X: 0.55, Y: 0.58, Z: -0.05}
	pts[hand.RingTip] = hand.Point3D{X: 0.55, Y: 0.62, Z: -0.03}

	pts[hand.PinkyMCP] = hand.Point3D{X: 0.62, Y: 0.60}
	pts[hand.PinkyPIP] = hand.Point3D{X: 0.62, Y: 0.55, Z: -0.04}
	pts[hand.PinkyDIP] = hand.Point3D{X: 0.61, Y: 0.60, Z: -0.05}
	pts[hand.PinkyTip] = hand.Point3D{X: 0.61, Y: 0.64, Z: -0.03}

	if handedness == hand.Left {
		mirror(pts)
	}
	return pts
}

// Skeleton builds a Skeleton from one of the point builders, panicking on
// malformed fixtures so tests fail loudly.
func Skeleton(points []hand.Point3D, handedness hand.Handedness) hand.Skeleton {
	s, err := hand.NewSkeleton(points, handedness)
	if err != nil {
		panic(err)
	}
	return s
}

// Translate returns a copy of points shifted by dx, dy. Used to synthesize
// motion sequences for tracker tests.
func Translate(points []hand.Point3D, dx, dy float64) []hand.Point3D {
	out := make([]hand.Point3D, len(points))
	for i, p := range points {
		out[i] = hand.Point3D{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
	}
	return out
}

// mirror flips points around the x=0.5 axis, turning a right hand into a
// left one while reversing the palm normal's z sign.
func mirror(pts []hand.Point3D) {
	for i := range pts {
		pts[i].X = 1 - pts[i].X
	}
}

// NV21Frame returns a uniform packed NV21 buffer: a width*height luma plane
// followed by 2x2-subsampled interleaved VU chroma.
func NV21Frame(width, height int, y, u, v byte) []byte {
	buf := make([]byte, width*height*3/2)
	for i := 0; i < width*height; i++ {
		buf[i] = y
	}
	chroma := buf[width*height:]
	for i := 0; i < len(chroma); i += 2 {
		chroma[i] = v
		chroma[i+1] = u
	}
	return buf
}

package pipeline

import (
	"image"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/track"
	"github.com/ayusman/mudra/internal/zone"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func boxFromRect(r image.Rectangle) *Box {
	return &Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// HandInfo is the per-hand portion of a result record.
type HandInfo struct {
	Handedness    hand.Handedness       `json:"handedness"`
	Fingers       [hand.NumFingers]bool `json:"fingers"`
	ExtendedCount int                   `json:"extended_count"`
	PalmFacing    bool                  `json:"palm_facing"`
	Motion        track.State           `json:"motion"`
	Knuckles      []hand.Knuckle        `json:"knuckles,omitempty"`
	Flip          *track.FlipEvent      `json:"flip,omitempty"`
}

// Result is the record emitted for every evaluated frame. Exactly one zone
// per evaluation; Area is never negative; Box, when present, lies within
// the frame.
type Result struct {
	Zone         zone.Zone  `json:"zone"`
	Area         float64    `json:"area"`
	Box          *Box       `json:"bounding_box,omitempty"`
	Hands        []HandInfo `json:"hands,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

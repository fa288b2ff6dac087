package hand

// Finger indices into a finger-state array, anatomical order.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// fingerNames label knuckle points for overlay consumers.
var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

// knuckleJoints are the PIP landmark indices per finger (IP for the thumb).
var knuckleJoints = [NumFingers]int{ThumbIP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

// Knuckle is one PIP joint scaled to pixel coordinates for overlay rendering.
type Knuckle struct {
	Finger string  `json:"finger"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Pose is the per-frame geometric reading of one skeleton. Fingers holds the
// extension flags ordered thumb, index, middle, ring, pinky. Knuckles is only
// populated when the dorsal side faces the camera and at least one finger is
// extended. NormalZ and Center feed the motion tracker and stay off the wire.
type Pose struct {
	Handedness Handedness       `json:"handedness"`
	Fingers    [NumFingers]bool `json:"fingers"`
	Extended   int              `json:"extended_count"`
	PalmFacing bool             `json:"palm_facing"`
	Knuckles   []Knuckle        `json:"knuckles,omitempty"`
	NormalZ    float64          `json:"-"`
	Center     Point3D          `json:"-"`
}

// FingerStates derives the five extension flags. Index through pinky compare
// the tip against the PIP joint vertically; image Y grows downward, so an
// extended finger has its tip above the joint by more than margin. The thumb
// extends laterally instead, and which X direction counts as outward flips
// with both handedness and palm orientation:
//
//	Left, palm facing:   tip right of IP
//	Left, dorsal facing: tip left of IP
//	Right, palm facing:  tip left of IP
//	Right, dorsal facing: tip right of IP
func (s Skeleton) FingerStates(margin float64) [NumFingers]bool {
	var states [NumFingers]bool

	delta := s.Points[ThumbTip].X - s.Points[ThumbIP].X
	if (s.Handedness == Left) != s.PalmFacing() {
		delta = -delta
	}
	states[Thumb] = delta > margin

	tips := [...]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	for i, tip := range tips {
		pip := tip - 2
		states[i+1] = s.Points[pip].Y-s.Points[tip].Y > margin
	}
	return states
}

// Knuckles maps the PIP joints of flagged fingers to pixel coordinates.
// Pure coordinate transform: dividing the results by the same frame
// dimensions recovers the normalized landmark positions.
func (s Skeleton) Knuckles(states [NumFingers]bool, width, height int) []Knuckle {
	var ks []Knuckle
	for f := 0; f < NumFingers; f++ {
		if !states[f] {
			continue
		}
		p := s.Points[knuckleJoints[f]]
		ks = append(ks, Knuckle{
			Finger: fingerNames[f],
			X:      p.X * float64(width),
			Y:      p.Y * float64(height),
		})
	}
	return ks
}

// EvaluatePose computes the full reading of a skeleton for one frame:
// extension flags, palm orientation, palm center, and knuckle highlight
// positions when the back of the hand faces the camera.
func EvaluatePose(s Skeleton, width, height int, margin float64) Pose {
	states := s.FingerStates(margin)
	palm := s.PalmFacing()

	extended := 0
	for _, up := range states {
		if up {
			extended++
		}
	}

	pose := Pose{
		Handedness: s.Handedness,
		Fingers:    states,
		Extended:   extended,
		PalmFacing: palm,
		NormalZ:    s.PalmNormalZ(),
		Center:     s.PalmCenter(),
	}
	if !palm && extended > 0 {
		pose.Knuckles = s.Knuckles(states, width, height)
	}
	return pose
}

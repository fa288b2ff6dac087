package hand_test

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/testdata"
)

const (
	epsilon = 1e-9
	margin  = 0.04
)

func TestNewSkeleton_Shape(t *testing.T) {
	t.Run("exactly 21 points", func(t *testing.T) {
		s, err := hand.NewSkeleton(testdata.SplayedHandPoints(hand.Right), hand.Right)
		if err != nil {
			t.Fatalf("NewSkeleton() error = %v", err)
		}
		if s.Handedness != hand.Right {
			t.Errorf("handedness = %v, want Right", s.Handedness)
		}
	})

	for _, n := range []int{0, 5, 20, 22} {
		pts := make([]hand.Point3D, n)
		_, err := hand.NewSkeleton(pts, hand.Left)
		if err == nil {
			t.Fatalf("NewSkeleton() with %d points: expected error", n)
		}

		var shapeErr *hand.SkeletonShapeError
		if !errors.As(err, &shapeErr) {
			t.Errorf("error %T is not *SkeletonShapeError", err)
		} else if shapeErr.Got != n {
			t.Errorf("SkeletonShapeError.Got = %d, want %d", shapeErr.Got, n)
		}
	}
}

func TestFingerStates_SplayedAndFist(t *testing.T) {
	for _, handedness := range []hand.Handedness{hand.Left, hand.Right} {
		t.Run(string(handedness)+" splayed hand", func(t *testing.T) {
			s := testdata.Skeleton(testdata.SplayedHandPoints(handedness), handedness)
			states := s.FingerStates(margin)
			for f, extended := range states {
				if !extended {
					t.Errorf("finger %d not extended on a splayed hand", f)
				}
			}
		})

		t.Run(string(handedness)+" fist", func(t *testing.T) {
			s := testdata.Skeleton(testdata.FistPoints(handedness), handedness)
			states := s.FingerStates(margin)
			for f, extended := range states {
				if extended {
					t.Errorf("finger %d extended on a closed fist", f)
				}
			}
		})
	}
}

func TestPalmFacing_MirrorsWithHandedness(t *testing.T) {
	right := testdata.Skeleton(testdata.SplayedHandPoints(hand.Right), hand.Right)
	if !right.PalmFacing() {
		t.Error("right splayed fixture should be palm facing")
	}

	left := testdata.Skeleton(testdata.SplayedHandPoints(hand.Left), hand.Left)
	if !left.PalmFacing() {
		t.Error("left splayed fixture should be palm facing")
	}

	// Relabeling the same geometry flips the verdict: a right hand seen
	// with left-hand geometry is showing its back.
	relabeled := testdata.Skeleton(testdata.SplayedHandPoints(hand.Left), hand.Right)
	if relabeled.PalmFacing() {
		t.Error("relabeled skeleton should be dorsal facing")
	}
}

func TestKnuckles_RoundTrip(t *testing.T) {
	const width, height = 640, 480

	s := testdata.Skeleton(testdata.SplayedHandPoints(hand.Right), hand.Right)
	states := s.FingerStates(margin)
	ks := s.Knuckles(states, width, height)

	if len(ks) != hand.NumFingers {
		t.Fatalf("got %d knuckles, want %d for a splayed hand", len(ks), hand.NumFingers)
	}

	joints := []int{hand.ThumbIP, hand.IndexPIP, hand.MiddlePIP, hand.RingPIP, hand.PinkyPIP}
	for i, k := range ks {
		p := s.Points[joints[i]]
		if math.Abs(k.X/width-p.X) > epsilon {
			t.Errorf("knuckle %s: X/width = %v, want %v", k.Finger, k.X/width, p.X)
		}
		if math.Abs(k.Y/height-p.Y) > epsilon {
			t.Errorf("knuckle %s: Y/height = %v, want %v", k.Finger, k.Y/height, p.Y)
		}
	}
}

func TestEvaluatePose(t *testing.T) {
	t.Run("palm facing hides knuckles", func(t *testing.T) {
		s := testdata.Skeleton(testdata.SplayedHandPoints(hand.Right), hand.Right)
		pose := hand.EvaluatePose(s, 640, 480, margin)

		if pose.Extended != hand.NumFingers {
			t.Errorf("extended count = %d, want %d", pose.Extended, hand.NumFingers)
		}
		if !pose.PalmFacing {
			t.Error("expected palm facing")
		}
		if len(pose.Knuckles) != 0 {
			t.Errorf("knuckles exposed while palm faces camera: %v", pose.Knuckles)
		}
	})

	t.Run("dorsal side exposes knuckles of extended fingers", func(t *testing.T) {
		// Left-hand geometry labeled Right reads as a dorsal view.
		s := testdata.Skeleton(testdata.SplayedHandPoints(hand.Left), hand.Right)
		pose := hand.EvaluatePose(s, 640, 480, margin)

		if pose.PalmFacing {
			t.Fatal("expected dorsal view")
		}
		if pose.Extended == 0 {
			t.Fatal("expected extended fingers")
		}
		if len(pose.Knuckles) != pose.Extended {
			t.Errorf("got %d knuckles, want %d", len(pose.Knuckles), pose.Extended)
		}
	})

	t.Run("fist has no knuckle highlights", func(t *testing.T) {
		s := testdata.Skeleton(testdata.FistPoints(hand.Left), hand.Left)
		pose := hand.EvaluatePose(s, 640, 480, margin)

		if pose.Extended != 0 {
			t.Errorf("extended count = %d, want 0", pose.Extended)
		}
		if len(pose.Knuckles) != 0 {
			t.Errorf("unexpected knuckles: %v", pose.Knuckles)
		}
	})
}

func TestPixelBounds_WithinFrame(t *testing.T) {
	s := testdata.Skeleton(testdata.SplayedHandPoints(hand.Right), hand.Right)
	r := s.PixelBounds(640, 480)

	if !r.In(image.Rect(0, 0, 640, 480)) {
		t.Errorf("bounds %v extend outside the frame", r)
	}
	if r.Empty() {
		t.Error("bounds should not be empty for a splayed hand")
	}
}

// Package pipeline assembles the per-frame analysis stages into a single
// facade: NV21 decoding, skin segmentation and blob extraction on the
// contour path, skeleton pose evaluation and motion tracking on the
// landmark path, both converging on zone classification and one result
// record per evaluated frame.
package pipeline

import (
	"fmt"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/track"
	"github.com/ayusman/mudra/internal/vision"
	"github.com/ayusman/mudra/internal/zone"
)

// FrameInput is a packed NV21 frame for the contour path.
type FrameInput struct {
	Data   []byte
	Width  int
	Height int
}

// HandInput is one externally detected hand for the landmark path.
type HandInput struct {
	Handedness hand.Handedness
	Points     []hand.Point3D
}

// HandsInput is one evaluated frame's worth of detected hands plus the
// frame dimensions the normalized landmarks refer to.
type HandsInput struct {
	Width  int
	Height int
	Hands  []HandInput
}

// Pipeline processes one camera stream. It owns the stream's motion
// tracker, the only state carried across calls; everything else is
// per-call. Not safe for concurrent use: the owner must serialize calls,
// and concurrent streams each need their own Pipeline.
type Pipeline struct {
	opts    Options
	tracker *track.Tracker
}

// New creates a Pipeline for one stream. The tracker lives and dies with
// the Pipeline.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts:    opts,
		tracker: track.New(opts.Tracker),
	}
}

// Options returns a copy of the pipeline's configuration.
func (p *Pipeline) Options() Options {
	return p.opts
}

// ActiveTracks returns the number of live hand tracks.
func (p *Pipeline) ActiveTracks() int {
	return p.tracker.Active()
}

// thresholds resolves the per-call override against the configured set.
func (p *Pipeline) thresholds(thr *zone.Thresholds) zone.Thresholds {
	if thr != nil {
		return *thr
	}
	return p.opts.Thresholds
}

// ProcessFrame runs the contour path: decode, optionally enhance and
// mirror, segment skin, extract the dominant blob, classify its area.
//
// A malformed buffer fails the call with a *vision.FormatError and no
// result. Any other internal fault, including panics out of the native
// layer, is recovered into a result with the Error zone so the caller's
// frame loop never aborts. The motion tracker is untouched on this path:
// contour detections carry no handedness to key a track on.
func (p *Pipeline) ProcessFrame(in FrameInput, thr *zone.Thresholds) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = &Result{
				Zone:         zone.Error,
				ErrorMessage: fmt.Sprintf("frame analysis: %v", r),
			}
			err = nil
		}
	}()

	frame, err := vision.DecodeNV21(in.Data, in.Width, in.Height)
	if err != nil {
		return nil, err
	}
	// frame is rebound as stages replace it; the closure closes whichever
	// Mat is current when the call ends.
	defer func() { frame.Close() }()

	if p.opts.EnhanceLowLight {
		enhanced := vision.EnhanceLowLight(frame, p.opts.ClipLimit, p.opts.TileSize)
		frame.Close()
		frame = enhanced
	}
	if p.opts.Mirror {
		mirrored := vision.Mirror(frame)
		frame.Close()
		frame = mirrored
	}

	mask := vision.SegmentSkin(frame, p.opts.Skin)
	defer mask.Close()

	cand, found := vision.ExtractDominantBlob(mask)
	if !found {
		return &Result{Zone: zone.NotDetected}, nil
	}

	t := p.thresholds(thr)
	res = &Result{
		Zone: t.Classify(cand.Area),
		Area: cand.Area,
	}
	// Sub-minimum candidates are suppressed as noise: the zone reads
	// NotDetected and no box is reported even though one was found.
	if res.Zone != zone.NotDetected {
		res.Box = boxFromRect(cand.Bounds)
	}
	return res, nil
}

// ProcessHands runs the landmark path for one evaluated frame. Every hand
// is validated and evaluated before the tracker is touched, so a
// *hand.SkeletonShapeError fails the call without consuming a tracker
// frame. The zone comes from the dominant hand's landmark bounding-box
// area in pixels; absent hands resolve to NotDetected while the tracker
// accrues misses for their slots.
func (p *Pipeline) ProcessHands(in HandsInput, thr *zone.Thresholds) (*Result, error) {
	skeletons := make([]hand.Skeleton, 0, len(in.Hands))
	for _, h := range in.Hands {
		s, err := hand.NewSkeleton(h.Points, h.Handedness)
		if err != nil {
			return nil, err
		}
		skeletons = append(skeletons, s)
	}

	poses := make([]hand.Pose, len(skeletons))
	obs := make([]track.Observation, len(skeletons))
	for i, s := range skeletons {
		poses[i] = hand.EvaluatePose(s, in.Width, in.Height, p.opts.ExtensionMargin)
		obs[i] = track.Observation{
			Handedness: s.Handedness,
			Center:     poses[i].Center,
			Fingers:    poses[i].Fingers,
			PalmFacing: poses[i].PalmFacing,
			NormalZ:    poses[i].NormalZ,
		}
	}

	// Exactly one tracker frame per evaluation: observed slots update,
	// absent slots accrue a miss.
	statuses := p.tracker.Observe(obs)

	res := &Result{Zone: zone.NotDetected}
	if len(skeletons) == 0 {
		return res, nil
	}

	t := p.thresholds(thr)
	dominant := -1
	for i, s := range skeletons {
		bounds := s.PixelBounds(in.Width, in.Height)
		area := float64(bounds.Dx() * bounds.Dy())
		if dominant < 0 || area > res.Area {
			dominant = i
			res.Area = area
			res.Box = boxFromRect(bounds)
		}

		info := HandInfo{
			Handedness:    poses[i].Handedness,
			Fingers:       poses[i].Fingers,
			ExtendedCount: poses[i].Extended,
			PalmFacing:    poses[i].PalmFacing,
			Knuckles:      poses[i].Knuckles,
		}
		if st, ok := statuses[s.Handedness]; ok {
			info.Motion = st.State
			info.Flip = st.Flip
		}
		res.Hands = append(res.Hands, info)
	}

	res.Zone = t.Classify(res.Area)
	if res.Zone == zone.NotDetected {
		res.Box = nil
	}
	return res, nil
}

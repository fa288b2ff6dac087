// Package track maintains bounded per-hand motion history across frames and
// derives a smoothed motion state that tolerates single-frame dropouts.
package track

import (
	"math"

	"github.com/ayusman/mudra/internal/hand"
)

// State classifies a tracked hand's recent motion. Directions are in image
// coordinates: y grows downward, so Up means decreasing y.
type State string

// Motion states.
const (
	Static    State = "static"
	Up        State = "up"
	Down      State = "down"
	Left      State = "left"
	Right     State = "right"
	Uncertain State = "uncertain"
)

// FlipDirection labels a palm/dorsal transition.
type FlipDirection string

// Flip directions.
const (
	PalmToDorsal FlipDirection = "palm_to_dorsal"
	DorsalToPalm FlipDirection = "dorsal_to_palm"
)

// FlipEvent records a detected hand flip. Velocity is the mean change in the
// palm normal's z component per frame across the retained window.
type FlipEvent struct {
	Direction FlipDirection `json:"direction"`
	Velocity  float64       `json:"velocity"`
}

// Config tunes history depth and classification sensitivity.
type Config struct {
	// HistorySize caps each track's history; the oldest entry is evicted
	// on overflow (FIFO).
	HistorySize int `json:"history_size" koanf:"history_size"`
	// MissTolerance is how many consecutive missed frames a track survives
	// unmutated; the miss after that evicts it.
	MissTolerance int `json:"miss_tolerance" koanf:"miss_tolerance"`
	// MinDisplacement is the normalized distance between the oldest and
	// newest retained positions below which motion reads as static.
	MinDisplacement float64 `json:"min_displacement" koanf:"min_displacement"`
	// AxisDominance is the factor by which the dominant axis must exceed
	// the other before a direction is reported instead of uncertain.
	AxisDominance float64 `json:"axis_dominance" koanf:"axis_dominance"`
	// FlipMinSamples is the smallest history length flip detection runs on.
	FlipMinSamples int `json:"flip_min_samples" koanf:"flip_min_samples"`
	// FlipVelocity is the mean per-frame palm-normal z change above which
	// an orientation change counts as a flip.
	FlipVelocity float64 `json:"flip_velocity" koanf:"flip_velocity"`
	// FlipCooldown is how many frames must pass after a flip before
	// another can fire for the same hand.
	FlipCooldown int `json:"flip_cooldown" koanf:"flip_cooldown"`
}

// DefaultConfig returns the stock tracker tuning.
func DefaultConfig() Config {
	return Config{
		HistorySize:     8,
		MissTolerance:   3,
		MinDisplacement: 0.05,
		AxisDominance:   1.5,
		FlipMinSamples:  5,
		FlipVelocity:    0.015,
		FlipCooldown:    15,
	}
}

// Observation is the compact per-frame summary appended to a track.
type Observation struct {
	Handedness hand.Handedness
	Center     hand.Point3D
	Fingers    [hand.NumFingers]bool
	PalmFacing bool
	NormalZ    float64
}

// Status is what the tracker reports for an observed hand on one frame.
type Status struct {
	State State
	Flip  *FlipEvent
}

// Track is one handedness slot: bounded history plus miss accounting.
type Track struct {
	handedness hand.Handedness
	history    []Observation
	misses     int
	cooldown   int
}

// Tracker owns one Track per handedness slot for a single stream. It is not
// safe for concurrent use; the owning stream must serialize Observe calls.
type Tracker struct {
	cfg   Config
	slots map[hand.Handedness]*Track
}

// New creates a tracker. Non-positive sizes and factors fall back to the
// defaults so a zero-value Config is still usable.
func New(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.MinDisplacement <= 0 {
		cfg.MinDisplacement = def.MinDisplacement
	}
	if cfg.AxisDominance <= 0 {
		cfg.AxisDominance = def.AxisDominance
	}
	if cfg.FlipMinSamples <= 0 {
		cfg.FlipMinSamples = def.FlipMinSamples
	}
	if cfg.FlipVelocity <= 0 {
		cfg.FlipVelocity = def.FlipVelocity
	}
	if cfg.MissTolerance < 0 {
		cfg.MissTolerance = 0
	}
	if cfg.FlipCooldown < 0 {
		cfg.FlipCooldown = 0
	}
	return &Tracker{
		cfg:   cfg,
		slots: make(map[hand.Handedness]*Track),
	}
}

// Active returns the number of live tracks.
func (t *Tracker) Active() int {
	return len(t.slots)
}

// Observe ingests one evaluated frame. Every observation updates or creates
// its slot and yields a status; slots absent from the frame accrue a miss
// and are evicted on the miss following the tolerance count. Call exactly
// once per evaluated frame.
func (t *Tracker) Observe(obs []Observation) map[hand.Handedness]Status {
	statuses := make(map[hand.Handedness]Status, len(obs))
	seen := make(map[hand.Handedness]bool, len(obs))

	for _, o := range obs {
		seen[o.Handedness] = true

		tr := t.slots[o.Handedness]
		if tr == nil {
			tr = &Track{
				handedness: o.Handedness,
				history:    make([]Observation, 0, t.cfg.HistorySize),
			}
			t.slots[o.Handedness] = tr
		}

		tr.misses = 0
		if tr.cooldown > 0 {
			tr.cooldown--
		}
		tr.push(o, t.cfg.HistorySize)

		statuses[o.Handedness] = Status{
			State: tr.state(t.cfg),
			Flip:  tr.flip(t.cfg),
		}
	}

	for h, tr := range t.slots {
		if seen[h] {
			continue
		}
		if tr.cooldown > 0 {
			tr.cooldown--
		}
		tr.misses++
		if tr.misses > t.cfg.MissTolerance {
			delete(t.slots, h)
		}
	}

	return statuses
}

// push appends to the bounded history, evicting the oldest entry on overflow.
func (tr *Track) push(o Observation, size int) {
	if len(tr.history) >= size {
		copy(tr.history, tr.history[1:])
		tr.history = tr.history[:size-1]
	}
	tr.history = append(tr.history, o)
}

// state classifies the displacement between the oldest and newest retained
// positions.
func (tr *Track) state(cfg Config) State {
	oldest := tr.history[0].Center
	newest := tr.history[len(tr.history)-1].Center

	dx := newest.X - oldest.X
	dy := newest.Y - oldest.Y
	if math.Hypot(dx, dy) < cfg.MinDisplacement {
		return Static
	}

	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ax >= ay*cfg.AxisDominance:
		if dx < 0 {
			return Left
		}
		return Right
	case ay >= ax*cfg.AxisDominance:
		if dy < 0 {
			return Up
		}
		return Down
	default:
		return Uncertain
	}
}

// flip reports a palm/dorsal transition across the retained window: the
// oldest and newest entries disagree on orientation and the palm normal's z
// moved fast enough on average. A hit starts the cooldown so one physical
// flip fires once.
func (tr *Track) flip(cfg Config) *FlipEvent {
	if tr.cooldown > 0 || len(tr.history) < cfg.FlipMinSamples {
		return nil
	}

	oldest := tr.history[0]
	newest := tr.history[len(tr.history)-1]
	if oldest.PalmFacing == newest.PalmFacing {
		return nil
	}

	sum := 0.0
	for i := 1; i < len(tr.history); i++ {
		sum += tr.history[i].NormalZ - tr.history[i-1].NormalZ
	}
	velocity := math.Abs(sum / float64(len(tr.history)-1))
	if velocity <= cfg.FlipVelocity {
		return nil
	}

	tr.cooldown = cfg.FlipCooldown
	dir := DorsalToPalm
	if !newest.PalmFacing {
		dir = PalmToDorsal
	}
	return &FlipEvent{Direction: dir, Velocity: velocity}
}

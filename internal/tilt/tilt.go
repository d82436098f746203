// Package tilt eases the card towards the pointer and derives the chromatic
// offset and mist parallax that follow the tilt.
package tilt

import (
	"math"
	"time"

	"github.com/cybre/profile-card-fx/internal/utils"
)

const (
	// MaxDegrees is the largest tilt on either axis.
	MaxDegrees = 12.0
	// Smoothing is the per-frame approach factor at ReferenceFrame.
	Smoothing = 0.08
	// ReferenceFrame is the frame length Smoothing was tuned for.
	ReferenceFrame = time.Second / 60

	AberrationGain = 0.4
	ParallaxGain   = 1.5
)

// Pointer is the pointer position relative to the card center, each axis
// normalized so the card edge is ±1. Values beyond the edge are clamped.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pose is the card orientation for one frame.
type Pose struct {
	RotateX    float64 `json:"rotateX"`
	RotateY    float64 `json:"rotateY"`
	Aberration float64 `json:"aberration"`
	ParallaxX  float64 `json:"parallaxX"`
	ParallaxY  float64 `json:"parallaxY"`
}

// State tracks current and target rotation in degrees.
type State struct {
	curX, curY float64
	tgtX, tgtY float64
}

// Aim sets the target from a pointer position. Moving right rotates around Y,
// moving down rotates around X in the opposite direction.
func (s *State) Aim(p Pointer) {
	s.tgtY = clampUnit(p.X) * MaxDegrees
	s.tgtX = -clampUnit(p.Y) * MaxDegrees
}

// Step eases towards the target. The approach factor is corrected for frame
// length so slow hosts converge at the same wall-clock rate.
func (s *State) Step(elapsed time.Duration) Pose {
	if elapsed > 0 {
		frames := float64(elapsed) / float64(ReferenceFrame)
		k := 1 - math.Pow(1-Smoothing, frames)
		s.curX = utils.Lerp(s.curX, s.tgtX, k)
		s.curY = utils.Lerp(s.curY, s.tgtY, k)
	}
	return s.Pose()
}

// Pose reports the current orientation without easing.
func (s *State) Pose() Pose {
	return Pose{
		RotateX:    s.curX,
		RotateY:    s.curY,
		Aberration: (math.Abs(s.curX) + math.Abs(s.curY)) * AberrationGain,
		ParallaxX:  s.curY * ParallaxGain,
		ParallaxY:  s.curX * ParallaxGain,
	}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return utils.Clamp(v, -1.0, 1.0)
}

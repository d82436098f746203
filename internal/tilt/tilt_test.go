package tilt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleReferenceFrameMatchesSmoothing(t *testing.T) {
	var s State
	s.Aim(Pointer{X: 1, Y: 0})

	pose := s.Step(ReferenceFrame)
	assert.InDelta(t, MaxDegrees*Smoothing, pose.RotateY, 1e-9)
	assert.Zero(t, pose.RotateX)
}

func TestConvergesAndClamps(t *testing.T) {
	var s State
	s.Aim(Pointer{X: -5, Y: 3})

	var pose Pose
	for i := 0; i < 600; i++ {
		pose = s.Step(ReferenceFrame)
	}
	assert.InDelta(t, -MaxDegrees, pose.RotateY, 1e-6)
	assert.InDelta(t, -MaxDegrees, pose.RotateX, 1e-6)
	assert.InDelta(t, 2*MaxDegrees*AberrationGain, pose.Aberration, 1e-5)
	assert.InDelta(t, -MaxDegrees*ParallaxGain, pose.ParallaxX, 1e-5)
}

func TestFrameRateIndependent(t *testing.T) {
	var fast, slow State
	fast.Aim(Pointer{X: 0.5})
	slow.Aim(Pointer{X: 0.5})

	for i := 0; i < 4; i++ {
		fast.Step(ReferenceFrame)
	}
	slow.Step(4 * ReferenceFrame)

	assert.InDelta(t, fast.Pose().RotateY, slow.Pose().RotateY, 1e-9)
}

func TestZeroElapsedHolds(t *testing.T) {
	var s State
	s.Aim(Pointer{X: 1, Y: math.NaN()})
	pose := s.Step(0)
	assert.Zero(t, pose.RotateY)
	assert.Zero(t, pose.RotateX)
}

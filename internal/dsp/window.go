package dsp

import (
	"math"

	"github.com/cybre/profile-card-fx/internal/utils"
)

// SilenceFloor is the RMS level below which a PCM frame counts as digital
// silence (about -100 dBFS, the bottom of the analyser range).
const SilenceFloor = 1e-5

// RootMeanSquare returns the RMS level of a mono frame.
func RootMeanSquare(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var energy float64
	for _, v := range frame {
		energy += v * v
	}
	return math.Sqrt(energy / float64(len(frame)))
}

// IsSilent reports whether frame carries no audible signal.
func IsSilent(frame []float64) bool {
	return RootMeanSquare(frame) < SilenceFloor
}

// ToMono folds interleaved capture buffers into one channel, reusing dst when
// it has room. Trailing samples that do not fill a whole frame are dropped.
func ToMono(samples []float32, channels int, dst []float64) []float64 {
	channels = max(channels, 1)
	n := len(samples) / channels
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	inv := 1 / float64(channels)
	for i := range dst {
		var sum float64
		for _, s := range samples[i*channels : (i+1)*channels] {
			sum += float64(s)
		}
		dst[i] = sum * inv
	}
	return dst
}

// HannWindow returns n Hann coefficients, symmetric, peaking at 1.
func HannWindow(n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{1}
	}
	coeffs := make([]float64, n)
	step := 2 * math.Pi / float64(n-1)
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(step*float64(i)))
	}
	return coeffs
}

func applyWindow(samples, coeffs []float64) {
	if len(samples) != len(coeffs) {
		panic("dsp: window length mismatch")
	}
	for i, c := range coeffs {
		samples[i] *= c
	}
}

// Smoother is an exponential moving average seeded by its first sample.
type Smoother struct {
	alpha  float64
	value  float64
	primed bool
}

// NewSmoother clamps alpha to [0, 1]; 1 follows the input exactly.
func NewSmoother(alpha float64) *Smoother {
	return &Smoother{alpha: utils.Clamp(alpha, 0.0, 1.0)}
}

// Step folds v into the average and returns it.
func (s *Smoother) Step(v float64) float64 {
	if s.primed {
		s.value = utils.Lerp(s.value, v, s.alpha)
	} else {
		s.value, s.primed = v, true
	}
	return s.value
}

// Value returns the average without folding in a new sample.
func (s *Smoother) Value() float64 { return s.value }

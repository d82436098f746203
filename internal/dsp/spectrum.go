package dsp

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/cybre/profile-card-fx/internal/utils"
)

// Analyser defaults, matching a browser AnalyserNode.
const (
	DefaultFFTSize   = 256
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser turns mono PCM frames into byte FrequencySnapshots: windowed FFT,
// per-bin magnitude smoothing over time, then a decibel range mapped onto
// 0..255. It keeps scratch buffers and is not safe for concurrent use.
type Analyser struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64

	window   []float64
	windowed []float64
	smoothed []float64
}

// NewAnalyser constructs an Analyser producing fftSize/2 bins.
func NewAnalyser(fftSize int) *Analyser {
	if fftSize < 2 {
		panic("dsp: fftSize must be >= 2")
	}
	return &Analyser{
		fftSize:   fftSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		window:    HannWindow(fftSize),
		windowed:  make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
	}
}

// Process analyses the most recent fftSize samples of frame. Shorter frames
// are zero-padded at the front. The returned snapshot is freshly allocated.
func (a *Analyser) Process(frame []float64) []uint8 {
	clear(a.windowed)
	if len(frame) >= a.fftSize {
		copy(a.windowed, frame[len(frame)-a.fftSize:])
	} else {
		copy(a.windowed[a.fftSize-len(frame):], frame)
	}
	applyWindow(a.windowed, a.window)

	spectrum := fft.FFTReal(a.windowed)
	scale := 1 / float64(a.fftSize)
	snapshot := make([]uint8, len(a.smoothed))
	span := a.maxDB - a.minDB

	for i := range a.smoothed {
		mag := cmplx.Abs(spectrum[i]) * scale
		a.smoothed[i] = a.smoothing*a.smoothed[i] + (1-a.smoothing)*mag

		if a.smoothed[i] <= 0 {
			continue
		}
		db := 20 * math.Log10(a.smoothed[i])
		level := 255 * (db - a.minDB) / span
		snapshot[i] = uint8(utils.Clamp(math.Floor(level), 0, 255))
	}
	return snapshot
}

// Snapshot is Process gated on signal presence. Digitally silent frames yield
// nil, the absent snapshot, and clear the smoothing history so a resumed
// source does not fade in from stale bins.
func (a *Analyser) Snapshot(frame []float64) []uint8 {
	if IsSilent(frame) {
		a.Reset()
		return nil
	}
	return a.Process(frame)
}

// Reset clears the smoothing history.
func (a *Analyser) Reset() {
	clear(a.smoothed)
}

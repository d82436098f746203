package main

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/utils"
)

// syntheticSpectrum produces slowly breathing byte spectra with a falling
// slope toward the high bins and the occasional kick.
type syntheticSpectrum struct {
	rng       *rand.Rand
	phaseBass float64
	phaseMid  float64
	phaseHigh float64
}

func newSyntheticSpectrum(seed int64) *syntheticSpectrum {
	return &syntheticSpectrum{rng: rand.New(rand.NewSource(seed))}
}

func (s *syntheticSpectrum) Next(delta float64) []uint8 {
	s.phaseBass += delta * 0.7
	s.phaseMid += delta * 1.2
	s.phaseHigh += delta * 2.1

	bass := 0.5 + 0.5*math.Sin(s.phaseBass)
	mid := 0.4 + 0.4*math.Sin(s.phaseMid+0.5)
	high := 0.3 + 0.3*math.Sin(s.phaseHigh+1.0)
	if s.rng.Float64() < 0.02 {
		bass = 1
	}

	split := dsp.DefaultSplit()
	out := make([]uint8, dsp.SnapshotSize)
	for i := range out {
		level := high
		switch {
		case i < split.LowEnd:
			level = bass
		case i < split.MidEnd:
			level = mid
		}
		slope := 1 - 0.5*float64(i)/float64(len(out))
		v := 255 * (level*slope + s.rng.Float64()*0.08)
		out[i] = uint8(utils.Clamp(v, 0, 255))
	}
	return out
}

func runSynthetic(ctx context.Context, out chan []uint8, rate time.Duration) error {
	gen := newSyntheticSpectrum(time.Now().UnixNano())
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			sendLatest(out, gen.Next(now.Sub(last).Seconds()))
			last = now
		}
	}
}

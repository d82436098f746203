package dsp

import (
	"math"

	"github.com/rotisserie/eris"
)

// SnapshotSize is the bin count of a FrequencySnapshot (fftSize 256).
const SnapshotSize = 128

// Default band split points over a 128-bin snapshot. Ranges are half-open:
// low [0, LowEnd), mid [LowEnd, MidEnd), high [MidEnd, HighEnd).
const (
	DefaultLowEnd  = 18
	DefaultMidEnd  = 64
	DefaultHighEnd = 128
)

// Bass shaping. The reference scale maps a typical kick-heavy mean onto ~1.
const (
	BassScale    = 70.0
	BassBias     = 0.05
	BassExponent = 1.1
	BassCeiling  = 2.5
)

// Mid shaping.
const (
	MidScale    = 90.0
	MidBias     = 0.03
	MidExponent = 1.15
	MidCeiling  = 1.9
)

// High shaping uses the steepest curve so sparse treble still registers.
const (
	HighScale    = 110.0
	HighBias     = 0.02
	HighExponent = 1.2
	HighCeiling  = 1.7
)

// Bands is the per-tick perceptual energy summary.
type Bands struct {
	Bass float64 `json:"bass"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// Shape is the normalisation curve for one band:
// min((mean/Scale + Bias)^Exponent, Ceiling).
type Shape struct {
	Scale    float64
	Bias     float64
	Exponent float64
	Ceiling  float64
}

// Apply shapes a band mean. The bias is added before exponentiation so a
// silent band still produces Bias^Exponent.
func (s Shape) Apply(mean float64) float64 {
	v := math.Pow(mean/s.Scale+s.Bias, s.Exponent)
	return math.Min(v, s.Ceiling)
}

// Floor is the value a silent band reduces to.
func (s Shape) Floor() float64 {
	return s.Apply(0)
}

var (
	BassShape = Shape{Scale: BassScale, Bias: BassBias, Exponent: BassExponent, Ceiling: BassCeiling}
	MidShape  = Shape{Scale: MidScale, Bias: MidBias, Exponent: MidExponent, Ceiling: MidCeiling}
	HighShape = Shape{Scale: HighScale, Bias: HighBias, Exponent: HighExponent, Ceiling: HighCeiling}
)

// Ceilings returns the upper bound of every band.
func Ceilings() Bands {
	return Bands{Bass: BassCeiling, Mid: MidCeiling, High: HighCeiling}
}

// Split holds the exclusive end index of each band.
type Split struct {
	LowEnd  int
	MidEnd  int
	HighEnd int
}

// DefaultSplit returns the 18/64/128 partition.
func DefaultSplit() Split {
	return Split{LowEnd: DefaultLowEnd, MidEnd: DefaultMidEnd, HighEnd: DefaultHighEnd}
}

func (s Split) validate() error {
	if s.LowEnd < 0 || s.LowEnd > s.MidEnd || s.MidEnd > s.HighEnd {
		return eris.Errorf("dsp: band split must be ordered, got %d/%d/%d", s.LowEnd, s.MidEnd, s.HighEnd)
	}
	return nil
}

// Extractor reduces a FrequencySnapshot to Bands.
type Extractor struct {
	split  Split
	shapes [3]Shape
}

// NewExtractor constructs an Extractor with the default shaping curves. A zero
// Split selects DefaultSplit; an unordered split panics.
func NewExtractor(split Split) *Extractor {
	if split == (Split{}) {
		split = DefaultSplit()
	}
	if err := split.validate(); err != nil {
		panic(err.Error())
	}
	return &Extractor{
		split:  split,
		shapes: [3]Shape{BassShape, MidShape, HighShape},
	}
}

// Split returns the configured partition.
func (e *Extractor) Split() Split {
	return e.split
}

// Extract computes the shaped band energies. A nil snapshot is silence.
// Ranges past the end of the snapshot are clipped.
func (e *Extractor) Extract(snapshot []uint8) Bands {
	bass := mean(snapshot, 0, e.split.LowEnd)
	mid := mean(snapshot, e.split.LowEnd, e.split.MidEnd)
	high := mean(snapshot, e.split.MidEnd, e.split.HighEnd)

	return Bands{
		Bass: e.shapes[0].Apply(bass),
		Mid:  e.shapes[1].Apply(mid),
		High: e.shapes[2].Apply(high),
	}
}

func mean(snapshot []uint8, start, end int) float64 {
	end = min(end, len(snapshot))
	if start >= end {
		return 0
	}
	var sum int
	for _, v := range snapshot[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(end-start)
}

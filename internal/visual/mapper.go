// Package visual maps a theme snapshot and band energies onto the flat set of
// parameters the rendering surface applies each frame.
package visual

import (
	"math"
	"time"

	"github.com/cybre/profile-card-fx/internal/colorspace"
	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/theme"
	"github.com/cybre/profile-card-fx/internal/utils"
)

const (
	GlowBaseRadius = 24.0
	GlowRadiusGain = 60.0
	GlowBaseAlpha  = 0.25
	GlowAlphaGain  = 0.75

	CardScaleGain = 0.12

	BorderBaseWidth   = 1.0
	BorderWidthGain   = 5.5
	BoxGlowBaseRadius = 18.0
	BoxGlowRadiusGain = 28.0
	BoxGlowSpreadGain = 4.0

	FogPlaneCount       = 12
	FogPlaneSpacing     = 1.2
	FogOpacityGain      = 0.14
	FogDepthPull        = 0.55
	FogRotationRate     = 0.048 // radians per second per layer index
	goldenRatioFraction = 0.6180339887498949

	MistDriftGain = 26.0
	MistScaleGain = 0.13

	SignalJitterGain  = 5.0
	SignalBaseOpacity = 0.82
	SignalOpacityGain = 0.18

	BarCount          = 40
	BarHeightFraction = 0.45
	BarBaseAlpha      = 0.15
	BarAlphaGain      = 0.85
	BarWidthFraction  = 0.7

	maxSnapshotSample = 255.0
	fullTurn          = 2 * math.Pi
)

// Context carries the per-tick inputs that are not theme or band data.
type Context struct {
	// Clock is the total time since the engine started.
	Clock time.Duration
	// Snapshot is the frequency snapshot the bands were derived from, nil
	// before playback.
	Snapshot []uint8
}

// Glow is the title text-shadow.
type Glow struct {
	Color  colorspace.RGB `json:"color"`
	Radius float64        `json:"radius"`
	// Alpha grows past 1 on loud bass; the surface saturates it.
	Alpha float64 `json:"alpha"`
}

// Border is the card border and box-shadow glow.
type Border struct {
	From          colorspace.RGB `json:"from"`
	To            colorspace.RGB `json:"to"`
	Width         float64        `json:"width"`
	BoxGlowRadius float64        `json:"boxGlowRadius"`
	BoxGlowSpread float64        `json:"boxGlowSpread"`
}

// FogPlane is one depth layer of the background fog.
type FogPlane struct {
	Opacity  float64 `json:"opacity"`
	Depth    float64 `json:"depth"`
	Rotation float64 `json:"rotation"`
}

// Mist is the drifting color wash behind the card.
type Mist struct {
	A      colorspace.Translucent `json:"a"`
	B      colorspace.Translucent `json:"b"`
	DriftX float64                `json:"driftX"`
	Scale  float64                `json:"scale"`
}

// SignalLine is the small status line that shakes on treble.
type SignalLine struct {
	Jitter  float64 `json:"jitter"`
	Opacity float64 `json:"opacity"`
}

// Bar is one column of the mirrored visualizer. Geometry is normalized to the
// canvas: X and Width to its width, Height to its height. The bar extends
// Height above and below the center line.
type Bar struct {
	Magnitude float64 `json:"magnitude"`
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Alpha     float64 `json:"alpha"`
}

// Visualizer is the bar strip under the title.
type Visualizer struct {
	Visible bool           `json:"visible"`
	Color   colorspace.RGB `json:"color"`
	Bars    [BarCount]Bar  `json:"bars"`
}

// Frame is everything the surface needs for one tick. It is never retained.
type Frame struct {
	Theme      theme.Name              `json:"theme"`
	FogColor   colorspace.RGB          `json:"fogColor"`
	Bands      dsp.Bands               `json:"bands"`
	Glow       Glow                    `json:"glow"`
	CardScale  float64                 `json:"cardScale"`
	Border     Border                  `json:"border"`
	FogPlanes  [FogPlaneCount]FogPlane `json:"fogPlanes"`
	Mist       Mist                    `json:"mist"`
	SignalLine SignalLine              `json:"signalLine"`
	Visualizer Visualizer              `json:"visualizer"`
}

// Map derives the frame parameters. Bands are clamped to [0, ceiling] first,
// so every output stays within Bounds.
func Map(th theme.Theme, bands dsp.Bands, ctx Context) Frame {
	bands = sanitize(bands)
	bass, mid, high := bands.Bass, bands.Mid, bands.High

	f := Frame{
		Theme:     th.Name,
		FogColor:  th.FogColor,
		Bands:     bands,
		CardScale: 1 + bass*CardScaleGain,
		Glow: Glow{
			Color:  th.Glow,
			Radius: GlowBaseRadius + bass*GlowRadiusGain,
			Alpha:  GlowBaseAlpha + bass*GlowAlphaGain,
		},
		Border: Border{
			From:          th.BorderFrom,
			To:            th.BorderTo,
			Width:         BorderBaseWidth + mid*BorderWidthGain,
			BoxGlowRadius: BoxGlowBaseRadius + mid*BoxGlowRadiusGain,
			BoxGlowSpread: mid * BoxGlowSpreadGain,
		},
		Mist: Mist{
			A:      th.MistA,
			B:      th.MistB,
			DriftX: bass * MistDriftGain,
			Scale:  1 + high*MistScaleGain,
		},
		SignalLine: SignalLine{
			Jitter:  high * SignalJitterGain,
			Opacity: utils.Clamp(SignalBaseOpacity+high*SignalOpacityGain, 0.0, 1.0),
		},
	}

	seconds := ctx.Clock.Seconds()
	for i := range f.FogPlanes {
		f.FogPlanes[i] = fogPlane(i, th.FogPlaneBaseOpacity, bass, seconds)
	}

	f.Visualizer = bars(th.Glow, ctx.Snapshot)
	return f
}

func fogPlane(i int, baseOpacity, bass, seconds float64) FogPlane {
	taper := 1 - float64(i)/FogPlaneCount
	seed := math.Mod(float64(i)*goldenRatioFraction, 1)
	rotation := math.Mod(seed+FogRotationRate*float64(i+1)*seconds, fullTurn)
	if rotation < 0 || math.IsNaN(rotation) {
		rotation = 0
	}
	return FogPlane{
		Opacity:  utils.Clamp(baseOpacity+bass*FogOpacityGain*taper, 0.0, 1.0),
		Depth:    -float64(i)*FogPlaneSpacing - bass*FogDepthPull,
		Rotation: rotation,
	}
}

func bars(color colorspace.RGB, snapshot []uint8) Visualizer {
	v := Visualizer{Visible: snapshot != nil, Color: color}
	stride := max(1, len(snapshot)/BarCount)
	width := 1.0 / BarCount

	for i := range v.Bars {
		var sample uint8
		if idx := i * stride; idx < len(snapshot) {
			sample = snapshot[idx]
		}
		mag := float64(sample) / maxSnapshotSample
		v.Bars[i] = Bar{
			Magnitude: mag,
			X:         float64(i) * width,
			Width:     width * BarWidthFraction,
			Height:    mag * BarHeightFraction,
			Alpha:     BarBaseAlpha + mag*BarAlphaGain,
		}
	}
	return v
}

func sanitize(b dsp.Bands) dsp.Bands {
	c := dsp.Ceilings()
	return dsp.Bands{
		Bass: clampBand(b.Bass, c.Bass),
		Mid:  clampBand(b.Mid, c.Mid),
		High: clampBand(b.High, c.High),
	}
}

func clampBand(v, ceiling float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return utils.Clamp(v, 0.0, ceiling)
}

// Limits are the largest values Map can produce.
type Limits struct {
	GlowRadius    float64
	GlowAlpha     float64
	CardScale     float64
	BorderWidth   float64
	BoxGlowRadius float64
	BoxGlowSpread float64
	FogOpacity    float64
	FogDepth      float64 // most negative depth
	MistDriftX    float64
	MistScale     float64
	SignalJitter  float64
	BarHeight     float64
}

// Bounds computes Limits from the band ceilings.
func Bounds() Limits {
	c := dsp.Ceilings()
	return Limits{
		GlowRadius:    GlowBaseRadius + c.Bass*GlowRadiusGain,
		GlowAlpha:     GlowBaseAlpha + c.Bass*GlowAlphaGain,
		CardScale:     1 + c.Bass*CardScaleGain,
		BorderWidth:   BorderBaseWidth + c.Mid*BorderWidthGain,
		BoxGlowRadius: BoxGlowBaseRadius + c.Mid*BoxGlowRadiusGain,
		BoxGlowSpread: c.Mid * BoxGlowSpreadGain,
		FogOpacity:    1,
		FogDepth:      -float64(FogPlaneCount-1)*FogPlaneSpacing - c.Bass*FogDepthPull,
		MistDriftX:    c.Bass * MistDriftGain,
		MistScale:     1 + c.High*MistScaleGain,
		SignalJitter:  c.High * SignalJitterGain,
		BarHeight:     BarHeightFraction,
	}
}

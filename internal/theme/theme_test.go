package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cybre/profile-card-fx/internal/colorspace"
)

func TestDefaultCatalog(t *testing.T) {
	b := Default()
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []Name{Cyber, Ember, Abyss}, b.Order())

	cyber := b.Lookup(Cyber)
	assert.Equal(t, colorspace.RGB{R: 0x0c, G: 0x10, B: 0x20}, cyber.FogColor)
	assert.Equal(t, colorspace.RGB{R: 0, G: 255, B: 255}, cyber.BorderFrom)
	assert.Equal(t, colorspace.RGB{R: 255, G: 0, B: 255}, cyber.BorderTo)
	assert.InDelta(t, 0.14, cyber.MistA.Alpha, 1e-12)
	assert.Equal(t, colorspace.White, cyber.Glow)

	ember := b.Lookup(Ember)
	assert.Equal(t, colorspace.RGB{R: 255, G: 200, B: 150}, ember.Glow)
	assert.Equal(t, 0.045, ember.FogPlaneBaseOpacity)
}

func TestNextWraps(t *testing.T) {
	b := Default()
	assert.Equal(t, Ember, b.Next(Cyber))
	assert.Equal(t, Abyss, b.Next(Ember))
	assert.Equal(t, Cyber, b.Next(Abyss))
	assert.Equal(t, Cyber, b.At(3))
	assert.Equal(t, Abyss, b.At(-1))
}

func TestUnknownNamePanics(t *testing.T) {
	b := Default()
	assert.Panics(t, func() { b.Lookup("neon") })
	assert.Panics(t, func() { b.Next("neon") })
}

func TestOrderIsACopy(t *testing.T) {
	b := Default()
	order := b.Order()
	order[0] = "mutated"
	assert.Equal(t, Cyber, b.Order()[0])
}

func TestBlendEndpoints(t *testing.T) {
	b := Default()
	cyber, ember := b.Lookup(Cyber), b.Lookup(Ember)

	assert.Equal(t, cyber, Blend(cyber, ember, 0))
	assert.Equal(t, ember, Blend(cyber, ember, 1))

	mid := Blend(cyber, ember, 0.5)
	assert.Equal(t, Cyber, mid.Name)
	assert.InDelta(t, 0.0475, mid.FogPlaneBaseOpacity, 1e-12)
	assert.InDelta(t, 0.15, mid.MistA.Alpha, 1e-12)
	assert.Equal(t, colorspace.RGB{R: 255, G: 228, B: 203}, mid.Glow)
}

func TestBuildRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		mustBuild([]definition{definitions[0], definitions[0]})
	})
	assert.Panics(t, func() {
		mustBuild(nil)
	})
}

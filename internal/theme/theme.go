// Package theme defines the closed catalog of card palettes and the cyclic
// order the transition walks through.
package theme

import (
	"fmt"

	"github.com/cybre/profile-card-fx/internal/colorspace"
	"github.com/cybre/profile-card-fx/internal/utils"
)

// Name identifies a catalog entry.
type Name string

const (
	Cyber Name = "cyber"
	Ember Name = "ember"
	Abyss Name = "abyss"
)

// Theme is an immutable palette. Values are copied, never shared.
type Theme struct {
	Name                Name                   `json:"name"`
	FogColor            colorspace.RGB         `json:"fogColor"`
	FogPlaneBaseOpacity float64                `json:"fogPlaneBaseOpacity"`
	BorderFrom          colorspace.RGB         `json:"borderFrom"`
	BorderTo            colorspace.RGB         `json:"borderTo"`
	MistA               colorspace.Translucent `json:"mistA"`
	MistB               colorspace.Translucent `json:"mistB"`
	Glow                colorspace.RGB         `json:"glow"`
}

// Bank is an ordered, read-only theme catalog.
type Bank struct {
	themes map[Name]Theme
	order  []Name
	index  map[Name]int
}

// definition mirrors the literal notation the palettes were authored in.
type definition struct {
	name        Name
	fogColor    uint32
	baseOpacity float64
	borderFrom  string
	borderTo    string
	mistA       string
	mistB       string
	glow        string
}

var definitions = []definition{
	{
		name:        Cyber,
		fogColor:    0x0c1020,
		baseOpacity: 0.05,
		borderFrom:  "#0ff",
		borderTo:    "#f0f",
		mistA:       "rgba(0, 255, 255, 0.14)",
		mistB:       "rgba(255, 0, 255, 0.09)",
		glow:        "255,255,255",
	},
	{
		name:        Ember,
		fogColor:    0x1a0604,
		baseOpacity: 0.045,
		borderFrom:  "#ffb347",
		borderTo:    "#ff0844",
		mistA:       "rgba(255, 120, 60, 0.16)",
		mistB:       "rgba(255, 40, 40, 0.08)",
		glow:        "255,200,150",
	},
	{
		name:        Abyss,
		fogColor:    0x020814,
		baseOpacity: 0.06,
		borderFrom:  "#4facfe",
		borderTo:    "#00f2fe",
		mistA:       "rgba(80, 160, 255, 0.16)",
		mistB:       "rgba(0, 220, 255, 0.09)",
		glow:        "180,220,255",
	},
}

var defaultBank = mustBuild(definitions)

// Default returns the built-in catalog ordered cyber → ember → abyss.
func Default() *Bank {
	return defaultBank
}

func mustBuild(defs []definition) *Bank {
	b := &Bank{
		themes: make(map[Name]Theme, len(defs)),
		order:  make([]Name, 0, len(defs)),
		index:  make(map[Name]int, len(defs)),
	}
	for _, d := range defs {
		if _, dup := b.themes[d.name]; dup {
			panic(fmt.Sprintf("theme: duplicate theme %q", d.name))
		}
		b.index[d.name] = len(b.order)
		b.order = append(b.order, d.name)
		b.themes[d.name] = d.build()
	}
	if len(b.order) == 0 {
		panic("theme: empty catalog")
	}
	return b
}

func (d definition) build() Theme {
	return Theme{
		Name:                d.name,
		FogColor:            colorspace.HexToRGB(d.fogColor),
		FogPlaneBaseOpacity: d.baseOpacity,
		BorderFrom:          mustHex(d.name, d.borderFrom),
		BorderTo:            mustHex(d.name, d.borderTo),
		MistA:               colorspace.MustTranslucent(d.mistA),
		MistB:               colorspace.MustTranslucent(d.mistB),
		Glow:                colorspace.ParseTriple(d.glow),
	}
}

func mustHex(name Name, s string) colorspace.RGB {
	c, err := colorspace.ParseHex(s)
	if err != nil {
		panic(fmt.Sprintf("theme: %s: %v", name, err))
	}
	return c
}

// Len returns the number of themes in the cycle.
func (b *Bank) Len() int {
	return len(b.order)
}

// Order returns a copy of the cycle order.
func (b *Bank) Order() []Name {
	out := make([]Name, len(b.order))
	copy(out, b.order)
	return out
}

// Lookup returns the named theme. Unknown names are a catalog bug and panic.
func (b *Bank) Lookup(name Name) Theme {
	t, ok := b.themes[name]
	if !ok {
		panic(fmt.Sprintf("theme: unknown theme %q", name))
	}
	return t
}

// Index returns the position of name within the cycle order.
func (b *Bank) Index(name Name) int {
	i, ok := b.index[name]
	if !ok {
		panic(fmt.Sprintf("theme: unknown theme %q", name))
	}
	return i
}

// At returns the name at position i, wrapping cyclically.
func (b *Bank) At(i int) Name {
	return b.order[utils.WrapIndex(i, len(b.order))]
}

// Next returns the entry following name in cyclic order.
func (b *Bank) Next(name Name) Name {
	return b.At(b.Index(name) + 1)
}

// Blend interpolates every color and opacity of from towards to. The result
// keeps the name of from until t reaches 1.
func Blend(from, to Theme, t float64) Theme {
	t = utils.Clamp(t, 0.0, 1.0)
	name := from.Name
	if t >= 1 {
		name = to.Name
	}
	return Theme{
		Name:                name,
		FogColor:            colorspace.Lerp(from.FogColor, to.FogColor, t),
		FogPlaneBaseOpacity: utils.Lerp(from.FogPlaneBaseOpacity, to.FogPlaneBaseOpacity, t),
		BorderFrom:          colorspace.Lerp(from.BorderFrom, to.BorderFrom, t),
		BorderTo:            colorspace.Lerp(from.BorderTo, to.BorderTo, t),
		MistA:               colorspace.LerpTranslucent(from.MistA, to.MistA, t),
		MistB:               colorspace.LerpTranslucent(from.MistB, to.MistB, t),
		Glow:                colorspace.Lerp(from.Glow, to.Glow, t),
	}
}

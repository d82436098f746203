// Package colorspace holds the small amount of color math the card needs:
// 24-bit hex packing, channel interpolation and the translucent rgba()
// notation used for mist layers.
package colorspace

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cybre/profile-card-fx/internal/utils"
)

// DefaultAlpha is returned by ParseTranslucent when the input cannot be parsed.
const DefaultAlpha = 0.1

// White is the fallback triple for malformed color strings.
var White = RGB{R: 255, G: 255, B: 255}

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Translucent pairs a color with an alpha in [0, 1].
type Translucent struct {
	RGB
	Alpha float64 `json:"a"`
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String formats the color in rgba() notation.
func (t Translucent) String() string {
	return FormatTranslucent(t.RGB, t.Alpha)
}

// HexToRGB unpacks a 0xRRGGBB value. Bits above 24 are ignored.
func HexToRGB(hex uint32) RGB {
	return RGB{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// RGBToHex packs c into 0xRRGGBB.
func RGBToHex(c RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Lerp interpolates each channel of a towards b and rounds to the nearest
// integer. t is clamped to [0, 1].
func Lerp(a, b RGB, t float64) RGB {
	t = utils.Clamp(t, 0.0, 1.0)
	return RGB{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

// LerpTranslucent interpolates both the color and the alpha.
func LerpTranslucent(a, b Translucent, t float64) Translucent {
	t = utils.Clamp(t, 0.0, 1.0)
	return Translucent{
		RGB:   Lerp(a.RGB, b.RGB, t),
		Alpha: utils.Lerp(a.Alpha, b.Alpha, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(utils.Lerp(float64(a), float64(b), t))
	return uint8(utils.Clamp(v, 0, 255))
}

var rgbaPattern = regexp.MustCompile(`(?i)^\s*rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*([0-9]*\.?[0-9]+)\s*\)\s*$`)

// ParseTranslucent reads an rgba(r, g, b, a) string. Malformed input yields
// White and DefaultAlpha instead of an error; alpha is clamped to [0, 1].
func ParseTranslucent(s string) (RGB, float64) {
	m := rgbaPattern.FindStringSubmatch(s)
	if m == nil {
		return White, DefaultAlpha
	}

	var channels [3]uint8
	for i := range channels {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return White, DefaultAlpha
		}
		channels[i] = uint8(v)
	}

	alpha, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return White, DefaultAlpha
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, utils.Clamp(alpha, 0.0, 1.0)
}

// MustTranslucent is ParseTranslucent returning a Translucent.
func MustTranslucent(s string) Translucent {
	c, a := ParseTranslucent(s)
	return Translucent{RGB: c, Alpha: a}
}

// FormatTranslucent renders rgba(r, g, b, a) with the alpha at two decimals.
func FormatTranslucent(c RGB, alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, utils.Clamp(alpha, 0.0, 1.0))
}

// ParseTriple reads "r,g,b". Missing or invalid channels become 255.
func ParseTriple(s string) RGB {
	parts := strings.Split(s, ",")
	channels := [3]uint8{255, 255, 255}
	for i := 0; i < len(parts) && i < len(channels); i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			continue
		}
		channels[i] = uint8(v)
	}
	return RGB{R: channels[0], G: channels[1], B: channels[2]}
}

// FormatTriple renders "r,g,b".
func FormatTriple(c RGB) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// ParseHex reads #rgb or #rrggbb (the leading # is optional).
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, eris.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, eris.Wrapf(err, "invalid hex color %q", s)
	}
	return HexToRGB(uint32(v)), nil
}

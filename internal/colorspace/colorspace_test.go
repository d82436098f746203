package colorspace

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		c := RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		assert.Equal(t, c, HexToRGB(RGBToHex(c)))
	}
	assert.Equal(t, RGB{R: 0x0c, G: 0x10, B: 0x20}, HexToRGB(0x0c1020))
	assert.Equal(t, uint32(0xffffff), RGBToHex(White))
}

func TestLerpEndpointsAndBetween(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		a := RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		b := RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}

		assert.Equal(t, a, Lerp(a, b, 0))
		assert.Equal(t, b, Lerp(a, b, 1))

		mid := Lerp(a, b, 0.5)
		assertBetween(t, mid.R, a.R, b.R)
		assertBetween(t, mid.G, a.G, b.G)
		assertBetween(t, mid.B, a.B, b.B)
	}
}

func assertBetween(t *testing.T, v, a, b uint8) {
	t.Helper()
	lo, hi := min(a, b), max(a, b)
	assert.GreaterOrEqual(t, v, lo)
	assert.LessOrEqual(t, v, hi)
}

func TestLerpRounds(t *testing.T) {
	got := Lerp(RGB{R: 0}, RGB{R: 3}, 0.5)
	assert.Equal(t, uint8(2), got.R)
}

func TestLerpTranslucent(t *testing.T) {
	a := Translucent{RGB: RGB{R: 0, G: 255, B: 255}, Alpha: 0.14}
	b := Translucent{RGB: RGB{R: 255, G: 120, B: 60}, Alpha: 0.16}
	mid := LerpTranslucent(a, b, 0.5)
	assert.InDelta(t, 0.15, mid.Alpha, 1e-9)
	assert.Equal(t, uint8(128), mid.R)
}

func TestParseTranslucent(t *testing.T) {
	c, a := ParseTranslucent("rgba(0, 255, 255, 0.14)")
	assert.Equal(t, RGB{R: 0, G: 255, B: 255}, c)
	assert.InDelta(t, 0.14, a, 1e-12)

	c, a = ParseTranslucent("RGBA(80,160,255,.5)")
	assert.Equal(t, RGB{R: 80, G: 160, B: 255}, c)
	assert.InDelta(t, 0.5, a, 1e-12)
}

func TestParseTranslucentFailsClosed(t *testing.T) {
	for _, in := range []string{"", "rgb(1,2,3)", "rgba(1,2,3)", "rgba(300, 0, 0, 0.2)", "garbage"} {
		c, a := ParseTranslucent(in)
		assert.Equal(t, White, c, in)
		assert.Equal(t, DefaultAlpha, a, in)
	}
}

func TestFormatTranslucent(t *testing.T) {
	assert.Equal(t, "rgba(255, 40, 40, 0.08)", FormatTranslucent(RGB{R: 255, G: 40, B: 40}, 0.08))
	assert.Equal(t, "rgba(1, 2, 3, 1.00)", FormatTranslucent(RGB{R: 1, G: 2, B: 3}, 4))

	c, a := ParseTranslucent(FormatTranslucent(RGB{R: 9, G: 8, B: 7}, 0.25))
	assert.Equal(t, RGB{R: 9, G: 8, B: 7}, c)
	assert.InDelta(t, 0.25, a, 1e-12)
}

func TestParseTriple(t *testing.T) {
	assert.Equal(t, RGB{R: 255, G: 200, B: 150}, ParseTriple("255,200,150"))
	assert.Equal(t, RGB{R: 180, G: 220, B: 255}, ParseTriple(" 180 , 220 , 255 "))
	assert.Equal(t, RGB{R: 10, G: 255, B: 255}, ParseTriple("10,x"))
	assert.Equal(t, "180,220,255", FormatTriple(RGB{R: 180, G: 220, B: 255}))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0ff")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0, G: 255, B: 255}, c)

	c, err = ParseHex("#ff0844")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0xff, G: 0x08, B: 0x44}, c)
	assert.Equal(t, "#ff0844", c.Hex())

	_, err = ParseHex("#12")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

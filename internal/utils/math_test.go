package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(2.0, 0.0, 1.0))
	assert.Equal(t, 0.0, Clamp(-1.0, 0.0, 1.0))
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
	assert.Equal(t, 3, Clamp(7, 0, 3))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10.0, 20.0, 0))
	assert.Equal(t, 20.0, Lerp(10.0, 20.0, 1))
	assert.InDelta(t, 15.0, Lerp(10.0, 20.0, 0.5), 1e-12)
}

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 0, WrapIndex(3, 3))
	assert.Equal(t, 2, WrapIndex(-1, 3))
	assert.Equal(t, 1, WrapIndex(7, 3))
	assert.Equal(t, 0, WrapIndex(5, 0))
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(-4, 3))
	assert.Equal(t, 2, ClampIndex(9, 3))
	assert.Equal(t, 0, ClampIndex(1, 0))
}

package typewriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstCharacterShowsImmediately(t *testing.T) {
	assert.Equal(t, "h", New("", 0).Text())
	assert.Equal(t, "h", New("", 0).Advance(0))
}

func TestTypesForwardThenBack(t *testing.T) {
	tw := New("", 0)

	got := []string{tw.Text()}
	for i := 0; i < 8; i++ {
		got = append(got, tw.Advance(DefaultInterval))
	}
	assert.Equal(t, []string{"h", "he", "her", "herb", "her", "he", "h", Blank, "h"}, got)
}

func TestPartialIntervalsAccumulate(t *testing.T) {
	tw := New("ab", 100*time.Millisecond)
	assert.Equal(t, "a", tw.Advance(60*time.Millisecond))
	assert.Equal(t, "ab", tw.Advance(60*time.Millisecond))
}

func TestLargeDeltaTakesSeveralSteps(t *testing.T) {
	tw := New("abc", 100*time.Millisecond)
	assert.Equal(t, "abc", tw.Advance(200*time.Millisecond))
	assert.Equal(t, "a", tw.Advance(200*time.Millisecond))
}

func TestSingleCharacterText(t *testing.T) {
	tw := New("x", 100*time.Millisecond)
	assert.Equal(t, "x", tw.Text())
	assert.Equal(t, Blank, tw.Advance(100*time.Millisecond))
	assert.Equal(t, "x", tw.Advance(100*time.Millisecond))
}

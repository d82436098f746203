// Package typewriter animates the card title by typing it out and erasing it
// again, one character per interval.
package typewriter

import (
	"time"
)

const (
	DefaultText     = "herb"
	DefaultInterval = 350 * time.Millisecond
	// Blank keeps the title line from collapsing when no character is shown.
	Blank = "\u00a0"
)

// Typewriter holds the visible prefix length and direction.
type Typewriter struct {
	text     []rune
	interval time.Duration

	shown   int
	forward bool
	pending time.Duration
}

// New returns a typewriter for text with its first character already typed.
// Empty text or a non-positive interval selects the defaults.
func New(text string, interval time.Duration) *Typewriter {
	if text == "" {
		text = DefaultText
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Typewriter{text: []rune(text), interval: interval, forward: true}
	t.step()
	return t
}

// Advance consumes elapsed time, stepping once per whole interval, and
// returns the visible title.
func (t *Typewriter) Advance(elapsed time.Duration) string {
	if elapsed > 0 {
		t.pending += elapsed
	}
	for t.pending >= t.interval {
		t.pending -= t.interval
		t.step()
	}
	return t.Text()
}

func (t *Typewriter) step() {
	if t.forward {
		t.shown++
		if t.shown >= len(t.text) {
			t.shown = len(t.text)
			t.forward = false
		}
		return
	}
	t.shown--
	if t.shown <= 0 {
		t.shown = 0
		t.forward = true
	}
}

// Text returns the currently visible prefix, or Blank when nothing is shown.
func (t *Typewriter) Text() string {
	if t.shown == 0 {
		return Blank
	}
	return string(t.text[:t.shown])
}

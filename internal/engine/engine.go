// Package engine is the per-tick step function of the card. The host owns an
// Engine, feeds it elapsed time and the latest frequency snapshot once per
// display refresh, and applies the returned Output to its surface.
package engine

import (
	"time"

	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/theme"
	"github.com/cybre/profile-card-fx/internal/tilt"
	"github.com/cybre/profile-card-fx/internal/transition"
	"github.com/cybre/profile-card-fx/internal/typewriter"
	"github.com/cybre/profile-card-fx/internal/visual"
)

// Options configures a new Engine. Zero values select defaults.
type Options struct {
	Start        theme.Name
	Transition   transition.Options
	Split        dsp.Split
	Title        string
	TypeInterval time.Duration
}

// Input is what the host supplies each tick.
type Input struct {
	Elapsed time.Duration
	// Snapshot is nil until an audio source is playing.
	Snapshot []uint8
	// Pointer is nil when the pointer did not move since the last tick.
	Pointer *tilt.Pointer
}

// CycleStatus describes the theme cycle after the tick.
type CycleStatus struct {
	From     theme.Name `json:"from"`
	To       theme.Name `json:"to"`
	Progress float64    `json:"progress"`
	Phase    string     `json:"phase"`
	Steps    uint64     `json:"steps"`
}

// Output is the full parameter set for one frame.
type Output struct {
	visual.Frame
	Tilt  tilt.Pose   `json:"tilt"`
	Title string      `json:"title"`
	Cycle CycleStatus `json:"cycle"`
	Tick  uint64      `json:"tick"`
}

// Engine carries all state that survives between ticks. It is not safe for
// concurrent use; the host calls Tick from its frame loop only.
type Engine struct {
	bank      *theme.Bank
	extractor *dsp.Extractor
	cycle     *transition.Cycle
	tilt      tilt.State
	title     *typewriter.Typewriter

	clock time.Duration
	ticks uint64
}

// New builds an Engine over the default theme catalog.
func New(opts Options) *Engine {
	bank := theme.Default()
	start := opts.Start
	if start == "" {
		start = bank.At(0)
	}

	return &Engine{
		bank:      bank,
		extractor: dsp.NewExtractor(opts.Split),
		cycle:     transition.NewCycle(bank, start, opts.Transition),
		title:     typewriter.New(opts.Title, opts.TypeInterval),
	}
}

// Tick advances every animated component by in.Elapsed and maps the result.
func (e *Engine) Tick(in Input) Output {
	elapsed := max(in.Elapsed, 0)
	e.clock += elapsed
	e.ticks++

	bands := e.extractor.Extract(in.Snapshot)
	th := e.cycle.Advance(elapsed, bands)
	frame := visual.Map(th, bands, visual.Context{Clock: e.clock, Snapshot: in.Snapshot})

	if in.Pointer != nil {
		e.tilt.Aim(*in.Pointer)
	}

	return Output{
		Frame: frame,
		Tilt:  e.tilt.Step(elapsed),
		Title: e.title.Advance(elapsed),
		Cycle: e.Status(),
		Tick:  e.ticks,
	}
}

// Status reports the theme cycle without advancing it.
func (e *Engine) Status() CycleStatus {
	return CycleStatus{
		From:     e.cycle.From(),
		To:       e.cycle.To(),
		Progress: e.cycle.Progress(),
		Phase:    e.cycle.Phase().String(),
		Steps:    e.cycle.Steps(),
	}
}

// Clock returns the accumulated elapsed time.
func (e *Engine) Clock() time.Duration {
	return e.clock
}

// Policy returns the transition policy in use.
func (e *Engine) Policy() transition.Policy {
	return e.cycle.Policy()
}

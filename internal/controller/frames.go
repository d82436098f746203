package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/cybre/profile-card-fx/internal/engine"
	"github.com/cybre/profile-card-fx/internal/tilt"
)

// Sink applies frames to a rendering surface.
type Sink interface {
	Publish(frame engine.Output)
}

// PointerSource reports the latest pointer position, if it moved since the
// previous call.
type PointerSource interface {
	Pointer() (tilt.Pointer, bool)
}

const (
	defaultFPS = 60.0
	// DefaultMaxDelta caps a single tick after a host stall.
	DefaultMaxDelta = time.Second
)

// FrameController drives the engine once per display refresh using the most
// recent frequency snapshot and fans each frame out to the sinks.
type FrameController struct {
	engine   *engine.Engine
	logger   *slog.Logger
	interval time.Duration
	maxDelta time.Duration
	pointer  PointerSource
	sinks    []Sink

	latest []uint8
	last   engine.Output
}

// NewFrameController constructs a controller ticking at fps. pointer may be nil.
func NewFrameController(eng *engine.Engine, logger *slog.Logger, fps float64, pointer PointerSource, sinks ...Sink) *FrameController {
	if fps <= 0 {
		fps = defaultFPS
	}
	return &FrameController{
		engine:   eng,
		logger:   logger,
		interval: time.Duration(float64(time.Second) / fps),
		maxDelta: DefaultMaxDelta,
		pointer:  pointer,
		sinks:    sinks,
	}
}

// SetMaxDelta changes the per-tick cap. Zero or negative disables it, so a
// stalled host hands the whole gap to the engine and the theme cycle catches
// up by several steps at once.
func (c *FrameController) SetMaxDelta(d time.Duration) {
	c.maxDelta = d
}

// Run ticks until ctx is done. Snapshots are taken from in as they arrive; a
// closed channel means playback stopped and later ticks see no snapshot.
func (c *FrameController) Run(ctx context.Context, in <-chan []uint8) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	debugTicker := time.NewTicker(2 * time.Second)
	defer debugTicker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-in:
			if !ok {
				in = nil
				c.latest = nil
				c.logger.Info("frequency source stopped")
				continue
			}
			switch {
			case c.latest == nil && snapshot != nil:
				c.logger.Info("frequency source active", slog.Int("bins", len(snapshot)))
			case c.latest != nil && snapshot == nil:
				c.logger.Info("frequency source silent")
			}
			c.latest = snapshot
		case now := <-ticker.C:
			c.Step(now.Sub(last))
			last = now
		case <-debugTicker.C:
			c.logger.Debug("card state",
				slog.String("from", string(c.last.Cycle.From)),
				slog.String("to", string(c.last.Cycle.To)),
				slog.Float64("progress", c.last.Cycle.Progress),
				slog.Float64("bass", c.last.Bands.Bass),
				slog.Float64("mid", c.last.Bands.Mid),
				slog.Float64("high", c.last.Bands.High),
				slog.Float64("glow_alpha", c.last.Glow.Alpha))
		}
	}
}

// Step runs a single tick. Deltas above the configured cap are clamped so a
// stalled host does not fast-forward the tilt or typewriter.
func (c *FrameController) Step(elapsed time.Duration) engine.Output {
	if c.maxDelta > 0 && elapsed > c.maxDelta {
		c.logger.Info("frame delta capped",
			slog.Duration("elapsed", elapsed),
			slog.Duration("cap", c.maxDelta))
		elapsed = c.maxDelta
	}

	in := engine.Input{Elapsed: elapsed, Snapshot: c.latest}
	if c.pointer != nil {
		if p, ok := c.pointer.Pointer(); ok {
			in.Pointer = &p
		}
	}

	out := c.engine.Tick(in)
	prev := c.last.Cycle.Steps
	c.last = out
	if out.Cycle.Steps != prev {
		c.logger.Info("theme changed",
			slog.String("theme", string(out.Cycle.From)),
			slog.String("next", string(out.Cycle.To)))
	}

	for _, sink := range c.sinks {
		sink.Publish(out)
	}
	return out
}

package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/engine"
	"github.com/cybre/profile-card-fx/internal/tilt"
	"github.com/cybre/profile-card-fx/internal/transition"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []engine.Output
}

func (s *recordingSink) Publish(frame engine.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
}

func (s *recordingSink) snapshot() []engine.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Output(nil), s.frames...)
}

type fixedPointer struct {
	p    tilt.Pointer
	sent bool
}

func (f *fixedPointer) Pointer() (tilt.Pointer, bool) {
	if f.sent {
		return tilt.Pointer{}, false
	}
	f.sent = true
	return f.p, true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStepPublishesToEverySink(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	c := NewFrameController(engine.New(engine.Options{}), discardLogger(), 60, nil, a, b)

	out := c.Step(16 * time.Millisecond)

	require.Len(t, a.snapshot(), 1)
	require.Len(t, b.snapshot(), 1)
	assert.Equal(t, out.Tick, a.snapshot()[0].Tick)
	assert.False(t, out.Visualizer.Visible)
}

func TestStepCapsLargeDeltas(t *testing.T) {
	eng := engine.New(engine.Options{})
	c := NewFrameController(eng, discardLogger(), 60, nil)

	c.Step(time.Hour)
	assert.Equal(t, DefaultMaxDelta, eng.Clock())
}

func TestStepUncappedReachesMultiWrap(t *testing.T) {
	eng := engine.New(engine.Options{Transition: transition.Options{StepDuration: 20 * time.Second}})
	c := NewFrameController(eng, discardLogger(), 60, nil)
	c.SetMaxDelta(0)

	out := c.Step(70 * time.Second)
	assert.Equal(t, 70*time.Second, eng.Clock())
	assert.Equal(t, uint64(3), out.Cycle.Steps)
	assert.InDelta(t, 0.5, out.Cycle.Progress, 1e-12)
}

func TestStepCustomCap(t *testing.T) {
	eng := engine.New(engine.Options{})
	c := NewFrameController(eng, discardLogger(), 60, nil)
	c.SetMaxDelta(5 * time.Second)

	c.Step(time.Minute)
	assert.Equal(t, 5*time.Second, eng.Clock())
}

func TestStepForwardsPointerOnce(t *testing.T) {
	c := NewFrameController(engine.New(engine.Options{}), discardLogger(), 60, &fixedPointer{p: tilt.Pointer{X: 1}})

	first := c.Step(tilt.ReferenceFrame)
	assert.Greater(t, first.Tilt.RotateY, 0.0)
	second := c.Step(tilt.ReferenceFrame)
	assert.Greater(t, second.Tilt.RotateY, first.Tilt.RotateY)
}

func TestNewFrameControllerDefaultsFPS(t *testing.T) {
	c := NewFrameController(engine.New(engine.Options{}), discardLogger(), 0, nil)
	fps := defaultFPS
	assert.Equal(t, time.Duration(float64(time.Second)/fps), c.interval)
}

func TestRunUsesLatestSnapshotAndStops(t *testing.T) {
	sink := &recordingSink{}
	c := NewFrameController(engine.New(engine.Options{}), discardLogger(), 200, nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	snapshots := make(chan []uint8, 1)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, snapshots) }()

	loud := make([]uint8, dsp.SnapshotSize)
	for i := range loud {
		loud[i] = 255
	}
	snapshots <- loud

	require.Eventually(t, func() bool {
		frames := sink.snapshot()
		return len(frames) > 0 && frames[len(frames)-1].Visualizer.Visible
	}, 2*time.Second, 5*time.Millisecond)

	close(snapshots)
	require.Eventually(t, func() bool {
		frames := sink.snapshot()
		return len(frames) > 0 && !frames[len(frames)-1].Visualizer.Visible
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/cybre/profile-card-fx/internal/controller"
	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/engine"
	"github.com/cybre/profile-card-fx/internal/transition"
	"github.com/cybre/profile-card-fx/internal/ui"
	"github.com/cybre/profile-card-fx/internal/web"
)

type loopConfig struct {
	Device     *portaudio.DeviceInfo
	SampleRate float64
	FrameSize  int
	Channels   int
	Latency    time.Duration
	MaxDelta   time.Duration
	FPS        float64
	Policy     transition.Policy
	Title      string
	Listen     string
	Visualize  bool
	Synthetic  bool
}

func main() {
	cfg := parseCLIFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runHost(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runHost(ctx context.Context, cfg runtimeOptions) error {
	logger := setupLogger(cfg.debug, cfg.visualize)

	var (
		devices       []*portaudio.DeviceInfo
		defaultDevice = -1
	)
	if !cfg.synthetic {
		if err := portaudio.Initialize(); err != nil {
			return eris.Wrap(err, "initialize PortAudio")
		}
		defer portaudio.Terminate()

		var err error
		devices, err = portaudio.Devices()
		if err != nil {
			return eris.Wrap(err, "enumerate audio devices")
		}

		def, err := portaudio.DefaultInputDevice()
		if err != nil {
			return eris.Wrap(err, "resolve default audio input device")
		}
		defaultDevice = def.Index
	}

	device, policy, err := selectDeviceAndPolicy(devices, defaultDevice, cfg)
	if err != nil {
		return eris.Wrap(err, "select device/policy")
	}
	if device != nil && device.MaxInputChannels < 1 {
		return eris.Errorf("device %s has no input channels; select a loopback/monitor device", device.Name)
	}

	loopCfg := buildLoopConfig(device, policy, cfg)

	if device != nil && cfg.channels > int(device.MaxInputChannels) {
		logger.Warn("requested channels exceed device capabilities",
			slog.Int("requested", cfg.channels),
			slog.Int("max", int(device.MaxInputChannels)),
			slog.Int("using", loopCfg.Channels),
		)
	}

	if err := run(ctx, logger, loopCfg); err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("card loop failed", slog.Any("error", err))
		return err
	}

	return nil
}

func setupLogger(debug, visualize bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if visualize && !debug {
		logLevel = slog.LevelWarn
	}
	if visualize {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}

func run(ctx context.Context, logger *slog.Logger, cfg loopConfig) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := engine.New(engine.Options{
		Transition: transition.Options{Policy: cfg.Policy},
		Title:      cfg.Title,
	})
	logger.Info("card engine ready",
		slog.String("policy", eng.Policy().String()),
		slog.String("theme", string(eng.Status().From)),
		slog.Float64("fps", cfg.FPS))

	var (
		sinks   []controller.Sink
		pointer controller.PointerSource
		hub     *web.Hub
	)
	if cfg.Visualize {
		preview := ui.NewPreview(cancel)
		defer preview.Close()
		sinks = append(sinks, preview)
	}
	if cfg.Listen != "" {
		hub = web.NewHub(logger)
		sinks = append(sinks, hub)
		pointer = hub
	}

	frames := controller.NewFrameController(eng, logger, cfg.FPS, pointer, sinks...)
	frames.SetMaxDelta(cfg.MaxDelta)
	snapshots := make(chan []uint8, 4)

	g, gctx := errgroup.WithContext(loopCtx)

	if hub != nil {
		g.Go(func() error {
			return hub.ListenAndServe(gctx, cfg.Listen)
		})
	}

	if cfg.Synthetic {
		g.Go(func() error {
			defer close(snapshots)
			return runSynthetic(gctx, snapshots, time.Second/60)
		})
	} else {
		pcm := make(chan []float32, 32)

		g.Go(func() error {
			defer close(pcm)
			return captureAudio(gctx, logger, pcm, cfg)
		})

		g.Go(func() error {
			defer close(snapshots)
			return analyse(gctx, pcm, snapshots, cfg.Channels)
		})
	}

	g.Go(func() error {
		return frames.Run(gctx, snapshots)
	})

	if err := g.Wait(); err != nil {
		if eris.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return nil
}

// analyse turns PCM buffers into byte spectra for the frame loop. Silent
// buffers are forwarded as nil so the card falls back to its idle look.
func analyse(ctx context.Context, in <-chan []float32, out chan []uint8, channels int) error {
	analyser := dsp.NewAnalyser(dsp.DefaultFFTSize)
	var mono []float64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-in:
			if !ok {
				return nil
			}
			mono = dsp.ToMono(frame, channels, mono)
			sendLatest(out, analyser.Snapshot(mono))
		}
	}
}

func captureAudio(ctx context.Context, logger *slog.Logger, out chan []float32, cfg loopConfig) error {
	if cfg.Device == nil {
		return eris.New("audio device is not specified")
	}

	logger.Info("using audio input device",
		slog.String("name", cfg.Device.Name),
		slog.Float64("sample_rate", cfg.SampleRate),
		slog.Int("channels", cfg.Channels),
		slog.Int("frame_size", cfg.FrameSize))

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   cfg.Device,
			Channels: cfg.Channels,
			Latency:  cfg.Device.DefaultLowInputLatency,
		},
		SampleRate:      cfg.SampleRate,
		FramesPerBuffer: cfg.FrameSize,
	}
	if cfg.Latency > 0 {
		params.Input.Latency = cfg.Latency
	}

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		frame := make([]float32, len(in))
		copy(frame, in)
		sendLatest(out, frame)
	})
	if err != nil {
		return eris.Wrap(err, "open audio stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return eris.Wrap(err, "start audio stream")
	}
	defer stream.Stop()

	<-ctx.Done()
	return ctx.Err()
}

// sendLatest never blocks: when out is full the oldest queued value is
// dropped in favour of v.
func sendLatest[T any](out chan T, v T) {
	select {
	case out <- v:
	default:
		select {
		case <-out:
		default:
		}
		select {
		case out <- v:
		default:
		}
	}
}

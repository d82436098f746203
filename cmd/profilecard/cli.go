package main

import (
	"flag"
	"time"
)

type runtimeOptions struct {
	deviceIndex int
	sampleRate  float64
	frameSize   int
	channels    int
	latency     time.Duration
	maxDelta    time.Duration
	fps         float64
	policy      string
	title       string
	listen      string
	visualize   bool
	synthetic   bool
	debug       bool
}

func parseCLIFlags() runtimeOptions {
	var (
		cfg       runtimeOptions
		latencyMs int
	)

	flag.IntVar(&cfg.deviceIndex, "device", -1, "audio input device index (leave blank to choose interactively)")
	flag.Float64Var(&cfg.sampleRate, "sample-rate", 0, "capture sample rate (0 = device default)")
	flag.IntVar(&cfg.frameSize, "frame-size", 512, "capture buffer size in samples")
	flag.IntVar(&cfg.channels, "channels", 2, "number of input channels to capture (<= device max)")
	flag.IntVar(&latencyMs, "latency-ms", 0, "override input latency in milliseconds (0 = device default)")
	flag.Float64Var(&cfg.fps, "fps", 60, "frame loop rate")
	flag.DurationVar(&cfg.maxDelta, "max-frame-delta", time.Second, "cap on a single frame delta after a stall (0 = uncapped)")
	flag.StringVar(&cfg.policy, "policy", "", "theme transition policy: timed or energy (leave blank to choose interactively)")
	flag.StringVar(&cfg.title, "title", "", "typewriter title text")
	flag.StringVar(&cfg.listen, "listen", "127.0.0.1:8765", "websocket frame server address (empty disables)")
	flag.BoolVar(&cfg.synthetic, "synthetic", false, "drive the card from a generated spectrum instead of an audio device")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&cfg.visualize, "visualize", false, "render a realtime terminal preview (logs go to stderr)")
	flag.Parse()

	cfg.latency = time.Duration(latencyMs) * time.Millisecond

	return cfg
}

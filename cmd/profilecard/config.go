package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rotisserie/eris"

	"github.com/cybre/profile-card-fx/internal/transition"
	"github.com/cybre/profile-card-fx/internal/ui"
)

const (
	defaultSampleRate = 44100
	defaultFrameSize  = 512
	defaultFPS        = 60
	maxFPS            = 240
)

var policyChoices = []transition.Policy{transition.PolicyTimed, transition.PolicyEnergy}

// selectDeviceAndPolicy resolves flags first and asks interactively for the
// rest. Without a terminal it falls back to the default device and the timed
// policy. The returned device is nil in synthetic mode.
func selectDeviceAndPolicy(
	devices []*portaudio.DeviceInfo,
	defaultDeviceIndex int,
	opts runtimeOptions,
) (*portaudio.DeviceInfo, transition.Policy, error) {
	if !opts.synthetic && len(devices) == 0 {
		return nil, 0, eris.New("no input devices available")
	}

	var (
		selectedDevice *portaudio.DeviceInfo
		deviceIndex    = -1
		policy         transition.Policy
	)

	if opts.synthetic {
		devices = nil
	} else if opts.deviceIndex >= 0 {
		if opts.deviceIndex >= len(devices) {
			return nil, 0, eris.Errorf("invalid device index %d", opts.deviceIndex)
		}
		selectedDevice = devices[opts.deviceIndex]
		deviceIndex = opts.deviceIndex
	}

	if opts.policy != "" {
		p, err := transition.ParsePolicy(opts.policy)
		if err != nil {
			return nil, 0, err
		}
		policy = p
	}

	needDevice := !opts.synthetic && selectedDevice == nil
	needPolicy := opts.policy == ""

	if !needDevice && !needPolicy {
		return selectedDevice, policy, nil
	}

	initialDevice := effectiveInitialDeviceIndex(deviceIndex, defaultDeviceIndex, len(devices))

	result, err := ui.RunSetup(
		buildDeviceOptions(devices),
		buildPolicyOptions(policyChoices),
		ui.SetupConfig{
			RequireDevice: needDevice,
			RequirePolicy: needPolicy,
			InitialDevice: initialDevice,
		},
	)
	if err != nil {
		if eris.Is(err, ui.ErrNoInteractiveTTY) {
			if needDevice {
				selectedDevice = devices[initialDevice]
			}
			if needPolicy {
				policy = transition.PolicyTimed
			}
			return selectedDevice, policy, nil
		}
		return nil, 0, err
	}

	if needDevice {
		selectedDevice = devices[result.DeviceIndex]
	}
	if needPolicy {
		policy = policyChoices[result.PolicyIndex]
	}

	return selectedDevice, policy, nil
}

func buildDeviceOptions(devices []*portaudio.DeviceInfo) []ui.Option {
	options := make([]ui.Option, len(devices))
	for i, dev := range devices {
		options[i] = ui.Option{
			Label: fmt.Sprintf(
				"[%d] %s · %.0fHz · in:%d · latency:%.1fms",
				i,
				dev.Name,
				dev.DefaultSampleRate,
				dev.MaxInputChannels,
				dev.DefaultLowInputLatency.Seconds()*1000,
			),
		}
	}
	return options
}

func buildPolicyOptions(policies []transition.Policy) []ui.Option {
	options := make([]ui.Option, len(policies))
	for i, p := range policies {
		label := p.String()
		switch p {
		case transition.PolicyTimed:
			label += " · blend to the next theme every 20s"
		case transition.PolicyEnergy:
			label += " · change theme on sustained high energy"
		}
		options[i] = ui.Option{Label: label}
	}
	return options
}

func effectiveInitialDeviceIndex(requested, fallback, length int) int {
	if length == 0 {
		return 0
	}
	if requested >= 0 && requested < length {
		return requested
	}
	if fallback >= 0 && fallback < length {
		return fallback
	}
	return 0
}

func buildLoopConfig(device *portaudio.DeviceInfo, policy transition.Policy, opts runtimeOptions) loopConfig {
	cfg := loopConfig{
		FrameSize: effectiveFrameSize(opts.frameSize),
		Latency:   opts.latency,
		MaxDelta:  opts.maxDelta,
		FPS:       effectiveFPS(opts.fps),
		Policy:    policy,
		Title:     opts.title,
		Listen:    opts.listen,
		Visualize: opts.visualize,
		Synthetic: opts.synthetic || device == nil,
	}
	if device != nil {
		cfg.Device = device
		cfg.SampleRate = effectiveSampleRate(opts.sampleRate, device.DefaultSampleRate)
		cfg.Channels = sanitizeChannelCount(opts.channels, int(device.MaxInputChannels))
	} else {
		cfg.SampleRate = effectiveSampleRate(opts.sampleRate, 0)
		cfg.Channels = sanitizeChannelCount(opts.channels, 0)
	}
	return cfg
}

func sanitizeChannelCount(requested, max int) int {
	if requested <= 0 {
		return 1
	}

	if max > 0 && requested > max {
		return max
	}

	return requested
}

func effectiveSampleRate(requested, deviceDefault float64) float64 {
	if requested > 0 {
		return requested
	}

	if deviceDefault > 0 {
		return deviceDefault
	}

	return defaultSampleRate
}

func effectiveFrameSize(requested int) int {
	if requested > 0 {
		return requested
	}

	return defaultFrameSize
}

func effectiveFPS(requested float64) float64 {
	switch {
	case requested <= 0:
		return defaultFPS
	case requested > maxFPS:
		return maxFPS
	default:
		return requested
	}
}

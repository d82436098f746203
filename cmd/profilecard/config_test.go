package main

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/transition"
)

func TestSanitizeChannelCount(t *testing.T) {
	assert.Equal(t, 1, sanitizeChannelCount(0, 2))
	assert.Equal(t, 2, sanitizeChannelCount(4, 2))
	assert.Equal(t, 4, sanitizeChannelCount(4, 0))
}

func TestEffectiveSampleRate(t *testing.T) {
	assert.Equal(t, 48000.0, effectiveSampleRate(48000, 44100))
	assert.Equal(t, 44100.0, effectiveSampleRate(0, 44100))
	assert.Equal(t, float64(defaultSampleRate), effectiveSampleRate(0, 0))
}

func TestEffectiveFPS(t *testing.T) {
	assert.Equal(t, float64(defaultFPS), effectiveFPS(0))
	assert.Equal(t, float64(maxFPS), effectiveFPS(1000))
	assert.Equal(t, 30.0, effectiveFPS(30))
}

func TestEffectiveInitialDeviceIndex(t *testing.T) {
	assert.Equal(t, 0, effectiveInitialDeviceIndex(-1, -1, 0))
	assert.Equal(t, 2, effectiveInitialDeviceIndex(2, 1, 3))
	assert.Equal(t, 1, effectiveInitialDeviceIndex(5, 1, 3))
	assert.Equal(t, 0, effectiveInitialDeviceIndex(5, 7, 3))
}

func TestSelectDeviceAndPolicyFromFlags(t *testing.T) {
	devices := []*portaudio.DeviceInfo{{Name: "mic", MaxInputChannels: 1}, {Name: "monitor", MaxInputChannels: 2}}

	dev, policy, err := selectDeviceAndPolicy(devices, 0, runtimeOptions{deviceIndex: 1, policy: "energy"})
	require.NoError(t, err)
	assert.Equal(t, "monitor", dev.Name)
	assert.Equal(t, transition.PolicyEnergy, policy)

	_, _, err = selectDeviceAndPolicy(devices, 0, runtimeOptions{deviceIndex: 9, policy: "timed"})
	assert.Error(t, err)

	_, _, err = selectDeviceAndPolicy(devices, 0, runtimeOptions{deviceIndex: 0, policy: "sometimes"})
	assert.Error(t, err)

	_, _, err = selectDeviceAndPolicy(nil, -1, runtimeOptions{deviceIndex: -1, policy: "timed"})
	assert.Error(t, err)
}

func TestSelectSyntheticNeedsNoDevice(t *testing.T) {
	dev, policy, err := selectDeviceAndPolicy(nil, -1, runtimeOptions{synthetic: true, deviceIndex: -1, policy: "timed"})
	require.NoError(t, err)
	assert.Nil(t, dev)
	assert.Equal(t, transition.PolicyTimed, policy)
}

func TestBuildLoopConfig(t *testing.T) {
	dev := &portaudio.DeviceInfo{Name: "monitor", MaxInputChannels: 2, DefaultSampleRate: 48000}
	cfg := buildLoopConfig(dev, transition.PolicyEnergy, runtimeOptions{channels: 6, fps: -1, listen: ":0", maxDelta: 3 * time.Second})

	assert.Equal(t, 2, cfg.Channels)
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, defaultFrameSize, cfg.FrameSize)
	assert.Equal(t, float64(defaultFPS), cfg.FPS)
	assert.False(t, cfg.Synthetic)
	assert.Equal(t, 3*time.Second, cfg.MaxDelta)

	synth := buildLoopConfig(nil, transition.PolicyTimed, runtimeOptions{channels: 2})
	assert.True(t, synth.Synthetic)
	assert.Nil(t, synth.Device)
}

func TestBuildPolicyOptions(t *testing.T) {
	opts := buildPolicyOptions(policyChoices)
	require.Len(t, opts, 2)
	assert.Contains(t, opts[0].Label, "timed")
	assert.Contains(t, opts[1].Label, "energy")
}

func TestSyntheticSpectrumShape(t *testing.T) {
	gen := newSyntheticSpectrum(1)
	for i := 0; i < 10; i++ {
		s := gen.Next(1.0 / 60)
		require.Len(t, s, dsp.SnapshotSize)
	}
}

func TestSendLatestDropsOldest(t *testing.T) {
	ch := make(chan int, 1)
	sendLatest(ch, 1)
	sendLatest(ch, 2)
	assert.Equal(t, 2, <-ch)
}

func TestAnalyseProducesSnapshots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tone := make([]float32, 512)
	for i := range tone {
		tone[i] = float32(math.Sin(2 * math.Pi * 8 * float64(i/2) / 256))
	}

	in := make(chan []float32, 1)
	out := make(chan []uint8, 1)
	in <- tone
	close(in)

	require.NoError(t, analyse(ctx, in, out, 2))
	snapshot := <-out
	assert.Len(t, snapshot, dsp.DefaultFFTSize/2)
}

func TestAnalyseForwardsSilenceAsNil(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan []float32, 1)
	out := make(chan []uint8, 1)
	in <- make([]float32, 512)
	close(in)

	require.NoError(t, analyse(ctx, in, out, 2))
	select {
	case snapshot := <-out:
		assert.Nil(t, snapshot)
	default:
		t.Fatal("silent buffer was not forwarded")
	}
}

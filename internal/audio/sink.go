// Package audio is a pull-model stereo PCM sink built on
// github.com/gen2brain/malgo (a cgo binding of miniaudio), modeled on
// svanichkin-say/device/speaker.go's device-callback/ring-buffer shape.
// The output device runs in f32; the internal ring holds s16, converted to
// f32 sample-by-sample in the realtime callback.
package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/lzray-universe/asciiplay/internal/media"
	"github.com/pkg/errors"
)

// Config mirrors the original audio_player.hpp's AudioConfig.
type Config struct {
	Enabled bool
	Volume  float32 // linear gain, 1.0 = unity
}

// Sink is a pull-model stereo PCM output device. Enqueue appends samples;
// the device callback drains them, zero-filling on underrun so it never
// blocks or allocates on the realtime thread.
type Sink struct {
	ctx *malgo.AllocatedContext
	dev *malgo.Device

	mu    sync.Mutex
	ring  []int16
	vol   atomicFloat32
	total atomic.Uint64 // samples (per-channel frames) delivered to the device

	channels   int
	sampleRate int
}

type atomicFloat32 struct {
	bits atomic.Uint32
}

func (a *atomicFloat32) store(v float32) { a.bits.Store(float32bits(v)) }
func (a *atomicFloat32) load() float32   { return float32frombits(a.bits.Load()) }

// Start opens the playback device at the given rate/channels and begins
// pulling from the internal ring. Returns ErrAudioInit wrapped with the
// underlying cause on failure; callers should downgrade to audio-disabled
// rather than treat this as fatal.
func Start(sampleRate, channels int, cfg Config) (*Sink, error) {
	s := &Sink{channels: channels, sampleRate: sampleRate}
	s.vol.store(cfg.Volume)

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, errors.Wrap(ErrAudioInit, err.Error())
	}
	s.ctx = ctx

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceCfg.Playback.Format = malgo.FormatF32
	deviceCfg.Playback.Channels = uint32(channels)
	deviceCfg.SampleRate = uint32(sampleRate)
	deviceCfg.Periods = 4

	callbacks := malgo.DeviceCallbacks{
		Data: s.onData,
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceCfg, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, errors.Wrap(ErrAudioInit, err.Error())
	}
	s.dev = dev

	if err := dev.Start(); err != nil {
		dev.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, errors.Wrap(ErrAudioInit, err.Error())
	}

	return s, nil
}

// Enqueue appends an audio frame's samples to the ring for playback.
func (s *Sink) Enqueue(frame media.AudioFrame) {
	s.mu.Lock()
	s.ring = append(s.ring, frame.Samples...)
	s.mu.Unlock()
}

// PlaybackTime returns the monotone seconds of audio actually delivered to
// the device so far; this is the pipeline's master clock when audio is on.
func (s *Sink) PlaybackTime() float64 {
	return float64(s.total.Load()) / float64(s.sampleRate)
}

// SetVolume scales all subsequently-mixed output.
func (s *Sink) SetVolume(v float32) {
	s.vol.store(v)
}

// Stop halts playback and releases the device; any in-flight ring samples
// are dropped.
func (s *Sink) Stop() {
	if s.dev != nil {
		_ = s.dev.Stop()
		s.dev.Uninit()
	}
	if s.ctx != nil {
		s.ctx.Uninit()
		s.ctx.Free()
	}
}

// onData is the realtime pull callback: it must not block or allocate, so
// samples are taken from the ring under a short lock and converted straight
// into the device's output buffer, with silence filling any shortfall.
func (s *Sink) onData(output, _ []byte, frameCount uint32) {
	samplesNeeded := int(frameCount) * s.channels
	vol := s.vol.load()

	s.mu.Lock()
	avail := len(s.ring)
	n := samplesNeeded
	if avail < n {
		n = avail
	}
	taken := s.ring[:n]
	s.ring = s.ring[n:]
	s.mu.Unlock()

	for i := 0; i < samplesNeeded; i++ {
		var f float32
		if i < len(taken) {
			f = (float32(taken[i]) / 32768.0) * vol
		}
		putFloat32LE(output[i*4:], f)
	}
	s.total.Add(uint64(frameCount))
}

// Package pipeline is the four-stage orchestrator: it wires the decoder,
// ASCII renderer, audio sink, terminal/exporter presenter, and keyboard
// control plane into the concurrent dataflow described in §4.4, including
// the A/V sync policy and orderly shutdown sequence. Grounded on
// boriwo-movart/player.go's Start/Render wiring and
// original_source/asciiplay/src/pipeline.cpp's thread layout.
package pipeline

import (
	"github.com/lzray-universe/asciiplay/internal/audio"
	"github.com/lzray-universe/asciiplay/internal/export"
	"github.com/lzray-universe/asciiplay/internal/media"
	"github.com/lzray-universe/asciiplay/internal/renderer"
)

// Config is the full set of knobs the CLI assembles from flags.
type Config struct {
	Input         string
	Renderer      renderer.Config
	Audio         audio.Config
	ExportEnabled bool
	Export        export.Config
	TargetFPS     float64
	ShowStats     bool
	MaxWriteMBps  float64
}

const asciiQueueCapacity = 8

func decoderOptions(cfg Config) media.Options {
	return media.Options{URL: cfg.Input, EnableAudio: cfg.Audio.Enabled}
}

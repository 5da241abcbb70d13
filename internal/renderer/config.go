// Package renderer converts decoded video frames into grids of colored
// terminal glyphs, baking each frame into a pre-rendered SGR escape string.
package renderer

import "github.com/lzray-universe/asciiplay/internal/colorlut"

// Mode selects how a cell's color is derived from its sampled pixels.
type Mode int

const (
	ModeGray Mode = iota
	ModeANSI256
	ModeTrueColor
)

// Config is the renderer's mutable, atomically-swapped configuration. Every
// mutator and the CurrentConfig() read are serialized by Renderer's mutex; Render
// snapshots Config once at entry and uses that snapshot for the whole frame.
type Config struct {
	Mode      Mode
	Dither    colorlut.DitherMode
	HalfBlock bool
	GridCols  int
	GridRows  int
	Gamma     float64
	Contrast  float64
}

// DefaultConfig matches the CLI's documented defaults.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeANSI256,
		Dither:   colorlut.DitherBayer4,
		GridCols: 120,
		GridRows: 60,
		Gamma:    2.2,
		Contrast: 1.0,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package renderer

import (
	"sync"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
)

// Renderer holds the mutable RendererConfig behind a mutex and exposes the
// control-plane mutators plus the per-frame Render entry point. A single
// Renderer must only ever be driven by one Render caller at a time (see
// ordering guarantees in the ASCII worker); the mutex here only protects
// config snapshot/mutation, not frame ordering.
type Renderer struct {
	mu  sync.Mutex
	cfg Config
}

// New constructs a Renderer with the given starting configuration.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Configure atomically replaces the whole config.
func (r *Renderer) Configure(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// CurrentConfig returns a copy of the config as of this call.
func (r *Renderer) CurrentConfig() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// CycleMode advances Gray -> ANSI256 -> TrueColor -> Gray.
func (r *Renderer) CycleMode() {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.cfg.Mode {
	case ModeGray:
		r.cfg.Mode = ModeANSI256
	case ModeANSI256:
		r.cfg.Mode = ModeTrueColor
	case ModeTrueColor:
		r.cfg.Mode = ModeGray
	}
}

// CycleDither advances Off -> Bayer2 -> Bayer4 -> Off.
func (r *Renderer) CycleDither() {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.cfg.Dither {
	case colorlut.DitherOff:
		r.cfg.Dither = colorlut.DitherBayer2
	case colorlut.DitherBayer2:
		r.cfg.Dither = colorlut.DitherBayer4
	default:
		r.cfg.Dither = colorlut.DitherOff
	}
}

// AdjustGamma nudges gamma by delta, clamped to [0.5, 4.0].
func (r *Renderer) AdjustGamma(delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.Gamma = clampFloat(r.cfg.Gamma+delta, 0.5, 4.0)
}

// AdjustContrast nudges contrast by delta, clamped to [0.2, 3.0].
func (r *Renderer) AdjustContrast(delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.Contrast = clampFloat(r.cfg.Contrast+delta, 0.2, 3.0)
}

// SetMode forces a specific color mode (keys 1/2/3).
func (r *Renderer) SetMode(mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.Mode = mode
}

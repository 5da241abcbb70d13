package termio

import (
	"os"
	"time"

	"github.com/lzray-universe/asciiplay/internal/renderer"
	"golang.org/x/sys/unix"
)

const idlePoll = 30 * time.Millisecond

// Hooks lets the control plane reach pipeline-owned state (pause/volume,
// shutdown) without termio importing the pipeline package.
type Hooks struct {
	// TogglePause is called on space; newState is the pause flag after the
	// toggle, so the caller can mute/restore audio volume accordingly.
	TogglePause func(newState bool)
	// Quit is called on q/Q.
	Quit func()
}

// Controller reads single keypresses from stdin (assumed already in raw
// mode via Sink.Initialize) and applies them to a Renderer and the pipeline
// via Hooks, per the key table in §4.3.
type Controller struct {
	renderer *renderer.Renderer
	hooks    Hooks
	paused   bool
	stop     chan struct{}
}

// NewController wires a controller to a renderer and pipeline callbacks.
func NewController(r *renderer.Renderer, hooks Hooks) *Controller {
	return &Controller{renderer: r, hooks: hooks, stop: make(chan struct{})}
}

// Run polls stdin for keypresses until Stop is called. Stdin is put in
// non-blocking mode so a missing keypress never delays shutdown beyond one
// idlePoll tick, matching the bounded-shutdown requirement in §5.
func (c *Controller) Run() {
	fd := int(os.Stdin.Fd())
	_ = unix.SetNonblock(fd, true)

	buf := make([]byte, 1)
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		n, err := unix.Read(fd, buf)
		if err != nil || n <= 0 {
			time.Sleep(idlePoll)
			continue
		}
		c.handleKey(buf[0])
	}
}

// Stop releases the polling loop.
func (c *Controller) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

func (c *Controller) handleKey(key byte) {
	switch key {
	case ' ':
		c.paused = !c.paused
		if c.hooks.TogglePause != nil {
			c.hooks.TogglePause(c.paused)
		}
	case 'q', 'Q':
		if c.hooks.Quit != nil {
			c.hooks.Quit()
		}
	case 'c', 'C':
		c.renderer.CycleMode()
	case 'd', 'D':
		c.renderer.CycleDither()
	case 'g':
		c.renderer.AdjustGamma(-0.1)
	case 'G':
		c.renderer.AdjustGamma(0.1)
	case 'b':
		c.renderer.AdjustContrast(-0.1)
	case 'B':
		c.renderer.AdjustContrast(0.1)
	case '1':
		c.renderer.SetMode(renderer.ModeGray)
	case '2':
		c.renderer.SetMode(renderer.ModeANSI256)
	case '3':
		c.renderer.SetMode(renderer.ModeTrueColor)
	}
}

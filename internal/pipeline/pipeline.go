package pipeline

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lzray-universe/asciiplay/internal/audio"
	"github.com/lzray-universe/asciiplay/internal/export"
	"github.com/lzray-universe/asciiplay/internal/media"
	"github.com/lzray-universe/asciiplay/internal/queue"
	"github.com/lzray-universe/asciiplay/internal/renderer"
	"github.com/lzray-universe/asciiplay/internal/termio"
	"github.com/pkg/errors"
)

// Pipeline owns every long-lived worker and the queues between them.
type Pipeline struct {
	cfg      Config
	decoder  *media.Decoder
	renderer *renderer.Renderer
	audio    *audio.Sink
	terminal *termio.Sink
	control  *termio.Controller
	exporter *export.Exporter

	asciiQueue *queue.Bounded[renderer.Frame]

	running atomic.Bool
	paused  atomic.Bool

	renderedFrames uint64 // presenter-owned, read only by the stats formatter
	droppedFrames  uint64

	startTime time.Time

	wg        sync.WaitGroup
	stopOnce  sync.Once
	statsLine string
}

// New constructs an unopened Pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		renderer:   renderer.New(cfg.Renderer),
		asciiQueue: queue.NewBounded[renderer.Frame](asciiQueueCapacity),
	}
}

// Renderer exposes the shared renderer so the CLI layer isn't needed to
// reach the control plane; mainly useful for tests.
func (p *Pipeline) Renderer() *renderer.Renderer { return p.renderer }

// Initialize opens the decoder, terminal or exporter, and (best-effort)
// audio device, per §4.4's Initialize step. Terminal/decoder failures are
// fatal; audio failures downgrade to audio-disabled with a stderr warning.
func (p *Pipeline) Initialize() error {
	p.decoder = media.New()
	if err := p.decoder.Open(decoderOptions(p.cfg)); err != nil {
		return err
	}

	if !p.cfg.ExportEnabled {
		p.terminal = termio.NewSink(os.Stdout)
		if err := p.terminal.Initialize(); err != nil {
			return err
		}
		p.control = termio.NewController(p.renderer, termio.Hooks{
			TogglePause: p.onTogglePause,
			Quit:        p.RequestShutdown,
		})
	}

	if p.cfg.ExportEnabled {
		exp, err := export.Open(p.cfg.Export)
		if err != nil {
			return err
		}
		p.exporter = exp
	}

	if p.cfg.Audio.Enabled && p.decoder.AudioAvailable() {
		sink, err := audio.Start(media.SampleRate, media.Channels, p.cfg.Audio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "audio disabled: %v\n", err)
			p.cfg.Audio.Enabled = false
		} else {
			p.audio = sink
		}
	} else {
		p.cfg.Audio.Enabled = false
	}

	return nil
}

// Run starts every worker and blocks until they've all exited (normal EOF,
// quit key, or an externally requested shutdown).
func (p *Pipeline) Run() {
	p.running.Store(true)
	p.startTime = time.Now()

	p.decoder.Start()

	p.wg.Add(1)
	go p.asciiWorker()

	p.wg.Add(1)
	go p.presenterWorker()

	if p.cfg.Audio.Enabled {
		p.wg.Add(1)
		go p.audioPumpWorker()
	}

	if p.control != nil {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.control.Run()
		}()
	}

	p.wg.Wait()
	p.running.Store(false)
}

// RequestShutdown triggers the orderly teardown sequence from §4.4.3. Safe
// to call more than once and from any goroutine.
func (p *Pipeline) RequestShutdown() {
	p.stopOnce.Do(func() {
		p.running.Store(false)
		p.asciiQueue.Close()
		p.decoder.Stop()
		if p.control != nil {
			p.control.Stop()
		}
	})
}

// Close tears down the presentation surfaces after Run returns.
func (p *Pipeline) Close() error {
	if p.terminal != nil {
		p.terminal.Teardown()
	}
	if p.audio != nil {
		p.audio.Stop()
	}
	if p.exporter != nil {
		if err := p.exporter.Close(); err != nil {
			return errors.Wrap(err, "pipeline: export close")
		}
	}
	return nil
}

func (p *Pipeline) onTogglePause(paused bool) {
	p.paused.Store(paused)
	if p.audio != nil && p.cfg.Audio.Enabled {
		if paused {
			p.audio.SetVolume(0)
		} else {
			p.audio.SetVolume(p.cfg.Audio.Volume)
		}
	}
}

func (p *Pipeline) asciiWorker() {
	defer p.wg.Done()
	defer p.asciiQueue.Close()
	for p.running.Load() {
		frame, ok := p.decoder.PopVideoFrame()
		if !ok {
			p.RequestShutdown()
			return
		}
		ascii := p.renderer.Render(frame)
		if !p.asciiQueue.Push(ascii) {
			return
		}
	}
}

func (p *Pipeline) audioPumpWorker() {
	defer p.wg.Done()
	for p.running.Load() {
		frame, ok := p.decoder.PopAudioFrame()
		if !ok {
			return
		}
		p.audio.Enqueue(frame)
	}
}

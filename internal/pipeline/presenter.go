package pipeline

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// presenterWorker drains the ASCII queue and either paces frames against
// the master clock for real-time terminal display, or streams them
// straight to the exporter at the configured export frame rate.
func (p *Pipeline) presenterWorker() {
	defer p.wg.Done()
	for {
		frame, ok := p.asciiQueue.Pop()
		if !ok {
			return
		}

		if p.cfg.ExportEnabled {
			if err := p.exporter.WriteFrame(frame); err != nil {
				fmt.Fprintf(os.Stderr, "export: frame dropped: %v\n", err)
				continue
			}
			atomic.AddUint64(&p.renderedFrames, 1)
			continue
		}

		for p.paused.Load() && p.running.Load() {
			time.Sleep(20 * time.Millisecond)
		}
		if !p.running.Load() {
			return
		}

		audioDriven := p.audio != nil && p.cfg.Audio.Enabled
		masterClock := p.wallClock()
		if audioDriven {
			masterClock = p.audio.PlaybackTime()
		}

		target := frame.PTS
		if p.cfg.TargetFPS > 0 {
			target = float64(atomic.LoadUint64(&p.renderedFrames)) / p.cfg.TargetFPS
		}

		sleep, drop := decidePacing(target, masterClock, audioDriven)
		if drop {
			atomic.AddUint64(&p.droppedFrames, 1)
			continue
		}
		if sleep > 0 {
			time.Sleep(sleep)
		}

		if err := p.terminal.Present(frame); err != nil {
			p.RequestShutdown()
			return
		}
		atomic.AddUint64(&p.renderedFrames, 1)

		if p.cfg.ShowStats {
			p.terminal.PrintStats(p.statsSnapshot())
		}
	}
}

func (p *Pipeline) wallClock() float64 {
	return time.Since(p.startTime).Seconds()
}

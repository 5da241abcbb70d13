package pipeline

import (
	"fmt"
	"sync/atomic"
	"time"
)

// statsSnapshot formats the live one-line status string shown when
// --stats is set, mirroring updateStats in the original pipeline.cpp:
// elapsed time, average FPS since start, rendered/dropped frame counts, and a
// paused indicator.
func (p *Pipeline) statsSnapshot() string {
	rendered := atomic.LoadUint64(&p.renderedFrames)
	dropped := atomic.LoadUint64(&p.droppedFrames)
	elapsed := time.Since(p.startTime).Seconds()

	fps := 0.0
	if elapsed > 0 {
		fps = float64(rendered) / elapsed
	}

	line := fmt.Sprintf("t=%.1fs fps=%.1f rendered=%d dropped=%d", elapsed, fps, rendered, dropped)
	if p.paused.Load() {
		line += " [Paused]"
	}
	return line
}

package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecidePacingAudioDrivenSleepsWhenAhead(t *testing.T) {
	sleep, drop := decidePacing(1.020, 1.000, true)
	assert.False(t, drop)
	assert.InDelta(t, 20*time.Millisecond, sleep, float64(time.Millisecond))
}

func TestDecidePacingAudioDrivenPresentsWithinTolerance(t *testing.T) {
	sleep, drop := decidePacing(1.005, 1.000, true)
	assert.False(t, drop)
	assert.Equal(t, time.Duration(0), sleep)
}

func TestDecidePacingAudioDrivenDropsWhenFarBehind(t *testing.T) {
	_, drop := decidePacing(0.900, 1.000, true)
	assert.True(t, drop)
}

func TestDecidePacingAudioDrivenNeverDropsAtExactBoundary(t *testing.T) {
	// 0.000-0.050 equals the -0.05 cutoff exactly in float64; 0.950-1.000
	// would land just below it.
	_, drop := decidePacing(0.000, 0.050, true)
	assert.False(t, drop)
}

func TestDecidePacingWallClockFallbackNeverDrops(t *testing.T) {
	sleep, drop := decidePacing(0.100, 5.000, false)
	assert.False(t, drop)
	assert.Equal(t, time.Duration(0), sleep)
}

func TestDecidePacingWallClockFallbackSleepsWhenAhead(t *testing.T) {
	sleep, drop := decidePacing(5.250, 5.000, false)
	assert.False(t, drop)
	assert.InDelta(t, 250*time.Millisecond, sleep, float64(time.Millisecond))
}

func TestStatsSnapshotFormatsPausedSuffix(t *testing.T) {
	p := &Pipeline{startTime: time.Now().Add(-2 * time.Second)}
	p.renderedFrames = 48
	p.droppedFrames = 2
	p.paused.Store(true)

	line := p.statsSnapshot()
	assert.Contains(t, line, "rendered=48")
	assert.Contains(t, line, "dropped=2")
	assert.Contains(t, line, "[Paused]")
}

func TestStatsSnapshotOmitsPausedSuffixWhenPlaying(t *testing.T) {
	p := &Pipeline{startTime: time.Now().Add(-1 * time.Second)}
	line := p.statsSnapshot()
	assert.NotContains(t, line, "[Paused]")
}

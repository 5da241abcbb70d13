package renderer

import (
	"strings"
	"testing"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
	"github.com/lzray-universe/asciiplay/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(w, h int, r, g, b byte) media.VideoFrame {
	data := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		data[i*3] = r
		data[i*3+1] = g
		data[i*3+2] = b
	}
	return media.VideoFrame{Width: w, Height: h, Data: data, PTS: 1.5}
}

func baseConfig() Config {
	return Config{
		Mode:     ModeGray,
		Dither:   colorlut.DitherOff,
		GridCols: 1,
		GridRows: 1,
		Gamma:    1.0,
		Contrast: 1.0,
	}
}

func TestGrayRampMapping(t *testing.T) {
	r := New(baseConfig())
	f := r.Render(solidFrame(1, 1, 128, 128, 128))
	require.Len(t, f.Cells, 1)
	assert.Equal(t, "=", f.Cells[0].Glyph)
	assert.Equal(t, colorlut.Pack(128, 128, 128), f.Cells[0].FG)
}

// Black maps to the densest ramp glyph ('@', index 0) and white maps to the
// lightest (' ', index 9): §4.2.1's ramp_idx = round(norm*(L-1)) formula and
// the worked mid-gray example (scenario 1) both fix this direction; see
// DESIGN.md for the resolved conflict with an earlier, differently-worded
// draft of these two invariants.
func TestAllBlackRendersDensestRampAndZeroColor(t *testing.T) {
	r := New(baseConfig())
	f := r.Render(solidFrame(1, 1, 0, 0, 0))
	assert.Equal(t, "@", f.Cells[0].Glyph)
	assert.Equal(t, uint32(0), f.Cells[0].FG)
}

func TestAllWhiteGrayModeRendersLightestRamp(t *testing.T) {
	r := New(baseConfig())
	f := r.Render(solidFrame(1, 1, 255, 255, 255))
	assert.Equal(t, " ", f.Cells[0].Glyph)
	assert.Equal(t, uint32(0xFFFFFF), f.Cells[0].FG)
}

func TestFramePTSMatchesSource(t *testing.T) {
	r := New(baseConfig())
	f := r.Render(solidFrame(4, 4, 10, 10, 10))
	assert.Equal(t, 1.5, f.PTS)
}

func TestCellsCountMatchesGrid(t *testing.T) {
	cfg := baseConfig()
	cfg.GridCols, cfg.GridRows = 8, 4
	r := New(cfg)
	f := r.Render(solidFrame(64, 64, 50, 60, 70))
	assert.Len(t, f.Cells, 32)
}

func TestRenderIsDeterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.Mode = ModeTrueColor
	cfg.GridCols, cfg.GridRows = 10, 6
	r := New(cfg)
	frame := solidFrame(100, 60, 90, 110, 130)
	a := r.Render(frame)
	b := r.Render(frame)
	assert.Equal(t, a.Cells, b.Cells)
	assert.Equal(t, a.TerminalString, b.TerminalString)
}

func TestHalfBlockDoubling(t *testing.T) {
	// 2x4 input: row0/1 black, row2/3 white.
	w, h := 2, 4
	data := make([]byte, w*h*3)
	for y := 2; y < 4; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			data[off], data[off+1], data[off+2] = 255, 255, 255
		}
	}
	cfg := baseConfig()
	cfg.HalfBlock = true
	r := New(cfg)
	f := r.Render(media.VideoFrame{Width: w, Height: h, Data: data})
	require.Len(t, f.Cells, 1)
	cell := f.Cells[0]
	assert.Equal(t, "▄", cell.Glyph)
	assert.Equal(t, uint32(0xFFFFFF), cell.FG)
	assert.Equal(t, uint32(0x000000), cell.BG)
}

func TestANSI256Quantization(t *testing.T) {
	cfg := baseConfig()
	cfg.Mode = ModeANSI256
	r := New(cfg)
	f := r.Render(solidFrame(1, 1, 200, 10, 10))
	assert.Equal(t, 160, colorlut.XtermIndexFromRGB(
		colorlut.Unpack(f.Cells[0].FG).R,
		colorlut.Unpack(f.Cells[0].FG).G,
		colorlut.Unpack(f.Cells[0].FG).B,
	))
	assert.True(t, strings.Contains(string(f.TerminalString), "38;5;160m"))
}

func TestBayer4ThresholdTriggersHighlightGlyph(t *testing.T) {
	cfg := baseConfig()
	cfg.Mode = ModeANSI256
	cfg.Dither = colorlut.DitherBayer4
	cfg.GridCols, cfg.GridRows = 4, 1
	r := New(cfg)
	f := r.Render(solidFrame(4, 1, 220, 220, 220))
	// threshold at col 0 is 0/16: norm alone likely <=1, glyph stays ramp char.
	assert.NotEqual(t, "#", f.Cells[0].Glyph)
	// threshold at col 3 is 10/16, pushing norm+t over 1.
	assert.Equal(t, "#", f.Cells[3].Glyph)
}

func TestTerminalStringFraming(t *testing.T) {
	r := New(baseConfig())
	f := r.Render(solidFrame(4, 4, 30, 30, 30))
	s := string(f.TerminalString)
	assert.True(t, strings.HasPrefix(s, "\x1b[H"))
	assert.True(t, strings.Contains(s, "\x1b[0m\r\n"))
}

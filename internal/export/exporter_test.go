package export

import (
	"testing"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
	"github.com/lzray-universe/asciiplay/internal/renderer"
	"github.com/stretchr/testify/require"
)

func newTestExporter(t *testing.T, cols, rows, fontW, fontH int) *Exporter {
	t.Helper()
	cache, err := newGlyphCache()
	require.NoError(t, err)
	imgW, imgH := cols*fontW, rows*fontH
	return &Exporter{
		cfg:  Config{GridCols: cols, GridRows: rows, FontW: fontW, FontH: fontH},
		glyphs: cache,
		imgW: imgW,
		imgH: imgH,
		buf:  make([]byte, imgW*imgH*3),
	}
}

func TestBlitFillsEntireCanvas(t *testing.T) {
	e := newTestExporter(t, 2, 2, 8, 16)
	frame := renderer.Frame{
		Cols: 2, Rows: 2,
		Cells: []renderer.Cell{
			{Glyph: "@", FG: colorlut.Pack(255, 255, 255), BG: 0},
			{Glyph: " ", FG: 0, BG: 0},
			{Glyph: "#", FG: colorlut.Pack(10, 20, 30), BG: colorlut.Pack(1, 2, 3)},
			{Glyph: ".", FG: colorlut.Pack(5, 5, 5), BG: 0},
		},
	}
	require.NoError(t, e.blit(frame))
	require.Len(t, e.buf, 2*8*2*16*3)
}

func TestLerpEndpoints(t *testing.T) {
	require.Equal(t, uint8(10), lerp(10, 200, 0))
	require.Equal(t, uint8(200), lerp(10, 200, 255))
}

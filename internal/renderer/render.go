package renderer

import (
	"math"
	"sync"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
	"github.com/lzray-universe/asciiplay/internal/glyphs"
	"github.com/lzray-universe/asciiplay/internal/media"
)

// Render converts one decoded video frame into an ASCII frame using a
// snapshot of the current config taken once at entry, so a mid-render
// control-plane mutation never affects an in-flight frame.
func (r *Renderer) Render(frame media.VideoFrame) Frame {
	cfg := r.CurrentConfig()

	out := Frame{
		Cols:      cfg.GridCols,
		Rows:      cfg.GridRows,
		HalfBlock: cfg.HalfBlock,
		PTS:       frame.PTS,
		Cells:     make([]Cell, cfg.GridCols*cfg.GridRows),
	}

	rowsFactor := 1
	if cfg.HalfBlock {
		rowsFactor = 2
	}
	cellW := maxInt(1, frame.Width/cfg.GridCols)
	cellH := maxInt(1, frame.Height/(cfg.GridRows*rowsFactor))

	// One goroutine per output row, matching the per-row fan-out the
	// teacher's analyzeImage uses for its luminance pass.
	var wg sync.WaitGroup
	for y := 0; y < out.Rows; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			startY := y * cellH
			if cfg.HalfBlock {
				startY = y * 2 * cellH
			}
			for x := 0; x < out.Cols; x++ {
				top := sampleCell(frame.Data, frame.Width, frame.Height,
					x*cellW, startY, cellW, cellH, y, x, cfg)
				cell := top
				if cfg.HalfBlock {
					bottom := sampleCell(frame.Data, frame.Width, frame.Height,
						x*cellW, startY+cellH, cellW, cellH, y+1, x, cfg)
					cell.Glyph = "▄"
					cell.BG = top.FG
					cell.FG = bottom.FG
				}
				out.Cells[y*out.Cols+x] = cell
			}
		}(y)
	}
	wg.Wait()

	out.TerminalString = bakeTerminalString(out, cfg)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleCell averages luminance and per-channel color over a pixel rectangle
// clamped into the frame bounds, then maps that average to a ramp glyph and
// a color per the active mode.
func sampleCell(rgb []byte, width, height, startX, startY, w, h, row, col int, cfg Config) Cell {
	matrix := colorlut.Matrix(cfg.Dither)

	var sumLuma, sumR, sumG, sumB float64
	count := 0
	for y := 0; y < h; y++ {
		yy := clampInt(startY+y, 0, height-1)
		for x := 0; x < w; x++ {
			xx := clampInt(startX+x, 0, width-1)
			off := (yy*width + xx) * 3
			pr, pg, pb := rgb[off], rgb[off+1], rgb[off+2]
			sumLuma += colorlut.Luminance(pr, pg, pb)
			sumR += float64(pr)
			sumG += float64(pg)
			sumB += float64(pb)
			count++
		}
	}
	if count == 0 {
		count = 1
	}

	avgLuma := sumLuma / float64(count)
	normalized := colorlut.ApplyGamma(avgLuma, cfg.Gamma)
	normalized = colorlut.ApplyContrast(normalized, cfg.Contrast)

	rampLen := glyphs.Len()
	rampIdx := int(normalized*float64(rampLen-1) + 0.5)
	rampIdx = clampInt(rampIdx, 0, rampLen-1)

	threshold := matrix.Threshold(row, col)

	avgR := uint8(sumR / float64(count))
	avgG := uint8(sumG / float64(count))
	avgB := uint8(sumB / float64(count))

	cell := Cell{Glyph: string(glyphs.At(rampIdx))}

	switch cfg.Mode {
	case ModeGray:
		gray := uint8(math.Min(255, avgLuma))
		cell.FG = colorlut.Pack(gray, gray, gray)
		cell.BG = 0
	case ModeANSI256:
		idx := colorlut.XtermIndexFromRGB(avgR, avgG, avgB)
		p := colorlut.Palette()[idx]
		cell.FG = colorlut.Pack(p.R, p.G, p.B)
		cell.BG = 0
		if normalized+threshold > 1.0 {
			cell.Glyph = "#"
		}
	case ModeTrueColor:
		cell.FG = colorlut.Pack(avgR, avgG, avgB)
		cell.BG = 0
	}
	return cell
}

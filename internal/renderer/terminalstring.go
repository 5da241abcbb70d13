package renderer

import (
	"strconv"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
)

// bakeTerminalString pre-renders the SGR escape byte string for a frame so
// the presenter does zero formatting on the hot path. Color memoization
// (skipping a repeated SGR sequence) is intra-row only: each row starts with
// no "last color" assumed.
func bakeTerminalString(f Frame, cfg Config) []byte {
	buf := make([]byte, 0, f.Cols*f.Rows*8)
	buf = append(buf, "\x1b[H"...)

	for y := 0; y < f.Rows; y++ {
		var currentFG, currentBG uint32
		haveColor := false
		haveBG := false

		for x := 0; x < f.Cols; x++ {
			cell := f.Cells[y*f.Cols+x]

			switch cfg.Mode {
			case ModeTrueColor:
				if !haveColor || cell.FG != currentFG {
					buf = appendTrueColorFG(buf, cell.FG)
					currentFG = cell.FG
					haveColor = true
				}
			case ModeANSI256:
				rgb := colorlut.Unpack(cell.FG)
				idx := colorlut.XtermIndexFromRGB(rgb.R, rgb.G, rgb.B)
				buf = append(buf, "\x1b[38;5;"...)
				buf = strconv.AppendInt(buf, int64(idx), 10)
				buf = append(buf, 'm')
			default: // ModeGray
				gray := uint8((cell.FG >> 16) & 0xFF)
				buf = appendTrueColorLike(buf, "\x1b[38;2;", gray, gray, gray)
			}

			if cfg.HalfBlock {
				if !haveBG || cell.BG != currentBG {
					rgb := colorlut.Unpack(cell.BG)
					buf = appendTrueColorLike(buf, "\x1b[48;2;", rgb.R, rgb.G, rgb.B)
					currentBG = cell.BG
					haveBG = true
				}
			}

			buf = append(buf, cell.Glyph...)
		}
		buf = append(buf, "\x1b[0m\r\n"...)
	}
	return buf
}

func appendTrueColorFG(buf []byte, packed uint32) []byte {
	rgb := colorlut.Unpack(packed)
	return appendTrueColorLike(buf, "\x1b[38;2;", rgb.R, rgb.G, rgb.B)
}

func appendTrueColorLike(buf []byte, prefix string, r, g, b uint8) []byte {
	buf = append(buf, prefix...)
	buf = strconv.AppendInt(buf, int64(r), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(g), 10)
	buf = append(buf, ';')
	buf = strconv.AppendInt(buf, int64(b), 10)
	buf = append(buf, 'm')
	return buf
}

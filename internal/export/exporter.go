// Package export rasterizes ASCII frames into RGB24 images and feeds them
// to an external ffmpeg process for H.264 encoding, grounded on the
// exec.Command/ffmpeg-subprocess pattern used throughout other_examples/
// (AsmirZukic-go_encoder, Vonr-bad_gopher, braheezy-senshukai) in place of
// the original's direct libavcodec linkage.
package export

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/lzray-universe/asciiplay/internal/colorlut"
	"github.com/lzray-universe/asciiplay/internal/renderer"
	"github.com/pkg/errors"
)

// Config mirrors the original's ExportConfig.
type Config struct {
	OutputFile string
	GridCols   int
	GridRows   int
	FontW      int
	FontH      int
	FPS        int
	CRF        int
}

// Exporter rasterizes each AsciiFrame via a bitmap font into an RGB24 image
// and pipes raw frames into an ffmpeg subprocess.
type Exporter struct {
	cfg        Config
	glyphs     *glyphCache
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	frameIndex int
	imgW, imgH int
	buf        []byte
}

// Open starts the ffmpeg subprocess and prepares the glyph cache.
func Open(cfg Config) (*Exporter, error) {
	cache, err := newGlyphCache()
	if err != nil {
		return nil, err
	}

	imgW := cfg.GridCols * cfg.FontW
	imgH := cfg.GridRows * cfg.FontH

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", imgW, imgH),
		"-r", fmt.Sprintf("%d", cfg.FPS),
		"-i", "-",
		"-c:v", "libx264",
		"-crf", fmt.Sprintf("%d", cfg.CRF),
		"-pix_fmt", "yuv420p",
		cfg.OutputFile,
	}
	cmd := exec.Command("ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "export: open ffmpeg stdin pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "export: start ffmpeg")
	}

	return &Exporter{
		cfg:    cfg,
		glyphs: cache,
		cmd:    cmd,
		stdin:  stdin,
		imgW:   imgW,
		imgH:   imgH,
		buf:    make([]byte, imgW*imgH*3),
	}, nil
}

// WriteFrame rasterizes one ASCII frame into the RGB24 buffer and writes it
// to the encoder with pts = frameIndex (the frame counter), as the source's
// real timestamps don't apply to a fixed export frame rate.
func (e *Exporter) WriteFrame(frame renderer.Frame) error {
	if err := e.blit(frame); err != nil {
		return errors.Wrap(ErrEncode, err.Error())
	}
	if _, err := e.stdin.Write(e.buf); err != nil {
		return errors.Wrap(ErrEncode, err.Error())
	}
	e.frameIndex++
	return nil
}

func (e *Exporter) blit(frame renderer.Frame) error {
	fontW, fontH := e.cfg.FontW, e.cfg.FontH
	for row := 0; row < frame.Rows; row++ {
		for col := 0; col < frame.Cols; col++ {
			cell := frame.Cells[row*frame.Cols+col]
			mask, err := e.glyphs.scaled(cell.Glyph, fontW, fontH)
			if err != nil {
				return err
			}
			bg := colorlut.Unpack(cell.BG)
			fg := colorlut.Unpack(cell.FG)

			baseX := col * fontW
			baseY := row * fontH
			for y := 0; y < fontH; y++ {
				rowOff := (baseY+y)*e.imgW*3 + baseX*3
				for x := 0; x < fontW; x++ {
					a := mask.AlphaAt(x, y).A
					off := rowOff + x*3
					e.buf[off] = lerp(bg.R, fg.R, a)
					e.buf[off+1] = lerp(bg.G, fg.G, a)
					e.buf[off+2] = lerp(bg.B, fg.B, a)
				}
			}
		}
	}
	return nil
}

func lerp(a, b uint8, t uint8) uint8 {
	af := float64(a)
	bf := float64(b)
	tf := float64(t) / 255.0
	return uint8(af + (bf-af)*tf)
}

// Close drains the encoder (closing stdin triggers it to flush and write
// its trailer) and waits for the subprocess to exit.
func (e *Exporter) Close() error {
	if e.stdin != nil {
		_ = e.stdin.Close()
	}
	if e.cmd != nil {
		if err := e.cmd.Wait(); err != nil {
			return errors.Wrap(err, "export: ffmpeg exited with error")
		}
	}
	return nil
}

// Command asciiplay plays a video file as colored ASCII art in the
// terminal, synchronized to its audio track, or renders it back out to a
// video file via --export. Flag layout and signal handling follow §6.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/lzray-universe/asciiplay/internal/audio"
	"github.com/lzray-universe/asciiplay/internal/colorlut"
	"github.com/lzray-universe/asciiplay/internal/export"
	"github.com/lzray-universe/asciiplay/internal/pipeline"
	"github.com/lzray-universe/asciiplay/internal/renderer"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("asciiplay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	mode := fs.String("mode", "256", "initial render mode: gray|256|truecolor")
	grid := fs.String("grid", "120x60", "output grid dimensions COLSxROWS")
	halfblock := fs.String("halfblock", "off", "half-block vertical doubling: on|off")
	fps := fs.Float64("fps", 0, "override pacing fps (0 = use source pts)")
	noAudio := fs.Bool("no-audio", false, "disable audio")
	volume := fs.Int("volume", 100, "audio volume percent, 0..200")
	exportPath := fs.String("export", "", "enter export mode, write to path")
	exportGrid := fs.String("export-grid", "", "export grid override CxR (defaults to --grid)")
	exportFont := fs.String("export-font", "8x16", "glyph cell size in pixels WxH")
	exportCRF := fs.Int("export-crf", 18, "H.264 CRF, 0..51")
	exportFPS := fs.Float64("export-fps", 0, "export frame rate (0 = --fps if set, else 30; the source frame rate is not used)")
	dither := fs.String("dither", "bayer4", "initial dither: off|bayer2|bayer4")
	gamma := fs.Float64("gamma", 2.2, "initial gamma")
	contrast := fs.Float64("contrast", 1.0, "initial contrast")
	maxwrite := fs.Float64("maxwrite", 0, "max terminal MB/s (advisory, 0 = unbounded)")
	stats := fs.Bool("stats", false, "print live stats")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: asciiplay [flags] <input>")
		fs.PrintDefaults()
		return 1
	}
	input := fs.Arg(0)

	cfg, err := buildConfig(input, cliFlags{
		mode:       *mode,
		grid:       *grid,
		halfblock:  *halfblock,
		fps:        *fps,
		noAudio:    *noAudio,
		volume:     *volume,
		exportPath: *exportPath,
		exportGrid: *exportGrid,
		exportFont: *exportFont,
		exportCRF:  *exportCRF,
		exportFPS:  *exportFPS,
		dither:     *dither,
		gamma:      *gamma,
		contrast:   *contrast,
		maxwrite:   *maxwrite,
		stats:      *stats,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "asciiplay:", err)
		return 1
	}

	p := pipeline.New(cfg)
	if err := p.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "asciiplay: init:", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		p.RequestShutdown()
	}()

	p.Run()
	if err := p.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "asciiplay: shutdown:", err)
		return 1
	}
	return 0
}

type cliFlags struct {
	mode       string
	grid       string
	halfblock  string
	fps        float64
	noAudio    bool
	volume     int
	exportPath string
	exportGrid string
	exportFont string
	exportCRF  int
	exportFPS  float64
	dither     string
	gamma      float64
	contrast   float64
	maxwrite   float64
	stats      bool
}

func buildConfig(input string, f cliFlags) (pipeline.Config, error) {
	rcfg := renderer.DefaultConfig()

	switch f.mode {
	case "gray":
		rcfg.Mode = renderer.ModeGray
	case "256":
		rcfg.Mode = renderer.ModeANSI256
	case "truecolor":
		rcfg.Mode = renderer.ModeTrueColor
	default:
		return pipeline.Config{}, fmt.Errorf("unknown --mode %q", f.mode)
	}

	cols, rows, err := parseDims(f.grid, 'x')
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("--grid: %w", err)
	}
	rcfg.GridCols, rcfg.GridRows = cols, rows

	switch f.halfblock {
	case "on":
		rcfg.HalfBlock = true
	case "off":
		rcfg.HalfBlock = false
	default:
		return pipeline.Config{}, fmt.Errorf("unknown --halfblock %q", f.halfblock)
	}

	switch f.dither {
	case "off":
		rcfg.Dither = colorlut.DitherOff
	case "bayer2":
		rcfg.Dither = colorlut.DitherBayer2
	case "bayer4":
		rcfg.Dither = colorlut.DitherBayer4
	default:
		return pipeline.Config{}, fmt.Errorf("unknown --dither %q", f.dither)
	}

	rcfg.Gamma = f.gamma
	rcfg.Contrast = f.contrast

	if f.volume < 0 || f.volume > 200 {
		return pipeline.Config{}, fmt.Errorf("--volume must be in 0..200, got %d", f.volume)
	}

	acfg := audio.Config{
		Enabled: !f.noAudio,
		Volume:  float32(f.volume) / 100.0,
	}

	cfg := pipeline.Config{
		Input:        input,
		Renderer:     rcfg,
		Audio:        acfg,
		TargetFPS:    f.fps,
		ShowStats:    f.stats,
		MaxWriteMBps: f.maxwrite,
	}

	if f.exportPath != "" {
		if f.exportCRF < 0 || f.exportCRF > 51 {
			return pipeline.Config{}, fmt.Errorf("--export-crf must be in 0..51, got %d", f.exportCRF)
		}
		ecols, erows := cols, rows
		if f.exportGrid != "" {
			ecols, erows, err = parseDims(f.exportGrid, 'x')
			if err != nil {
				return pipeline.Config{}, fmt.Errorf("--export-grid: %w", err)
			}
		}
		fontW, fontH, err := parseDims(f.exportFont, 'x')
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("--export-font: %w", err)
		}
		exportFPS := f.exportFPS
		if exportFPS == 0 {
			if f.fps != 0 {
				exportFPS = f.fps
			} else {
				exportFPS = 30
			}
		}

		cfg.ExportEnabled = true
		cfg.Export = export.Config{
			OutputFile: f.exportPath,
			GridCols:   ecols,
			GridRows:   erows,
			FontW:      fontW,
			FontH:      fontH,
			FPS:        int(exportFPS),
			CRF:        f.exportCRF,
		}
		// The renderer must emit frames sized for the exporter's RGB24
		// buffer, which is built from the export grid, not --grid.
		cfg.Renderer.GridCols = ecols
		cfg.Renderer.GridRows = erows
	}

	return cfg, nil
}

func parseDims(s string, sep rune) (int, int, error) {
	parts := strings.SplitN(s, string(sep), 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected AxB, got %q", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

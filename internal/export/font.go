package export

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
)

func color16to8(a uint32) color.Alpha {
	return color.Alpha{A: uint8(a >> 8)}
}

// glyphCache rasterizes each distinct rune once at a base resolution, then
// serves nearest-neighbor-scaled copies at the exporter's configured cell
// size. Grounded on boriwo-movart/ascii.go's getRGBA/analyzeFont, which
// rasterizes characters with golang/freetype for shade analysis; here the
// same rasterization path produces the export bitmaps instead.
type glyphCache struct {
	font  *truetype.Font
	base  int // base raster square, upscaled/downscaled to the final cell size
	cache map[string]*image.Alpha
}

func newGlyphCache() (*glyphCache, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "export: parse embedded font")
	}
	return &glyphCache{font: f, base: 24, cache: map[string]*image.Alpha{}}, nil
}

// mask returns a coverage mask for glyph, rasterized at the cache's base
// resolution and cached by rune string.
func (c *glyphCache) mask(glyph string) (*image.Alpha, error) {
	if m, ok := c.cache[glyph]; ok {
		return m, nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, c.base, c.base))
	draw.Draw(rgba, rgba.Bounds(), image.Transparent, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(96)
	ctx.SetFont(c.font)
	ctx.SetFontSize(float64(c.base) * 0.8)
	ctx.SetClip(rgba.Bounds())
	ctx.SetDst(rgba)
	ctx.SetSrc(image.White)

	pt := freetype.Pt(0, int(float64(c.base)*0.82))
	if _, err := ctx.DrawString(glyph, pt); err != nil {
		return nil, errors.Wrap(err, "export: draw glyph")
	}

	bounds := rgba.Bounds()
	mask := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := rgba.At(x, y).RGBA()
			mask.SetAlpha(x, y, color16to8(a))
		}
	}
	c.cache[glyph] = mask
	return mask, nil
}

// scaled nearest-neighbor-resizes a glyph's coverage mask to w x h.
func (c *glyphCache) scaled(glyph string, w, h int) (*image.Alpha, error) {
	src, err := c.mask(glyph)
	if err != nil {
		return nil, err
	}
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src, nil
	}
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

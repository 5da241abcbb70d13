package colorlut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyGammaIdentity(t *testing.T) {
	for _, v := range []float64{0, 1, 32, 128, 255} {
		got := ApplyGamma(v, 1.0)
		want := v / 255.0
		assert.InDelta(t, want, got, 1e-6)
	}
}

func TestApplyContrastIdentityAndMidpoint(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		assert.InDelta(t, v, ApplyContrast(v, 1.0), 1e-9)
	}
	for _, c := range []float64{0.2, 1.0, 2.0, 3.0} {
		assert.InDelta(t, 0.5, ApplyContrast(0.5, c), 1e-9)
	}
}

func TestPaletteRoundTrip(t *testing.T) {
	palette := Palette()
	require.Len(t, palette, 256)
	// Seven cube entries (16, 46, 51, 196, 201, 226, 231) repeat an ANSI-16
	// color exactly; the search keeps the lowest index on a tie, so each
	// color round-trips to the first palette index that holds it.
	firstIndex := map[RGB]int{}
	for i, rgb := range palette {
		if _, seen := firstIndex[rgb]; !seen {
			firstIndex[rgb] = i
		}
	}
	for i, rgb := range palette {
		got := XtermIndexFromRGB(rgb.R, rgb.G, rgb.B)
		assert.Equalf(t, firstIndex[rgb], got, "palette entry %d did not round-trip: %+v", i, rgb)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	packed := Pack(18, 52, 86)
	rgb := Unpack(packed)
	assert.Equal(t, RGB{18, 52, 86}, rgb)
}

func TestBayerMatrixShapes(t *testing.T) {
	assert.Equal(t, 1, Matrix(DitherOff).Size)
	assert.Equal(t, 2, Matrix(DitherBayer2).Size)
	assert.Equal(t, 4, Matrix(DitherBayer4).Size)
	assert.Equal(t, float64(0), Matrix(DitherOff).Threshold(3, 7))
	assert.InDelta(t, 10.0/16.0, Matrix(DitherBayer4).Threshold(0, 3), 1e-9)
}

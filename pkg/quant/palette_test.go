package quant

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripes builds an image whose rows alternate between the given
// colors.
func stripes(w, h int, colors ...color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, colors[y%len(colors)])
		}
	}
	return m
}

func TestPaletted(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	blue := color.NRGBA{B: 0xff, A: 0xff}
	m := stripes(8, 8, red, blue)

	pm, err := Paletted(m, 2)
	require.NoError(t, err)
	require.Len(t, pm.Palette, 2)

	for y := 0; y < 8; y++ {
		expect := color.RGBA{R: 0xff, A: 0xff}
		if y%2 == 1 {
			expect = color.RGBA{B: 0xff, A: 0xff}
		}
		for x := 0; x < 8; x++ {
			assert.Equal(t, expect, pm.At(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestPalettedBackground(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: 0xff, A: 0x80})
		}
	}

	pm, err := Paletted(m, 2, WithBackground(color.White))
	require.NoError(t, err)
	require.Len(t, pm.Palette, 1)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x7f, B: 0x7f, A: 0xff}, pm.Palette[0])
}

func TestWuQuantizer(t *testing.T) {
	red := color.NRGBA{R: 0xff, A: 0xff}
	green := color.NRGBA{G: 0xff, A: 0xff}
	blue := color.NRGBA{B: 0xff, A: 0xff}
	m := stripes(8, 9, red, green, blue)

	t.Run("quantize", func(t *testing.T) {
		p := WuQuantizer{}.Quantize(make(color.Palette, 0, 16), m)
		assert.Len(t, p, 3)
		assert.Contains(t, p, color.RGBA{R: 0xff, A: 0xff})
		assert.Contains(t, p, color.RGBA{G: 0xff, A: 0xff})
		assert.Contains(t, p, color.RGBA{B: 0xff, A: 0xff})
	})

	t.Run("keeps existing entries", func(t *testing.T) {
		base := make(color.Palette, 1, 17)
		base[0] = color.RGBA{A: 0xff}
		p := WuQuantizer{}.Quantize(base, m)
		assert.Len(t, p, 4)
		assert.Equal(t, color.RGBA{A: 0xff}, p[0])
	})

	t.Run("no space", func(t *testing.T) {
		base := make(color.Palette, 0, 1)
		p := WuQuantizer{}.Quantize(base, m)
		assert.Len(t, p, 0)
	})
}

package img

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage builds a small image split into four solid color blocks
// and returns its PNG encoding.
func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	blocks := []color.NRGBA{
		{R: 0xff, A: 0xff},
		{G: 0xff, A: 0xff},
		{B: 0xff, A: 0xff},
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := 0
			if x >= w/2 {
				b++
			}
			if y >= h/2 {
				b += 2
			}
			m.SetNRGBA(x, y, blocks[b])
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

func TestNativeImage(t *testing.T) {
	t.Run("decode", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 40, 20)))
		require.NoError(t, err)
		defer im.Close()

		assert.Equal(t, "png", im.Format())
		assert.Equal(t, uint(40), im.Width())
		assert.Equal(t, uint(20), im.Height())
	})

	t.Run("decode error", func(t *testing.T) {
		_, err := NewNativeImage(bytes.NewReader([]byte("not an image")))
		assert.Error(t, err)
	})

	t.Run("fit", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 40, 20)))
		require.NoError(t, err)
		defer im.Close()

		require.NoError(t, im.Fit(10, 10))
		assert.Equal(t, uint(10), im.Width())
		assert.Equal(t, uint(5), im.Height())

		// Fit never upscales
		require.NoError(t, im.Fit(100, 100))
		assert.Equal(t, uint(10), im.Width())
	})

	t.Run("quantize", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 16, 16)))
		require.NoError(t, err)
		defer im.Close()

		require.NoError(t, im.SetNumColors(16))
		require.NoError(t, im.Quantize())

		pm, ok := im.Image().(*image.Paletted)
		require.True(t, ok)
		assert.Len(t, pm.Palette, 4)
	})

	t.Run("num colors bounds", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 4, 4)))
		require.NoError(t, err)
		defer im.Close()

		assert.Error(t, im.SetNumColors(1))
		assert.Error(t, im.SetNumColors(257))
		assert.NoError(t, im.SetNumColors(2))
	})

	t.Run("palette", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 16, 16)))
		require.NoError(t, err)
		defer im.Close()

		p, q, err := im.Palette()
		require.NoError(t, err)
		assert.Len(t, p, 4)

		count, err := q.DistinctColorCount()
		assert.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("encode", func(t *testing.T) {
		tests := []struct {
			name     string
			format   string
			expected string
		}{
			{"auto", "", "png"},
			{"png", "png", "png"},
			{"gif", "gif", "gif"},
			{"jpeg", "jpeg", "jpeg"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				im, err := NewNativeImage(bytes.NewReader(testImage(t, 16, 16)))
				require.NoError(t, err)
				defer im.Close()

				require.NoError(t, im.SetFormat(tt.format))
				require.NoError(t, im.Quantize())

				var buf bytes.Buffer
				require.NoError(t, im.Encode(&buf))

				_, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
				require.NoError(t, err)
				assert.Equal(t, tt.expected, format)
				assert.Equal(t, tt.expected, im.Format())
			})
		}
	})

	t.Run("pipeline", func(t *testing.T) {
		im, err := NewNativeImage(bytes.NewReader(testImage(t, 40, 20)))
		require.NoError(t, err)
		defer im.Close()

		err = Pipeline(im,
			func(im Image) error { return im.Fit(20, 20) },
			func(im Image) error { return im.SetNumColors(8) },
			func(im Image) error { return im.Quantize() },
		)
		require.NoError(t, err)
		assert.Equal(t, uint(20), im.Width())
		_, ok := im.Image().(*image.Paletted)
		assert.True(t, ok)
	})
}

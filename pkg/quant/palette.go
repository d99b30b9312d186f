package quant

import (
	"image"
	"image/color"
	"image/draw"
)

// initialDistance seeds the nearest-neighbor search above any real
// squared RGB distance, so the incumbent cluster only survives when
// there is nothing to compare against.
const initialDistance = 100000000

// mark stamps every histogram bin inside the cube with the cube's
// palette index.
func (q *Quantizer) mark(c *box, label uint8, tag []uint8) {
	for r := c.rMin + 1; r <= c.rMax; r++ {
		for g := c.gMin + 1; g <= c.gMax; g++ {
			for b := c.bMin + 1; b <= c.bMax; b++ {
				tag[tableIndex(r, g, b)] = label
			}
		}
	}
}

// derivePalette tags the color space with the final partition and
// computes the centroid color of each cube.
func (q *Quantizer) derivePalette(cubes []box) {
	tag := make([]uint8, tableSize)
	q.lookup = make([]rgb, len(cubes))

	for k := range cubes {
		c := &cubes[k]
		q.mark(c, uint8(k), tag)

		weight := c.volumeInt(q.weights)
		if weight > 0 {
			q.lookup[k] = rgb{
				r: uint8(c.volumeInt(q.momentsRed) / weight),
				g: uint8(c.volumeInt(q.momentsGrn) / weight),
				b: uint8(c.volumeInt(q.momentsBlu) / weight),
			}
		} else {
			q.lookup[k] = rgb{}
		}
	}

	q.tag = tag
}

// refinePalette reassigns every pixel to its nearest centroid in the
// original color space and replaces each centroid by the mean of the
// pixels that actually chose it. Clusters that end up empty keep their
// centroid color. The per-pixel choices become the index stream.
func (q *Quantizer) refinePalette() {
	n := len(q.lookup)
	reds := make([]int64, n)
	greens := make([]int64, n)
	blues := make([]int64, n)
	sums := make([]int64, n)

	q.indexes = make([]int, q.count)
	for i, px := range q.pixels {
		best := int(q.tag[q.quantized[i]])
		bestDistance := initialDistance

		for k, lc := range q.lookup {
			dr := int(px.r) - int(lc.r)
			dg := int(px.g) - int(lc.g)
			db := int(px.b) - int(lc.b)
			if d := dr*dr + dg*dg + db*db; d < bestDistance {
				bestDistance = d
				best = k
			}
		}

		q.indexes[i] = best
		reds[best] += int64(px.r)
		greens[best] += int64(px.g)
		blues[best] += int64(px.b)
		sums[best]++
	}

	for k := range q.lookup {
		if sums[k] > 0 {
			q.lookup[k] = rgb{
				r: uint8(reds[k] / sums[k]),
				g: uint8(greens[k] / sums[k]),
				b: uint8(blues[k] / sums[k]),
			}
		}
	}

	q.palette = make(color.Palette, n)
	for k, lc := range q.lookup {
		q.palette[k] = color.RGBA{R: lc.r, G: lc.g, B: lc.b, A: 0xff}
	}
}

// Paletted quantizes an image and returns its indexed version, running
// the whole lifecycle in one call.
func Paletted(m image.Image, numColors int, opts ...Option) (*image.Paletted, error) {
	bounds := m.Bounds()
	q := New(opts...)
	if err := q.Prepare(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if err := q.Add(m.At(x, y)); err != nil {
				return nil, err
			}
		}
	}

	p, err := q.BuildPalette(numColors)
	if err != nil {
		return nil, err
	}

	pm := image.NewPaletted(bounds, p)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i, err := q.NextPaletteIndex()
			if err != nil {
				return nil, err
			}
			pm.SetColorIndex(x, y, uint8(i))
		}
	}
	return pm, nil
}

// WuQuantizer adapts the quantizer to the standard library's
// draw.Quantizer interface, for use with gif.Encode and friends.
type WuQuantizer struct {
	// Background is the color translucent pixels are composited
	// onto. White when nil.
	Background color.Color
}

var _ draw.Quantizer = WuQuantizer{}

// Quantize fills the remaining capacity of p with a palette computed
// over m and returns the result. When p has less than two free slots
// it is returned unchanged.
func (w WuQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	space := cap(p) - len(p)
	if space < 2 {
		return p
	}
	if space > maxPalette {
		space = maxPalette
	}

	bounds := m.Bounds()
	if bounds.Dx()*bounds.Dy() == 0 {
		return p
	}

	opts := []Option{}
	if w.Background != nil {
		opts = append(opts, WithBackground(w.Background))
	}

	q := New(opts...)
	if err := q.Prepare(bounds.Dx(), bounds.Dy()); err != nil {
		return p
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if err := q.Add(m.At(x, y)); err != nil {
				return p
			}
		}
	}

	colors, err := q.BuildPalette(space)
	if err != nil {
		return p
	}
	return append(p, colors...)
}

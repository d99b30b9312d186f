// Package quant reduces the color palette of an image down to a
// caller-specified number of representative colors, using Xiaolin Wu's
// greedy variance-minimization method over a coarse 3D RGB histogram.
//
// A Quantizer instance walks through a fixed lifecycle: Prepare sizes
// the internal tables for the image, AddColor accumulates every pixel,
// BuildPalette derives the palette and NextPaletteIndex streams the
// palette index of each pixel back, in the order they were added.
// Calls made out of order return ErrInvalidState.
//
// An instance owns all its tables and is not safe for concurrent use.
// Run independent instances for independent images instead.
package quant

import (
	"errors"
	"image/color"
)

// Errors returned by a Quantizer. After any error the instance is
// poisoned and must be discarded.
var (
	ErrInvalidState     = errors.New("quant: operation called out of lifecycle order")
	ErrCapacityExceeded = errors.New("quant: more pixels added than declared")
	ErrOutOfRange       = errors.New("quant: value out of range")
)

// Lifecycle states of a Quantizer.
type state int

const (
	stateEmpty state = iota
	stateReady
	stateAccumulating
	statePartitioned
	stateStreaming
)

const (
	// maxColor is the size of the cube arena. It is twice the largest
	// palette a caller can request, leaving room for failed-cut
	// retries during partitioning.
	maxColor = 512

	// maxPalette is the largest palette size a caller can request.
	maxPalette = 256
)

// Quantizer computes a reduced color palette for a single image.
//
// Create instances with New, then call Prepare before anything else.
type Quantizer struct {
	state state
	bg    rgb

	// capacity and fill level of the pixel-keyed arrays
	total int
	count int

	// Moment tables, 33³ cells each. They hold the raw histogram
	// during accumulation and are converted in place to 3D
	// summed-area form when the palette is built.
	weights     []int64
	momentsRed  []int64
	momentsGrn  []int64
	momentsBlu  []int64
	moments     []float64

	// Per-pixel records, in input order.
	quantized []int32 // histogram bin id of each pixel
	pixels    []rgb   // flattened color of each pixel

	seen presenceSet

	// Results of BuildPalette.
	tag     []uint8
	palette color.Palette
	lookup  []rgb
	indexes []int
	cursor  int
}

// Option configures a Quantizer.
type Option func(*Quantizer)

// WithBackground sets the opaque background color that translucent
// pixels are composited onto. The default is white.
func WithBackground(c color.Color) Option {
	return func(q *Quantizer) {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		q.bg = rgb{nc.R, nc.G, nc.B}
	}
}

// New returns a Quantizer ready for Prepare.
func New(opts ...Option) *Quantizer {
	q := &Quantizer{bg: rgb{0xff, 0xff, 0xff}}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Prepare sizes the quantizer for an image of w by h pixels. Exactly
// w*h calls to AddColor must follow.
func (q *Quantizer) Prepare(w, h int) error {
	if q.state != stateEmpty {
		return ErrInvalidState
	}
	if w < 0 || h < 0 {
		return ErrOutOfRange
	}

	q.total = w * h
	q.weights = make([]int64, tableSize)
	q.momentsRed = make([]int64, tableSize)
	q.momentsGrn = make([]int64, tableSize)
	q.momentsBlu = make([]int64, tableSize)
	q.moments = make([]float64, tableSize)
	q.quantized = make([]int32, 0, q.total)
	q.pixels = make([]rgb, 0, q.total)
	q.seen = newPresenceSet()

	q.state = stateReady
	return nil
}

// AddColor accumulates one pixel, given as a packed 32-bit ARGB value.
// Pixels must be added in image order; that order defines the order of
// the index stream returned by NextPaletteIndex.
func (q *Quantizer) AddColor(argb uint32) error {
	switch q.state {
	case stateReady:
		q.state = stateAccumulating
	case stateAccumulating:
	default:
		return ErrInvalidState
	}
	if q.count >= q.total {
		return ErrCapacityExceeded
	}

	c := q.flatten(argb)
	ir := int32(c.r>>3) + 1
	ig := int32(c.g>>3) + 1
	ib := int32(c.b>>3) + 1
	ind := tableIndex(ir, ig, ib)

	q.weights[ind]++
	q.momentsRed[ind] += int64(c.r)
	q.momentsGrn[ind] += int64(c.g)
	q.momentsBlu[ind] += int64(c.b)
	q.moments[ind] += float64(int(c.r)*int(c.r) + int(c.g)*int(c.g) + int(c.b)*int(c.b))

	q.seen.set(uint32(c.r)<<16 | uint32(c.g)<<8 | uint32(c.b))
	q.quantized = append(q.quantized, (ir<<10)+(ir<<6)+ir+(ig<<5)+ig+ib)
	q.pixels = append(q.pixels, c)
	q.count++
	return nil
}

// Add accumulates one pixel given as a color.Color. Premultiplied
// colors are converted back to straight alpha first.
func (q *Quantizer) Add(c color.Color) error {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return q.AddColor(uint32(nc.A)<<24 | uint32(nc.R)<<16 | uint32(nc.G)<<8 | uint32(nc.B))
}

// DistinctColorCount returns the number of distinct colors seen so
// far, after compositing onto the background.
func (q *Quantizer) DistinctColorCount() (int, error) {
	if q.state == stateEmpty {
		return 0, ErrInvalidState
	}
	return q.seen.count(), nil
}

// BuildPalette partitions the color space into at most numColors
// clusters and returns the palette, one opaque color per cluster. The
// returned palette can be shorter than numColors when the image does
// not carry enough color variation to fill it.
//
// numColors must be in [2, 256]. BuildPalette can only be called once,
// after every pixel has been added.
func (q *Quantizer) BuildPalette(numColors int) (color.Palette, error) {
	switch q.state {
	case stateReady, stateAccumulating:
		if q.count != q.total {
			return nil, ErrInvalidState
		}
	default:
		return nil, ErrInvalidState
	}
	if numColors < 2 || numColors > maxPalette {
		return nil, ErrOutOfRange
	}

	q.buildMoments()
	cubes := q.partition(numColors)
	q.derivePalette(cubes)
	q.refinePalette()

	q.cursor = 0
	q.state = statePartitioned
	return q.palette, nil
}

// NextPaletteIndex returns the palette index of the next pixel, in the
// order the pixels were added. It must be called at most once per
// added pixel; further calls return ErrOutOfRange.
func (q *Quantizer) NextPaletteIndex() (int, error) {
	switch q.state {
	case statePartitioned:
		q.state = stateStreaming
	case stateStreaming:
	default:
		return 0, ErrInvalidState
	}
	if q.cursor >= len(q.indexes) {
		return 0, ErrOutOfRange
	}
	i := q.indexes[q.cursor]
	q.cursor++
	return i, nil
}

// PaletteIndexOf returns the palette index whose color is nearest to
// c, after compositing c onto the background. It is independent of the
// sequential stream and can be called any number of times once the
// palette is built.
func (q *Quantizer) PaletteIndexOf(c color.Color) (int, error) {
	if q.state != statePartitioned && q.state != stateStreaming {
		return 0, ErrInvalidState
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	p := q.flatten(uint32(nc.A)<<24 | uint32(nc.R)<<16 | uint32(nc.G)<<8 | uint32(nc.B))

	best := 0
	bestDistance := initialDistance
	for i, lc := range q.lookup {
		dr := int(p.r) - int(lc.r)
		dg := int(p.g) - int(lc.g)
		db := int(p.b) - int(lc.b)
		if d := dr*dr + dg*dg + db*db; d < bestDistance {
			bestDistance = d
			best = i
		}
	}
	return best, nil
}

package quant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomPixels returns a deterministic set of opaque colors.
func randomPixels(n int) []uint32 {
	rnd := rand.New(rand.NewSource(42))
	pixels := make([]uint32, n)
	for i := range pixels {
		pixels[i] = 0xff000000 | uint32(rnd.Intn(1<<24))
	}
	return pixels
}

func TestMomentTotals(t *testing.T) {
	pixels := randomPixels(5000)
	q := New()
	fill(t, q, pixels)

	q.buildMoments()

	// The top corner of the summed-area table accumulates every
	// histogram cell, so it must count every pixel exactly once.
	assert.Equal(t, int64(len(pixels)), q.weights[tableIndex(32, 32, 32)])

	whole := box{rMax: sideSize - 1, gMax: sideSize - 1, bMax: sideSize - 1}
	var sumR, sumG, sumB int64
	for _, p := range q.pixels {
		sumR += int64(p.r)
		sumG += int64(p.g)
		sumB += int64(p.b)
	}
	assert.Equal(t, sumR, whole.volumeInt(q.momentsRed))
	assert.Equal(t, sumG, whole.volumeInt(q.momentsGrn))
	assert.Equal(t, sumB, whole.volumeInt(q.momentsBlu))
}

func TestPartitionTilesPixels(t *testing.T) {
	pixels := randomPixels(5000)
	q := New()
	fill(t, q, pixels)

	q.buildMoments()
	cubes := q.partition(64)
	require.NotEmpty(t, cubes)
	assert.LessOrEqual(t, len(cubes), 64)

	var total int64
	for k := range cubes {
		w := cubes[k].volumeInt(q.weights)
		assert.GreaterOrEqual(t, w, int64(0))
		assert.GreaterOrEqual(t, q.variance(&cubes[k]), -1e-6)
		total += w
	}
	assert.Equal(t, int64(len(pixels)), total)
}

func TestIndexesInRange(t *testing.T) {
	pixels := randomPixels(2000)
	q := New()
	fill(t, q, pixels)

	p, err := q.BuildPalette(32)
	require.NoError(t, err)

	for range pixels {
		idx, err := q.NextPaletteIndex()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(p))
	}
}

func TestPresenceSet(t *testing.T) {
	s := newPresenceSet()
	assert.Equal(t, 0, s.count())

	s.set(0)
	s.set(0)
	s.set(63)
	s.set(64)
	s.set(1<<24 - 1)
	assert.Equal(t, 4, s.count())
}

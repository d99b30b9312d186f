package quant

// axis designates the color channel a cube is cut along.
type axis int

const (
	axisRed axis = iota
	axisGreen
	axisBlue
)

// box is an axis-aligned cube in the 33³ quantized color space. Bounds
// follow the summed-area convention: exclusive minimum, inclusive
// maximum, so the histogram cells covered on an axis are min+1..max.
type box struct {
	rMin, rMax int32
	gMin, gMax int32
	bMin, bMax int32
	volume     int32
}

func (c *box) computeVolume() {
	c.volume = (c.rMax - c.rMin) * (c.gMax - c.gMin) * (c.bMax - c.bMin)
}

// volumeInt evaluates a summed-area table over the cube with the
// standard 3D inclusion-exclusion rule.
func (c *box) volumeInt(moment []int64) int64 {
	return moment[tableIndex(c.rMax, c.gMax, c.bMax)] -
		moment[tableIndex(c.rMax, c.gMax, c.bMin)] -
		moment[tableIndex(c.rMax, c.gMin, c.bMax)] +
		moment[tableIndex(c.rMax, c.gMin, c.bMin)] -
		moment[tableIndex(c.rMin, c.gMax, c.bMax)] +
		moment[tableIndex(c.rMin, c.gMax, c.bMin)] +
		moment[tableIndex(c.rMin, c.gMin, c.bMax)] -
		moment[tableIndex(c.rMin, c.gMin, c.bMin)]
}

func (c *box) volumeFloat(moment []float64) float64 {
	return moment[tableIndex(c.rMax, c.gMax, c.bMax)] -
		moment[tableIndex(c.rMax, c.gMax, c.bMin)] -
		moment[tableIndex(c.rMax, c.gMin, c.bMax)] +
		moment[tableIndex(c.rMax, c.gMin, c.bMin)] -
		moment[tableIndex(c.rMin, c.gMax, c.bMax)] +
		moment[tableIndex(c.rMin, c.gMax, c.bMin)] +
		moment[tableIndex(c.rMin, c.gMin, c.bMax)] -
		moment[tableIndex(c.rMin, c.gMin, c.bMin)]
}

// bottom is the degenerate face of the cube at the minimum of the
// given axis: the negated terms of volumeInt that a cut at any
// position shares. Combined with top it gives the moment of a half
// cube in constant time.
func (c *box) bottom(d axis, moment []int64) int64 {
	switch d {
	case axisRed:
		return -moment[tableIndex(c.rMin, c.gMax, c.bMax)] +
			moment[tableIndex(c.rMin, c.gMax, c.bMin)] +
			moment[tableIndex(c.rMin, c.gMin, c.bMax)] -
			moment[tableIndex(c.rMin, c.gMin, c.bMin)]
	case axisGreen:
		return -moment[tableIndex(c.rMax, c.gMin, c.bMax)] +
			moment[tableIndex(c.rMax, c.gMin, c.bMin)] +
			moment[tableIndex(c.rMin, c.gMin, c.bMax)] -
			moment[tableIndex(c.rMin, c.gMin, c.bMin)]
	default:
		return -moment[tableIndex(c.rMax, c.gMax, c.bMin)] +
			moment[tableIndex(c.rMax, c.gMin, c.bMin)] +
			moment[tableIndex(c.rMin, c.gMax, c.bMin)] -
			moment[tableIndex(c.rMin, c.gMin, c.bMin)]
	}
}

// top is the slab of the cube with the given axis fixed at position,
// the other two axes spanning the cube.
func (c *box) top(d axis, position int32, moment []int64) int64 {
	switch d {
	case axisRed:
		return moment[tableIndex(position, c.gMax, c.bMax)] -
			moment[tableIndex(position, c.gMax, c.bMin)] -
			moment[tableIndex(position, c.gMin, c.bMax)] +
			moment[tableIndex(position, c.gMin, c.bMin)]
	case axisGreen:
		return moment[tableIndex(c.rMax, position, c.bMax)] -
			moment[tableIndex(c.rMax, position, c.bMin)] -
			moment[tableIndex(c.rMin, position, c.bMax)] +
			moment[tableIndex(c.rMin, position, c.bMin)]
	default:
		return moment[tableIndex(c.rMax, c.gMax, position)] -
			moment[tableIndex(c.rMax, c.gMin, position)] -
			moment[tableIndex(c.rMin, c.gMax, position)] +
			moment[tableIndex(c.rMin, c.gMin, position)]
	}
}

// variance is the residual sum of squares left when every pixel in the
// cube is replaced by the cube's mean color. An empty cube has no
// variance.
func (q *Quantizer) variance(c *box) float64 {
	weight := c.volumeInt(q.weights)
	if weight == 0 {
		return 0
	}
	red := float64(c.volumeInt(q.momentsRed))
	green := float64(c.volumeInt(q.momentsGrn))
	blue := float64(c.volumeInt(q.momentsBlu))

	return c.volumeFloat(q.moments) - (red*red+green*green+blue*blue)/float64(weight)
}

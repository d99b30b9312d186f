package quant

// rgb is an opaque color after compositing onto the background.
type rgb struct {
	r, g, b uint8
}

// alphaFactor[a] is a/255, precomputed so that every channel blend
// goes through the exact same float path.
var alphaFactor [256]float64

func init() {
	for a := range alphaFactor {
		alphaFactor[a] = float64(a) / 255.0
	}
}

// flatten composites a packed 32-bit ARGB value onto the background
// color and returns the opaque result. Fully opaque pixels pass
// through unchanged. The blend truncates toward zero, it does not
// round to nearest.
func (q *Quantizer) flatten(argb uint32) rgb {
	a := uint8(argb >> 24)
	c := rgb{uint8(argb >> 16), uint8(argb >> 8), uint8(argb)}
	if a == 0xff {
		return c
	}

	fg := alphaFactor[a]
	bg := alphaFactor[0xff-a]
	return rgb{
		r: uint8(float64(c.r)*fg + float64(q.bg.r)*bg),
		g: uint8(float64(c.g)*fg + float64(q.bg.g)*bg),
		b: uint8(float64(c.b)*fg + float64(q.bg.b)*bg),
	}
}

package quant

// maximize scans every cut position of the cube on one axis and
// returns the best inter-cluster score together with the position that
// achieves it. cutPosition is -1 when no position leaves both halves
// non-empty.
func (q *Quantizer) maximize(c *box, d axis, first, last int32, wholeRed, wholeGrn, wholeBlu, wholeWeight int64) (float64, int32) {
	baseRed := c.bottom(d, q.momentsRed)
	baseGrn := c.bottom(d, q.momentsGrn)
	baseBlu := c.bottom(d, q.momentsBlu)
	baseWeight := c.bottom(d, q.weights)

	max := 0.0
	cutPosition := int32(-1)

	for pos := first; pos < last; pos++ {
		halfRed := baseRed + c.top(d, pos, q.momentsRed)
		halfGrn := baseGrn + c.top(d, pos, q.momentsGrn)
		halfBlu := baseBlu + c.top(d, pos, q.momentsBlu)
		halfWeight := baseWeight + c.top(d, pos, q.weights)
		if halfWeight == 0 {
			continue
		}

		temp := (float64(halfRed)*float64(halfRed) + float64(halfGrn)*float64(halfGrn) + float64(halfBlu)*float64(halfBlu)) / float64(halfWeight)

		halfRed = wholeRed - halfRed
		halfGrn = wholeGrn - halfGrn
		halfBlu = wholeBlu - halfBlu
		halfWeight = wholeWeight - halfWeight
		if halfWeight == 0 {
			continue
		}

		temp += (float64(halfRed)*float64(halfRed) + float64(halfGrn)*float64(halfGrn) + float64(halfBlu)*float64(halfBlu)) / float64(halfWeight)

		if temp > max {
			max = temp
			cutPosition = pos
		}
	}

	return max, cutPosition
}

// cut splits first into two cubes along the axis with the highest
// score, shrinking first and filling second with the upper half. Ties
// go red, then green, then blue. It reports false when first cannot be
// split any further.
func (q *Quantizer) cut(first, second *box) bool {
	wholeRed := first.volumeInt(q.momentsRed)
	wholeGrn := first.volumeInt(q.momentsGrn)
	wholeBlu := first.volumeInt(q.momentsBlu)
	wholeWeight := first.volumeInt(q.weights)

	maxRed, cutRed := q.maximize(first, axisRed, first.rMin+1, first.rMax, wholeRed, wholeGrn, wholeBlu, wholeWeight)
	maxGrn, cutGrn := q.maximize(first, axisGreen, first.gMin+1, first.gMax, wholeRed, wholeGrn, wholeBlu, wholeWeight)
	maxBlu, cutBlu := q.maximize(first, axisBlue, first.bMin+1, first.bMax, wholeRed, wholeGrn, wholeBlu, wholeWeight)

	var direction axis
	switch {
	case maxRed >= maxGrn && maxRed >= maxBlu:
		direction = axisRed
		if cutRed < 0 {
			return false
		}
	case maxGrn >= maxRed && maxGrn >= maxBlu:
		direction = axisGreen
	default:
		direction = axisBlue
	}

	second.rMax = first.rMax
	second.gMax = first.gMax
	second.bMax = first.bMax

	switch direction {
	case axisRed:
		second.rMin = cutRed
		first.rMax = cutRed
		second.gMin = first.gMin
		second.bMin = first.bMin
	case axisGreen:
		second.gMin = cutGrn
		first.gMax = cutGrn
		second.rMin = first.rMin
		second.bMin = first.bMin
	case axisBlue:
		second.bMin = cutBlu
		first.bMax = cutBlu
		second.rMin = first.rMin
		second.gMin = first.gMin
	}

	first.computeVolume()
	second.computeVolume()
	return true
}

// partition greedily subdivides the whole color space into at most
// numColors cubes, always splitting the cube with the highest
// remaining variance. It stops early once no cube would profit from
// another split.
func (q *Quantizer) partition(numColors int) []box {
	cubes := make([]box, maxColor)
	cubes[0] = box{rMax: sideSize - 1, gMax: sideSize - 1, bMax: sideSize - 1}
	cubes[0].computeVolume()

	volumeVariance := make([]float64, maxColor)
	next := 0

	for i := 1; i < numColors; i++ {
		if q.cut(&cubes[next], &cubes[i]) {
			if cubes[next].volume > 1 {
				volumeVariance[next] = q.variance(&cubes[next])
			} else {
				volumeVariance[next] = 0
			}
			if cubes[i].volume > 1 {
				volumeVariance[i] = q.variance(&cubes[i])
			} else {
				volumeVariance[i] = 0
			}
		} else {
			volumeVariance[next] = 0
			i--
		}

		next = 0
		temp := volumeVariance[0]
		for k := 1; k <= i; k++ {
			if volumeVariance[k] > temp {
				temp = volumeVariance[k]
				next = k
			}
		}
		if temp <= 0 {
			numColors = i + 1
			break
		}
	}

	return cubes[:numColors]
}

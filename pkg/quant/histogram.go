package quant

// The histogram quantizes each channel to its top 5 bits, shifted up
// by one so that row 0 of every table stays zero. That row is the
// algebraic zero of the summed-area inclusion-exclusion rule.
const (
	sideSize  = 33
	tableSize = sideSize * sideSize * sideSize
)

func tableIndex(r, g, b int32) int32 {
	return r*sideSize*sideSize + g*sideSize + b
}

// buildMoments converts the five moment tables in place from raw
// histograms to 3D summed-area form, so that any cell holds the sum of
// every histogram cell below and left of it on all three axes. One
// pass, with a 33-cell running area per blue column and a running line
// per green row.
func (q *Quantizer) buildMoments() {
	var (
		area    [sideSize]int64
		areaRed [sideSize]int64
		areaGrn [sideSize]int64
		areaBlu [sideSize]int64
		area2   [sideSize]float64
	)

	for r := int32(1); r < sideSize; r++ {
		for i := range area {
			area[i] = 0
			areaRed[i] = 0
			areaGrn[i] = 0
			areaBlu[i] = 0
			area2[i] = 0
		}
		for g := int32(1); g < sideSize; g++ {
			var line, lineRed, lineGrn, lineBlu int64
			var line2 float64
			for b := int32(1); b < sideSize; b++ {
				ind := tableIndex(r, g, b)

				line += q.weights[ind]
				lineRed += q.momentsRed[ind]
				lineGrn += q.momentsGrn[ind]
				lineBlu += q.momentsBlu[ind]
				line2 += q.moments[ind]

				area[b] += line
				areaRed[b] += lineRed
				areaGrn[b] += lineGrn
				areaBlu[b] += lineBlu
				area2[b] += line2

				prev := tableIndex(r-1, g, b)
				q.weights[ind] = q.weights[prev] + area[b]
				q.momentsRed[ind] = q.momentsRed[prev] + areaRed[b]
				q.momentsGrn[ind] = q.momentsGrn[prev] + areaGrn[b]
				q.momentsBlu[ind] = q.momentsBlu[prev] + areaBlu[b]
				q.moments[ind] = q.moments[prev] + area2[b]
			}
		}
	}
}

package core

import "sort"

// Distribution1D supports importance sampling a piecewise-constant
// function given as sample weights, by binary-searching a precomputed
// CDF. Used for power-weighted light selection and, nested per row, for
// HDRI importance sampling via Distribution2D.
type Distribution1D struct {
	Function []float64
	cdf      []float64
	integral float64
}

// NewDistribution1D builds the CDF for f. A function that is all zero
// (e.g. an empty scene with no lights) still produces a usable uniform
// distribution rather than dividing by zero.
func NewDistribution1D(f []float64) *Distribution1D {
	n := len(f)
	cdf := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		cdf[i] = cdf[i-1] + f[i-1]/float64(n)
	}

	integral := cdf[n]
	if integral == 0 {
		for i := 1; i <= n; i++ {
			cdf[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			cdf[i] /= integral
		}
	}

	return &Distribution1D{Function: f, cdf: cdf, integral: integral}
}

// Count returns the number of discrete buckets.
func (d *Distribution1D) Count() int { return len(d.Function) }

// Integral returns ∫f over the domain, unnormalized.
func (d *Distribution1D) Integral() float64 { return d.integral }

// findSegment binary-searches the CDF for the segment [cdf[i], cdf[i+1])
// containing u, as described for sample_continuous/sample_discrete.
func (d *Distribution1D) findSegment(u float64) int {
	i := sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u })
	if i == 0 {
		return 0
	}
	return i - 1
}

// SampleContinuous maps u to a continuous domain value in [0,1) and
// reports the PDF of that value under f, plus the discrete bucket it
// fell in (for 2D conditional reuse).
func (d *Distribution1D) SampleContinuous(u float64) (value, pdf float64, offset int) {
	n := len(d.Function)
	if n == 0 {
		return u, 1, 0
	}

	offset = d.findSegment(u)
	du := u - d.cdf[offset]
	if denom := d.cdf[offset+1] - d.cdf[offset]; denom > 0 {
		du /= denom
	}

	if d.integral > 0 {
		pdf = d.Function[offset] / d.integral
	} else {
		pdf = 1.0 / float64(n)
	}

	return (float64(offset) + du) / float64(n), pdf, offset
}

// SampleDiscrete picks a bucket index proportional to its weight,
// returning the selection PDF and a remapped u usable for a further
// dimension of sampling (e.g. a direction within the selected light).
func (d *Distribution1D) SampleDiscrete(u float64) (index int, pdf float64, remappedU float64) {
	n := len(d.Function)
	if n == 0 {
		return 0, 1, u
	}

	index = d.findSegment(u)
	if d.integral > 0 {
		pdf = d.Function[index] / (float64(n) * d.integral)
	} else {
		pdf = 1.0 / float64(n)
	}

	denom := d.cdf[index+1] - d.cdf[index]
	if denom > 0 {
		remappedU = (u - d.cdf[index]) / denom
	}

	return index, pdf, remappedU
}

// Distribution2D samples a 2D piecewise-constant function (an HDRI
// luminance grid) by sampling the marginal over v first, then the
// conditional-on-v distribution over u, matching pbrt's row/column
// decomposition.
type Distribution2D struct {
	conditionalRows []*Distribution1D
	marginal        *Distribution1D
	width, height   int
}

// NewDistribution2D builds row distributions and a marginal distribution
// over row integrals. data is row-major, width*height entries.
func NewDistribution2D(data []float64, width, height int) *Distribution2D {
	rows := make([]*Distribution1D, height)
	marginalFunc := make([]float64, height)

	for y := 0; y < height; y++ {
		row := data[y*width : (y+1)*width]
		rows[y] = NewDistribution1D(row)
		marginalFunc[y] = rows[y].Integral()
	}

	return &Distribution2D{
		conditionalRows: rows,
		marginal:        NewDistribution1D(marginalFunc),
		width:           width,
		height:          height,
	}
}

// SampleContinuous draws (u,v) in [0,1)^2 and returns the joint PDF,
// sampling v via the marginal distribution and u via the conditional
// distribution of the selected row.
func (d *Distribution2D) SampleContinuous(sample Vec2) (uv Vec2, pdf float64) {
	v, pdfV, rowIndex := d.marginal.SampleContinuous(sample.Y)
	u, pdfU, _ := d.conditionalRows[rowIndex].SampleContinuous(sample.X)
	return NewVec2(u, v), pdfU * pdfV
}

// Integral returns the function's total integral over its domain,
// unnormalized: the marginal distribution's integral, which is the mean
// of the row integrals. Used by EnvironmentLight.Power to estimate radiant flux
// for power-weighted light selection.
func (d *Distribution2D) Integral() float64 { return d.marginal.Integral() }

// PDF returns the joint density at a given (u,v), used when another
// sampling strategy needs this distribution's density for MIS.
func (d *Distribution2D) PDF(uv Vec2) float64 {
	x := clampInt(int(uv.X*float64(d.width)), 0, d.width-1)
	y := clampInt(int(uv.Y*float64(d.height)), 0, d.height-1)

	row := d.conditionalRows[y]
	if row.Integral() == 0 || d.marginal.Integral() == 0 {
		return 0
	}
	return (row.Function[x] / row.Integral()) * (d.marginal.Function[y] / d.marginal.Integral())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

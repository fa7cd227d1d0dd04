package simulation

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"simmla/internal/models"
	"simmla/pkg/fftpack"
	"simmla/pkg/grid"
)

// QueryCoordinates returns n evenly spaced focal-plane coordinates spanning
// every subgrid's interpolant domain.
func QueryCoordinates(arr *grid.Array, n int) []float64 {
	g := arr.Grid()
	maxCenter := 0.0
	for _, c := range arr.Centers() {
		maxCenter = math.Max(maxCenter, math.Abs(float64(c)))
	}
	extent := float64(g.Half())*g.FTPhysicalStep() + maxCenter*g.PhysicalSize()/float64(g.Size())
	return floats.Span(make([]float64, n), -extent, extent)
}

// Compose1D sums the fields of every interpolant pair at each x.
func Compose1D(pairs []fftpack.Interpolant1D, x []float64) []complex128 {
	out := make([]complex128, len(x))
	for _, p := range pairs {
		for i, v := range x {
			out[i] += p.Field(v)
		}
	}
	return out
}

// Compose2D sums the fields of every interpolant pair on the mesh spanned by
// x and y. A pair contributes only inside its sampled rectangle.
func Compose2D(pairs []fftpack.Interpolant2D, x, y []float64) *models.FocalMap {
	m := &models.FocalMap{
		X:     append([]float64(nil), x...),
		Y:     append([]float64(nil), y...),
		Field: make([]complex128, len(x)*len(y)),
	}
	for _, p := range pairs {
		mag := p.Magnitude.EvalGrid(x, y)
		phase := p.Phase.EvalGrid(x, y)
		for r, yy := range y {
			for c, xx := range x {
				if !p.Magnitude.Contains(xx, yy) {
					continue
				}
				m.Field[r*len(x)+c] += cmplx.Rect(mag.At(r, c), phase.At(r, c))
			}
		}
	}
	return m
}

func power(u []complex128) float64 {
	var sum float64
	for _, v := range u {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

// moments returns the intensity-weighted mean and population standard
// deviation of x. A dark profile has no centroid and reports zeros.
func moments(x, intensity []float64) (mean, std float64) {
	if floats.Sum(intensity) <= 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(x, intensity)
	return mean, math.Sqrt(variance)
}

// ProfileMetrics summarises a 1D run. inputPower is the discrete power of
// the input samples with spacing dx.
func ProfileMetrics(input []complex128, dx float64, focal models.Profile) models.Metrics {
	intensity := focal.Intensity()
	m := models.Metrics{
		InputPower: power(input) * dx,
		FocalPower: floats.Sum(intensity) * step(focal.X),
	}
	if len(intensity) > 0 {
		m.PeakIntensity = floats.Max(intensity)
	}
	if m.InputPower > 0 {
		m.PowerRatio = m.FocalPower / m.InputPower
	}
	m.CentroidX, m.RMSWidthX = moments(focal.X, intensity)
	return m
}

// MapMetrics summarises a 2D run. input holds the input samples with
// spacing dx along both axes.
func MapMetrics(input []complex128, dx float64, focal *models.FocalMap) models.Metrics {
	intensity := focal.Intensity()
	m := models.Metrics{
		InputPower: power(input) * dx * dx,
		FocalPower: floats.Sum(intensity) * step(focal.X) * step(focal.Y),
	}
	if len(intensity) > 0 {
		m.PeakIntensity = floats.Max(intensity)
	}
	if m.InputPower > 0 {
		m.PowerRatio = m.FocalPower / m.InputPower
	}

	// Marginal intensities along each axis.
	nx := len(focal.X)
	ix := make([]float64, nx)
	iy := make([]float64, len(focal.Y))
	for r := range focal.Y {
		row := intensity[r*nx : (r+1)*nx]
		floats.Add(ix, row)
		iy[r] = floats.Sum(row)
	}
	m.CentroidX, m.RMSWidthX = moments(focal.X, ix)
	m.CentroidY, m.RMSWidthY = moments(focal.Y, iy)
	return m
}

// step returns the spacing of evenly spaced coordinates.
func step(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return (x[len(x)-1] - x[0]) / float64(len(x)-1)
}

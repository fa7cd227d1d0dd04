// Package interpolation builds continuous approximations of sampled focal-plane
// fields so that they can be queried at arbitrary physical coordinates.
package interpolation

import "errors"

var (
	// ErrTooFewPoints is returned when fewer nodes are supplied than an
	// interpolant needs.
	ErrTooFewPoints = errors.New("interpolation: too few points")

	// ErrUnsortedNodes is returned when node coordinates are not strictly
	// increasing.
	ErrUnsortedNodes = errors.New("interpolation: nodes not strictly increasing")

	// ErrShape is returned when node coordinates and values disagree in length.
	ErrShape = errors.New("interpolation: coordinate and value shapes differ")
)

// Interpolator is a continuous function of one coordinate.
type Interpolator interface {
	Eval(x float64) float64
	EvalAll(xs []float64, out ...[]float64) []float64
}

// BiInterpolator is a continuous function of two coordinates.
type BiInterpolator interface {
	Eval(x, y float64) float64
	EvalAll(xs, ys []float64, out ...[]float64) []float64
}

var (
	_ Interpolator   = &Nearest{}
	_ BiInterpolator = &BicubicSpline{}
)

func strictlyIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return false
		}
	}
	return true
}

// outSlice returns out[0] when it is long enough, or a new slice of length n.
func outSlice(n int, out [][]float64) []float64 {
	if len(out) > 0 && len(out[0]) >= n {
		return out[0][:n]
	}
	return make([]float64, n)
}

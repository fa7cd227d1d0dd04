package interpolation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewNearestValidation(t *testing.T) {
	_, err := NewNearest([]float64{0, 1}, []float64{1}, 0)
	require.ErrorIs(t, err, ErrShape)

	_, err = NewNearest(nil, nil, 0)
	require.ErrorIs(t, err, ErrTooFewPoints)

	_, err = NewNearest([]float64{0, 0, 1}, []float64{1, 2, 3}, 0)
	require.ErrorIs(t, err, ErrUnsortedNodes)
}

func TestNearestEval(t *testing.T) {
	n, err := NewNearest([]float64{0, 1, 2, 3}, []float64{10, 11, 12, 13}, -1)
	require.NoError(t, err)

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 10},
		{0.49, 10},
		{0.5, 10}, // ties go to the lower node
		{0.51, 11},
		{2.7, 13},
		{3, 13},
		{-0.01, -1},
		{3.01, -1},
		{math.NaN(), -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.Eval(tt.x), "x=%v", tt.x)
	}

	got := n.EvalAll([]float64{0.2, 1.8, 5})
	assert.Equal(t, []float64{10, 12, -1}, got)

	buf := make([]float64, 3)
	n.EvalAll([]float64{0, 1, 2}, buf)
	assert.Equal(t, []float64{10, 11, 12}, buf)
}

// TestNearestPreservesPhaseJump guards against averaging across a +pi/-pi
// wrap: values on either side of the jump must come back unchanged.
func TestNearestPreservesPhaseJump(t *testing.T) {
	xs := []float64{-2, -1, 0, 1, 2}
	phase := []float64{0.1, 0.2, math.Pi - 0.01, -math.Pi + 0.01, -3}
	n, err := NewNearest(xs, phase, 0)
	require.NoError(t, err)

	assert.Equal(t, math.Pi-0.01, n.Eval(0.45))
	assert.Equal(t, -math.Pi+0.01, n.Eval(0.55))

	// A linear interpolant would return a value near zero here.
	assert.Greater(t, math.Abs(n.Eval(0.499)), 3.0)
	assert.Greater(t, math.Abs(n.Eval(0.501)), 3.0)
}

func TestNearestSinglePoint(t *testing.T) {
	n, err := NewNearest([]float64{1}, []float64{5}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, n.Eval(1))
	assert.Equal(t, 0.0, n.Eval(1.1))
}

func TestNearestNodesAreCopies(t *testing.T) {
	xs := []float64{0, 1}
	ys := []float64{2, 3}
	n, err := NewNearest(xs, ys, 0)
	require.NoError(t, err)

	ys[0] = 100
	assert.Equal(t, 2.0, n.Eval(0))

	gx, gy := n.Nodes()
	gx[1] = 100
	gy[1] = 100
	assert.Equal(t, 3.0, n.Eval(1))
}

func TestNewBicubicSplineValidation(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 1, 2, 3}

	_, err := NewBicubicSpline(xs, ys, mat.NewDense(3, 3, nil))
	require.ErrorIs(t, err, ErrShape)

	_, err = NewBicubicSpline([]float64{0, 1}, []float64{0, 1}, mat.NewDense(2, 2, nil))
	require.ErrorIs(t, err, ErrTooFewPoints)

	_, err = NewBicubicSpline([]float64{0, 2, 1}, ys, mat.NewDense(4, 3, nil))
	require.ErrorIs(t, err, ErrUnsortedNodes)
}

// TestBicubicSplineReproducesNodes checks that the spline passes through
// every sample it was fitted to.
func TestBicubicSplineReproducesNodes(t *testing.T) {
	xs := []float64{-2, -1, 0, 1, 2}
	ys := []float64{-1, 0, 0.5, 1}
	z := mat.NewDense(len(ys), len(xs), nil)
	for r, y := range ys {
		for c, x := range xs {
			z.Set(r, c, math.Sin(x)*math.Cos(y)+x*y)
		}
	}

	s, err := NewBicubicSpline(xs, ys, z)
	require.NoError(t, err)

	for r, y := range ys {
		for c, x := range xs {
			assert.InDelta(t, z.At(r, c), s.Eval(x, y), 1e-12, "(%v, %v)", x, y)
		}
	}

	grid := s.EvalGrid(xs, ys)
	assert.True(t, mat.EqualApprox(grid, z, 1e-12))
}

// TestBicubicSplineBilinearSurface checks that a surface linear in each
// coordinate is reproduced between nodes.
func TestBicubicSplineBilinearSurface(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 2, 3}
	f := func(x, y float64) float64 { return 1 + 2*x - 0.5*y }
	z := mat.NewDense(4, 4, nil)
	for r, y := range ys {
		for c, x := range xs {
			z.Set(r, c, f(x, y))
		}
	}

	s, err := NewBicubicSpline(xs, ys, z)
	require.NoError(t, err)

	qx := []float64{0.25, 1.5, 2.9}
	qy := []float64{2.2, 0.1, 1.7}
	got := s.EvalAll(qx, qy)
	for i := range qx {
		assert.InDelta(t, f(qx[i], qy[i]), got[i], 1e-12)
	}
}

func TestBicubicSplineIsCopy(t *testing.T) {
	xs := []float64{0, 1, 2}
	z := mat.NewDense(3, 3, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1})
	s, err := NewBicubicSpline(xs, xs, z)
	require.NoError(t, err)

	z.Set(1, 1, 100)
	assert.InDelta(t, 1.0, s.Eval(1, 1), 1e-12)

	_, _, nz := s.Nodes()
	nz.Set(0, 0, -5)
	assert.InDelta(t, 1.0, s.Eval(0, 0), 1e-12)
}

func TestBicubicSplineContains(t *testing.T) {
	xs := []float64{-1, 0, 1}
	ys := []float64{2, 3, 4, 5}
	s, err := NewBicubicSpline(xs, ys, mat.NewDense(4, 3, nil))
	require.NoError(t, err)

	assert.True(t, s.Contains(0, 3.5))
	assert.True(t, s.Contains(-1, 5))
	assert.False(t, s.Contains(1.01, 3))
	assert.False(t, s.Contains(0, 1.99))
	assert.False(t, s.Contains(math.NaN(), 3))
}

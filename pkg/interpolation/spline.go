package interpolation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// minSplinePoints is the smallest number of nodes per axis accepted by
// BicubicSpline.
const minSplinePoints = 3

// BicubicSpline interpolates values sampled on a rectilinear grid with a
// tensor product of natural cubic splines: one spline along x for every row,
// then a spline along y through the row values at the query x.
//
// Outside the sampled rectangle the underlying piecewise cubics hold their
// boundary values constant, so queries there extrapolate the nearest edge
// rather than failing.
type BicubicSpline struct {
	xs   []float64
	ys   []float64
	z    *mat.Dense
	rows []*interp.NaturalCubic
}

// NewBicubicSpline fits a spline to z, where z.At(r, c) is the value at
// (xs[c], ys[r]). Both coordinate slices must be strictly increasing and hold
// at least three nodes. The inputs are copied.
func NewBicubicSpline(xs, ys []float64, z *mat.Dense) (*BicubicSpline, error) {
	r, c := z.Dims()
	if r != len(ys) || c != len(xs) {
		return nil, fmt.Errorf("%w: values are %dx%d, coordinates %dx%d", ErrShape, r, c, len(ys), len(xs))
	}
	if len(xs) < minSplinePoints || len(ys) < minSplinePoints {
		return nil, fmt.Errorf("%w: need %d nodes per axis, got %dx%d", ErrTooFewPoints, minSplinePoints, len(ys), len(xs))
	}
	if !strictlyIncreasing(xs) || !strictlyIncreasing(ys) {
		return nil, ErrUnsortedNodes
	}

	s := &BicubicSpline{
		xs:   append([]float64(nil), xs...),
		ys:   append([]float64(nil), ys...),
		z:    mat.DenseCopyOf(z),
		rows: make([]*interp.NaturalCubic, r),
	}
	for i := range s.rows {
		var nc interp.NaturalCubic
		if err := nc.Fit(s.xs, s.z.RawRowView(i)); err != nil {
			return nil, fmt.Errorf("fitting row %d: %w", i, err)
		}
		s.rows[i] = &nc
	}
	return s, nil
}

// Eval returns the interpolated value at (x, y).
func (s *BicubicSpline) Eval(x, y float64) float64 {
	col, err := s.column(x, nil)
	if err != nil {
		return math.NaN()
	}
	return col.Predict(y)
}

// EvalAll evaluates the spline at the points (xs[i], ys[i]). It panics if xs
// and ys differ in length.
func (s *BicubicSpline) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	if len(xs) != len(ys) {
		panic("interpolation: EvalAll coordinate length mismatch")
	}
	res := outSlice(len(xs), out)
	for i := range xs {
		res[i] = s.Eval(xs[i], ys[i])
	}
	return res
}

// EvalGrid evaluates the spline on the rectilinear grid spanned by xs and ys.
// The result has len(ys) rows and len(xs) columns.
func (s *BicubicSpline) EvalGrid(xs, ys []float64) *mat.Dense {
	out := mat.NewDense(len(ys), len(xs), nil)
	buf := make([]float64, len(s.ys))
	for c, x := range xs {
		col, err := s.column(x, buf)
		for r, y := range ys {
			if err != nil {
				out.Set(r, c, math.NaN())
				continue
			}
			out.Set(r, c, col.Predict(y))
		}
	}
	return out
}

// column fits the spline along y through every row evaluated at x.
func (s *BicubicSpline) column(x float64, buf []float64) (*interp.NaturalCubic, error) {
	if len(buf) < len(s.ys) {
		buf = make([]float64, len(s.ys))
	}
	buf = buf[:len(s.ys)]
	for i, row := range s.rows {
		buf[i] = row.Predict(x)
	}
	var col interp.NaturalCubic
	if err := col.Fit(s.ys, buf); err != nil {
		return nil, err
	}
	return &col, nil
}

// Nodes returns copies of the node coordinates and sampled values.
func (s *BicubicSpline) Nodes() (xs, ys []float64, z *mat.Dense) {
	return append([]float64(nil), s.xs...), append([]float64(nil), s.ys...), mat.DenseCopyOf(s.z)
}

// Contains reports whether (x, y) lies inside the sampled rectangle.
func (s *BicubicSpline) Contains(x, y float64) bool {
	return x >= s.xs[0] && x <= s.xs[len(s.xs)-1] && y >= s.ys[0] && y <= s.ys[len(s.ys)-1]
}

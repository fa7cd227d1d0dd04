package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sampler1D produces a complex field at the given physical coordinates. The
// returned slice must have the same length as x.
type Sampler1D interface {
	Sample(x []float64) []complex128
}

// Sampler2D produces a complex field on a 2D coordinate mesh as built by
// Mesh. The returned matrix must have the same dimensions as x and y.
type Sampler2D interface {
	Sample2D(x, y *mat.Dense) *mat.CDense
}

// Sampler1DFunc adapts an ordinary function to the Sampler1D interface.
type Sampler1DFunc func(x []float64) []complex128

// Sample calls f(x).
func (f Sampler1DFunc) Sample(x []float64) []complex128 { return f(x) }

// Sampler2DFunc adapts an ordinary function to the Sampler2D interface.
type Sampler2DFunc func(x, y *mat.Dense) *mat.CDense

// Sample2D calls f(x, y).
func (f Sampler2DFunc) Sample2D(x, y *mat.Dense) *mat.CDense { return f(x, y) }

// Samples1D is a field that has already been sampled on a grid. It ignores
// the coordinate values and returns a copy of the stored samples, so it may
// only be sampled on coordinates with the same number of points.
type Samples1D []complex128

// Sample returns a copy of the stored samples. A length mismatch yields nil,
// which callers report as ErrShapeMismatch.
func (s Samples1D) Sample(x []float64) []complex128 {
	if len(x) != len(s) {
		return nil
	}
	out := make([]complex128, len(s))
	copy(out, s)
	return out
}

// Sample1D evaluates field on the physical coordinates of g and checks the
// shape of the result.
func (g *Grid) Sample1D(field Sampler1D) ([]complex128, error) {
	x := g.Physical()
	u := field.Sample(x)
	if len(u) != len(x) {
		return nil, fmt.Errorf("%w: sampler returned %d values for %d coordinates", ErrShapeMismatch, len(u), len(x))
	}
	return u, nil
}

// Sample2D evaluates field on the physical coordinate mesh of g and checks
// the shape of the result.
func (g *Grid) Sample2D(field Sampler2D) (*mat.CDense, error) {
	x, y := g.PhysicalMesh()
	u := field.Sample2D(x, y)
	if u == nil {
		return nil, fmt.Errorf("%w: sampler returned no field", ErrShapeMismatch)
	}
	r, c := u.Dims()
	if r != g.size || c != g.size {
		return nil, fmt.Errorf("%w: sampler returned %dx%d field for %dx%d grid", ErrShapeMismatch, r, c, g.size, g.size)
	}
	return u, nil
}

package interpolation

import (
	"fmt"
	"sort"
)

// Nearest is a 1D nearest-neighbor interpolant. Queries outside the span of
// the nodes return a fixed fill value. A query lying exactly halfway between
// two nodes returns the value of the lower node.
//
// Nearest-neighbor is the only scheme used for sampled phase: any averaging
// scheme turns a jump between +pi and -pi into a spurious phase near zero.
type Nearest struct {
	xs   []float64
	ys   []float64
	mid  []float64
	fill float64
}

// NewNearest fits a nearest-neighbor interpolant to the nodes (xs, ys). xs
// must be strictly increasing. The slices are copied.
func NewNearest(xs, ys []float64, fill float64) (*Nearest, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d coordinates, %d values", ErrShape, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, ErrTooFewPoints
	}
	if !strictlyIncreasing(xs) {
		return nil, ErrUnsortedNodes
	}

	n := &Nearest{
		xs:   append([]float64(nil), xs...),
		ys:   append([]float64(nil), ys...),
		mid:  make([]float64, len(xs)-1),
		fill: fill,
	}
	for i := range n.mid {
		n.mid[i] = (xs[i] + xs[i+1]) / 2
	}
	return n, nil
}

// Eval returns the value of the node nearest to x, or the fill value when x
// lies outside [xs[0], xs[len-1]].
func (n *Nearest) Eval(x float64) float64 {
	if !(x >= n.xs[0] && x <= n.xs[len(n.xs)-1]) {
		return n.fill
	}
	// First midpoint >= x; ties go to the lower node.
	return n.ys[sort.SearchFloat64s(n.mid, x)]
}

// EvalAll evaluates the interpolant at every coordinate of xs. If out is
// given and long enough, its first element receives the result.
func (n *Nearest) EvalAll(xs []float64, out ...[]float64) []float64 {
	res := outSlice(len(xs), out)
	for i, x := range xs {
		res[i] = n.Eval(x)
	}
	return res
}

// Fill returns the value reported outside the sampled support.
func (n *Nearest) Fill() float64 { return n.fill }

// Nodes returns copies of the node coordinates and values.
func (n *Nearest) Nodes() (xs, ys []float64) {
	return append([]float64(nil), n.xs...), append([]float64(nil), n.ys...)
}

package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Array partitions a Grid into numSubgrids x numSubgrids non-overlapping
// square subgrids, one per lenslet. Subgrid i is centered on index
// coordinate Centers()[i] and spans SubgridSize samples along each axis.
type Array struct {
	grid        *Grid
	numSubgrids int
	subgridSize int
	centers     []int
}

// NewArray builds an array of subgrids lying on a common coordinate system
// of numSubgrids*subgridSize samples per side.
//
// Parameters:
//   - numSubgrids: number of subgrids along one side; must be odd and positive
//   - subgridSize: samples along one side of a subgrid; must be odd and positive
//   - physicalSize, wavelength, focalLength, dim: as for New, applied to the
//     full grid
func NewArray(numSubgrids, subgridSize int, physicalSize, wavelength, focalLength float64, dim int) (*Array, error) {
	if !isOddPositive(numSubgrids) {
		return nil, fmt.Errorf("%w: numSubgrids=%d", ErrInvalidGridSize, numSubgrids)
	}
	if !isOddPositive(subgridSize) {
		return nil, fmt.Errorf("%w: subgridSize=%d", ErrInvalidGridSize, subgridSize)
	}

	g, err := New(numSubgrids*subgridSize, physicalSize, wavelength, focalLength, dim)
	if err != nil {
		return nil, err
	}

	half := numSubgrids / 2
	centers := make([]int, numSubgrids)
	for i := range centers {
		centers[i] = subgridSize * (i - half)
	}

	return &Array{
		grid:        g,
		numSubgrids: numSubgrids,
		subgridSize: subgridSize,
		centers:     centers,
	}, nil
}

// Grid returns the common coordinate system shared by all subgrids.
func (a *Array) Grid() *Grid { return a.grid }

// NumSubgrids returns the number of subgrids along one side.
func (a *Array) NumSubgrids() int { return a.numSubgrids }

// SubgridSize returns the number of samples along one side of a subgrid.
func (a *Array) SubgridSize() int { return a.subgridSize }

// Centers returns the index coordinates of the subgrid centers, evenly
// spaced by SubgridSize and symmetric about zero.
func (a *Array) Centers() []int {
	out := make([]int, len(a.centers))
	copy(out, a.centers)
	return out
}

// Center returns the index coordinate of the center of subgrid i.
func (a *Array) Center(i int) (int, error) {
	if i < 0 || i >= a.numSubgrids {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrSubgridIndex, i, a.numSubgrids)
	}
	return a.centers[i], nil
}

// Support returns the inclusive range of index coordinates covered by
// subgrid i along one axis.
func (a *Array) Support(i int) (lo, hi int, err error) {
	c, err := a.Center(i)
	if err != nil {
		return 0, 0, err
	}
	h := a.subgridSize / 2
	return c - h, c + h, nil
}

// Mask1D reports, for every sample of one grid side, whether it lies inside
// subgrid i.
func (a *Array) Mask1D(i int) ([]bool, error) {
	lo, hi, err := a.Support(i)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, a.grid.size)
	for k, x := range a.grid.index {
		mask[k] = int(x) >= lo && int(x) <= hi
	}
	return mask, nil
}

// Mask2D reports, in row-major order, whether each sample of the 2D grid lies
// inside the subgrid at column xInd and row yInd.
func (a *Array) Mask2D(xInd, yInd int) ([]bool, error) {
	maskX, err := a.Mask1D(xInd)
	if err != nil {
		return nil, err
	}
	maskY, err := a.Mask1D(yInd)
	if err != nil {
		return nil, err
	}
	n := a.grid.size
	mask := make([]bool, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			mask[r*n+c] = maskX[c] && maskY[r]
		}
	}
	return mask, nil
}

// SampleSubgrid1D samples field over the full physical grid and zeroes every
// sample outside subgrid xInd. The sampler's result is copied before masking,
// so samplers may return shared or cached slices.
func (a *Array) SampleSubgrid1D(field Sampler1D, xInd int) ([]complex128, error) {
	mask, err := a.Mask1D(xInd)
	if err != nil {
		return nil, err
	}
	u, err := a.grid.Sample1D(field)
	if err != nil {
		return nil, err
	}
	out := make([]complex128, len(u))
	for k, inside := range mask {
		if inside {
			out[k] = u[k]
		}
	}
	return out, nil
}

// SampleSubgrid2D samples field over the full physical mesh and zeroes every
// sample outside the subgrid at column xInd and row yInd. The sampler's
// result is copied before masking.
func (a *Array) SampleSubgrid2D(field Sampler2D, xInd, yInd int) (*mat.CDense, error) {
	mask, err := a.Mask2D(xInd, yInd)
	if err != nil {
		return nil, err
	}
	u, err := a.grid.Sample2D(field)
	if err != nil {
		return nil, err
	}
	n := a.grid.size
	out := mat.NewCDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if mask[r*n+c] {
				out.Set(r, c, u.At(r, c))
			}
		}
	}
	return out, nil
}

// Package grid provides the square sampling lattices used to simulate the
// propagation of optical fields through microlens arrays.
//
// A Grid is centered on the origin and has an odd number of samples per side
// so that index 0 is always a sample. Three families of coordinates are
// derived from the same integer index coordinates:
//
//   - grid units: the integer indices themselves, in [-floor(N/2), floor(N/2)]
//   - physical units: index * physicalSize / (N - 1)
//   - Fourier units: coordinates of the discrete Fourier transform, either
//     normalised (index / N), in the focal plane of a lens
//     (index * wavelength * focalLength / physicalSize), or as spatial
//     frequencies (index / physicalSize)
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is an immutable square sampling lattice. The zero value is not usable;
// construct grids with New.
type Grid struct {
	size         int
	physicalSize float64
	wavelength   float64
	focalLength  float64
	dim          int

	// index holds the centered integer coordinates of one side of the grid
	index []float64
}

// New establishes a square grid for sampling an electromagnetic field.
//
// Parameters:
//   - gridSize: number of samples along one side; must be odd and positive
//   - physicalSize: full linear extent of the grid in physical units
//   - wavelength: wavelength of the field
//   - focalLength: focal length of the lens used for Fourier-plane units
//   - dim: dimension of the grid (1 or 2)
func New(gridSize int, physicalSize, wavelength, focalLength float64, dim int) (*Grid, error) {
	if !isOddPositive(gridSize) {
		return nil, fmt.Errorf("%w: gridSize=%d", ErrInvalidGridSize, gridSize)
	}
	if dim != 1 && dim != 2 {
		return nil, fmt.Errorf("%w: dim=%d", ErrInvalidDimension, dim)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"physicalSize", physicalSize},
		{"wavelength", wavelength},
		{"focalLength", focalLength},
	} {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return nil, fmt.Errorf("%w: %s=%g", ErrInvalidPhysicalParameter, p.name, p.value)
		}
	}

	half := gridSize / 2
	index := make([]float64, gridSize)
	for i := range index {
		index[i] = float64(i - half)
	}

	return &Grid{
		size:         gridSize,
		physicalSize: physicalSize,
		wavelength:   wavelength,
		focalLength:  focalLength,
		dim:          dim,
		index:        index,
	}, nil
}

func isOddPositive(n int) bool {
	return n > 0 && n%2 == 1
}

// Size returns the number of samples along one side of the grid.
func (g *Grid) Size() int { return g.size }

// PhysicalSize returns the full linear extent of the grid.
func (g *Grid) PhysicalSize() float64 { return g.physicalSize }

// Wavelength returns the wavelength of the sampled field.
func (g *Grid) Wavelength() float64 { return g.wavelength }

// FocalLength returns the focal length used for focal-plane coordinates.
func (g *Grid) FocalLength() float64 { return g.focalLength }

// Dim returns the dimension of the grid, 1 or 2.
func (g *Grid) Dim() int { return g.dim }

// Half returns floor(Size/2), the largest index coordinate.
func (g *Grid) Half() int { return g.size / 2 }

// PhysicalStep returns the spacing between samples in physical units. A grid
// with a single sample has no spacing and reports 0.
func (g *Grid) PhysicalStep() float64 {
	if g.size == 1 {
		return 0
	}
	return g.physicalSize / float64(g.size-1)
}

// FTPhysicalStep returns the spacing of the focal-plane coordinates,
// wavelength * focalLength / physicalSize.
func (g *Grid) FTPhysicalStep() float64 {
	return g.wavelength * g.focalLength / g.physicalSize
}

// Index returns the centered integer coordinates of one side of the grid.
func (g *Grid) Index() []float64 {
	return g.scaled(1)
}

// Physical returns the grid coordinates in physical units.
func (g *Grid) Physical() []float64 {
	return g.scaled(g.PhysicalStep())
}

// FT returns the normalised coordinates of the discrete Fourier transform.
func (g *Grid) FT() []float64 {
	return g.scaled(1 / float64(g.size))
}

// FTPhysical returns the coordinates of the Fourier transform in the focal
// plane of a lens, in units of wavelength * focalLength / physicalSize.
func (g *Grid) FTPhysical() []float64 {
	return g.scaled(g.FTPhysicalStep())
}

// SpatialFrequency returns the spatial frequencies of the Fourier transform,
// fx = x' / (wavelength * focalLength).
func (g *Grid) SpatialFrequency() []float64 {
	return g.scaled(1 / g.physicalSize)
}

func (g *Grid) scaled(factor float64) []float64 {
	out := make([]float64, len(g.index))
	for i, v := range g.index {
		out[i] = v * factor
	}
	return out
}

// Mesh expands one side's coordinates into the two coordinate matrices of a
// square grid. x varies along columns and y along rows, so x.At(r, c) is
// coords[c] and y.At(r, c) is coords[r].
func Mesh(coords []float64) (x, y *mat.Dense) {
	n := len(coords)
	x = mat.NewDense(n, n, nil)
	y = mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			x.Set(r, c, coords[c])
			y.Set(r, c, coords[r])
		}
	}
	return x, y
}

// PhysicalMesh returns the 2D coordinate matrices in physical units.
func (g *Grid) PhysicalMesh() (x, y *mat.Dense) {
	return Mesh(g.Physical())
}

// IndexMesh returns the 2D coordinate matrices in grid units.
func (g *Grid) IndexMesh() (x, y *mat.Dense) {
	return Mesh(g.Index())
}

package grid

import "errors"

// Configuration errors are returned by the constructors in this package and
// are never recoverable: fix the parameters and build the grid again.
var (
	// ErrInvalidGridSize is returned when a grid, subgrid count or subgrid
	// size is not an odd, positive integer.
	ErrInvalidGridSize = errors.New("grid: size is not an odd, positive integer")

	// ErrInvalidDimension is returned when the grid dimension is not 1 or 2.
	ErrInvalidDimension = errors.New("grid: dimension must be 1 or 2")

	// ErrInvalidPhysicalParameter is returned when the physical size,
	// wavelength or focal length is not a finite, positive number.
	ErrInvalidPhysicalParameter = errors.New("grid: physical parameter must be finite and positive")

	// ErrSubgridIndex is returned when a subgrid index lies outside
	// [0, numSubgrids).
	ErrSubgridIndex = errors.New("grid: subgrid index out of range")

	// ErrShapeMismatch is returned when a sampled field does not have the
	// shape of the grid it was sampled on.
	ErrShapeMismatch = errors.New("grid: field shape does not match grid")
)

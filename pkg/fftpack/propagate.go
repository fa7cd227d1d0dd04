package fftpack

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"simmla/pkg/grid"
)

// ErrEvanescentGrowth is returned when propagating backwards would amplify an
// evanescent component by more than maxEvanescentGain.
var ErrEvanescentGrowth = errors.New("fftpack: backward propagation amplifies evanescent components")

// maxEvanescentGain bounds the factor by which backward propagation may grow
// a spectral sample.
const maxEvanescentGain = 1e6

// PropagateOptions tunes the angular-spectrum propagator.
type PropagateOptions struct {
	// SuppressEvanescent discards the imaginary part of the axial wave
	// number, so spatial frequencies beyond 1/wavelength neither oscillate
	// nor decay. By default such components decay with distance.
	SuppressEvanescent bool
}

// Propagate moves a sampled 1D field a signed distance along the optical
// axis with the angular-spectrum method. field must hold one sample per grid
// location of g; the propagated field is sampled on the same grid. Negative
// distances propagate backwards and a zero distance returns the field up to
// round-off.
//
// Evanescent components decay when propagating forwards and grow when
// propagating backwards. If any of them would grow by more than a factor of
// 1e6, Propagate returns ErrEvanescentGrowth instead of an overflowing field;
// shorten the distance, coarsen the grid or suppress evanescent waves.
func Propagate(field []complex128, g *grid.Grid, distance float64) ([]complex128, error) {
	return PropagateWith(field, g, distance, PropagateOptions{})
}

// PropagateWith is Propagate with explicit options.
func PropagateWith(field []complex128, g *grid.Grid, distance float64, opts PropagateOptions) ([]complex128, error) {
	if len(field) != g.Size() {
		return nil, fmt.Errorf("%w: field has %d samples, grid has %d", grid.ErrShapeMismatch, len(field), g.Size())
	}
	if g.Size() == 1 {
		out := make([]complex128, 1)
		copy(out, field)
		return out, nil
	}

	wavelength := g.Wavelength()
	k := 2 * math.Pi / wavelength
	fx := g.SpatialFrequency()
	kernel := make([]complex128, len(fx))
	for i, f := range fx {
		s := f * wavelength
		kz := complex(k, 0) * cmplx.Sqrt(complex(1-s*s, 0))
		if opts.SuppressEvanescent {
			kz = complex(real(kz), 0)
		}
		// |exp(i*kz*d)| = exp(-imag(kz)*d)
		if growth := -imag(kz) * distance; growth > math.Log(maxEvanescentGain) {
			return nil, fmt.Errorf("%w: gain exp(%.3g) at spatial frequency %g over %g m",
				ErrEvanescentGrowth, growth, f, distance)
		}
		kernel[i] = cmplx.Exp(complex(0, distance) * kz)
	}

	dx := g.PhysicalStep()
	F := centeredFFT(field)
	for i := range F {
		F[i] *= complex(dx, 0) * kernel[i]
	}

	out := centeredIFFT(F)
	inv := complex(1/dx, 0)
	for i := range out {
		out[i] *= inv
	}
	return out, nil
}

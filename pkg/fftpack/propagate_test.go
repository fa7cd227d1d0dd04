package fftpack

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmla/pkg/grid"
)

func sampledGaussian(t *testing.T, g *grid.Grid, sigma, tilt float64) []complex128 {
	t.Helper()
	x := g.Physical()
	u := make([]complex128, len(x))
	for i, v := range x {
		u[i] = cmplx.Rect(math.Exp(-v*v/(2*sigma*sigma)), 2*math.Pi*tilt*v)
	}
	return u
}

func energy(u []complex128) float64 {
	var e float64
	for _, v := range u {
		e += real(v)*real(v) + imag(v)*imag(v)
	}
	return e
}

func maxDiff(a, b []complex128) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, cmplx.Abs(a[i]-b[i]))
	}
	return m
}

func TestPropagateZeroDistanceIsIdentity(t *testing.T) {
	g, err := grid.New(65, 2e-3, 532e-9, 5e-3, 1)
	require.NoError(t, err)
	u := sampledGaussian(t, g, 2e-4, 3e3)

	out, err := Propagate(u, g, 0)
	require.NoError(t, err)
	assert.Less(t, maxDiff(u, out), 1e-12)
}

// TestPropagateRoundTrip propagates forward and back again for a range of
// signed distances.
func TestPropagateRoundTrip(t *testing.T) {
	g, err := grid.New(101, 2e-3, 532e-9, 5e-3, 1)
	require.NoError(t, err)
	u := sampledGaussian(t, g, 1e-4, 0)

	for _, d := range []float64{1e-3, -2e-3, 50e-3, 0.3} {
		fwd, err := Propagate(u, g, d)
		require.NoError(t, err)
		back, err := Propagate(fwd, g, -d)
		require.NoError(t, err)
		assert.Less(t, maxDiff(u, back), 1e-9, "d=%g", d)

		// Every spatial frequency propagates, so energy is conserved.
		assert.InDelta(t, 1, energy(fwd)/energy(u), 1e-9, "d=%g", d)
	}
}

// TestPropagateSpreadsBeam checks that a narrow beam broadens as it
// propagates.
func TestPropagateSpreadsBeam(t *testing.T) {
	g, err := grid.New(201, 4e-3, 532e-9, 5e-3, 1)
	require.NoError(t, err)
	u := sampledGaussian(t, g, 5e-5, 0)

	out, err := Propagate(u, g, 20e-3)
	require.NoError(t, err)

	center := g.Size() / 2
	assert.Less(t, cmplx.Abs(out[center]), cmplx.Abs(u[center]))
}

// TestPropagateEvanescentDecay uses a grid fine enough to sample spatial
// frequencies beyond 1/wavelength. Those components decay by default and
// are left undamped when suppressed.
func TestPropagateEvanescentDecay(t *testing.T) {
	lambda := 1e-6
	g, err := grid.New(65, 8*lambda, lambda, 1e-3, 1)
	require.NoError(t, err)
	require.Greater(t, g.SpatialFrequency()[g.Size()-1]*lambda, 1.0)

	u := make([]complex128, g.Size())
	u[g.Size()/2] = 1

	decayed, err := Propagate(u, g, 5*lambda)
	require.NoError(t, err)
	kept, err := PropagateWith(u, g, 5*lambda, PropagateOptions{SuppressEvanescent: true})
	require.NoError(t, err)

	assert.InDelta(t, 1, energy(kept)/energy(u), 1e-9)
	assert.Less(t, energy(decayed), 0.9*energy(u))
}

// TestPropagateEvanescentRoundTrip propagates an impulse, which populates
// every spatial frequency of a grid reaching beyond 1/wavelength, forward and
// back over distances short enough to keep the evanescent gain bounded.
func TestPropagateEvanescentRoundTrip(t *testing.T) {
	lambda := 1e-6
	g, err := grid.New(65, 8*lambda, lambda, 1e-3, 1)
	require.NoError(t, err)
	require.Greater(t, g.SpatialFrequency()[g.Size()-1]*lambda, 1.0)

	u := make([]complex128, g.Size())
	u[g.Size()/2] = 1

	for _, d := range []float64{0.1 * lambda, -0.1 * lambda, 0.3 * lambda} {
		there, err := Propagate(u, g, d)
		require.NoError(t, err, "d=%g", d)
		back, err := Propagate(there, g, -d)
		require.NoError(t, err, "d=%g", d)
		assert.Less(t, maxDiff(u, back), 1e-9, "d=%g", d)
	}
}

// TestPropagateRejectsEvanescentGrowth propagates backwards far enough that
// evanescent components would overflow.
func TestPropagateRejectsEvanescentGrowth(t *testing.T) {
	lambda := 1e-6
	g, err := grid.New(65, 8*lambda, lambda, 1e-3, 1)
	require.NoError(t, err)

	u := make([]complex128, g.Size())
	u[g.Size()/2] = 1

	for _, d := range []float64{5 * lambda, 100 * lambda, 1e-3} {
		fwd, err := Propagate(u, g, d)
		require.NoError(t, err, "d=%g", d)
		for i, v := range fwd {
			require.False(t, cmplx.IsNaN(v) || cmplx.IsInf(v), "d=%g sample %d", d, i)
		}

		_, err = Propagate(fwd, g, -d)
		require.ErrorIs(t, err, ErrEvanescentGrowth, "d=%g", d)
	}

	// Without the imaginary part of kz the kernel is a pure phase and any
	// distance round-trips.
	opts := PropagateOptions{SuppressEvanescent: true}
	fwd, err := PropagateWith(u, g, 1e-3, opts)
	require.NoError(t, err)
	back, err := PropagateWith(fwd, g, -1e-3, opts)
	require.NoError(t, err)
	assert.Less(t, maxDiff(u, back), 1e-9)
}

func TestPropagateShapeMismatch(t *testing.T) {
	g, err := grid.New(9, 1e-3, 532e-9, 5e-3, 1)
	require.NoError(t, err)
	_, err = Propagate(make([]complex128, 8), g, 1e-3)
	require.ErrorIs(t, err, grid.ErrShapeMismatch)
}

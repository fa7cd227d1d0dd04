package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPhysicalSize = 1e-3
	testWavelength   = 532e-9
	testFocalLength  = 5e-3
)

// TestNewGridParity checks that construction fails exactly for even or
// non-positive sizes and otherwise yields n samples.
func TestNewGridParity(t *testing.T) {
	for n := -6; n <= 41; n++ {
		g, err := New(n, testPhysicalSize, testWavelength, testFocalLength, 1)
		if n <= 0 || n%2 == 0 {
			require.ErrorIs(t, err, ErrInvalidGridSize, "n=%d", n)
			require.Nil(t, g)
			continue
		}
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n, g.Size())
		assert.Len(t, g.Index(), n)
	}
}

func TestNewGridInvalidDimension(t *testing.T) {
	for _, dim := range []int{-1, 0, 3, 10} {
		_, err := New(5, testPhysicalSize, testWavelength, testFocalLength, dim)
		require.ErrorIs(t, err, ErrInvalidDimension, "dim=%d", dim)
	}
}

func TestNewGridInvalidPhysicalParameters(t *testing.T) {
	tests := []struct {
		name                  string
		size, wavelength, foc float64
	}{
		{"zero size", 0, testWavelength, testFocalLength},
		{"negative wavelength", testPhysicalSize, -1, testFocalLength},
		{"NaN focal length", testPhysicalSize, testWavelength, math.NaN()},
		{"infinite size", math.Inf(1), testWavelength, testFocalLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(5, tt.size, tt.wavelength, tt.foc, 2)
			require.ErrorIs(t, err, ErrInvalidPhysicalParameter)
		})
	}
}

// TestIndexSymmetry verifies that index coordinates are symmetric about zero
// with an exact zero in the center.
func TestIndexSymmetry(t *testing.T) {
	for _, n := range []int{1, 3, 7, 15, 101} {
		g, err := New(n, testPhysicalSize, testWavelength, testFocalLength, 2)
		require.NoError(t, err)

		idx := g.Index()
		assert.Equal(t, 0.0, idx[n/2], "center of n=%d", n)
		assert.Equal(t, float64(-(n / 2)), idx[0])
		for i := range idx {
			assert.Equal(t, -idx[i], idx[n-1-i], "n=%d i=%d", n, i)
		}
	}
}

func TestCoordinateConversions(t *testing.T) {
	n := 11
	g, err := New(n, testPhysicalSize, testWavelength, testFocalLength, 1)
	require.NoError(t, err)

	idx := g.Index()
	px := g.Physical()
	ft := g.FT()
	pX := g.FTPhysical()
	pfX := g.SpatialFrequency()

	dx := testPhysicalSize / float64(n-1)
	for i := range idx {
		assert.InDelta(t, idx[i]*dx, px[i], 1e-18)
		assert.InDelta(t, idx[i]/float64(n), ft[i], 1e-15)
		assert.InDelta(t, idx[i]*testWavelength*testFocalLength/testPhysicalSize, pX[i], 1e-18)
		assert.InDelta(t, idx[i]/testPhysicalSize, pfX[i], 1e-9)
	}

	// The physical grid spans the full physical size.
	assert.InDelta(t, testPhysicalSize, px[n-1]-px[0], 1e-15)
	assert.InDelta(t, dx, g.PhysicalStep(), 1e-18)
	assert.InDelta(t, testWavelength*testFocalLength/testPhysicalSize, g.FTPhysicalStep(), 1e-18)
}

func TestSingleSampleGrid(t *testing.T) {
	g, err := New(1, testPhysicalSize, testWavelength, testFocalLength, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.PhysicalStep())
	assert.Equal(t, []float64{0}, g.Physical())
}

// TestCoordinatesAreCopies ensures that callers cannot mutate grid state.
func TestCoordinatesAreCopies(t *testing.T) {
	g, err := New(5, testPhysicalSize, testWavelength, testFocalLength, 1)
	require.NoError(t, err)

	idx := g.Index()
	idx[0] = 42
	assert.Equal(t, -2.0, g.Index()[0])
}

func TestMesh(t *testing.T) {
	x, y := Mesh([]float64{-1, 0, 1})
	r, c := x.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.Equal(t, float64(j-1), x.At(i, j))
			assert.Equal(t, float64(i-1), y.At(i, j))
		}
	}
}

func TestSample1DShapeMismatch(t *testing.T) {
	g, err := New(5, testPhysicalSize, testWavelength, testFocalLength, 1)
	require.NoError(t, err)

	short := Sampler1DFunc(func(x []float64) []complex128 {
		return make([]complex128, len(x)-1)
	})
	_, err = g.Sample1D(short)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = g.Sample1D(Samples1D(make([]complex128, 3)))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSamples1DReturnsCopy(t *testing.T) {
	s := Samples1D{1, 2, 3}
	out := s.Sample([]float64{0, 0, 0})
	out[0] = 99
	assert.Equal(t, complex128(1), s[0])
}

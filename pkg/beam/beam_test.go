package beam

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmla/pkg/grid"
)

func TestGaussianProfile(t *testing.T) {
	b := Gaussian{Power: 4, Std: 2, OffsetX: 1}
	u := b.Sample([]float64{1, 3, -1})

	peak := 2 / math.Sqrt(2*math.Pi) / 2
	assert.InDelta(t, peak, real(u[0]), 1e-15)
	assert.InDelta(t, peak*math.Exp(-0.5), real(u[1]), 1e-15)
	assert.InDelta(t, real(u[1]), real(u[2]), 1e-15, "profile should be symmetric about the offset")
	for _, v := range u {
		assert.Zero(t, imag(v))
	}
}

func TestGaussian2DIsSeparable(t *testing.T) {
	g, err := grid.New(11, 10, 1, 1, 2)
	require.NoError(t, err)

	b := Gaussian{Power: 9, Std: 1.5, OffsetX: 0.5, OffsetY: -1}
	u, err := g.Sample2D(b)
	require.NoError(t, err)

	x := g.Physical()
	px := Gaussian{Power: 9, Std: 1.5, OffsetX: 0.5}.Sample(x)
	py := Gaussian{Power: 9, Std: 1.5, OffsetX: -1}.Sample(x)
	for r := range x {
		for c := range x {
			want := real(px[c]) * real(py[r]) / 3
			assert.InDelta(t, want, real(u.At(r, c)), 1e-14, "(%d,%d)", r, c)
		}
	}
}

func TestPlaneWave(t *testing.T) {
	p := PlaneWave{Amplitude: 2, Fx: 0.25}
	u := p.Sample([]float64{0, 1, 2})
	assert.InDelta(t, 0, cmplx.Abs(u[0]-2), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(u[1]-2i), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(u[2]+2), 1e-15)

	g, err := grid.New(5, 4, 1, 1, 2)
	require.NoError(t, err)
	u2, err := g.Sample2D(PlaneWave{Amplitude: 1, Fx: 0.1, Fy: 0.2})
	require.NoError(t, err)
	r, c := u2.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.InDelta(t, 1, cmplx.Abs(u2.At(i, j)), 1e-15)
		}
	}
}

func TestTopHat(t *testing.T) {
	h := TopHat{Amplitude: 3, Radius: 1, OffsetX: 0.5}
	u := h.Sample([]float64{-1, -0.5, 0.5, 1.5, 2})
	assert.Equal(t, []complex128{0, 3, 3, 3, 0}, u)

	g, err := grid.New(5, 4, 1, 1, 2)
	require.NoError(t, err)
	u2, err := g.Sample2D(TopHat{Amplitude: 1, Radius: 1.2})
	require.NoError(t, err)
	// Physical coordinates are -2, -1, 0, 1, 2.
	assert.Equal(t, complex128(1), u2.At(2, 2))
	assert.Equal(t, complex128(1), u2.At(1, 2))
	assert.Equal(t, complex128(0), u2.At(1, 1))
	assert.Equal(t, complex128(0), u2.At(0, 2))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		want    Profile
		wantErr bool
	}{
		{"gaussian", Spec{Kind: "Gaussian", Power: 1, Width: 2e-4, OffsetX: 1e-5}, Gaussian{Power: 1, Std: 2e-4, OffsetX: 1e-5}, false},
		{"plane wave", Spec{Kind: KindPlaneWave, Power: 4}, PlaneWave{Amplitude: 2}, false},
		{"top hat", Spec{Kind: KindTopHat, Power: 9, Width: 1e-3}, TopHat{Amplitude: 3, Radius: 1e-3}, false},
		{"gaussian without width", Spec{Kind: KindGaussian, Power: 1}, nil, true},
		{"top hat negative radius", Spec{Kind: KindTopHat, Power: 1, Width: -1}, nil, true},
		{"unknown", Spec{Kind: "bessel"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

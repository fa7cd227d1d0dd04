// Package beam provides deterministic input fields for the microlens array
// simulations. Every profile implements grid.Sampler1D and grid.Sampler2D.
package beam

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"simmla/pkg/grid"
)

// Profile is a field that can be sampled along a line or over a plane.
type Profile interface {
	grid.Sampler1D
	grid.Sampler2D
}

var (
	_ Profile = Gaussian{}
	_ Profile = PlaneWave{}
	_ Profile = TopHat{}
)

// Gaussian is a perfectly coherent Gaussian beam carrying Power, with
// standard deviation Std, centered on (OffsetX, OffsetY).
//
// Along a line the amplitude is sqrt(P)/(sqrt(2*pi)*Std)*exp(-x^2/(2*Std^2));
// over a plane the two separable factors are multiplied.
type Gaussian struct {
	Power   float64
	Std     float64
	OffsetX float64
	OffsetY float64
}

func (b Gaussian) amplitude(x float64) float64 {
	return math.Sqrt(b.Power) / math.Sqrt(2*math.Pi) / b.Std * math.Exp(-x*x/2/(b.Std*b.Std))
}

// Sample evaluates the 1D profile.
func (b Gaussian) Sample(x []float64) []complex128 {
	u := make([]complex128, len(x))
	for i, v := range x {
		u[i] = complex(b.amplitude(v-b.OffsetX), 0)
	}
	return u
}

// Sample2D evaluates the 2D profile on a mesh.
func (b Gaussian) Sample2D(x, y *mat.Dense) *mat.CDense {
	return sample2D(x, y, func(xx, yy float64) complex128 {
		// Both factors carry sqrt(P); keep only one.
		a := b.amplitude(xx-b.OffsetX) * b.amplitude(yy-b.OffsetY)
		if b.Power > 0 {
			a /= math.Sqrt(b.Power)
		}
		return complex(a, 0)
	})
}

// PlaneWave is a uniform field of the given Amplitude travelling at a small
// angle to the optical axis, expressed as spatial frequencies Fx and Fy.
type PlaneWave struct {
	Amplitude float64
	Fx, Fy    float64
}

// Sample evaluates the 1D plane wave.
func (p PlaneWave) Sample(x []float64) []complex128 {
	u := make([]complex128, len(x))
	for i, v := range x {
		u[i] = complex(p.Amplitude, 0) * expi(2*math.Pi*p.Fx*v)
	}
	return u
}

// Sample2D evaluates the plane wave on a mesh.
func (p PlaneWave) Sample2D(x, y *mat.Dense) *mat.CDense {
	return sample2D(x, y, func(xx, yy float64) complex128 {
		return complex(p.Amplitude, 0) * expi(2*math.Pi*(p.Fx*xx+p.Fy*yy))
	})
}

// TopHat is a uniform field of the given Amplitude inside a disc (or, along
// a line, an interval) of Radius centered on (OffsetX, OffsetY), and zero
// outside.
type TopHat struct {
	Amplitude float64
	Radius    float64
	OffsetX   float64
	OffsetY   float64
}

// Sample evaluates the 1D top hat.
func (h TopHat) Sample(x []float64) []complex128 {
	u := make([]complex128, len(x))
	for i, v := range x {
		if math.Abs(v-h.OffsetX) <= h.Radius {
			u[i] = complex(h.Amplitude, 0)
		}
	}
	return u
}

// Sample2D evaluates the top hat on a mesh.
func (h TopHat) Sample2D(x, y *mat.Dense) *mat.CDense {
	return sample2D(x, y, func(xx, yy float64) complex128 {
		if math.Hypot(xx-h.OffsetX, yy-h.OffsetY) <= h.Radius {
			return complex(h.Amplitude, 0)
		}
		return 0
	})
}

func expi(phi float64) complex128 {
	s, c := math.Sincos(phi)
	return complex(c, s)
}

func sample2D(x, y *mat.Dense, f func(x, y float64) complex128) *mat.CDense {
	r, c := x.Dims()
	u := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			u.Set(i, j, f(x.At(i, j), y.At(i, j)))
		}
	}
	return u
}

// Kind names a beam profile in configuration files.
type Kind string

const (
	KindGaussian  Kind = "gaussian"
	KindPlaneWave Kind = "planewave"
	KindTopHat    Kind = "tophat"
)

// Spec is the configuration-level description of a beam.
type Spec struct {
	Kind    Kind
	Power   float64
	Width   float64
	OffsetX float64
	OffsetY float64
}

// New builds the profile described by spec. Width is the standard deviation
// of a Gaussian, the radius of a top hat, and ignored by a plane wave whose
// Power sets its intensity.
func New(spec Spec) (Profile, error) {
	switch Kind(strings.ToLower(string(spec.Kind))) {
	case KindGaussian:
		if !(spec.Width > 0) {
			return nil, fmt.Errorf("beam: gaussian width must be positive, got %g", spec.Width)
		}
		return Gaussian{Power: spec.Power, Std: spec.Width, OffsetX: spec.OffsetX, OffsetY: spec.OffsetY}, nil
	case KindPlaneWave:
		return PlaneWave{Amplitude: math.Sqrt(spec.Power)}, nil
	case KindTopHat:
		if !(spec.Width > 0) {
			return nil, fmt.Errorf("beam: top hat radius must be positive, got %g", spec.Width)
		}
		return TopHat{Amplitude: math.Sqrt(spec.Power), Radius: spec.Width, OffsetX: spec.OffsetX, OffsetY: spec.OffsetY}, nil
	default:
		return nil, fmt.Errorf("beam: unknown kind %q (must be gaussian, planewave or tophat)", spec.Kind)
	}
}

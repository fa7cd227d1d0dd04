// Package fftpack models the focal-plane field of a microlens array with
// scalar diffraction theory. Every subgrid of a grid.Array is treated as one
// lenslet: the input field restricted to that lenslet's aperture is Fourier
// transformed on its own and the result is turned into a continuous
// interpolant placed back at the lenslet's true position.
package fftpack

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"simmla/pkg/grid"
	"simmla/pkg/interpolation"
)

// ErrDimensionMismatch is returned when a 1D transform is requested on a 2D
// array or the other way around.
var ErrDimensionMismatch = errors.New("fftpack: grid dimension does not match transform")

// Options controls the subgrid transforms.
type Options struct {
	// NoClip keeps the 1D transform across the entire computational grid
	// instead of zeroing it outside the angular extent of a single lenslet
	// aperture. The zero value clips. The 2D transform never clips.
	NoClip bool

	// Workers is the number of goroutines used to transform subgrids. Values
	// below 2 transform the subgrids sequentially. Output order does not
	// depend on this setting. With more than one worker the field sampler
	// is called concurrently and must be safe for that.
	Workers int
}

// DefaultOptions returns the options used when none are given: clipping on,
// sequential processing.
func DefaultOptions() Options {
	return Options{Workers: 1}
}

// Interpolant1D is the focal-plane field of one lenslet along one axis.
type Interpolant1D struct {
	Magnitude *interpolation.Nearest
	Phase     *interpolation.Nearest
}

// Field reconstructs the complex field magnitude*exp(i*phase) at x.
func (p Interpolant1D) Field(x float64) complex128 {
	return cmplx.Rect(p.Magnitude.Eval(x), p.Phase.Eval(x))
}

// Interpolant2D is the focal-plane field of one lenslet over the plane.
type Interpolant2D struct {
	Magnitude *interpolation.BicubicSpline
	Phase     *interpolation.BicubicSpline
}

// Field reconstructs the complex field magnitude*exp(i*phase) at (x, y).
func (p Interpolant2D) Field(x, y float64) complex128 {
	return cmplx.Rect(p.Magnitude.Eval(x, y), p.Phase.Eval(x, y))
}

// FFTSubgrid computes the 1D Fourier transform of field in every subgrid of
// arr, modelling the field in the focal plane of each lenslet. The result
// holds one interpolant pair per subgrid, in subgrid order. Queries outside a
// pair's sampled support return 0.
func FFTSubgrid(field grid.Sampler1D, arr *grid.Array, opts Options) ([]Interpolant1D, error) {
	g := arr.Grid()
	if g.Dim() != 1 {
		return nil, fmt.Errorf("%w: 1D transform on %dD grid", ErrDimensionMismatch, g.Dim())
	}

	centers := arr.Centers()
	out := make([]Interpolant1D, arr.NumSubgrids())
	err := forEach(len(out), opts.Workers, func(i int) error {
		p, err := transformSubgrid1D(field, arr, i, centers[i], !opts.NoClip)
		if err != nil {
			return fmt.Errorf("subgrid %d: %w", i, err)
		}
		out[i] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func transformSubgrid1D(field grid.Sampler1D, arr *grid.Array, i, shift int, clip bool) (Interpolant1D, error) {
	g := arr.Grid()

	sample, err := arr.SampleSubgrid1D(field, i)
	if err != nil {
		return Interpolant1D{}, err
	}

	// Move the subgrid to the center of the coordinate system so the
	// transform carries no linear phase ramp.
	sample = roll(sample, -shift)

	// Scale to conserve energy between the aperture and the focal plane.
	scale := complex(g.PhysicalStep()/math.Sqrt(g.Wavelength()*g.FocalLength()), 0)
	F := centeredFFT(sample)
	for k := range F {
		F[k] *= scale
	}

	index := g.Index()
	if clip {
		h := float64(arr.SubgridSize() / 2)
		for k, x := range index {
			if x < -h || x > h {
				F[k] = 0
			}
		}
	}

	// Shift the coordinates back to the lenslet's location.
	x := g.FTPhysical()
	offset := float64(shift) * g.PhysicalSize() / float64(g.Size())
	for k := range x {
		x[k] += offset
	}

	mag := make([]float64, len(F))
	phase := make([]float64, len(F))
	for k, v := range F {
		mag[k] = cmplx.Abs(v)
		phase[k] = cmplx.Phase(v)
	}

	magInterp, err := interpolation.NewNearest(x, mag, 0)
	if err != nil {
		return Interpolant1D{}, err
	}
	phaseInterp, err := interpolation.NewNearest(x, phase, 0)
	if err != nil {
		return Interpolant1D{}, err
	}
	return Interpolant1D{Magnitude: magInterp, Phase: phaseInterp}, nil
}

// FFT2Subgrid computes the 2D Fourier transform of field in every subgrid of
// arr. The result holds one interpolant pair per (x, y) subgrid pair in
// row-major order: index xInd*NumSubgrids + yInd.
//
// Both magnitude and phase are interpolated with smooth bicubic splines, so
// phase wraps between +pi and -pi are smeared; no aperture clipping is
// applied.
func FFT2Subgrid(field grid.Sampler2D, arr *grid.Array, opts Options) ([]Interpolant2D, error) {
	g := arr.Grid()
	if g.Dim() != 2 {
		return nil, fmt.Errorf("%w: 2D transform on %dD grid", ErrDimensionMismatch, g.Dim())
	}

	n := arr.NumSubgrids()
	centers := arr.Centers()
	out := make([]Interpolant2D, n*n)
	err := forEach(len(out), opts.Workers, func(k int) error {
		xInd, yInd := k/n, k%n
		p, err := transformSubgrid2D(field, arr, xInd, yInd, centers[xInd], centers[yInd])
		if err != nil {
			return fmt.Errorf("subgrid (%d, %d): %w", xInd, yInd, err)
		}
		out[k] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func transformSubgrid2D(field grid.Sampler2D, arr *grid.Array, xInd, yInd, shiftX, shiftY int) (Interpolant2D, error) {
	g := arr.Grid()

	sample, err := arr.SampleSubgrid2D(field, xInd, yInd)
	if err != nil {
		return Interpolant2D{}, err
	}
	data, rows, cols := denseData(sample)

	// x runs along columns, y along rows.
	data = roll2D(data, rows, cols, -shiftY, -shiftX)

	dx := g.PhysicalStep()
	scale := complex(dx*dx/(g.Wavelength()*g.FocalLength()), 0)
	F := centeredFFT2(data, rows, cols)

	mag := mat.NewDense(rows, cols, nil)
	phase := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := F[r*cols+c] * scale
			mag.Set(r, c, cmplx.Abs(v))
			phase.Set(r, c, cmplx.Phase(v))
		}
	}

	xs := g.FTPhysical()
	ys := g.FTPhysical()
	step := g.PhysicalSize() / float64(g.Size())
	for k := range xs {
		xs[k] += float64(shiftX) * step
		ys[k] += float64(shiftY) * step
	}

	magInterp, err := interpolation.NewBicubicSpline(xs, ys, mag)
	if err != nil {
		return Interpolant2D{}, err
	}
	phaseInterp, err := interpolation.NewBicubicSpline(xs, ys, phase)
	if err != nil {
		return Interpolant2D{}, err
	}
	return Interpolant2D{Magnitude: magInterp, Phase: phaseInterp}, nil
}

// forEach runs fn for every index in [0, n) on up to workers goroutines and
// returns the error of the lowest failing index. fn must only write state
// owned by its index.
func forEach(n, workers int, fn func(i int) error) error {
	if workers > runtime.NumCPU()*4 {
		workers = runtime.NumCPU() * 4
	}
	if workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	errs := make([]error, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

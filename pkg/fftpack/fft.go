package fftpack

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// roll circularly shifts a by shift places: out[(i+shift) mod n] = a[i].
// A negative shift moves samples towards lower indices.
func roll(a []complex128, shift int) []complex128 {
	n := len(a)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}
	for i, v := range a {
		out[mod(i+shift, n)] = v
	}
	return out
}

func mod(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}

// fftshift moves the zero-frequency sample to the center of the sequence.
func fftshift(a []complex128) []complex128 { return roll(a, len(a)/2) }

// ifftshift undoes fftshift, moving the center sample to index 0.
func ifftshift(a []complex128) []complex128 { return roll(a, -(len(a) / 2)) }

// centeredFFT computes the unnormalized forward transform of a sequence whose
// origin sits at its center sample, returning a spectrum with the zero
// frequency at the center as well.
func centeredFFT(seq []complex128) []complex128 {
	fft := fourier.NewCmplxFFT(len(seq))
	work := ifftshift(seq)
	fft.Coefficients(work, work)
	return fftshift(work)
}

// centeredIFFT inverts centeredFFT, including the 1/n normalisation that
// gonum leaves to the caller.
func centeredIFFT(coeff []complex128) []complex128 {
	n := len(coeff)
	fft := fourier.NewCmplxFFT(n)
	work := ifftshift(coeff)
	fft.Sequence(work, work)
	scale := complex(1/float64(n), 0)
	for i := range work {
		work[i] *= scale
	}
	return fftshift(work)
}

// denseData copies a complex matrix into a row-major slice.
func denseData(m *mat.CDense) (data []complex128, rows, cols int) {
	rows, cols = m.Dims()
	data = make([]complex128, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = m.At(r, c)
		}
	}
	return data, rows, cols
}

// roll2D circularly shifts a row-major matrix by shiftRows along the rows
// (axis 0) and shiftCols along the columns (axis 1).
func roll2D(data []complex128, rows, cols, shiftRows, shiftCols int) []complex128 {
	out := make([]complex128, len(data))
	for r := 0; r < rows; r++ {
		rr := mod(r+shiftRows, rows)
		for c := 0; c < cols; c++ {
			out[rr*cols+mod(c+shiftCols, cols)] = data[r*cols+c]
		}
	}
	return out
}

// fft2InPlace computes the unnormalized 2D transform of a row-major matrix,
// rows first and then columns.
func fft2InPlace(data []complex128, rows, cols int, forward bool) {
	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	for r := 0; r < rows; r++ {
		row := data[r*cols : (r+1)*cols]
		if forward {
			rowFFT.Coefficients(row, row)
		} else {
			rowFFT.Sequence(row, row)
		}
	}

	col := make([]complex128, rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			col[r] = data[r*cols+c]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for r := 0; r < rows; r++ {
			data[r*cols+c] = col[r]
		}
	}
}

// centeredFFT2 is the 2D counterpart of centeredFFT.
func centeredFFT2(data []complex128, rows, cols int) []complex128 {
	work := roll2D(data, rows, cols, -(rows / 2), -(cols / 2))
	fft2InPlace(work, rows, cols, true)
	return roll2D(work, rows, cols, rows/2, cols/2)
}

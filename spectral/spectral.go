// SPDX-License-Identifier: MIT

// Package spectral adapts the go-dsp FFT to flat row-major complex arrays and
// adds the centered-transform helpers every propagation method shares.
//
// All functions take and return row-major slices of length ny·nx, never alter
// their input, and panic when a length disagrees with the declared shape
// (programmer error: callers in this module derive shapes from a grid.Grid).
//
// Conventions:
//   - FFT2 is unnormalized, IFFT2 carries the 1/(nx·ny) factor (numpy).
//   - The axis sample of a centered array sits at index ⌊n/2⌋; IShift moves
//     it to index 0 and Shift moves it back.
//   - CFT2 approximates the continuous Fourier transform of a centered array:
//     Shift(FFT2(IShift(g)))·dx·dy, sampled at f = (k − ⌊n/2⌋)/(n·d).
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/cmplxs"
)

func mustShape(data []complex128, ny, nx int) {
	if ny <= 0 || nx <= 0 || len(data) != ny*nx {
		panic(fmt.Sprintf("spectral: len(data)=%d does not match %dx%d", len(data), ny, nx))
	}
}

// rowsOf exposes the flat buffer as row views without copying.
func rowsOf(data []complex128, ny, nx int) [][]complex128 {
	rows := make([][]complex128, ny)
	for i := 0; i < ny; i++ {
		rows[i] = data[i*nx : (i+1)*nx : (i+1)*nx]
	}

	return rows
}

func flatten(rows [][]complex128, ny, nx int) []complex128 {
	out := make([]complex128, ny*nx)
	for i := 0; i < ny; i++ {
		copy(out[i*nx:(i+1)*nx], rows[i])
	}

	return out
}

// FFT2 returns the unnormalized 2D DFT of a ny×nx array.
func FFT2(data []complex128, ny, nx int) []complex128 {
	mustShape(data, ny, nx)

	return flatten(fft.FFT2(rowsOf(data, ny, nx)), ny, nx)
}

// IFFT2 returns the normalized inverse 2D DFT of a ny×nx array.
func IFFT2(data []complex128, ny, nx int) []complex128 {
	mustShape(data, ny, nx)

	return flatten(fft.IFFT2(rowsOf(data, ny, nx)), ny, nx)
}

// roll circularly shifts rows by sy and columns by sx.
func roll(data []complex128, ny, nx, sy, sx int) []complex128 {
	mustShape(data, ny, nx)
	out := make([]complex128, len(data))
	for i := 0; i < ny; i++ {
		ti := ((i+sy)%ny + ny) % ny
		for j := 0; j < nx; j++ {
			tj := ((j+sx)%nx + nx) % nx
			out[ti*nx+tj] = data[i*nx+j]
		}
	}

	return out
}

// Shift moves the zero-frequency (index 0) sample to the array center (fftshift).
func Shift(data []complex128, ny, nx int) []complex128 {
	return roll(data, ny, nx, ny/2, nx/2)
}

// IShift undoes Shift (ifftshift): the center sample moves to index 0.
func IShift(data []complex128, ny, nx int) []complex128 {
	return roll(data, ny, nx, -(ny / 2), -(nx / 2))
}

// CFT2 samples the continuous 2D Fourier transform of a centered array with
// pitch (dx, dy); the result is centered as well.
func CFT2(data []complex128, ny, nx int, dx, dy float64) []complex128 {
	out := Shift(FFT2(IShift(data, ny, nx), ny, nx), ny, nx)
	cmplxs.Scale(complex(dx*dy, 0), out)

	return out
}

// ICFT2 inverts CFT2 given the frequency spacing (dfx, dfy) of the input.
func ICFT2(data []complex128, ny, nx int, dfx, dfy float64) []complex128 {
	out := Shift(IFFT2(IShift(data, ny, nx), ny, nx), ny, nx)
	cmplxs.Scale(complex(float64(nx*ny)*dfx*dfy, 0), out)

	return out
}

// Pad embeds a centered ny×nx array into a zero py×px array so that the axis
// samples coincide (index ⌊n/2⌋ maps to ⌊p/2⌋). Requires py ≥ ny, px ≥ nx.
func Pad(data []complex128, ny, nx, py, px int) []complex128 {
	mustShape(data, ny, nx)
	if py < ny || px < nx {
		panic(fmt.Sprintf("spectral: cannot pad %dx%d into %dx%d", ny, nx, py, px))
	}
	out := make([]complex128, py*px)
	oy, ox := py/2-ny/2, px/2-nx/2
	for i := 0; i < ny; i++ {
		copy(out[(i+oy)*px+ox:(i+oy)*px+ox+nx], data[i*nx:(i+1)*nx])
	}

	return out
}

// Crop extracts the centered ny×nx block of a py×px array; inverse of Pad.
func Crop(data []complex128, py, px, ny, nx int) []complex128 {
	mustShape(data, py, px)
	if py < ny || px < nx {
		panic(fmt.Sprintf("spectral: cannot crop %dx%d out of %dx%d", ny, nx, py, px))
	}
	out := make([]complex128, ny*nx)
	oy, ox := py/2-ny/2, px/2-nx/2
	for i := 0; i < ny; i++ {
		copy(out[i*nx:(i+1)*nx], data[(i+oy)*px+ox:(i+oy)*px+ox+nx])
	}

	return out
}

// Flip reflects a centered array through its axis sample: index i maps to
// (2·⌊n/2⌋ − i) mod n on each axis.
func Flip(data []complex128, ny, nx int) []complex128 {
	mustShape(data, ny, nx)
	out := make([]complex128, len(data))
	cy, cx := ny/2, nx/2
	for i := 0; i < ny; i++ {
		fi := ((2*cy-i)%ny + ny) % ny
		for j := 0; j < nx; j++ {
			fj := ((2*cx-j)%nx + nx) % nx
			out[fi*nx+fj] = data[i*nx+j]
		}
	}

	return out
}

// ChirpZ evaluates y[j] = Σ_k a[k]·exp(i2π·c·s_k·t_j) for a centered input of
// length p (s_k = k − ⌊p/2⌋) at m centered outputs (t_j = j − ⌊m/2⌋), using
// Bluestein's identity 2st = s² + t² − (t−s)² and one linear convolution.
// With c = 1/p and m = p it is the centered inverse DFT without the 1/p
// factor; other c zoom the output sampling.
//
// Complexity: O(L·log L) with L = p+m−1.
func ChirpZ(a []complex128, c float64, m int) []complex128 {
	p := len(a)
	if p == 0 || m <= 0 {
		panic(fmt.Sprintf("spectral: ChirpZ of %d samples onto %d", p, m))
	}
	l := p + m - 1
	delta := p/2 - m/2
	chirp := func(v int) complex128 {
		s, co := math.Sincos(math.Pi * c * float64(v) * float64(v))
		return complex(co, s)
	}

	b := make([]complex128, l)
	for k, v := range a {
		b[k] = v * chirp(k-p/2)
	}
	w := make([]complex128, l)
	for n := -(p - 1); n < m; n++ {
		w[n+p-1] = cmplx.Conj(chirp(n + delta))
	}

	bs, ws := fft.FFT(b), fft.FFT(w)
	cmplxs.Mul(bs, ws)
	conv := fft.IFFT(bs)

	out := make([]complex128, m)
	for j := range out {
		out[j] = chirp(j-m/2) * conv[j+p-1]
	}

	return out
}

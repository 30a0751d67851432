// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/spectral"
)

// Simpson returns 1D integration weights for n equally spaced samples:
// Simpson's rule (1, 4, 2, 4, …, 4, 1)/3 for odd n ≥ 3, the trapezoid rule
// (½, 1, …, 1, ½) for even n, and {1} for n == 1. Returns nil for n < 1.
func Simpson(n int) []float64 {
	if n < 1 {
		return nil
	}
	w := make([]float64, n)
	switch {
	case n == 1:
		w[0] = 1
	case n%2 == 1:
		for i := range w {
			switch {
			case i == 0 || i == n-1:
				w[i] = 1.0 / 3
			case i%2 == 1:
				w[i] = 4.0 / 3
			default:
				w[i] = 2.0 / 3
			}
		}
	default:
		for i := range w {
			w[i] = 1
		}
		w[0], w[n-1] = 0.5, 0.5
	}

	return w
}

// impulse evaluates the first Rayleigh–Sommerfeld impulse response
// h = (1/2π)·exp(ikr)/r·(z/r)·(1/r − ik), r = sqrt(x² + y² + z²).
func impulse(k, x, y, z float64) complex128 {
	r := math.Sqrt(x*x + y*y + z*z)

	return phase(k*r) * complex(z/(2*math.Pi*r*r), 0) * complex(1/r, -k)
}

// NewRayleighSommerfeld builds the FFT direct-integration kernel (Shen & Wang
// 2006) from src onto dst.
// Stage 1: sample h on a (n_out+n−1) lattice whose sample j sits at
// (x2₀−x1₀) + (j − (n−1) − ⌊n_out/2⌋ + ⌊n/2⌋)·dx.
// Stage 2: store its 2D DFT for the linear convolution done by Apply.
// Requires equal pitch and z > 0; WithSimpson enables quadrature weights.
//
// Complexity: O(M·log M) build with M = (nx_out+nx−1)(ny_out+ny−1).
func NewRayleighSommerfeld(src, dst grid.Grid, wavelength, z float64, opts ...Option) (*Kernel, error) {
	if err := checkCommon(ctxRS, src, wavelength, z); err != nil {
		return nil, err
	}
	if err := field.ValidateGrid(dst); err != nil {
		return nil, kernelErrorf(ctxRS, err)
	}
	if z <= 0 {
		return nil, kernelErrorf(ctxRS, fmt.Errorf("z=%g: %w", z, ErrUnsupportedMethod))
	}
	if !src.SamePitch(dst, grid.DefaultTolerance) {
		return nil, kernelErrorf(ctxRS, fmt.Errorf("pitch %v vs %v: %w", src, dst, ErrUnsupportedMethod))
	}
	o := gatherOptions(opts...)

	mx, my := dst.NX()+src.NX()-1, dst.NY()+src.NY()-1
	sx0, sy0 := src.Origin()
	dx0, dy0 := dst.Origin()
	ox := (dx0 - sx0) + float64(mx/2-(src.NX()-1)-dst.NX()/2+src.NX()/2)*src.DX()
	oy := (dy0 - sy0) + float64(my/2-(src.NY()-1)-dst.NY()/2+src.NY()/2)*src.DY()
	lattice, err := grid.New(mx, my, src.DX(), src.DY(), grid.WithOrigin(ox, oy))
	if err != nil {
		return nil, kernelErrorf(ctxRS, err)
	}

	k := 2 * math.Pi / wavelength
	xs, ys := lattice.X(), lattice.Y()
	h := make([]complex128, lattice.Size())
	for iy, y := range ys {
		for ix, x := range xs {
			h[iy*mx+ix] = impulse(k, x, y, z)
		}
	}

	kern := &Kernel{
		method:     DirectIntegration,
		domain:     Spatial,
		wavelength: wavelength,
		z:          z,
		src:        src,
		lattice:    lattice,
		dst:        dst,
		values:     h,
		spectrum:   spectral.FFT2(h, my, mx),
	}
	if o.simpson {
		kern.wx, kern.wy = Simpson(src.NX()), Simpson(src.NY())
	}

	return kern, nil
}

// DirectPoints evaluates the Rayleigh–Sommerfeld integral of f at distance z
// at the points (xs[i], ys[i]) by brute-force summation. It is the reference
// evaluator for the FFT methods: O(N·M) for N source samples and M points.
func DirectPoints(f *field.Field, z float64, xs, ys []float64) ([]complex128, error) {
	g := f.Grid()
	if err := checkCommon(ctxPoints, g, f.Wavelength(), z); err != nil {
		return nil, err
	}
	if z <= 0 {
		return nil, kernelErrorf(ctxPoints, fmt.Errorf("z=%g: %w", z, ErrUnsupportedMethod))
	}
	if len(xs) != len(ys) {
		return nil, kernelErrorf(ctxPoints, fmt.Errorf("%d xs vs %d ys: %w", len(xs), len(ys), ErrInputMismatch))
	}

	k := f.WaveNumber()
	u := f.Values()
	sx, sy := g.X(), g.Y()
	area := complex(g.DX()*g.DY(), 0)
	out := make([]complex128, len(xs))
	for p := range xs {
		var acc complex128
		for iy, y := range sy {
			for ix, x := range sx {
				v := u[iy*len(sx)+ix]
				if v == 0 {
					continue
				}
				acc += v * impulse(k, xs[p]-x, ys[p]-y, z)
			}
		}
		out[p] = acc * area
	}

	return out, nil
}

// OnAxisCircle returns the exact Rayleigh–Sommerfeld on-axis field of a
// uniformly illuminated circular aperture of radius a:
// U(0,0,z) = exp(ikz) − (z/R)·exp(ikR), R = sqrt(z² + a²).
func OnAxisCircle(wavelength, radius, z float64) complex128 {
	k := 2 * math.Pi / wavelength
	r := math.Hypot(z, radius)

	return cmplx.Exp(complex(0, k*z)) - complex(z/r, 0)*cmplx.Exp(complex(0, k*r))
}

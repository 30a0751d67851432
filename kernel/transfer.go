// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveprop/grid"
)

// NewAngularSpectrum builds the exact free-space transfer function
//
//	H(fx, fy) = exp(i·2π·z·sqrt(1/λ² − fx² − fy²))
//
// on src padded by WithPadding. Evanescent frequencies (fx²+fy² > 1/λ²) are
// set to exactly 0. WithBandLimit applies the Matsushima band limit for the
// given source extent (shifted form when WithShift is set); WithShift moves
// the output window by multiplying exp(i2π(x0·fx + y0·fy)); WithOutputSampling
// evaluates the result on a lattice of a different pitch and count.
//
// Complexity: O(px·py) time and memory for the padded lattice.
func NewAngularSpectrum(src grid.Grid, wavelength, z float64, opts ...Option) (*Kernel, error) {
	if err := checkCommon(ctxAS, src, wavelength, z); err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)

	inv := 1 / (wavelength * wavelength)
	var bl band
	useBand := o.bandLimit && z != 0
	if useBand {
		bl = newBand(o, wavelength, z)
	}

	return buildFrequency(ctxAS, AngularSpectrum, src, wavelength, z, o, func(fx, fy float64) complex128 {
		arg := inv - fx*fx - fy*fy
		if arg < 0 {
			return 0
		}
		if useBand && !bl.pass(fx, fy) {
			return 0
		}

		return phase(2 * math.Pi * (z*math.Sqrt(arg) + o.shiftX*fx + o.shiftY*fy))
	})
}

// NewFresnelOneStep builds the paraxial transfer function
//
//	H(fx, fy) = exp(ikz)·exp(−iπλz(fx² + fy²))
//
// with the same pitch in and out. Honors WithPadding and WithShift; rejects
// lattices outside the paraxial limit unless WithOverride is given.
func NewFresnelOneStep(src grid.Grid, wavelength, z float64, opts ...Option) (*Kernel, error) {
	if err := checkCommon(ctxOneStep, src, wavelength, z); err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)
	o.rescale = false
	if err := checkParaxial(ctxOneStep, src, wavelength, o); err != nil {
		return nil, err
	}
	kz := 2 * math.Pi / wavelength * z

	return buildFrequency(ctxOneStep, FresnelOneStep, src, wavelength, z, o, func(fx, fy float64) complex128 {
		return phase(kz - math.Pi*wavelength*z*(fx*fx+fy*fy) + 2*math.Pi*(o.shiftX*fx+o.shiftY*fy))
	})
}

// buildFrequency samples h over FFT-ordered frequencies of the padded lattice.
func buildFrequency(tag string, m Method, src grid.Grid, wavelength, z float64, o options, h func(fx, fy float64) complex128) (*Kernel, error) {
	lattice, err := src.Padded(o.padding)
	if err != nil {
		return nil, kernelErrorf(tag, err)
	}
	x0, y0 := src.Origin()
	dst, err := src.Shifted(x0+o.shiftX, y0+o.shiftY)
	if err != nil {
		return nil, kernelErrorf(tag, err)
	}
	if o.rescale {
		dst, err = grid.New(o.outNX, o.outNY, o.outDX, o.outDY, grid.WithOrigin(x0+o.shiftX, y0+o.shiftY))
		if err != nil {
			return nil, kernelErrorf(tag, err)
		}
		if !WindowFits(lattice, dst) {
			return nil, kernelErrorf(tag, fmt.Errorf("output %v exceeds window %v: %w", dst, lattice, ErrUnsupportedMethod))
		}
	}

	fx, fy := lattice.FreqX(), lattice.FreqY()
	values := make([]complex128, lattice.Size())
	for iy, v := range fy {
		row := values[iy*len(fx) : (iy+1)*len(fx)]
		for ix, u := range fx {
			row[ix] = h(u, v)
		}
	}

	return &Kernel{
		method:     m,
		domain:     Frequency,
		wavelength: wavelength,
		z:          z,
		src:        src,
		lattice:    lattice,
		dst:        dst,
		values:     values,
		rescaled:   o.rescale,
	}, nil
}

// WindowFits reports whether the window of dst is no larger than that of
// lattice on both axes, the condition for evaluating a propagated spectrum
// on dst without periodic copies.
func WindowFits(lattice, dst grid.Grid) bool {
	lx, ly := lattice.Extent()
	dx, dy := dst.Extent()

	return dx <= lx*(1+grid.DefaultTolerance) && dy <= ly*(1+grid.DefaultTolerance)
}

// band is the rectangular pass region of the (shifted) Matsushima band limit.
type band struct {
	u0, uHalf float64
	v0, vHalf float64
}

func newBand(o options, wavelength, z float64) band {
	var b band
	b.u0, b.uHalf = bandAxis(o.sx, o.shiftX, z, wavelength)
	b.v0, b.vHalf = bandAxis(o.sy, o.shiftY, z, wavelength)

	return b
}

// bandAxis returns the pass-band center and half-width along one axis for a
// source of extent s and output offset shift (Matsushima 2010, Table 1).
func bandAxis(s, shift, z, wavelength float64) (center, half float64) {
	limit := func(edge float64) float64 {
		return math.Pow(math.Pow(edge, -2)*z*z+1, -0.5) / wavelength
	}
	lp, ln := limit(shift+s), limit(shift-s)
	switch {
	case s < shift:
		return (lp + ln) / 2, (lp - ln) / 2
	case shift <= -s:
		return -(lp + ln) / 2, (ln - lp) / 2
	default:
		return (lp - ln) / 2, (lp + ln) / 2
	}
}

func (b band) pass(fx, fy float64) bool {
	return math.Abs(fx-b.u0) <= b.uHalf && math.Abs(fy-b.v0) <= b.vHalf
}

// BandLimit reports the pass-band half-widths (fx, fy) of the unshifted
// Matsushima limit for a source of extent (sx, sy).
func BandLimit(sx, sy, wavelength, z float64) (fx, fy float64, err error) {
	if !(sx > 0 && sy > 0) || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		return 0, 0, kernelErrorf("BandLimit", fmt.Errorf("extent (%g,%g): %w", sx, sy, ErrInputMismatch))
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, 0, kernelErrorf("BandLimit", ErrInvalidDistance)
	}
	if z == 0 {
		return math.Inf(1), math.Inf(1), nil
	}
	_, fx = bandAxis(sx, 0, z, wavelength)
	_, fy = bandAxis(sy, 0, z, wavelength)

	return fx, fy, nil
}

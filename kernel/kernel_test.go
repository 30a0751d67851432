// SPDX-License-Identifier: MIT

package kernel_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/kernel"
)

const wavelength = 633e-9

func mustGrid(t *testing.T, nx, ny int, dx, dy float64, opts ...grid.Option) grid.Grid {
	t.Helper()
	g, err := grid.New(nx, ny, dx, dy, opts...)
	require.NoError(t, err)

	return g
}

// power returns Σ|u|²·dx·dy on g.
func power(g grid.Grid, u []complex128) float64 {
	in := make([]float64, len(u))
	for i, v := range u {
		in[i] = real(v)*real(v) + imag(v)*imag(v)
	}

	return floats.Sum(in) * g.DX() * g.DY()
}

// gaussian samples exp(−r²/w0²) on g.
func gaussian(g grid.Grid, w0 float64) []complex128 {
	xs, ys := g.X(), g.Y()
	out := make([]complex128, g.Size())
	for iy, y := range ys {
		for ix, x := range xs {
			out[iy*len(xs)+ix] = complex(math.Exp(-(x*x+y*y)/(w0*w0)), 0)
		}
	}

	return out
}

func TestParseMethod(t *testing.T) {
	for _, m := range []kernel.Method{
		kernel.Auto, kernel.AngularSpectrum, kernel.FresnelOneStep,
		kernel.FresnelTwoStep, kernel.Fraunhofer, kernel.DirectIntegration,
	} {
		got, err := kernel.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := kernel.ParseMethod(" Fresnel_One_Step ")
	require.NoError(t, err)
	assert.Equal(t, kernel.FresnelOneStep, got)

	got, err = kernel.ParseMethod("AS")
	require.NoError(t, err)
	assert.Equal(t, kernel.AngularSpectrum, got)

	_, err = kernel.ParseMethod("huygens")
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod)
	assert.Equal(t, "Method(42)", kernel.Method(42).String())
}

// TestAngularSpectrum_Evanescent checks that frequencies beyond 1/λ are
// exactly zero and every propagating sample has unit magnitude.
func TestAngularSpectrum_Evanescent(t *testing.T) {
	g := mustGrid(t, 32, 32, 0.2e-6, 0.2e-6)
	k, err := kernel.NewAngularSpectrum(g, wavelength, 5e-6)
	require.NoError(t, err)
	assert.Equal(t, kernel.Frequency, k.Domain())

	fx, fy := g.FreqX(), g.FreqY()
	h := k.Values()
	var evanescent int
	for iy, v := range fy {
		for ix, u := range fx {
			val := h[iy*len(fx)+ix]
			if u*u+v*v > 1/(wavelength*wavelength) {
				evanescent++
				assert.Equal(t, complex(0, 0), val)
				continue
			}
			assert.InDelta(t, 1.0, cmplx.Abs(val), 1e-12)
		}
	}
	assert.Positive(t, evanescent)
}

// TestAngularSpectrum_BandLimit checks that samples outside the Matsushima
// pass band are removed.
func TestAngularSpectrum_BandLimit(t *testing.T) {
	g := mustGrid(t, 64, 64, 10e-6, 10e-6)
	lx, ly := g.Extent()
	z := 0.5
	k, err := kernel.NewAngularSpectrum(g, wavelength, z, kernel.WithBandLimit(lx, ly))
	require.NoError(t, err)

	bx, by, err := kernel.BandLimit(lx, ly, wavelength, z)
	require.NoError(t, err)
	require.Less(t, bx, 1/(2*g.DX()), "band limit must bite for this geometry")

	fx, fy := g.FreqX(), g.FreqY()
	h := k.Values()
	for iy, v := range fy {
		for ix, u := range fx {
			inside := math.Abs(u) <= bx && math.Abs(v) <= by
			assert.Equal(t, inside, h[iy*len(fx)+ix] != 0, "f=(%g,%g)", u, v)
		}
	}
}

// TestAngularSpectrum_ZeroDistance is the identity on a band-limited field.
func TestAngularSpectrum_ZeroDistance(t *testing.T) {
	g := mustGrid(t, 16, 16, 10e-6, 10e-6)
	k, err := kernel.NewAngularSpectrum(g, wavelength, 0, kernel.WithPadding(2))
	require.NoError(t, err)
	assert.Equal(t, 32, k.Lattice().NX())

	u := gaussian(g, 30e-6)
	out, err := k.Apply(u)
	require.NoError(t, err)
	for i := range u {
		assert.InDelta(t, 0, cmplx.Abs(out[i]-u[i]), 1e-12)
	}
}

// TestAngularSpectrum_Shift moves the output window.
func TestAngularSpectrum_Shift(t *testing.T) {
	g := mustGrid(t, 16, 16, 10e-6, 10e-6)
	k, err := kernel.NewAngularSpectrum(g, wavelength, 0, kernel.WithShift(20e-6, 0))
	require.NoError(t, err)
	x0, y0 := k.Destination().Origin()
	assert.InDelta(t, 20e-6, x0, 1e-18)
	assert.Equal(t, 0.0, y0)

	// A two-sample shift at z = 0 is a circular roll by two samples.
	u := gaussian(g, 30e-6)
	out, err := k.Apply(u)
	require.NoError(t, err)
	for iy := 0; iy < 16; iy++ {
		for ix := 0; ix < 14; ix++ {
			assert.InDelta(t, 0, cmplx.Abs(out[iy*16+ix]-u[iy*16+ix+2]), 1e-9)
		}
	}
}

// TestAngularSpectrum_OutputSampling checks the rescaled evaluation against
// the standard kernel where output samples coincide, and its window guard.
func TestAngularSpectrum_OutputSampling(t *testing.T) {
	g := mustGrid(t, 32, 32, 10e-6, 10e-6)
	const z = 2e-3
	u := gaussian(g, 40e-6)
	std, err := kernel.NewAngularSpectrum(g, wavelength, z, kernel.WithPadding(2))
	require.NoError(t, err)
	ref, err := std.Apply(u)
	require.NoError(t, err)

	same, err := kernel.NewAngularSpectrum(g, wavelength, z, kernel.WithPadding(2),
		kernel.WithOutputSampling(10e-6, 10e-6, 32, 32))
	require.NoError(t, err)
	got, err := same.Apply(u)
	require.NoError(t, err)
	for i := range ref {
		assert.InDelta(t, 0, cmplx.Abs(got[i]-ref[i]), 1e-10, "sample %d", i)
	}

	coarse, err := kernel.NewAngularSpectrum(g, wavelength, z, kernel.WithPadding(2),
		kernel.WithOutputSampling(20e-6, 20e-6, 16, 16))
	require.NoError(t, err)
	assert.True(t, coarse.Destination().Equal(mustGrid(t, 16, 16, 20e-6, 20e-6), 1e-12))
	got, err = coarse.Apply(u)
	require.NoError(t, err)
	for iy := 0; iy < 16; iy++ {
		for ix := 0; ix < 16; ix++ {
			want := ref[(2*iy)*32+2*ix]
			assert.InDelta(t, 0, cmplx.Abs(got[iy*16+ix]-want), 1e-10, "(%d,%d)", ix, iy)
		}
	}

	_, err = kernel.NewAngularSpectrum(g, wavelength, z, kernel.WithOutputSampling(20e-6, 20e-6, 32, 32))
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "output window larger than the unpadded source")
	assert.Panics(t, func() { kernel.WithOutputSampling(0, 1e-6, 4, 4) })
}

func TestParaxialGuard(t *testing.T) {
	fine := mustGrid(t, 16, 16, 0.5e-6, 0.5e-6)
	assert.InDelta(t, 0.633, kernel.ParaxialAngle(fine, wavelength), 1e-12)

	_, err := kernel.NewFresnelOneStep(fine, wavelength, 1e-3)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod)
	_, err = kernel.NewFraunhofer(fine, wavelength, 1)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod)

	_, err = kernel.NewFresnelOneStep(fine, wavelength, 1e-3, kernel.WithOverride())
	assert.NoError(t, err)
	_, err = kernel.NewFresnelOneStep(fine, wavelength, 1e-3, kernel.WithParaxialLimit(0.7))
	assert.NoError(t, err)
}

func TestBuilderGuards(t *testing.T) {
	g := mustGrid(t, 8, 8, 10e-6, 10e-6)

	_, err := kernel.NewAngularSpectrum(g, 0, 1)
	assert.ErrorIs(t, err, field.ErrInvalidWavelength)
	_, err = kernel.NewAngularSpectrum(g, wavelength, math.NaN())
	assert.ErrorIs(t, err, kernel.ErrInvalidDistance)
	_, err = kernel.NewAngularSpectrum(grid.Grid{}, wavelength, 1)
	assert.ErrorIs(t, err, field.ErrInvalidGrid)

	for _, z := range []float64{0, -1} {
		_, err = kernel.NewFraunhofer(g, wavelength, z)
		assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "fraunhofer z=%g", z)
		_, err = kernel.NewRayleighSommerfeld(g, g, wavelength, z)
		assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "rs z=%g", z)
	}

	coarse := mustGrid(t, 8, 8, 20e-6, 20e-6)
	_, err = kernel.NewRayleighSommerfeld(g, coarse, wavelength, 1)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod)

	_, err = kernel.NewFresnelTwoStep(g, 10e-6, 10e-6, wavelength, 1)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "unit magnification")
	_, err = kernel.NewFresnelTwoStep(g, 20e-6, 30e-6, wavelength, 1)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "anisotropic magnification")
	_, err = kernel.NewFresnelTwoStep(g, 20e-6, 20e-6, wavelength, 0)
	assert.ErrorIs(t, err, kernel.ErrUnsupportedMethod, "zero distance")

	k, err := kernel.NewAngularSpectrum(g, wavelength, 1)
	require.NoError(t, err)
	_, err = k.Apply(make([]complex128, 3))
	assert.ErrorIs(t, err, kernel.ErrInputMismatch)
}

// TestFraunhoferGrid_PitchLaw checks the far-field pitch λz/(n·d) exactly.
func TestFraunhoferGrid_PitchLaw(t *testing.T) {
	g := mustGrid(t, 128, 64, 20e-6, 25e-6, grid.WithOrigin(1e-3, 0))
	z := 3.7
	k, err := kernel.NewFraunhofer(g, wavelength, z)
	require.NoError(t, err)

	dst := k.Destination()
	assert.Equal(t, wavelength*z/(128*20e-6), dst.DX())
	assert.Equal(t, wavelength*z/(64*25e-6), dst.DY())
	assert.Equal(t, g.NX(), dst.NX())
	x0, _ := dst.Origin()
	assert.Equal(t, 1e-3, x0)
}

// TestClosedForm_EnergyConservation checks Parseval through the closed-form
// kernels.
func TestClosedForm_EnergyConservation(t *testing.T) {
	g := mustGrid(t, 128, 128, 20e-6, 20e-6)
	u := gaussian(g, 0.3e-3)
	p0 := power(g, u)

	far, err := kernel.NewFraunhofer(g, wavelength, 50)
	require.NoError(t, err)
	out, err := far.Apply(u)
	require.NoError(t, err)
	assert.InDelta(t, p0, power(far.Destination(), out), 1e-9*p0)

	for _, m := range []float64{0.5, 2, 3} {
		two, err := kernel.NewFresnelTwoStep(g, m*g.DX(), m*g.DY(), wavelength, 0.1)
		require.NoError(t, err)
		out, err = two.Apply(u)
		require.NoError(t, err)
		assert.InDelta(t, p0, power(two.Destination(), out), 1e-9*p0, "m=%g", m)
	}
}

func TestTwoStepPlanes(t *testing.T) {
	g := mustGrid(t, 256, 256, 20e-6, 20e-6)
	ts, err := kernel.TwoStepPlanes(g, 40e-6, 40e-6, wavelength, 0.3)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, ts.Magnification, 1e-12)
	assert.InDelta(t, -0.3, ts.Z1, 1e-12)
	assert.InDelta(t, 0.6, ts.Z2, 1e-12)
	assert.InDelta(t, wavelength*0.3/(256*20e-6), ts.Intermediate.DX(), 1e-18)
	assert.InDelta(t, 40e-6, ts.Destination.DX(), 1e-18)

	k, err := kernel.NewFresnelTwoStep(g, 40e-6, 40e-6, wavelength, 0.3)
	require.NoError(t, err)
	mid, ok := k.Intermediate()
	assert.True(t, ok)
	assert.True(t, mid.Equal(ts.Intermediate, 1e-12))
}

func TestSimpson(t *testing.T) {
	assert.Nil(t, kernel.Simpson(0))
	assert.Equal(t, []float64{1}, kernel.Simpson(1))
	assert.Equal(t, []float64{0.5, 0.5}, kernel.Simpson(2))
	assert.InDeltaSlice(t, []float64{1.0 / 3, 4.0 / 3, 2.0 / 3, 4.0 / 3, 1.0 / 3}, kernel.Simpson(5), 1e-15)

	// Weights integrate constants exactly over n−1 intervals.
	for _, n := range []int{3, 4, 7, 10, 11} {
		assert.InDelta(t, float64(n-1), floats.Sum(kernel.Simpson(n)), 1e-12, "n=%d", n)
	}
	// Simpson integrates x² exactly on [0, 1].
	w := kernel.Simpson(11)
	var acc float64
	for i, wi := range w {
		x := float64(i) / 10
		acc += wi * x * x / 10
	}
	assert.InDelta(t, 1.0/3, acc, 1e-14)
}

// TestRayleighSommerfeld_MatchesBruteForce compares the FFT convolution with
// the point-by-point sum on an offset, differently sized output window.
func TestRayleighSommerfeld_MatchesBruteForce(t *testing.T) {
	src := mustGrid(t, 15, 12, 8e-6, 8e-6)
	dst := mustGrid(t, 9, 11, 8e-6, 8e-6, grid.WithOrigin(24e-6, -16e-6))
	f, err := field.FromFunc(src, wavelength, func(x, y float64) complex128 {
		return complex(1+x*1e4, y*2e4) * cmplx.Exp(complex(0, x*3e4))
	})
	require.NoError(t, err)
	z := 2e-3

	k, err := kernel.NewRayleighSommerfeld(src, dst, wavelength, z)
	require.NoError(t, err)
	assert.Equal(t, kernel.Spatial, k.Domain())
	assert.Equal(t, 9+15-1, k.Lattice().NX())
	assert.Equal(t, 11+12-1, k.Lattice().NY())

	got, err := k.Apply(f.Values())
	require.NoError(t, err)

	xs, ys := make([]float64, 0, dst.Size()), make([]float64, 0, dst.Size())
	for _, y := range dst.Y() {
		for _, x := range dst.X() {
			xs, ys = append(xs, x), append(ys, y)
		}
	}
	want, err := kernel.DirectPoints(f, z, xs, ys)
	require.NoError(t, err)

	var scale float64
	for _, v := range want {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	for i := range want {
		assert.InDelta(t, 0, cmplx.Abs(got[i]-want[i]), 1e-9*scale, "sample %d", i)
	}

	_, err = kernel.DirectPoints(f, z, xs, ys[:1])
	assert.ErrorIs(t, err, kernel.ErrInputMismatch)
}

func TestOnAxisCircle(t *testing.T) {
	// At N_F = a²/(λz) = 1 the on-axis amplitude peaks near 2.
	a := 1e-3
	z := a * a / wavelength
	i := cmplx.Abs(kernel.OnAxisCircle(wavelength, a, z))
	assert.InDelta(t, 2.0, i, 1e-3)
}

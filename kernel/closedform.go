// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/katalvlaran/waveprop/grid"
)

// unitMagnificationTol is how close to 1 a two-step magnification may get
// before the first plane moves to infinity.
const unitMagnificationTol = 1e-9

// FraunhoferGrid returns the far-field lattice of src at distance z: same
// counts and origin, pitch λz/(n·d) per axis. z ≤ 0 returns ErrUnsupportedMethod.
func FraunhoferGrid(src grid.Grid, wavelength, z float64) (grid.Grid, error) {
	if err := checkCommon(ctxFraunDst, src, wavelength, z); err != nil {
		return grid.Grid{}, err
	}
	if z <= 0 {
		return grid.Grid{}, kernelErrorf(ctxFraunDst, fmt.Errorf("z=%g: %w", z, ErrUnsupportedMethod))
	}
	x0, y0 := src.Origin()
	dx := wavelength * z / (float64(src.NX()) * src.DX())
	dy := wavelength * z / (float64(src.NY()) * src.DY())
	dst, err := grid.New(src.NX(), src.NY(), dx, dy, grid.WithOrigin(x0, y0))
	if err != nil {
		return grid.Grid{}, kernelErrorf(ctxFraunDst, err)
	}

	return dst, nil
}

// NewFraunhofer builds the far-field closed form
//
//	U(x, y) = exp(ikz)·exp(ik(x²+y²)/(2z))/(iλz) · F[u](x/(λz), y/(λz))
//
// with output pitch λz/(n·d). The map is lossy (no inverse); z ≤ 0 returns
// ErrUnsupportedMethod.
func NewFraunhofer(src grid.Grid, wavelength, z float64, opts ...Option) (*Kernel, error) {
	dst, err := FraunhoferGrid(src, wavelength, z)
	if err != nil {
		return nil, kernelErrorf(ctxFraun, err)
	}
	o := gatherOptions(opts...)
	if err = checkParaxial(ctxFraun, src, wavelength, o); err != nil {
		return nil, err
	}
	k := 2 * math.Pi / wavelength

	return &Kernel{
		method:     Fraunhofer,
		domain:     ClosedForm,
		wavelength: wavelength,
		z:          z,
		src:        src,
		lattice:    dst,
		dst:        dst,
		values:     chirp(dst, k, z, 1/z, fresnelAmp(wavelength, z)),
	}, nil
}

// TwoStep describes the planes of a two-step Fresnel propagation.
type TwoStep struct {
	Magnification float64   // m = dx2/dx
	Z1, Z2        float64   // z1 = z/(1−m), z2 = z − z1
	Intermediate  grid.Grid // pitch λ|z1|/(n·dx), same counts and origin as the source
	Destination   grid.Grid // pitch m·dx
}

// TwoStepPlanes resolves the intermediate plane for propagating src by z onto
// pitch (dx2, dy2). Unit magnification, unequal per-axis magnification and
// z == 0 return ErrUnsupportedMethod.
func TwoStepPlanes(src grid.Grid, dx2, dy2, wavelength, z float64) (TwoStep, error) {
	if err := checkCommon(ctxTwoStep, src, wavelength, z); err != nil {
		return TwoStep{}, err
	}
	if !(dx2 > 0 && dy2 > 0) || math.IsInf(dx2, 0) || math.IsInf(dy2, 0) {
		return TwoStep{}, kernelErrorf(ctxTwoStep, fmt.Errorf("destination pitch (%g,%g): %w", dx2, dy2, ErrUnsupportedMethod))
	}
	if z == 0 {
		return TwoStep{}, kernelErrorf(ctxTwoStep, fmt.Errorf("z=0: %w", ErrUnsupportedMethod))
	}
	mx, my := dx2/src.DX(), dy2/src.DY()
	if !scalar.EqualWithinRel(mx, my, grid.DefaultTolerance) {
		return TwoStep{}, kernelErrorf(ctxTwoStep, fmt.Errorf("magnification %g≠%g: %w", mx, my, ErrUnsupportedMethod))
	}
	if math.Abs(1-mx) < unitMagnificationTol {
		return TwoStep{}, kernelErrorf(ctxTwoStep, fmt.Errorf("unit magnification: %w", ErrUnsupportedMethod))
	}

	z1 := z / (1 - mx)
	x0, y0 := src.Origin()
	d1x := wavelength * math.Abs(z1) / (float64(src.NX()) * src.DX())
	d1y := wavelength * math.Abs(z1) / (float64(src.NY()) * src.DY())
	mid, err := grid.New(src.NX(), src.NY(), d1x, d1y, grid.WithOrigin(x0, y0))
	if err != nil {
		return TwoStep{}, kernelErrorf(ctxTwoStep, err)
	}
	dst, err := grid.New(src.NX(), src.NY(), dx2, dy2, grid.WithOrigin(x0, y0))
	if err != nil {
		return TwoStep{}, kernelErrorf(ctxTwoStep, err)
	}

	return TwoStep{Magnification: mx, Z1: z1, Z2: z - z1, Intermediate: mid, Destination: dst}, nil
}

// NewFresnelTwoStep builds a magnifying Fresnel propagation from src onto pitch
// (dx2, dy2).
// Stage 1: chirp exp(ik r²/(2z1)) on the source, centered transform to the
// intermediate plane at z1.
// Stage 2: factor exp(ikz1)/(iλz1)·exp(ik r²/(2z1))·exp(ik r²/(2z2)), centered
// transform to the destination at z2 = z − z1.
// Stage 3: factor exp(ikz2)/(iλz2)·exp(ik r²/(2z2)).
// Negative z1 or z2 reverse the transformed axis. Energy is conserved exactly.
func NewFresnelTwoStep(src grid.Grid, dx2, dy2, wavelength, z float64, opts ...Option) (*Kernel, error) {
	ts, err := TwoStepPlanes(src, dx2, dy2, wavelength, z)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts...)
	if err = checkParaxial(ctxTwoStep, src, wavelength, o); err != nil {
		return nil, err
	}
	k := 2 * math.Pi / wavelength

	pre := chirp(src, k, 0, 1/ts.Z1, 1)
	midFactor := chirp(ts.Intermediate, k, ts.Z1, 1/ts.Z1+1/ts.Z2, fresnelAmp(wavelength, ts.Z1))

	return &Kernel{
		method:     FresnelTwoStep,
		domain:     ClosedForm,
		wavelength: wavelength,
		z:          z,
		src:        src,
		lattice:    ts.Destination,
		dst:        ts.Destination,
		values:     chirp(ts.Destination, k, ts.Z2, 1/ts.Z2, fresnelAmp(wavelength, ts.Z2)),
		pre:        pre,
		mid:        ts.Intermediate,
		midFactor:  midFactor,
		flip1:      ts.Z1 < 0,
		flip2:      ts.Z2 < 0,
	}, nil
}

// fresnelAmp returns the Fresnel prefactor 1/(iλz).
func fresnelAmp(wavelength, z float64) complex128 {
	return complex(0, -1/(wavelength*z))
}

// chirp samples amp·exp(ik·piston)·exp(ik·curv·r²/2) on g, r measured from
// the grid origin.
func chirp(g grid.Grid, k, piston, curv float64, amp complex128) []complex128 {
	x0, y0 := g.Origin()
	xs, ys := g.X(), g.Y()
	out := make([]complex128, g.Size())
	for iy, y := range ys {
		for ix, x := range xs {
			r2 := (x-x0)*(x-x0) + (y-y0)*(y-y0)
			out[iy*len(xs)+ix] = amp * phase(k*piston+k*curv*r2/2)
		}
	}

	return out
}

// SPDX-License-Identifier: MIT

// Package kernel - propagation kernels for scalar free-space diffraction.
//
// Purpose:
//   - Build the transfer function, impulse response or closed-form factors of
//     each propagation method for a given source lattice, wavelength and
//     distance.
//   - Apply a built kernel to a row-major field buffer (Apply).
//
// Domains:
//   - Frequency (AngularSpectrum, FresnelOneStep): values are H(fx, fy) in FFT
//     order on the (optionally padded) source lattice. Apply pads, transforms,
//     multiplies, inverts and crops, or evaluates the spectrum on a rescaled
//     output lattice with two chirp-z transforms.
//   - ClosedForm (Fraunhofer, FresnelTwoStep): phase factors around centered
//     Fourier transforms; the output lattice has a different pitch.
//   - Spatial (RayleighSommerfeld): the impulse response sampled on the
//     (n_out+n−1) lattice of the FFT direct-integration method.
//
// Kernels are immutable after construction and safe to share between
// goroutines; the propagator caches them.
package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
)

const (
	ctxAS       = "AngularSpectrum"
	ctxOneStep  = "FresnelOneStep"
	ctxTwoStep  = "FresnelTwoStep"
	ctxFraun    = "Fraunhofer"
	ctxRS       = "RayleighSommerfeld"
	ctxPoints   = "DirectPoints"
	ctxApply    = "Apply"
	ctxFraunDst = "FraunhoferGrid"
)

// Kernel is a built propagation operator. Construct with one of the builders.
type Kernel struct {
	method     Method
	domain     Domain
	wavelength float64
	z          float64

	src     grid.Grid // input lattice
	lattice grid.Grid // lattice the values live on
	dst     grid.Grid // output lattice

	values []complex128 // H, h or the output factor, depending on domain

	rescaled bool // frequency kernels evaluated on a dst of another pitch or count

	// two-step only
	pre       []complex128 // input chirp on src
	mid       grid.Grid    // intermediate plane
	midFactor []complex128
	flip1     bool // z1 < 0
	flip2     bool // z2 < 0

	// direct integration only
	spectrum []complex128 // DFT of values
	wx, wy   []float64    // nil when Simpson weighting is off
}

var _ fmt.Stringer = (*Kernel)(nil)

// Method returns the algorithm the kernel implements.
func (k *Kernel) Method() Method { return k.method }

// Domain returns where the kernel's values live.
func (k *Kernel) Domain() Domain { return k.domain }

// Wavelength returns λ in meters.
func (k *Kernel) Wavelength() float64 { return k.wavelength }

// Distance returns the propagation distance z.
func (k *Kernel) Distance() float64 { return k.z }

// Source returns the lattice Apply expects its input on.
func (k *Kernel) Source() grid.Grid { return k.src }

// Lattice returns the lattice the kernel values are sampled on.
func (k *Kernel) Lattice() grid.Grid { return k.lattice }

// Destination returns the lattice Apply produces.
func (k *Kernel) Destination() grid.Grid { return k.dst }

// Intermediate returns the intermediate plane of a two-step kernel and false
// for every other method.
func (k *Kernel) Intermediate() (grid.Grid, bool) {
	return k.mid, k.method == FresnelTwoStep
}

// Values returns a copy of the kernel samples, row-major on Lattice().
func (k *Kernel) Values() []complex128 {
	out := make([]complex128, len(k.values))
	copy(out, k.values)

	return out
}

// String implements fmt.Stringer.
func (k *Kernel) String() string {
	return fmt.Sprintf("Kernel{%v, %v, λ=%g, z=%g, %v -> %v}", k.method, k.domain, k.wavelength, k.z, k.src, k.dst)
}

// checkCommon validates the arguments every builder shares.
func checkCommon(tag string, g grid.Grid, wavelength, z float64) error {
	if err := field.ValidateGrid(g); err != nil {
		return kernelErrorf(tag, err)
	}
	if err := field.ValidateWavelength(wavelength); err != nil {
		return kernelErrorf(tag, err)
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return kernelErrorf(tag, fmt.Errorf("z=%g: %w", z, ErrInvalidDistance))
	}

	return nil
}

// ParaxialAngle returns the largest sampled propagation angle λ/(2·min(dx,dy)).
func ParaxialAngle(g grid.Grid, wavelength float64) float64 {
	return wavelength / (2 * math.Min(g.DX(), g.DY()))
}

// checkParaxial rejects lattices whose sampled angles exceed the limit.
func checkParaxial(tag string, g grid.Grid, wavelength float64, o options) error {
	if o.override {
		return nil
	}
	if a := ParaxialAngle(g, wavelength); a > o.paraxialLimit {
		return kernelErrorf(tag, fmt.Errorf("sampled angle %.3g exceeds paraxial limit %.3g: %w", a, o.paraxialLimit, ErrUnsupportedMethod))
	}

	return nil
}

// phase returns exp(iθ).
func phase(theta float64) complex128 {
	s, c := math.Sincos(theta)

	return complex(c, s)
}

// SPDX-License-Identifier: MIT

// Package field - immutable sampled complex scalar field.
//
// Purpose:
//   - Hold one complex amplitude per grid sample in a flat row-major buffer
//     (offset = iy·nx + ix), together with the wavelength and axial position.
//   - Guarantee safety at the public surface: At returns errors, accessors
//     return copies, and no method mutates the receiver.
//
// Complexity quicksheet:
//   - New/NewFlat/FromFunc: O(nx·ny); At: O(1); Values/Rows: O(nx·ny) copy.
//   - Power/Intensity/Normalize/SupportHalfWidth: O(nx·ny).
package field

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/waveprop/grid"
)

const (
	ctxNew       = "New"
	ctxNewFlat   = "NewFlat"
	ctxFromFunc  = "FromFunc"
	ctxAt        = "At"
	ctxNormalize = "Normalize"
	ctxDiff      = "MaxAbsDiff"
	ctxResample  = "Resample"
)

// Field is a complex amplitude sampled on a Grid at one wavelength and axial
// position. Values are shared freely between Fields because nothing writes to
// them after construction.
type Field struct {
	g          grid.Grid
	wavelength float64
	z          float64
	data       []complex128 // len == g.Size(), row-major
}

var _ fmt.Stringer = (*Field)(nil)

// New builds a Field from a ny×nx array (values[iy][ix]).
// Stage 1: validate grid, wavelength and shape.
// Stage 2: copy rows into a flat buffer and reject NaN/Inf.
func New(values [][]complex128, g grid.Grid, wavelength float64, opts ...Option) (*Field, error) {
	if err := ValidateGrid(g); err != nil {
		return nil, fieldErrorf(ctxNew, err)
	}
	if err := ValidateRows(values, g); err != nil {
		return nil, fieldErrorf(ctxNew, fmt.Errorf("%d rows for %v: %w", len(values), g, err))
	}
	nx := g.NX()
	data := make([]complex128, g.Size())
	for iy, row := range values {
		copy(data[iy*nx:(iy+1)*nx], row)
	}

	return build(ctxNew, data, g, wavelength, opts...)
}

// NewFlat builds a Field from a row-major buffer of length nx·ny. The buffer is copied.
func NewFlat(data []complex128, g grid.Grid, wavelength float64, opts ...Option) (*Field, error) {
	if err := ValidateGrid(g); err != nil {
		return nil, fieldErrorf(ctxNewFlat, err)
	}
	if err := ValidateFlat(data, g); err != nil {
		return nil, fieldErrorf(ctxNewFlat, fmt.Errorf("len %d for %v: %w", len(data), g, err))
	}
	buf := make([]complex128, len(data))
	copy(buf, data)

	return build(ctxNewFlat, buf, g, wavelength, opts...)
}

// FromFunc samples fn(x, y) at every grid coordinate.
func FromFunc(g grid.Grid, wavelength float64, fn func(x, y float64) complex128, opts ...Option) (*Field, error) {
	if err := ValidateGrid(g); err != nil {
		return nil, fieldErrorf(ctxFromFunc, err)
	}
	xs, ys := g.X(), g.Y()
	data := make([]complex128, g.Size())
	for iy, y := range ys {
		base := iy * len(xs)
		for ix, x := range xs {
			data[base+ix] = fn(x, y)
		}
	}

	return build(ctxFromFunc, data, g, wavelength, opts...)
}

// build takes ownership of data after the shared wavelength/finite checks.
func build(tag string, data []complex128, g grid.Grid, wavelength float64, opts ...Option) (*Field, error) {
	if err := ValidateWavelength(wavelength); err != nil {
		return nil, fieldErrorf(tag, err)
	}
	o := gatherOptions(opts...)
	if math.IsNaN(o.z) || math.IsInf(o.z, 0) {
		return nil, fieldErrorf(tag, ErrNonFinite)
	}
	if err := ValidateFinite(data); err != nil {
		return nil, fieldErrorf(tag, err)
	}

	return &Field{g: g, wavelength: wavelength, z: o.z, data: data}, nil
}

// Grid returns the lattice the field is sampled on.
func (f *Field) Grid() grid.Grid { return f.g }

// Wavelength returns the vacuum wavelength in meters.
func (f *Field) Wavelength() float64 { return f.wavelength }

// WaveNumber returns k = 2π/λ.
func (f *Field) WaveNumber() float64 { return 2 * math.Pi / f.wavelength }

// Position returns the axial position z.
func (f *Field) Position() float64 { return f.z }

// At returns the sample at column ix, row iy.
func (f *Field) At(ix, iy int) (complex128, error) {
	if ix < 0 || ix >= f.g.NX() || iy < 0 || iy >= f.g.NY() {
		return 0, fmt.Errorf("Field.%s(%d,%d): %w", ctxAt, ix, iy, ErrOutOfRange)
	}

	return f.data[iy*f.g.NX()+ix], nil
}

// Center returns the sample on the optical axis (index ⌊n/2⌋ on both axes).
func (f *Field) Center() complex128 {
	cx, cy := f.g.Center()

	return f.data[cy*f.g.NX()+cx]
}

// Values returns a copy of the row-major buffer.
func (f *Field) Values() []complex128 {
	out := make([]complex128, len(f.data))
	copy(out, f.data)

	return out
}

// Rows returns a copy of the samples as a ny×nx array.
func (f *Field) Rows() [][]complex128 {
	ny, nx := f.g.Shape()
	out := make([][]complex128, ny)
	for iy := range out {
		out[iy] = make([]complex128, nx)
		copy(out[iy], f.data[iy*nx:(iy+1)*nx])
	}

	return out
}

// AtPosition returns the same samples re-labelled with axial position z.
func (f *Field) AtPosition(z float64) *Field {
	return &Field{g: f.g, wavelength: f.wavelength, z: z, data: f.data}
}

// Intensity returns |u|² per sample, row-major.
func (f *Field) Intensity() []float64 {
	out := make([]float64, len(f.data))
	for i, v := range f.data {
		out[i] = real(v)*real(v) + imag(v)*imag(v)
	}

	return out
}

// Amplitude returns |u| per sample, row-major.
func (f *Field) Amplitude() []float64 {
	out := make([]float64, len(f.data))
	for i, v := range f.data {
		out[i] = cmplx.Abs(v)
	}

	return out
}

// Phase returns arg(u) per sample, row-major.
func (f *Field) Phase() []float64 {
	out := make([]float64, len(f.data))
	for i, v := range f.data {
		out[i] = cmplx.Phase(v)
	}

	return out
}

// Power returns the discrete power integral Σ|u|²·dx·dy.
func (f *Field) Power() float64 {
	return floats.Sum(f.Intensity()) * f.g.DX() * f.g.DY()
}

// PeakIntensity returns max |u|².
func (f *Field) PeakIntensity() float64 {
	return floats.Max(f.Intensity())
}

// Normalize returns a copy scaled so that Power() == 1.
// Returns ErrZeroEnergy for an all-zero field.
func (f *Field) Normalize() (*Field, error) {
	p := f.Power()
	if p == 0 {
		return nil, fieldErrorf(ctxNormalize, ErrZeroEnergy)
	}
	out := f.Values()
	cmplxs.Scale(complex(1/math.Sqrt(p), 0), out)

	return &Field{g: f.g, wavelength: f.wavelength, z: f.z, data: out}, nil
}

// SupportHalfWidth estimates the characteristic aperture half-width: the
// largest Chebyshev distance max(|x−x0|, |y−y0|) from the grid origin over
// samples whose intensity exceeds threshold·max. Returns 0 for a zero field.
func (f *Field) SupportHalfWidth(threshold float64) float64 {
	in := f.Intensity()
	peak := floats.Max(in)
	if peak == 0 {
		return 0
	}
	cut := threshold * peak
	x0, y0 := f.g.Origin()
	xs, ys := f.g.X(), f.g.Y()
	nx := len(xs)
	var a float64
	for iy, y := range ys {
		for ix, x := range xs {
			if in[iy*nx+ix] <= cut {
				continue
			}
			a = math.Max(a, math.Max(math.Abs(x-x0), math.Abs(y-y0)))
		}
	}

	return a
}

// MaxAbsDiff returns max |a−b| over all samples. Both fields must share a grid.
func MaxAbsDiff(a, b *Field) (float64, error) {
	if err := ValidateSameGrid(a, b, grid.DefaultTolerance); err != nil {
		return 0, fieldErrorf(ctxDiff, err)
	}
	var m float64
	for i := range a.data {
		m = math.Max(m, cmplx.Abs(a.data[i]-b.data[i]))
	}

	return m, nil
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	return fmt.Sprintf("Field{%v, λ=%g, z=%g}", f.g, f.wavelength, f.z)
}

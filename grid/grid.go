// SPDX-License-Identifier: MIT

// Package grid - immutable rectangular sample lattice.
//
// Purpose:
//   - Describe where a field is sampled: counts (nx, ny), pitch (dx, dy) and
//     the physical position of the optical-axis sample.
//   - Provide derived quantities shared by every propagation method: extent,
//     spatial-frequency spacing, centered coordinates and FFT-ordered
//     frequencies.
//
// Conventions:
//   - Sample i along x sits at x_i = (i − ⌊nx/2⌋)·dx + x0. Index ⌊n/2⌋ is the
//     axis, which matches fftshift ordering for both even and odd n.
//   - Frequencies returned by FreqX/FreqY follow FFT order (0, +, …, −).
//
// Complexity quicksheet:
//   - Constructors and scalar accessors: O(1).
//   - X/Y/FreqX/FreqY: O(n) allocation per call.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	ctxNew    = "New"
	ctxExtent = "FromExtent"
	ctxBuild  = "Build"
	ctxCount  = "WithCount"
	ctxPitch  = "WithPitch"
	ctxShift  = "Shifted"
	ctxPad    = "Padded"
)

// Grid is an immutable rectangular lattice. The zero value is not a valid
// Grid; use New, FromExtent or Build.
type Grid struct {
	nx, ny int     // sample counts (> 0)
	dx, dy float64 // pitch in meters (> 0, finite)
	x0, y0 float64 // position of the axis sample
}

// New constructs a Grid from counts and pitch.
// Returns ErrInvalidGrid when a count or pitch is non-positive or non-finite.
func New(nx, ny int, dx, dy float64, opts ...Option) (Grid, error) {
	o := gatherOptions(opts...)
	g, err := resolve(ctxNew, nx, ny, dx, dy, o.x0, o.y0)
	if err != nil {
		return Grid{}, err
	}

	return g, nil
}

// FromExtent constructs a Grid from counts and total window size; pitch is lx/nx, ly/ny.
func FromExtent(nx, ny int, lx, ly float64, opts ...Option) (Grid, error) {
	return Build(append(opts, WithCount(nx, ny), WithExtent(lx, ly))...)
}

// Build constructs a Grid from any two (or all three) of count, pitch and extent.
// Stage 1: require at least two of the three descriptions.
// Stage 2: derive the missing one.
// Stage 3: when all three are present, check |n·d − L| ≤ tol·L per axis.
func Build(opts ...Option) (Grid, error) {
	o := gatherOptions(opts...)

	switch {
	case o.hasCount && o.hasPitch:
		if o.hasExtent {
			if err := checkConsistent(o.nx, o.dx, o.lx, o.tol, "x"); err != nil {
				return Grid{}, err
			}
			if err := checkConsistent(o.ny, o.dy, o.ly, o.tol, "y"); err != nil {
				return Grid{}, err
			}
		}
		return resolve(ctxBuild, o.nx, o.ny, o.dx, o.dy, o.x0, o.y0)

	case o.hasCount && o.hasExtent:
		if o.nx <= 0 || o.ny <= 0 {
			return Grid{}, gridErrorf(ctxBuild, "counts must be > 0", ErrInvalidGrid)
		}
		return resolve(ctxBuild, o.nx, o.ny, o.lx/float64(o.nx), o.ly/float64(o.ny), o.x0, o.y0)

	case o.hasPitch && o.hasExtent:
		if !positiveFinite(o.dx) || !positiveFinite(o.dy) {
			return Grid{}, gridErrorf(ctxBuild, "pitch must be positive and finite", ErrInvalidGrid)
		}
		nx := int(math.Round(o.lx / o.dx))
		ny := int(math.Round(o.ly / o.dy))
		if err := checkConsistent(nx, o.dx, o.lx, o.tol, "x"); err != nil {
			return Grid{}, err
		}
		if err := checkConsistent(ny, o.dy, o.ly, o.tol, "y"); err != nil {
			return Grid{}, err
		}
		return resolve(ctxBuild, nx, ny, o.dx, o.dy, o.x0, o.y0)
	}

	return Grid{}, gridErrorf(ctxBuild, "two of count, pitch, extent are required", ErrInvalidGrid)
}

// checkConsistent verifies n·d against the declared extent.
func checkConsistent(n int, d, l, tol float64, axis string) error {
	if n <= 0 || !positiveFinite(d) || !positiveFinite(l) {
		return gridErrorf(ctxBuild, "axis "+axis+": count, pitch and extent must be positive", ErrInvalidGrid)
	}
	if math.Abs(float64(n)*d-l) > tol*l {
		return gridErrorf(ctxBuild, fmt.Sprintf("axis %s: n·d=%g disagrees with extent %g", axis, float64(n)*d, l), ErrInvalidGrid)
	}

	return nil
}

// resolve performs the final validation shared by all constructors.
func resolve(tag string, nx, ny int, dx, dy, x0, y0 float64) (Grid, error) {
	if nx <= 0 || ny <= 0 {
		return Grid{}, gridErrorf(tag, fmt.Sprintf("counts (%d,%d) must be > 0", nx, ny), ErrInvalidGrid)
	}
	if !positiveFinite(dx) || !positiveFinite(dy) {
		return Grid{}, gridErrorf(tag, fmt.Sprintf("pitch (%g,%g) must be positive and finite", dx, dy), ErrInvalidGrid)
	}
	if math.IsNaN(x0) || math.IsInf(x0, 0) || math.IsNaN(y0) || math.IsInf(y0, 0) {
		return Grid{}, gridErrorf(tag, "origin must be finite", ErrInvalidGrid)
	}

	return Grid{nx: nx, ny: ny, dx: dx, dy: dy, x0: x0, y0: y0}, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// NX returns the sample count along x.
func (g Grid) NX() int { return g.nx }

// NY returns the sample count along y.
func (g Grid) NY() int { return g.ny }

// DX returns the pitch along x.
func (g Grid) DX() float64 { return g.dx }

// DY returns the pitch along y.
func (g Grid) DY() float64 { return g.dy }

// Origin returns the coordinates of the axis sample.
func (g Grid) Origin() (x0, y0 float64) { return g.x0, g.y0 }

// Shape returns (rows, cols) = (ny, nx), the layout of field arrays.
func (g Grid) Shape() (rows, cols int) { return g.ny, g.nx }

// Size returns nx·ny.
func (g Grid) Size() int { return g.nx * g.ny }

// IsZero reports whether g is the zero value (never produced by constructors).
func (g Grid) IsZero() bool { return g.nx == 0 && g.ny == 0 }

// Extent returns the total window size (nx·dx, ny·dy).
func (g Grid) Extent() (lx, ly float64) {
	return float64(g.nx) * g.dx, float64(g.ny) * g.dy
}

// FreqSpacing returns the spatial-frequency sample spacing 1/(n·d) per axis.
func (g Grid) FreqSpacing() (dfx, dfy float64) {
	return 1 / (float64(g.nx) * g.dx), 1 / (float64(g.ny) * g.dy)
}

// Center returns the index of the axis sample along x and y.
func (g Grid) Center() (cx, cy int) { return g.nx / 2, g.ny / 2 }

// XAt returns the x coordinate of column i (no bounds check).
func (g Grid) XAt(i int) float64 { return float64(i-g.nx/2)*g.dx + g.x0 }

// YAt returns the y coordinate of row j (no bounds check).
func (g Grid) YAt(j int) float64 { return float64(j-g.ny/2)*g.dy + g.y0 }

// X returns the centered x coordinates of all columns.
func (g Grid) X() []float64 { return coords(g.nx, g.dx, g.x0) }

// Y returns the centered y coordinates of all rows.
func (g Grid) Y() []float64 { return coords(g.ny, g.dy, g.y0) }

// FreqX returns the x spatial frequencies in FFT order.
func (g Grid) FreqX() []float64 { return fftFreq(g.nx, g.dx) }

// FreqY returns the y spatial frequencies in FFT order.
func (g Grid) FreqY() []float64 { return fftFreq(g.ny, g.dy) }

func coords(n int, d, origin float64) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = origin
		return out
	}
	floats.Span(out, -float64(n/2)*d, float64(n-1-n/2)*d)
	floats.AddConst(origin, out)

	return out
}

// fftFreq mirrors numpy.fft.fftfreq: k/(n·d) for k ≤ (n−1)/2, (k−n)/(n·d) after.
func fftFreq(n int, d float64) []float64 {
	out := make([]float64, n)
	span := float64(n) * d
	for k := 0; k < n; k++ {
		if k <= (n-1)/2 {
			out[k] = float64(k) / span
		} else {
			out[k] = float64(k-n) / span
		}
	}

	return out
}

// Equal reports whether g and o describe the same lattice: equal counts,
// pitches within relative tol, origins within tol·pitch.
func (g Grid) Equal(o Grid, tol float64) bool {
	if g.nx != o.nx || g.ny != o.ny {
		return false
	}
	if !scalar.EqualWithinRel(g.dx, o.dx, tol) || !scalar.EqualWithinRel(g.dy, o.dy, tol) {
		return false
	}

	return math.Abs(g.x0-o.x0) <= tol*g.dx && math.Abs(g.y0-o.y0) <= tol*g.dy
}

// SamePitch reports whether the pitches agree within relative tol.
func (g Grid) SamePitch(o Grid, tol float64) bool {
	return scalar.EqualWithinRel(g.dx, o.dx, tol) && scalar.EqualWithinRel(g.dy, o.dy, tol)
}

// WithCount returns a Grid with new counts and the same pitch and origin.
func (g Grid) WithCount(nx, ny int) (Grid, error) {
	return resolve(ctxCount, nx, ny, g.dx, g.dy, g.x0, g.y0)
}

// WithPitch returns a Grid with a new pitch and the same counts and origin.
func (g Grid) WithPitch(dx, dy float64) (Grid, error) {
	return resolve(ctxPitch, g.nx, g.ny, dx, dy, g.x0, g.y0)
}

// Shifted returns a Grid whose axis sample is at (x0, y0).
func (g Grid) Shifted(x0, y0 float64) (Grid, error) {
	return resolve(ctxShift, g.nx, g.ny, g.dx, g.dy, x0, y0)
}

// Padded returns a Grid with factor× as many samples per axis, same pitch.
func (g Grid) Padded(factor int) (Grid, error) {
	if factor < 1 {
		return Grid{}, gridErrorf(ctxPad, "factor must be >= 1", ErrInvalidGrid)
	}

	return resolve(ctxPad, g.nx*factor, g.ny*factor, g.dx, g.dy, g.x0, g.y0)
}

// String implements fmt.Stringer.
func (g Grid) String() string {
	return fmt.Sprintf("Grid{%dx%d, d=(%g,%g), origin=(%g,%g)}", g.nx, g.ny, g.dx, g.dy, g.x0, g.y0)
}

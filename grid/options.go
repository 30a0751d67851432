// SPDX-License-Identifier: MIT

// Package grid: functional configuration for lattice construction.
//
// A lattice is fully determined by any two of {count, pitch, extent}; the
// third is derived. When all three are supplied they must agree within the
// relative tolerance (DefaultTolerance unless WithTolerance is used).
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - User data (counts, pitches, extents) is validated by Build and reported
//     as ErrInvalidGrid; only nonsensical tolerances panic (programmer error).
package grid

import "math"

// DefaultTolerance is the relative tolerance used for count/pitch/extent
// consistency and for Equal comparisons.
const DefaultTolerance = 1e-6

const panicToleranceInvalid = "grid: WithTolerance: tol must be finite, non-negative"

// Option mutates internal build options. Safe to apply repeatedly.
type Option func(*options)

// options stores the resolved configuration for Build.
type options struct {
	nx, ny   int
	hasCount bool

	dx, dy   float64
	hasPitch bool

	lx, ly    float64
	hasExtent bool

	x0, y0 float64
	tol    float64
}

// WithCount sets the number of samples along x and y.
func WithCount(nx, ny int) Option {
	return func(o *options) {
		o.nx, o.ny = nx, ny
		o.hasCount = true
	}
}

// WithPitch sets the sample spacing along x and y.
func WithPitch(dx, dy float64) Option {
	return func(o *options) {
		o.dx, o.dy = dx, dy
		o.hasPitch = true
	}
}

// WithExtent sets the total physical size of the window along x and y.
func WithExtent(lx, ly float64) Option {
	return func(o *options) {
		o.lx, o.ly = lx, ly
		o.hasExtent = true
	}
}

// WithOrigin places the optical-axis sample (index ⌊n/2⌋) at (x0, y0).
func WithOrigin(x0, y0 float64) Option {
	return func(o *options) { o.x0, o.y0 = x0, y0 }
}

// WithTolerance sets the relative tolerance for consistency checks.
// Panics when tol is negative or non-finite.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *options) { o.tol = tol }
}

// gatherOptions applies setters over the documented defaults.
func gatherOptions(opts ...Option) options {
	o := options{tol: DefaultTolerance}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

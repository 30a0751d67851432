// SPDX-License-Identifier: MIT

// Package kernel: functional configuration for kernel builders.
//
// Not every builder reads every option: band limit and output sampling apply
// to the angular spectrum only; shift applies to both frequency-domain methods; padding to
// frequency-domain methods; Simpson weights to direct integration; the
// paraxial limit and override to the Fresnel and Fraunhofer builders.
package kernel

import "math"

// DefaultParaxialLimit is the largest sampled propagation angle (sin θ ≈
// λ/(2·min(dx,dy))) accepted by the paraxial builders without WithOverride.
const DefaultParaxialLimit = 0.5

// DefaultPadding is the zero-padding factor of frequency-domain kernels
// when WithPadding is not used.
const DefaultPadding = 1

const (
	panicBandLimit = "kernel: WithBandLimit: extents must be positive and finite"
	panicPadding   = "kernel: WithPadding: factor must be >= 1"
	panicParaxial  = "kernel: WithParaxialLimit: limit must be positive and finite"
	panicShift     = "kernel: WithShift: offsets must be finite"
	panicSampling  = "kernel: WithOutputSampling: pitch must be positive and finite, counts >= 1"
)

// Option configures a kernel builder.
type Option func(*options)

type options struct {
	bandLimit bool
	sx, sy    float64

	shiftX, shiftY float64

	padding int

	rescale      bool
	outDX, outDY float64
	outNX, outNY int

	simpson bool

	override      bool
	paraxialLimit float64
}

// WithBandLimit enables the Matsushima band limit for a source of physical
// extent (sx, sy). The extent is the unpadded window.
func WithBandLimit(sx, sy float64) Option {
	if !(sx > 0 && sy > 0) || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		panic(panicBandLimit)
	}

	return func(o *options) {
		o.bandLimit = true
		o.sx, o.sy = sx, sy
	}
}

// WithShift moves the output window by (x0, y0) relative to the source
// window (shifted angular spectrum).
func WithShift(x0, y0 float64) Option {
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsInf(x0, 0) || math.IsInf(y0, 0) {
		panic(panicShift)
	}

	return func(o *options) { o.shiftX, o.shiftY = x0, y0 }
}

// WithPadding builds frequency-domain kernels on a lattice factor× larger
// per axis; Apply zero-pads the input and crops the output accordingly.
func WithPadding(factor int) Option {
	if factor < 1 {
		panic(panicPadding)
	}

	return func(o *options) { o.padding = factor }
}

// WithOutputSampling makes the angular spectrum produce nx2×ny2 samples of
// pitch (dx2, dy2) directly from the propagated spectrum (band-limited
// angular spectrum with selective scaling of window and sample count,
// Matsushima 2012). The output window must fit inside the padded source
// window. Other builders ignore it.
func WithOutputSampling(dx2, dy2 float64, nx2, ny2 int) Option {
	if !(dx2 > 0 && dy2 > 0) || math.IsInf(dx2, 0) || math.IsInf(dy2, 0) || nx2 < 1 || ny2 < 1 {
		panic(panicSampling)
	}

	return func(o *options) {
		o.rescale = true
		o.outDX, o.outDY = dx2, dy2
		o.outNX, o.outNY = nx2, ny2
	}
}

// WithSimpson weights direct-integration inputs with Simpson's rule (odd
// counts) or the trapezoid rule (even counts).
func WithSimpson() Option {
	return func(o *options) { o.simpson = true }
}

// WithOverride skips the paraxial validity check.
func WithOverride() Option {
	return func(o *options) { o.override = true }
}

// WithParaxialLimit replaces DefaultParaxialLimit.
func WithParaxialLimit(limit float64) Option {
	if !(limit > 0) || math.IsInf(limit, 0) {
		panic(panicParaxial)
	}

	return func(o *options) { o.paraxialLimit = limit }
}

func gatherOptions(opts ...Option) options {
	o := options{padding: DefaultPadding, paraxialLimit: DefaultParaxialLimit}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

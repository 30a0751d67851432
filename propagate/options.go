// SPDX-License-Identifier: MIT
// Package: waveprop/propagate
//
// options.go - Propagator configuration and per-call options.
//
// Contract:
//   • Default* constants are the single source of truth for defaults.
//   • Option constructors panic on meaningless values (programmer error);
//     Prepare/Propagate never panic on user data.
//   • CallOption values apply to a single Prepare/Propagate call only.

package propagate

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/kernel"
	"github.com/katalvlaran/waveprop/metrics"
	"github.com/katalvlaran/waveprop/sampling"
)

const (
	// DefaultFraunhoferThreshold is the largest Fresnel number for which Auto
	// selects the Fraunhofer closed form.
	DefaultFraunhoferThreshold = 1.0

	// DefaultCacheSize is the number of kernels kept by the LRU cache.
	DefaultCacheSize = 16

	// DefaultTolerance is the relative tolerance of grid comparisons.
	DefaultTolerance = 1e-6

	// paddingFactor is the per-axis zero padding of frequency-domain kernels
	// when padding is enabled (linear instead of circular convolution).
	paddingFactor = 2

	// maxResizeRounds bounds the check/resample loop of auto-resize.
	maxResizeRounds = 3
)

const (
	panicThreshold = "propagate: WithFraunhoferThreshold: threshold must be finite and >= 0"
	panicCacheSize = "propagate: WithCacheSize: size must be >= 0"
	panicTolerance = "propagate: WithTolerance: tol must be finite and > 0"
	panicSupport   = "propagate: WithSupportThreshold: threshold must be in (0, 1)"
	panicWorkers   = "propagate: WithWorkers: n must be >= 1"
	panicLogger    = "propagate: WithLogger: nil logger"
	panicTarget    = "propagate: Target: zero grid"
)

// Option configures a Propagator.
type Option func(*options)

type options struct {
	fraunhoferThreshold float64
	padding             bool
	bandLimit           bool
	simpson             bool
	cacheSize           int
	tolerance           float64
	supportThreshold    float64
	maxSamples          sampling.Option
	workers             int
	logger              *slog.Logger
	metrics             *metrics.Recorder
}

func defaultOptions() options {
	return options{
		fraunhoferThreshold: DefaultFraunhoferThreshold,
		padding:             true,
		bandLimit:           true,
		cacheSize:           DefaultCacheSize,
		tolerance:           DefaultTolerance,
		supportThreshold:    field.DefaultSupportThreshold,
		maxSamples:          sampling.WithMaxSamples(sampling.DefaultMaxSamples),
		workers:             runtime.GOMAXPROCS(0),
		logger:              slog.New(slog.DiscardHandler),
	}
}

// WithFraunhoferThreshold sets the Fresnel number at or below which Auto
// picks Fraunhofer. Zero disables the far-field choice.
func WithFraunhoferThreshold(t float64) Option {
	if !(t >= 0) || math.IsInf(t, 0) {
		panic(panicThreshold)
	}

	return func(o *options) { o.fraunhoferThreshold = t }
}

// WithPadding toggles 2× zero padding of frequency-domain kernels (default on).
// Padding turns the circular convolution of the FFT into a linear one, so
// light leaving the window is cropped away instead of wrapping around; the
// angular spectrum then no longer conserves power exactly and +z followed by
// −z does not restore the source. See WithLossless.
func WithPadding(on bool) Option {
	return func(o *options) { o.padding = on }
}

// WithBandLimit toggles the angular-spectrum band limit (default on). The
// limit zeroes transfer-function samples that would alias at distance z; the
// removed spectrum is lost, so the transform is no longer unitary.
func WithBandLimit(on bool) Option {
	return func(o *options) { o.bandLimit = on }
}

// WithLossless disables padding and the band limit. The angular spectrum is
// then unitary: power is conserved and a propagation by −z undoes one by +z
// to rounding, at the price of wrap-around and aliasing for fields that
// spread beyond the window.
func WithLossless() Option {
	return func(o *options) { o.padding, o.bandLimit = false, false }
}

// WithSimpson toggles Simpson weights for direct integration (default off).
func WithSimpson(on bool) Option {
	return func(o *options) { o.simpson = on }
}

// WithCacheSize bounds the kernel cache; 0 disables caching.
func WithCacheSize(n int) Option {
	if n < 0 {
		panic(panicCacheSize)
	}

	return func(o *options) { o.cacheSize = n }
}

// WithTolerance sets the relative tolerance used to compare grids.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolerance)
	}

	return func(o *options) { o.tolerance = tol }
}

// WithSupportThreshold sets the relative intensity above which a sample
// counts toward the aperture support.
func WithSupportThreshold(t float64) Option {
	if !(t > 0 && t < 1) {
		panic(panicSupport)
	}

	return func(o *options) { o.supportThreshold = t }
}

// WithMaxSamples caps the per-axis count of auto-resized grids. Panics when
// n < 1.
func WithMaxSamples(n int) Option {
	limit := sampling.WithMaxSamples(n)

	return func(o *options) { o.maxSamples = limit }
}

// WithWorkers bounds the concurrency of PropagateBatch.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}

	return func(o *options) { o.workers = n }
}

// WithLogger injects a structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLogger)
	}

	return func(o *options) { o.logger = l }
}

// WithMetrics attaches a Prometheus recorder. Nil records nothing.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) { o.metrics = r }
}

// CallOption configures a single Prepare or Propagate call.
type CallOption func(*callOptions)

type callOptions struct {
	method     kernel.Method
	target     grid.Grid
	autoResize bool
	override   bool
}

// Method forces a propagation method; kernel.Auto (the default) selects one.
func Method(m kernel.Method) CallOption {
	return func(c *callOptions) { c.method = m }
}

// Target requests the output on g. A pitch different from the source makes
// Auto choose the two-step method. The angular spectrum evaluates any g whose
// window fits the padded source window directly; any remaining mismatch with
// the method's natural output lattice is resolved by bilinear resampling.
func Target(g grid.Grid) CallOption {
	if g.IsZero() {
		panic(panicTarget)
	}

	return func(c *callOptions) { c.target = g }
}

// AutoResize resamples the source onto the recommended lattice instead of
// failing with ErrSamplingViolation.
func AutoResize() CallOption {
	return func(c *callOptions) { c.autoResize = true }
}

// Override skips the paraxial validity check of the Fresnel and Fraunhofer
// kernels. Sampling checks still apply.
func Override() CallOption {
	return func(c *callOptions) { c.override = true }
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

func gatherCall(call ...CallOption) callOptions {
	var c callOptions
	for _, opt := range call {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// SPDX-License-Identifier: MIT

// Package propagate advances optical fields between planes.
//
// A Propagator owns its configuration, a bounded kernel cache, a logger and
// an optional metrics recorder. Each call resolves a method (Auto picks one
// from the Fresnel number and the target grid), validates sampling, resizes
// the source when asked, builds or reuses a kernel and applies it:
//
//	Configured ──Prepare──▶ KernelReady ──Execute──▶ Propagated
//
// Propagate performs both transitions. Fields and kernels are immutable, so
// a Propagator is safe for concurrent use; PropagateBatch fans independent
// fields out on a bounded worker pool.
package propagate

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/kernel"
	"github.com/katalvlaran/waveprop/sampling"
)

const (
	ctxPrepare   = "Prepare"
	ctxExecute   = "Execute"
	ctxRecommend = "Recommend"
	ctxBatch     = "PropagateBatch"
)

// State is the lifecycle stage of a propagation.
type State int

const (
	// Configured: options fixed, nothing computed.
	Configured State = iota
	// KernelReady: method resolved, sampling checked, kernel built.
	KernelReady
	// Propagated: the kernel has been applied.
	Propagated
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case KernelReady:
		return "kernel-ready"
	case Propagated:
		return "propagated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Propagator advances fields with a fixed configuration.
type Propagator struct {
	opts  options
	cache *kernelCache
	log   *slog.Logger
}

// New returns a Propagator in the Configured state. The defaults favour
// alias-free output over unitarity: frequency-domain kernels are padded 2×
// and the angular spectrum is band limited, both of which discard some power.
// Use WithLossless for exact energy conservation and reversibility.
func New(opts ...Option) *Propagator {
	o := gatherOptions(opts...)

	return &Propagator{
		opts:  o,
		cache: newKernelCache(o.cacheSize, o.metrics),
		log:   o.logger.With("component", "propagate"),
	}
}

// CacheLen returns the number of cached kernels.
func (p *Propagator) CacheLen() int { return p.cache.size() }

// Plan is a prepared propagation: the resolved method, the (possibly
// resized) source and its kernel. Execute applies it once.
type Plan struct {
	p *Propagator

	mu    sync.Mutex
	state State

	method  kernel.Method
	src     *field.Field
	z       float64
	target  grid.Grid
	kern    *kernel.Kernel
	report  sampling.Report
	cached  bool
	resized bool
	elapsed time.Duration
}

// State returns the plan's lifecycle stage.
func (pl *Plan) State() State {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	return pl.state
}

// Method returns the resolved (never Auto) method.
func (pl *Plan) Method() kernel.Method { return pl.method }

// Kernel returns the kernel the plan applies.
func (pl *Plan) Kernel() *kernel.Kernel { return pl.kern }

// Source returns the field that will be propagated, after any auto-resize.
func (pl *Plan) Source() *field.Field { return pl.src }

// Report returns the last sampling report (OK unless a resize was needed).
func (pl *Plan) Report() sampling.Report { return pl.report }

// Cached reports whether the kernel came from the cache.
func (pl *Plan) Cached() bool { return pl.cached }

// Resized reports whether the source was resampled by auto-resize.
func (pl *Plan) Resized() bool { return pl.resized }

// Propagate advances src by distance z. The result sits at
// src.Position()+z on the method's output lattice, or on the Target grid
// when one is given.
func (p *Propagator) Propagate(src *field.Field, z float64, call ...CallOption) (*field.Field, error) {
	pl, err := p.Prepare(src, z, call...)
	if err != nil {
		return nil, err
	}

	return pl.Execute()
}

// Prepare resolves the method, checks sampling (resizing under AutoResize)
// and obtains the kernel. Failures:
//   - *SamplingError (ErrSamplingViolation) when sampling fails and cannot
//     or may not be fixed by resizing;
//   - kernel.ErrUnsupportedMethod / kernel.ErrInvalidDistance from builders.
func (p *Propagator) Prepare(src *field.Field, z float64, call ...CallOption) (*Plan, error) {
	start := time.Now()
	c := gatherCall(call...)
	pl, err := p.prepare(src, z, c)
	if err != nil {
		m := c.method
		if pl != nil {
			m = pl.method
		}
		p.opts.metrics.ObservePropagation(m.String(), time.Since(start), err)
		p.log.Debug("prepare failed", "method", m.String(), "z", z, "error", err)

		return nil, propErrorf(ctxPrepare, err)
	}
	pl.elapsed = time.Since(start)

	return pl, nil
}

// prepare returns a partially filled plan together with an error so that
// the caller can label metrics with the resolved method.
func (p *Propagator) prepare(src *field.Field, z float64, c callOptions) (*Plan, error) {
	if src == nil {
		return nil, fmt.Errorf("nil source: %w", field.ErrInvalidGrid)
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil, fmt.Errorf("z=%g: %w", z, kernel.ErrInvalidDistance)
	}
	if c.method < kernel.Auto || c.method > kernel.DirectIntegration {
		return nil, fmt.Errorf("method %v: %w", c.method, kernel.ErrUnsupportedMethod)
	}

	pl := &Plan{p: p, method: c.method, src: src, z: z, target: c.target}
	a := p.support(src)
	if pl.method == kernel.Auto {
		pl.method = p.selectMethod(src.Grid(), a, src.Wavelength(), z, c.target)
		p.log.Debug("method selected",
			"method", pl.method.String(),
			"fresnel_number", sampling.FresnelNumber(a, src.Wavelength(), z),
			"z", z,
		)
	}
	if pl.method == kernel.FresnelTwoStep && c.target.IsZero() {
		return pl, fmt.Errorf("two-step needs a target grid: %w", kernel.ErrUnsupportedMethod)
	}

	var err error
	if err = p.ensureSampling(pl, a, c.autoResize); err != nil {
		return pl, err
	}
	if pl.kern, pl.cached, err = p.kernelFor(pl, c.override); err != nil {
		return pl, err
	}
	pl.state = KernelReady

	return pl, nil
}

// support is the aperture half-width used for the Fresnel number and the
// sampling checks; at least half a pitch so a point source stays finite.
func (p *Propagator) support(f *field.Field) float64 {
	g := f.Grid()

	return math.Max(f.SupportHalfWidth(p.opts.supportThreshold), math.Min(g.DX(), g.DY())/2)
}

// selectMethod implements Auto: far field for small Fresnel numbers, two-step
// for a magnifying target, angular spectrum otherwise.
func (p *Propagator) selectMethod(g grid.Grid, a, wavelength, z float64, target grid.Grid) kernel.Method {
	nf := sampling.FresnelNumber(a, wavelength, z)
	switch {
	case z > 0 && nf <= p.opts.fraunhoferThreshold:
		return kernel.Fraunhofer
	case z != 0 && p.magnifies(g, target):
		return kernel.FresnelTwoStep
	default:
		return kernel.AngularSpectrum
	}
}

// magnifies reports whether target has a different, isotropically scaled pitch.
func (p *Propagator) magnifies(g, target grid.Grid) bool {
	if target.IsZero() || g.SamePitch(target, p.opts.tolerance) {
		return false
	}
	mx, my := target.DX()/g.DX(), target.DY()/g.DY()

	return scalar.EqualWithinRel(mx, my, p.opts.tolerance)
}

// ensureSampling runs the sampling check, resampling the source onto the
// recommended lattice under AutoResize until the check passes.
func (p *Propagator) ensureSampling(pl *Plan, a float64, autoResize bool) error {
	m := pl.method
	for round := 0; ; round++ {
		rep, err := sampling.Check(sampling.Request{
			Method:     m,
			Grid:       pl.src.Grid(),
			Wavelength: pl.src.Wavelength(),
			Distance:   pl.z,
			Support:    a,
			Padded:     p.opts.padding,
			Target:     pl.target,
		}, p.opts.maxSamples)
		if err != nil {
			return err
		}
		pl.report = rep
		if rep.OK {
			return nil
		}

		p.opts.metrics.IncSamplingViolation(m.String())
		p.log.Warn("sampling violation",
			"method", m.String(),
			"grid", pl.src.Grid().String(),
			"violations", len(rep.Violations),
			"auto_resize", autoResize,
		)
		if !autoResize || rep.Recommended == nil || round == maxResizeRounds {
			return &SamplingError{Report: rep}
		}

		next, err := p.resampleOnto(pl.src, *rep.Recommended)
		if err != nil {
			return err
		}
		p.log.Debug("source resized",
			"method", m.String(),
			"from", pl.src.Grid().String(),
			"to", next.Grid().String(),
		)
		pl.src, pl.resized = next, true
	}
}

// resampleOnto uses band-limited interpolation when the window is unchanged
// and bilinear interpolation (zero outside) when it grows.
func (p *Propagator) resampleOnto(f *field.Field, g grid.Grid) (*field.Field, error) {
	lx, ly := f.Grid().Extent()
	tx, ty := g.Extent()
	method := field.Bilinear
	if scalar.EqualWithinRel(lx, tx, p.opts.tolerance) && scalar.EqualWithinRel(ly, ty, p.opts.tolerance) {
		method = field.Fourier
	}

	return f.Resample(g, method)
}

// kernelFor returns the plan's kernel from the cache or builds and stores it.
func (p *Propagator) kernelFor(pl *Plan, override bool) (*kernel.Kernel, bool, error) {
	key := cacheKey{
		method:     pl.method,
		src:        pl.src.Grid(),
		dst:        p.kernelDestination(pl),
		wavelength: pl.src.Wavelength(),
		z:          pl.z,
		padded:     p.opts.padding,
		bandLimit:  p.opts.bandLimit,
		simpson:    p.opts.simpson,
		override:   override,
	}
	if k, ok := p.cache.get(key); ok {
		p.log.Debug("kernel cache hit", "method", pl.method.String(), "z", pl.z)
		return k, true, nil
	}

	k, err := buildKernel(key)
	if err != nil {
		return nil, false, err
	}
	p.cache.put(key, k)

	return k, false, nil
}

// kernelDestination is the part of the target a kernel can produce directly:
// a shifted window for the transfer-function methods, any lattice inside the
// padded window for the angular spectrum, the destination pitch for two-step,
// the destination window for direct integration.
func (p *Propagator) kernelDestination(pl *Plan) grid.Grid {
	g, t := pl.src.Grid(), pl.target
	if t.IsZero() {
		if pl.method == kernel.DirectIntegration {
			return g
		}
		return grid.Grid{}
	}
	switch pl.method {
	case kernel.AngularSpectrum, kernel.FresnelOneStep:
		if sameSampling(g, t, p.opts.tolerance) {
			return t
		}
		if pl.method == kernel.AngularSpectrum {
			factor := 1
			if p.opts.padding {
				factor = paddingFactor
			}
			if lattice, err := g.Padded(factor); err == nil && kernel.WindowFits(lattice, t) {
				return t
			}
		}
	case kernel.FresnelTwoStep:
		return t
	case kernel.DirectIntegration:
		if g.SamePitch(t, p.opts.tolerance) {
			return t
		}
		return g
	}

	return grid.Grid{}
}

// sameSampling reports equal counts and pitch; origins may differ.
func sameSampling(g, t grid.Grid, tol float64) bool {
	return t.NX() == g.NX() && t.NY() == g.NY() && g.SamePitch(t, tol)
}

func buildKernel(key cacheKey) (*kernel.Kernel, error) {
	var extra []kernel.Option
	if key.override {
		extra = append(extra, kernel.WithOverride())
	}

	switch key.method {
	case kernel.AngularSpectrum, kernel.FresnelOneStep:
		opts := extra
		if key.padded {
			opts = append(opts, kernel.WithPadding(paddingFactor))
		}
		if !key.dst.IsZero() {
			sx, sy := key.src.Origin()
			tx, ty := key.dst.Origin()
			opts = append(opts, kernel.WithShift(tx-sx, ty-sy))
			if !sameSampling(key.src, key.dst, grid.DefaultTolerance) {
				opts = append(opts, kernel.WithOutputSampling(key.dst.DX(), key.dst.DY(), key.dst.NX(), key.dst.NY()))
			}
		}
		if key.method == kernel.FresnelOneStep {
			return kernel.NewFresnelOneStep(key.src, key.wavelength, key.z, opts...)
		}
		if key.bandLimit {
			lx, ly := key.src.Extent()
			opts = append(opts, kernel.WithBandLimit(lx, ly))
		}
		return kernel.NewAngularSpectrum(key.src, key.wavelength, key.z, opts...)
	case kernel.FresnelTwoStep:
		return kernel.NewFresnelTwoStep(key.src, key.dst.DX(), key.dst.DY(), key.wavelength, key.z, extra...)
	case kernel.Fraunhofer:
		return kernel.NewFraunhofer(key.src, key.wavelength, key.z, extra...)
	case kernel.DirectIntegration:
		if key.simpson {
			extra = append(extra, kernel.WithSimpson())
		}
		return kernel.NewRayleighSommerfeld(key.src, key.dst, key.wavelength, key.z, extra...)
	default:
		return nil, fmt.Errorf("method %v: %w", key.method, kernel.ErrUnsupportedMethod)
	}
}

// Execute applies the kernel and moves the plan to Propagated. A plan
// executes once; a second call returns ErrPlanState.
func (pl *Plan) Execute() (*field.Field, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if pl.state != KernelReady {
		return nil, propErrorf(ctxExecute, fmt.Errorf("state %v: %w", pl.state, ErrPlanState))
	}
	start := time.Now()
	out, err := pl.apply()
	elapsed := pl.elapsed + time.Since(start)
	pl.p.opts.metrics.ObservePropagation(pl.method.String(), elapsed, err)
	if err != nil {
		pl.p.log.Warn("propagation failed", "method", pl.method.String(), "z", pl.z, "error", err)
		return nil, propErrorf(ctxExecute, err)
	}
	pl.state = Propagated
	pl.p.log.Debug("propagated",
		"method", pl.method.String(),
		"z", pl.z,
		"grid", out.Grid().String(),
		"cached", pl.cached,
		"resized", pl.resized,
		"duration_ms", elapsed.Milliseconds(),
	)

	return out, nil
}

func (pl *Plan) apply() (*field.Field, error) {
	data, err := pl.kern.Apply(pl.src.Values())
	if err != nil {
		return nil, err
	}
	if err = field.ValidateFinite(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNonFiniteResult, err)
	}
	out, err := field.NewFlat(data, pl.kern.Destination(), pl.src.Wavelength(),
		field.WithPosition(pl.src.Position()+pl.z))
	if err != nil {
		return nil, err
	}
	if !pl.target.IsZero() && !out.Grid().Equal(pl.target, pl.p.opts.tolerance) {
		return out.Resample(pl.target, field.Bilinear)
	}

	return out, nil
}

// Recommend returns the method Auto would choose for a field filling g,
// with the Fresnel number computed from a = min(Lx, Ly)/2.
func (p *Propagator) Recommend(g grid.Grid, wavelength, z float64) (kernel.Method, float64, error) {
	return recommend(g, wavelength, z, p.opts.fraunhoferThreshold)
}

// RecommendMethod is Recommend with DefaultFraunhoferThreshold.
func RecommendMethod(g grid.Grid, wavelength, z float64) (kernel.Method, float64, error) {
	return recommend(g, wavelength, z, DefaultFraunhoferThreshold)
}

// FresnelNumber returns a²/(λ|z|) with a = min(Lx, Ly)/2; +Inf at z = 0.
func FresnelNumber(g grid.Grid, wavelength, z float64) float64 {
	lx, ly := g.Extent()

	return sampling.FresnelNumber(math.Min(lx, ly)/2, wavelength, z)
}

func recommend(g grid.Grid, wavelength, z, threshold float64) (kernel.Method, float64, error) {
	if err := field.ValidateGrid(g); err != nil {
		return kernel.Auto, 0, propErrorf(ctxRecommend, err)
	}
	if err := field.ValidateWavelength(wavelength); err != nil {
		return kernel.Auto, 0, propErrorf(ctxRecommend, err)
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return kernel.Auto, 0, propErrorf(ctxRecommend, fmt.Errorf("z=%g: %w", z, kernel.ErrInvalidDistance))
	}
	nf := FresnelNumber(g, wavelength, z)
	if z > 0 && nf <= threshold {
		return kernel.Fraunhofer, nf, nil
	}

	return kernel.AngularSpectrum, nf, nil
}

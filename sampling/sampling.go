// SPDX-License-Identifier: MIT

// Package sampling - per-method sampling checks for field propagation.
//
// Purpose:
//   - Decide, before any transform runs, whether a lattice samples the
//     kernel and the propagated field of a given method finely and widely
//     enough to avoid aliasing.
//   - Report every violated constraint and recommend a lattice that
//     satisfies them (best effort; callers re-check after resampling).
//
// Constraints, per axis with n samples of pitch d over extent L = n·d and an
// aperture half-width a:
//   - AngularSpectrum: d ≤ λ|z|/(n·d). Fix: same extent, finer pitch.
//   - FresnelOneStep:  λ|z| ≤ n_k·d², n_k = 2n when padded. Fix: more samples.
//   - FresnelTwoStep:  d ≤ λ|z1|/(2a) and d1a ≤ λ|z2|/(n·d1a).
//   - Fraunhofer:      L ≥ 4a. Fix: more samples, same pitch.
//   - DirectIntegration: d ≤ λ·sqrt(ρ²+z²)/(2ρ), ρ the window diagonal.
//
// Check never mutates its input.
package sampling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/kernel"
)

// Constraint names reported in Violation.Constraint.
const (
	ConstraintAngularSpectrum = "d <= lambda*|z|/(n*d)"
	ConstraintFresnelChirp    = "lambda*|z| <= n*d^2"
	ConstraintTwoStepSource   = "d <= lambda*|z1|/(2a)"
	ConstraintTwoStepMid      = "d1a <= lambda*|z2|/(n*d1a)"
	ConstraintFraunhoferWin   = "4a <= n*d"
	ConstraintImpulseChirp    = "d <= lambda*sqrt(rho^2+z^2)/(2rho)"
)

// Request describes one propagation to validate.
type Request struct {
	Method     kernel.Method // any concrete method; Auto is rejected
	Grid       grid.Grid     // source lattice
	Wavelength float64
	Distance   float64

	// Support is the aperture half-width a. Zero means min(Lx, Ly)/2.
	Support float64

	// Padded reports 2× zero padding for frequency-domain methods.
	Padded bool

	// Target is the destination lattice; required for FresnelTwoStep
	// (its pitch sets the magnification), ignored otherwise.
	Target grid.Grid
}

// Violation is one failed constraint: Have must not exceed Limit.
type Violation struct {
	Axis       string
	Constraint string
	Have       float64
	Limit      float64
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (have %.4g, limit %.4g)", v.Axis, v.Constraint, v.Have, v.Limit)
}

// Report is the outcome of Check.
type Report struct {
	Method        kernel.Method
	OK            bool
	Violations    []Violation
	FresnelNumber float64

	// Recommended is a lattice expected to satisfy every constraint; nil when
	// OK or when it would need more than the configured maximum samples.
	Recommended *grid.Grid
}

// FresnelNumber returns a²/(λ|z|); +Inf at z == 0.
func FresnelNumber(a, wavelength, z float64) float64 {
	if z == 0 {
		return math.Inf(1)
	}

	return a * a / (wavelength * math.Abs(z))
}

// axis is one dimension of the source lattice.
type axis struct {
	name string
	n    int
	d, l float64
	td   float64 // target pitch (two-step only)
}

// need accumulates what a recommended lattice must satisfy on one axis.
type need struct {
	pitch float64 // largest acceptable pitch (+Inf: unconstrained)
	count int     // smallest acceptable count
}

// Check evaluates the sampling constraints of req.Method.
// Stage 1: validate the request and resolve the aperture half-width.
// Stage 2: evaluate per-axis constraints and collect violations.
// Stage 3: on failure, build a recommended lattice.
// Complexity: O(1).
func Check(req Request, opts ...Option) (Report, error) {
	if err := validate(req); err != nil {
		return Report{}, err
	}
	o := gatherOptions(opts...)

	g := req.Grid
	lx, ly := g.Extent()
	a := req.Support
	if a == 0 {
		a = math.Min(lx, ly) / 2
	}
	axes := [2]axis{
		{name: "x", n: g.NX(), d: g.DX(), l: lx, td: req.Target.DX()},
		{name: "y", n: g.NY(), d: g.DY(), l: ly, td: req.Target.DY()},
	}
	needs := [2]need{{pitch: math.Inf(1)}, {pitch: math.Inf(1)}}
	rep := Report{Method: req.Method, FresnelNumber: FresnelNumber(a, req.Wavelength, req.Distance)}

	var (
		vs  []Violation
		err error
	)
	lam, z := req.Wavelength, req.Distance
	switch req.Method {
	case kernel.AngularSpectrum:
		vs = checkAngularSpectrum(axes, needs[:], lam, z)
	case kernel.FresnelOneStep:
		vs = checkFresnel(axes, needs[:], lam, z, req.Padded)
	case kernel.FresnelTwoStep:
		vs, err = checkTwoStep(req, axes, needs[:], a)
	case kernel.Fraunhofer:
		vs = checkFraunhofer(axes, needs[:], a)
	case kernel.DirectIntegration:
		vs = checkDirect(axes, needs[:], lam, z, math.Hypot(lx, ly))
	}
	if err != nil {
		return Report{}, err
	}

	rep.Violations = vs
	rep.OK = len(vs) == 0
	if !rep.OK {
		rep.Recommended = recommend(g, axes, needs, o.maxSamples)
	}

	return rep, nil
}

func validate(req Request) error {
	if err := field.ValidateGrid(req.Grid); err != nil {
		return fmt.Errorf("sampling.Check: %w: %w", ErrInvalidRequest, err)
	}
	if err := field.ValidateWavelength(req.Wavelength); err != nil {
		return fmt.Errorf("sampling.Check: wavelength %g: %w: %w", req.Wavelength, ErrInvalidRequest, err)
	}
	if math.IsNaN(req.Distance) || math.IsInf(req.Distance, 0) {
		return samplingErrorf("distance %g", req.Distance)
	}
	if !(req.Support >= 0) || math.IsInf(req.Support, 0) {
		return samplingErrorf("support %g", req.Support)
	}
	if req.Method <= kernel.Auto || req.Method > kernel.DirectIntegration {
		return samplingErrorf("method %v", req.Method)
	}
	if req.Method == kernel.FresnelTwoStep && req.Target.IsZero() {
		return samplingErrorf("two-step needs a target grid")
	}

	return nil
}

func checkAngularSpectrum(axes [2]axis, needs []need, lam, z float64) []Violation {
	if z == 0 {
		return nil
	}
	var vs []Violation
	for i, ax := range axes {
		limit := lam * math.Abs(z) / (float64(ax.n) * ax.d)
		if ax.d > limit {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintAngularSpectrum, Have: ax.d, Limit: limit})
		}
		needs[i].pitch = math.Min(needs[i].pitch, lam*math.Abs(z)/ax.l)
	}

	return vs
}

func checkFresnel(axes [2]axis, needs []need, lam, z float64, padded bool) []Violation {
	factor := 1
	if padded {
		factor = 2
	}
	var vs []Violation
	for i, ax := range axes {
		have := lam * math.Abs(z)
		limit := float64(factor*ax.n) * ax.d * ax.d
		if have > limit {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintFresnelChirp, Have: have, Limit: limit})
		}
		needs[i].count = max(needs[i].count, ceil(have/(float64(factor)*ax.d*ax.d)))
	}

	return vs
}

func checkTwoStep(req Request, axes [2]axis, needs []need, a float64) ([]Violation, error) {
	lam, z := req.Wavelength, req.Distance
	ts, err := kernel.TwoStepPlanes(req.Grid, req.Target.DX(), req.Target.DY(), lam, z)
	if err != nil {
		return nil, fmt.Errorf("sampling.Check: %w: %w", ErrInvalidRequest, err)
	}
	mids := [2]float64{ts.Intermediate.DX(), ts.Intermediate.DY()}

	var vs []Violation
	for i, ax := range axes {
		limit1 := lam * math.Abs(ts.Z1) / (2 * a)
		if ax.d > limit1 {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintTwoStepSource, Have: ax.d, Limit: limit1})
		}
		limit2 := lam * math.Abs(ts.Z2) / (float64(ax.n) * mids[i])
		if mids[i] > limit2 {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintTwoStepMid, Have: mids[i], Limit: limit2})
		}

		// Stage-2 count for the refined pitch: λ·z1² ≤ n·d²·|z2|.
		d := math.Min(ax.d, limit1)
		needs[i].pitch = math.Min(needs[i].pitch, limit1)
		m := ax.td / d
		if scalar.EqualWithinAbs(m, 1, 1e-9) {
			continue
		}
		z1 := z / (1 - m)
		z2 := z - z1
		needs[i].count = max(needs[i].count, ceil(lam*z1*z1/(d*d*math.Abs(z2))))
	}

	return vs, nil
}

func checkFraunhofer(axes [2]axis, needs []need, a float64) []Violation {
	var vs []Violation
	for i, ax := range axes {
		if 4*a > ax.l {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintFraunhoferWin, Have: 4 * a, Limit: ax.l})
		}
		needs[i].count = max(needs[i].count, ceil(4*a/ax.d))
	}

	return vs
}

func checkDirect(axes [2]axis, needs []need, lam, z, rho float64) []Violation {
	limit := lam * math.Sqrt(rho*rho+z*z) / (2 * rho)
	var vs []Violation
	for i, ax := range axes {
		if ax.d > limit {
			vs = append(vs, Violation{Axis: ax.name, Constraint: ConstraintImpulseChirp, Have: ax.d, Limit: limit})
		}
		needs[i].pitch = math.Min(needs[i].pitch, limit)
	}

	return vs
}

// recommend resolves the per-axis needs into a lattice with the source origin.
// A refined pitch keeps the extent (pitch = L/n'); otherwise the pitch is kept
// and the count grows. Counts keep the parity of the source.
func recommend(g grid.Grid, axes [2]axis, needs [2]need, maxSamples int) *grid.Grid {
	var counts [2]int
	var pitches [2]float64
	for i, ax := range axes {
		n := max(ax.n, needs[i].count)
		pitch := ax.d
		refine := needs[i].pitch < ax.d
		if refine {
			n = max(n, ceil(ax.l/needs[i].pitch))
		}
		if n%2 != ax.n%2 {
			n++
		}
		if n > maxSamples {
			return nil
		}
		if refine {
			pitch = ax.l / float64(n)
		}
		counts[i], pitches[i] = n, pitch
	}
	x0, y0 := g.Origin()
	out, err := grid.New(counts[0], counts[1], pitches[0], pitches[1], grid.WithOrigin(x0, y0))
	if err != nil {
		return nil
	}

	return &out
}

func ceil(v float64) int {
	if math.IsInf(v, 0) || math.IsNaN(v) || v > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(math.Ceil(v))
}

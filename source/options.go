// SPDX-License-Identifier: MIT
// Package: waveprop/source
//
// options.go - functional options for source generators.
//
// Contract:
//   • Option constructors validate and panic on meaningless inputs.
//   • Generators never panic; they return ErrInvalidParameter.

package source

import "math"

// DefaultSupersample is the per-axis subsample count used for aperture edge
// coverage when WithSupersample is not given (1: point sampling).
const DefaultSupersample = 1

// Option customizes a generator.
type Option func(*config)

type config struct {
	supersample int
	cx, cy      float64
}

// WithSupersample evaluates hard-edged apertures on a k×k subgrid inside
// every pixel and stores the covered fraction. Panics when k < 1.
func WithSupersample(k int) Option {
	if k < 1 {
		panic("source: WithSupersample(k < 1)")
	}

	return func(c *config) { c.supersample = k }
}

// WithCenter places the shape center at (x, y) in grid coordinates.
// Panics on NaN or infinite coordinates.
func WithCenter(x, y float64) Option {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		panic("source: WithCenter(non-finite)")
	}

	return func(c *config) { c.cx, c.cy = x, y }
}

func newConfig(opts ...Option) config {
	c := config{supersample: DefaultSupersample}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

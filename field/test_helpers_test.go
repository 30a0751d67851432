// SPDX-License-Identifier: MIT
// Package field_test contains small deterministic fixtures shared by the
// field tests.

package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
)

const wavelength = 633e-9

// MustGrid allocates a lattice or fails the test.
func MustGrid(t *testing.T, nx, ny int, dx, dy float64, opts ...grid.Option) grid.Grid {
	t.Helper()
	g, err := grid.New(nx, ny, dx, dy, opts...)
	require.NoError(t, err)

	return g
}

// MustField samples fn on g or fails the test.
func MustField(t *testing.T, g grid.Grid, fn func(x, y float64) complex128) *field.Field {
	t.Helper()
	f, err := field.FromFunc(g, wavelength, fn)
	require.NoError(t, err)

	return f
}

// Uniform returns a constant-amplitude sampler.
func Uniform(v complex128) func(x, y float64) complex128 {
	return func(_, _ float64) complex128 { return v }
}

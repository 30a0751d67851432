// SPDX-License-Identifier: MIT

package propagate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waveprop/field"
	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/source"
)

const wavelength = 633e-9

func mustGrid(t testing.TB, n int, d float64) grid.Grid {
	t.Helper()
	g, err := grid.New(n, n, d, d)
	require.NoError(t, err)

	return g
}

// gaussian is a unit-peak TEM00 waist of radius w0.
func gaussian(t testing.TB, n int, d, w0 float64) *field.Field {
	t.Helper()
	g := mustGrid(t, n, d)
	u, err := source.Gaussian(g, w0)
	require.NoError(t, err)
	f, err := field.NewFlat(u, g, wavelength)
	require.NoError(t, err)

	return f
}

// circle is a supersampled uniform circular aperture.
func circle(t testing.TB, n int, d, radius float64) *field.Field {
	t.Helper()
	g := mustGrid(t, n, d)
	u, err := source.Circle(g, radius, source.WithSupersample(8))
	require.NoError(t, err)
	f, err := field.NewFlat(u, g, wavelength)
	require.NoError(t, err)

	return f
}

func intensity(v complex128) float64 {
	return real(v)*real(v) + imag(v)*imag(v)
}

// gaussianPeak is the on-axis intensity (w0/w(z))² of a unit-peak beam.
func gaussianPeak(w0, z float64) float64 {
	zr := math.Pi * w0 * w0 / wavelength

	return 1 / (1 + (z/zr)*(z/zr))
}

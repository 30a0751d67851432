// SPDX-License-Identifier: MIT

package grid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waveprop/grid"
)

// TestNew_Invalid verifies that non-positive and non-finite inputs are rejected.
func TestNew_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		nx, ny int
		dx, dy float64
	}{
		{"zero nx", 0, 4, 1e-6, 1e-6},
		{"negative ny", 4, -1, 1e-6, 1e-6},
		{"zero dx", 4, 4, 0, 1e-6},
		{"negative dy", 4, 4, 1e-6, -1e-6},
		{"nan dx", 4, 4, math.NaN(), 1e-6},
		{"inf dy", 4, 4, 1e-6, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grid.New(tc.nx, tc.ny, tc.dx, tc.dy)
			assert.ErrorIs(t, err, grid.ErrInvalidGrid)
		})
	}
}

// TestNew_NonFiniteOrigin ensures origins must be finite.
func TestNew_NonFiniteOrigin(t *testing.T) {
	_, err := grid.New(4, 4, 1e-6, 1e-6, grid.WithOrigin(math.NaN(), 0))
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)
}

// TestExtentConsistency checks dx·nx equals the declared extent for several lattices.
func TestExtentConsistency(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 513} {
		for _, l := range []float64{1e-3, 5.12e-3, 0.37} {
			g, err := grid.FromExtent(n, n+1, l, 2*l)
			require.NoError(t, err)

			lx, ly := g.Extent()
			assert.InDelta(t, l, lx, 1e-12*l)
			assert.InDelta(t, 2*l, ly, 1e-12*l)
			assert.InDelta(t, l, g.DX()*float64(g.NX()), 1e-12*l)
		}
	}
}

// TestBuild_Combinations exercises every pair of descriptions and the full triple.
func TestBuild_Combinations(t *testing.T) {
	g1, err := grid.Build(grid.WithCount(100, 50), grid.WithPitch(1e-5, 2e-5))
	require.NoError(t, err)
	lx, ly := g1.Extent()
	assert.InDelta(t, 1e-3, lx, 1e-15)
	assert.InDelta(t, 1e-3, ly, 1e-15)

	g2, err := grid.Build(grid.WithPitch(1e-5, 2e-5), grid.WithExtent(1e-3, 1e-3))
	require.NoError(t, err)
	assert.Equal(t, 100, g2.NX())
	assert.Equal(t, 50, g2.NY())

	g3, err := grid.Build(grid.WithCount(100, 50), grid.WithPitch(1e-5, 2e-5), grid.WithExtent(1e-3, 1e-3))
	require.NoError(t, err)
	assert.True(t, g1.Equal(g3, grid.DefaultTolerance))
	assert.True(t, g2.Equal(g3, grid.DefaultTolerance))
}

// TestBuild_Inconsistent rejects a triple that disagrees beyond tolerance.
func TestBuild_Inconsistent(t *testing.T) {
	_, err := grid.Build(grid.WithCount(100, 100), grid.WithPitch(1e-5, 1e-5), grid.WithExtent(1.01e-3, 1e-3))
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)

	// A looser tolerance accepts the same triple.
	_, err = grid.Build(grid.WithCount(100, 100), grid.WithPitch(1e-5, 1e-5), grid.WithExtent(1.01e-3, 1e-3), grid.WithTolerance(0.02))
	assert.NoError(t, err)

	// Pitch that does not divide the extent.
	_, err = grid.Build(grid.WithPitch(3e-5, 1e-5), grid.WithExtent(1e-3, 1e-3))
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)
}

// TestBuild_Underdetermined requires at least two descriptions.
func TestBuild_Underdetermined(t *testing.T) {
	_, err := grid.Build(grid.WithCount(10, 10))
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)
}

// TestWithTolerance_Panics guards the programmer-error path.
func TestWithTolerance_Panics(t *testing.T) {
	assert.Panics(t, func() { grid.WithTolerance(-1) })
	assert.Panics(t, func() { grid.WithTolerance(math.Inf(1)) })
}

// TestCoordinates verifies centered coordinates for odd and even counts.
func TestCoordinates(t *testing.T) {
	even, err := grid.New(4, 3, 1, 2, grid.WithOrigin(10, -5))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{8, 9, 10, 11}, even.X(), 1e-12)
	assert.InDeltaSlice(t, []float64{-7, -5, -3}, even.Y(), 1e-12)

	cx, cy := even.Center()
	assert.Equal(t, 2, cx)
	assert.Equal(t, 1, cy)
	assert.Equal(t, 10.0, even.XAt(cx))
	assert.Equal(t, -5.0, even.YAt(cy))

	single, err := grid.New(1, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, single.X())
}

// TestFreq matches numpy.fft.fftfreq ordering and spacing.
func TestFreq(t *testing.T) {
	g, err := grid.New(5, 4, 0.5, 0.25)
	require.NoError(t, err)

	// fftfreq(5, 0.5) = [0, 0.4, 0.8, -0.8, -0.4]
	assert.InDeltaSlice(t, []float64{0, 0.4, 0.8, -0.8, -0.4}, g.FreqX(), 1e-12)
	// fftfreq(4, 0.25) = [0, 1, -2, -1]
	assert.InDeltaSlice(t, []float64{0, 1, -2, -1}, g.FreqY(), 1e-12)

	dfx, dfy := g.FreqSpacing()
	assert.InDelta(t, 0.4, dfx, 1e-12)
	assert.InDelta(t, 1.0, dfy, 1e-12)
}

// TestDerivedGridsAreNewValues ensures derivations never alter the receiver.
func TestDerivedGridsAreNewValues(t *testing.T) {
	g, err := grid.New(8, 8, 1e-6, 1e-6)
	require.NoError(t, err)

	p, err := g.Padded(2)
	require.NoError(t, err)
	assert.Equal(t, 16, p.NX())
	assert.Equal(t, 8, g.NX())

	r, err := g.WithPitch(2e-6, 3e-6)
	require.NoError(t, err)
	assert.Equal(t, 2e-6, r.DX())
	assert.Equal(t, 1e-6, g.DX())

	s, err := g.Shifted(1e-3, 0)
	require.NoError(t, err)
	x0, _ := s.Origin()
	assert.Equal(t, 1e-3, x0)
	assert.False(t, g.Equal(s, grid.DefaultTolerance))
	assert.True(t, g.SamePitch(s, grid.DefaultTolerance))

	_, err = g.Padded(0)
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)
	_, err = g.WithCount(0, 1)
	assert.ErrorIs(t, err, grid.ErrInvalidGrid)
}

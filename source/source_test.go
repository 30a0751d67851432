// SPDX-License-Identifier: MIT

package source_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waveprop/grid"
	"github.com/katalvlaran/waveprop/source"
)

const pitch = 1e-5

func newGrid(t *testing.T, n int) grid.Grid {
	t.Helper()
	g, err := grid.New(n, n, pitch, pitch)
	require.NoError(t, err)

	return g
}

func area(u []complex128) float64 {
	var s float64
	for _, v := range u {
		s += real(v)
	}

	return s * pitch * pitch
}

func TestCircle_Area(t *testing.T) {
	g := newGrid(t, 128)
	r := 40 * pitch
	u, err := source.Circle(g, r, source.WithSupersample(8))
	require.NoError(t, err)
	require.Len(t, u, g.Size())
	assert.InDelta(t, math.Pi*r*r, area(u), 0.002*math.Pi*r*r)

	cx, cy := g.Center()
	assert.Equal(t, complex(1, 0), u[cy*128+cx])
	assert.Equal(t, complex(0, 0), u[0])
}

func TestRectangle_HalfPixelEdges(t *testing.T) {
	g := newGrid(t, 32)
	u, err := source.Rectangle(g, 10*pitch, 6*pitch, source.WithSupersample(4))
	require.NoError(t, err)
	assert.InDelta(t, 60*pitch*pitch, area(u), 1e-20)

	cx, cy := g.Center()
	assert.Equal(t, complex(0.5, 0), u[cy*32+cx+5], "edge pixel half covered")
}

func TestWithCenter(t *testing.T) {
	g := newGrid(t, 32)
	u, err := source.Gaussian(g, 3*pitch, source.WithCenter(4*pitch, -2*pitch))
	require.NoError(t, err)

	cx, cy := g.Center()
	assert.InDelta(t, 1.0, real(u[(cy-2)*32+cx+4]), 1e-12)
	assert.Less(t, real(u[cy*32+cx]), 0.5)

	c, err := source.Circle(g, 2*pitch, source.WithCenter(-8*pitch, 0))
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), c[cy*32+cx-8])
	assert.Equal(t, complex(0, 0), c[cy*32+cx])
}

func TestPoint(t *testing.T) {
	g := newGrid(t, 16)
	u, err := source.Point(g, 0.4*pitch, -1.2*pitch)
	require.NoError(t, err)

	cx, cy := g.Center()
	peak := u[(cy-1)*16+cx]
	assert.InEpsilon(t, 1/(pitch*pitch), real(peak), 1e-12)
	assert.Zero(t, imag(peak))
	assert.InDelta(t, 1.0, area(u), 1e-12)

	_, err = source.Point(g, 100*pitch, 0)
	assert.ErrorIs(t, err, source.ErrOutsideWindow)
}

func TestInvalidParameters(t *testing.T) {
	g := newGrid(t, 8)
	_, err := source.Circle(g, 0)
	assert.ErrorIs(t, err, source.ErrInvalidParameter)
	_, err = source.Rectangle(g, pitch, math.Inf(1))
	assert.ErrorIs(t, err, source.ErrInvalidParameter)
	_, err = source.Gaussian(g, math.NaN())
	assert.ErrorIs(t, err, source.ErrInvalidParameter)
	_, err = source.Circle(grid.Grid{}, pitch)
	assert.ErrorIs(t, err, source.ErrInvalidParameter)
	_, err = source.Point(grid.Grid{}, 0, 0)
	assert.ErrorIs(t, err, source.ErrInvalidParameter)

	assert.Panics(t, func() { source.WithSupersample(0) })
	assert.Panics(t, func() { source.WithCenter(math.NaN(), 0) })
}

// SPDX-License-Identifier: MIT
// Package: field
//
// Purpose:
//   - Single source of truth for construction guards (wavelength, shape,
//     finiteness), shared by New, NewFlat, FromFunc and the resamplers.
//   - Return plain sentinels; constructors wrap them with their tag.

package field

import (
	"math"
	"math/cmplx"

	"github.com/katalvlaran/waveprop/grid"
)

// ValidateWavelength rejects non-positive, NaN and infinite wavelengths.
// Complexity: O(1).
func ValidateWavelength(wavelength float64) error {
	if !(wavelength > 0) || math.IsInf(wavelength, 0) {
		return ErrInvalidWavelength
	}

	return nil
}

// ValidateGrid rejects the zero-value Grid.
func ValidateGrid(g grid.Grid) error {
	if g.IsZero() {
		return ErrInvalidGrid
	}

	return nil
}

// ValidateRows checks that values is a rectangular ny×nx array for g.
// Complexity: O(ny).
func ValidateRows(values [][]complex128, g grid.Grid) error {
	rows, cols := g.Shape()
	if len(values) != rows {
		return ErrShapeMismatch
	}
	for _, row := range values {
		if len(row) != cols {
			return ErrShapeMismatch
		}
	}

	return nil
}

// ValidateFlat checks that a row-major buffer has exactly g.Size() samples.
func ValidateFlat(data []complex128, g grid.Grid) error {
	if len(data) != g.Size() {
		return ErrShapeMismatch
	}

	return nil
}

// ValidateFinite rejects any NaN or ±Inf component.
// Complexity: O(n).
func ValidateFinite(data []complex128) error {
	for _, v := range data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return ErrNonFinite
		}
	}

	return nil
}

// ValidateSameGrid checks that two fields share a lattice within tol.
func ValidateSameGrid(a, b *Field, tol float64) error {
	if !a.g.Equal(b.g, tol) {
		return ErrShapeMismatch
	}

	return nil
}

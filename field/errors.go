// SPDX-License-Identifier: MIT
// Package field: sentinel error set.
// Every message is prefixed with "field: ..."; methods wrap the sentinel
// with their own tag through fieldErrorf so callers still match with errors.Is.

package field

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when an array's shape disagrees with the
	// Grid's sample counts, when two fields live on different grids, or when a
	// Fourier resample is asked to change the window extent.
	ErrShapeMismatch = errors.New("field: shape mismatch")

	// ErrInvalidWavelength signals a non-positive or non-finite wavelength.
	ErrInvalidWavelength = errors.New("field: wavelength must be positive and finite")

	// ErrNonFinite signals a NaN or ±Inf sample at construction.
	ErrNonFinite = errors.New("field: NaN or Inf sample")

	// ErrZeroEnergy is returned by Normalize for an all-zero field.
	ErrZeroEnergy = errors.New("field: zero total power")

	// ErrOutOfRange indicates a sample index outside the grid.
	ErrOutOfRange = errors.New("field: index out of range")

	// ErrInvalidMethod is returned by Resample for an unknown ResampleMethod.
	ErrInvalidMethod = errors.New("field: unknown resample method")

	// ErrInvalidGrid signals a zero-value Grid passed to a constructor.
	ErrInvalidGrid = errors.New("field: grid is not initialized")
)

// fieldErrorf wraps a sentinel with the method tag.
func fieldErrorf(method string, err error) error {
	return fmt.Errorf("Field.%s: %w", method, err)
}

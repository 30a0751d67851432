// SPDX-License-Identifier: MIT
// Package: waveprop/source
//
// errors.go - sentinel errors for the source package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Generators attach context with %w; option constructors panic instead.

package source

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter indicates a non-positive or non-finite size (radius,
// width, waist) or a zero-value grid.
var ErrInvalidParameter = errors.New("source: invalid parameter")

// ErrOutsideWindow indicates a point source placed outside the grid window.
var ErrOutsideWindow = errors.New("source: point outside window")

// wrapf attaches the generator name and a detail to a sentinel.
func wrapf(method, detail string, err error) error {
	return fmt.Errorf("source.%s: %s: %w", method, detail, err)
}

// SPDX-License-Identifier: MIT
// Package kernel: sentinel error set.
// Builders wrap these with their own tag through kernelErrorf, so callers
// match with errors.Is regardless of the context added.

package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMethod is returned when a method cannot serve the given
	// parameters: Fraunhofer or direct integration with z ≤ 0, two-step with
	// unit or anisotropic magnification, paraxial methods outside the paraxial
	// limit, or an unknown method name.
	ErrUnsupportedMethod = errors.New("kernel: unsupported method for parameters")

	// ErrInvalidDistance signals a NaN or infinite propagation distance.
	ErrInvalidDistance = errors.New("kernel: distance must be finite")

	// ErrInputMismatch is returned by Apply when the input length does not
	// match the kernel's source lattice, and by DirectPoints for unpaired
	// coordinate slices.
	ErrInputMismatch = errors.New("kernel: input does not match kernel lattice")
)

// kernelErrorf wraps err with the builder tag.
func kernelErrorf(tag string, err error) error {
	return fmt.Errorf("kernel.%s: %w", tag, err)
}

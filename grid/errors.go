// SPDX-License-Identifier: MIT

package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrid is returned when a lattice description is non-positive,
	// non-finite, underdetermined, or when count, pitch and extent disagree
	// beyond the configured tolerance.
	ErrInvalidGrid = errors.New("grid: invalid grid")
)

// gridErrorf attaches the constructor/method tag and a short reason to a sentinel.
func gridErrorf(tag, reason string, err error) error {
	return fmt.Errorf("grid.%s: %s: %w", tag, reason, err)
}

// SPDX-License-Identifier: MIT

package sampling

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned by Check when the request cannot be evaluated:
// zero grid, invalid wavelength, non-finite distance, Auto method, or an
// impossible two-step geometry.
var ErrInvalidRequest = errors.New("sampling: invalid request")

func samplingErrorf(format string, args ...any) error {
	return fmt.Errorf("sampling.Check: "+format+": %w", append(args, ErrInvalidRequest)...)
}

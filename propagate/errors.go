// SPDX-License-Identifier: MIT
// Package: waveprop/propagate
//
// errors.go - sentinel errors and the structured sampling failure.
//
// Error policy:
//   • Sentinels are matched with errors.Is; kernel and field errors pass
//     through wrapped, so kernel.ErrUnsupportedMethod stays matchable.
//   • A failed sampling check surfaces as *SamplingError, which carries the
//     full report and unwraps to ErrSamplingViolation.

package propagate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/waveprop/sampling"
)

var (
	// ErrSamplingViolation indicates the source lattice cannot represent the
	// requested propagation and auto-resize was not requested.
	ErrSamplingViolation = errors.New("propagate: sampling violation")

	// ErrNonFiniteResult indicates a NaN or Inf sample in the propagated field.
	ErrNonFiniteResult = errors.New("propagate: non-finite result")

	// ErrPlanState indicates a Plan used out of order (executed twice).
	ErrPlanState = errors.New("propagate: plan in wrong state")
)

// SamplingError reports the failed check in full.
type SamplingError struct {
	Report sampling.Report
}

func (e *SamplingError) Error() string {
	parts := make([]string, len(e.Report.Violations))
	for i, v := range e.Report.Violations {
		parts[i] = v.String()
	}
	msg := fmt.Sprintf("%v: %s: %s", ErrSamplingViolation, e.Report.Method, strings.Join(parts, "; "))
	if e.Report.Recommended != nil {
		msg += fmt.Sprintf(" (recommended %v)", *e.Report.Recommended)
	}

	return msg
}

func (e *SamplingError) Unwrap() error { return ErrSamplingViolation }

// propErrorf prefixes err with the operation name.
func propErrorf(op string, err error) error {
	return fmt.Errorf("propagate.%s: %w", op, err)
}

// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"strings"
)

// Method names a propagation algorithm.
type Method int

const (
	// Auto lets the propagator choose from the Fresnel number and target grid.
	Auto Method = iota
	// AngularSpectrum multiplies the spectrum by the exact free-space transfer function.
	AngularSpectrum
	// FresnelOneStep multiplies the spectrum by the paraxial transfer function.
	FresnelOneStep
	// FresnelTwoStep chains two Fresnel transforms to change the output pitch.
	FresnelTwoStep
	// Fraunhofer evaluates the far-field closed form.
	Fraunhofer
	// DirectIntegration convolves with the Rayleigh–Sommerfeld impulse response.
	DirectIntegration
)

var methodNames = map[Method]string{
	Auto:              "auto",
	AngularSpectrum:   "angular-spectrum",
	FresnelOneStep:    "fresnel-one-step",
	FresnelTwoStep:    "fresnel-two-step",
	Fraunhofer:        "fraunhofer",
	DirectIntegration: "direct-integration",
}

// methodAliases are the short spellings accepted by ParseMethod.
var methodAliases = map[string]Method{
	"as":       AngularSpectrum,
	"fresnel":  FresnelOneStep,
	"two-step": FresnelTwoStep,
	"far":      Fraunhofer,
	"di":       DirectIntegration,
	"rs":       DirectIntegration,
}

// String implements fmt.Stringer.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a name (case-insensitive, "_" and "-" interchangeable) to a
// Method. Unknown names return ErrUnsupportedMethod.
func ParseMethod(s string) (Method, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for m, name := range methodNames {
		if name == key {
			return m, nil
		}
	}
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}

	return Auto, kernelErrorf("ParseMethod", fmt.Errorf("%q: %w", s, ErrUnsupportedMethod))
}

// Domain tells where a kernel's values live and how Apply uses them.
type Domain int

const (
	// Frequency kernels are transfer functions in FFT order on the padded lattice.
	Frequency Domain = iota
	// Spatial kernels are sampled impulse responses used for FFT convolution.
	Spatial
	// ClosedForm kernels are phase factors around centered Fourier transforms.
	ClosedForm
)

// String implements fmt.Stringer.
func (d Domain) String() string {
	switch d {
	case Frequency:
		return "frequency"
	case Spatial:
		return "spatial"
	case ClosedForm:
		return "closed-form"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

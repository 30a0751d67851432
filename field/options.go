// SPDX-License-Identifier: MIT

package field

// DefaultPosition is the axial position assigned when WithPosition is not used.
const DefaultPosition = 0.0

// DefaultSupportThreshold is the relative intensity above which a sample
// counts as part of the aperture in SupportHalfWidth.
const DefaultSupportThreshold = 1e-4

// Option configures field construction.
type Option func(*options)

type options struct {
	z float64
}

// WithPosition sets the axial position z of the constructed field.
func WithPosition(z float64) Option {
	return func(o *options) { o.z = z }
}

func gatherOptions(opts ...Option) options {
	o := options{z: DefaultPosition}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

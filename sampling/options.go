// SPDX-License-Identifier: MIT

package sampling

// DefaultMaxSamples caps the per-axis sample count of a recommended grid.
// Recommendations above it are dropped (Report.Recommended == nil).
const DefaultMaxSamples = 8192

const panicMaxSamples = "sampling: WithMaxSamples: n must be >= 1"

// Option configures Check.
type Option func(*options)

type options struct {
	maxSamples int
}

// WithMaxSamples replaces DefaultMaxSamples. Panics when n < 1.
func WithMaxSamples(n int) Option {
	if n < 1 {
		panic(panicMaxSamples)
	}

	return func(o *options) { o.maxSamples = n }
}

func gatherOptions(opts ...Option) options {
	o := options{maxSamples: DefaultMaxSamples}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

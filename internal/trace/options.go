package trace

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	logger *zap.Logger
	seed   uint64
}

// Option configures decoding and indexing.
type Option func(*options)

// WithLogger sets the logger that receives diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithColorSeed fixes the seed of the per-function colour source.
// A zero seed keeps the time-based default.
func WithColorSeed(seed uint64) Option {
	return func(o *options) {
		if seed != 0 {
			o.seed = seed
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		seed:   uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

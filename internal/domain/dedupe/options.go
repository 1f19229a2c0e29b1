package dedupe

type options struct {
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*options)

// WithMaxSize sets the maximum number of ids to remember.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}

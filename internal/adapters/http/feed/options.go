package feed

import "github.com/okian/dynasty/pkg/logger"

// Option configures a Hub.
type Option func(*Hub)

// WithBuffer sets how many messages each subscriber may fall behind before
// it is disconnected. Values <= 0 are ignored.
func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

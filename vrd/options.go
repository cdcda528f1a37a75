package vrd

import (
	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"
)

// options defines the configuration of a capture context.
type options struct {
	level       int         // deflate level when compression is on
	bufferSize  int         // output buffer between the sink and the file
	keyWidth    int         // entity key bits; 1-32 map arithmetically
	maxEntities int         // limit on distinct keys in 64-bit mode, 0 = id space
	logger      *zap.Logger // diagnostics; never nil after defaults
}

// Option configures a capture context.
type Option func(*options)

// WithCompressionLevel sets the deflate level used when compression is on.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithBufferSize sets the size of the output buffer in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithKeyWidth sets the width in bits of entity keys. Widths from 1 to 32
// map keys arithmetically (id = key+1) with no table, and keys wider than
// the width fail the context with ErrKeyOutOfRange. Any other value selects
// 64-bit keys.
func WithKeyWidth(bits int) Option {
	return func(o *options) {
		o.keyWidth = bits
	}
}

// WithMaxEntities caps the number of distinct keys a 64-bit context will
// map. Once reached, the context fails with ErrEntityMapFull.
func WithMaxEntities(n int) Option {
	return func(o *options) {
		o.maxEntities = n
	}
}

// WithLogger sets the logger used for lifecycle and failure diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		level:      flate.BestSpeed,
		bufferSize: DefaultBufferSize,
		keyWidth:   64,
		logger:     zap.NewNop(),
	}
}

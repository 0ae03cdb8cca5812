package fsblob

import (
	"log/slog"
	"time"
)

// DefaultCheckConcurrency is the number of staleness checks Check runs at once.
const DefaultCheckConcurrency = 8

// Option configures a Blob or File.
type Option func(*options)

type options struct {
	typ              string
	lastModified     time.Time
	logger           *slog.Logger
	checkConcurrency int
}

func newOptions(opts []Option) *options {
	o := &options{checkConcurrency: DefaultCheckConcurrency}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.checkConcurrency <= 0 {
		o.checkConcurrency = DefaultCheckConcurrency
	}
	return o
}

// WithType sets the MIME type. Types containing characters outside
// printable ASCII are replaced by the empty string; others are lowercased.
func WithType(typ string) Option {
	return func(o *options) {
		o.typ = typ
	}
}

// WithLastModified sets the modification time reported by a File.
// By default NewFile uses the current time. Blobs ignore this option.
func WithLastModified(t time.Time) Option {
	return func(o *options) {
		o.lastModified = t
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCheckConcurrency sets how many parts Check validates in parallel.
// Values <= 0 use DefaultCheckConcurrency.
func WithCheckConcurrency(n int) Option {
	return func(o *options) {
		o.checkConcurrency = n
	}
}

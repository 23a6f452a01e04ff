package native

import "go.uber.org/zap"

// DefaultMaxFrames is the default limit on stack cells held at once.
const DefaultMaxFrames = 1024

type options struct {
	log       *zap.Logger
	maxFrames int
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMaxFrames limits the number of stack cells held at once.
func WithMaxFrames(n int) Option {
	return func(o *options) { o.maxFrames = n }
}

func buildOptions(opts []Option) options {
	o := options{maxFrames: DefaultMaxFrames}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Stats is a snapshot of runtime bookkeeping.
type Stats struct {
	Live     int // initialized objects, stack and heap
	HeapLive int // objects created by New and not yet deleted
	Frames   int // reserved stack cells
}

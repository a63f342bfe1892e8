package intervals

import "github.com/go-logr/logr"

const defaultDegree = 32

type options struct {
	degree int
	log    logr.Logger
}

type Option func(*options)

// WithDegree sets the degree of the btrees backing the store.
func WithDegree(degree int) Option {
	return func(o *options) {
		if degree >= 2 {
			o.degree = degree
		}
	}
}

// WithLogger sets the logger merge decisions are reported to at V(1).
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(opts []Option) options {
	o := options{
		degree: defaultDegree,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

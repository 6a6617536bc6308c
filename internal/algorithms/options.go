package algorithms

// Option tunes how a filter call executes. Options never change the result.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers splits output rows over n goroutines. n <= 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func buildOptions(opts []Option) options {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

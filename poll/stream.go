package poll

import "context"

// ResultStream is a lazy, finite, single-pass pull sequence of Results
// (spec §4.6, §9 "Generator result stream"). The engine goroutine produces
// into an unbuffered channel; the consumer pulls with Next or ranges with
// All. If the consumer stops pulling, the engine goroutine blocks on its
// next send and stays blocked, holding its socket; it is not reclaimed when
// the stream is abandoned. There is no explicit cancel channel in the core
// (spec §4.6); a context supplied to Poll stops the engine only between loop
// iterations, not while it is blocked on a send.
type ResultStream struct {
	results <-chan Result
	done    <-chan struct{}
	err     *error
}

// Next pulls the next Result. ok is false once the stream is exhausted
// (every walk completed, timed out, or was abandoned) or ctx is done.
func (s *ResultStream) Next(ctx context.Context) (Result, bool) {
	select {
	case r, open := <-s.results:
		if !open {
			return Result{}, false
		}
		return r, true
	case <-ctx.Done():
		return Result{}, false
	case <-s.done:
		return Result{}, false
	}
}

// All returns a range-over-func iterator for idiomatic `for r := range
// stream.All(ctx)` consumption (Go 1.23+). This is a thin wrapper over
// Next; it adds no behaviour of its own, so it needs no separate grounding
// beyond spec §9's "pull-based lazy sequence abstraction" note.
func (s *ResultStream) All(ctx context.Context) func(func(Result) bool) {
	return func(yield func(Result) bool) {
		for {
			r, ok := s.Next(ctx)
			if !ok {
				return
			}
			if !yield(r) {
				return
			}
		}
	}
}

// Err returns the fatal error that stopped the engine early, if any (spec
// §7: "Socket I/O fatal ... propagate to caller as fatal; loop
// terminates."). Err should be checked once the stream is exhausted.
func (s *ResultStream) Err() error {
	if s.err == nil {
		return nil
	}
	return *s.err
}

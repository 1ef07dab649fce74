package readahead

import (
	"context"
	"io"
	"iter"
)

// FromSeq creates a stream from a range-over-func sequence. The
// sequence is driven lazily via iter.Pull; stopping the stream
// releases the underlying coroutine.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	next, stop := iter.Pull(seq)
	return &Stream[T]{
		next: func(ctx context.Context) (T, error) {
			var zero T
			if err := ctx.Err(); err != nil {
				return zero, err
			}
			v, ok := next()
			if !ok {
				return zero, io.EOF
			}
			return v, nil
		},
		stop: stop,
	}
}

// Seq exposes the stream as a range-over-func sequence of value/error
// pairs. Exhaustion ends the sequence without yielding a pair; any
// other error is yielded once as the final pair. The upstream is
// stopped when the range body breaks early.
func (s *Stream[T]) Seq(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Stop()
		for {
			val, err := s.Next(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(val, nil) {
				return
			}
		}
	}
}

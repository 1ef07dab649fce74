package readahead

import (
	"context"
	"io"
)

// Map transforms a stream using a function.
// Note: This is a function and not a method because Go does not support
// generic methods on generic types.
func Map[A, B any](s *Stream[A], fn func(context.Context, A) (B, error)) *Stream[B] {
	return &Stream[B]{
		next: func(ctx context.Context) (B, error) {
			val, err := s.Next(ctx)
			if err != nil {
				var zero B
				return zero, err
			}
			return fn(ctx, val)
		},
		stop: s.Stop,
	}
}

// Batch groups items into slices of size n. The final batch may hold
// fewer than n items.
//
// Panics if n is not positive.
func Batch[T any](s *Stream[T], n int) *Stream[[]T] {
	if n <= 0 {
		panic("readahead: Batch requires n > 0")
	}
	return &Stream[[]T]{
		next: func(ctx context.Context) ([]T, error) {
			var batch []T
			for i := 0; i < n; i++ {
				val, err := s.Next(ctx)
				if err != nil {
					if err == io.EOF {
						if len(batch) > 0 {
							return batch, nil
						}
						return nil, io.EOF
					}
					return nil, err
				}
				batch = append(batch, val)
			}
			return batch, nil
		},
		stop: s.Stop,
	}
}

// Reduce folds the stream into a single value, applying fn to the
// accumulator and each item in order.
func Reduce[T, R any](ctx context.Context, s *Stream[T], initial R, fn func(R, T) R) (R, error) {
	acc := initial
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return acc, s.Err()
		}
		if err != nil {
			return acc, err
		}
		acc = fn(acc, val)
	}
}

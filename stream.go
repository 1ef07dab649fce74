package readahead

import (
	"context"
	"io"
	"sync"
)

// Stream represents a pull-based, composable data stream.
//
// Note: Streams are single-consumer. Next() and other terminal methods
// must not be called concurrently.
type Stream[T any] struct {
	next func(ctx context.Context) (T, error)
	stop func()
	err  error
	mu   sync.Mutex
}

// NewStream creates a new stream from an iterator function. The
// function should return io.EOF when the stream is exhausted.
func NewStream[T any](next func(context.Context) (T, error)) *Stream[T] {
	return &Stream[T]{next: next}
}

// FromFunc creates a stream from a function.
func FromFunc[T any](fn func(context.Context) (T, error)) *Stream[T] {
	return NewStream(fn)
}

// FromSlice creates a stream from a slice.
func FromSlice[T any](items []T) *Stream[T] {
	var idx int
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}
		if idx >= len(items) {
			var zero T
			return zero, io.EOF
		}
		val := items[idx]
		idx++
		return val, nil
	})
}

// FromChan creates a stream from a channel. The stream is exhausted
// when the channel is closed.
func FromChan[T any](ch <-chan T) *Stream[T] {
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				var zero T
				return zero, io.EOF
			}
			return v, nil
		}
	})
}

// Next returns the next item in the stream.
// Returns io.EOF when the stream is exhausted.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	val, err := s.next(ctx)
	if err != nil && err != io.EOF {
		s.setError(err)
	}
	return val, err
}

// Err returns the first non-EOF error observed by the stream.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream[T]) setError(err error) {
	if err == nil || err == io.EOF {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Stop releases any resources held upstream of the stream, such as a
// readahead producer goroutine or an iter.Pull coroutine. It is safe
// to call at any time, any number of times, including before the first
// Next. Consumers that abandon a stream before exhausting it should
// call Stop.
func (s *Stream[T]) Stop() {
	if s.stop != nil {
		s.stop()
	}
}

// Filter keeps only the items for which fn returns true.
func (s *Stream[T]) Filter(fn func(T) bool) *Stream[T] {
	return &Stream[T]{
		next: func(ctx context.Context) (T, error) {
			for {
				val, err := s.Next(ctx)
				if err != nil {
					return val, err
				}
				if fn(val) {
					return val, nil
				}
			}
		},
		stop: s.Stop,
	}
}

// Take limits the stream to n items. Once the limit is reached the
// upstream is stopped, so a producer feeding the stream does not keep
// running ahead of a consumer that will never pull again.
func (s *Stream[T]) Take(n int) *Stream[T] {
	var idx int
	var stopped bool
	return &Stream[T]{
		next: func(ctx context.Context) (T, error) {
			if idx >= n {
				if !stopped {
					stopped = true
					s.Stop()
				}
				var zero T
				return zero, io.EOF
			}
			val, err := s.Next(ctx)
			if err != nil {
				return val, err
			}
			idx++
			return val, nil
		},
		stop: s.Stop,
	}
}

// Skip skips the first n items in the stream.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	var skipped int
	return &Stream[T]{
		next: func(ctx context.Context) (T, error) {
			for skipped < n {
				_, err := s.Next(ctx)
				if err != nil {
					var zero T
					return zero, err
				}
				skipped++
			}
			return s.Next(ctx)
		},
		stop: s.Stop,
	}
}

// Peek allows inspecting items as they pass through the stream.
func (s *Stream[T]) Peek(fn func(T)) *Stream[T] {
	return &Stream[T]{
		next: func(ctx context.Context) (T, error) {
			val, err := s.Next(ctx)
			if err == nil {
				fn(val)
			}
			return val, err
		},
		stop: s.Stop,
	}
}

// ToSlice collects all items in the stream into a slice.
func (s *Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return items, s.Err()
		}
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
}

// Collect is an alias for ToSlice.
func (s *Stream[T]) Collect(ctx context.Context) ([]T, error) {
	return s.ToSlice(ctx)
}

// ForEach applies a function to each item in the stream.
func (s *Stream[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return s.Err()
		}
		if err != nil {
			return err
		}
		if err := fn(val); err != nil {
			return err
		}
	}
}

// Count counts the number of items in the stream.
func (s *Stream[T]) Count(ctx context.Context) (int, error) {
	var count int
	for {
		_, err := s.Next(ctx)
		if err == io.EOF {
			return count, s.Err()
		}
		if err != nil {
			return 0, err
		}
		count++
	}
}

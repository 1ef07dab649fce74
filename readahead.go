package readahead

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ErrDepth is returned by [New] when the requested depth is not positive.
var ErrDepth = errors.New("readahead: depth must be positive")

// item is the unit carried on the handoff channel: either a value
// pulled from the source, or the error that ended production early.
type item[T any] struct {
	val T
	err error
}

// Readahead runs a source stream on a dedicated goroutine so that
// production runs ahead of consumption, while items are still
// delivered to the consumer strictly in source order.
//
// The producer goroutine pulls from the source and forwards each item
// through a bounded channel; it blocks when the channel is full
// (backpressure) and exits when the source is exhausted, the source
// fails, or [Readahead.Close] is called.
//
// Note: like [Stream], a Readahead is single-consumer. Next must not
// be called concurrently.
type Readahead[T any] struct {
	ch       <-chan item[T]
	cancel   context.CancelFunc
	done     chan struct{}
	finished bool
	once     sync.Once
}

// New applies a threaded readahead to a stream.
//
// Ownership of src moves to the producer goroutine; the caller must
// not pull from src again and should consume the returned handle
// instead. Up to depth items are buffered between producer and
// consumer. The producer may hold one further item while it waits for
// buffer space, so at most depth+1 items exist ahead of the consumer
// at any time, regardless of how large (or infinite) the source is.
//
// New returns [ErrDepth] if depth is not positive; no goroutine is
// spawned in that case. Panics if src is nil.
func New[T any](src *Stream[T], depth int) (*Readahead[T], error) {
	if src == nil {
		panic("readahead: New requires non-nil source stream")
	}
	if depth < 1 {
		return nil, ErrDepth
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan item[T], depth)
	r := &Readahead[T]{
		ch:     ch,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.produce(ctx, src, ch)
	return r, nil
}

// produce is the body of the producer goroutine. It drains src onto ch
// and has exactly two clean exits: source exhaustion (or failure,
// forwarded as an item), and cancellation via Close. A panic while
// pulling from src is recovered here and forwarded as a *PanicError.
func (r *Readahead[T]) produce(ctx context.Context, src *Stream[T], ch chan<- item[T]) {
	defer close(r.done)
	defer close(ch)
	defer func() {
		if v := recover(); v != nil {
			select {
			case ch <- item[T]{err: newPanicError(v)}:
			case <-ctx.Done():
			}
			return
		}
		// Clean exit: release whatever the source holds upstream
		// (a nested producer, an iter.Pull coroutine).
		src.Stop()
	}()

	for {
		val, err := src.Next(ctx)
		switch {
		case err == nil:
			select {
			case ch <- item[T]{val: val}:
			case <-ctx.Done():
				return
			}
		case errors.Is(err, io.EOF):
			return
		case ctx.Err() != nil:
			// The consumer went away while the source was blocked;
			// exit silently rather than reporting its context error.
			return
		default:
			select {
			case ch <- item[T]{err: err}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// Next returns the next item in source order, or io.EOF once the
// source is exhausted. After exhaustion has been reported, every
// further call returns io.EOF without touching the channel again.
//
// If the source failed (returned a non-EOF error, or panicked) the
// first Next after the failure returns that error exactly once, as a
// *PanicError in the panic case; subsequent calls return io.EOF.
//
// A canceled ctx unblocks the call with ctx.Err() without ending the
// stream; the item stays buffered for a later pull.
func (r *Readahead[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if r.finished {
		return zero, io.EOF
	}
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case it, ok := <-r.ch:
		if !ok {
			r.finished = true
			return zero, io.EOF
		}
		if it.err != nil {
			r.finished = true
			return zero, it.err
		}
		return it.val, nil
	}
}

// Close signals the producer goroutine to stop. It is the Go analogue
// of dropping the handle: safe to call at any time (including right
// after New, with zero pulls performed), idempotent, and it never
// blocks waiting for the goroutine to exit. A producer blocked on a
// full buffer or on a context-aware source unblocks promptly.
//
// Items already buffered remain readable by Next until the channel
// drains; use [Readahead.Done] to observe producer exit.
func (r *Readahead[T]) Close() { r.once.Do(r.cancel) }

// Done returns a channel that is closed once the producer goroutine
// has exited, whether by exhaustion, failure, or Close.
func (r *Readahead[T]) Done() <-chan struct{} { return r.done }

// Stream adapts the handle to a [Stream], so the readahead output
// composes with Filter, Take, Map, and the other stream operations.
// Stopping the returned stream closes the handle.
func (r *Readahead[T]) Stream() *Stream[T] {
	return &Stream[T]{next: r.Next, stop: r.Close}
}

// Readahead is the fluent form of [New]: it moves the stream onto a
// producer goroutine and returns the consumer-facing stream.
//
//	sum, err := readahead.FromSlice(items).Readahead(10).Count(ctx)
//
// Panics if depth is not positive; use [New] for an error return.
func (s *Stream[T]) Readahead(depth int) *Stream[T] {
	r, err := New(s, depth)
	if err != nil {
		panic("readahead: depth must be positive")
	}
	return r.Stream()
}

// Package readahead evaluates a pull-based stream on a dedicated
// goroutine, so that producing the next items overlaps with the
// consumer's own work, while items are still delivered strictly in
// source order.
//
// This is useful when pulling from the source does IO or burns CPU in
// a way that can run in parallel with the main goroutine: opening
// files, decompressing blocks, fetching pages. The consumer sees an
// ordinary [Stream]; only the timing changes.
//
// # Wrapping a Stream
//
// [New] moves a source [Stream] onto a producer goroutine and returns
// a [Readahead] handle; the fluent [Stream.Readahead] does the same
// inline in a chain:
//
//	lines, err := readahead.FromSlice(paths).
//	    Readahead(5).
//	    ForEach(ctx, countLines)
//
// depth bounds how far production runs ahead: up to depth items are
// buffered, plus at most one more held by the producer while it waits
// for buffer space. The producer blocks when the buffer is full
// (backpressure), so memory stays bounded even for infinite sources.
//
// # Streams
//
// [Stream] provides a pull-based, composable pipeline. Create streams
// with [NewStream], [FromSlice], [FromChan], [FromFunc], or [FromSeq].
// Chains of [Stream.Filter], [Stream.Take], [Stream.Skip],
// [Stream.Peek], [Map], and [Batch] are evaluated lazily. [Reduce]
// folds a stream into a single value. Terminal methods
// ([Stream.ToSlice], [Stream.ForEach], [Stream.Count]) return partial
// results alongside any error, following [io.Reader] conventions.
//
// Streams are single-consumer; Next must not be called concurrently.
//
// # Early Termination
//
// Consumers that abandon a wrapped stream before exhausting it call
// [Stream.Stop] (or [Readahead.Close]); [Stream.Take] does this
// automatically once its limit is reached. The producer goroutine
// detects the closed consumer side and exits promptly and silently;
// it is safe to wrap an infinite source, take a few items, and walk
// away. [Readahead.Done] reports when the producer has exited.
//
// # Exhaustion and Failure
//
// A [Stream] reports exhaustion with io.EOF, permanently: once EOF has
// been returned, every later pull returns EOF again. If the source
// fails, by returning a non-EOF error or by panicking, the failure is
// recovered at the producer goroutine boundary and returned from the
// consumer's next pull exactly once (panics as [*PanicError], with the
// stack captured at the point of panic); pulls after that report plain
// EOF. Consumers that ignore the distinction still terminate
// correctly.
//
// # What readahead is not
//
// There is exactly one extra goroutine per wrapped stream. There is no
// worker pool and no fan-out; order is never changed. For parallel
// transformation of independent items, use a worker-pool library
// instead.
package readahead

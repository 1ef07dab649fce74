package readahead_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/baxromumarov/readahead"
	conciter "github.com/sourcegraph/conc/iter"
	"golang.org/x/sync/errgroup"
)

const benchItems = 1024

// work simulates a pull that costs a little CPU, so overlapping
// production with consumption has something to win.
func work(i int) int {
	h := i
	for j := 0; j < 64; j++ {
		h = h*31 + j
	}
	return h
}

func benchSource() *readahead.Stream[int] {
	var i int
	return readahead.FromFunc(func(ctx context.Context) (int, error) {
		v := work(i)
		i++
		return v, nil
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// 1. Sequential consumption: direct loop vs readahead at several depths
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkConsume_Direct(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var sum int
		err := benchSource().Take(benchItems).ForEach(ctx, func(v int) error {
			sum += work(v)
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConsume_Readahead(b *testing.B) {
	for _, depth := range []int{1, 8, 64} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			ctx := context.Background()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var sum int
				err := benchSource().Readahead(depth).Take(benchItems).
					ForEach(ctx, func(v int) error {
						sum += work(v)
						return nil
					})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 2. Hand-rolled prefetch pipeline with errgroup, for comparison
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkConsume_Errgroup(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g, gctx := errgroup.WithContext(context.Background())
		ch := make(chan int, 8)
		g.Go(func() error {
			defer close(ch)
			for j := 0; j < benchItems; j++ {
				select {
				case ch <- work(j):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})

		var sum int
		for v := range ch {
			sum += work(v)
		}
		if err := g.Wait(); err != nil {
			b.Fatal(err)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// 3. Parallel-iterator contrast: conc fans out across workers and gives up
//    streaming; readahead keeps one producer and strict order
// ─────────────────────────────────────────────────────────────────────────────

func BenchmarkTransform_ConcIter(b *testing.B) {
	items := make([]int, benchItems)
	for i := range items {
		items[i] = i
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var sum int
		results := conciter.Map(items, func(v *int) int {
			return work(work(*v))
		})
		for _, v := range results {
			sum += v
		}
	}
}

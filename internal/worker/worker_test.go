package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAllCollectsEachJobsOutcome(t *testing.T) {
	pool := NewPool(2)
	jobs := []Job{
		{Name: "a", Run: func(context.Context) error { return nil }},
		{Name: "b", Run: func(context.Context) error { return errors.New("boom") }},
		{Name: "c", Run: func(context.Context) error { return nil }},
	}

	results := pool.RunAll(context.Background(), jobs)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.EqualError(t, results[1].Err, "boom")
	require.NoError(t, results[2].Err)
}

func TestRunAllDoesNotCancelSiblingsOnError(t *testing.T) {
	pool := NewPool(0)
	var ran atomic.Int32
	jobs := []Job{
		{Name: "fails", Run: func(context.Context) error { return errors.New("fail") }},
		{Name: "checks-context", Run: func(ctx context.Context) error {
			ran.Add(1)
			return ctx.Err()
		}},
	}

	results := pool.RunAll(context.Background(), jobs)
	require.Equal(t, int32(1), ran.Load())
	require.NoError(t, results[1].Err)
}

func TestRunAllRespectsConcurrencyLimit(t *testing.T) {
	pool := NewPool(1)
	var concurrent, maxConcurrent atomic.Int32
	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{Name: "job", Run: func(context.Context) error {
			n := concurrent.Add(1)
			defer concurrent.Add(-1)
			for {
				m := maxConcurrent.Load()
				if n <= m || maxConcurrent.CompareAndSwap(m, n) {
					break
				}
			}
			return nil
		}}
	}
	pool.RunAll(context.Background(), jobs)
	require.LessOrEqual(t, maxConcurrent.Load(), int32(1))
}

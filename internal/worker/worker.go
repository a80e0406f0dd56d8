// Package worker runs one filtering pipeline per candidate strategy on
// a bounded pool of goroutines, each operating over its own deep-cloned
// Strategy/Portfolio/Broker instances so no locks are needed on the hot
// path (spec section 5).
package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one strategy's unit of work. Run must not mutate any state
// shared with other jobs -- callers are expected to close over their
// own deep-cloned portfolio/broker/strategy per job.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Result pairs a job's name with its outcome. A job's failure is
// recorded here, never propagated as a fatal pool error: per-strategy
// failures are logged and counted by the caller, not fatal to the run.
type Result struct {
	Name string
	Err  error
}

// Pool runs jobs with at most Limit running concurrently.
type Pool struct {
	Limit int
}

// NewPool returns a Pool bounded at limit concurrent jobs. A limit <= 0
// means unbounded (errgroup.SetLimit's convention for "no cap").
func NewPool(limit int) *Pool {
	return &Pool{Limit: limit}
}

// RunAll runs every job, waits for all to finish, and returns one
// Result per job in the same order jobs was given. A job's own error is
// never allowed to cancel its siblings' context.
func (p *Pool) RunAll(ctx context.Context, jobs []Job) []Result {
	g, gctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = Result{Name: job.Name, Err: job.Run(gctx)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

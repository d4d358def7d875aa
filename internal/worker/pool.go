package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool executes batches of jobs with bounded concurrency. Results come
// back indexed by submission order, so concurrent completion cannot
// reorder them.
type Pool struct {
	workers int
}

// NewPool creates a new pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns one result per job, in job order.
// Cancellation is delegated to the jobs themselves: a cancelled context
// makes each remaining job fail fast rather than block.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}

	results := make([]Result, len(jobs))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, p.workers)

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
			}

			results[idx] = j.Execute(ctx)
		}(i, job)
	}

	wg.Wait()

	return results
}

package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testJob struct {
	id      int
	execute func(ctx context.Context, id int) Result
}

func (j *testJob) Execute(ctx context.Context) Result {
	return j.execute(ctx, j.id)
}

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

func TestPool_ResultsInSubmissionOrder(t *testing.T) {
	count := 20
	jobs := make([]Job, count)
	for i := 0; i < count; i++ {
		jobs[i] = &testJob{id: i, execute: func(ctx context.Context, id int) Result {
			// Later jobs finish first
			time.Sleep(time.Duration(count-id) * time.Millisecond)
			return &testResult{id: id}
		}}
	}

	results := NewPool(8).Run(context.Background(), jobs)

	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	for i, r := range results {
		if r.(*testResult).id != i {
			t.Errorf("position %d holds result %d; order not preserved", i, r.(*testResult).id)
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var active, peak int32
	var mu sync.Mutex

	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = &testJob{id: i, execute: func(ctx context.Context, id int) Result {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return &testResult{id: id}
		}}
	}

	NewPool(3).Run(context.Background(), jobs)

	mu.Lock()
	defer mu.Unlock()
	if peak > 3 {
		t.Errorf("concurrency bound exceeded: peak %d workers", peak)
	}
}

func TestPool_ErrorsIsolatedPerJob(t *testing.T) {
	jobs := []Job{
		&testJob{id: 0, execute: func(ctx context.Context, id int) Result {
			return &testResult{id: id, err: errors.New("job failed")}
		}},
		&testJob{id: 1, execute: func(ctx context.Context, id int) Result {
			return &testResult{id: id}
		}},
	}

	results := NewPool(2).Run(context.Background(), jobs)

	if results[0].GetError() == nil {
		t.Error("expected error from first job")
	}
	if results[1].GetError() != nil {
		t.Errorf("second job should succeed: %v", results[1].GetError())
	}
}

func TestPool_EmptyJobs(t *testing.T) {
	results := NewPool(4).Run(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", results)
	}
}

func TestLimiter_AllowPerHost(t *testing.T) {
	l := NewLimiter(1, 2)

	// Burst of 2 per host, then denied
	if !l.Allow("https://a.example/x") || !l.Allow("https://a.example/y") {
		t.Error("expected burst allowance for first host")
	}
	if l.Allow("https://a.example/z") {
		t.Error("expected denial after burst exhausted")
	}
	// A different host has its own budget
	if !l.Allow("https://b.example/x") {
		t.Error("expected independent budget for second host")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("https://slow.example/") // exhaust the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://slow.example/"); err == nil {
		t.Error("expected context deadline error from Wait")
	}
}

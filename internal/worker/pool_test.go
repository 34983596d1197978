package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

type testJob struct {
	id      int
	counter *int32
	fail    bool
}

func (j *testJob) Execute(ctx context.Context) Result {
	atomic.AddInt32(j.counter, 1)
	if j.fail {
		return &testResult{id: j.id, err: fmt.Errorf("job %d failed", j.id)}
	}
	return &testResult{id: j.id}
}

func TestPool_RunsAllJobs(t *testing.T) {
	var counter int32
	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&testJob{id: i, counter: &counter})
	}

	results := pool.Wait()

	if len(results) != 10 {
		t.Errorf("expected 10 results, got %d", len(results))
	}
	if counter != 10 {
		t.Errorf("expected 10 executions, got %d", counter)
	}

	seen := make(map[int]bool)
	for _, r := range results {
		tr := r.(*testResult)
		if seen[tr.id] {
			t.Errorf("duplicate result for job %d", tr.id)
		}
		seen[tr.id] = true
	}
}

func TestPool_FailuresDoNotAbort(t *testing.T) {
	var counter int32
	pool := NewPool(2)
	pool.Start()

	for i := 0; i < 6; i++ {
		pool.Submit(&testJob{id: i, counter: &counter, fail: i%2 == 0})
	}

	results := pool.Wait()

	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}

	var failed int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 3 {
		t.Errorf("expected 3 failed results, got %d", failed)
	}
}

func TestPool_ZeroWorkersClampedToOne(t *testing.T) {
	var counter int32
	pool := NewPool(0)
	pool.Start()

	pool.Submit(&testJob{id: 1, counter: &counter})
	results := pool.Wait()

	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

type slowJob struct{}

func (j *slowJob) Execute(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return &testResult{err: ctx.Err()}
	case <-time.After(5 * time.Second):
		return &testResult{}
	}
}

func TestPool_ShutdownCancelsWork(t *testing.T) {
	pool := NewPool(1)
	pool.Start()
	pool.Submit(&slowJob{})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not cancel the in-flight job")
	}
}

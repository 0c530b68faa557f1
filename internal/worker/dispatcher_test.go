package worker

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestJobsForOneSessionRunInOrder(t *testing.T) {
	d := NewDispatcher(1, 1, 64, time.Minute)

	var (
		mu   sync.Mutex
		seen []int
	)
	for i := 0; i < 10; i++ {
		i := i
		err := d.Submit(Job{
			SessionID: "s_order",
			Run: func() {
				mu.Lock()
				seen = append(seen, i)
				mu.Unlock()
			},
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 10
	})

	mu.Lock()
	defer mu.Unlock()
	for i, v := range seen {
		if v != i {
			t.Fatalf("jobs ran out of order: %v", seen)
		}
	}
}

func TestJobsAcrossSessionsAllComplete(t *testing.T) {
	d := NewDispatcher(2, 4, 128, time.Minute)

	var (
		mu    sync.Mutex
		count int
	)
	const sessions = 8
	const jobsPerSession = 5
	for s := 0; s < sessions; s++ {
		sessionID := fmt.Sprintf("s_%d", s)
		for j := 0; j < jobsPerSession; j++ {
			err := d.Submit(Job{
				SessionID: sessionID,
				Run: func() {
					mu.Lock()
					count++
					mu.Unlock()
				},
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == sessions*jobsPerSession
	})
}

func TestSubmitRejectsWhenSaturated(t *testing.T) {
	d := NewDispatcher(1, 1, 1, time.Minute)

	started := make(chan struct{})
	block := make(chan struct{})
	err := d.Submit(Job{
		SessionID: "s_block",
		Run: func() {
			close(started)
			<-block
		},
	})
	if err != nil {
		t.Fatalf("submit blocker: %v", err)
	}
	<-started

	// With the only worker blocked, repeated submissions must eventually
	// fill the intake queue and get rejected.
	var sawBusy bool
	for i := 0; i < 100 && !sawBusy; i++ {
		err := d.Submit(Job{SessionID: "s_flood", Run: func() {}})
		if errors.Is(err, ErrDispatcherBusy) {
			sawBusy = true
		}
		time.Sleep(time.Millisecond)
	}
	close(block)
	if !sawBusy {
		t.Fatal("expected ErrDispatcherBusy once the queue filled")
	}
}

func TestSubmitRejectsEmptyJob(t *testing.T) {
	d := NewDispatcher(1, 1, 1, time.Minute)
	if err := d.Submit(Job{SessionID: "s_empty"}); err == nil {
		t.Fatal("job without work should be rejected")
	}
}

func TestCancelSessionDropsQueuedJobs(t *testing.T) {
	// Exercise the queue bookkeeping directly, without the dispatch loop
	// racing for the same jobs.
	d := &Dispatcher{
		queues:    make(map[string]*sessionQueue),
		ready:     list.New(),
		positions: make(map[string]*list.Element),
	}

	for i := 0; i < 3; i++ {
		d.enqueueJob(Job{SessionID: "s_doomed", Run: func() {}})
	}
	d.enqueueJob(Job{SessionID: "s_other", Run: func() {}})

	d.CancelSession("s_doomed")

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.queues["s_doomed"]; ok {
		t.Fatal("cancelled session should have no queue")
	}
	if _, ok := d.positions["s_doomed"]; ok {
		t.Fatal("cancelled session should leave the ready list")
	}
	if d.ready.Len() != 1 {
		t.Fatalf("ready length = %d, want 1", d.ready.Len())
	}
	if q := d.queues["s_other"]; q == nil || len(q.jobs) != 1 {
		t.Fatal("other sessions must keep their jobs")
	}
}

package worker

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDispatcherBusy is returned when the intake queue is full.
var ErrDispatcherBusy = errors.New("dispatcher queue is full")

// Job is one unit of assistant work tied to a session. Jobs for the same
// session run in submission order.
type Job struct {
	SessionID string
	Run       func()

	stop bool
}

type sessionQueue struct {
	jobs     []Job
	enqueued bool
}

// Dispatcher fans jobs out to an elastic worker pool while keeping two
// guarantees: per-session FIFO order, and round-robin fairness across
// sessions so one chatty visitor cannot starve the rest.
type Dispatcher struct {
	pool     *jobChannelPool
	jobQueue chan Job

	mu        sync.Mutex
	queues    map[string]*sessionQueue
	ready     *list.List // LRU of session ids with pending jobs
	positions map[string]*list.Element
}

func NewDispatcher(minWorkers, maxWorkers, queueSize int, idleTimeout time.Duration) *Dispatcher {
	pool := newJobChannelPool(minWorkers, maxWorkers, idleTimeout)

	d := &Dispatcher{
		pool:      pool,
		jobQueue:  make(chan Job, queueSize),
		queues:    make(map[string]*sessionQueue),
		ready:     list.New(),
		positions: make(map[string]*list.Element),
	}

	for i := 0; i < minWorkers; i++ {
		d.pool.spawnWorker()
	}

	go d.run()
	return d
}

// Submit hands a job to the dispatcher without blocking. Returns
// ErrDispatcherBusy when the intake queue is full.
func (d *Dispatcher) Submit(job Job) error {
	if job.Run == nil {
		return errors.New("job has no work")
	}
	select {
	case d.jobQueue <- job:
		return nil
	default:
		return ErrDispatcherBusy
	}
}

// CancelSession drops any jobs still queued for a session.
func (d *Dispatcher) CancelSession(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.queues, sessionID)
	if elem, ok := d.positions[sessionID]; ok {
		d.ready.Remove(elem)
		delete(d.positions, sessionID)
	}
}

func (d *Dispatcher) run() {
	for {
		// Dispatch one job from the session at the front of the LRU.
		if !d.dispatchOne() {
			job := <-d.jobQueue // nothing pending, block on intake
			d.enqueueJob(job)
			continue
		}
		select {
		case job := <-d.jobQueue:
			d.enqueueJob(job)
		default:
		}
	}
}

func (d *Dispatcher) enqueueJob(job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q := d.queues[job.SessionID]
	if q == nil {
		q = &sessionQueue{}
		d.queues[job.SessionID] = q
	}
	q.jobs = append(q.jobs, job)
	if q.enqueued {
		return
	}
	q.enqueued = true
	elem := d.ready.PushBack(job.SessionID)
	d.positions[job.SessionID] = elem
}

func (d *Dispatcher) dispatchOne() bool {
	d.mu.Lock()
	elem := d.ready.Front()
	if elem == nil {
		d.mu.Unlock()
		return false
	}

	sessionID := elem.Value.(string)
	q := d.queues[sessionID]
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	if len(q.jobs) == 0 {
		q.enqueued = false
		d.ready.Remove(elem)
		delete(d.positions, sessionID)
		delete(d.queues, sessionID)
	} else {
		// Session keeps pending work, rotate it to the back.
		d.ready.MoveToBack(elem)
	}
	d.mu.Unlock()

	workerChan := d.pool.acquire()
	zap.L().Debug("dispatching job", zap.String("session_id", sessionID))
	workerChan <- job
	return true
}

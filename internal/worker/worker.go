package worker

import "go.uber.org/zap"

type worker struct {
	pool       *jobChannelPool
	jobChannel chan Job
}

func newWorker(pool *jobChannelPool) *worker {
	return &worker{
		pool:       pool,
		jobChannel: make(chan Job),
	}
}

func (w *worker) start() {
	go func() {
		for {
			w.pool.release(w.jobChannel)
			job := <-w.jobChannel
			if job.stop {
				w.pool.retire(w.jobChannel)
				return
			}
			w.runJob(job)
		}
	}()
}

func (w *worker) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("worker job panicked",
				zap.String("session_id", job.SessionID), zap.Any("panic", r))
		}
	}()
	job.Run()
}

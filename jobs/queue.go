// Package jobs runs article conversions on a fixed pool of workers and
// tracks their progress in a small sqlite database.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrQueueFull is reported by Submit when there is no room left in the
// queue.
var ErrQueueFull = errors.New("job queue is full")

// Work produces the output file for a single source and returns its path.
type Work func(ctx context.Context) (string, error)

type task struct {
	id     string
	source string
	run    Work
}

// Queue dispatches queued conversions to a fixed pool of workers.
type Queue struct {
	store  *Store
	tasks  chan task
	wg     sync.WaitGroup
	active atomic.Int64
	log    *zap.Logger
}

// NewQueue starts workers reading from a bounded queue. Workers live until
// Close is called, ctx only interrupts conversions in flight.
func NewQueue(ctx context.Context, store *Store, workers, depth int, log *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = 1000
	}

	q := &Queue{
		store: store,
		tasks: make(chan task, depth),
		log:   log,
	}

	for i := range workers {
		q.wg.Add(1)
		go func(worker int) {
			defer q.wg.Done()
			wlog := log.With(zap.Int("worker", worker))
			for t := range q.tasks {
				q.process(ctx, t, wlog)
			}
		}(i)
	}
	return q
}

// Submit registers a new job for the source and queues it without
// blocking. On a full queue the job is recorded as failed and ErrQueueFull
// is returned.
func (q *Queue) Submit(source string, run Work) (*Job, error) {
	job, err := q.store.Create(source)
	if err != nil {
		return nil, err
	}
	select {
	case q.tasks <- task{id: job.ID, source: source, run: run}:
		return job, nil
	default:
	}
	q.abandon(job.ID, ErrQueueFull)
	return nil, ErrQueueFull
}

// Enqueue registers a new job and waits for room in the queue instead of
// rejecting. Batch producers that feed the queue faster than the workers
// drain it use this, ctx is the only way out of the wait.
func (q *Queue) Enqueue(ctx context.Context, source string, run Work) (*Job, error) {
	job, err := q.store.Create(source)
	if err != nil {
		return nil, err
	}
	select {
	case q.tasks <- task{id: job.ID, source: source, run: run}:
		return job, nil
	case <-ctx.Done():
		q.abandon(job.ID, ctx.Err())
		return nil, ctx.Err()
	}
}

func (q *Queue) abandon(id string, cause error) {
	if err := q.store.Fail(id, cause); err != nil {
		q.log.Error("Unable to update job", zap.String("job", id), zap.Error(err))
	}
}

// Close stops accepting new jobs and waits until the workers drain the
// queue.
func (q *Queue) Close() {
	close(q.tasks)
	q.wg.Wait()
}

// Active returns the number of conversions running right now.
func (q *Queue) Active() int {
	return int(q.active.Load())
}

func (q *Queue) process(ctx context.Context, t task, log *zap.Logger) {
	q.active.Add(1)
	defer q.active.Add(-1)

	log = log.With(zap.String("job", t.id), zap.String("source", t.source))

	if err := ctx.Err(); err != nil {
		q.fail(t.id, err, log)
		return
	}
	if err := q.store.SetProcessing(t.id); err != nil {
		log.Error("Unable to update job", zap.Error(err))
	}

	output, err := q.run(ctx, t)
	if err != nil {
		q.fail(t.id, err, log)
		return
	}
	if err := q.store.Complete(t.id, output); err != nil {
		log.Error("Unable to update job", zap.Error(err))
	}
}

// run keeps a panic in one conversion from taking the worker down with it.
func (q *Queue) run(ctx context.Context, t task) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion panic: %v\n%s", r, debug.Stack())
		}
	}()
	return t.run(ctx)
}

func (q *Queue) fail(id string, cause error, log *zap.Logger) {
	if err := q.store.Fail(id, cause); err != nil {
		log.Error("Unable to update job", zap.Error(err))
	}
	log.Error("Conversion failed", zap.Error(cause))
}

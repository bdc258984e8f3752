package service

import (
	"context"
	"sync"

	"pixoonair/internal/logger"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work handed off from a monitor callback.
type Task func(ctx context.Context) error

// Dispatcher accepts tasks without blocking the caller.
type Dispatcher interface {
	Submit(key, name string, task Task)
}

const defaultMaxPending = 8

type queuedTask struct {
	name string
	run  Task
}

type keyQueue struct {
	tasks   []queuedTask
	running bool
}

// AsyncDispatcher runs tasks in the background. Tasks sharing a key run one
// at a time in submission order; different keys run in parallel. Each key
// holds at most maxPending waiting tasks, and the oldest waiting task is
// dropped when a new one arrives on a full queue.
type AsyncDispatcher struct {
	ctx        context.Context
	group      errgroup.Group
	log        *logger.Logger
	maxPending int

	mu     sync.Mutex
	queues map[string]*keyQueue
}

// NewAsyncDispatcher returns a dispatcher whose tasks run with ctx. Tasks are
// not cancelled on shutdown, so ctx is normally context.Background().
func NewAsyncDispatcher(ctx context.Context, maxPending int, log *logger.Logger) *AsyncDispatcher {
	if maxPending <= 0 {
		maxPending = defaultMaxPending
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AsyncDispatcher{
		ctx:        ctx,
		log:        log,
		maxPending: maxPending,
		queues:     make(map[string]*keyQueue),
	}
}

// Submit queues task under key and returns immediately.
func (d *AsyncDispatcher) Submit(key, name string, task Task) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[key]
	if !ok {
		q = &keyQueue{}
		d.queues[key] = q
	}
	if len(q.tasks) >= d.maxPending {
		dropped := q.tasks[0]
		q.tasks = q.tasks[1:]
		d.log.Warnw("dispatch_task_dropped", "key", key, "task", dropped.name)
	}
	q.tasks = append(q.tasks, queuedTask{name: name, run: task})

	if !q.running {
		q.running = true
		d.group.Go(func() error {
			d.drain(key, q)
			return nil
		})
	}
}

// Wait blocks until every queue is empty and no task is running.
func (d *AsyncDispatcher) Wait() {
	_ = d.group.Wait()
}

func (d *AsyncDispatcher) drain(key string, q *keyQueue) {
	for {
		d.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		t := q.tasks[0]
		q.tasks = q.tasks[1:]
		d.mu.Unlock()

		if err := t.run(d.ctx); err != nil {
			d.log.Errorw("dispatch_task_failed", "key", key, "task", t.name, "err", err)
		}
	}
}

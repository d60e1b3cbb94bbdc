package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"hestia/internal/billing"
)

var (
	ErrQueueFull   = errors.New("billing run queue is full")
	ErrQueueClosed = errors.New("billing run queue is closed")
)

// JobQueue buffers billing runs between the scheduler (or the API) and the
// batch processor. Each item is one run: the statement jobs for every active
// leaseholder on a single statement date.
type JobQueue struct {
	runs     chan []billing.Job
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]billing.Job) error
}

func NewJobQueue(bufferSize int, logger *logrus.Logger) *JobQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &JobQueue{
		runs:     make(chan []billing.Job, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]billing.Job) error, 0),
	}
}

// Push enqueues a billing run. It never blocks: a full queue rejects the run
// so a cron tick or API request returns immediately.
func (q *JobQueue) Push(run []billing.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.runs <- run:
		q.logger.WithFields(logrus.Fields{
			"leaseholders": len(run),
			"pending_runs": len(q.runs),
		}).Debug("Queued billing run")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe registers a handler that receives every billing run
func (q *JobQueue) Subscribe(handler func([]billing.Job) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

func (q *JobQueue) Start() {
	go q.process()
}

func (q *JobQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case run := <-q.runs:
			q.dispatch(run)
		}
	}
}

// dispatch hands one billing run to each subscriber in turn
func (q *JobQueue) dispatch(run []billing.Job) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(run); err != nil {
			q.logger.WithError(err).WithField("leaseholders", len(run)).Error("Billing run handler failed")
		}
	}
}

// Close stops dispatching and rejects further runs. Runs still waiting in the
// buffer are discarded and reported in a warning; their statements are not
// generated until the next run for that date.
func (q *JobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.done)

	dropped, leaseholders := 0, 0
	for {
		select {
		case run := <-q.runs:
			dropped++
			leaseholders += len(run)
			continue
		default:
		}
		break
	}
	if dropped > 0 {
		q.logger.WithFields(logrus.Fields{
			"dropped_runs": dropped,
			"leaseholders": leaseholders,
		}).Warn("Billing run queue closed with pending runs")
	}
	return nil
}

// Len is the number of billing runs waiting to be dispatched
func (q *JobQueue) Len() int {
	return len(q.runs)
}

func (q *JobQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// ABOUTME: Single-worker background queue that performs persistence writes in submission order.
// ABOUTME: Submitting never waits on I/O; Flush and Stop let callers wait for queued writes to land.
package mood

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrWriterClosed is returned when submitting to a stopped writer.
var ErrWriterClosed = errors.New("writer closed")

// ErrQueueFull is returned when the queue stayed full for the whole enqueue timeout.
var ErrQueueFull = errors.New("write queue full")

// Job is one unit of background work.
type Job func(ctx context.Context) error

type writerConfig struct {
	QueueSize      int
	EnqueueTimeout time.Duration
}

// writer runs jobs one at a time on a dedicated goroutine. FIFO order is preserved.
type writer struct {
	cfg   writerConfig
	queue chan Job
	log   zerolog.Logger

	done   chan struct{}
	closed uint32
	mu     sync.RWMutex // held for read while enqueueing, for write while closing
	wg     sync.WaitGroup
}

func newWriter(cfg writerConfig, log zerolog.Logger) *writer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}

	w := &writer{
		cfg:   cfg,
		queue: make(chan Job, cfg.QueueSize),
		log:   log,
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Submit enqueues job without waiting for it to run.
func (w *writer) Submit(job Job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if atomic.LoadUint32(&w.closed) == 1 {
		return ErrWriterClosed
	}

	select {
	case w.queue <- job:
		return nil
	default:
	}

	timer := time.NewTimer(w.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case w.queue <- job:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// Flush blocks until every job submitted before the call has run.
func (w *writer) Flush(ctx context.Context) error {
	ran := make(chan struct{})
	if err := w.Submit(func(context.Context) error {
		close(ran)
		return nil
	}); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ran:
		return nil
	}
}

// Stop drains queued jobs and waits for the worker to exit. It is idempotent.
func (w *writer) Stop() {
	w.mu.Lock()
	if !atomic.CompareAndSwapUint32(&w.closed, 0, 1) {
		w.mu.Unlock()
		return
	}
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *writer) run() {
	defer w.wg.Done()

	for {
		select {
		case job := <-w.queue:
			w.exec(job)
		case <-w.done:
			// Submit can no longer enqueue, so draining what is buffered is final.
			for {
				select {
				case job := <-w.queue:
					w.exec(job)
				default:
					return
				}
			}
		}
	}
}

func (w *writer) exec(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("write job panicked")
		}
	}()
	if err := job(context.Background()); err != nil {
		w.log.Debug().Err(err).Msg("write job failed")
	}
}

package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrQueueFull        = errors.New("notification queue full")
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
)

type job struct {
	msg      Message
	queuedAt time.Time
}

type worker struct {
	id         int
	workerPool chan chan job
	jobChannel chan job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case j := <-w.jobChannel:
				w.logger.Debug("worker sending email", "worker_id", w.id, "to", j.msg.To)
				process(j)
			case <-ctx.Done():
				w.logger.Debug("worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Dispatcher delivers emails through a bounded queue and a fixed pool of
// workers. Enqueue never blocks.
type Dispatcher struct {
	mailer      Mailer
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan job
	workerPool chan chan job
	maxWorkers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

func NewDispatcher(mailer Mailer, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.Workers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		mailer:      mailer,
		sendTimeout: sendTimeout,
		logger:      logger,
		jobQueue:    make(chan job, queueSize),
		workerPool:  make(chan chan job, maxWorkers),
		maxWorkers:  maxWorkers,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	for i := 0; i < d.maxWorkers; i++ {
		newWorker(i, d.workerPool, d.logger).start(d.ctx, &d.wg, d.send)
	}
	go d.dispatch()

	d.logger.Info("notification worker pool started",
		"max_workers", d.maxWorkers,
		"queue_size", cap(d.jobQueue))

	return d
}

// Enqueue schedules msg for delivery. A full queue drops the message.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.jobQueue <- job{msg: msg, queuedAt: time.Now()}:
		d.logger.Debug("email queued", "to", msg.To, "queue_length", len(d.jobQueue))
		return nil
	default:
		d.logger.Warn("notification queue full, dropping email",
			"to", msg.To,
			"subject", msg.Subject,
			"queue_capacity", cap(d.jobQueue))
		return ErrQueueFull
	}
}

// dispatch hands queued jobs to idle workers until the queue is closed and empty.
func (d *Dispatcher) dispatch() {
	defer close(d.done)

	for j := range d.jobQueue {
		select {
		case jobChannel := <-d.workerPool:
			select {
			case jobChannel <- j:
				continue
			case <-d.ctx.Done():
			}
		case <-d.ctx.Done():
		}

		// workers are gone, whatever is still queued is lost
		d.logger.Warn("notification dispatcher stopped with emails pending",
			"to", j.msg.To,
			"pending", len(d.jobQueue))
		return
	}
}

// Done is closed once the dispatch loop has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) send(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.mailer.Send(ctx, j.msg); err != nil {
		d.logger.Error("failed to send email",
			"to", j.msg.To,
			"subject", j.msg.Subject,
			"error", err)
		return
	}
	d.logger.Debug("email delivered", "to", j.msg.To, "latency", time.Since(j.queuedAt))
}

// Shutdown stops accepting emails, delivers what is queued and waits for the
// workers, or gives up when ctx ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("shutting down notification dispatcher", "pending", len(d.jobQueue))

	select {
	case <-d.done:
	case <-ctx.Done():
		d.cancel()
		return ctx.Err()
	}

	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
	return nil
}

package linebot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type Worker struct {
	ID         int
	WorkerPool chan chan WebhookEvent
	JobChannel chan WebhookEvent
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan WebhookEvent, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WebhookEvent),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(context.Context, WebhookEvent)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {

			w.WorkerPool <- w.JobChannel

			select {
			case event := <-w.JobChannel:
				w.Logger.Debug("worker processing webhook event",
					"worker_id", w.ID,
					"event_type", event.Type,
					"event_id", event.WebhookEventID)
				processFunc(ctx, event)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher fans webhook events out to a bounded worker pool so the
// webhook endpoint can acknowledge immediately. A full queue drops the
// event instead of blocking the HTTP handler; LINE redelivers.
type Dispatcher struct {
	logger   *slog.Logger
	process  func(context.Context, WebhookEvent)
	rejected prometheus.Counter

	jobQueue   chan WebhookEvent
	workerPool chan chan WebhookEvent
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type DispatcherConfig struct {
	MaxWorkers int
	QueueSize  int
}

func NewDispatcher(config DispatcherConfig, process func(context.Context, WebhookEvent), rejected prometheus.Counter, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	d := &Dispatcher{
		logger:   logger,
		process:  process,
		rejected: rejected,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan WebhookEvent, queueSize),
		workerPool: make(chan chan WebhookEvent, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {

		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.process)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("webhook dispatcher started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.jobQueue:

			select {
			case jobChannel := <-d.workerPool:

				select {
				case jobChannel <- event:

				case <-d.ctx.Done():
					d.logger.Info("dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return
		}
	}
}

// Enqueue hands an event to the pool without blocking.
func (d *Dispatcher) Enqueue(event WebhookEvent) error {
	select {
	case d.jobQueue <- event:
		return nil
	default:
		if d.rejected != nil {
			d.rejected.Inc()
		}
		d.logger.Warn("webhook queue full, dropping event",
			"event_id", event.WebhookEventID,
			"event_type", event.Type,
			"queue_capacity", cap(d.jobQueue))
		return fmt.Errorf("webhook queue full")
	}
}

// Shutdown stops accepting work and waits for in-flight events.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down webhook dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("webhook dispatcher shutdown complete")
}

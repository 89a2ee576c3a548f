package ticketing

import (
	"context"
	"log/slog"
	"sync"
)

type Job struct {
	TripID     string
	CompanyID  int64
	Passengers int
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

// Start registers the worker in the pool each time it becomes idle and runs jobs until ctx is done.
func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, process func(context.Context, Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("ticketing worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("ticketing worker picked up job", "worker_id", w.ID, "trip_id", job.TripID)
				process(ctx, job)
			case <-ctx.Done():
				w.Logger.Debug("ticketing worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type pool struct {
	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func newPool(workers, queueSize int, logger *slog.Logger) *pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &pool{
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, workers),
		maxWorkers: workers,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (p *pool) start(process func(context.Context, Job)) {
	p.once.Do(func() {
		for i := 0; i < p.maxWorkers; i++ {
			NewWorker(i, p.workerPool, p.logger).Start(p.ctx, &p.wg, process)
		}

		p.wg.Add(1)
		go p.dispatch()

		p.logger.Info("ticketing worker pool started",
			"max_workers", p.maxWorkers,
			"queue_size", cap(p.jobQueue))
	})
}

func (p *pool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- job:
				case <-p.ctx.Done():
					p.logger.Info("ticketing dispatcher shutting down", "pending", len(p.jobQueue)+1)
					return
				}
			case <-p.ctx.Done():
				p.logger.Info("ticketing dispatcher shutting down", "pending", len(p.jobQueue)+1)
				return
			}
		case <-p.ctx.Done():
			p.logger.Info("ticketing dispatcher shutting down", "pending", len(p.jobQueue))
			return
		}
	}
}

// submit never blocks: a full queue rejects the job.
func (p *pool) submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

func (p *pool) stop() {
	p.cancel()
	p.wg.Wait()
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/remessa-chaves/internal/models"
	"github.com/nexconsult/remessa-chaves/internal/nfe"
	"github.com/nexconsult/remessa-chaves/internal/remessa"
)

// ErrPoolStopped é retornado quando o pool foi parado ou não foi iniciado
var ErrPoolStopped = errors.New("worker pool parado")

// Job representa a avaliação de uma remessa
type Job struct {
	ID       string
	Index    int
	Remessa  *models.Remessa
	Created  time.Time
	Started  time.Time
	Finished time.Time
	Result   chan Result
}

// Result é o resultado de um job
type Result struct {
	JobID      string            `json:"job_id"`
	Index      int               `json:"index"`
	Assessment models.Assessment `json:"assessment"`
	Duration   time.Duration     `json:"duration"`
}

// BatchStats estatísticas de um lote
type BatchStats struct {
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Duration  time.Duration `json:"duration"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
}

// BatchResponse resultados de um lote, na ordem de entrada
type BatchResponse struct {
	Results []Result   `json:"results"`
	Stats   BatchStats `json:"stats"`
}

// WorkerPoolStats estatísticas do pool
type WorkerPoolStats struct {
	TotalJobs     int64     `json:"total_jobs"`
	CompletedJobs int64     `json:"completed_jobs"`
	ActiveWorkers int32     `json:"active_workers"`
	Workers       int       `json:"workers"`
	QueueSize     int       `json:"queue_size"`
	StartTime     time.Time `json:"start_time"`
}

// WorkerPool avalia remessas em paralelo com um número fixo de workers
type WorkerPool struct {
	workers   []*Worker
	jobQueue  chan *Job
	validator *nfe.Validator
	log       *logrus.Logger

	// Estatísticas
	totalJobs     int64
	completedJobs int64
	activeWorkers int32
	startTime     time.Time

	// Controle
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
}

// Worker representa um worker individual
type Worker struct {
	ID            int
	pool          *WorkerPool
	jobsProcessed int64
}

// NewWorkerPool cria um novo pool de workers. Um validator nil usa o
// validador padrão.
func NewWorkerPool(workerCount, queueSize int, validator *nfe.Validator, log *logrus.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 1 {
		queueSize = workerCount
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		workers:   make([]*Worker, workerCount),
		jobQueue:  make(chan *Job, queueSize),
		validator: validator,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = &Worker{ID: i, pool: pool}
	}

	return pool
}

// Start inicia o pool de workers
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		wp.startTime = time.Now()
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.start()
		}
		wp.started.Store(true)

		wp.log.WithField("workers", len(wp.workers)).Info("Worker pool started")
	})
}

// Stop para o pool de workers e aguarda os workers terminarem.
// Jobs ainda na fila são descartados.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.log.Info("Stopping worker pool...")
		wp.cancel()
		wp.wg.Wait()
		wp.log.Info("Worker pool stopped")
	})
}

// ProcessBatch avalia as remessas e devolve os resultados na ordem de
// entrada. Retorna o erro do contexto se ele for cancelado antes do fim.
func (wp *WorkerPool) ProcessBatch(ctx context.Context, remessas []models.Remessa) (BatchResponse, error) {
	start := time.Now()

	if !wp.started.Load() || wp.ctx.Err() != nil {
		return BatchResponse{}, ErrPoolStopped
	}
	if err := ctx.Err(); err != nil {
		return BatchResponse{}, fmt.Errorf("lote interrompido: %w", err)
	}

	if len(remessas) == 0 {
		return BatchResponse{
			Results: []Result{},
			Stats:   BatchStats{StartTime: start, EndTime: time.Now()},
		}, nil
	}

	jobs := make([]*Job, len(remessas))
	for i := range remessas {
		jobs[i] = &Job{
			ID:      uuid.New().String(),
			Index:   i,
			Remessa: &remessas[i],
			Created: time.Now(),
			Result:  make(chan Result, 1),
		}
	}

	batchLog := wp.log.WithFields(logrus.Fields{
		"jobs":    len(jobs),
		"workers": len(wp.workers),
	})
	batchLog.Debug("Enqueueing batch")

	// Envia os jobs em paralelo à coleta para não travar com fila cheia
	sendErr := make(chan error, 1)
	go func() {
		for _, job := range jobs {
			select {
			case wp.jobQueue <- job:
				atomic.AddInt64(&wp.totalJobs, 1)
			case <-ctx.Done():
				sendErr <- ctx.Err()
				return
			case <-wp.ctx.Done():
				sendErr <- ErrPoolStopped
				return
			}
		}
		sendErr <- nil
	}()

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		select {
		case result := <-job.Result:
			results[i] = result
		case <-ctx.Done():
			batchLog.WithField("completed", i).Warn("Batch cancelled")
			return BatchResponse{}, fmt.Errorf("lote interrompido: %w", ctx.Err())
		case <-wp.ctx.Done():
			return BatchResponse{}, ErrPoolStopped
		}
	}

	if err := <-sendErr; err != nil {
		return BatchResponse{}, err
	}

	end := time.Now()
	batchLog.WithField("duration", end.Sub(start)).Info("Batch completed")

	return BatchResponse{
		Results: results,
		Stats: BatchStats{
			Total:     len(jobs),
			Completed: len(results),
			Duration:  end.Sub(start),
			StartTime: start,
			EndTime:   end,
		},
	}, nil
}

// GetStats retorna estatísticas do pool
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		TotalJobs:     atomic.LoadInt64(&wp.totalJobs),
		CompletedJobs: atomic.LoadInt64(&wp.completedJobs),
		ActiveWorkers: atomic.LoadInt32(&wp.activeWorkers),
		Workers:       len(wp.workers),
		QueueSize:     len(wp.jobQueue),
		StartTime:     wp.startTime,
	}
}

// start inicia o worker
func (w *Worker) start() {
	defer w.pool.wg.Done()

	w.pool.log.WithField("worker_id", w.ID).Debug("Worker started")

	for {
		select {
		case job := <-w.pool.jobQueue:
			w.processJob(job)
		case <-w.pool.ctx.Done():
			w.pool.log.WithField("worker_id", w.ID).Debug("Worker stopped by context")
			return
		}
	}
}

// processJob processa um job
func (w *Worker) processJob(job *Job) {
	atomic.AddInt32(&w.pool.activeWorkers, 1)
	defer func() {
		atomic.AddInt32(&w.pool.activeWorkers, -1)
		atomic.AddInt64(&w.jobsProcessed, 1)
	}()

	job.Started = time.Now()
	assessment := remessa.EvaluateWith(w.pool.validator, job.Remessa)
	job.Finished = time.Now()

	atomic.AddInt64(&w.pool.completedJobs, 1)

	w.pool.log.WithFields(logrus.Fields{
		"worker_id": w.ID,
		"job_id":    job.ID,
		"filename":  assessment.Filename,
		"status":    assessment.DocumentStatus,
		"duration":  job.Finished.Sub(job.Started),
	}).Debug("Job completed")

	// Result tem buffer 1, o envio nunca bloqueia
	job.Result <- Result{
		JobID:      job.ID,
		Index:      job.Index,
		Assessment: assessment,
		Duration:   job.Finished.Sub(job.Started),
	}
}

package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"oauth-relay/internal/metrics"
	"sync"
	"time"
)

// Job is a unit of periodic background work. Run performs a single pass; the
// manager decides when to call it.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// JobManager runs each registered job once at start and then on its interval
// until Shutdown.
type JobManager struct {
	logger *slog.Logger

	mu      sync.Mutex
	jobs    []Job
	running map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewJobManager(logger *slog.Logger) *JobManager {
	return &JobManager{
		logger:  logger,
		running: make(map[string]context.CancelFunc),
	}
}

// Register adds a job. Jobs with a non-positive interval are rejected.
func (jm *JobManager) Register(job Job) error {
	if job.Interval() <= 0 {
		return fmt.Errorf("job %q has non-positive interval %s", job.Name(), job.Interval())
	}

	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs = append(jm.jobs, job)
	return nil
}

// Start launches every registered job that is not already running.
func (jm *JobManager) Start(ctx context.Context) {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	for _, job := range jm.jobs {
		if _, ok := jm.running[job.Name()]; ok {
			continue
		}

		jobCtx, cancel := context.WithCancel(ctx)
		jm.running[job.Name()] = cancel

		jm.wg.Add(1)
		go func(j Job) {
			defer jm.wg.Done()
			jm.loop(jobCtx, j)
		}(job)
	}
}

func (jm *JobManager) loop(ctx context.Context, job Job) {
	logger := jm.logger.With("job", job.Name())
	logger.Info("Starting Job", "interval", job.Interval())

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		jm.runOnce(ctx, job, logger)

		select {
		case <-ctx.Done():
			logger.Debug("Job stopped")
			return
		case <-ticker.C:
		}
	}
}

func (jm *JobManager) runOnce(ctx context.Context, job Job, logger *slog.Logger) {
	err := job.Run(ctx)
	switch {
	case err == nil:
		metrics.JobRunsTotal.WithLabelValues(job.Name(), metrics.ResultSuccess).Inc()
	case errors.Is(err, context.Canceled):
	default:
		metrics.JobRunsTotal.WithLabelValues(job.Name(), metrics.ResultFailure).Inc()
		logger.Warn("Job run failed", "error", err)
	}
}

// Shutdown cancels all jobs and waits for them to return or for ctx to end.
func (jm *JobManager) Shutdown(ctx context.Context) {
	jm.mu.Lock()
	for name, cancel := range jm.running {
		cancel()
		delete(jm.running, name)
	}
	jm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		jm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		jm.logger.Debug("All jobs stopped cleanly")
	case <-ctx.Done():
		jm.logger.Warn("Jobs did not stop before the shutdown deadline")
	}
}

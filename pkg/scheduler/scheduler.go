// Package scheduler runs the periodic maintenance jobs of the warranty service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

// Job statuses
const (
	JobStatusScheduled = "scheduled"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Error variables
var (
	ErrJobNotFound = fmt.Errorf("job not found")
)

// JobFunc is the work a scheduled job performs
type JobFunc func(ctx context.Context) error

// TaskScheduler manages scheduled tasks using cron
type TaskScheduler struct {
	cron      *cron.Cron
	config    *config.SchedulerConfig
	ctx       context.Context
	jobs      map[string]*ScheduledJob
	jobsMutex sync.RWMutex
}

// ScheduledJob represents a scheduled job
type ScheduledJob struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Cron    string       `json:"cron"`
	NextRun time.Time    `json:"next_run"`
	LastRun time.Time    `json:"last_run"`
	Status  string       `json:"status"`
	LastErr string       `json:"last_error,omitempty"`
	EntryID cron.EntryID `json:"-"`

	run JobFunc
}

// NewTaskScheduler creates a new task scheduler with the maintenance jobs
// enabled by cfg
func NewTaskScheduler(ctx context.Context, cfg *config.SchedulerConfig, deps Dependencies) (*TaskScheduler, error) {
	logger.Info("Initializing task scheduler")

	scheduler := &TaskScheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		config: cfg,
		ctx:    ctx,
		jobs:   make(map[string]*ScheduledJob),
	}

	for _, job := range defaultJobs(cfg, deps) {
		if err := scheduler.AddJob(job); err != nil {
			return nil, fmt.Errorf("failed to add job %s: %w", job.Name, err)
		}
	}

	logger.Info("Task scheduler initialized", zap.Int("job_count", len(scheduler.jobs)))
	return scheduler, nil
}

// Start starts the task scheduler and blocks until its context is cancelled
func (ts *TaskScheduler) Start() error {
	logger.Info("Starting task scheduler")

	ts.cron.Start()

	ts.jobsMutex.Lock()
	for _, job := range ts.jobs {
		if err := ts.updateJobNextRunTime(job); err != nil {
			logger.Warn("Failed to update next run time after start",
				zap.String("job_name", job.Name),
				zap.Error(err))
		}
	}
	ts.jobsMutex.Unlock()

	ts.logScheduledJobs()

	<-ts.ctx.Done()
	logger.Info("Task scheduler context cancelled")

	return nil
}

// Shutdown gracefully shuts down the task scheduler
func (ts *TaskScheduler) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down task scheduler")

	cronCtx := ts.cron.Stop()

	select {
	case <-cronCtx.Done():
		logger.Info("All scheduled jobs completed")
	case <-ctx.Done():
		logger.Warn("Scheduler shutdown timeout, some jobs may still be running")
	}

	return nil
}

// AddJob adds a new scheduled job
func (ts *TaskScheduler) AddJob(job *ScheduledJob) error {
	if job.ID == "" {
		return fmt.Errorf("job %s has no ID", job.Name)
	}
	if job.run == nil {
		return fmt.Errorf("job %s has nothing to run", job.Name)
	}

	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	if _, exists := ts.jobs[job.ID]; exists {
		return fmt.Errorf("job %s is already scheduled", job.ID)
	}

	entryID, err := ts.cron.AddFunc(job.Cron, func() { ts.execute(job) })
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	job.EntryID = entryID
	job.Status = JobStatusScheduled

	if err := ts.updateJobNextRunTime(job); err != nil {
		logger.Warn("Failed to update next run time", zap.String("job_name", job.Name), zap.Error(err))
	}

	ts.jobs[job.ID] = job

	logger.Info("Added scheduled job",
		zap.String("job_id", job.ID),
		zap.String("job_name", job.Name),
		zap.String("cron", job.Cron),
		zap.Time("next_run", job.NextRun),
	)

	return nil
}

// RemoveJob unschedules a job; it comes back on the next start
func (ts *TaskScheduler) RemoveJob(jobID string) error {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	job, exists := ts.jobs[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	ts.cron.Remove(job.EntryID)
	delete(ts.jobs, jobID)

	logger.Info("Removed scheduled job", zap.String("job_id", jobID), zap.String("job_name", job.Name))
	return nil
}

// RunJob executes a job immediately, outside its schedule
func (ts *TaskScheduler) RunJob(jobID string) error {
	ts.jobsMutex.RLock()
	job, exists := ts.jobs[jobID]
	ts.jobsMutex.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	return ts.execute(job)
}

// GetJobs returns a snapshot of all scheduled jobs
func (ts *TaskScheduler) GetJobs() []ScheduledJob {
	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()

	jobs := make([]ScheduledJob, 0, len(ts.jobs))
	for _, job := range ts.jobs {
		_ = ts.updateJobNextRunTime(job)
		jobs = append(jobs, *job)
	}

	return jobs
}

// GetJob returns a snapshot of one scheduled job
func (ts *TaskScheduler) GetJob(jobID string) (ScheduledJob, error) {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	job, exists := ts.jobs[jobID]
	if !exists {
		return ScheduledJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	return *job, nil
}

// GetStatus returns scheduler status
func (ts *TaskScheduler) GetStatus() map[string]interface{} {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	return map[string]interface{}{
		"running":   ts.cron != nil,
		"job_count": len(ts.jobs),
		"entries":   len(ts.cron.Entries()),
		"timestamp": time.Now().UTC(),
	}
}

func (ts *TaskScheduler) execute(job *ScheduledJob) error {
	logger.Info("Executing scheduled job", zap.String("job_id", job.ID), zap.String("job_name", job.Name))
	start := time.Now()

	ts.jobsMutex.Lock()
	job.Status = JobStatusRunning
	job.LastRun = start
	ts.jobsMutex.Unlock()

	err := job.run(ts.ctx)

	ts.jobsMutex.Lock()
	defer ts.jobsMutex.Unlock()
	if err != nil {
		job.Status = JobStatusFailed
		job.LastErr = err.Error()
		logger.Error("Scheduled job failed", zap.String("job_name", job.Name), zap.Error(err))
		return err
	}

	job.Status = JobStatusCompleted
	job.LastErr = ""
	logger.Info("Scheduled job completed successfully",
		zap.String("job_name", job.Name),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// logScheduledJobs logs information about all scheduled jobs
func (ts *TaskScheduler) logScheduledJobs() {
	ts.jobsMutex.RLock()
	defer ts.jobsMutex.RUnlock()

	if len(ts.jobs) == 0 {
		logger.Info("No scheduled jobs configured")
		return
	}

	for _, job := range ts.jobs {
		logger.Info("Scheduled job",
			zap.String("job_name", job.Name),
			zap.String("cron", job.Cron),
			zap.Time("next_run", job.NextRun),
			zap.String("status", job.Status),
		)
	}
}

// updateJobNextRunTime updates the next run time for a job
func (ts *TaskScheduler) updateJobNextRunTime(job *ScheduledJob) error {
	for _, entry := range ts.cron.Entries() {
		if entry.ID == job.EntryID && !entry.Next.IsZero() {
			job.NextRun = entry.Next
			return nil
		}
	}

	schedule, err := cron.ParseStandard(job.Cron)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %s: %w", job.Cron, err)
	}
	job.NextRun = schedule.Next(time.Now())
	return nil
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookexchange/internal/tasks"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer hands a task to the background queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// AuditCleanupScheduler periodically enqueues audit retention cleanup.
type AuditCleanupScheduler struct {
	queue         Enqueuer
	schedule      string
	retentionDays int

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
	runCtx    context.Context
}

// NewAuditCleanupScheduler creates a new scheduler instance. An empty
// schedule leaves the scheduler disabled.
func NewAuditCleanupScheduler(queue Enqueuer, schedule string, retentionDays int) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		queue:         queue,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(scheduleParser)),
	}
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := scheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// Start begins the scheduler if a schedule is configured.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Audit cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID
	s.runCtx = ctx

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s' (retention %d days). Next run: %v",
		s.schedule, s.retentionDays, s.cron.Entry(entryID).Next)
	return nil
}

// Stop gracefully stops the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("Audit cleanup scheduler: stopped")
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (s *AuditCleanupScheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// IsRunning reports whether the cron job is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the next scheduled run, or the zero time when stopped.
func (s *AuditCleanupScheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunNow enqueues a cleanup immediately, outside the schedule.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) (string, error) {
	return s.queue.Enqueue(ctx, tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays})
}

func (s *AuditCleanupScheduler) runCleanup() {
	s.mu.RLock()
	ctx := s.runCtx
	s.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	id, err := s.RunNow(ctx)
	if err != nil {
		log.Printf("Audit cleanup scheduler: %v", err)
		return
	}
	log.Printf("Audit cleanup scheduler: enqueued task %s", id)
}

package scheduler

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"hestia/config"
	"hestia/internal/billing"
	"hestia/internal/metrics"
	"hestia/internal/queue"
)

// JobSource lists the statements of a billing run
type JobSource interface {
	Jobs(date time.Time) ([]billing.Job, error)
}

// Pusher accepts a billing run for processing
type Pusher interface {
	Push(jobs []billing.Job) error
}

// Scheduler triggers the monthly billing run
type Scheduler struct {
	cron      *cron.Cron
	source    JobSource
	queue     Pusher
	config    *config.Config
	logger    *logrus.Logger
	now       func() time.Time
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(source JobSource, q Pusher, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		cron:   cron.New(),
		source: source,
		queue:  q,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the billing run and starts the cron loop
func (s *Scheduler) Start() error {
	if !s.config.Billing.Enabled {
		s.logger.Info("Scheduled billing is disabled in configuration")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.Billing.Schedule, func() {
		date := StatementDate(s.now())
		s.logger.WithField("date", date.Format("2006-01-02")).Info("Starting scheduled billing run")
		if _, err := s.RunNow(date); err != nil {
			s.logger.WithError(err).Error("Scheduled billing run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid billing schedule %q: %w", s.config.Billing.Schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("cron", s.config.Billing.Schedule).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running trigger to return
func (s *Scheduler) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.logger.Info("Scheduler stopped")
	}
}

// RunNow queues a billing run for date and returns how many statements it holds
func (s *Scheduler) RunNow(date time.Time) (int, error) {
	jobs, err := s.source.Jobs(date)
	if err != nil {
		return 0, fmt.Errorf("failed to list billing jobs: %w", err)
	}
	if len(jobs) == 0 {
		s.logger.Info("No active leases to bill")
		return 0, nil
	}

	if err := s.queue.Push(jobs); err != nil {
		if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrQueueClosed) {
			metrics.IncQueueRejected()
		}
		return 0, err
	}

	s.logger.WithField("jobs", len(jobs)).Info("Queued billing run")
	return len(jobs), nil
}

// StatementDate is the UTC calendar day of t, as statements are dated
func StatementDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

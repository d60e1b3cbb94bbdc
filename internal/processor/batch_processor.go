package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hestia/config"
	"hestia/internal/billing"
	"hestia/internal/database"
	"hestia/internal/metrics"
	"hestia/internal/queue"
)

// Generator produces and stores one statement
type Generator interface {
	GenerateStatement(ctx context.Context, leaseholderID int64, date time.Time) (*billing.Result, error)
}

// Notifier is told about every finished billing run
type Notifier interface {
	NotifyBillingRun(summary billing.RunSummary) error
}

// BatchProcessor generates the statements of queued billing runs
type BatchProcessor struct {
	generator Generator
	notifier  Notifier
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.JobQueue
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
}

// NewBatchProcessor creates a new batch processor instance. notifier may be nil.
func NewBatchProcessor(generator Generator, notifier Notifier, queue *queue.JobQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		generator: generator,
		notifier:  notifier,
		queue:     queue,
		config:    config,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start subscribes the processor to the queue
func (p *BatchProcessor) Start() {
	p.startOnce.Do(func() {
		p.queue.Subscribe(func(batch []billing.Job) error {
			p.waitGroup.Add(1)
			defer p.waitGroup.Done()
			if p.ctx.Err() != nil {
				return p.ctx.Err()
			}
			return p.processBatch(batch)
		})
	})
}

// Stop cancels in-flight retries and waits for the current batch to finish
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

// processBatch generates every job of a billing run and reports the summary
func (p *BatchProcessor) processBatch(batch []billing.Job) error {
	summary := billing.RunSummary{}
	if len(batch) > 0 {
		summary.Date = batch[0].Date
	}

	for _, job := range batch {
		res, err := p.processJob(job)
		if err != nil {
			p.logger.WithError(err).WithField("leaseholder_id", job.LeaseholderID).Error("Statement generation failed")
			metrics.IncBillingJob(metrics.ResultError)
			summary.Fail(job.LeaseholderID)
			continue
		}
		metrics.IncBillingJob(metrics.ResultSuccess)
		summary.Add(res)
	}

	p.logger.WithFields(logrus.Fields{
		"generated": summary.Generated,
		"failed":    len(summary.Failed),
		"billed":    summary.Billed.StringFixed(2),
	}).Info("Billing run finished")

	if p.notifier != nil {
		if err := p.notifier.NotifyBillingRun(summary); err != nil {
			p.logger.WithError(err).Warn("Failed to send billing run notification")
		}
	}

	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d statements failed", len(summary.Failed), len(batch))
	}
	return nil
}

// processJob generates one statement with retry logic
func (p *BatchProcessor) processJob(job billing.Job) (*billing.Result, error) {
	var err error
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying statement generation, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			select {
			case <-p.ctx.Done():
				return nil, p.ctx.Err()
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			}
		}

		var res *billing.Result
		res, err = p.generator.GenerateStatement(p.ctx, job.LeaseholderID, job.Date)
		if err == nil {
			return res, nil
		}
		// a missing leaseholder will not appear on retry
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}

		p.logger.Errorf("Statement generation failed: %v", err)
	}

	return nil, fmt.Errorf("failed to generate statement after %d attempts: %w", p.config.BatchProcessing.MaxRetries+1, err)
}

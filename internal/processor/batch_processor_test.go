package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hestia/config"
	"hestia/internal/billing"
	"hestia/internal/database"
	"hestia/internal/models"
	"hestia/internal/queue"
)

// MockGenerator is a mock implementation of Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateStatement(ctx context.Context, leaseholderID int64, date time.Time) (*billing.Result, error) {
	args := m.Called(leaseholderID, date)
	res, _ := args.Get(0).(*billing.Result)
	return res, args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBillingRun(summary billing.RunSummary) error {
	args := m.Called(summary)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BatchProcessing.MaxRetries = 2
	cfg.BatchProcessing.RetryDelay = 0
	return cfg
}

func result(amount string) *billing.Result {
	return &billing.Result{Record: models.StatementRecord{AmountDue: decimal.RequireFromString(amount)}}
}

var runDate = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func TestNewBatchProcessor(t *testing.T) {
	// Setup
	gen := &MockGenerator{}
	q := queue.NewJobQueue(10, logrus.New())
	cfg := testConfig()
	logger := logrus.New()

	// Test
	processor := NewBatchProcessor(gen, nil, q, cfg, logger)

	// Assert
	assert.NotNil(t, processor)
	assert.Equal(t, gen, processor.generator)
	assert.Equal(t, q, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	gen := &MockGenerator{}
	notifier := &MockNotifier{}
	processor := NewBatchProcessor(gen, notifier, queue.NewJobQueue(10, logrus.New()), testConfig(), logrus.New())

	batch := []billing.Job{
		{LeaseholderID: 1, Date: runDate},
		{LeaseholderID: 2, Date: runDate},
	}

	gen.On("GenerateStatement", int64(1), runDate).Return(result("2793.5"), nil).Once()
	gen.On("GenerateStatement", int64(2), runDate).Return(result("1700"), nil).Once()
	notifier.On("NotifyBillingRun", mock.MatchedBy(func(s billing.RunSummary) bool {
		return s.Generated == 2 && len(s.Failed) == 0 && s.Billed.String() == "4493.5" && s.Date.Equal(runDate)
	})).Return(nil).Once()

	err := processor.processBatch(batch)
	assert.NoError(t, err)
	gen.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestBatchProcessor_Retry(t *testing.T) {
	gen := &MockGenerator{}
	processor := NewBatchProcessor(gen, nil, queue.NewJobQueue(10, logrus.New()), testConfig(), logrus.New())

	// Fails twice, then succeeds
	gen.On("GenerateStatement", int64(1), runDate).Return(nil, errors.New("database is locked")).Twice()
	gen.On("GenerateStatement", int64(1), runDate).Return(result("10"), nil).Once()

	res, err := processor.processJob(billing.Job{LeaseholderID: 1, Date: runDate})
	require.NoError(t, err)
	assert.Equal(t, "10", res.Record.AmountDue.String())
	gen.AssertNumberOfCalls(t, "GenerateStatement", 3)
}

func TestBatchProcessor_RetryExhausted(t *testing.T) {
	gen := &MockGenerator{}
	notifier := &MockNotifier{}
	processor := NewBatchProcessor(gen, notifier, queue.NewJobQueue(10, logrus.New()), testConfig(), logrus.New())

	gen.On("GenerateStatement", int64(1), runDate).Return(nil, errors.New("disk full"))
	notifier.On("NotifyBillingRun", mock.Anything).Return(fmt.Errorf("telegram down")).Once()

	err := processor.processBatch([]billing.Job{{LeaseholderID: 1, Date: runDate}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 statements failed")
	gen.AssertNumberOfCalls(t, "GenerateStatement", 3)

	summary := notifier.Calls[0].Arguments.Get(0).(billing.RunSummary)
	assert.Equal(t, []int64{1}, summary.Failed)
	assert.Equal(t, 0, summary.Generated)
}

func TestBatchProcessor_NoRetryOnNotFound(t *testing.T) {
	gen := &MockGenerator{}
	processor := NewBatchProcessor(gen, nil, queue.NewJobQueue(10, logrus.New()), testConfig(), logrus.New())

	gen.On("GenerateStatement", int64(9), runDate).Return(nil, fmt.Errorf("failed to load leaseholder 9: %w", database.ErrNotFound)).Once()

	_, err := processor.processJob(billing.Job{LeaseholderID: 9, Date: runDate})
	assert.ErrorIs(t, err, database.ErrNotFound)
	gen.AssertNumberOfCalls(t, "GenerateStatement", 1)
}

func TestBatchProcessor_StartStop(t *testing.T) {
	gen := &MockGenerator{}
	q := queue.NewJobQueue(10, logrus.New())
	processor := NewBatchProcessor(gen, nil, q, testConfig(), logrus.New())

	done := make(chan struct{})
	gen.On("GenerateStatement", int64(3), runDate).Run(func(mock.Arguments) { close(done) }).Return(result("1"), nil).Once()

	processor.Start()
	processor.Start()
	q.Start()
	require.NoError(t, q.Push([]billing.Job{{LeaseholderID: 3, Date: runDate}}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}

	processor.Stop()
	q.Close()
	assert.True(t, q.IsClosed())
	gen.AssertExpectations(t)
}

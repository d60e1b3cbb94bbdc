package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hestia/internal/database"
	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/metrics"
	"hestia/internal/models"
	"hestia/internal/render"
	"hestia/internal/statements"
)

// CompanyProvider supplies the letterhead printed on statements
type CompanyProvider interface {
	Get() models.Company
}

// Job is one statement to generate during a billing run
type Job struct {
	LeaseholderID int64     `json:"leaseholder_id"`
	Date          time.Time `json:"date"`
}

// Result is a persisted statement together with its computed breakdown
type Result struct {
	Record    models.StatementRecord
	Statement *statements.Statement
}

type Service struct {
	db             *database.Database
	company        CompanyProvider
	statementsPath string
	gasPolicy      fees.GasPolicy
	logger         *logrus.Logger
}

func NewService(db *database.Database, company CompanyProvider, statementsPath string, gasPolicy fees.GasPolicy, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		db:             db,
		company:        company,
		statementsPath: statementsPath,
		gasPolicy:      gasPolicy,
		logger:         logger,
	}
}

// Preview computes the statement a leaseholder would receive for date without storing anything.
func (s *Service) Preview(ctx context.Context, leaseholderID int64, date time.Time) (*statements.Statement, error) {
	st, _, err := s.build(ctx, leaseholderID, date)
	return st, err
}

func (s *Service) build(ctx context.Context, leaseholderID int64, date time.Time) (*statements.Statement, models.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.Property{}, err
	}

	leaseholder, err := s.db.GetLeaseholder(leaseholderID)
	if err != nil {
		return nil, models.Property{}, fmt.Errorf("failed to load leaseholder %d: %w", leaseholderID, err)
	}
	property, err := s.db.GetProperty(leaseholder.PropertyID)
	if err != nil {
		return nil, models.Property{}, fmt.Errorf("failed to load property %d: %w", leaseholder.PropertyID, err)
	}
	list, err := s.db.GetCurrentExpenses(property.ID, statements.PeriodStart(date))
	if err != nil {
		return nil, models.Property{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	st := statements.New(date, leaseholder, property, list, statements.WithGasPolicy(s.gasPolicy))
	return st, property, nil
}

// GenerateStatement computes, renders and stores a leaseholder's statement for date.
func (s *Service) GenerateStatement(ctx context.Context, leaseholderID int64, date time.Time) (*Result, error) {
	start := time.Now()
	res, err := s.generate(ctx, leaseholderID, date)
	if err != nil {
		metrics.ObserveStatementGenerate(metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveStatementGenerate(metrics.ResultSuccess, time.Since(start))
	metrics.AddBilled(res.Record.AmountDue)
	return res, nil
}

func (s *Service) generate(ctx context.Context, leaseholderID int64, date time.Time) (*Result, error) {
	st, property, err := s.build(ctx, leaseholderID, date)
	if err != nil {
		return nil, err
	}

	prior, err := s.db.ListStatements(leaseholderID)
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	for _, rec := range prior {
		balance = balance.Add(rec.Outstanding())
	}

	reference := uuid.NewString()
	doc, err := render.StatementPDF(render.Document{
		Statement:      st,
		Property:       property,
		Company:        s.company.Get(),
		Reference:      reference,
		BalanceForward: balance,
	})
	if err != nil {
		metrics.IncStatementExport("pdf", metrics.ResultError)
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	metrics.IncStatementExport("pdf", metrics.ResultSuccess)

	if err := os.MkdirAll(s.statementsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create statements directory: %w", err)
	}
	path := filepath.Join(s.statementsPath, fmt.Sprintf("%s_%d_%s.pdf",
		date.Format(expenses.DateLayout), leaseholderID, reference))

	rec := models.StatementRecord{
		LeaseholderID: leaseholderID,
		Reference:     reference,
		PeriodStart:   statements.PeriodStart(date).Format(expenses.DateLayout),
		Date:          date.Format(expenses.DateLayout),
		FeeStructure:  fees.Encode(st.FeeStructure()),
		AmountDue:     st.Total(),
		AmountPaid:    decimal.Zero,
		DocumentPath:  path,
	}

	// The record is only committed once the document is on disk
	err = s.db.Gorm().Transaction(func(tx *gorm.DB) error {
		if err := s.db.InsertStatement(tx, &rec); err != nil {
			return err
		}
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return fmt.Errorf("failed to write statement document: %w", err)
		}
		return nil
	})
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"leaseholder_id": leaseholderID,
		"reference":      reference,
		"amount_due":     rec.AmountDue.StringFixed(2),
		"path":           path,
	}).Info("Generated statement")

	return &Result{Record: rec, Statement: st}, nil
}

// Jobs lists one job per leaseholder whose lease is active on date.
func (s *Service) Jobs(date time.Time) ([]Job, error) {
	leaseholders, err := s.db.ListLeaseholders()
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(leaseholders))
	for _, h := range leaseholders {
		if !h.Lease.Active(date) {
			s.logger.WithField("leaseholder_id", h.ID).Debug("Skipping leaseholder without an active lease")
			continue
		}
		jobs = append(jobs, Job{LeaseholderID: h.ID, Date: date})
	}
	return jobs, nil
}

// RemoveDocument deletes a statement's stored PDF, ignoring a missing file.
func (s *Service) RemoveDocument(rec models.StatementRecord) error {
	if rec.DocumentPath == "" {
		return nil
	}
	if err := os.Remove(rec.DocumentPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove statement document: %w", err)
	}
	return nil
}

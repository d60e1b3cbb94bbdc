package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunSummary describes the outcome of one billing run
type RunSummary struct {
	Date      time.Time
	Generated int
	Failed    []int64
	Billed    decimal.Decimal
}

// Add records a generated statement
func (s *RunSummary) Add(res *Result) {
	s.Generated++
	s.Billed = s.Billed.Add(res.Record.AmountDue)
}

// Fail records a leaseholder whose statement could not be generated
func (s *RunSummary) Fail(leaseholderID int64) {
	s.Failed = append(s.Failed, leaseholderID)
}

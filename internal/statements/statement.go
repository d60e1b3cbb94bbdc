package statements

import (
	"time"

	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/models"

	"github.com/shopspring/decimal"
)

// Statement is the billing record for one leaseholder and one period. The
// total is computed once by New and never changes; a correction is a new
// Statement.
type Statement struct {
	date        time.Time
	leaseholder models.Leaseholder
	fees        fees.FeeStructure
	expenses    []expenses.Expense
	totals      expenses.Totals
	costs       fees.CostTotals
	breakdown   fees.Breakdown
}

type options struct {
	evaluator fees.Evaluator
}

type Option func(*options)

// WithGasPolicy overrides fees.DefaultGasPolicy
func WithGasPolicy(p fees.GasPolicy) Option {
	return func(o *options) {
		o.evaluator.GasPolicy = p
	}
}

// New builds the statement for a leaseholder. list must already be filtered
// to the leaseholder's property and the billing period.
func New(date time.Time, leaseholder models.Leaseholder, property models.Property, list []expenses.Expense, opts ...Option) *Statement {
	o := options{evaluator: fees.Evaluator{GasPolicy: fees.DefaultGasPolicy}}
	for _, opt := range opts {
		opt(&o)
	}

	owned := make([]expenses.Expense, len(list))
	copy(owned, list)

	totals := expenses.Aggregate(owned)
	costs := property.CostTotals()
	fs := leaseholder.Lease.Fees

	return &Statement{
		date:        date,
		leaseholder: leaseholder,
		fees:        fs,
		expenses:    owned,
		totals:      totals,
		costs:       costs,
		breakdown:   o.evaluator.Evaluate(fs, totals, costs),
	}
}

// PeriodStart is the first day considered by a statement dated date: the same
// day one month earlier, clamped to that month's last day (Mar 31 -> Feb 29).
func PeriodStart(date time.Time) time.Time {
	first := time.Date(date.Year(), date.Month()-1, 1, 0, 0, 0, 0, date.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := date.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

func (s *Statement) Date() time.Time                 { return s.date }
func (s *Statement) Leaseholder() models.Leaseholder { return s.leaseholder }
func (s *Statement) FeeStructure() fees.FeeStructure { return s.fees }
func (s *Statement) Totals() expenses.Totals         { return s.totals }
func (s *Statement) Costs() fees.CostTotals          { return s.costs }
func (s *Statement) Total() decimal.Decimal          { return s.breakdown.Total }

// Expenses returns a copy of the expenses the statement was built from
func (s *Statement) Expenses() []expenses.Expense {
	out := make([]expenses.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Lines returns a copy of the statement lines in display order
func (s *Statement) Lines() []fees.LineItem {
	out := make([]fees.LineItem, len(s.breakdown.Lines))
	copy(out, s.breakdown.Lines)
	for i := range out {
		out[i].Rates = append([]fees.Rate(nil), out[i].Rates...)
	}
	return out
}

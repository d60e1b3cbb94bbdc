package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRecord is the stored form of a generated statement
type StatementRecord struct {
	ID            int64           `gorm:"column:statement_id;primaryKey;autoIncrement" json:"id"`
	LeaseholderID int64           `gorm:"column:leaseholder_id;not null;index" json:"leaseholder_id"`
	Reference     string          `gorm:"column:reference;uniqueIndex" json:"reference"`
	PeriodStart   string          `gorm:"column:period_start" json:"period_start"`
	Date          string          `gorm:"column:statement_date" json:"date"`
	FeeStructure  string          `gorm:"column:fee_structure" json:"fee_structure"`
	AmountDue     decimal.Decimal `gorm:"column:amount_due;type:text" json:"amount_due"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:text" json:"amount_paid"`
	DocumentPath  string          `gorm:"column:statement_path" json:"document_path"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (StatementRecord) TableName() string {
	return "statements"
}

// Outstanding is what is still owed on the statement
func (s StatementRecord) Outstanding() decimal.Decimal {
	return s.AmountDue.Sub(s.AmountPaid)
}

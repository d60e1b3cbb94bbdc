package expenses

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage and wire layout for expense dates
const DateLayout = "2006-01-02"

// Expense is a single recorded cost against one property
type Expense struct {
	ID          int64           `json:"id"`
	PropertyID  int64           `json:"property_id"`
	Type        Type            `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date_incurred"`
	Description string          `json:"description"`
}

// New creates an expense that has not been persisted yet
func New(propertyID int64, t Type, amount decimal.Decimal, date time.Time, description string) Expense {
	return Expense{
		PropertyID:  propertyID,
		Type:        t,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
}

// ParseDate decodes a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return t, nil
}

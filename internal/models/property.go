package models

import (
	"fmt"

	"hestia/internal/fees"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	ZipCode string `json:"zip_code" yaml:"zip_code"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

// Property is a rental building. PropertyTax and BusinessInsurance are the
// per-period totals that net leases are prorated against.
type Property struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name" binding:"required"`
	Address           Address         `json:"address"`
	PropertyTax       decimal.Decimal `json:"property_tax"`
	BusinessInsurance decimal.Decimal `json:"business_insurance"`
	NumUnits          int             `json:"num_units"`
}

// CostTotals returns the fixed costs used by the fee evaluator
func (p Property) CostTotals() fees.CostTotals {
	return fees.CostTotals{
		PropertyTax: p.PropertyTax,
		Insurance:   p.BusinessInsurance,
	}
}

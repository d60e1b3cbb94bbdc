package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Terms is the JSON form of a FeeStructure used at the HTTP boundary. Rates
// are validated while unmarshaling.
type Terms struct {
	Kind            string          `json:"kind" binding:"required"`
	BaseRent        decimal.Decimal `json:"base_rent"`
	PropertyTaxRate *Rate           `json:"property_tax_rate,omitempty"`
	InsuranceRate   *Rate           `json:"insurance_rate,omitempty"`
	CAMRates        *CAMRates       `json:"cam_rates,omitempty"`
}

// TermsOf converts a fee structure to its JSON form
func TermsOf(fs FeeStructure) Terms {
	t := Terms{Kind: fs.Kind().String(), BaseRent: fs.BaseRent().BaseRent}
	switch v := fs.(type) {
	case SingleNet:
		t.PropertyTaxRate = &v.PropertyTax
	case DoubleNet:
		t.PropertyTaxRate = &v.PropertyTax
		t.InsuranceRate = &v.Insurance
	case TripleNet:
		t.PropertyTaxRate = &v.PropertyTax
		t.InsuranceRate = &v.Insurance
		t.CAMRates = &v.CAM
	}
	return t
}

// FeeStructure builds the variant named by Kind. Every rate the variant needs
// must be present.
func (t Terms) FeeStructure() (FeeStructure, error) {
	if t.BaseRent.IsNegative() {
		return nil, fmt.Errorf("%w: negative base rent %s", ErrMalformedFeeStructure, t.BaseRent)
	}
	rent := Rent{BaseRent: t.BaseRent}

	switch t.Kind {
	case KindGross.String():
		return Gross{Rent: rent}, nil
	case KindSingleNet.String():
		if t.PropertyTaxRate == nil {
			return nil, missing(t.Kind, "property_tax_rate")
		}
		return SingleNet{Rent: rent, PropertyTax: *t.PropertyTaxRate}, nil
	case KindDoubleNet.String():
		if t.PropertyTaxRate == nil {
			return nil, missing(t.Kind, "property_tax_rate")
		}
		if t.InsuranceRate == nil {
			return nil, missing(t.Kind, "insurance_rate")
		}
		return DoubleNet{Rent: rent, PropertyTax: *t.PropertyTaxRate, Insurance: *t.InsuranceRate}, nil
	case KindTripleNet.String():
		if t.PropertyTaxRate == nil {
			return nil, missing(t.Kind, "property_tax_rate")
		}
		if t.InsuranceRate == nil {
			return nil, missing(t.Kind, "insurance_rate")
		}
		cam := DefaultCAMRates()
		if t.CAMRates != nil {
			cam = *t.CAMRates
		}
		return TripleNet{Rent: rent, PropertyTax: *t.PropertyTaxRate, Insurance: *t.InsuranceRate, CAM: cam}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedFeeStructure, t.Kind)
	}
}

func missing(kind, name string) error {
	return fmt.Errorf("%w: %s lease requires %s", ErrMalformedFeeStructure, kind, name)
}

package fees

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedFeeStructure = errors.New("malformed fee structure")

const (
	fieldBaseRent    = "Base Rent "
	fieldPropertyTax = "Property Tax Rate "
	fieldInsurance   = "Insurance Rate "
	fieldCAM         = "CAM Rates "
)

// Encode renders a fee structure in its storage form, for example
//
//	Double Net: Base Rent 1700, Property Tax Rate 0.2, Insurance Rate 0.15
//
// Parse reverses it exactly.
func Encode(fs FeeStructure) string {
	fields := []string{fieldBaseRent + fs.BaseRent().BaseRent.String()}
	switch v := fs.(type) {
	case SingleNet:
		fields = append(fields, fieldPropertyTax+v.PropertyTax.String())
	case DoubleNet:
		fields = append(fields,
			fieldPropertyTax+v.PropertyTax.String(),
			fieldInsurance+v.Insurance.String())
	case TripleNet:
		fields = append(fields,
			fieldPropertyTax+v.PropertyTax.String(),
			fieldInsurance+v.Insurance.String(),
			fieldCAM+encodeCAM(v.CAM))
	}
	return fs.Kind().String() + ": " + strings.Join(fields, ", ")
}

func encodeCAM(c CAMRates) string {
	return fmt.Sprintf("electricity=%s recycling=%s garbage=%s water=%s landscaping=%s amenities=%s misc=%s",
		c.Electricity, c.Recycling, c.Garbage, c.Water, c.Landscaping, c.Amenities, c.Misc)
}

// Parse decodes the Encode form. Rates outside [0,1] are rejected with
// ErrRateOutOfRange.
func Parse(s string) (FeeStructure, error) {
	kindPart, rest, ok := strings.Cut(s, ": ")
	if !ok {
		return nil, fmt.Errorf("%w: missing kind in %q", ErrMalformedFeeStructure, s)
	}

	var kind Kind
	var fieldCount int
	switch kindPart {
	case KindGross.String():
		kind, fieldCount = KindGross, 1
	case KindSingleNet.String():
		kind, fieldCount = KindSingleNet, 2
	case KindDoubleNet.String():
		kind, fieldCount = KindDoubleNet, 3
	case KindTripleNet.String():
		kind, fieldCount = KindTripleNet, 4
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedFeeStructure, kindPart)
	}

	fields := strings.Split(rest, ", ")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrMalformedFeeStructure, kindPart, fieldCount, len(fields))
	}

	rentValue, err := field(fields[0], fieldBaseRent)
	if err != nil {
		return nil, err
	}
	baseRent, err := decimal.NewFromString(rentValue)
	if err != nil {
		return nil, fmt.Errorf("%w: base rent %q", ErrMalformedFeeStructure, rentValue)
	}
	rent := Rent{BaseRent: baseRent}
	if kind == KindGross {
		return Gross{Rent: rent}, nil
	}

	tax, err := rateField(fields[1], fieldPropertyTax)
	if err != nil {
		return nil, err
	}
	if kind == KindSingleNet {
		return SingleNet{Rent: rent, PropertyTax: tax}, nil
	}

	insurance, err := rateField(fields[2], fieldInsurance)
	if err != nil {
		return nil, err
	}
	if kind == KindDoubleNet {
		return DoubleNet{Rent: rent, PropertyTax: tax, Insurance: insurance}, nil
	}

	camValue, err := field(fields[3], fieldCAM)
	if err != nil {
		return nil, err
	}
	cam, err := parseCAM(camValue)
	if err != nil {
		return nil, err
	}
	return TripleNet{Rent: rent, PropertyTax: tax, Insurance: insurance, CAM: cam}, nil
}

func field(s, prefix string) (string, error) {
	value, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return "", fmt.Errorf("%w: expected %q in %q", ErrMalformedFeeStructure, strings.TrimSpace(prefix), s)
	}
	return value, nil
}

func rateField(s, prefix string) (Rate, error) {
	value, err := field(s, prefix)
	if err != nil {
		return Rate{}, err
	}
	return ParseRate(value)
}

func parseCAM(s string) (CAMRates, error) {
	var c CAMRates
	targets := map[string]*Rate{
		"electricity": &c.Electricity,
		"recycling":   &c.Recycling,
		"garbage":     &c.Garbage,
		"water":       &c.Water,
		"landscaping": &c.Landscaping,
		"amenities":   &c.Amenities,
		"misc":        &c.Misc,
	}

	pairs := strings.Fields(s)
	if len(pairs) != len(targets) {
		return CAMRates{}, fmt.Errorf("%w: expected %d CAM rates, got %d", ErrMalformedFeeStructure, len(targets), len(pairs))
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		target, known := targets[name]
		if !ok || !known {
			return CAMRates{}, fmt.Errorf("%w: bad CAM rate %q", ErrMalformedFeeStructure, pair)
		}
		r, err := ParseRate(value)
		if err != nil {
			return CAMRates{}, err
		}
		*target = r
		delete(targets, name)
	}
	return c, nil
}

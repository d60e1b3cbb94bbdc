package fees

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrRateOutOfRange = errors.New("rate must be between 0 and 1")

var one = decimal.NewFromInt(1)

// Rate is a proration coefficient in [0,1]. The zero value is a valid 0 rate;
// any other value has to come through NewRate or ParseRate.
type Rate struct {
	v decimal.Decimal
}

// NewRate validates v and wraps it as a Rate
func NewRate(v decimal.Decimal) (Rate, error) {
	if v.IsNegative() || v.GreaterThan(one) {
		return Rate{}, fmt.Errorf("%w: got %s", ErrRateOutOfRange, v)
	}
	return Rate{v: v}, nil
}

// ParseRate parses a decimal string into a validated Rate
func ParseRate(s string) (Rate, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to parse rate %q: %w", s, err)
	}
	return NewRate(v)
}

// MustRate is ParseRate for literals known to be valid. It panics otherwise.
func MustRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rate) Decimal() decimal.Decimal {
	return r.v
}

// Percent returns the rate scaled to a percentage
func (r Rate) Percent() decimal.Decimal {
	return r.v.Shift(2)
}

// Add returns the sum of two rates. The result may exceed 1; it is only used
// for combined categories, where each part was validated on its own.
func (r Rate) Add(o Rate) Rate {
	return Rate{v: r.v.Add(o.v)}
}

func (r Rate) String() string {
	return r.v.String()
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return r.v.MarshalJSON()
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var v decimal.Decimal
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	rate, err := NewRate(v)
	if err != nil {
		return err
	}
	*r = rate
	return nil
}

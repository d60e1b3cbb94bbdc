package fees

import "github.com/shopspring/decimal"

// Kind identifies a FeeStructure variant
type Kind int

const (
	KindGross Kind = iota
	KindSingleNet
	KindDoubleNet
	KindTripleNet
)

func (k Kind) String() string {
	switch k {
	case KindGross:
		return "Gross"
	case KindSingleNet:
		return "Single Net"
	case KindDoubleNet:
		return "Double Net"
	case KindTripleNet:
		return "Triple Net"
	default:
		return "Unknown"
	}
}

// Rent is the fixed base charge per period
type Rent struct {
	BaseRent decimal.Decimal `json:"base_rent"`
}

// CAMRates are the common area maintenance proration coefficients. Each one
// is applied to its own category total.
type CAMRates struct {
	Electricity Rate `json:"electricity"`
	Recycling   Rate `json:"recycling"`
	Garbage     Rate `json:"garbage"`
	Water       Rate `json:"water"`
	Landscaping Rate `json:"landscaping"`
	Amenities   Rate `json:"amenities"`
	Misc        Rate `json:"misc"`
}

// DefaultCAMRates returns the rates offered for a new triple net lease
func DefaultCAMRates() CAMRates {
	return CAMRates{
		Electricity: MustRate("0.4"),
		Recycling:   MustRate("0.3"),
		Garbage:     MustRate("0.3"),
		Water:       MustRate("0.3"),
		Landscaping: MustRate("0.3"),
		Amenities:   MustRate("0.2"),
		Misc:        MustRate("0.2"),
	}
}

// FeeStructure describes how a lease's recurring charges are composed. It is
// one of Gross, SingleNet, DoubleNet or TripleNet. Changing a lease's terms
// means replacing the whole value.
type FeeStructure interface {
	Kind() Kind
	BaseRent() Rent
	isFeeStructure()
}

// Gross leases charge base rent only
type Gross struct {
	Rent Rent
}

// SingleNet adds a share of the property tax
type SingleNet struct {
	Rent        Rent
	PropertyTax Rate
}

// DoubleNet adds a share of the building insurance
type DoubleNet struct {
	Rent        Rent
	PropertyTax Rate
	Insurance   Rate
}

// TripleNet adds a share of every CAM category
type TripleNet struct {
	Rent        Rent
	PropertyTax Rate
	Insurance   Rate
	CAM         CAMRates
}

func (Gross) Kind() Kind     { return KindGross }
func (SingleNet) Kind() Kind { return KindSingleNet }
func (DoubleNet) Kind() Kind { return KindDoubleNet }
func (TripleNet) Kind() Kind { return KindTripleNet }

func (g Gross) BaseRent() Rent     { return g.Rent }
func (s SingleNet) BaseRent() Rent { return s.Rent }
func (d DoubleNet) BaseRent() Rent { return d.Rent }
func (t TripleNet) BaseRent() Rent { return t.Rent }

func (Gross) isFeeStructure()     {}
func (SingleNet) isFeeStructure() {}
func (DoubleNet) isFeeStructure() {}
func (TripleNet) isFeeStructure() {}

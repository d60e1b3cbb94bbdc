package expenses

import "github.com/shopspring/decimal"

// Bucket is a proration category that expense amounts are summed into
type Bucket int

const (
	BucketElectricity Bucket = iota
	BucketGarbageRecycling
	BucketWater
	BucketGas
	BucketLandscaping
	BucketMisc
)

// Buckets lists every bucket in display order
var Buckets = []Bucket{
	BucketElectricity,
	BucketGarbageRecycling,
	BucketWater,
	BucketGas,
	BucketLandscaping,
	BucketMisc,
}

func (b Bucket) String() string {
	switch b {
	case BucketElectricity:
		return "electricity"
	case BucketGarbageRecycling:
		return "garbage_recycling"
	case BucketWater:
		return "water"
	case BucketGas:
		return "gas"
	case BucketLandscaping:
		return "landscaping"
	case BucketMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// Classify maps an expense type to the bucket it is prorated in
func Classify(t Type) Bucket {
	switch t {
	case MaintenanceLandscaping:
		return BucketLandscaping
	case UtilitiesWater:
		return BucketWater
	case UtilitiesElectricity:
		return BucketElectricity
	case UtilitiesGarbage:
		return BucketGarbageRecycling
	case UtilitiesGas:
		return BucketGas
	default:
		return BucketMisc
	}
}

// Totals holds the summed amount of each bucket for a period
type Totals struct {
	Electricity      decimal.Decimal `json:"electricity"`
	GarbageRecycling decimal.Decimal `json:"garbage_recycling"`
	Water            decimal.Decimal `json:"water"`
	Gas              decimal.Decimal `json:"gas"`
	Landscaping      decimal.Decimal `json:"landscaping"`
	Misc             decimal.Decimal `json:"misc"`
}

// Aggregate sums the expenses into their buckets. Filtering to a property and
// period is the caller's job.
func Aggregate(expenses []Expense) Totals {
	var t Totals
	for _, e := range expenses {
		t.add(Classify(e.Type), e.Amount)
	}
	return t
}

func (t *Totals) add(b Bucket, amount decimal.Decimal) {
	switch b {
	case BucketElectricity:
		t.Electricity = t.Electricity.Add(amount)
	case BucketGarbageRecycling:
		t.GarbageRecycling = t.GarbageRecycling.Add(amount)
	case BucketWater:
		t.Water = t.Water.Add(amount)
	case BucketGas:
		t.Gas = t.Gas.Add(amount)
	case BucketLandscaping:
		t.Landscaping = t.Landscaping.Add(amount)
	default:
		t.Misc = t.Misc.Add(amount)
	}
}

// Get returns the total of a single bucket
func (t Totals) Get(b Bucket) decimal.Decimal {
	switch b {
	case BucketElectricity:
		return t.Electricity
	case BucketGarbageRecycling:
		return t.GarbageRecycling
	case BucketWater:
		return t.Water
	case BucketGas:
		return t.Gas
	case BucketLandscaping:
		return t.Landscaping
	default:
		return t.Misc
	}
}

// Sum returns the total across all buckets
func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range Buckets {
		sum = sum.Add(t.Get(b))
	}
	return sum
}

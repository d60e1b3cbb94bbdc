package fees

import (
	"fmt"
	"strings"

	"hestia/internal/expenses"

	"github.com/shopspring/decimal"
)

// GasPolicy decides what a triple net lease does with the gas bucket. The
// CAM rates have no gas coefficient.
type GasPolicy int

const (
	// GasExcluded accumulates gas but leaves it out of the total
	GasExcluded GasPolicy = iota
	// GasPassThrough bills the full gas total to the tenant
	GasPassThrough
)

// DefaultGasPolicy is what Evaluate uses
const DefaultGasPolicy = GasExcluded

func (p GasPolicy) String() string {
	switch p {
	case GasExcluded:
		return "excluded"
	case GasPassThrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ParseGasPolicy decodes the String form of a GasPolicy
func ParseGasPolicy(s string) (GasPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "excluded":
		return GasExcluded, nil
	case "passthrough":
		return GasPassThrough, nil
	default:
		return GasExcluded, fmt.Errorf("unknown gas policy %q", s)
	}
}

// CostTotals are the fixed per-period property costs that tax and insurance
// rates are prorated against
type CostTotals struct {
	PropertyTax decimal.Decimal `json:"property_tax"`
	Insurance   decimal.Decimal `json:"business_insurance"`
}

// Section identifies a statement line
type Section int

const (
	SectionTotal Section = iota
	SectionRent
	SectionPropertyTax
	SectionInsurance
	SectionElectricity
	SectionGas
	SectionGarbageRecycling
	SectionWater
	SectionLandscaping
	SectionMisc
)

// LineItem is one human readable row of a statement
type LineItem struct {
	Section Section         `json:"section"`
	Label   string          `json:"label"`
	Rates   []Rate          `json:"rates,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

// Caption renders the label with its rates as percentages,
// e.g. "Garbage/Recycling (30.0% / 30.0%):"
func (l LineItem) Caption() string {
	if len(l.Rates) == 0 {
		return l.Label + ":"
	}
	parts := make([]string, len(l.Rates))
	for i, r := range l.Rates {
		parts[i] = r.Percent().StringFixed(1) + "%"
	}
	return fmt.Sprintf("%s (%s):", l.Label, strings.Join(parts, " / "))
}

// Display renders the amount rounded to cents
func (l LineItem) Display() string {
	return "$" + l.Amount.StringFixed(2)
}

// Breakdown is the evaluated result of a fee structure
type Breakdown struct {
	Total decimal.Decimal `json:"total"`
	Lines []LineItem      `json:"lines"`
}

// CalculateShare prorates a category total
func CalculateShare(rate Rate, total decimal.Decimal) decimal.Decimal {
	return rate.Decimal().Mul(total)
}

// Evaluator computes what a fee structure owes for a period
type Evaluator struct {
	GasPolicy GasPolicy
}

// Evaluate uses DefaultGasPolicy
func Evaluate(fs FeeStructure, totals expenses.Totals, costs CostTotals) Breakdown {
	return Evaluator{GasPolicy: DefaultGasPolicy}.Evaluate(fs, totals, costs)
}

// Evaluate returns the total due and the statement lines in display order:
// Total, Rent, Property Tax, Insurance, then the CAM categories. Gross leases
// only get a Rent line. The total is the unrounded sum of unrounded shares.
func (e Evaluator) Evaluate(fs FeeStructure, totals expenses.Totals, costs CostTotals) Breakdown {
	rent := fs.BaseRent().BaseRent
	rentLine := LineItem{Section: SectionRent, Label: "Rent", Amount: rent}

	var lines []LineItem
	switch v := fs.(type) {
	case Gross:
		return Breakdown{Total: rent, Lines: []LineItem{rentLine}}
	case SingleNet:
		lines = append(lines, rentLine, taxLine(v.PropertyTax, costs))
	case DoubleNet:
		lines = append(lines, rentLine, taxLine(v.PropertyTax, costs), insuranceLine(v.Insurance, costs))
	case TripleNet:
		lines = append(lines, rentLine, taxLine(v.PropertyTax, costs), insuranceLine(v.Insurance, costs))
		lines = append(lines, e.camLines(v.CAM, totals)...)
	default:
		panic(fmt.Sprintf("fees: unknown fee structure %T", fs))
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}

	return Breakdown{
		Total: total,
		Lines: append([]LineItem{{Section: SectionTotal, Label: "Total Due", Amount: total}}, lines...),
	}
}

func taxLine(rate Rate, costs CostTotals) LineItem {
	return share(SectionPropertyTax, "Property Tax", rate, costs.PropertyTax)
}

func insuranceLine(rate Rate, costs CostTotals) LineItem {
	return share(SectionInsurance, "Insurance", rate, costs.Insurance)
}

func (e Evaluator) camLines(cam CAMRates, totals expenses.Totals) []LineItem {
	lines := []LineItem{share(SectionElectricity, "Electricity", cam.Electricity, totals.Electricity)}
	if e.GasPolicy == GasPassThrough {
		lines = append(lines, LineItem{Section: SectionGas, Label: "Gas", Amount: totals.Gas})
	}

	garbage := share(SectionGarbageRecycling, "Garbage/Recycling", cam.Garbage.Add(cam.Recycling), totals.GarbageRecycling)
	garbage.Rates = []Rate{cam.Garbage, cam.Recycling}

	return append(lines,
		garbage,
		share(SectionWater, "Water/Sewer", cam.Water, totals.Water),
		share(SectionLandscaping, "Landscaping", cam.Landscaping, totals.Landscaping),
		share(SectionMisc, "Miscellaneous", cam.Misc, totals.Misc),
	)
}

func share(section Section, label string, rate Rate, total decimal.Decimal) LineItem {
	return LineItem{
		Section: section,
		Label:   label,
		Rates:   []Rate{rate},
		Amount:  CalculateShare(rate, total),
	}
}

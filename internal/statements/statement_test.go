package statements

import (
	"testing"
	"time"

	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProperty() models.Property {
	return models.Property{
		ID:                1,
		Name:              "Harbor Building",
		PropertyTax:       dec("1000"),
		BusinessInsurance: dec("950"),
		NumUnits:          10,
	}
}

func testLeaseholder(fs fees.FeeStructure) models.Leaseholder {
	return models.Leaseholder{
		ID:         7,
		PropertyID: 1,
		Kind:       models.LeaseholderIndividual,
		FirstName:  "John",
		LastName:   "Example",
		MoveInDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lease: models.Lease{
			StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			Fees:      fs,
		},
	}
}

func tripleNet() fees.TripleNet {
	return fees.TripleNet{
		Rent:        fees.Rent{BaseRent: dec("1700")},
		PropertyTax: fees.MustRate("0.2"),
		Insurance:   fees.MustRate("0.15"),
		CAM: fees.CAMRates{
			Electricity: fees.MustRate("0.3"),
			Recycling:   fees.MustRate("0.3"),
			Garbage:     fees.MustRate("0.3"),
			Water:       fees.MustRate("0.3"),
			Landscaping: fees.MustRate("0.3"),
			Amenities:   fees.MustRate("0.3"),
			Misc:        fees.MustRate("0.1"),
		},
	}
}

func periodExpenses() []expenses.Expense {
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return []expenses.Expense{
		expenses.New(1, expenses.MaintenanceLandscaping, dec("100"), date, "Normal Maintenance"),
		expenses.New(1, expenses.UtilitiesElectricity, dec("1920"), date, "Electricity Bill"),
		expenses.New(1, expenses.UtilitiesWater, dec("450"), date, "Water Bill"),
		expenses.New(1, expenses.OtherType, dec("100"), date, "Rat Abatement"),
	}
}

func TestNewComputesTotal(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := New(date, testLeaseholder(tripleNet()), testProperty(), periodExpenses())

	assert.Equal(t, "2793.5", s.Total().String())
	assert.Equal(t, date, s.Date())
	assert.Equal(t, fees.KindTripleNet, s.FeeStructure().Kind())
	assert.Equal(t, "John Example", s.Leaseholder().DisplayName())
	assert.Len(t, s.Expenses(), 4)
	assert.Equal(t, "1920", s.Totals().Electricity.String())
	assert.Equal(t, "950", s.Costs().Insurance.String())

	lines := s.Lines()
	require.Len(t, lines, 9)
	assert.Equal(t, fees.SectionTotal, lines[0].Section)
	assert.True(t, lines[0].Amount.Equal(s.Total()))
}

func TestNewWithNoExpenses(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := New(date, testLeaseholder(tripleNet()), testProperty(), nil)

	assert.Equal(t, "2042.5", s.Total().String())
	assert.Empty(t, s.Expenses())
}

func TestNewGross(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	gross := fees.Gross{Rent: fees.Rent{BaseRent: dec("1250")}}
	s := New(date, testLeaseholder(gross), testProperty(), periodExpenses())

	assert.Equal(t, "1250", s.Total().String())
	require.Len(t, s.Lines(), 1)
}

func TestNewWithGasPolicy(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	list := append(periodExpenses(), expenses.New(1, expenses.UtilitiesGas, dec("60"), date, "Gas Bill"))

	assert.Equal(t, "2793.5", New(date, testLeaseholder(tripleNet()), testProperty(), list).Total().String())
	assert.Equal(t, "2853.5",
		New(date, testLeaseholder(tripleNet()), testProperty(), list, WithGasPolicy(fees.GasPassThrough)).Total().String())
}

func TestStatementIsImmutable(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	list := periodExpenses()
	s := New(date, testLeaseholder(tripleNet()), testProperty(), list)

	list[0].Amount = dec("999999")
	got := s.Expenses()
	got[1].Amount = dec("0")
	lines := s.Lines()
	lines[0].Amount = dec("0")
	require.NotEmpty(t, lines[2].Rates)
	lines[2].Rates[0] = fees.MustRate("1")

	assert.Equal(t, "100", s.Expenses()[0].Amount.String())
	assert.Equal(t, "1920", s.Expenses()[1].Amount.String())
	assert.Equal(t, "2793.5", s.Lines()[0].Amount.String())
	assert.Equal(t, "2793.5", s.Total().String())
	assert.Equal(t, "Property Tax (20.0%):", s.Lines()[2].Caption())
}

func TestPeriodStart(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want time.Time
	}{
		{name: "First of month", date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Mid month", date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{name: "Leap year month end", date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{name: "Common year month end", date: time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), want: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{name: "Thirty day previous month", date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), want: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{name: "Across the year", date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), want: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodStart(tt.date)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Before(time.Date(tt.date.Year(), tt.date.Month(), 1, 0, 0, 0, 0, time.UTC)))
		})
	}
}

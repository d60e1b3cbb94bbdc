package models

import (
	"encoding/json"
	"testing"
	"time"

	"hestia/internal/fees"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseholderDisplayName(t *testing.T) {
	person := Leaseholder{Kind: LeaseholderIndividual, FirstName: "John", LastName: "Example"}
	company := Leaseholder{Kind: LeaseholderCompany, CompanyName: "Acme Dental", FirstName: "ignored"}

	assert.Equal(t, "John Example", person.DisplayName())
	assert.Equal(t, "Acme Dental", company.DisplayName())
}

func TestLeaseActive(t *testing.T) {
	lease := Lease{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, lease.Active(lease.StartDate))
	assert.True(t, lease.Active(lease.EndDate))
	assert.False(t, lease.Active(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, lease.Active(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseRequestStatus(t *testing.T) {
	status, ok := ParseRequestStatus("InProgress")
	assert.True(t, ok)
	assert.Equal(t, RequestInProgress, status)

	_, ok = ParseRequestStatus("Done")
	assert.False(t, ok)
}

func TestStatementOutstanding(t *testing.T) {
	rec := StatementRecord{
		AmountDue:  decimal.RequireFromString("2793.5"),
		AmountPaid: decimal.RequireFromString("2800"),
	}
	assert.Equal(t, "-6.5", rec.Outstanding().String())
}

func TestPropertyCostTotals(t *testing.T) {
	p := Property{PropertyTax: decimal.NewFromInt(1000), BusinessInsurance: decimal.NewFromInt(950)}
	costs := p.CostTotals()
	assert.Equal(t, "1000", costs.PropertyTax.String())
	assert.Equal(t, "950", costs.Insurance.String())
	assert.Equal(t, "12 Pier Rd Tacoma, WA 98402",
		Address{Street: "12 Pier Rd", City: "Tacoma", State: "WA", ZipCode: "98402"}.String())
}

func TestLeaseJSON(t *testing.T) {
	input := `{
		"start_date": "2024-03-01",
		"end_date": "2025-02-28",
		"payment_method": "check",
		"terms": {"kind": "Double Net", "base_rent": "1700", "property_tax_rate": 0.2, "insurance_rate": 0.15}
	}`

	var lease Lease
	require.NoError(t, json.Unmarshal([]byte(input), &lease))
	assert.Equal(t, fees.KindDoubleNet, lease.Fees.Kind())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), lease.EndDate)
	assert.Equal(t, "Double Net: Base Rent 1700, Property Tax Rate 0.2, Insurance Rate 0.15", fees.Encode(lease.Fees))

	data, err := json.Marshal(lease)
	require.NoError(t, err)
	var back Lease
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, fees.Encode(lease.Fees), fees.Encode(back.Fees))
	assert.Equal(t, "check", back.PaymentMethod)
}

func TestLeaseJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Bad date", input: `{"start_date": "03/01/2024", "end_date": "2025-02-28", "terms": {"kind": "Gross", "base_rent": "1"}}`},
		{name: "Ends before start", input: `{"start_date": "2025-03-01", "end_date": "2024-02-28", "terms": {"kind": "Gross", "base_rent": "1"}}`},
		{name: "Rate out of range", input: `{"start_date": "2024-03-01", "end_date": "2025-02-28", "terms": {"kind": "Single Net", "base_rent": "1", "property_tax_rate": 3}}`},
		{name: "Missing rate", input: `{"start_date": "2024-03-01", "end_date": "2025-02-28", "terms": {"kind": "Single Net", "base_rent": "1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lease Lease
			assert.Error(t, json.Unmarshal([]byte(tt.input), &lease))
		})
	}
}

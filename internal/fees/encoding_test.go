package fees

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	gross, single, double, triple := variants()

	assert.Equal(t, "Gross: Base Rent 1700", Encode(gross))
	assert.Equal(t, "Single Net: Base Rent 1700, Property Tax Rate 0.2", Encode(single))
	assert.Equal(t, "Double Net: Base Rent 1700, Property Tax Rate 0.2, Insurance Rate 0.15", Encode(double))
	assert.Equal(t,
		"Triple Net: Base Rent 1700, Property Tax Rate 0.2, Insurance Rate 0.15, CAM Rates "+
			"electricity=0.3 recycling=0.3 garbage=0.3 water=0.3 landscaping=0.3 amenities=0.3 misc=0.1",
		Encode(triple))
}

func TestParseRoundTrip(t *testing.T) {
	gross, single, double, triple := variants()
	odd := TripleNet{
		Rent:        Rent{BaseRent: dec("1234.56")},
		PropertyTax: MustRate("0.125"),
		Insurance:   MustRate("0"),
		CAM:         DefaultCAMRates(),
	}

	for _, fs := range []FeeStructure{gross, single, double, triple, odd} {
		t.Run(fs.Kind().String(), func(t *testing.T) {
			encoded := Encode(fs)
			parsed, err := Parse(encoded)
			require.NoError(t, err)
			assert.Equal(t, fs.Kind(), parsed.Kind())
			assert.Equal(t, encoded, Encode(parsed))
			assert.True(t, fs.BaseRent().BaseRent.Equal(parsed.BaseRent().BaseRent))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "No kind", input: "Base Rent 1700", err: ErrMalformedFeeStructure},
		{name: "Unknown kind", input: "Quadruple Net: Base Rent 1700", err: ErrMalformedFeeStructure},
		{name: "Missing field", input: "Double Net: Base Rent 1700, Property Tax Rate 0.2", err: ErrMalformedFeeStructure},
		{name: "Bad rent", input: "Gross: Base Rent lots", err: ErrMalformedFeeStructure},
		{name: "Wrong field order", input: "Single Net: Property Tax Rate 0.2, Base Rent 1700", err: ErrMalformedFeeStructure},
		{name: "Rate above one", input: "Single Net: Base Rent 1700, Property Tax Rate 1.2", err: ErrRateOutOfRange},
		{name: "Negative rate", input: "Double Net: Base Rent 1700, Property Tax Rate 0.2, Insurance Rate -0.1", err: ErrRateOutOfRange},
		{
			name:  "Unknown CAM rate",
			input: "Triple Net: Base Rent 1, Property Tax Rate 0, Insurance Rate 0, CAM Rates electricity=0 recycling=0 garbage=0 water=0 landscaping=0 amenities=0 pool=0",
			err:   ErrMalformedFeeStructure,
		},
		{
			name:  "Duplicate CAM rate",
			input: "Triple Net: Base Rent 1, Property Tax Rate 0, Insurance Rate 0, CAM Rates electricity=0 electricity=0 garbage=0 water=0 landscaping=0 amenities=0 misc=0",
			err:   ErrMalformedFeeStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewRate(t *testing.T) {
	for _, s := range []string{"0", "0.5", "1"} {
		_, err := ParseRate(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"-0.01", "1.0001", "20"} {
		_, err := ParseRate(s)
		assert.ErrorIs(t, err, ErrRateOutOfRange, s)
	}
	_, err := ParseRate("abc")
	assert.Error(t, err)
}

func TestRateJSON(t *testing.T) {
	var r Rate
	require.NoError(t, json.Unmarshal([]byte(`0.25`), &r))
	assert.Equal(t, "0.25", r.String())
	require.NoError(t, json.Unmarshal([]byte(`"0.3"`), &r))
	assert.Equal(t, "0.3", r.String())

	assert.ErrorIs(t, json.Unmarshal([]byte(`1.5`), &r), ErrRateOutOfRange)
}

func TestTermsRoundTrip(t *testing.T) {
	gross, single, double, triple := variants()
	for _, fs := range []FeeStructure{gross, single, double, triple} {
		t.Run(fs.Kind().String(), func(t *testing.T) {
			data, err := json.Marshal(TermsOf(fs))
			require.NoError(t, err)

			var terms Terms
			require.NoError(t, json.Unmarshal(data, &terms))
			back, err := terms.FeeStructure()
			require.NoError(t, err)
			assert.Equal(t, Encode(fs), Encode(back))
		})
	}
}

func TestTermsValidation(t *testing.T) {
	var terms Terms
	err := json.Unmarshal([]byte(`{"kind":"Single Net","base_rent":"900","property_tax_rate":2}`), &terms)
	assert.ErrorIs(t, err, ErrRateOutOfRange)

	terms = Terms{Kind: "Double Net", BaseRent: dec("900"), PropertyTaxRate: ptr(MustRate("0.1"))}
	_, err = terms.FeeStructure()
	assert.ErrorIs(t, err, ErrMalformedFeeStructure)

	terms = Terms{Kind: "Gross", BaseRent: dec("-1")}
	_, err = terms.FeeStructure()
	assert.ErrorIs(t, err, ErrMalformedFeeStructure)

	terms = Terms{Kind: "Triple Net", BaseRent: dec("900"), PropertyTaxRate: ptr(MustRate("0.1")), InsuranceRate: ptr(MustRate("0.1"))}
	fs, err := terms.FeeStructure()
	require.NoError(t, err)
	assert.Equal(t, Encode(TripleNet{Rent: Rent{dec("900")}, PropertyTax: MustRate("0.1"), Insurance: MustRate("0.1"), CAM: DefaultCAMRates()}), Encode(fs))
}

func ptr(r Rate) *Rate {
	return &r
}

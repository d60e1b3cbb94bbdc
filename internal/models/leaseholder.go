package models

import (
	"encoding/json"
	"fmt"
	"time"

	"hestia/internal/fees"
)

const dateLayout = "2006-01-02"

// Lease binds a leaseholder to a fee structure for a term
type Lease struct {
	ID            int64             `json:"id"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	Fees          fees.FeeStructure `json:"-"`
	PaymentMethod string            `json:"payment_method"`
}

type leaseJSON struct {
	ID            int64      `json:"id"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	PaymentMethod string     `json:"payment_method"`
	Terms         fees.Terms `json:"terms"`
}

// MarshalJSON writes dates as YYYY-MM-DD and the fee structure as fees.Terms
func (l Lease) MarshalJSON() ([]byte, error) {
	out := leaseJSON{
		ID:            l.ID,
		StartDate:     l.StartDate.Format(dateLayout),
		EndDate:       l.EndDate.Format(dateLayout),
		PaymentMethod: l.PaymentMethod,
	}
	if l.Fees != nil {
		out.Terms = fees.TermsOf(l.Fees)
	}
	return json.Marshal(out)
}

// UnmarshalJSON validates the dates and builds the fee structure from its terms
func (l *Lease) UnmarshalJSON(data []byte) error {
	var in leaseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("lease ends before it starts")
	}
	fs, err := in.Terms.FeeStructure()
	if err != nil {
		return err
	}

	*l = Lease{
		ID:            in.ID,
		StartDate:     start,
		EndDate:       end,
		Fees:          fs,
		PaymentMethod: in.PaymentMethod,
	}
	return nil
}

// Active reports whether date falls within the lease term
func (l Lease) Active(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

type LeaseholderKind string

const (
	LeaseholderIndividual LeaseholderKind = "individual"
	LeaseholderCompany    LeaseholderKind = "company"
)

type ContactInformation struct {
	RemitTo Address `json:"remit_to"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone_number"`
}

// Leaseholder is the party billed by statements, either a person or a company
type Leaseholder struct {
	ID          int64              `json:"id"`
	PropertyID  int64              `json:"property_id"`
	Kind        LeaseholderKind    `json:"kind"`
	FirstName   string             `json:"first_name,omitempty"`
	LastName    string             `json:"last_name,omitempty"`
	CompanyName string             `json:"company_name,omitempty"`
	TaxID       string             `json:"tax_id,omitempty"`
	Contact     ContactInformation `json:"contact"`
	MoveInDate  time.Time          `json:"move_in_date"`
	Lease       Lease              `json:"lease"`
}

// DisplayName is the name printed on statements
func (l Leaseholder) DisplayName() string {
	if l.Kind == LeaseholderCompany {
		return l.CompanyName
	}
	return fmt.Sprintf("%s %s", l.FirstName, l.LastName)
}

package models

// Company is the landlord shown on statement letterheads
type Company struct {
	Name    string  `json:"name" yaml:"name"`
	RemitTo Address `json:"remit_to" yaml:"remit_to"`
	Email   string  `json:"email" yaml:"email"`
	Phone   string  `json:"phone" yaml:"phone"`
	// PaymentTerms is printed in the statement footer
	PaymentTerms string `json:"payment_terms" yaml:"payment_terms"`
}

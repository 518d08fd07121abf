package models

import "strings"

// Person holds the identity and marital facts the tax engine needs from
// the people directory. A Person is created by lookup and never mutated
// during a computation.
type Person struct {
	// Code is the short identifier used in ledger category strings
	// (e.g. "S").
	Code string

	FirstName  string
	MiddleName string
	LastName   string

	// MaritalStatus as recorded in the directory ("Married", "Single").
	MaritalStatus string

	// SpouseCode is the spouse's person code; empty when unmarried.
	SpouseCode string

	// MarriageDate as a UK-formatted date string; empty when unmarried.
	MarriageDate string

	// NICsNeededForStatePension reports whether voluntary class 2
	// contributions are wanted to protect state-pension entitlement.
	NICsNeededForStatePension bool

	NationalInsuranceNumber string
	UniqueTaxReference      string
	DateOfBirth             string

	// Bank details for refunds.
	BankName      string
	SortCode      string
	AccountNumber string
}

// IsMarried reports whether the person is married with a recorded
// spouse. An unmarried person is a normal state, not an error.
func (p *Person) IsMarried() bool {
	return strings.EqualFold(p.MaritalStatus, "married") && p.SpouseCode != ""
}

// Name returns the person's full display name.
func (p *Person) Name() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

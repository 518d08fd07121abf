package models

import "github.com/shopspring/decimal"

// Transaction is one categorized ledger row. Rows enter the ledger
// through the import tooling; the tax engine only ever reads them.
type Transaction struct {
	// ID is the unique identifier for the row (UUID format).
	ID string

	// TaxYear the row was allocated to, e.g. "2024 to 2025".
	TaxYear TaxYear

	// Date of the transaction, ISO format (YYYY-MM-DD).
	Date string

	// Account is the bank account key the row came from.
	Account string

	Description string
	Note        string

	// Nett is the signed amount; income positive, outgoings negative
	// by ledger convention.
	Nett decimal.Decimal

	// Category is the raw "HMRC <person> <type> <subtype>" string.
	// See ParseCategory for the tagged form.
	Category string
}

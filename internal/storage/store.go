// Package storage provides abstractions for the persistent data the tax
// engine reads: the transaction ledger, per-year statutory constants,
// per-person overrides, and the people directory.
//
// The engine only ever reads through these interfaces; how rows get into
// the ledger (spreadsheet import, manual entry) is owned by separate
// tooling.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
)

var (
	// ErrConstantNotFound is returned when a tax year's constants table
	// is missing a named statutory figure. This is a configuration
	// error: computations must stop rather than default the value.
	ErrConstantNotFound = errors.New("tax year constant not found")

	// ErrPersonNotFound is returned when a person code has no entry in
	// the people directory.
	ErrPersonNotFound = errors.New("person not found")
)

// Ledger is the read-only query surface over categorized transactions.
// Absence of matching rows is never an error: sums are zero and listings
// are empty.
type Ledger interface {
	// SumByCategoryPrefix sums the signed nett amounts of rows in the
	// tax year whose category starts with prefix, rounded half-even to
	// 2 decimal places.
	SumByCategoryPrefix(ctx context.Context, year models.TaxYear, prefix string) (decimal.Decimal, error)

	// SumByCategory is the exact-match variant, used for a small number
	// of fixed category names such as pension contributions.
	SumByCategory(ctx context.Context, year models.TaxYear, category string) (decimal.Decimal, error)

	// ListByCategoryPrefix returns the matching rows ordered by date,
	// for breakdown reporting.
	ListByCategoryPrefix(ctx context.Context, year models.TaxYear, prefix string) ([]models.Transaction, error)

	// CountDistinctCategories counts distinct category strings matching
	// the prefix, used for "how many businesses/properties" checks.
	CountDistinctCategories(ctx context.Context, year models.TaxYear, prefix string) (int, error)

	// DistinctCategories returns the distinct category strings matching
	// the prefix, ordered lexically.
	DistinctCategories(ctx context.Context, year models.TaxYear, prefix string) ([]string, error)
}

// Constants looks up statutory figures by (tax year, name).
type Constants interface {
	// Constant returns the named figure for the tax year, or an error
	// wrapping ErrConstantNotFound when the year's table is incomplete.
	Constant(ctx context.Context, year models.TaxYear, name string) (decimal.Decimal, error)
}

// Overrides looks up manual per-person decisions. A nil pointer with a
// nil error means no override is configured, which is the normal case;
// callers apply their default policy on absence.
type Overrides interface {
	Override(ctx context.Context, personCode string, year models.TaxYear, name string) (*bool, error)
}

// People is the people directory lookup.
type People interface {
	Person(ctx context.Context, code string) (*models.Person, error)
}

// Store combines all read surfaces plus lifecycle. The SQLite
// implementation satisfies this; tests substitute fakes per interface.
type Store interface {
	Ledger
	Constants
	Overrides
	People

	// Close releases any resources held by the store.
	Close() error
}

package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Monetary values are stored as TEXT holding exact decimal strings; sums
// are performed in Go with exact decimal arithmetic rather than in SQL,
// which would coerce to binary floats.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    tax_year TEXT NOT NULL,
    date TEXT NOT NULL,
    account TEXT NOT NULL,
    description TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    nett TEXT NOT NULL,
    category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tax_year_constants (
    tax_year TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (tax_year, name)
);

CREATE TABLE IF NOT EXISTS overrides (
    person_code TEXT NOT NULL,
    tax_year TEXT NOT NULL,
    name TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (person_code, tax_year, name)
);

CREATE TABLE IF NOT EXISTS people (
    code TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    middle_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL,
    marital_status TEXT NOT NULL DEFAULT '',
    spouse_code TEXT NOT NULL DEFAULT '',
    marriage_date TEXT NOT NULL DEFAULT '',
    nics_needed_for_state_pension INTEGER NOT NULL DEFAULT 0,
    national_insurance_number TEXT NOT NULL DEFAULT '',
    unique_tax_reference TEXT NOT NULL DEFAULT '',
    date_of_birth TEXT NOT NULL DEFAULT '',
    bank_name TEXT NOT NULL DEFAULT '',
    sort_code TEXT NOT NULL DEFAULT '',
    account_number TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_year_category ON transactions(tax_year, category);
CREATE INDEX IF NOT EXISTS idx_transactions_year_date ON transactions(tax_year, date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

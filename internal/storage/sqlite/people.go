package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/storage"
)

// Person retrieves a person by code. A missing row wraps
// storage.ErrPersonNotFound.
func (s *SQLiteStore) Person(ctx context.Context, code string) (*models.Person, error) {
	query := `
		SELECT code, first_name, middle_name, last_name, marital_status, spouse_code,
		       marriage_date, nics_needed_for_state_pension, national_insurance_number,
		       unique_tax_reference, date_of_birth, bank_name, sort_code, account_number
		FROM people
		WHERE code = ?
	`
	p := &models.Person{}
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&p.Code,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.MaritalStatus,
		&p.SpouseCode,
		&p.MarriageDate,
		&p.NICsNeededForStatePension,
		&p.NationalInsuranceNumber,
		&p.UniqueTaxReference,
		&p.DateOfBirth,
		&p.BankName,
		&p.SortCode,
		&p.AccountNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", storage.ErrPersonNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person %q: %w", code, err)
	}
	return p, nil
}

// PutPerson inserts or replaces a person in the directory.
func (s *SQLiteStore) PutPerson(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO people (code, first_name, middle_name, last_name, marital_status, spouse_code,
		                    marriage_date, nics_needed_for_state_pension, national_insurance_number,
		                    unique_tax_reference, date_of_birth, bank_name, sort_code, account_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			first_name = excluded.first_name,
			middle_name = excluded.middle_name,
			last_name = excluded.last_name,
			marital_status = excluded.marital_status,
			spouse_code = excluded.spouse_code,
			marriage_date = excluded.marriage_date,
			nics_needed_for_state_pension = excluded.nics_needed_for_state_pension,
			national_insurance_number = excluded.national_insurance_number,
			unique_tax_reference = excluded.unique_tax_reference,
			date_of_birth = excluded.date_of_birth,
			bank_name = excluded.bank_name,
			sort_code = excluded.sort_code,
			account_number = excluded.account_number
	`
	_, err := s.db.ExecContext(ctx, query,
		p.Code,
		p.FirstName,
		p.MiddleName,
		p.LastName,
		p.MaritalStatus,
		p.SpouseCode,
		p.MarriageDate,
		p.NICsNeededForStatePension,
		p.NationalInsuranceNumber,
		p.UniqueTaxReference,
		p.DateOfBirth,
		p.BankName,
		p.SortCode,
		p.AccountNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to put person %q: %w", p.Code, err)
	}
	return nil
}

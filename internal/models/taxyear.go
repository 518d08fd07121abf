package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TaxYear identifies a UK fiscal year (6 April to 5 April) in the form
// "2024 to 2025". The literal string is the storage key for both ledger
// filtering and constants lookup, so the mapping is injective by
// construction.
type TaxYear string

// NewTaxYear builds the identifier for the year starting 6 April of
// startYear.
func NewTaxYear(startYear int) TaxYear {
	return TaxYear(fmt.Sprintf("%d to %d", startYear, startYear+1))
}

// ParseTaxYear validates an identifier string. The end year must be
// exactly one more than the start year.
func ParseTaxYear(s string) (TaxYear, error) {
	first, second, ok := strings.Cut(s, " to ")
	if !ok {
		return "", fmt.Errorf("malformed tax year %q: want \"YYYY to YYYY\"", s)
	}
	start, err := strconv.Atoi(first)
	if err != nil {
		return "", fmt.Errorf("malformed tax year %q: %w", s, err)
	}
	end, err := strconv.Atoi(second)
	if err != nil {
		return "", fmt.Errorf("malformed tax year %q: %w", s, err)
	}
	if end != start+1 {
		return "", fmt.Errorf("malformed tax year %q: end year must be start year + 1", s)
	}
	if start < 1000 || start > 9999 {
		return "", fmt.Errorf("malformed tax year %q: four-digit years required", s)
	}
	return TaxYear(s), nil
}

// StartYear returns the calendar year in which the tax year begins.
func (y TaxYear) StartYear() int {
	first, _, _ := strings.Cut(string(y), " to ")
	n, _ := strconv.Atoi(first)
	return n
}

// EndDate returns the 5 April end of the tax year formatted as a UK
// date, e.g. "05/04/2025". Used for "books made up to" style answers.
func (y TaxYear) EndDate() string {
	return fmt.Sprintf("05/04/%d", y.StartYear()+1)
}

func (y TaxYear) String() string {
	return string(y)
}

package models

import (
	"fmt"
	"strings"
)

// IncomeType is the taxonomy token that routes a ledger row to an
// income aggregate.
type IncomeType string

const (
	SelfEmployment IncomeType = "SES" // trading
	UKProperty     IncomeType = "UKP" // property
	Interest       IncomeType = "INT" // savings
	Dividends      IncomeType = "DIV"
	Pension        IncomeType = "PEN"
	Benefits       IncomeType = "BEN"
	PensionRelief  IncomeType = "RLF"
	Employment     IncomeType = "EMP"
)

const categoryMarker = "HMRC"

// Category is the tagged form of a ledger category string of the
// convention "HMRC <person_code> <income_type> <subtype...>", e.g.
// "HMRC S SES income: consulting".
type Category struct {
	PersonCode string
	Type       IncomeType
	Subtype    string
}

// ParseCategory splits a raw category string into its tagged form.
// The subtype may be empty ("HMRC S SES") but marker, person code and
// type token are required.
func ParseCategory(raw string) (Category, error) {
	fields := strings.SplitN(raw, " ", 4)
	if len(fields) < 3 || fields[0] != categoryMarker {
		return Category{}, fmt.Errorf("malformed category %q: want \"HMRC <person> <type> <subtype>\"", raw)
	}
	c := Category{PersonCode: fields[1], Type: IncomeType(fields[2])}
	if len(fields) == 4 {
		c.Subtype = fields[3]
	}
	return c, nil
}

// String reconstructs the legacy category string.
func (c Category) String() string {
	if c.Subtype == "" {
		return fmt.Sprintf("%s %s %s", categoryMarker, c.PersonCode, c.Type)
	}
	return fmt.Sprintf("%s %s %s %s", categoryMarker, c.PersonCode, c.Type, c.Subtype)
}

// IncomePrefix builds the prefix that matches income rows of one type
// for one person, anchored on the full type token:
// "HMRC S SES income". Prefix matching against this string keeps
// "HMRC S SES income: consulting" in and "HMRC S UKP income: rent" out.
func IncomePrefix(personCode string, t IncomeType) string {
	return fmt.Sprintf("%s %s %s income", categoryMarker, personCode, t)
}

// ExpensePrefix builds the prefix that matches expense rows of one type
// for one person: "HMRC S UKP expense".
func ExpensePrefix(personCode string, t IncomeType) string {
	return fmt.Sprintf("%s %s %s expense", categoryMarker, personCode, t)
}

// ExpenseSubPrefix narrows an expense prefix to one sub-item, e.g.
// ExpenseSubPrefix("B", UKProperty, "rent, rates") gives
// "HMRC B UKP expense: rent, rates".
func ExpenseSubPrefix(personCode string, t IncomeType, sub string) string {
	return fmt.Sprintf("%s %s %s expense: %s", categoryMarker, personCode, t, sub)
}

// TypePrefix builds the widest per-type prefix including the trailing
// space that anchors the type token: "HMRC S SES ".
func TypePrefix(personCode string, t IncomeType) string {
	return fmt.Sprintf("%s %s %s ", categoryMarker, personCode, t)
}

// PensionReliefPrefix matches relief-at-source pension payment rows.
func PensionReliefPrefix(personCode string) string {
	return fmt.Sprintf("%s %s %s pension", categoryMarker, personCode, PensionRelief)
}

// PensionContributionCategory is the exact category of gross pension
// contribution rows, used with equality matching rather than a prefix.
func PensionContributionCategory(personCode string) string {
	return fmt.Sprintf("%s %s %s pension contribution", categoryMarker, personCode, PensionRelief)
}

// rentReceivedSubtype prefixes rental income categories that carry the
// let property's postcode as their remainder. The extraction below is a
// fixed-offset convention, not generic parsing: everything after the
// separator is the postcode.
const rentReceivedSubtype = "income: rent received "

// RentReceivedPrefix matches rental income rows that identify the let
// property: "HMRC B UKP income: rent received ".
func RentReceivedPrefix(personCode string) string {
	return fmt.Sprintf("%s %s %s %s", categoryMarker, personCode, UKProperty, rentReceivedSubtype)
}

// RentalPostcode extracts the let property's postcode from a rental
// income category. Returns false when the category does not follow the
// rent-received convention for this person.
func RentalPostcode(category, personCode string) (string, bool) {
	prefix := RentReceivedPrefix(personCode)
	rest, found := strings.CutPrefix(category, prefix)
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// businessSubtype prefixes trading income categories whose remainder
// names the business.
const businessSubtype = "income: "

// BusinessName extracts the business name from a trading income
// category such as "HMRC S SES income: consulting".
func BusinessName(category, personCode string) (string, bool) {
	prefix := fmt.Sprintf("%s %s %s %s", categoryMarker, personCode, SelfEmployment, businessSubtype)
	rest, found := strings.CutPrefix(category, prefix)
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

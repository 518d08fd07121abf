package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "selfassess-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestLedgerQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	year := models.TaxYear("2024 to 2025")

	txns := []models.Transaction{
		{TaxYear: year, Date: "2024-05-01", Account: "current", Description: "invoice 1", Nett: dec(t, "1200.004"), Category: "HMRC S SES income: consulting"},
		{TaxYear: year, Date: "2024-06-01", Account: "current", Description: "invoice 2", Nett: dec(t, "800.001"), Category: "HMRC S SES income: consulting"},
		{TaxYear: year, Date: "2024-06-15", Account: "current", Description: "rent", Nett: dec(t, "650.00"), Category: "HMRC S UKP income: rent received AB1 2CD"},
		{TaxYear: year, Date: "2024-04-20", Account: "savings", Description: "interest", Nett: dec(t, "101.37"), Category: "HMRC S INT income: bank interest"},
		{TaxYear: "2023 to 2024", Date: "2023-05-01", Account: "current", Description: "old invoice", Nett: dec(t, "999"), Category: "HMRC S SES income: consulting"},
	}
	if err := store.AddTransactions(ctx, txns); err != nil {
		t.Fatalf("AddTransactions failed: %v", err)
	}

	t.Run("SumByCategoryPrefix rounds half-even", func(t *testing.T) {
		// 1200.004 + 800.001 = 2000.005, which rounds to the even cent
		sum, err := store.SumByCategoryPrefix(ctx, year, "HMRC S SES income")
		if err != nil {
			t.Fatalf("SumByCategoryPrefix failed: %v", err)
		}
		if !sum.Equal(dec(t, "2000.00")) {
			t.Errorf("Expected 2000.00, got %s", sum)
		}
	})

	t.Run("SumByCategoryPrefix does not mix income types", func(t *testing.T) {
		sum, err := store.SumByCategoryPrefix(ctx, year, "HMRC S UKP income")
		if err != nil {
			t.Fatalf("SumByCategoryPrefix failed: %v", err)
		}
		if !sum.Equal(dec(t, "650.00")) {
			t.Errorf("Expected 650.00, got %s", sum)
		}
	})

	t.Run("SumByCategoryPrefix scopes to tax year", func(t *testing.T) {
		sum, err := store.SumByCategoryPrefix(ctx, "2023 to 2024", "HMRC S SES income")
		if err != nil {
			t.Fatalf("SumByCategoryPrefix failed: %v", err)
		}
		if !sum.Equal(dec(t, "999")) {
			t.Errorf("Expected 999, got %s", sum)
		}
	})

	t.Run("Empty prefix match sums to zero", func(t *testing.T) {
		sum, err := store.SumByCategoryPrefix(ctx, year, "HMRC S DIV income")
		if err != nil {
			t.Fatalf("SumByCategoryPrefix failed: %v", err)
		}
		if !sum.IsZero() {
			t.Errorf("Expected zero, got %s", sum)
		}
	})

	t.Run("ListByCategoryPrefix orders by date", func(t *testing.T) {
		list, err := store.ListByCategoryPrefix(ctx, year, "HMRC S ")
		if err != nil {
			t.Fatalf("ListByCategoryPrefix failed: %v", err)
		}
		if len(list) != 4 {
			t.Fatalf("Expected 4 rows, got %d", len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i].Date < list[i-1].Date {
				t.Errorf("Rows out of date order: %s before %s", list[i-1].Date, list[i].Date)
			}
		}
		if list[0].Description != "interest" {
			t.Errorf("Expected earliest row first, got %q", list[0].Description)
		}
	})

	t.Run("CountDistinctCategories", func(t *testing.T) {
		count, err := store.CountDistinctCategories(ctx, year, "HMRC S SES income")
		if err != nil {
			t.Fatalf("CountDistinctCategories failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 distinct business category, got %d", count)
		}
	})

	t.Run("DistinctCategories", func(t *testing.T) {
		cats, err := store.DistinctCategories(ctx, year, "HMRC S UKP income: rent received ")
		if err != nil {
			t.Fatalf("DistinctCategories failed: %v", err)
		}
		if len(cats) != 1 || cats[0] != "HMRC S UKP income: rent received AB1 2CD" {
			t.Errorf("Unexpected categories: %v", cats)
		}
	})

	t.Run("AddTransactions generates IDs", func(t *testing.T) {
		list, err := store.ListByCategoryPrefix(ctx, year, "HMRC S INT income")
		if err != nil {
			t.Fatalf("ListByCategoryPrefix failed: %v", err)
		}
		if len(list) != 1 || list[0].ID == "" {
			t.Errorf("Expected generated ID on inserted row")
		}
	})
}

func TestConstants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	year := models.TaxYear("2024 to 2025")

	t.Run("Missing constant is an error", func(t *testing.T) {
		_, err := store.Constant(ctx, year, "personal_allowance")
		if !errors.Is(err, storage.ErrConstantNotFound) {
			t.Errorf("Expected ErrConstantNotFound, got %v", err)
		}
	})

	t.Run("Set and get round-trips exactly", func(t *testing.T) {
		if err := store.SetConstant(ctx, year, "personal_allowance", dec(t, "12570")); err != nil {
			t.Fatalf("SetConstant failed: %v", err)
		}
		got, err := store.Constant(ctx, year, "personal_allowance")
		if err != nil {
			t.Fatalf("Constant failed: %v", err)
		}
		if !got.Equal(dec(t, "12570")) {
			t.Errorf("Expected 12570, got %s", got)
		}
	})

	t.Run("Set replaces existing value", func(t *testing.T) {
		if err := store.SetConstant(ctx, year, "personal_allowance", dec(t, "12571")); err != nil {
			t.Fatalf("SetConstant failed: %v", err)
		}
		got, err := store.Constant(ctx, year, "personal_allowance")
		if err != nil {
			t.Fatalf("Constant failed: %v", err)
		}
		if !got.Equal(dec(t, "12571")) {
			t.Errorf("Expected 12571, got %s", got)
		}
	})
}

func TestOverrides(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	year := models.TaxYear("2024 to 2025")

	t.Run("Absent override is nil, not an error", func(t *testing.T) {
		got, err := store.Override(ctx, "S", year, "use_trading_allowance")
		if err != nil {
			t.Fatalf("Override failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %v", *got)
		}
	})

	t.Run("Set and get", func(t *testing.T) {
		if err := store.SetOverride(ctx, "S", year, "use_trading_allowance", false); err != nil {
			t.Fatalf("SetOverride failed: %v", err)
		}
		got, err := store.Override(ctx, "S", year, "use_trading_allowance")
		if err != nil {
			t.Fatalf("Override failed: %v", err)
		}
		if got == nil || *got != false {
			t.Errorf("Expected false override, got %v", got)
		}
	})
}

func TestPeople(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Missing person is an error", func(t *testing.T) {
		_, err := store.Person(ctx, "Z")
		if !errors.Is(err, storage.ErrPersonNotFound) {
			t.Errorf("Expected ErrPersonNotFound, got %v", err)
		}
	})

	t.Run("Put and get round-trips", func(t *testing.T) {
		p := &models.Person{
			Code:                      "S",
			FirstName:                 "Sam",
			LastName:                  "Hollis",
			MaritalStatus:             "married",
			SpouseCode:                "B",
			MarriageDate:              "2015-06-20",
			NICsNeededForStatePension: true,
			NationalInsuranceNumber:   "QQ123456C",
			UniqueTaxReference:        "1234567890",
		}
		if err := store.PutPerson(ctx, p); err != nil {
			t.Fatalf("PutPerson failed: %v", err)
		}

		got, err := store.Person(ctx, "S")
		if err != nil {
			t.Fatalf("Person failed: %v", err)
		}
		if got.Name() != "Sam Hollis" {
			t.Errorf("Expected name Sam Hollis, got %q", got.Name())
		}
		if !got.IsMarried() {
			t.Error("Expected person to be married")
		}
		if !got.NICsNeededForStatePension {
			t.Error("Expected NICs flag to survive round-trip")
		}
	})
}

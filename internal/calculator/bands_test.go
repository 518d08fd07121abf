package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func standardRates() BandRates {
	return BandRates{
		BasicRateLimit:  d("37700"), // 50270 - 12570
		HigherRateLimit: d("74870"), // 125140 - 50270
		BasicRate:       money.PercentFromString("20"),
		HigherRate:      money.PercentFromString("40"),
		AdditionalRate:  money.PercentFromString("45"),
	}
}

func TestApplyBands(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		allowance     string
		wantTax       string
		wantRemaining string
	}{
		{"Zero income keeps whole allowance", "0", "12570", "0", "12570"},
		{"Income under allowance carries the rest", "10000", "12570", "0", "2570"},
		{"Income at allowance exactly", "12570", "12570", "0", "0"},
		{"Basic rate", "20000", "12570", "1486.00", "0"},
		{"Top of basic band", "50270", "12570", "7540.00", "0"},
		{"Higher rate", "60000", "12570", "11432.00", "0"},
		{"Top of higher band", "87440", "12570", "22408.00", "0"},
		{"Additional rate", "112570", "12570", "33716.50", "0"},
		{"Well into additional rate", "125140", "12570", "39373.00", "0"},
		{"High income", "150000", "12570", "50560.00", "0"},
		{"No allowance left", "5000", "0", "1000.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, remaining := ApplyBands(d(tt.amount), d(tt.allowance), standardRates())
			if !tax.Equal(d(tt.wantTax)) {
				t.Errorf("tax: expected %s, got %s", tt.wantTax, tax)
			}
			if !remaining.Equal(d(tt.wantRemaining)) {
				t.Errorf("remaining: expected %s, got %s", tt.wantRemaining, remaining)
			}
		})
	}
}

func TestApplyBandsMonotonic(t *testing.T) {
	// Tax never decreases as income rises through the band boundaries.
	rates := standardRates()
	prev := decimal.Zero
	for income := 0; income <= 200000; income += 1000 {
		tax, _ := ApplyBands(decimal.NewFromInt(int64(income)), d("12570"), rates)
		if tax.LessThan(prev) {
			t.Fatalf("Tax decreased at income %d: %s < %s", income, tax, prev)
		}
		prev = tax
	}
}

func TestApplyBandsMonotonicInAllowance(t *testing.T) {
	// More allowance never means more tax.
	rates := standardRates()
	amount := d("60000")
	prev := decimal.NewFromInt(1 << 30)
	for allowance := 0; allowance <= 20000; allowance += 500 {
		tax, _ := ApplyBands(amount, decimal.NewFromInt(int64(allowance)), rates)
		if tax.GreaterThan(prev) {
			t.Fatalf("Tax increased at allowance %d: %s > %s", allowance, tax, prev)
		}
		prev = tax
	}
}

func TestAllowanceThreadsAcrossClasses(t *testing.T) {
	rates := standardRates()
	tests := []struct {
		name       string
		nonSavings string
		savings    string
		dividends  string
		allowance  string
		wantFinal  string
	}{
		{"Small incomes leave allowance over", "5000", "3000", "2000", "12570", "2570"},
		{"Non-savings consumes everything", "20000", "2000", "900", "12570", "0"},
		{"Savings consumes the remainder", "10000", "5000", "400", "12570", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := d(tt.allowance)
			_, remaining := ApplyBands(d(tt.nonSavings), initial, rates)
			if remaining.GreaterThan(initial) {
				t.Fatalf("Allowance grew across non-savings: %s > %s", remaining, initial)
			}
			afterNonSavings := remaining
			_, remaining = ApplySavingsBands(d(tt.savings), remaining, d("1000"), money.PercentFromString("20"))
			if remaining.GreaterThan(afterNonSavings) {
				t.Fatalf("Allowance grew across savings: %s > %s", remaining, afterNonSavings)
			}
			afterSavings := remaining
			_, remaining = ApplyDividendBands(d(tt.dividends), remaining, d("500"), money.PercentFromString("8.75"))
			if remaining.GreaterThan(afterSavings) {
				t.Fatalf("Allowance grew across dividends: %s > %s", remaining, afterSavings)
			}
			if !remaining.Equal(d(tt.wantFinal)) {
				t.Errorf("Final allowance: expected %s, got %s", tt.wantFinal, remaining)
			}
		})
	}
}

func TestApplySavingsBands(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		allowance     string
		wantTax       string
		wantRemaining string
	}{
		{"Under carried allowance", "2000", "2570", "0", "570"},
		{"Nil band only", "900", "0", "0", "0"},
		{"Above nil band", "2000", "0", "200.00", "0"},
		{"Allowance then nil band", "3570", "2570", "0", "0"},
		{"Allowance then nil band then tax", "4570", "2570", "200.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, remaining := ApplySavingsBands(d(tt.amount), d(tt.allowance), d("1000"), money.PercentFromString("20"))
			if !tax.Equal(d(tt.wantTax)) {
				t.Errorf("tax: expected %s, got %s", tt.wantTax, tax)
			}
			if !remaining.Equal(d(tt.wantRemaining)) {
				t.Errorf("remaining: expected %s, got %s", tt.wantRemaining, remaining)
			}
		})
	}
}

func TestApplyDividendBands(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		allowance string
		wantTax   string
	}{
		{"Under dividends allowance", "400", "0", "0"},
		{"Above dividends allowance", "900", "0", "35.00"},
		{"Carried allowance consumed first", "900", "600", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, _ := ApplyDividendBands(d(tt.amount), d(tt.allowance), d("500"), money.PercentFromString("8.75"))
			if !tax.Equal(d(tt.wantTax)) {
				t.Errorf("tax: expected %s, got %s", tt.wantTax, tax)
			}
		})
	}
}

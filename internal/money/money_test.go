package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(decimal.Decimal) decimal.Decimal
		in   string
		want string
	}{
		{"RoundLedger half-even down", RoundLedger, "2000.005", "2000.00"},
		{"RoundLedger half-even up", RoundLedger, "2000.015", "2000.02"},
		{"RoundLedger plain", RoundLedger, "12.344", "12.34"},
		{"RoundTax half up", RoundTax, "1486.005", "1486.01"},
		{"RoundTax exact", RoundTax, "1486", "1486.00"},
		{"RoundDownWhole", RoundDownWhole, "21000.99", "21000"},
		{"RoundDownWhole exact", RoundDownWhole, "21000", "21000"},
		{"RoundUpWhole", RoundUpWhole, "2400.01", "2401"},
		{"RoundUpWhole exact", RoundUpWhole, "2400", "2400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(d(tt.in))
			if !got.Equal(d(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatGBP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "£0.00"},
		{"12.3", "£12.30"},
		{"1234.56", "£1,234.56"},
		{"1234567.89", "£1,234,567.89"},
		{"-12.34", "-£12.34"},
		{"-1234.5", "-£1,234.50"},
	}

	for _, tt := range tests {
		if got := FormatGBP(d(tt.in)); got != tt.want {
			t.Errorf("FormatGBP(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFormatGBPOrBlank(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", ""},
		{"0.004", ""},
		{"-0.004", ""},
		{"0.01", "£0.01"},
		{"-0.01", "-£0.01"},
		{"5", "£5.00"},
	}

	for _, tt := range tests {
		if got := FormatGBPOrBlank(d(tt.in)); got != tt.want {
			t.Errorf("FormatGBPOrBlank(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := MaxZero(d("-5")); !got.IsZero() {
		t.Errorf("MaxZero(-5): expected 0, got %s", got)
	}
	if got := MaxZero(d("5")); !got.Equal(d("5")) {
		t.Errorf("MaxZero(5): expected 5, got %s", got)
	}
	if got := Min(d("3"), d("7")); !got.Equal(d("3")) {
		t.Errorf("Min(3,7): expected 3, got %s", got)
	}
	if got := Sum(d("1.10"), d("2.20"), d("-0.30")); !got.Equal(d("3")) {
		t.Errorf("Sum: expected 3, got %s", got)
	}
}

func TestPercentage(t *testing.T) {
	p := PercentFromString("8.75")
	if got := p.ApplyTo(d("400")); !got.Equal(d("35")) {
		t.Errorf("8.75%% of 400: expected 35, got %s", got)
	}
	if got := p.String(); got != "8.75%" {
		t.Errorf("String: expected 8.75%%, got %q", got)
	}
	if !PercentFromString("0").IsZero() {
		t.Error("Expected zero rate to be zero")
	}
	if PercentFromString("20").Cmp(PercentFromString("40")) != -1 {
		t.Error("Expected 20 < 40")
	}
	sum := PercentFromString("20").Add(PercentFromString("2.5"))
	if sum.String() != "22.50%" {
		t.Errorf("Add: expected 22.50%%, got %q", sum.String())
	}
}

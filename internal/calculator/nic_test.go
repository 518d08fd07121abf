package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/money"
)

func class2Inputs(voluntary bool) Class2Inputs {
	return Class2Inputs{
		WeeklyRate:            d("3.45"),
		WeeksInYear:           52,
		PersonalAllowance:     d("12570"),
		SmallProfitsThreshold: d("6725"),
		VoluntaryElected:      voluntary,
	}
}

func TestClass2Due(t *testing.T) {
	tests := []struct {
		name      string
		profit    string
		voluntary bool
		want      string
	}{
		{"Above personal allowance pays in full", "20000", false, "179.40"},
		{"At personal allowance pays in full", "12570", false, "179.40"},
		{"Between thresholds is deemed paid", "10000", false, "0"},
		{"At small profits threshold is deemed paid", "6725", true, "0"},
		{"Below threshold without election", "5000", false, "0"},
		{"Below threshold with election", "5000", true, "179.40"},
		{"Zero profit with election", "0", true, "179.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Class2Due(d(tt.profit), class2Inputs(tt.voluntary))
			if !got.Equal(d(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func class4Inputs() Class4Inputs {
	return Class4Inputs{
		LowerProfitsLimit: d("12570"),
		UpperProfitsLimit: d("50270"),
		LowerRate:         money.PercentFromString("6"),
		UpperRate:         money.PercentFromString("2"),
	}
}

func TestClass4Due(t *testing.T) {
	tests := []struct {
		name   string
		profit string
		want   string
	}{
		{"Below lower limit", "10000", "0"},
		{"At lower limit", "12570", "0"},
		{"Between limits", "20000", "445.80"},
		{"At upper limit", "50270", "2262.00"},
		{"Above upper limit", "60000", "2456.60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Class4Due(d(tt.profit), class4Inputs())
			if !got.Equal(d(tt.want)) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClass4Monotonic(t *testing.T) {
	in := class4Inputs()
	prev := decimal.Zero
	for profit := 0; profit <= 100000; profit += 500 {
		got := Class4Due(decimal.NewFromInt(int64(profit)), in)
		if got.LessThan(prev) {
			t.Fatalf("Class 4 decreased at profit %d: %s < %s", profit, got, prev)
		}
		prev = got
	}
}

package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func fp(v float64) *float64 { return &v }

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name         string
		in           LineInput
		wantDiscount string
		wantGST      string
		wantTotal    string
	}{
		{
			name:         "plain line, no discount no tax",
			in:           LineInput{Quantity: 3, UnitPrice: 50},
			wantDiscount: "0",
			wantGST:      "0",
			wantTotal:    "150",
		},
		{
			name:         "gst percentage fills in the amount",
			in:           LineInput{Quantity: 2, UnitPrice: 100, GSTPercentage: fp(10)},
			wantDiscount: "0",
			wantGST:      "20",
			wantTotal:    "220",
		},
		{
			name:         "discount percentage applies before gst",
			in:           LineInput{Quantity: 2, UnitPrice: 100, DiscountPercentage: fp(25), GSTPercentage: fp(10)},
			wantDiscount: "50",
			wantGST:      "15",
			wantTotal:    "165",
		},
		{
			name:         "explicit discount amount is trusted over percentage",
			in:           LineInput{Quantity: 1, UnitPrice: 100, DiscountPercentage: fp(50), DiscountAmount: fp(10)},
			wantDiscount: "10",
			wantGST:      "0",
			wantTotal:    "90",
		},
		{
			name:         "explicit gst amount is trusted over percentage",
			in:           LineInput{Quantity: 1, UnitPrice: 100, GSTPercentage: fp(18), GSTAmount: fp(5)},
			wantDiscount: "0",
			wantGST:      "5",
			wantTotal:    "105",
		},
		{
			name:         "fractional prices round to 2dp",
			in:           LineInput{Quantity: 3, UnitPrice: 0.10, GSTPercentage: fp(5)},
			wantDiscount: "0",
			wantGST:      "0.02", // 0.30 * 5% = 0.015, rounds to 0.02
			wantTotal:    "0.32",
		},
		{
			name:         "supplied amounts pass through unrounded",
			in:           LineInput{Quantity: 1, UnitPrice: 10, DiscountAmount: fp(0.015), GSTAmount: fp(0.125)},
			wantDiscount: "0.015",
			wantGST:      "0.125",
			wantTotal:    "10.11",
		},
		{
			name:         "zero unit price is allowed",
			in:           LineInput{Quantity: 5, UnitPrice: 0},
			wantDiscount: "0",
			wantGST:      "0",
			wantTotal:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.in)
			if err != nil {
				t.Fatalf("ComputeLine() error = %v", err)
			}
			check := func(field string, got decimal.Decimal, want string) {
				if !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("%s = %s, want %s", field, got, want)
				}
			}
			check("DiscountAmount", got.DiscountAmount, tt.wantDiscount)
			check("GSTAmount", got.GSTAmount, tt.wantGST)
			check("Total", got.Total, tt.wantTotal)
		})
	}
}

func TestComputeLineValidation(t *testing.T) {
	tests := []struct {
		name      string
		in        LineInput
		wantField string
	}{
		{"zero quantity", LineInput{Quantity: 0, UnitPrice: 10}, "quantity"},
		{"negative quantity", LineInput{Quantity: -2, UnitPrice: 10}, "quantity"},
		{"negative unit price", LineInput{Quantity: 1, UnitPrice: -0.01}, "unit_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ComputeLine() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

// line_total = quantity*unit_price - discount_amount + gst_amount must hold
// for every computed line.
func TestComputeLineIdentity(t *testing.T) {
	inputs := []LineInput{
		{Quantity: 2, UnitPrice: 100, GSTPercentage: fp(10)},
		{Quantity: 7, UnitPrice: 19.99, DiscountPercentage: fp(12.5), GSTPercentage: fp(18)},
		{Quantity: 1, UnitPrice: 0.05, DiscountAmount: fp(0.01)},
		{Quantity: 13, UnitPrice: 3.33, GSTAmount: fp(4.44)},
		{Quantity: 1, UnitPrice: 10, DiscountAmount: fp(0.015), GSTAmount: fp(0.125)},
	}

	for _, in := range inputs {
		got, err := ComputeLine(in)
		if err != nil {
			t.Fatalf("ComputeLine(%+v) error = %v", in, err)
		}
		gross := decimal.NewFromFloat(in.UnitPrice).Mul(decimal.NewFromInt(int64(in.Quantity)))
		want := gross.Sub(got.DiscountAmount).Add(got.GSTAmount)
		if !got.Total.Equal(want) {
			t.Errorf("ComputeLine(%+v): total %s, want gross-discount+gst = %s", in, got.Total, want)
		}
	}
}

// Summing many 2dp line totals must carry no rounding drift.
func TestSumTotalsExact(t *testing.T) {
	var lines []LineResult
	for i := 0; i < 1000; i++ {
		line, err := ComputeLine(LineInput{Quantity: 1, UnitPrice: 0.10})
		if err != nil {
			t.Fatal(err)
		}
		lines = append(lines, line)
	}

	total := SumTotals(lines)
	if want := decimal.RequireFromString("100"); !total.Equal(want) {
		t.Errorf("SumTotals = %s, want %s", total, want)
	}
}

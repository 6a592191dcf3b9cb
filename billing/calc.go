package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput carries the raw per-line figures from the request. The amount
// fields are pointers: nil means "derive from the percentage (or zero)",
// a supplied amount is trusted as-is and never recomputed.
type LineInput struct {
	Quantity           int
	UnitPrice          float64
	DiscountPercentage *float64
	DiscountAmount     *float64
	GSTPercentage      *float64
	GSTAmount          *float64
}

// LineResult holds the filled-in discount/tax amounts and the net total
// for one line. Percentage-derived amounts are rounded to 2 decimal
// places; supplied amounts pass through untouched.
type LineResult struct {
	DiscountAmount decimal.Decimal
	GSTAmount      decimal.Decimal
	Total          decimal.Decimal
}

// ValidationError names the offending field so the HTTP layer can report
// it without guessing.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ComputeLine derives the missing discount/tax amounts and the line total:
//
//	gross     = quantity * unit_price
//	discount  = supplied, or gross * discount_percentage/100
//	subtotal  = gross - discount
//	gst       = supplied, or subtotal * gst_percentage/100
//	total     = subtotal + gst
//
// Pure: no side effects, no clock, no store.
func ComputeLine(in LineInput) (LineResult, error) {
	if in.Quantity <= 0 {
		return LineResult{}, &ValidationError{Field: "quantity", Msg: "must be greater than zero"}
	}
	if in.UnitPrice < 0 {
		return LineResult{}, &ValidationError{Field: "unit_price", Msg: "must not be negative"}
	}

	gross := decimal.NewFromFloat(in.UnitPrice).Mul(decimal.NewFromInt(int64(in.Quantity)))

	discount := decimal.Zero
	switch {
	case in.DiscountAmount != nil:
		discount = decimal.NewFromFloat(*in.DiscountAmount)
	case in.DiscountPercentage != nil:
		discount = gross.Mul(decimal.NewFromFloat(*in.DiscountPercentage)).Div(hundred).Round(2)
	}

	subtotal := gross.Sub(discount)

	gst := decimal.Zero
	switch {
	case in.GSTAmount != nil:
		gst = decimal.NewFromFloat(*in.GSTAmount)
	case in.GSTPercentage != nil:
		gst = subtotal.Mul(decimal.NewFromFloat(*in.GSTPercentage)).Div(hundred).Round(2)
	}

	return LineResult{
		DiscountAmount: discount,
		GSTAmount:      gst,
		Total:          subtotal.Add(gst),
	}, nil
}

// SumTotals adds line totals exactly. The result is the invoice
// total_amount; decimal addition carries no rounding drift regardless of
// item count.
func SumTotals(lines []LineResult) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

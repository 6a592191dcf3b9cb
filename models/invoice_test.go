package models

import "testing"

func TestValidInvoiceStatus(t *testing.T) {
	valid := []string{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled}
	for _, s := range valid {
		if !ValidInvoiceStatus(s) {
			t.Errorf("ValidInvoiceStatus(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "overdue", "PAID", "draft"}
	for _, s := range invalid {
		if ValidInvoiceStatus(s) {
			t.Errorf("ValidInvoiceStatus(%q) = true, want false", s)
		}
	}
}

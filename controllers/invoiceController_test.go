package controllers

import (
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"shopdesk-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

// testApp wires the create-invoice route with the central error handler and
// no store; every case below must be rejected before the first DB call.
func testApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	h := New(nil, nil)
	app.Post("/invoice", h.CreateInvoice)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/invoice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp.StatusCode
}

func TestCreateInvoiceRejectsBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "empty items",
			body:       `{"items": []}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "missing items",
			body:       `{"customer": {"customer_name": "A"}}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "zero quantity",
			body:       `{"items": [{"quantity": 0, "unit_price": 10}]}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "negative unit price",
			body:       `{"items": [{"quantity": 1, "unit_price": -5}]}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "negative discount percentage",
			body:       `{"items": [{"quantity": 1, "unit_price": 5, "discount_percentage": -1}]}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "malformed invoice_date",
			body:       `{"items": [{"quantity": 1, "unit_price": 5}], "invoice_date": "01/02/2026"}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "malformed due_date",
			body:       `{"items": [{"quantity": 1, "unit_price": 5}], "due_date": "soon"}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "bad customer email",
			body:       `{"customer": {"customer_email": "nope"}, "items": [{"quantity": 1, "unit_price": 5}]}`,
			wantStatus: fiber.StatusUnprocessableEntity,
		},
		{
			name:       "not json",
			body:       `quantity=1`,
			wantStatus: fiber.StatusBadRequest,
		},
	}

	app := testApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postJSON(t, app, tt.body); got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestNewInvoiceNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^INV-\d+-[0-9A-F]{4}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := newInvoiceNumber()
		if !re.MatchString(n) {
			t.Fatalf("invoice number %q does not match %s", n, re)
		}
		if seen[n] {
			t.Fatalf("duplicate invoice number %q", n)
		}
		seen[n] = true
	}
}

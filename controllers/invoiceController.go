package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdesk-backend/billing"
	"shopdesk-backend/middlewares"
	"shopdesk-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// CustomerRef is the customer portion of an invoice request: either an id,
// or free-text details, or nothing at all (walk-in sale).
type CustomerRef struct {
	CustomerID      *uint  `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerEmail   string `json:"customer_email" validate:"omitempty,email"`
}

type LineItemInput struct {
	InventoryID        *uint    `json:"inventory_id"`
	ItemText           string   `json:"item_text"`
	Quantity           int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice          float64  `json:"unit_price" validate:"gte=0"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	DiscountAmount     *float64 `json:"discount_amount" validate:"omitempty,gte=0"`
	GSTPercentage      *float64 `json:"gst_percentage" validate:"omitempty,gte=0,lte=100"`
	GSTAmount          *float64 `json:"gst_amount" validate:"omitempty,gte=0"`
}

type CreateInvoiceRequest struct {
	Customer      CustomerRef     `json:"customer"`
	Items         []LineItemInput `json:"items" validate:"required,min=1,dive"`
	InvoiceDate   string          `json:"invoice_date"`
	DueDate       string          `json:"due_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// newInvoiceNumber builds a unique human-scannable number like
// INV-1756684800000-9F3A.
func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%s", time.Now().UnixMilli(), strings.ToUpper(uuid.NewString()[:4]))
}

// resolveCustomer turns the request's customer reference into at most one
// canonical customers row:
//  1. an explicit id must exist and is used unchanged;
//  2. else, with a name given, an exact phone match reuses the existing row;
//  3. else a new row is inserted from the supplied fields;
//  4. no id and no name means a nil reference (walk-in sale).
//
// At most one customer row is ever created per invoice.
func resolveCustomer(tx *gorm.DB, ref CustomerRef) (*models.Customer, error) {
	if ref.CustomerID != nil {
		var existing models.Customer
		if err := tx.First(&existing, *ref.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusNotFound, "customer not found")
			}
			return nil, err
		}
		return &existing, nil
	}

	name := strings.TrimSpace(ref.CustomerName)
	if name == "" {
		return nil, nil
	}

	phone := strings.TrimSpace(ref.CustomerPhone)
	if phone != "" {
		var existing models.Customer
		err := tx.Where("phone = ?", phone).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	customer := models.Customer{
		Name:    name,
		Email:   strings.TrimSpace(ref.CustomerEmail),
		Phone:   phone,
		Address: strings.TrimSpace(ref.CustomerAddress),
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateInvoice is the atomic sale workflow: resolve the customer, compute
// every line, then insert the header, the item rows and the inventory
// decrements inside the per-request transaction. Any failure after the
// first write rolls the whole thing back.
func (h *Controller) CreateInvoice(c *fiber.Ctx) error {
	var req CreateInvoiceRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	invoiceDate := h.now()
	if s := strings.TrimSpace(req.InvoiceDate); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "invoice_date must be YYYY-MM-DD")
		}
		invoiceDate = d
	}
	var dueDate *datatypes.Date
	if s := strings.TrimSpace(req.DueDate); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "due_date must be YYYY-MM-DD")
		}
		dd := datatypes.Date(d)
		dueDate = &dd
	}

	items := make([]models.InvoiceItem, 0, len(req.Items))
	lines := make([]billing.LineResult, 0, len(req.Items))
	for i, in := range req.Items {
		line, err := billing.ComputeLine(billing.LineInput{
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			DiscountPercentage: in.DiscountPercentage,
			DiscountAmount:     in.DiscountAmount,
			GSTPercentage:      in.GSTPercentage,
			GSTAmount:          in.GSTAmount,
		})
		if err != nil {
			var ve *billing.ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("items[%d].%s %s", i, ve.Field, ve.Msg))
			}
			return err
		}
		lines = append(lines, line)

		pct := func(p *float64) float64 {
			if p != nil {
				return *p
			}
			return 0
		}
		items = append(items, models.InvoiceItem{
			InventoryID:        in.InventoryID,
			ItemText:           strings.TrimSpace(in.ItemText),
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			DiscountPercentage: pct(in.DiscountPercentage),
			DiscountAmount:     line.DiscountAmount.InexactFloat64(),
			GSTPercentage:      pct(in.GSTPercentage),
			GSTAmount:          line.GSTAmount.InexactFloat64(),
			Total:              line.Total.InexactFloat64(),
		})
	}
	total := billing.SumTotals(lines)

	tx := h.db(c)

	customer, err := resolveCustomer(tx, req.Customer)
	if err != nil {
		return err
	}
	var customerID *uint
	if customer != nil {
		customerID = &customer.Id
	}

	// Snapshot identity at time of sale: payload first, resolved row as
	// fallback. Later customer edits never touch these.
	snapshot := func(payload, stored string) string {
		if s := strings.TrimSpace(payload); s != "" {
			return s
		}
		return stored
	}
	var storedName, storedPhone, storedAddress string
	if customer != nil {
		storedName, storedPhone, storedAddress = customer.Name, customer.Phone, customer.Address
	}

	invoice := models.Invoice{
		InvoiceNumber:   newInvoiceNumber(),
		CustomerID:      customerID,
		CustomerName:    snapshot(req.Customer.CustomerName, storedName),
		CustomerPhone:   snapshot(req.Customer.CustomerPhone, storedPhone),
		CustomerAddress: snapshot(req.Customer.CustomerAddress, storedAddress),
		Items:           items,
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		TotalAmount:     total.InexactFloat64(),
		Status:          models.InvoiceStatusPending,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		Notes:           req.Notes,
	}

	// Referenced inventory rows must exist before the header goes in, so a
	// bad reference surfaces as not-found rather than a constraint error.
	for _, item := range invoice.Items {
		if item.InventoryID == nil {
			continue
		}
		var count int64
		if err := tx.Model(&models.InventoryItem{}).Where("id = ?", *item.InventoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("inventory item %d not found", *item.InventoryID))
		}
	}

	if err := tx.Create(&invoice).Error; err != nil {
		return err
	}

	// Decrement stock for every line that references a catalog item. The
	// conditional update rejects oversell and serializes concurrent sales
	// of the same row: zero rows affected means insufficient stock.
	for _, item := range invoice.Items {
		if item.InventoryID == nil {
			continue
		}
		res := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND quantity >= ?", *item.InventoryID, item.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("insufficient stock for inventory item %d", *item.InventoryID))
		}
	}

	if customerID != nil {
		if err := tx.Model(&models.Customer{}).Where("id = ?", *customerID).
			Update("total_purchases", gorm.Expr("total_purchases + ?", invoice.TotalAmount)).Error; err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Invoice created successfully",
		"data": fiber.Map{
			"invoice_id":  invoice.ID,
			"customer_id": customerID,
			"items_count": len(invoice.Items),
		},
	})
}

func (h *Controller) GetInvoices(c *fiber.Ctx) error {
	q := h.db(c).Model(&models.Invoice{}).Preload("Customer")

	if status := c.Query("status"); status != "" {
		if !models.ValidInvoiceStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
		q = q.Where("status = ?", status)
	}
	if customer := c.QueryInt("customer"); customer > 0 {
		q = q.Where("customer_id = ?", customer)
	}
	if start := c.Query("startDate"); start != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "startDate must be YYYY-MM-DD")
		}
		q = q.Where("invoice_date >= ?", start)
	}
	if end := c.Query("endDate"); end != "" {
		if _, err := time.Parse(dateLayout, end); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "endDate must be YYYY-MM-DD")
		}
		q = q.Where("invoice_date <= ?", end)
	}

	var invoices []models.Invoice
	if err := q.Order("invoice_date DESC").Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": invoices})
}

func (h *Controller) GetInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var invoice models.Invoice
	if err := h.db(c).Preload("Items").Preload("Customer").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInvoiceStatus moves an invoice to paid or cancelled. pending is the
// only state transitions may leave; paid and cancelled are terminal.
func (h *Controller) UpdateInvoiceStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var req statusUpdateRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if !models.ValidInvoiceStatus(req.Status) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "status must be pending, paid or cancelled")
	}

	tx := h.db(c)
	var invoice models.Invoice
	if err := tx.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}
	if invoice.Status != models.InvoiceStatusPending && invoice.Status != req.Status {
		return fiber.NewError(fiber.StatusConflict, "invoice status is terminal")
	}

	if err := tx.Model(&invoice).Update("status", req.Status).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Status updated successfully"})
}

type payInvoiceRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// PayInvoice marks a pending invoice as paid, recording the payment method.
func (h *Controller) PayInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var req payInvoiceRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	tx := h.db(c)
	var invoice models.Invoice
	if err := tx.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}
	if invoice.Status == models.InvoiceStatusCancelled {
		return fiber.NewError(fiber.StatusConflict, "invoice is cancelled")
	}

	updates := map[string]any{"status": models.InvoiceStatusPaid}
	if pm := strings.TrimSpace(req.PaymentMethod); pm != "" {
		updates["payment_method"] = pm
	}
	if err := tx.Model(&invoice).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Invoice marked as paid successfully"})
}

// DeleteInvoice restores the stock its items decremented, then deletes the
// invoice (items cascade). Runs in the per-request transaction.
func (h *Controller) DeleteInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tx := h.db(c)
	var invoice models.Invoice
	if err := tx.Preload("Items").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return err
	}

	for _, item := range invoice.Items {
		if item.InventoryID == nil {
			continue
		}
		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", *item.InventoryID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}

	if err := tx.Select("Items").Delete(&invoice).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Invoice deleted successfully"})
}

type invoiceStats struct {
	TotalInvoices     int64   `json:"total_invoices"`
	PendingInvoices   int64   `json:"pending_invoices"`
	PaidInvoices      int64   `json:"paid_invoices"`
	CancelledInvoices int64   `json:"cancelled_invoices"`
	TotalRevenue      float64 `json:"total_revenue"`
	PaidRevenue       float64 `json:"paid_revenue"`
}

func (h *Controller) GetInvoiceStats(c *fiber.Ctx) error {
	q := h.db(c).Model(&models.Invoice{})

	if start, end := c.Query("startDate"), c.Query("endDate"); start != "" && end != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "startDate must be YYYY-MM-DD")
		}
		if _, err := time.Parse(dateLayout, end); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "endDate must be YYYY-MM-DD")
		}
		q = q.Where("invoice_date BETWEEN ? AND ?", start, end)
	}

	var stats invoiceStats
	err := q.Select(`
		COUNT(*)                                                  AS total_invoices,
		COUNT(*) FILTER (WHERE status = 'pending')                AS pending_invoices,
		COUNT(*) FILTER (WHERE status = 'paid')                   AS paid_invoices,
		COUNT(*) FILTER (WHERE status = 'cancelled')              AS cancelled_invoices,
		COALESCE(SUM(total_amount), 0)                            AS total_revenue,
		COALESCE(SUM(total_amount) FILTER (WHERE status='paid'), 0) AS paid_revenue`).
		Scan(&stats).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

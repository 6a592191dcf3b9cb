package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice status values. Status starts at pending; paid and cancelled are
// terminal.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus reports whether s is one of the allowed status values.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a sale document. The customer reference is nullable (walk-in
// sales); the customer_* fields snapshot the identity at time of sale and
// are never touched by later customer edits.
type Invoice struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	InvoiceNumber string    `json:"invoice_number" gorm:"uniqueIndex;size:64"`
	CustomerID    *uint     `json:"customer_id" gorm:"index"`
	Customer      *Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;references:Id;constraint:OnDelete:SET NULL"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	Items []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	InvoiceDate time.Time       `json:"invoice_date"`
	DueDate     *datatypes.Date `json:"due_date"`
	TotalAmount float64         `json:"total_amount" gorm:"type:numeric(12,2)"`

	Status        string `json:"status" gorm:"size:20;default:pending;index"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one line of an invoice. It either references an inventory
// row or carries free text; quantities on referenced rows are decremented
// when the invoice is created.
type InvoiceItem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	InvoiceID   uint           `json:"-" gorm:"index"`
	InventoryID *uint          `json:"inventory_id" gorm:"index"`
	Inventory   *InventoryItem `json:"-" gorm:"foreignKey:InventoryID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	ItemText    string         `json:"item_text"`

	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"type:numeric(12,2)"`

	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount" gorm:"type:numeric(12,2)"`
	GSTPercentage      float64 `json:"gst_percentage"`
	GSTAmount          float64 `json:"gst_amount" gorm:"type:numeric(12,2)"`

	Total float64 `json:"total" gorm:"type:numeric(12,2)"`
}

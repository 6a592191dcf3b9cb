package models

import (
	"time"

	"gorm.io/datatypes"
)

// InventoryItem is one stocked (or stockable) product. Quantity is mutated
// by two paths: the direct stock endpoint and invoice creation.
type InventoryItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	SKU         string  `json:"sku" gorm:"size:64;index"`
	Quantity    int     `json:"quantity" gorm:"not null;default:0"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(12,2)"`
	CostPrice   float64 `json:"cost_price" gorm:"type:numeric(12,2)"`

	CategoryID *uint     `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL"`

	ExpiryDate   *datatypes.Date `json:"expiry_date"`
	ReorderLevel int             `json:"reorder_level" gorm:"not null;default:10"`
	Manufacturer string          `json:"manufacturer"`
	BatchNumber  string          `json:"batch_number"`
	Location     string          `json:"location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory" }

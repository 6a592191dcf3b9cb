package models

import "time"

type Customer struct {
	Id      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email"`
	Phone   string `json:"phone" gorm:"index"`
	Address string `json:"address"`

	// Rollup of invoice totals attributed to this customer.
	TotalPurchases float64 `json:"total_purchases" gorm:"type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a restaurant's catalog entry as seen by the cart: its current
// price and whether it can be ordered right now.
type MenuItem struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	RestaurantID int64           `json:"restaurant_id" gorm:"not null;index" validate:"required,gt=0"`
	Name         string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Description  string          `json:"description" validate:"omitempty,max=500"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available    bool            `json:"available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

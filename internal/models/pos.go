package models

import "time"

// Point-of-sale models for the separate retail mini-app. Unrelated to the
// kitchen inventory tables on purpose; it sells packaged goods, not meals.

type PosProduct struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:150;not null"`
	SKU       string  `gorm:"size:50;uniqueIndex"`
	Price     float64 `gorm:"not null"`
	Stock     float64 `gorm:"not null;default:0"`
	Unit      string  `gorm:"size:20;not null;default:pcs"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PosSale struct {
	ID        uint      `gorm:"primaryKey"`
	ReceiptNo string    `gorm:"size:40;uniqueIndex;not null"`
	Date      time.Time `gorm:"index;not null"`
	Total     float64   `gorm:"not null"`
	Items     []PosSaleItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PosSaleItem struct {
	ID          uint `gorm:"primaryKey"`
	SaleID      uint `gorm:"index;not null"`
	ProductID   uint `gorm:"index;not null"`
	ProductName string  `gorm:"size:150;not null"` // denormalized
	Quantity    float64 `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	LineTotal   float64 `gorm:"not null"`
	CreatedAt   time.Time
}

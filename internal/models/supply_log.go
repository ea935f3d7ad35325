package models

import "time"

// SupplyLog: append-only ledger entry for incoming stock.
type SupplyLog struct {
	ID             uint `gorm:"primaryKey"`
	SchoolID       uint `gorm:"index;not null"`
	School         School
	IngredientID   uint `gorm:"index;not null"`
	Ingredient     Ingredient
	IngredientName string    `gorm:"size:150;not null"`
	Date           time.Time `gorm:"index;not null"`
	AmountAdded    float64   `gorm:"not null"` // kg
	Source         string    `gorm:"size:150"` // supplier name or program batch
	Notes          string    `gorm:"size:255"`
	ExpirationDate *time.Time
	IdempotencyKey *string `gorm:"size:64;uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package models

import "time"

type WasteReason string

const (
	WasteExpired  WasteReason = "expired"
	WasteSpoiled  WasteReason = "spoiled"
	WasteLeftover WasteReason = "leftover"
	WasteOther    WasteReason = "other"
)

// WasteLog: discarded food. Does not touch ingredient stock; the amount was
// already consumed from stock when it was cooked or it expired on the shelf
// and is written off via a stock recompute.
type WasteLog struct {
	ID           uint `gorm:"primaryKey"`
	SchoolID     uint `gorm:"index;not null"`
	School       School
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Date         time.Time   `gorm:"index;not null"`
	Amount       float64     `gorm:"not null"` // kg
	Reason       WasteReason `gorm:"size:20;not null"`
	CostImpact   float64     `gorm:"default:0"`
	Notes        string      `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

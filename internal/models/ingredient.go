package models

import "time"

// Ingredient: one stock item in the kitchen inventory. CurrentStock is a
// materialized cache of the ledger (supply in, consumption out); it is only
// ever changed inside the same transaction as a ledger write, and can be
// rebuilt from the ledger via the recompute endpoint.
type Ingredient struct {
	ID           uint `gorm:"primaryKey"`
	SchoolID     uint `gorm:"index;not null"`
	School       School
	Name         string  `gorm:"size:150;not null"`
	Category     string  `gorm:"size:50"` // staple, protein, vegetable, spice, ...
	CurrentStock float64 `gorm:"not null;default:0"`
	MinThreshold float64 `gorm:"not null;default:0"`
	Unit         string  `gorm:"size:20;not null;default:kg"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

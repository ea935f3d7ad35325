package models

import "time"

// ConsumptionLog: append-only ledger entry for kitchen usage. Never updated
// after creation; corrections go through delete + recreate so GramsPerStudent
// always reflects the values the entry was created with.
type ConsumptionLog struct {
	ID              uint `gorm:"primaryKey"`
	SchoolID        uint `gorm:"index;not null"`
	School          School
	IngredientID    uint `gorm:"index;not null"`
	Ingredient      Ingredient
	IngredientName  string    `gorm:"size:150;not null"` // denormalized for reports
	Date            time.Time `gorm:"index;not null"`
	AmountUsed      float64   `gorm:"not null"` // kg
	StudentCount    int       `gorm:"not null"`
	GramsPerStudent float64   `gorm:"not null"` // amount_used*1000/student_count, fixed at creation
	IdempotencyKey  *string   `gorm:"size:64;uniqueIndex"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

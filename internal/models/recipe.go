package models

import "time"

type Recipe struct {
	ID          uint `gorm:"primaryKey"`
	SchoolID    uint `gorm:"index;not null"`
	School      School
	Name        string `gorm:"size:150;not null"`
	Description string `gorm:"size:500"`
	Servings    int    `gorm:"not null;default:1"` // students per batch
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient: join row, ordered by Position within a recipe.
type RecipeIngredient struct {
	ID           uint `gorm:"primaryKey"`
	RecipeID     uint `gorm:"index;not null"`
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	QuantityKg   float64 `gorm:"not null"`
	Position     int     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

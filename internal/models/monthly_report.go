package models

import "time"

// MonthlyReport: frozen snapshot of a month's program numbers, created once
// by an admin at month close.
type MonthlyReport struct {
	ID       uint `gorm:"primaryKey"`
	SchoolID uint `gorm:"index;not null"`
	School   School
	Year     int       `gorm:"index;not null"`
	Month    int       `gorm:"index;not null"` // 1-12
	ReportDate time.Time `gorm:"index;not null"`

	TotalConsumedKg float64 `gorm:"default:0"`
	TotalReceivedKg float64 `gorm:"default:0"`
	TotalMeals      int     `gorm:"default:0"`
	ActiveDays      int     `gorm:"default:0"`
	TotalWasteKg    float64 `gorm:"default:0"`
	WasteCost       float64 `gorm:"default:0"`

	// detailed breakdown (top ingredients, daily series) as JSON
	ReportData string `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

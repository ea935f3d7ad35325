package models

import "time"

type Staff struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	Name      string `gorm:"size:100;not null"`
	Position  string `gorm:"size:50"` // cook, helper, coordinator
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Supplier struct {
	ID          uint `gorm:"primaryKey"`
	SchoolID    uint `gorm:"index;not null"`
	School      School
	Name        string `gorm:"size:150;not null"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:30"`
	Address     string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SchoolAsset struct {
	ID          uint `gorm:"primaryKey"`
	SchoolID    uint `gorm:"index;not null"`
	School      School
	Name        string  `gorm:"size:150;not null"` // rice cooker, freezer, ...
	Category    string  `gorm:"size:50"`
	Quantity    int     `gorm:"not null"`
	Condition   string  `gorm:"size:30"` // good, damaged, under repair
	Value       float64 `gorm:"default:0"`
	AcquiredAt  *time.Time
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SchoolDay: one row per calendar day the kitchen serves meals.
type SchoolDay struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	Date      time.Time `gorm:"index;not null"`
	IsActive  bool      `gorm:"default:true"` // false for holidays
	Note      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

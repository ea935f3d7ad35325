package models

import "time"

type School struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:150;not null"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:30"`
	Principal string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Grade struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	Name      string `gorm:"size:50;not null"` // "Grade 1", "Grade 2", ...
	Level     int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Classroom struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	GradeID   uint `gorm:"index;not null"`
	Grade     Grade
	Name      string `gorm:"size:50;not null"` // "1-A"
	TeacherID *uint  `gorm:"index"`            // homeroom teacher
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Teacher struct {
	ID        uint `gorm:"primaryKey"`
	SchoolID  uint `gorm:"index;not null"`
	School    School
	Name      string `gorm:"size:100;not null"`
	NIP       string `gorm:"size:30"` // employee number
	Phone     string `gorm:"size:30"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Student struct {
	ID          uint `gorm:"primaryKey"`
	SchoolID    uint `gorm:"index;not null"`
	School      School
	ClassroomID uint `gorm:"index;not null"`
	Classroom   Classroom
	Name        string `gorm:"size:100;not null"`
	NISN        string `gorm:"size:30;index"` // national student number
	Gender      string `gorm:"size:10"`
	Active      bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

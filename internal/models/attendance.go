package models

import "time"

// DailyAttendance: headcount per classroom per day. One row per
// classroom+date, upserted when the teacher corrects a count.
type DailyAttendance struct {
	ID           uint `gorm:"primaryKey"`
	SchoolID     uint `gorm:"index;not null"`
	School       School
	ClassroomID  uint `gorm:"index:idx_attendance_class_date,unique;not null"`
	Classroom    Classroom
	Date         time.Time `gorm:"index:idx_attendance_class_date,unique;not null"`
	PresentCount int       `gorm:"not null"`
	AbsentCount  int       `gorm:"not null"`
	Note         string    `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

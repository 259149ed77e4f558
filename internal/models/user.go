package models

import (
	"strconv"
	"time"
)

// User represents a registered account.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:80;uniqueIndex;not null"`
	Email          string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash   string `gorm:"size:255;not null"`
	RealName       string `gorm:"size:50"`
	Phone          string `gorm:"size:20"`
	TargetPosition string `gorm:"size:100"`
	GraduationYear *int
	Major          string `gorm:"size:100"`
	School         string `gorm:"size:100"`
	CreatedAt      time.Time
	LastLogin      *time.Time
	IsActive       bool `gorm:"default:true"`

	// deleting a user removes their applications
	Applications []Application `gorm:"constraint:OnDelete:CASCADE"`
}

// GraduationYearDisplay renders the optional year for templates, blank when
// unset.
func (u *User) GraduationYearDisplay() string {
	if u.GraduationYear == nil {
		return ""
	}
	return strconv.Itoa(*u.GraduationYear)
}

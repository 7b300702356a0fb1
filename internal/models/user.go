package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

const mobileLength = 10

type User struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name   string    `json:"name" gorm:"not null;size:100"`
	Email  string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Mobile *string   `json:"mobile" gorm:"size:15"`
	Role   UserRole  `json:"role" gorm:"not null;default:USER;size:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// IsProfileComplete reports whether the user may register for exams. A valid
// 10-digit mobile number is the completeness criterion.
func (u *User) IsProfileComplete() bool {
	return u.Mobile != nil && len(*u.Mobile) == mobileLength
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

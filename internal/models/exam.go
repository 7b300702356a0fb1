package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamDraft  ExamStatus = "DRAFT"
	ExamActive ExamStatus = "ACTIVE"
)

type Exam struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	StartDate   time.Time  `json:"start_date" gorm:"not null"`
	EndDate     time.Time  `json:"end_date" gorm:"not null"`
	Fee         float64    `json:"fee" gorm:"type:numeric(10,2);not null;default:0" validate:"min=0"`
	Status      ExamStatus `json:"status" gorm:"not null;default:DRAFT;index" validate:"omitempty,oneof=DRAFT ACTIVE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Registrations []ExamRegistration `json:"-" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

// IsActive reports whether the exam accepts registrations and payments.
func (e *Exam) IsActive() bool {
	return e.Status == ExamActive
}

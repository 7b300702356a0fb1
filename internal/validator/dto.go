package validator

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/exam-portal/registration-service/internal/models"
)

// GoogleLoginRequest is the mocked Google login payload
type GoogleLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=100"`
}

// MobileUpdateRequest updates the user's mobile number
type MobileUpdateRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile_number"`
}

// RegisterRequest registers the caller for an exam
type RegisterRequest struct {
	ExamID uuid.UUID `json:"exam_id" validate:"required"`
}

// BulkEnrollRequest enrolls a batch of registrations
type BulkEnrollRequest struct {
	RegistrationIDs []uuid.UUID `json:"registration_ids" validate:"required,min=1"`
}

// ExamCreateRequest creates an exam in DRAFT status
type ExamCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Fee         float64   `json:"fee" validate:"min=0"`
}

// ExamUpdateRequest updates exam fields; nil fields are left unchanged
type ExamUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Fee         *float64   `json:"fee" validate:"omitempty,min=0"`
}

// ContentCreateRequest creates content in DRAFT status
type ContentCreateRequest struct {
	Type    models.ContentType `json:"type" validate:"required,oneof=COURSE BLOG GALLERY"`
	Title   string             `json:"title" validate:"required,min=1,max=200"`
	Body    string             `json:"body" validate:"required"`
	Meta    datatypes.JSON     `json:"metadata"`
	SEOMeta datatypes.JSON     `json:"seo_meta"`
}

// ContentUpdateRequest updates content fields; nil fields are left unchanged
type ContentUpdateRequest struct {
	Title   *string        `json:"title" validate:"omitempty,min=1,max=200"`
	Body    *string        `json:"body" validate:"omitempty,min=1"`
	Meta    datatypes.JSON `json:"metadata"`
	SEOMeta datatypes.JSON `json:"seo_meta"`
}

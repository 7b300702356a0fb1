package models

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationRegistered     RegistrationStatus = "REGISTERED"
	RegistrationPaymentPending RegistrationStatus = "PAYMENT_PENDING"
	RegistrationPaid           RegistrationStatus = "PAID"
	RegistrationEnrolled       RegistrationStatus = "ENROLLED"
)

// registrationTransitions maps a target status to the set of statuses it is
// reachable from. Enrollment accepts three prior statuses: an admin may
// fast-track an unpaid registration straight to ENROLLED.
var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPaymentPending: {RegistrationRegistered},
	RegistrationPaid:           {RegistrationPaymentPending},
	RegistrationEnrolled:       {RegistrationPaid, RegistrationRegistered, RegistrationPaymentPending},
}

// EnrollableStatuses returns the statuses from which a registration may be
// transitioned to ENROLLED.
func EnrollableStatuses() []RegistrationStatus {
	return registrationTransitions[RegistrationEnrolled]
}

// CanTransition reports whether a registration in `from` may move to `to`.
func CanTransition(from, to RegistrationStatus) bool {
	for _, s := range registrationTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// ValidRegistrationStatus reports whether s is one of the four lifecycle statuses.
func ValidRegistrationStatus(s RegistrationStatus) bool {
	switch s {
	case RegistrationRegistered, RegistrationPaymentPending, RegistrationPaid, RegistrationEnrolled:
		return true
	}
	return false
}

type ExamRegistration struct {
	ID     uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_exam"`
	ExamID uuid.UUID          `json:"exam_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_exam"`
	Status RegistrationStatus `json:"status" gorm:"not null;default:REGISTERED;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
	Exam Exam `json:"-" gorm:"foreignKey:ExamID"`
}

func (ExamRegistration) TableName() string {
	return "exam_registrations"
}

// NewExamRegistration builds a registration in the initial REGISTERED state.
func NewExamRegistration(userID, examID uuid.UUID) *ExamRegistration {
	return &ExamRegistration{
		ID:     uuid.New(),
		UserID: userID,
		ExamID: examID,
		Status: RegistrationRegistered,
	}
}

package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from RegistrationStatus
		to   RegistrationStatus
		want bool
	}{
		{"registered to payment pending", RegistrationRegistered, RegistrationPaymentPending, true},
		{"payment pending to paid", RegistrationPaymentPending, RegistrationPaid, true},
		{"paid to enrolled", RegistrationPaid, RegistrationEnrolled, true},
		{"registered to enrolled (fast-track)", RegistrationRegistered, RegistrationEnrolled, true},
		{"payment pending to enrolled (fast-track)", RegistrationPaymentPending, RegistrationEnrolled, true},

		{"registered to paid skips payment", RegistrationRegistered, RegistrationPaid, false},
		{"paid back to registered", RegistrationPaid, RegistrationRegistered, false},
		{"enrolled is terminal", RegistrationEnrolled, RegistrationPaid, false},
		{"enrolled to enrolled", RegistrationEnrolled, RegistrationEnrolled, false},
		{"paid to payment pending", RegistrationPaid, RegistrationPaymentPending, false},
		{"self transition", RegistrationRegistered, RegistrationRegistered, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestEnrollableStatuses(t *testing.T) {
	statuses := EnrollableStatuses()

	assert.ElementsMatch(t, []RegistrationStatus{
		RegistrationPaid,
		RegistrationRegistered,
		RegistrationPaymentPending,
	}, statuses)
	assert.NotContains(t, statuses, RegistrationEnrolled)
}

func TestValidRegistrationStatus(t *testing.T) {
	for _, status := range []RegistrationStatus{
		RegistrationRegistered, RegistrationPaymentPending, RegistrationPaid, RegistrationEnrolled,
	} {
		assert.True(t, ValidRegistrationStatus(status))
	}
	assert.False(t, ValidRegistrationStatus("CANCELLED"))
	assert.False(t, ValidRegistrationStatus(""))
}

func TestNewExamRegistration(t *testing.T) {
	userID, examID := uuid.New(), uuid.New()

	registration := NewExamRegistration(userID, examID)

	assert.NotEqual(t, uuid.Nil, registration.ID)
	assert.Equal(t, userID, registration.UserID)
	assert.Equal(t, examID, registration.ExamID)
	assert.Equal(t, RegistrationRegistered, registration.Status)
}

func TestUserProfileComplete(t *testing.T) {
	mobile := "9876543210"
	short := "12345"

	tests := []struct {
		name   string
		mobile *string
		want   bool
	}{
		{"nil mobile", nil, false},
		{"ten digits", &mobile, true},
		{"too short", &short, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Mobile: tt.mobile}
			assert.Equal(t, tt.want, u.IsProfileComplete())
		})
	}
}

package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/exam-portal/registration-service/internal/models"
)

// Topic names
const (
	TopicRegistrationEvents = "exam-registration.registration-events"
	TopicContentEvents      = "exam-registration.content-events"
)

// Event types
const (
	EventRegistrationCreated  = "registration.created"
	EventPaymentInitiated     = "registration.payment_initiated"
	EventPaymentConfirmed     = "registration.payment_confirmed"
	EventRegistrationEnrolled = "registration.enrolled"
	EventContentPublished     = "content.published"
)

// RegistrationEvent is published on every lifecycle transition
type RegistrationEvent struct {
	EventType      string                    `json:"event_type"`
	RegistrationID uuid.UUID                 `json:"registration_id"`
	UserID         uuid.UUID                 `json:"user_id"`
	ExamID         uuid.UUID                 `json:"exam_id"`
	Status         models.RegistrationStatus `json:"status"`
	OccurredAt     time.Time                 `json:"occurred_at"`
}

// ContentEvent is published when content changes visibility
type ContentEvent struct {
	EventType  string               `json:"event_type"`
	ContentID  uuid.UUID            `json:"content_id"`
	Type       models.ContentType   `json:"type"`
	Status     models.ContentStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewRegistrationEvent builds an event from a registration snapshot
func NewRegistrationEvent(eventType string, registration *models.ExamRegistration) RegistrationEvent {
	return RegistrationEvent{
		EventType:      eventType,
		RegistrationID: registration.ID,
		UserID:         registration.UserID,
		ExamID:         registration.ExamID,
		Status:         registration.Status,
		OccurredAt:     time.Now().UTC(),
	}
}

// NewContentEvent builds an event from a content snapshot
func NewContentEvent(eventType string, content *models.Content) ContentEvent {
	return ContentEvent{
		EventType:  eventType,
		ContentID:  content.ID,
		Type:       content.Type,
		Status:     content.Status,
		OccurredAt: time.Now().UTC(),
	}
}

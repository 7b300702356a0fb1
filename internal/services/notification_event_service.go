package services

import (
	"context"
	"log/slog"

	"github.com/exam-portal/registration-service/internal/events"
	"github.com/exam-portal/registration-service/internal/models"
)

type notificationEventService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationEventService(publisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationEventService) RegistrationCreated(ctx context.Context, registration *models.ExamRegistration) {
	s.publishRegistration(ctx, events.EventRegistrationCreated, registration)
}

func (s *notificationEventService) PaymentInitiated(ctx context.Context, registration *models.ExamRegistration) {
	s.publishRegistration(ctx, events.EventPaymentInitiated, registration)
}

func (s *notificationEventService) PaymentConfirmed(ctx context.Context, registration *models.ExamRegistration) {
	s.publishRegistration(ctx, events.EventPaymentConfirmed, registration)
}

func (s *notificationEventService) RegistrationEnrolled(ctx context.Context, registration *models.ExamRegistration) {
	s.publishRegistration(ctx, events.EventRegistrationEnrolled, registration)
}

func (s *notificationEventService) ContentPublished(ctx context.Context, content *models.Content) {
	event := events.NewContentEvent(events.EventContentPublished, content)
	if err := s.publisher.Publish(ctx, events.TopicContentEvents, event); err != nil {
		// The state change already committed; publishing never fails it.
		s.logger.Error("Failed to publish content event",
			"event_type", event.EventType, "content_id", content.ID, "error", err)
	}
}

func (s *notificationEventService) publishRegistration(ctx context.Context, eventType string, registration *models.ExamRegistration) {
	event := events.NewRegistrationEvent(eventType, registration)
	if err := s.publisher.Publish(ctx, events.TopicRegistrationEvents, event); err != nil {
		s.logger.Error("Failed to publish registration event",
			"event_type", eventType, "registration_id", registration.ID, "error", err)
	}
}

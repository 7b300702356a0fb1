package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exam-portal/registration-service/internal/events"
	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

func newRegistrationFixture(t *testing.T) (*mockRepository, RegistrationService, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	notification := NewNotificationEventService(publisher, testLogger())
	service := NewRegistrationService(repo, nil, testLogger(), notification)
	return repo, service, publisher
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates registration in REGISTERED status", func(t *testing.T) {
		repo, service, publisher := newRegistrationFixture(t)
		user := repo.seedUser(completeUser())
		exam := repo.seedExam(activeExam())

		response, err := service.Register(ctx, user.ID, exam.ID)
		require.NoError(t, err)

		assert.Equal(t, models.RegistrationRegistered, response.Status)
		assert.Equal(t, user.ID, response.UserID)
		assert.Equal(t, exam.ID, response.ExamID)
		assert.True(t, response.CanInitiatePayment)
		assert.True(t, response.CanEnroll)
		assert.False(t, response.CanConfirmPayment)

		published := publisher.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.TopicRegistrationEvents, published[0].Topic)
	})

	t.Run("rejects incomplete profile until mobile is set", func(t *testing.T) {
		repo, service, _ := newRegistrationFixture(t)
		user := completeUser()
		user.Mobile = nil
		repo.seedUser(user)
		exam := repo.seedExam(activeExam())

		_, err := service.Register(ctx, user.ID, exam.ID)
		assert.ErrorIs(t, err, ErrProfileIncomplete)

		// Completing the profile unblocks registration.
		user.Mobile = strPtr("9876543210")
		repo.seedUser(user)

		response, err := service.Register(ctx, user.ID, exam.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationRegistered, response.Status)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		repo, service, _ := newRegistrationFixture(t)
		exam := repo.seedExam(activeExam())

		_, err := service.Register(ctx, uuid.New(), exam.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rejects unknown exam", func(t *testing.T) {
		repo, service, _ := newRegistrationFixture(t)
		user := repo.seedUser(completeUser())

		_, err := service.Register(ctx, user.ID, uuid.New())
		assert.ErrorIs(t, err, ErrExamNotFound)
	})

	t.Run("rejects draft exam", func(t *testing.T) {
		repo, service, _ := newRegistrationFixture(t)
		user := repo.seedUser(completeUser())
		exam := activeExam()
		exam.Status = models.ExamDraft
		repo.seedExam(exam)

		_, err := service.Register(ctx, user.ID, exam.ID)
		assert.ErrorIs(t, err, ErrExamNotActive)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		repo, service, publisher := newRegistrationFixture(t)
		user := repo.seedUser(completeUser())
		exam := repo.seedExam(activeExam())

		_, err := service.Register(ctx, user.ID, exam.ID)
		require.NoError(t, err)

		_, err = service.Register(ctx, user.ID, exam.ID)
		assert.ErrorIs(t, err, ErrDuplicateRegistration)

		// Only the first attempt published an event.
		assert.Len(t, publisher.Events(), 1)
	})
}

func TestGetByID_Ownership(t *testing.T) {
	ctx := context.Background()
	repo, service, _ := newRegistrationFixture(t)
	user := repo.seedUser(completeUser())
	exam := repo.seedExam(activeExam())
	registration := repo.seedRegistration(registrationWithStatus(user.ID, exam.ID, models.RegistrationRegistered))

	t.Run("owner can read", func(t *testing.T) {
		response, err := service.GetByID(ctx, registration.ID, user.ID, models.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, registration.ID, response.ID)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := service.GetByID(ctx, registration.ID, uuid.New(), models.RoleUser)
		assert.True(t, IsPermissionError(err))
	})

	t.Run("admin can read any registration", func(t *testing.T) {
		response, err := service.GetByID(ctx, registration.ID, uuid.New(), models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, registration.ID, response.ID)
	})

	t.Run("missing registration", func(t *testing.T) {
		_, err := service.GetByID(ctx, uuid.New(), user.ID, models.RoleUser)
		assert.ErrorIs(t, err, ErrRegistrationNotFound)
	})
}

func TestGetExamRegistrations(t *testing.T) {
	ctx := context.Background()
	repo, service, _ := newRegistrationFixture(t)
	admin := uuid.New()
	user := repo.seedUser(completeUser())
	exam := repo.seedExam(activeExam())
	repo.seedRegistration(registrationWithStatus(user.ID, exam.ID, models.RegistrationPaid))

	t.Run("requires admin role", func(t *testing.T) {
		_, err := service.GetExamRegistrations(ctx, exam.ID, repositories.RegistrationFilters{}, user.ID, models.RoleUser)
		assert.True(t, IsPermissionError(err))
	})

	t.Run("joins user details", func(t *testing.T) {
		response, err := service.GetExamRegistrations(ctx, exam.ID, repositories.RegistrationFilters{}, admin, models.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, response.Registrations, 1)

		row := response.Registrations[0]
		assert.Equal(t, user.Name, row.UserName)
		assert.Equal(t, user.Email, row.UserEmail)
		assert.Equal(t, models.RegistrationPaid, row.Status)
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, err := service.GetExamRegistrations(ctx, uuid.New(), repositories.RegistrationFilters{}, admin, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrExamNotFound)
	})
}

func TestGetStatusSummary(t *testing.T) {
	ctx := context.Background()
	repo, service, _ := newRegistrationFixture(t)
	exam := repo.seedExam(activeExam())

	statuses := []models.RegistrationStatus{
		models.RegistrationRegistered,
		models.RegistrationRegistered,
		models.RegistrationPaid,
		models.RegistrationEnrolled,
	}
	for _, status := range statuses {
		user := completeUser()
		user.ID = uuid.New()
		user.Email = uuid.NewString() + "@example.com"
		repo.seedUser(user)
		repo.seedRegistration(registrationWithStatus(user.ID, exam.ID, status))
	}

	summary, err := service.GetStatusSummary(ctx, exam.ID, uuid.New(), models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(2), summary.Counts[models.RegistrationRegistered])
	assert.Equal(t, int64(1), summary.Counts[models.RegistrationPaid])
	assert.Equal(t, int64(1), summary.Counts[models.RegistrationEnrolled])
}

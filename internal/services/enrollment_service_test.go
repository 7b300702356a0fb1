package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exam-portal/registration-service/internal/events"
	"github.com/exam-portal/registration-service/internal/models"
)

func newEnrollmentFixture(t *testing.T) (*mockRepository, EnrollmentService, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	notification := NewNotificationEventService(publisher, testLogger())
	return repo, NewEnrollmentService(repo, nil, testLogger(), notification), publisher
}

func (m *mockRepository) seedRegistrationForExam(exam *models.Exam, status models.RegistrationStatus) *models.ExamRegistration {
	user := completeUser()
	user.ID = uuid.New()
	user.Email = uuid.NewString() + "@example.com"
	m.seedUser(user)
	return m.seedRegistration(registrationWithStatus(user.ID, exam.ID, status))
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	admin := uuid.New()

	t.Run("enrolls from every enrollable status", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())

		for _, status := range models.EnrollableStatuses() {
			registration := repo.seedRegistrationForExam(exam, status)

			response, err := service.Enroll(ctx, registration.ID, admin, models.RoleAdmin)
			require.NoError(t, err, "status %s", status)
			assert.Equal(t, models.RegistrationEnrolled, response.Status)
		}
	})

	t.Run("requires admin role", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		registration := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		_, err := service.Enroll(ctx, registration.ID, registration.UserID, models.RoleUser)
		assert.True(t, IsPermissionError(err))
		assert.Equal(t, models.RegistrationPaid, repo.registrationStatus(registration.ID))
	})

	t.Run("enrolling twice reports already enrolled", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		registration := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		_, err := service.Enroll(ctx, registration.ID, admin, models.RoleAdmin)
		require.NoError(t, err)

		_, err = service.Enroll(ctx, registration.ID, admin, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("missing registration", func(t *testing.T) {
		_, service, _ := newEnrollmentFixture(t)
		_, err := service.Enroll(ctx, uuid.New(), admin, models.RoleAdmin)
		assert.ErrorIs(t, err, ErrRegistrationNotFound)
	})

	t.Run("publishes an event on success", func(t *testing.T) {
		repo, service, publisher := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		registration := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		_, err := service.Enroll(ctx, registration.ID, admin, models.RoleAdmin)
		require.NoError(t, err)

		published := publisher.Events()
		require.Len(t, published, 1)
		event, ok := published[0].Event.(events.RegistrationEvent)
		require.True(t, ok)
		assert.Equal(t, events.EventRegistrationEnrolled, event.EventType)
	})
}

func TestBulkEnroll(t *testing.T) {
	ctx := context.Background()
	admin := uuid.New()

	t.Run("admin gate is checked once up front", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		registration := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		_, err := service.BulkEnroll(ctx, []uuid.UUID{registration.ID}, registration.UserID, models.RoleUser)
		assert.True(t, IsPermissionError(err))
		assert.Equal(t, models.RegistrationPaid, repo.registrationStatus(registration.ID))
	})

	t.Run("mixed batch yields partial success", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		paid := repo.seedRegistrationForExam(exam, models.RegistrationPaid)
		enrolled := repo.seedRegistrationForExam(exam, models.RegistrationEnrolled)
		missing := uuid.New()

		input := []uuid.UUID{paid.ID, missing, enrolled.ID}
		result, err := service.BulkEnroll(ctx, input, admin, models.RoleAdmin)
		require.NoError(t, err)

		require.Len(t, result.Success, 1)
		assert.Equal(t, paid.ID, result.Success[0])

		require.Len(t, result.Failed, 2)
		assert.Equal(t, missing, result.Failed[0].RegistrationID)
		assert.Equal(t, FailureNotFound, result.Failed[0].Code)
		assert.Equal(t, enrolled.ID, result.Failed[1].RegistrationID)
		assert.Equal(t, FailureAlreadyEnrolled, result.Failed[1].Code)
	})

	t.Run("every input id is reported exactly once", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())

		var input []uuid.UUID
		for _, status := range []models.RegistrationStatus{
			models.RegistrationRegistered,
			models.RegistrationPaymentPending,
			models.RegistrationPaid,
			models.RegistrationEnrolled,
		} {
			input = append(input, repo.seedRegistrationForExam(exam, status).ID)
		}
		input = append(input, uuid.New())

		result, err := service.BulkEnroll(ctx, input, admin, models.RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, len(input), len(result.Success)+len(result.Failed))

		seen := make(map[uuid.UUID]int)
		for _, id := range result.Success {
			seen[id]++
		}
		for _, item := range result.Failed {
			seen[item.RegistrationID]++
		}
		for _, id := range input {
			assert.Equal(t, 1, seen[id], "id %s", id)
		}
	})

	t.Run("duplicate input ids are processed independently", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		registration := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		result, err := service.BulkEnroll(ctx, []uuid.UUID{registration.ID, registration.ID}, admin, models.RoleAdmin)
		require.NoError(t, err)

		// First occurrence enrolls; the second finds it already enrolled.
		require.Len(t, result.Success, 1)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, FailureAlreadyEnrolled, result.Failed[0].Code)
	})

	t.Run("one failing item does not abort the rest", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		broken := repo.seedRegistrationForExam(exam, models.RegistrationPaid)
		healthy := repo.seedRegistrationForExam(exam, models.RegistrationPaid)
		repo.failUpdateStatus[broken.ID] = errors.New("connection reset")

		result, err := service.BulkEnroll(ctx, []uuid.UUID{broken.ID, healthy.ID}, admin, models.RoleAdmin)
		require.NoError(t, err)

		require.Len(t, result.Success, 1)
		assert.Equal(t, healthy.ID, result.Success[0])
		require.Len(t, result.Failed, 1)
		assert.Equal(t, FailureInternal, result.Failed[0].Code)
	})

	t.Run("cancellation stops further items without rollback", func(t *testing.T) {
		repo, service, _ := newEnrollmentFixture(t)
		exam := repo.seedExam(activeExam())
		first := repo.seedRegistrationForExam(exam, models.RegistrationPaid)
		second := repo.seedRegistrationForExam(exam, models.RegistrationPaid)

		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := service.BulkEnroll(cancelledCtx, []uuid.UUID{first.ID, second.ID}, admin, models.RoleAdmin)
		require.NoError(t, err)

		assert.Empty(t, result.Success)
		require.Len(t, result.Failed, 2)
		for _, item := range result.Failed {
			assert.Equal(t, FailureCancelled, item.Code)
		}
		assert.Equal(t, models.RegistrationPaid, repo.registrationStatus(first.ID))
		assert.Equal(t, models.RegistrationPaid, repo.registrationStatus(second.ID))
	})
}

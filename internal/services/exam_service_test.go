package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
	"github.com/exam-portal/registration-service/internal/validator"
)

func newExamFixture(t *testing.T) (*mockRepository, ExamService) {
	t.Helper()
	repo := newMockRepository()
	return repo, NewExamService(repo, nil, testLogger(), validator.New())
}

func TestExamCreate(t *testing.T) {
	ctx := context.Background()
	admin := uuid.New()
	now := time.Now().UTC()

	t.Run("creates in DRAFT", func(t *testing.T) {
		_, service := newExamFixture(t)

		response, err := service.Create(ctx, &CreateExamRequest{
			Title:     "National Entrance Exam",
			StartDate: now.Add(24 * time.Hour),
			EndDate:   now.Add(48 * time.Hour),
			Fee:       250,
		}, admin, models.RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, models.ExamDraft, response.Status)
		assert.False(t, response.IsRegistrationOpen)
	})

	t.Run("rejects inverted date range", func(t *testing.T) {
		_, service := newExamFixture(t)

		_, err := service.Create(ctx, &CreateExamRequest{
			Title:     "Backwards exam",
			StartDate: now.Add(48 * time.Hour),
			EndDate:   now.Add(24 * time.Hour),
		}, admin, models.RoleAdmin)
		require.Error(t, err)

		var validationErrors validator.ValidationErrors
		assert.ErrorAs(t, err, &validationErrors)
	})

	t.Run("requires admin role", func(t *testing.T) {
		_, service := newExamFixture(t)

		_, err := service.Create(ctx, &CreateExamRequest{
			Title:     "x",
			StartDate: now,
			EndDate:   now.Add(time.Hour),
		}, uuid.New(), models.RoleUser)
		assert.True(t, IsPermissionError(err))
	})
}

func TestExamVisibility(t *testing.T) {
	ctx := context.Background()
	admin := uuid.New()

	t.Run("non-admins cannot see drafts", func(t *testing.T) {
		repo, service := newExamFixture(t)
		draft := activeExam()
		draft.Status = models.ExamDraft
		repo.seedExam(draft)

		_, err := service.GetByID(ctx, draft.ID, models.RoleUser)
		assert.ErrorIs(t, err, ErrExamNotFound)

		response, err := service.GetByID(ctx, draft.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, response.ID)
	})

	t.Run("public listing is pinned to ACTIVE", func(t *testing.T) {
		repo, service := newExamFixture(t)
		draft := activeExam()
		draft.Status = models.ExamDraft
		repo.seedExam(draft)
		active := repo.seedExam(activeExam())

		response, err := service.List(ctx, repositories.ExamFilters{}, models.RoleUser)
		require.NoError(t, err)
		require.Len(t, response.Exams, 1)
		assert.Equal(t, active.ID, response.Exams[0].ID)

		// Even an explicit DRAFT filter is overridden for non-admins.
		draftStatus := models.ExamDraft
		response, err = service.List(ctx, repositories.ExamFilters{Status: &draftStatus}, models.RoleUser)
		require.NoError(t, err)
		require.Len(t, response.Exams, 1)
		assert.Equal(t, active.ID, response.Exams[0].ID)

		adminResponse, err := service.List(ctx, repositories.ExamFilters{}, models.RoleAdmin)
		require.NoError(t, err)
		assert.Len(t, adminResponse.Exams, 2)
	})

	t.Run("activate and deactivate flip visibility", func(t *testing.T) {
		repo, service := newExamFixture(t)
		exam := activeExam()
		exam.Status = models.ExamDraft
		repo.seedExam(exam)

		activated, err := service.Activate(ctx, exam.ID, admin, models.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, activated.IsRegistrationOpen)

		deactivated, err := service.Deactivate(ctx, exam.ID, admin, models.RoleAdmin)
		require.NoError(t, err)
		assert.False(t, deactivated.IsRegistrationOpen)
	})
}

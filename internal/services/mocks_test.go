package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

// mockRepository is an in-memory Repository matching the store contract the
// postgres implementation provides: gorm sentinel errors for missing and
// duplicate rows, and atomic conditional status updates.
type mockRepository struct {
	mu sync.Mutex

	registrations map[uuid.UUID]*models.ExamRegistration
	exams         map[uuid.UUID]*models.Exam
	users         map[uuid.UUID]*models.User
	contents      map[uuid.UUID]*models.Content

	// failUpdateStatus forces UpdateStatus to fail for specific ids.
	failUpdateStatus map[uuid.UUID]error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		registrations:    make(map[uuid.UUID]*models.ExamRegistration),
		exams:            make(map[uuid.UUID]*models.Exam),
		users:            make(map[uuid.UUID]*models.User),
		contents:         make(map[uuid.UUID]*models.Content),
		failUpdateStatus: make(map[uuid.UUID]error),
	}
}

func (m *mockRepository) Registration() repositories.RegistrationRepository { return &mockRegistrationRepo{m} }
func (m *mockRepository) Exam() repositories.ExamRepository                 { return &mockExamRepo{m} }
func (m *mockRepository) User() repositories.UserRepository                 { return &mockUserRepo{m} }
func (m *mockRepository) Content() repositories.ContentRepository           { return &mockContentRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// Seeding helpers

func (m *mockRepository) seedUser(user *models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return user
}

func (m *mockRepository) seedExam(exam *models.Exam) *models.Exam {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams[exam.ID] = exam
	return exam
}

func (m *mockRepository) seedRegistration(registration *models.ExamRegistration) *models.ExamRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[registration.ID] = registration
	return registration
}

func (m *mockRepository) registrationStatus(id uuid.UUID) models.RegistrationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registrations[id].Status
}

// ===== REGISTRATION REPO =====

type mockRegistrationRepo struct{ m *mockRepository }

func (r *mockRegistrationRepo) Create(ctx context.Context, tx *gorm.DB, registration *models.ExamRegistration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.registrations {
		if existing.UserID == registration.UserID && existing.ExamID == registration.ExamID {
			return gorm.ErrDuplicatedKey
		}
	}
	registration.CreatedAt = time.Now().UTC()
	registration.UpdatedAt = registration.CreatedAt
	r.m.registrations[registration.ID] = registration
	return nil
}

func (r *mockRegistrationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ExamRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	registration, ok := r.m.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *registration
	return &copied, nil
}

func (r *mockRegistrationRepo) GetByUserAndExam(ctx context.Context, tx *gorm.DB, userID, examID uuid.UUID) (*models.ExamRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, registration := range r.m.registrations {
		if registration.UserID == userID && registration.ExamID == examID {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockRegistrationRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ExamRegistration
	for _, registration := range r.m.registrations {
		if registration.UserID != userID {
			continue
		}
		if filters.Status != nil && registration.Status != *filters.Status {
			continue
		}
		copied := *registration
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *mockRegistrationRepo) GetByExam(ctx context.Context, tx *gorm.DB, examID uuid.UUID, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ExamRegistration
	for _, registration := range r.m.registrations {
		if registration.ExamID != examID {
			continue
		}
		if filters.Status != nil && registration.Status != *filters.Status {
			continue
		}
		copied := *registration
		if user, ok := r.m.users[registration.UserID]; ok {
			copied.User = *user
		}
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *mockRegistrationRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.ExamRegistration
	for _, registration := range r.m.registrations {
		copied := *registration
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *mockRegistrationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.RegistrationStatus, expected ...models.RegistrationStatus) (*models.ExamRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err, ok := r.m.failUpdateStatus[id]; ok {
		return nil, err
	}

	registration, ok := r.m.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if len(expected) > 0 {
		matched := false
		for _, status := range expected {
			if registration.Status == status {
				matched = true
				break
			}
		}
		if !matched {
			return nil, &repositories.StatusConflictError{
				ID:       id,
				Current:  registration.Status,
				Expected: expected,
			}
		}
	}

	registration.Status = newStatus
	registration.UpdatedAt = time.Now().UTC()
	copied := *registration
	return &copied, nil
}

func (r *mockRegistrationRepo) GetStatusCounts(ctx context.Context, tx *gorm.DB, examID uuid.UUID) (map[models.RegistrationStatus]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := make(map[models.RegistrationStatus]int64)
	for _, registration := range r.m.registrations {
		if registration.ExamID == examID {
			counts[registration.Status]++
		}
	}
	return counts, nil
}

// ===== EXAM REPO =====

type mockExamRepo struct{ m *mockRepository }

func (r *mockExamRepo) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.exams[exam.ID] = exam
	return nil
}

func (r *mockExamRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Exam, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	exam, ok := r.m.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *exam
	return &copied, nil
}

func (r *mockExamRepo) Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.exams[exam.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.exams[exam.ID] = exam
	return nil
}

func (r *mockExamRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.exams, id)
	return nil
}

func (r *mockExamRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Exam
	for _, exam := range r.m.exams {
		if filters.Status != nil && exam.Status != *filters.Status {
			continue
		}
		copied := *exam
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *mockExamRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ExamStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	exam, ok := r.m.exams[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	exam.Status = status
	return nil
}

// ===== USER REPO =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, user := range r.m.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

// ===== CONTENT REPO =====

type mockContentRepo struct{ m *mockRepository }

func (r *mockContentRepo) Create(ctx context.Context, tx *gorm.DB, content *models.Content) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.contents[content.ID] = content
	return nil
}

func (r *mockContentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Content, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	content, ok := r.m.contents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *content
	return &copied, nil
}

func (r *mockContentRepo) Update(ctx context.Context, tx *gorm.DB, content *models.Content) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.contents[content.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.contents[content.ID] = content
	return nil
}

func (r *mockContentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.contents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.contents, id)
	return nil
}

func (r *mockContentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Content, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Content
	for _, content := range r.m.contents {
		if filters.Status != nil && content.Status != *filters.Status {
			continue
		}
		if filters.Type != nil && content.Type != *filters.Type {
			continue
		}
		copied := *content
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *mockContentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.ContentStatus, expected ...models.ContentStatus) (*models.Content, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	content, ok := r.m.contents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if len(expected) > 0 {
		matched := false
		for _, status := range expected {
			if content.Status == status {
				matched = true
				break
			}
		}
		if !matched {
			return nil, &repositories.ContentStatusConflictError{
				ID:       id,
				Current:  content.Status,
				Expected: expected,
			}
		}
	}

	content.Status = newStatus
	copied := *content
	return &copied, nil
}

// ===== SHARED TEST FIXTURES =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func strPtr(s string) *string { return &s }

func completeUser() *models.User {
	return &models.User{
		ID:     uuid.New(),
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Mobile: strPtr("9876543210"),
		Role:   models.RoleUser,
	}
}

func activeExam() *models.Exam {
	now := time.Now().UTC()
	return &models.Exam{
		ID:        uuid.New(),
		Title:     "National Entrance Exam",
		StartDate: now.Add(24 * time.Hour),
		EndDate:   now.Add(48 * time.Hour),
		Fee:       250,
		Status:    models.ExamActive,
	}
}

func registrationWithStatus(userID, examID uuid.UUID, status models.RegistrationStatus) *models.ExamRegistration {
	registration := models.NewExamRegistration(userID, examID)
	registration.Status = status
	registration.CreatedAt = time.Now().UTC()
	registration.UpdatedAt = registration.CreatedAt
	return registration
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/models"
)

// Repository aggregates all entity repositories behind a single access point.
type Repository interface {
	Registration() RegistrationRepository
	Exam() ExamRepository
	User() UserRepository
	Content() ContentRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager handles repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown() error
}

type RegistrationRepository interface {
	// Create inserts a new registration. A (user_id, exam_id) uniqueness
	// violation surfaces as a duplicate error (IsDuplicateError).
	Create(ctx context.Context, tx *gorm.DB, registration *models.ExamRegistration) error

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ExamRegistration, error)
	GetByUserAndExam(ctx context.Context, tx *gorm.DB, userID, examID uuid.UUID) (*models.ExamRegistration, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filters RegistrationFilters) ([]*models.ExamRegistration, int64, error)
	GetByExam(ctx context.Context, tx *gorm.DB, examID uuid.UUID, filters RegistrationFilters) ([]*models.ExamRegistration, int64, error)
	List(ctx context.Context, tx *gorm.DB, filters RegistrationFilters) ([]*models.ExamRegistration, int64, error)

	// UpdateStatus performs the conditional status transition: the status
	// column is set to newStatus only if the current status is one of
	// expected, as a single conditional write against the store. With no
	// expected statuses the update is unconditional (construction-time paths
	// only). Returns the registration as stored after the update, a not-found
	// error, or a *StatusConflictError carrying the actual and expected
	// statuses with the record left untouched.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.RegistrationStatus, expected ...models.RegistrationStatus) (*models.ExamRegistration, error)

	GetStatusCounts(ctx context.Context, tx *gorm.DB, examID uuid.UUID) (map[models.RegistrationStatus]int64, error)
}

type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Exam, error)
	Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status models.ExamStatus) error
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
}

type ContentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, content *models.Content) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Content, error)
	Update(ctx context.Context, tx *gorm.DB, content *models.Content) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filters ContentFilters) ([]*models.Content, int64, error)

	// UpdateStatus is the two-state publish flow counterpart of the
	// registration transition primitive.
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.ContentStatus, expected ...models.ContentStatus) (*models.Content, error)
}

// IsNotFoundError reports whether err is a store-level missing record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a uniqueness constraint violation.
// The postgres driver translates unique index violations to
// gorm.ErrDuplicatedKey, which is the sole source of truth for the Duplicate
// error; any in-service existence check is a fast path only.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

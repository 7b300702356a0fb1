package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/exam-portal/registration-service/internal/cache"
	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *RegistrationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RegistrationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, registration *models.ExamRegistration) error {
	db := r.getDB(tx)
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	// The unique index on (user_id, exam_id) is the authority on duplicates;
	// the driver translates violations to gorm.ErrDuplicatedKey.
	if err := db.WithContext(ctx).Create(registration).Error; err != nil {
		return err
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, registration.ID, registration.UserID, registration.ExamID)
	return nil
}

func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ExamRegistration, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var registration models.ExamRegistration

	err := r.cacheManager.Registration.CacheOrExecute(ctx, cacheKey, &registration, cache.RegistrationCacheConfig.TTL, func() (interface{}, error) {
		var dbRegistration models.ExamRegistration
		if err := db.WithContext(ctx).Where("id = ?", id).First(&dbRegistration).Error; err != nil {
			return nil, err
		}
		return &dbRegistration, nil
	})

	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) GetByUserAndExam(ctx context.Context, tx *gorm.DB, userID, examID uuid.UUID) (*models.ExamRegistration, error) {
	db := r.getDB(tx)
	var registration models.ExamRegistration
	if err := db.WithContext(ctx).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	filters.UserID = &userID
	return r.List(ctx, tx, filters)
}

func (r *RegistrationPostgreSQL) GetByExam(ctx context.Context, tx *gorm.DB, examID uuid.UUID, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	filters.ExamID = &examID
	return r.List(ctx, tx, filters)
}

func (r *RegistrationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.ExamRegistration, int64, error) {
	db := r.getDB(tx)
	var registrations []*models.ExamRegistration
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.ExamRegistration{})
	query = r.helpers.ApplyRegistrationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.helpers.ApplyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Preload("User").Preload("Exam").Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// UpdateStatus is the conditional status transition primitive. The check and
// the write are one UPDATE statement, so two racing callers with mutually
// exclusive preconditions cannot both succeed: the loser's WHERE clause no
// longer matches and it observes a StatusConflictError.
func (r *RegistrationPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.RegistrationStatus, expected ...models.RegistrationStatus) (*models.ExamRegistration, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.ExamRegistration{}).
		Where("id = ?", id)
	if len(expected) > 0 {
		query = query.Where("status IN ?", expected)
	}

	result := query.Update("status", newStatus)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update registration status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing record from a precondition miss. The record is
		// untouched either way.
		var current models.ExamRegistration
		if err := db.WithContext(ctx).Where("id = ?", id).First(&current).Error; err != nil {
			return nil, err // gorm.ErrRecordNotFound surfaces as NotFound
		}
		return nil, &repositories.StatusConflictError{
			ID:       id,
			Current:  current.Status,
			Expected: expected,
		}
	}

	var updated models.ExamRegistration
	if err := db.WithContext(ctx).Where("id = ?", id).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to reload registration after status update: %w", err)
	}

	cache.InvalidateRegistrationCache(ctx, r.cacheManager, updated.ID, updated.UserID, updated.ExamID)
	return &updated, nil
}

func (r *RegistrationPostgreSQL) GetStatusCounts(ctx context.Context, tx *gorm.DB, examID uuid.UUID) (map[models.RegistrationStatus]int64, error) {
	db := r.getDB(tx)

	var rows []struct {
		Status models.RegistrationStatus
		Count  int64
	}
	if err := db.WithContext(ctx).
		Model(&models.ExamRegistration{}).
		Select("status, count(*) as count").
		Where("exam_id = ?", examID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count registrations by status: %w", err)
	}

	counts := make(map[models.RegistrationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

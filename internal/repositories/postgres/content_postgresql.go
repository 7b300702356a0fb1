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

type ContentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewContentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ContentRepository {
	return &ContentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *ContentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *ContentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, content *models.Content) error {
	db := c.getDB(tx)
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	if err := db.WithContext(ctx).Create(content).Error; err != nil {
		return err
	}

	cache.InvalidateContentCache(ctx, c.cacheManager, content.ID)
	return nil
}

func (c *ContentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Content, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("id:%s", id)
	var content models.Content

	err := c.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &content, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbContent models.Content
		if err := db.WithContext(ctx).Where("id = ?", id).First(&dbContent).Error; err != nil {
			return nil, err
		}
		return &dbContent, nil
	})

	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *ContentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, content *models.Content) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(content).Error; err != nil {
		return err
	}

	cache.InvalidateContentCache(ctx, c.cacheManager, content.ID)
	return nil
}

func (c *ContentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Content{}, "id = ?", id).Error; err != nil {
		return err
	}

	cache.InvalidateContentCache(ctx, c.cacheManager, id)
	return nil
}

func (c *ContentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Content, int64, error) {
	db := c.getDB(tx)
	var contents []*models.Content
	var total int64

	query := db.WithContext(ctx).Model(&models.Content{})
	query = c.helpers.ApplyContentFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = c.helpers.ApplyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Find(&contents).Error; err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

// UpdateStatus mirrors the registration transition primitive for the
// two-state publish flow.
func (c *ContentPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, newStatus models.ContentStatus, expected ...models.ContentStatus) (*models.Content, error) {
	db := c.getDB(tx)

	query := db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ?", id)
	if len(expected) > 0 {
		query = query.Where("status IN ?", expected)
	}

	result := query.Update("status", newStatus)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update content status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var current models.Content
		if err := db.WithContext(ctx).Where("id = ?", id).First(&current).Error; err != nil {
			return nil, err
		}
		return nil, &repositories.ContentStatusConflictError{
			ID:       id,
			Current:  current.Status,
			Expected: expected,
		}
	}

	var updated models.Content
	if err := db.WithContext(ctx).Where("id = ?", id).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to reload content after status update: %w", err)
	}

	cache.InvalidateContentCache(ctx, c.cacheManager, updated.ID)
	return &updated, nil
}

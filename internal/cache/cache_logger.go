package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateRegistrationCache invalidates caches touched by a status
// transition or a new registration
func InvalidateRegistrationCache(ctx context.Context, cm *CacheManager, registrationID, userID, examID uuid.UUID) {
	SafeDelete(ctx, cm.Registration,
		fmt.Sprintf("id:%s", registrationID),
		fmt.Sprintf("pair:%s:%s", userID, examID))

	SafeInvalidatePattern(ctx, cm.Registration, fmt.Sprintf("user:%s:*", userID))
	SafeInvalidatePattern(ctx, cm.Registration, fmt.Sprintf("exam:%s:*", examID))
}

// InvalidateExamCache invalidates all exam-related caches
func InvalidateExamCache(ctx context.Context, cm *CacheManager, examID uuid.UUID) {
	SafeDelete(ctx, cm.Exam, fmt.Sprintf("id:%s", examID))
	SafeInvalidatePattern(ctx, cm.Exam, "list:*")
}

// InvalidateContentCache invalidates all content-related caches
func InvalidateContentCache(ctx context.Context, cm *CacheManager, contentID uuid.UUID) {
	SafeDelete(ctx, cm.Content, fmt.Sprintf("id:%s", contentID))
	SafeInvalidatePattern(ctx, cm.Content, "list:*")
}

// InvalidateUserCache invalidates a user's cached profile
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uuid.UUID) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%s", userID))
}

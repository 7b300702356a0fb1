package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/exam-portal/registration-service/internal/models"
	"github.com/exam-portal/registration-service/internal/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads page/size query parameters into limit/offset.
func parsePagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}

func parseRegistrationFilters(c *gin.Context) repositories.RegistrationFilters {
	filters := repositories.RegistrationFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.RegistrationStatus(raw)
		if models.ValidRegistrationStatus(status) {
			filters.Status = &status
		}
	}

	return filters
}

func parseExamFilters(c *gin.Context) repositories.ExamFilters {
	filters := repositories.ExamFilters{
		SortBy:    c.DefaultQuery("sort_by", "start_date"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("status"); raw != "" {
		status := models.ExamStatus(raw)
		if status == models.ExamDraft || status == models.ExamActive {
			filters.Status = &status
		}
	}

	return filters
}

func parseContentFilters(c *gin.Context) repositories.ContentFilters {
	filters := repositories.ContentFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}
	filters.Limit, filters.Offset = parsePagination(c)

	if raw := c.Query("type"); raw != "" {
		contentType := models.ContentType(raw)
		if models.ValidContentType(contentType) {
			filters.Type = &contentType
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ContentStatus(raw)
		if status == models.ContentDraft || status == models.ContentPublished {
			filters.Status = &status
		}
	}

	return filters
}

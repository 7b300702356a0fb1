package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentCourse  ContentType = "COURSE"
	ContentBlog    ContentType = "BLOG"
	ContentGallery ContentType = "GALLERY"
)

type ContentStatus string

const (
	ContentDraft     ContentStatus = "DRAFT"
	ContentPublished ContentStatus = "PUBLISHED"
)

type Content struct {
	ID      uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Type    ContentType   `json:"type" gorm:"not null;index;size:20" validate:"required,oneof=COURSE BLOG GALLERY"`
	Title   string        `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Body    string        `json:"body" gorm:"type:text;not null" validate:"required"`
	Status  ContentStatus `json:"status" gorm:"not null;default:DRAFT;index" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	Meta    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	SEOMeta datatypes.JSON `json:"seo_meta" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Content) TableName() string {
	return "contents"
}

// IsPublished reports whether the content is visible to the public listing.
func (c *Content) IsPublished() bool {
	return c.Status == ContentPublished
}

func ValidContentType(t ContentType) bool {
	switch t {
	case ContentCourse, ContentBlog, ContentGallery:
		return true
	}
	return false
}

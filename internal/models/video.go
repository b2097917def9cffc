package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is an archived sermon or recording in the public library.
type Video struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	SourceURL   string    `json:"source_url" db:"source_url"`
	YouTubeID   string    `json:"youtube_id" db:"youtube_id"`
	EmbedURL    string    `json:"embed_url" db:"-"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateVideoRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	SourceURL   string     `json:"source_url" binding:"required,url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type UpdateVideoRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	SourceURL   *string    `json:"source_url,omitempty" binding:"omitempty,url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

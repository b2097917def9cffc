package models

import (
	"time"

	"github.com/google/uuid"
)

type GalleryItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Caption     *string   `json:"caption,omitempty" db:"caption"`
	StorageKey  string    `json:"-" db:"storage_key"`
	URL         string    `json:"url" db:"url"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

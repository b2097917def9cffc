package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveVideo is a stream an admin can mark active for the watch-live overlay.
type LiveVideo struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	SourceURL string    `json:"source_url" db:"source_url"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLiveVideoRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	SourceURL string `json:"source_url" binding:"required,url"`
	IsActive  bool   `json:"is_active"`
}

type UpdateLiveVideoRequest struct {
	Title     *string `json:"title,omitempty" binding:"omitempty,max=255"`
	SourceURL *string `json:"source_url,omitempty" binding:"omitempty,url"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// Apply copies the set fields onto v.
func (r UpdateLiveVideoRequest) Apply(v *LiveVideo) {
	if r.Title != nil {
		v.Title = *r.Title
	}
	if r.SourceURL != nil {
		v.SourceURL = *r.SourceURL
	}
	if r.IsActive != nil {
		v.IsActive = *r.IsActive
	}
}

// LiveEmbed is the playable reference handed to the watch-live overlay.
type LiveEmbed struct {
	LiveVideoID uuid.UUID `json:"live_video_id"`
	Title       string    `json:"title"`
	VideoID     string    `json:"video_id"`
	EmbedURL    string    `json:"embed_url"`
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Location    *string    `json:"location,omitempty" db:"location"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	ImageURL    *string    `json:"image_url,omitempty" db:"image_url"`
	Published   bool       `json:"published" db:"published"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks the event's time range
func (e *Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.StartsAt.IsZero() {
		return fmt.Errorf("starts_at is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("ends_at must not be before starts_at")
	}
	return nil
}

type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty" binding:"omitempty,url"`
	Published   bool       `json:"published"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty" binding:"omitempty,url"`
	Published   *bool      `json:"published,omitempty"`
}

// Apply copies the set fields onto e.
func (r UpdateEventRequest) Apply(e *Event) {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Description != nil {
		e.Description = r.Description
	}
	if r.Location != nil {
		e.Location = r.Location
	}
	if r.StartsAt != nil {
		e.StartsAt = *r.StartsAt
	}
	if r.EndsAt != nil {
		e.EndsAt = r.EndsAt
	}
	if r.ImageURL != nil {
		e.ImageURL = r.ImageURL
	}
	if r.Published != nil {
		e.Published = *r.Published
	}
}

package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
)

// The store interfaces are satisfied by both the postgres repositories and
// the in-memory stores.

type UserStore interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	SetRole(id uuid.UUID, role string) error
	List() ([]models.User, error)
}

type EventStore interface {
	Create(e *models.Event) error
	GetByID(id uuid.UUID) (*models.Event, error)
	ListUpcoming(from time.Time, limit int) ([]models.Event, error)
	ListAll() ([]models.Event, error)
	Update(e *models.Event) error
	Delete(id uuid.UUID) error
}

type DonationStore interface {
	Create(d *models.Donation) error
	List(limit, offset int) ([]models.Donation, error)
	Summary() ([]models.DonationSummary, error)
}

type GalleryStore interface {
	Create(item *models.GalleryItem) error
	GetByID(id uuid.UUID) (*models.GalleryItem, error)
	List(limit int) ([]models.GalleryItem, error)
	Delete(id uuid.UUID) error
}

type VideoStore interface {
	Create(v *models.Video) error
	GetByID(id uuid.UUID) (*models.Video, error)
	List(limit int) ([]models.Video, error)
	Update(v *models.Video) error
	Delete(id uuid.UUID) error
}

type LiveVideoStore interface {
	Create(v *models.LiveVideo) error
	GetByID(id uuid.UUID) (*models.LiveVideo, error)
	ListLiveVideos() ([]models.LiveVideo, error)
	Update(v *models.LiveVideo) error
	Delete(id uuid.UUID) error
}

type ContactStore interface {
	Create(m *models.ContactMessage) error
	List(unhandledOnly bool, limit int) ([]models.ContactMessage, error)
	MarkHandled(id uuid.UUID) error
}

// LiveService is satisfied by *live.Service.
type LiveService interface {
	Records(ctx context.Context) ([]models.LiveVideo, error)
	Current(ctx context.Context) (*models.LiveEmbed, error)
	Changed(ctx context.Context) error
}

// Throttle limits repeated actions per subject, e.g. login attempts per email.
type Throttle interface {
	Allow(subject string) (bool, error)
}

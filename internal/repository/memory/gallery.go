package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

type GalleryStore struct {
	mu    sync.RWMutex
	items []models.GalleryItem
}

func NewGalleryStore() *GalleryStore {
	return &GalleryStore{}
}

func (s *GalleryStore) Create(item *models.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	stamp(&item.CreatedAt, nil)
	s.items = append(s.items, *item)
	return nil
}

func (s *GalleryStore) GetByID(id uuid.UUID) (*models.GalleryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *GalleryStore) List(limit int) ([]models.GalleryItem, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GalleryItem, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *GalleryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

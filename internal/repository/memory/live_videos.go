package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

// LiveVideoStore keeps records in insertion order, which is the collection
// order the live resolver walks.
type LiveVideoStore struct {
	mu     sync.RWMutex
	videos []models.LiveVideo
}

func NewLiveVideoStore() *LiveVideoStore {
	return &LiveVideoStore{}
}

func (s *LiveVideoStore) Create(v *models.LiveVideo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	stamp(&v.CreatedAt, &v.UpdatedAt)
	s.videos = append(s.videos, *v)
	return nil
}

func (s *LiveVideoStore) GetByID(id uuid.UUID) (*models.LiveVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.videos {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *LiveVideoStore) ListLiveVideos() ([]models.LiveVideo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LiveVideo, len(s.videos))
	copy(out, s.videos)
	return out, nil
}

func (s *LiveVideoStore) Update(v *models.LiveVideo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.videos {
		if cur.ID == v.ID {
			v.CreatedAt = cur.CreatedAt
			v.UpdatedAt = time.Now()
			s.videos[i] = *v
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *LiveVideoStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, v := range s.videos {
		if v.ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

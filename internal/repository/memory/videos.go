package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

type VideoStore struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]models.Video
}

func NewVideoStore() *VideoStore {
	return &VideoStore{videos: make(map[uuid.UUID]models.Video)}
}

func (s *VideoStore) Create(v *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	stamp(&v.CreatedAt, &v.UpdatedAt)
	if v.PublishedAt.IsZero() {
		v.PublishedAt = v.CreatedAt
	}
	s.videos[v.ID] = *v
	return nil
}

func (s *VideoStore) GetByID(id uuid.UUID) (*models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (s *VideoStore) List(limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Video, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *VideoStore) Update(v *models.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.videos[v.ID]
	if !ok {
		return repository.ErrNotFound
	}
	v.CreatedAt = cur.CreatedAt
	v.UpdatedAt = time.Now()
	s.videos[v.ID] = *v
	return nil
}

func (s *VideoStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

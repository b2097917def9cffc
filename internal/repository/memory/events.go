package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

type EventStore struct {
	mu     sync.RWMutex
	events map[uuid.UUID]models.Event
}

func NewEventStore() *EventStore {
	return &EventStore{events: make(map[uuid.UUID]models.Event)}
}

func (s *EventStore) Create(e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	stamp(&e.CreatedAt, &e.UpdatedAt)
	s.events[e.ID] = *e
	return nil
}

func (s *EventStore) GetByID(id uuid.UUID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *EventStore) ListUpcoming(from time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Event{}
	for _, e := range s.events {
		end := e.StartsAt
		if e.EndsAt != nil {
			end = *e.EndsAt
		}
		if e.Published && !end.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *EventStore) ListAll() ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out, nil
}

func (s *EventStore) Update(e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.events[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = time.Now()
	s.events[e.ID] = *e
	return nil
}

func (s *EventStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

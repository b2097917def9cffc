package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

type ContactStore struct {
	mu       sync.RWMutex
	messages []models.ContactMessage
}

func NewContactStore() *ContactStore {
	return &ContactStore{}
}

func (s *ContactStore) Create(m *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	stamp(&m.CreatedAt, nil)
	s.messages = append(s.messages, *m)
	return nil
}

func (s *ContactStore) List(unhandledOnly bool, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ContactMessage{}
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if unhandledOnly && s.messages[i].Handled {
			continue
		}
		out = append(out, s.messages[i])
	}
	return out, nil
}

func (s *ContactStore) MarkHandled(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Handled = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// Package memory holds mutex-guarded in-process stores with the same
// behaviour as the postgres repositories. They back DB_DRIVER=memory and
// the handler tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *UserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return repository.ErrConflict
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)

	s.users[user.ID] = *user
	s.byEmail[key] = user.ID
	return nil
}

func (s *UserStore) GetByID(id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *UserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.DisplayName = user.DisplayName
	cur.AvatarURL = user.AvatarURL
	cur.UpdatedAt = time.Now()
	s.users[user.ID] = cur
	user.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *UserStore) SetRole(id uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Role = role
	cur.UpdatedAt = time.Now()
	s.users[id] = cur
	return nil
}

func (s *UserStore) List() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	if updated != nil && updated.IsZero() {
		*updated = now
	}
}

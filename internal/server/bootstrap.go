package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/handlers"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

// EnsureAdmin makes sure email belongs to an admin. A missing account is
// created with password; an existing one is promoted and keeps its password.
func EnsureAdmin(users handlers.UserStore, email, password, displayName string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.GetByEmail(email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return false, nil
		}
		if err := users.SetRole(existing.ID, models.RoleAdmin); err != nil {
			return false, fmt.Errorf("failed to promote %s: %w", email, err)
		}
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := user.Validate(); err != nil {
		return false, err
	}
	if err := users.Create(user); err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}

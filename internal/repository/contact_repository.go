package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

type ContactRepository struct {
	db *database.DB
}

func NewContactRepository(db *database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(m *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, body, handled, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query, m.ID, m.Name, m.Email, m.Subject, m.Body, m.Handled, m.CreatedAt).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List returns messages newest first; unhandledOnly filters out handled ones
func (r *ContactRepository) List(unhandledOnly bool, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, name, email, subject, body, handled, created_at
		FROM contact_messages
		WHERE NOT $1 OR NOT handled
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, unhandledOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	out := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Handled, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ContactRepository) MarkHandled(id uuid.UUID) error {
	result, err := r.db.Exec(`UPDATE contact_messages SET handled = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact message handled: %w", err)
	}
	return expectOneRow(result)
}

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

const eventColumns = `id, title, description, location, starts_at, ends_at, image_url, published, created_at, updated_at`

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.Event) error {
	query := `
		INSERT INTO events (id, title, description, location, starts_at, ends_at, image_url, published, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		e.ID,
		e.Title,
		e.Description,
		e.Location,
		e.StartsAt,
		e.EndsAt,
		e.ImageURL,
		e.Published,
		e.CreatedAt,
		e.UpdatedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(id uuid.UUID) (*models.Event, error) {
	rows, err := r.db.Query(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return &events[0], nil
}

// ListUpcoming returns published events ending (or starting) after from, soonest first
func (r *EventRepository) ListUpcoming(from time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE published AND COALESCE(ends_at, starts_at) >= $1
		ORDER BY starts_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scanEvents(rows)
}

// ListAll returns every event for the back-office, newest first
func (r *EventRepository) ListAll() ([]models.Event, error) {
	rows, err := r.db.Query(`SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scanEvents(rows)
}

func (r *EventRepository) Update(e *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5,
			image_url = $6, published = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.ImageURL, e.Published, e.ID).Scan(&e.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *EventRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectOneRow(result)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.ImageURL, &e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

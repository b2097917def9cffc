package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

type LiveVideoRepository struct {
	db *database.DB
}

func NewLiveVideoRepository(db *database.DB) *LiveVideoRepository {
	return &LiveVideoRepository{db: db}
}

func (r *LiveVideoRepository) Create(v *models.LiveVideo) error {
	query := `
		INSERT INTO live_videos (id, title, source_url, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query, v.ID, v.Title, v.SourceURL, v.IsActive, v.CreatedAt, v.UpdatedAt).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create live video: %w", err)
	}
	return nil
}

func (r *LiveVideoRepository) GetByID(id uuid.UUID) (*models.LiveVideo, error) {
	query := `SELECT id, title, source_url, is_active, created_at, updated_at FROM live_videos WHERE id = $1`
	v := &models.LiveVideo{}
	err := r.db.QueryRow(query, id).Scan(&v.ID, &v.Title, &v.SourceURL, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get live video: %w", err)
	}
	return v, nil
}

// ListLiveVideos returns all records in collection order (oldest first).
// The live resolver relies on this order to pick the first active record.
func (r *LiveVideoRepository) ListLiveVideos() ([]models.LiveVideo, error) {
	query := `
		SELECT id, title, source_url, is_active, created_at, updated_at
		FROM live_videos ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list live videos: %w", err)
	}
	defer rows.Close()

	out := []models.LiveVideo{}
	for rows.Next() {
		var v models.LiveVideo
		if err := rows.Scan(&v.ID, &v.Title, &v.SourceURL, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan live video: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *LiveVideoRepository) Update(v *models.LiveVideo) error {
	query := `
		UPDATE live_videos
		SET title = $1, source_url = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, v.Title, v.SourceURL, v.IsActive, v.ID).Scan(&v.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update live video: %w", err)
	}
	return nil
}

func (r *LiveVideoRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM live_videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete live video: %w", err)
	}
	return expectOneRow(result)
}

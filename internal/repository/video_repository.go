package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

const videoColumns = `id, title, description, source_url, youtube_id, published_at, created_at, updated_at`

type VideoRepository struct {
	db *database.DB
}

func NewVideoRepository(db *database.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(v *models.Video) error {
	query := `
		INSERT INTO videos (id, title, description, source_url, youtube_id, published_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(query,
		v.ID,
		v.Title,
		v.Description,
		v.SourceURL,
		v.YouTubeID,
		v.PublishedAt,
		v.CreatedAt,
		v.UpdatedAt,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(id uuid.UUID) (*models.Video, error) {
	v := &models.Video{}
	err := r.db.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id).Scan(
		&v.ID, &v.Title, &v.Description, &v.SourceURL, &v.YouTubeID, &v.PublishedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return v, nil
}

// List returns videos, most recently published first
func (r *VideoRepository) List(limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(`SELECT `+videoColumns+` FROM videos ORDER BY published_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	out := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.SourceURL, &v.YouTubeID, &v.PublishedAt, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoRepository) Update(v *models.Video) error {
	query := `
		UPDATE videos
		SET title = $1, description = $2, source_url = $3, youtube_id = $4, published_at = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, v.Title, v.Description, v.SourceURL, v.YouTubeID, v.PublishedAt, v.ID).Scan(&v.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *VideoRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return expectOneRow(result)
}

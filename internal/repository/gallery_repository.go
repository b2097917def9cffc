package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

type GalleryRepository struct {
	db *database.DB
}

func NewGalleryRepository(db *database.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) Create(item *models.GalleryItem) error {
	query := `
		INSERT INTO gallery_items (id, title, caption, storage_key, url, content_type, size_bytes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query,
		item.ID,
		item.Title,
		item.Caption,
		item.StorageKey,
		item.URL,
		item.ContentType,
		item.SizeBytes,
		item.CreatedAt,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gallery item: %w", err)
	}
	return nil
}

func (r *GalleryRepository) GetByID(id uuid.UUID) (*models.GalleryItem, error) {
	query := `
		SELECT id, title, caption, storage_key, url, content_type, size_bytes, created_at
		FROM gallery_items WHERE id = $1
	`
	item := &models.GalleryItem{}
	err := r.db.QueryRow(query, id).Scan(&item.ID, &item.Title, &item.Caption, &item.StorageKey, &item.URL, &item.ContentType, &item.SizeBytes, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gallery item: %w", err)
	}
	return item, nil
}

// List returns gallery items newest first
func (r *GalleryRepository) List(limit int) ([]models.GalleryItem, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, title, caption, storage_key, url, content_type, size_bytes, created_at
		FROM gallery_items ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	defer rows.Close()

	out := []models.GalleryItem{}
	for rows.Next() {
		var item models.GalleryItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Caption, &item.StorageKey, &item.URL, &item.ContentType, &item.SizeBytes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *GalleryRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gallery item: %w", err)
	}
	return expectOneRow(result)
}

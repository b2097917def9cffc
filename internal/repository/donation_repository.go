package repository

import (
	"fmt"

	"github.com/sanctuary/backend/internal/database"
	"github.com/sanctuary/backend/internal/models"
)

type DonationRepository struct {
	db *database.DB
}

func NewDonationRepository(db *database.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) Create(d *models.Donation) error {
	query := `
		INSERT INTO donations (id, donor_name, email, amount_cents, currency, fund, message, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(query,
		d.ID,
		d.DonorName,
		d.Email,
		d.AmountCents,
		d.Currency,
		d.Fund,
		d.Message,
		d.Status,
		d.CreatedAt,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

// List returns donations newest first
func (r *DonationRepository) List(limit, offset int) ([]models.Donation, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, donor_name, email, amount_cents, currency, fund, message, status, created_at
		FROM donations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	out := []models.Donation{}
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Email, &d.AmountCents, &d.Currency, &d.Fund, &d.Message, &d.Status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Summary totals pledges per currency
func (r *DonationRepository) Summary() ([]models.DonationSummary, error) {
	rows, err := r.db.Query(`
		SELECT currency, COALESCE(SUM(amount_cents), 0), COUNT(*)
		FROM donations
		GROUP BY currency
		ORDER BY currency
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize donations: %w", err)
	}
	defer rows.Close()

	out := []models.DonationSummary{}
	for rows.Next() {
		var s models.DonationSummary
		if err := rows.Scan(&s.Currency, &s.TotalCents, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

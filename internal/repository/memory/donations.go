package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
)

type DonationStore struct {
	mu        sync.RWMutex
	donations []models.Donation
}

func NewDonationStore() *DonationStore {
	return &DonationStore{}
}

func (s *DonationStore) Create(d *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	stamp(&d.CreatedAt, nil)
	s.donations = append(s.donations, *d)
	return nil
}

func (s *DonationStore) List(limit, offset int) ([]models.Donation, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Donation, 0, len(s.donations))
	for i := len(s.donations) - 1; i >= 0; i-- {
		out = append(out, s.donations[i])
	}
	if offset >= len(out) {
		return []models.Donation{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *DonationStore) Summary() ([]models.DonationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]*models.DonationSummary)
	for _, d := range s.donations {
		sum, ok := totals[d.Currency]
		if !ok {
			sum = &models.DonationSummary{Currency: d.Currency}
			totals[d.Currency] = sum
		}
		sum.TotalCents += d.AmountCents
		sum.Count++
	}

	out := make([]models.DonationSummary, 0, len(totals))
	for _, sum := range totals {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

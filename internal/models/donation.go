package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Donation funds
const (
	FundGeneral  = "general"
	FundBuilding = "building"
	FundMissions = "missions"
	FundCharity  = "charity"
)

const DonationStatusPledged = "pledged"

type Donation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DonorName   string    `json:"donor_name" db:"donor_name"`
	Email       string    `json:"email" db:"email"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	Currency    string    `json:"currency" db:"currency"`
	Fund        string    `json:"fund" db:"fund"`
	Message     *string   `json:"message,omitempty" db:"message"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateDonationRequest struct {
	DonorName   string  `json:"donor_name" binding:"required,max=255"`
	Email       string  `json:"email" binding:"required,email"`
	AmountCents int64   `json:"amount_cents" binding:"required,gt=0"`
	Currency    string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	Fund        string  `json:"fund,omitempty" binding:"omitempty,oneof=general building missions charity"`
	Message     *string `json:"message,omitempty" binding:"omitempty,max=2000"`
}

// Normalize fills defaults and validates the amount
func (d *Donation) Normalize() error {
	if d.AmountCents <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	d.Currency = strings.ToUpper(d.Currency)
	if d.Fund == "" {
		d.Fund = FundGeneral
	}
	if d.Status == "" {
		d.Status = DonationStatusPledged
	}
	return nil
}

// DonationSummary totals pledges per currency for the admin dashboard.
type DonationSummary struct {
	Currency   string `json:"currency"`
	TotalCents int64  `json:"total_cents"`
	Count      int    `json:"count"`
}

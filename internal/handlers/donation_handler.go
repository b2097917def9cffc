package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

type DonationHandler struct {
	donationRepo DonationStore
}

func NewDonationHandler(donationRepo DonationStore) *DonationHandler {
	return &DonationHandler{donationRepo: donationRepo}
}

// CreateDonation records a pledge. Payment is collected offline.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req models.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	d := &models.Donation{
		ID:          uuid.New(),
		DonorName:   req.DonorName,
		Email:       req.Email,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Fund:        req.Fund,
		Message:     req.Message,
	}
	if err := d.Normalize(); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.donationRepo.Create(d); err != nil {
		storeError(c, err, "Donation not found", "Failed to record donation")
		return
	}

	logger := applog.Ctx(c.Request.Context())
	logger.Info().
		Str("donation_id", d.ID.String()).
		Int64("amount_cents", d.AmountCents).
		Str("currency", d.Currency).
		Str("fund", d.Fund).
		Msg("donation pledged")

	c.JSON(http.StatusCreated, d)
}

// ListDonations returns pledges and per-currency totals for the back-office
func (h *DonationHandler) ListDonations(c *gin.Context) {
	limit := queryInt(c, "limit", 50, 200)
	offset := queryInt(c, "offset", 0, 1<<20)

	donations, err := h.donationRepo.List(limit, offset)
	if err != nil {
		storeError(c, err, "Donation not found", "Failed to list donations")
		return
	}
	summary, err := h.donationRepo.Summary()
	if err != nil {
		storeError(c, err, "Donation not found", "Failed to summarize donations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations, "summary": summary})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
)

// DepositHandler handles user-facing deposit requests.
type DepositHandler struct {
	depositService  services.DepositServicer
	settingsService services.SettingsServicer
	ledgerService   services.LedgerServicer
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositService services.DepositServicer, settingsService services.SettingsServicer, ledgerService services.LedgerServicer) *DepositHandler {
	return &DepositHandler{depositService: depositService, settingsService: settingsService, ledgerService: ledgerService}
}

// RequestDepositRequest represents the deposit submission payload.
type RequestDepositRequest struct {
	Asset       string `json:"asset" binding:"required,asset"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Reference   string `json:"reference" binding:"max=120"`
	Note        string `json:"note" binding:"max=500"`
}

// RequestDeposit submits a pending deposit for admin review.
// @Summary     Request deposit
// @Tags        deposits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RequestDepositRequest true "Deposit details"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} ErrorResponse
// @Router      /deposits [post]
func (h *DepositHandler) RequestDeposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RequestDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deposit, err := h.depositService.RequestDeposit(userID, req.Asset, req.AmountCents, req.Reference, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deposit)
}

// GetDepositAddresses returns the platform deposit destinations.
// @Summary     Deposit addresses
// @Tags        deposits
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.DepositAddress
// @Router      /deposits/addresses [get]
func (h *DepositHandler) GetDepositAddresses(c *gin.Context) {
	addresses, err := h.settingsService.ListDepositAddresses()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// GetUserTransactions lists the user's ledger entries.
// @Summary     List transactions
// @Tags        deposits
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "Filter by entry type"
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Router      /transactions [get]
func (h *DepositHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filterQuery struct {
		Type   string `form:"type" binding:"omitempty,transaction_type"`
		Status string `form:"status" binding:"omitempty,transaction_status"`
	}
	if err := c.ShouldBindQuery(&filterQuery); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if filterQuery.Type != "" {
		t := models.TransactionType(filterQuery.Type)
		filter.Type = &t
	}
	if filterQuery.Status != "" {
		s := models.TransactionStatus(filterQuery.Status)
		filter.Status = &s
	}

	result, err := h.ledgerService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

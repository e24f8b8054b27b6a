package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
)

// AdminHandler groups the review and operations endpoints.
type AdminHandler struct {
	depositService    services.DepositServicer
	withdrawalService services.WithdrawalServicer
	ledgerService     services.LedgerServicer
	settingsService   services.SettingsServicer
	accrualService    services.AccrualServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	depositService services.DepositServicer,
	withdrawalService services.WithdrawalServicer,
	ledgerService services.LedgerServicer,
	settingsService services.SettingsServicer,
	accrualService services.AccrualServicer,
) *AdminHandler {
	return &AdminHandler{
		depositService:    depositService,
		withdrawalService: withdrawalService,
		ledgerService:     ledgerService,
		settingsService:   settingsService,
		accrualService:    accrualService,
	}
}

// ListPendingDeposits returns the deposit review queue.
// @Summary     Pending deposits
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Router      /admin/deposits/pending [get]
func (h *AdminHandler) ListPendingDeposits(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.depositService.ListPendingDeposits(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApproveDeposit completes a pending deposit, crediting the user.
// @Summary     Approve deposit
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deposit transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Router      /admin/deposits/{id}/approve [post]
func (h *AdminHandler) ApproveDeposit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deposit, err := h.depositService.ApproveDeposit(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deposit)
}

// ReviewNoteRequest carries an optional reason for a rejection.
type ReviewNoteRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RejectDeposit marks a pending deposit as failed.
// @Summary     Reject deposit
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deposit transaction ID"
// @Param       request body ReviewNoteRequest false "Rejection reason"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Router      /admin/deposits/{id}/reject [post]
func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReviewNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deposit, err := h.depositService.RejectDeposit(id, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deposit)
}

// ListPendingWithdrawals returns the withdrawal review queue.
// @Summary     Pending withdrawals
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.Withdrawal]
// @Router      /admin/withdrawals/pending [get]
func (h *AdminHandler) ListPendingWithdrawals(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.withdrawalService.ListPendingWithdrawals(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApproveWithdrawal approves a pending withdrawal and debits the user.
// @Summary     Approve withdrawal
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdrawal ID"
// @Success     200 {object} models.Withdrawal
// @Failure     404 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Failure     422 {object} ErrorResponse
// @Router      /admin/withdrawals/{id}/approve [post]
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	withdrawal, err := h.withdrawalService.ApproveWithdrawal(id, reviewerID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// RejectWithdrawal rejects a pending withdrawal; no balance is touched.
// @Summary     Reject withdrawal
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdrawal ID"
// @Param       request body ReviewNoteRequest false "Rejection reason"
// @Success     200 {object} models.Withdrawal
// @Failure     404 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Router      /admin/withdrawals/{id}/reject [post]
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReviewNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	withdrawal, err := h.withdrawalService.RejectWithdrawal(id, reviewerID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

// AdjustBalanceRequest represents a direct admin balance adjustment.
type AdjustBalanceRequest struct {
	Action      string `json:"action" binding:"required,adjust_action"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

// AdjustBalance applies a direct credit or debit to a user's balance.
// @Summary     Adjust user balance
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Param       request body AdjustBalanceRequest true "Adjustment"
// @Success     200 {object} models.User
// @Failure     404 {object} ErrorResponse
// @Failure     422 {object} ErrorResponse
// @Router      /admin/users/{id}/balance [post]
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.ledgerService.AdjustBalance(id, services.AdjustAction(req.Action), req.AmountCents)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ReconcileBalance recomputes a user's balance from their ledger.
// @Summary     Reconcile user balance
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} services.ReconciliationReport
// @Failure     404 {object} ErrorResponse
// @Router      /admin/users/{id}/reconcile [get]
func (h *AdminHandler) ReconcileBalance(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.ledgerService.ReconcileBalance(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpdateSettingsRequest carries new referral commission rates.
type UpdateSettingsRequest struct {
	Level1Bps int64 `json:"level1_bps" binding:"min=0,max=10000"`
	Level2Bps int64 `json:"level2_bps" binding:"min=0,max=10000"`
}

// GetSettings returns the current platform settings.
// @Summary     Get settings
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Settings
// @Router      /admin/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings updates referral commission rates.
// @Summary     Update settings
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "New rates"
// @Success     200 {object} models.Settings
// @Failure     400 {object} ErrorResponse
// @Router      /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.Update(req.Level1Bps, req.Level2Bps)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RunAccrual triggers one accrual pass over all active investments.
// @Summary     Run accrual pass
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.AccrualReport
// @Router      /admin/accrual/run [post]
func (h *AdminHandler) RunAccrual(c *gin.Context) {
	report, err := h.accrualService.RunAccrualPass(time.Now().UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

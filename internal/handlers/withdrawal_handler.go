package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
)

// WithdrawalHandler handles user-facing withdrawal requests.
type WithdrawalHandler struct {
	withdrawalService services.WithdrawalServicer
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalService services.WithdrawalServicer) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// RequestWithdrawalRequest represents the withdrawal submission payload.
type RequestWithdrawalRequest struct {
	Asset       string `json:"asset" binding:"required,asset"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Network     string `json:"network" binding:"max=40"`
}

// RequestWithdrawal submits a pending withdrawal against the user's saved address.
// @Summary     Request withdrawal
// @Tags        withdrawals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RequestWithdrawalRequest true "Withdrawal details"
// @Success     201 {object} models.Withdrawal
// @Failure     400 {object} ErrorResponse
// @Failure     422 {object} ErrorResponse
// @Router      /withdrawals [post]
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RequestWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(userID, req.Asset, req.AmountCents, req.Network)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// GetUserWithdrawals lists the user's withdrawal requests.
// @Summary     List withdrawals
// @Tags        withdrawals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.Withdrawal]
// @Router      /withdrawals [get]
func (h *WithdrawalHandler) GetUserWithdrawals(c *gin.Context) {
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

	result, err := h.withdrawalService.GetUserWithdrawals(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
)

// ReferralHandler exposes the user's referral earnings.
type ReferralHandler struct {
	referralService services.ReferralServicer
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referralService services.ReferralServicer) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetUserEarnings lists commissions credited to the user.
// @Summary     List referral earnings
// @Tags        referrals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.ReferralEarning]
// @Router      /referrals/earnings [get]
func (h *ReferralHandler) GetUserEarnings(c *gin.Context) {
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

	result, err := h.referralService.GetUserEarnings(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

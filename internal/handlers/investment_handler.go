package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/pagination"
	"yieldvault/internal/services"
)

// InvestmentHandler handles plan and investment requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	planService       services.PlanServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, planService services.PlanServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, planService: planService}
}

// OpenInvestmentRequest represents the allocation payload.
type OpenInvestmentRequest struct {
	Plan        string `json:"plan" binding:"required,min=1,max=100"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
}

// ListPlans returns the active plan catalog.
// @Summary     List plans
// @Tags        investments
// @Produce     json
// @Success     200 {array} models.Plan
// @Router      /plans [get]
func (h *InvestmentHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListActivePlans()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// OpenInvestment allocates balance into a plan.
// @Summary     Open investment
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OpenInvestmentRequest true "Allocation details"
// @Success     201 {object} models.Investment
// @Failure     400 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Router      /investments [post]
func (h *InvestmentHandler) OpenInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OpenInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.OpenInvestment(userID, req.Plan, req.AmountCents)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, investment)
}

// GetUserInvestments lists the user's investments.
// @Summary     List investments
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.Investment]
// @Router      /investments [get]
func (h *InvestmentHandler) GetUserInvestments(c *gin.Context) {
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

	result, err := h.investmentService.GetUserInvestments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestmentByID returns one of the user's investments.
// @Summary     Get investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment
// @Failure     404 {object} ErrorResponse
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestmentByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.GetInvestmentByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, investment)
}

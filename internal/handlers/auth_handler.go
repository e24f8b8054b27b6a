package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/middleware"
	"yieldvault/internal/services"
)

// AuthHandler handles registration, login, and profile requests.
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=16"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an access/refresh token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register handles user registration, optionally linking the new account
// under a sponsor's referral code.
// @Summary     Register
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration details"
// @Success     201 {object} models.User
// @Failure     400 {object} ErrorResponse
// @Failure     409 {object} ErrorResponse
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Register(req.Email, req.Password, req.FirstName, req.LastName, req.ReferralCode)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login authenticates a user and issues a token pair.
// @Summary     Login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     200 {object} TokenResponse
// @Failure     401 {object} ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair.
// @Summary     Refresh tokens
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} TokenResponse
// @Failure     401 {object} ErrorResponse
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// GetProfile returns the authenticated user's account.
// @Summary     Profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User
// @Failure     401 {object} ErrorResponse
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SaveWalletAddressRequest represents the saved-address payload.
type SaveWalletAddressRequest struct {
	Asset   string `json:"asset" binding:"required,asset"`
	Network string `json:"network" binding:"max=30"`
	Address string `json:"address" binding:"required,max=120"`
	Label   string `json:"label" binding:"max=60"`
}

// SaveWalletAddress records a payout destination for the user.
// @Summary     Save wallet address
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveWalletAddressRequest true "Address details"
// @Success     200 {object} models.WalletAddress
// @Failure     400 {object} ErrorResponse
// @Router      /profile/wallet-addresses [post]
func (h *AuthHandler) SaveWalletAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveWalletAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	address, err := h.userService.SaveWalletAddress(userID, req.Asset, req.Network, req.Address, req.Label)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

// GetWalletAddresses lists the user's saved payout destinations.
// @Summary     List wallet addresses
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.WalletAddress
// @Router      /profile/wallet-addresses [get]
func (h *AuthHandler) GetWalletAddresses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	addresses, err := h.userService.GetWalletAddresses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, addresses)
}

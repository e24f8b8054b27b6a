// Package errors provides the structured error type used across the
// service layer. Every service returns an *AppError so handlers can map
// failures to consistent responses without leaking internals to clients.
package errors

import "net/http"

// AppError is a structured application error carrying a stable machine
// code, a human-readable message, the HTTP status to answer with, and an
// optional wrapped internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as its cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a more specific message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound        = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail      = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidReferralCode = &AppError{Code: "INVALID_REFERRAL_CODE", Message: "Referral code does not match any user", StatusCode: http.StatusBadRequest}
)

// Ledger errors.
var (
	ErrInsufficientBalance = &AppError{Code: "INSUFFICIENT_BALANCE", Message: "Insufficient balance", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Plan & investment errors.
var (
	ErrPlanNotFound       = &AppError{Code: "PLAN_NOT_FOUND", Message: "No such plan", StatusCode: http.StatusNotFound}
	ErrPlanInactive       = &AppError{Code: "PLAN_INACTIVE", Message: "This plan is no longer open for investment", StatusCode: http.StatusBadRequest}
	ErrAmountBelowMinimum = &AppError{Code: "AMOUNT_BELOW_MINIMUM", Message: "Amount is below the plan minimum", StatusCode: http.StatusBadRequest}
	ErrAmountAboveMaximum = &AppError{Code: "AMOUNT_ABOVE_MAXIMUM", Message: "Amount is above the plan maximum", StatusCode: http.StatusBadRequest}
	ErrPlanAlreadyUsed    = &AppError{Code: "PLAN_ALREADY_USED", Message: "You have already invested in this plan", StatusCode: http.StatusConflict}
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
)

// Deposit errors.
var (
	ErrDepositNotFound   = &AppError{Code: "DEPOSIT_NOT_FOUND", Message: "Deposit not found", StatusCode: http.StatusNotFound}
	ErrDepositNotPending = &AppError{Code: "DEPOSIT_NOT_PENDING", Message: "Deposit has already been reviewed", StatusCode: http.StatusConflict}
)

// Withdrawal errors.
var (
	ErrWithdrawalNotFound           = &AppError{Code: "WITHDRAWAL_NOT_FOUND", Message: "Withdrawal not found", StatusCode: http.StatusNotFound}
	ErrWithdrawalNotPending         = &AppError{Code: "WITHDRAWAL_NOT_PENDING", Message: "Withdrawal has already been reviewed", StatusCode: http.StatusConflict}
	ErrInsufficientAvailableBalance = &AppError{Code: "INSUFFICIENT_AVAILABLE_BALANCE", Message: "Amount exceeds balance available after pending withdrawals", StatusCode: http.StatusBadRequest}
	ErrNoSavedAddress               = &AppError{Code: "NO_SAVED_ADDRESS", Message: "No saved wallet address for this asset", StatusCode: http.StatusBadRequest}
	ErrUnsupportedAsset             = &AppError{Code: "UNSUPPORTED_ASSET", Message: "Asset is not supported", StatusCode: http.StatusBadRequest}
)

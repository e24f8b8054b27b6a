// Package validator registers custom validation tags with Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"yieldvault/internal/models"
)

// Register wires all custom validators into the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset", validateAsset)
		_ = v.RegisterValidation("adjust_action", validateAdjustAction)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_status", validateTransactionStatus)
	}
}

func validateAsset(fl validator.FieldLevel) bool {
	return models.AssetSupported(fl.Field().String())
}

func validateAdjustAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdraw":
		return true
	}
	return false
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeDeposit,
		models.TransactionTypeWithdrawal,
		models.TransactionTypeInvestment,
		models.TransactionTypeInvestmentReturn,
		models.TransactionTypeReferralEarning:
		return true
	}
	return false
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	switch models.TransactionStatus(fl.Field().String()) {
	case models.TransactionStatusPending,
		models.TransactionStatusCompleted,
		models.TransactionStatusFailed,
		models.TransactionStatusCancelled:
		return true
	}
	return false
}

package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/pagination"
)

// ledgerService is the account balance invariant guard.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// ApplyBalanceDelta moves a user's balance by deltaCents inside tx and
// records the paired audit row. The mutation is a single guarded SQL
// increment, never a read-modify-write, so concurrent credits to the
// same user serialize at the storage layer and increments are never
// lost. A debit that would take the balance below zero matches no row
// and fails with InsufficientBalance.
func (s *ledgerService) ApplyBalanceDelta(tx *gorm.DB, userID string, deltaCents int64, entry *models.Transaction) error {
	if deltaCents == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidAmount, "balance delta must be non-zero")
	}

	q := tx.Model(&models.User{}).Where("id = ?", userID)
	if deltaCents < 0 {
		q = q.Where("balance_cents >= ?", -deltaCents)
	}

	res := q.Update("balance_cents", gorm.Expr("balance_cents + ?", deltaCents))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrInsufficientBalance
	}

	if entry != nil {
		entry.UserID = userID
		if entry.Status == "" {
			entry.Status = models.TransactionStatusCompleted
		}
		if entry.Asset == "" {
			entry.Asset = "USD"
		}
		if err := tx.Create(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}

// AdjustBalance applies a direct admin credit or debit with an
// admin-tagged ledger entry. Adjustments never trigger referral
// commissions.
func (s *ledgerService) AdjustBalance(userID string, action AdjustAction, amountCents int64) (*models.User, error) {
	if amountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var delta int64
	var entryType models.TransactionType
	switch action {
	case AdjustActionDeposit:
		delta = amountCents
		entryType = models.TransactionTypeDeposit
	case AdjustActionWithdraw:
		delta = -amountCents
		entryType = models.TransactionTypeWithdrawal
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown adjustment action")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.ApplyBalanceDelta(tx, userID, delta, &models.Transaction{
			Type:        entryType,
			AmountCents: amountCents,
			Status:      models.TransactionStatusCompleted,
			Meta:        "admin adjustment",
		})
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// debitTransactionTypes returns the entry types whose completed rows
// subtract from the balance, per TransactionType.Sign.
func debitTransactionTypes() []models.TransactionType {
	var debits []models.TransactionType
	for _, t := range models.TransactionTypes() {
		if t.Sign() < 0 {
			debits = append(debits, t)
		}
	}
	return debits
}

// ReconcileBalance recomputes a user's balance from their completed
// ledger entries, signing each amount by its type, and reports any
// drift from the cached aggregate.
func (s *ledgerService) ReconcileBalance(userID string) (*ReconciliationReport, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ledgerCents int64
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(CASE WHEN type IN ? THEN -amount_cents ELSE amount_cents END), 0)", debitTransactionTypes()).
		Scan(&ledgerCents).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ReconciliationReport{
		UserID:       userID,
		BalanceCents: user.BalanceCents,
		LedgerCents:  ledgerCents,
		DriftCents:   user.BalanceCents - ledgerCents,
	}, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's
// ledger entries, newest first.
func (s *ledgerService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

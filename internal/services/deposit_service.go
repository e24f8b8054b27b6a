package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/notify"
	"yieldvault/internal/observability"
	"yieldvault/internal/pagination"
)

// depositService handles the deposit request/review workflow.
type depositService struct {
	db       *gorm.DB
	ledger   LedgerServicer
	referral ReferralServicer
	settings SettingsServicer
	notifier notify.Notifier
}

// NewDepositService creates a new DepositServicer.
func NewDepositService(db *gorm.DB, ledger LedgerServicer, referral ReferralServicer, settings SettingsServicer, notifier notify.Notifier) DepositServicer {
	return &depositService{db: db, ledger: ledger, referral: referral, settings: settings, notifier: notifier}
}

// RequestDeposit records a pending deposit. The balance is untouched
// until an admin approves the request.
func (s *depositService) RequestDeposit(userID, asset string, amountCents int64, reference, note string) (*models.Transaction, error) {
	if amountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if !models.AssetSupported(asset) {
		return nil, apperrors.ErrUnsupportedAsset
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	deposit := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		AmountCents: amountCents,
		Status:      models.TransactionStatusPending,
		Asset:       asset,
		Reference:   reference,
		Meta:        note,
	}
	if err := s.db.Create(deposit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return deposit, nil
}

// ApproveDeposit settles a pending deposit: the row flips to completed,
// the depositor's balance is credited, and the referral cascade runs on
// the full deposit amount, all in one commit. The completed deposit row
// itself is the audit entry for the credit.
func (s *depositService) ApproveDeposit(txID string) (*models.Transaction, error) {
	deposit, err := s.getDeposit(txID)
	if err != nil {
		return nil, err
	}
	if deposit.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrDepositNotPending
	}

	var depositor models.User
	if err := s.db.First(&depositor, "id = ?", deposit.UserID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	var credits []CommissionCredit
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", deposit.ID, models.TransactionStatusPending).
			Update("status", models.TransactionStatusCompleted)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			// Another reviewer got here first.
			return apperrors.ErrDepositNotPending
		}

		if txErr := s.ledger.ApplyBalanceDelta(tx, deposit.UserID, deposit.AmountCents, nil); txErr != nil {
			return txErr
		}

		paid, txErr := s.referral.Distribute(tx, &depositor, deposit.AmountCents, nil, settings)
		if txErr != nil {
			return txErr
		}
		credits = paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.ObserveDepositReview("approved")
	notify.Send(s.notifier, notify.Notification{
		UserID:      depositor.ID,
		Email:       depositor.Email,
		Kind:        notify.KindDepositApproved,
		AmountCents: deposit.AmountCents,
		Asset:       deposit.Asset,
		Reference:   deposit.ID,
	})
	for _, c := range credits {
		notify.Send(s.notifier, notify.Notification{
			UserID:      c.EarnerID,
			Email:       c.EarnerEmail,
			Kind:        notify.KindReferralEarning,
			AmountCents: c.AmountCents,
			Asset:       deposit.Asset,
			Reference:   deposit.ID,
		})
	}

	return s.getDeposit(txID)
}

// RejectDeposit marks a pending deposit failed and records the reason.
// The balance is never touched.
func (s *depositService) RejectDeposit(txID, reason string) (*models.Transaction, error) {
	deposit, err := s.getDeposit(txID)
	if err != nil {
		return nil, err
	}
	if deposit.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrDepositNotPending
	}

	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", deposit.ID, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status": models.TransactionStatusFailed,
			"meta":   reason,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrDepositNotPending
	}

	observability.ObserveDepositReview("rejected")

	var depositor models.User
	if err := s.db.First(&depositor, "id = ?", deposit.UserID).Error; err == nil {
		notify.Send(s.notifier, notify.Notification{
			UserID:      depositor.ID,
			Email:       depositor.Email,
			Kind:        notify.KindDepositRejected,
			AmountCents: deposit.AmountCents,
			Asset:       deposit.Asset,
			Reference:   deposit.ID,
		})
	}

	return s.getDeposit(txID)
}

// ListPendingDeposits retrieves the admin review queue, oldest first.
func (s *depositService) ListPendingDeposits(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("type = ? AND status = ?", models.TransactionTypeDeposit, models.TransactionStatusPending)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deposits []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at").
		Find(&deposits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(deposits, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *depositService) getDeposit(txID string) (*models.Transaction, error) {
	var deposit models.Transaction
	if err := s.db.Where("id = ? AND type = ?", txID, models.TransactionTypeDeposit).
		First(&deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &deposit, nil
}

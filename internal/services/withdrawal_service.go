package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/notify"
	"yieldvault/internal/observability"
	"yieldvault/internal/pagination"
)

// withdrawalService handles the withdrawal request/review workflow.
type withdrawalService struct {
	db       *gorm.DB
	ledger   LedgerServicer
	notifier notify.Notifier
}

// NewWithdrawalService creates a new WithdrawalServicer.
func NewWithdrawalService(db *gorm.DB, ledger LedgerServicer, notifier notify.Notifier) WithdrawalServicer {
	return &withdrawalService{db: db, ledger: ledger, notifier: notifier}
}

// RequestWithdrawal records a pending payout request against the user's
// saved wallet address for the asset. The request is checked against the
// available balance — the cached balance minus the user's other pending
// withdrawals — so several outstanding requests can never jointly
// overdraw the account before review. Funds leave only on approval.
func (s *withdrawalService) RequestWithdrawal(userID, asset string, amountCents int64, network string) (*models.Withdrawal, error) {
	if amountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if !models.AssetSupported(asset) {
		return nil, apperrors.ErrUnsupportedAsset
	}

	address, err := s.resolveAddress(userID, asset, network)
	if err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		UserID:        userID,
		AmountCents:   amountCents,
		Asset:         asset,
		Network:       address.Network,
		TargetAddress: address.Address,
		Status:        models.WithdrawalStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Balance and pending sum are read inside the transaction so
		// the availability decision is transactionally fresh.
		var user models.User
		if txErr := tx.First(&user, "id = ?", userID).Error; txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		var pendingCents int64
		if txErr := tx.Model(&models.Withdrawal{}).
			Where("user_id = ? AND status = ?", userID, models.WithdrawalStatusPending).
			Select("COALESCE(SUM(amount_cents), 0)").
			Scan(&pendingCents).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if amountCents > user.BalanceCents-pendingCents {
			return apperrors.ErrInsufficientAvailableBalance
		}

		if txErr := tx.Create(withdrawal).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// ApproveWithdrawal settles a pending request: the row flips to
// approved with reviewer and timestamp, and the balance is debited with
// a withdrawal-typed ledger entry, all in one commit. If the balance no
// longer covers the amount the guard fails the whole commit.
func (s *withdrawalService) ApproveWithdrawal(id, reviewerID string) (*models.Withdrawal, error) {
	withdrawal, err := s.getWithdrawal(id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, apperrors.ErrWithdrawalNotPending
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":         models.WithdrawalStatusApproved,
				"reviewed_at":    now,
				"reviewed_by_id": reviewerID,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrWithdrawalNotPending
		}

		entry := &models.Transaction{
			Type:        models.TransactionTypeWithdrawal,
			AmountCents: withdrawal.AmountCents,
			Status:      models.TransactionStatusCompleted,
			Asset:       withdrawal.Asset,
			Reference:   withdrawal.ID,
			Meta:        "payout to " + withdrawal.TargetAddress,
		}
		return s.ledger.ApplyBalanceDelta(tx, withdrawal.UserID, -withdrawal.AmountCents, entry)
	})
	if err != nil {
		return nil, err
	}

	observability.ObserveWithdrawalReview("approved")
	s.notifyReview(withdrawal, notify.KindWithdrawalApproved)

	return s.getWithdrawal(id)
}

// RejectWithdrawal marks a pending request rejected with the reviewer's
// reason. Nothing was reserved beyond the availability check, so there
// is nothing to release.
func (s *withdrawalService) RejectWithdrawal(id, reviewerID, reason string) (*models.Withdrawal, error) {
	withdrawal, err := s.getWithdrawal(id)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, apperrors.ErrWithdrawalNotPending
	}

	res := s.db.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":         models.WithdrawalStatusRejected,
			"reviewed_at":    time.Now(),
			"reviewed_by_id": reviewerID,
			"review_note":    reason,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrWithdrawalNotPending
	}

	observability.ObserveWithdrawalReview("rejected")
	s.notifyReview(withdrawal, notify.KindWithdrawalRejected)

	return s.getWithdrawal(id)
}

// GetUserWithdrawals retrieves a paginated list of the user's payout
// requests, newest first.
func (s *withdrawalService) GetUserWithdrawals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Withdrawal], error) {
	page.Defaults()
	return s.listWithdrawals(s.db.Model(&models.Withdrawal{}).Where("user_id = ?", userID), page, "created_at DESC")
}

// ListPendingWithdrawals retrieves the admin review queue, oldest first.
func (s *withdrawalService) ListPendingWithdrawals(page pagination.PageRequest) (*pagination.PageResponse[models.Withdrawal], error) {
	page.Defaults()
	return s.listWithdrawals(s.db.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalStatusPending), page, "created_at")
}

func (s *withdrawalService) listWithdrawals(base *gorm.DB, page pagination.PageRequest, order string) (*pagination.PageResponse[models.Withdrawal], error) {
	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var withdrawals []models.Withdrawal
	if err := base.Scopes(pagination.Paginate(page)).
		Order(order).
		Find(&withdrawals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(withdrawals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// resolveAddress picks the user's saved wallet address for the asset,
// preferring an exact network match when one was requested.
func (s *withdrawalService) resolveAddress(userID, asset, network string) (*models.WalletAddress, error) {
	var addresses []models.WalletAddress
	if err := s.db.Where("user_id = ? AND asset = ?", userID, asset).
		Order("created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(addresses) == 0 {
		return nil, apperrors.ErrNoSavedAddress
	}
	if network != "" {
		for i := range addresses {
			if addresses[i].Network == network {
				return &addresses[i], nil
			}
		}
		return nil, apperrors.ErrNoSavedAddress
	}
	return &addresses[0], nil
}

func (s *withdrawalService) getWithdrawal(id string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := s.db.First(&withdrawal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWithdrawalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &withdrawal, nil
}

func (s *withdrawalService) notifyReview(withdrawal *models.Withdrawal, kind notify.Kind) {
	var user models.User
	if err := s.db.First(&user, "id = ?", withdrawal.UserID).Error; err != nil {
		return
	}
	notify.Send(s.notifier, notify.Notification{
		UserID:      user.ID,
		Email:       user.Email,
		Kind:        kind,
		AmountCents: withdrawal.AmountCents,
		Asset:       withdrawal.Asset,
		Reference:   withdrawal.ID,
	})
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/observability"
	"yieldvault/internal/pagination"
)

// referralService distributes commissions up the referral chain.
type referralService struct {
	db     *gorm.DB
	ledger LedgerServicer
}

// NewReferralService creates a new ReferralServicer.
func NewReferralService(db *gorm.DB, ledger LedgerServicer) ReferralServicer {
	return &referralService{db: db, ledger: ledger}
}

// Distribute credits the level-1 and level-2 sponsors of fromUser with
// their share of sourceAmountCents. Each credited level gets one
// ReferralEarning row plus one referral_earning ledger entry, all inside
// the caller's transaction. The walk stops after two hops no matter how
// deep the referral forest goes. The returned credits let callers notify
// earners after the transaction commits; a level that pays nothing does
// not appear.
func (s *referralService) Distribute(tx *gorm.DB, fromUser *models.User, sourceAmountCents int64, sourceInvestmentID *string, settings models.Settings) ([]CommissionCredit, error) {
	if sourceAmountCents <= 0 {
		return nil, nil
	}

	var credits []CommissionCredit

	level1, err := s.resolveSponsor(tx, fromUser.ReferredByID)
	if err != nil {
		return nil, err
	}
	if level1 == nil {
		return nil, nil
	}

	credit, err := s.credit(tx, level1, fromUser, 1, sourceAmountCents, settings.Level1Bps, sourceInvestmentID)
	if err != nil {
		return nil, err
	}
	if credit != nil {
		credits = append(credits, *credit)
	}

	level2, err := s.resolveSponsor(tx, level1.ReferredByID)
	if err != nil {
		return nil, err
	}
	if level2 == nil {
		return credits, nil
	}

	credit, err = s.credit(tx, level2, fromUser, 2, sourceAmountCents, settings.Level2Bps, sourceInvestmentID)
	if err != nil {
		return nil, err
	}
	if credit != nil {
		credits = append(credits, *credit)
	}
	return credits, nil
}

// resolveSponsor follows one weak referral reference. A missing sponsor
// row (deleted account) is treated the same as no sponsor at all.
func (s *referralService) resolveSponsor(tx *gorm.DB, sponsorID *string) (*models.User, error) {
	if sponsorID == nil {
		return nil, nil
	}
	var sponsor models.User
	if err := tx.First(&sponsor, "id = ?", *sponsorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sponsor, nil
}

func (s *referralService) credit(tx *gorm.DB, earner, fromUser *models.User, level int, sourceAmountCents, rateBps int64, sourceInvestmentID *string) (*CommissionCredit, error) {
	if rateBps <= 0 {
		return nil, nil
	}
	amount := sourceAmountCents * rateBps / 10000
	if amount <= 0 {
		return nil, nil
	}

	entry := &models.Transaction{
		Type:        models.TransactionTypeReferralEarning,
		AmountCents: amount,
		Status:      models.TransactionStatusCompleted,
		Reference:   fromUser.ID,
		Meta:        fmt.Sprintf("level %d commission from %s", level, fromUser.Email),
	}
	if err := s.ledger.ApplyBalanceDelta(tx, earner.ID, amount, entry); err != nil {
		return nil, err
	}

	earning := &models.ReferralEarning{
		EarnerID:           earner.ID,
		FromUserID:         fromUser.ID,
		Level:              level,
		AmountCents:        amount,
		SourceInvestmentID: sourceInvestmentID,
	}
	if err := tx.Create(earning).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	observability.ObserveReferralPayout(fmt.Sprintf("%d", level))
	return &CommissionCredit{
		EarnerID:    earner.ID,
		EarnerEmail: earner.Email,
		Level:       level,
		AmountCents: amount,
	}, nil
}

// GetUserEarnings retrieves a paginated list of a user's commission
// credits, newest first.
func (s *referralService) GetUserEarnings(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ReferralEarning], error) {
	page.Defaults()

	base := s.db.Model(&models.ReferralEarning{}).Where("earner_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var earnings []models.ReferralEarning
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&earnings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(earnings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

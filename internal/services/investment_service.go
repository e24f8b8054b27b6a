package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
	"yieldvault/internal/pagination"
)

// investmentService manages the investment lifecycle.
type investmentService struct {
	db     *gorm.DB
	ledger LedgerServicer
	plans  PlanServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, ledger LedgerServicer, plans PlanServicer) InvestmentServicer {
	return &investmentService{db: db, ledger: ledger, plans: plans}
}

// OpenInvestment allocates amountCents of a user's balance into the plan
// matching planSlugOrName. A user may hold each plan at most once, ever:
// an active or completed allocation blocks a second one. The principal
// debit and the investment row are committed together, with an
// investment-typed ledger entry so the move stays reconcilable.
func (s *investmentService) OpenInvestment(userID, planSlugOrName string, amountCents int64) (*models.Investment, error) {
	if amountCents <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	plan, err := s.plans.ResolvePlan(planSlugOrName)
	if err != nil {
		return nil, err
	}
	if amountCents < plan.MinAmountCents {
		return nil, apperrors.ErrAmountBelowMinimum
	}
	if plan.MaxAmountCents > 0 && amountCents > plan.MaxAmountCents {
		return nil, apperrors.ErrAmountAboveMaximum
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var held int64
	if err := s.db.Model(&models.Investment{}).
		Where("user_id = ? AND plan_id = ? AND status IN ?", userID, plan.ID,
			[]models.InvestmentStatus{models.InvestmentStatusActive, models.InvestmentStatusCompleted}).
		Count(&held).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if held > 0 {
		return nil, apperrors.ErrPlanAlreadyUsed
	}

	// Pre-check; the guard re-enforces this inside the commit.
	if user.BalanceCents < amountCents {
		return nil, apperrors.ErrInsufficientBalance
	}

	now := time.Now()
	var endDate *time.Time
	if plan.HasFixedTerm() {
		end := now.AddDate(0, 0, plan.DurationDays)
		endDate = &end
	}

	investment := &models.Investment{
		UserID:           userID,
		PlanID:           plan.ID,
		AmountCents:      amountCents,
		Status:           models.InvestmentStatusActive,
		StartDate:        now,
		EndDate:          endDate,
		LastRoiAccruedAt: now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := &models.Transaction{
			Type:        models.TransactionTypeInvestment,
			AmountCents: amountCents,
			Status:      models.TransactionStatusCompleted,
			Reference:   plan.Slug,
			Meta:        "principal allocation",
		}
		if err := s.ledger.ApplyBalanceDelta(tx, userID, -amountCents, entry); err != nil {
			return err
		}
		if err := tx.Create(investment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	investment.Plan = *plan
	return investment, nil
}

// GetUserInvestments retrieves a paginated list of a user's investments,
// newest first.
func (s *investmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Plan").
		Order("created_at DESC").
		Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID retrieves one of the user's investments.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Preload("Plan").
		Where("id = ? AND user_id = ?", investmentID, userID).
		First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

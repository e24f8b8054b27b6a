package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
)

// planService resolves and lists the yield plan catalog.
type planService struct {
	db *gorm.DB
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB) PlanServicer {
	return &planService{db: db}
}

// ListActivePlans returns the open plans ordered by entry minimum.
func (s *planService) ListActivePlans() ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Where("is_active = ?", true).
		Order("min_amount_cents").
		Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plans, nil
}

// ResolvePlan matches a plan by slug or name. Matching folds case and
// drops hyphens, underscores, and whitespace, so "Gold Tier",
// "gold-tier", and "gold_tier" all resolve to the same plan. A matching
// but deactivated plan is reported as inactive, not missing.
func (s *planService) ResolvePlan(slugOrName string) (*models.Plan, error) {
	wanted := normalizePlanKey(slugOrName)
	if wanted == "" {
		return nil, apperrors.ErrPlanNotFound
	}

	// The catalog is small; match in memory rather than encoding the
	// folding rules per SQL dialect.
	var plans []models.Plan
	if err := s.db.Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range plans {
		if normalizePlanKey(plans[i].Slug) == wanted || normalizePlanKey(plans[i].Name) == wanted {
			if !plans[i].IsActive {
				return nil, apperrors.ErrPlanInactive
			}
			return &plans[i], nil
		}
	}
	return nil, apperrors.ErrPlanNotFound
}

// normalizePlanKey lowercases s and strips separator characters.
func normalizePlanKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '-', '_', ' ', '\t':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

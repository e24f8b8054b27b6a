package models

// Plan is a catalog entry for a fixed-term yield product. Plans are
// admin-managed and read-only from the core's perspective.
type Plan struct {
	Base
	Name           string `gorm:"uniqueIndex;not null" json:"name"`
	Slug           string `gorm:"uniqueIndex;not null" json:"slug"`
	DailyRoiBps    int64  `gorm:"not null" json:"daily_roi_bps"`
	DurationDays   int    `gorm:"not null;default:0" json:"duration_days"`
	MinAmountCents int64  `gorm:"type:bigint;not null" json:"min_amount_cents"`
	MaxAmountCents int64  `gorm:"type:bigint;not null" json:"max_amount_cents"`
	IsActive       bool   `gorm:"default:true" json:"is_active"`
}

// HasFixedTerm reports whether the plan ends after a set number of days.
// Open-ended plans (DurationDays == 0) accrue until cancelled.
func (p *Plan) HasFixedTerm() bool {
	return p.DurationDays > 0
}

package models

import "time"

// InvestmentStatus represents the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

// Investment is one allocation of balance into a plan. AmountCents is the
// principal and never changes after creation. LastRoiAccruedAt is only
// advanced inside the same commit as a yield credit, which is what makes
// the accrual pass safe to re-run.
type Investment struct {
	Base
	UserID             string           `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID             string           `gorm:"type:uuid;not null;index" json:"plan_id"`
	AmountCents        int64            `gorm:"type:bigint;not null" json:"amount_cents"`
	Status             InvestmentStatus `gorm:"not null;default:'active';index" json:"status"`
	StartDate          time.Time        `gorm:"not null" json:"start_date"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	LastRoiAccruedAt   time.Time        `gorm:"not null" json:"last_roi_accrued_at"`
	AccruedReturnCents int64            `gorm:"type:bigint;not null;default:0" json:"accrued_return_cents"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Plan Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

package models

import "time"

// WithdrawalStatus represents the review state of a payout request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a payout request awaiting admin review. The balance is
// debited only when the request is approved, never on creation. Pending
// requests still count against the user's available balance so that
// concurrent requests cannot jointly overdraw the account.
type Withdrawal struct {
	Base
	UserID        string           `gorm:"type:uuid;not null;index" json:"user_id"`
	AmountCents   int64            `gorm:"type:bigint;not null" json:"amount_cents"`
	Asset         string           `gorm:"not null" json:"asset"`
	Network       string           `json:"network,omitempty"`
	TargetAddress string           `gorm:"not null" json:"target_address"`
	Status        WithdrawalStatus `gorm:"not null;default:'pending';index" json:"status"`
	ReviewedAt    *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedByID  *string          `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewNote    string           `json:"review_note,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

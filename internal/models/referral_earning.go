package models

// ReferralEarning records a single commission credit to an upline user.
// Rows are purely additive and never mutated after creation.
// SourceInvestmentID is nil for deposit-sourced commissions.
type ReferralEarning struct {
	Base
	EarnerID           string  `gorm:"type:uuid;not null;index" json:"earner_id"`
	FromUserID         string  `gorm:"type:uuid;not null;index" json:"from_user_id"`
	Level              int     `gorm:"not null" json:"level"`
	AmountCents        int64   `gorm:"type:bigint;not null" json:"amount_cents"`
	SourceInvestmentID *string `gorm:"type:uuid" json:"source_investment_id,omitempty"`

	// Relationships
	Earner   User `gorm:"foreignKey:EarnerID" json:"earner,omitempty"`
	FromUser User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
}

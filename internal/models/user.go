package models

// User represents a platform account holder. BalanceCents is the single
// mutable money aggregate; it is only ever changed through the ledger
// service so that every mutation is paired with an audit row.
//
// ReferredByID is a weak back-reference to the sponsor set once at
// registration and never reassigned, so the referral graph is a forest.
// It intentionally carries no foreign-key ownership: deleting a sponsor
// nulls it out, it never cascades.
type User struct {
	Base
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Password     string  `gorm:"not null" json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	BalanceCents int64   `gorm:"type:bigint;not null;default:0" json:"balance_cents"`
	ReferralCode string  `gorm:"uniqueIndex;size:16;not null" json:"referral_code"`
	ReferredByID *string `gorm:"type:uuid;index" json:"referred_by_id,omitempty"`
	IsAdmin      bool    `gorm:"default:false" json:"is_admin"`
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	// Relationships
	Investments      []Investment      `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	Transactions     []Transaction     `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Withdrawals      []Withdrawal      `gorm:"foreignKey:UserID" json:"withdrawals,omitempty"`
	WalletAddresses  []WalletAddress   `gorm:"foreignKey:UserID" json:"wallet_addresses,omitempty"`
	ReferralEarnings []ReferralEarning `gorm:"foreignKey:EarnerID" json:"referral_earnings,omitempty"`
}

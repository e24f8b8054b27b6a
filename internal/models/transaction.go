package models

// TransactionType represents the type of ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeInvestment       TransactionType = "investment"
	TransactionTypeInvestmentReturn TransactionType = "investment_return"
	TransactionTypeReferralEarning  TransactionType = "referral_earning"
)

// TransactionTypes lists every ledger entry type.
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeInvestment,
		TransactionTypeInvestmentReturn,
		TransactionTypeReferralEarning,
	}
}

// Sign returns the direction a completed entry of this type moves the
// balance: +1 for credits, -1 for debits. Summing Amount*Sign over a
// user's completed entries must reproduce their balance exactly.
func (t TransactionType) Sign() int64 {
	switch t {
	case TransactionTypeWithdrawal, TransactionTypeInvestment:
		return -1
	default:
		return 1
	}
}

// TransactionStatus represents the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an append-only ledger entry. Completed rows are the audit
// trail for every balance mutation; the user's BalanceCents is a cached
// aggregate that must always be reconcilable against them.
type Transaction struct {
	Base
	UserID      string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        TransactionType   `gorm:"not null;index" json:"type"`
	AmountCents int64             `gorm:"type:bigint;not null" json:"amount_cents"`
	Status      TransactionStatus `gorm:"not null;default:'pending';index" json:"status"`
	Asset       string            `gorm:"not null;default:'USD'" json:"asset"`
	Reference   string            `json:"reference,omitempty"`
	Meta        string            `json:"meta,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

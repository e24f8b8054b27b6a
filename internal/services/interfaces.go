package services

import (
	"time"

	"gorm.io/gorm"

	"yieldvault/internal/models"
	"yieldvault/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, password, firstName, lastName, referralCode string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	SaveWalletAddress(userID, asset, network, address, label string) (*models.WalletAddress, error)
	GetWalletAddresses(userID string) ([]models.WalletAddress, error)
}

// TransactionFilter holds optional filter parameters for listing ledger entries.
type TransactionFilter struct {
	Type   *models.TransactionType
	Status *models.TransactionStatus
}

// ReconciliationReport compares a user's cached balance against the sum
// of their completed ledger entries.
type ReconciliationReport struct {
	UserID       string `json:"user_id"`
	BalanceCents int64  `json:"balance_cents"`
	LedgerCents  int64  `json:"ledger_cents"`
	DriftCents   int64  `json:"drift_cents"`
}

// AdjustAction is a direct admin balance adjustment direction.
type AdjustAction string

const (
	AdjustActionDeposit  AdjustAction = "deposit"
	AdjustActionWithdraw AdjustAction = "withdraw"
)

// LedgerServicer is the balance invariant guard. Every balance mutation in
// the system funnels through ApplyBalanceDelta; nothing else touches
// User.BalanceCents.
type LedgerServicer interface {
	// ApplyBalanceDelta atomically moves a user's balance by deltaCents
	// inside the caller's transaction and records entry as the paired
	// audit row. entry may be nil only when the caller writes its own
	// audit row (completing a deposit, approving a withdrawal) in the
	// same transaction.
	ApplyBalanceDelta(tx *gorm.DB, userID string, deltaCents int64, entry *models.Transaction) error
	AdjustBalance(userID string, action AdjustAction, amountCents int64) (*models.User, error)
	ReconcileBalance(userID string) (*ReconciliationReport, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// SettingsServicer loads and updates the singleton platform settings.
type SettingsServicer interface {
	Get() (models.Settings, error)
	Update(level1Bps, level2Bps int64) (models.Settings, error)
	ListDepositAddresses() ([]models.DepositAddress, error)
}

// CommissionCredit reports one commission paid out by Distribute, so
// the caller can notify the earner once its transaction has committed.
type CommissionCredit struct {
	EarnerID    string
	EarnerEmail string
	Level       int
	AmountCents int64
}

// ReferralServicer distributes two-level commissions up the referral chain.
type ReferralServicer interface {
	// Distribute credits level-1 and level-2 sponsors of fromUser inside
	// the caller's transaction and reports what it paid.
	// sourceInvestmentID is nil for deposit-sourced commissions. The
	// cascade is agnostic to where sourceAmountCents came from and never
	// walks more than two hops.
	Distribute(tx *gorm.DB, fromUser *models.User, sourceAmountCents int64, sourceInvestmentID *string, settings models.Settings) ([]CommissionCredit, error)
	GetUserEarnings(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.ReferralEarning], error)
}

// PlanServicer resolves and lists yield plans.
type PlanServicer interface {
	ListActivePlans() ([]models.Plan, error)
	// ResolvePlan matches a plan by slug or name, folding case, hyphens,
	// underscores, and whitespace.
	ResolvePlan(slugOrName string) (*models.Plan, error)
}

// InvestmentServicer manages the investment lifecycle.
type InvestmentServicer interface {
	OpenInvestment(userID, planSlugOrName string, amountCents int64) (*models.Investment, error)
	GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID string) (*models.Investment, error)
}

// AccrualReport summarizes one accrual pass for observability.
type AccrualReport struct {
	Processed   int   `json:"processed"`
	Credited    int   `json:"credited"`
	Completed   int   `json:"completed"`
	Skipped     int   `json:"skipped"`
	Failed      int   `json:"failed"`
	ProfitCents int64 `json:"profit_cents"`
}

// AccrualServicer is the yield accrual engine. RunAccrualPass is invoked
// by an external scheduler; it holds no timer of its own.
type AccrualServicer interface {
	RunAccrualPass(now time.Time) (*AccrualReport, error)
}

// DepositServicer handles the deposit request/review workflow.
type DepositServicer interface {
	RequestDeposit(userID, asset string, amountCents int64, reference, note string) (*models.Transaction, error)
	ApproveDeposit(txID string) (*models.Transaction, error)
	RejectDeposit(txID, reason string) (*models.Transaction, error)
	ListPendingDeposits(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// WithdrawalServicer handles the withdrawal request/review workflow.
type WithdrawalServicer interface {
	RequestWithdrawal(userID, asset string, amountCents int64, network string) (*models.Withdrawal, error)
	ApproveWithdrawal(id, reviewerID string) (*models.Withdrawal, error)
	RejectWithdrawal(id, reviewerID, reason string) (*models.Withdrawal, error)
	GetUserWithdrawals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Withdrawal], error)
	ListPendingWithdrawals(page pagination.PageRequest) (*pagination.PageResponse[models.Withdrawal], error)
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"yieldvault/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email and zero balance.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithBalance(t, db, 0)
}

// CreateTestUserWithBalance creates a user holding the given balance (in cents).
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balanceCents int64) *models.User {
	t.Helper()

	n := nextID()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        fmt.Sprintf("user%d@test.com", n),
		Password:     string(hash),
		BalanceCents: balanceCents,
		ReferralCode: fmt.Sprintf("REF%05d", n),
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestReferredUser creates a user whose sponsor is the given user.
func CreateTestReferredUser(t *testing.T, db *gorm.DB, sponsor *models.User, balanceCents int64) *models.User {
	t.Helper()

	user := CreateTestUserWithBalance(t, db, balanceCents)
	if err := db.Model(user).Update("referred_by_id", sponsor.ID).Error; err != nil {
		t.Fatalf("failed to link referred user: %v", err)
	}
	user.ReferredByID = &sponsor.ID
	return user
}

// CreateTestPlan creates an active 5-day plan at 500 bps daily yield.
func CreateTestPlan(t *testing.T, db *gorm.DB) *models.Plan {
	t.Helper()
	return CreateTestPlanWithTerms(t, db, 500, 5, 10000, 100000000)
}

// CreateTestPlanWithTerms creates an active plan with the given rate,
// duration, and amount bounds.
func CreateTestPlanWithTerms(t *testing.T, db *gorm.DB, dailyRoiBps int64, durationDays int, minCents, maxCents int64) *models.Plan {
	t.Helper()

	n := nextID()
	plan := &models.Plan{
		Name:           fmt.Sprintf("Test Plan %d", n),
		Slug:           fmt.Sprintf("test-plan-%d", n),
		DailyRoiBps:    dailyRoiBps,
		DurationDays:   durationDays,
		MinAmountCents: minCents,
		MaxAmountCents: maxCents,
		IsActive:       true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// CreateTestInvestment creates an active investment whose accrual clock
// started daysAgo whole days before now.
func CreateTestInvestment(t *testing.T, db *gorm.DB, user *models.User, plan *models.Plan, amountCents int64, daysAgo int) *models.Investment {
	t.Helper()

	start := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
	inv := &models.Investment{
		UserID:           user.ID,
		PlanID:           plan.ID,
		AmountCents:      amountCents,
		Status:           models.InvestmentStatusActive,
		StartDate:        start,
		LastRoiAccruedAt: start,
	}
	if plan.HasFixedTerm() {
		end := start.AddDate(0, 0, plan.DurationDays)
		inv.EndDate = &end
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestSettings writes the singleton settings row with the given
// commission rates.
func CreateTestSettings(t *testing.T, db *gorm.DB, level1Bps, level2Bps int64) *models.Settings {
	t.Helper()

	settings := &models.Settings{ID: 1, Level1Bps: level1Bps, Level2Bps: level2Bps}
	if err := db.Save(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}

// CreateTestWalletAddress saves a payout address for the user.
func CreateTestWalletAddress(t *testing.T, db *gorm.DB, userID, asset, network string) *models.WalletAddress {
	t.Helper()

	addr := &models.WalletAddress{
		UserID:  userID,
		Asset:   asset,
		Network: network,
		Address: fmt.Sprintf("addr-%d", nextID()),
	}
	if err := db.Create(addr).Error; err != nil {
		t.Fatalf("failed to create test wallet address: %v", err)
	}
	return addr
}

// CreateTestPendingDeposit creates a pending deposit transaction.
func CreateTestPendingDeposit(t *testing.T, db *gorm.DB, userID string, amountCents int64) *models.Transaction {
	t.Helper()

	dep := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		AmountCents: amountCents,
		Status:      models.TransactionStatusPending,
		Asset:       "USDT",
	}
	if err := db.Create(dep).Error; err != nil {
		t.Fatalf("failed to create test deposit: %v", err)
	}
	return dep
}

package services

import (
	"testing"

	"yieldvault/internal/models"
	"yieldvault/internal/testutil"
)

func TestOpenInvestment_DebitsPrincipalAndCreatesRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	ledger := NewLedgerService(db)
	investments := NewInvestmentService(db, ledger, NewPlanService(db))
	user := testutil.CreateTestUserWithBalance(t, db, 200000)
	plan := testutil.CreateTestPlan(t, db)

	inv, err := investments.OpenInvestment(user.ID, plan.Slug, 100000)
	testutil.AssertNoError(t, err)

	if inv.Status != models.InvestmentStatusActive {
		t.Errorf("expected active investment, got %s", inv.Status)
	}
	if inv.AmountCents != 100000 {
		t.Errorf("expected principal 100000, got %d", inv.AmountCents)
	}
	if inv.EndDate == nil {
		t.Fatal("expected fixed-term plan to set an end date")
	}
	wantEnd := inv.StartDate.AddDate(0, 0, plan.DurationDays)
	if !inv.EndDate.Equal(wantEnd) {
		t.Errorf("expected end date %v, got %v", wantEnd, inv.EndDate)
	}
	if !inv.LastRoiAccruedAt.Equal(inv.StartDate) {
		t.Errorf("expected accrual clock to start at start date")
	}

	var fresh models.User
	testutil.AssertNoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	testutil.AssertBalance(t, 100000, fresh.BalanceCents)

	// The debit leaves an investment-typed entry for reconciliation.
	var entry models.Transaction
	testutil.AssertNoError(t, db.Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeInvestment).First(&entry).Error)
	if entry.AmountCents != 100000 || entry.Status != models.TransactionStatusCompleted {
		t.Errorf("unexpected principal entry: %+v", entry)
	}

	// The fixture seeded 200000 outside the ledger, so the only tracked
	// movement is the -100000 principal debit.
	report, err := ledger.ReconcileBalance(user.ID)
	testutil.AssertNoError(t, err)
	if report.LedgerCents != -100000 {
		t.Errorf("expected ledger sum -100000, got %d", report.LedgerCents)
	}
}

func TestOpenInvestment_OpenEndedPlanHasNoEndDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	investments := NewInvestmentService(db, NewLedgerService(db), NewPlanService(db))
	user := testutil.CreateTestUserWithBalance(t, db, 50000)
	plan := testutil.CreateTestPlanWithTerms(t, db, 100, 0, 1000, 0)

	inv, err := investments.OpenInvestment(user.ID, plan.Slug, 20000)
	testutil.AssertNoError(t, err)
	if inv.EndDate != nil {
		t.Errorf("expected open-ended investment, got end date %v", inv.EndDate)
	}
}

func TestOpenInvestment_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	investments := NewInvestmentService(db, NewLedgerService(db), NewPlanService(db))
	user := testutil.CreateTestUserWithBalance(t, db, 200000)
	plan := testutil.CreateTestPlanWithTerms(t, db, 500, 5, 10000, 100000)

	_, err := investments.OpenInvestment(user.ID, plan.Slug, 0)
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")

	_, err = investments.OpenInvestment(user.ID, "missing-plan", 50000)
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")

	_, err = investments.OpenInvestment(user.ID, plan.Slug, 9999)
	testutil.AssertAppError(t, err, "AMOUNT_BELOW_MINIMUM")

	_, err = investments.OpenInvestment(user.ID, plan.Slug, 100001)
	testutil.AssertAppError(t, err, "AMOUNT_ABOVE_MAXIMUM")

	_, err = investments.OpenInvestment("00000000-0000-0000-0000-000000000000", plan.Slug, 50000)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")

	poor := testutil.CreateTestUserWithBalance(t, db, 100)
	_, err = investments.OpenInvestment(poor.ID, plan.Slug, 50000)
	testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
}

func TestOpenInvestment_OnePlanPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	investments := NewInvestmentService(db, NewLedgerService(db), NewPlanService(db))
	user := testutil.CreateTestUserWithBalance(t, db, 500000)
	plan := testutil.CreateTestPlan(t, db)

	first, err := investments.OpenInvestment(user.ID, plan.Slug, 100000)
	testutil.AssertNoError(t, err)

	_, err = investments.OpenInvestment(user.ID, plan.Slug, 100000)
	testutil.AssertAppError(t, err, "PLAN_ALREADY_USED")

	// A finished run of the plan still blocks re-entry.
	testutil.AssertNoError(t, db.Model(&models.Investment{}).
		Where("id = ?", first.ID).
		Update("status", models.InvestmentStatusCompleted).Error)

	_, err = investments.OpenInvestment(user.ID, plan.Slug, 100000)
	testutil.AssertAppError(t, err, "PLAN_ALREADY_USED")

	// A cancelled run does not.
	testutil.AssertNoError(t, db.Model(&models.Investment{}).
		Where("id = ?", first.ID).
		Update("status", models.InvestmentStatusCancelled).Error)

	_, err = investments.OpenInvestment(user.ID, plan.Slug, 100000)
	testutil.AssertNoError(t, err)

	// And a second, different plan is fine.
	other := testutil.CreateTestPlanWithTerms(t, db, 200, 10, 10000, 0)
	_, err = investments.OpenInvestment(user.ID, other.Slug, 100000)
	testutil.AssertNoError(t, err)
}

func TestGetInvestmentByID_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	investments := NewInvestmentService(db, NewLedgerService(db), NewPlanService(db))
	owner := testutil.CreateTestUser(t, db)
	stranger := testutil.CreateTestUser(t, db)
	plan := testutil.CreateTestPlan(t, db)
	inv := testutil.CreateTestInvestment(t, db, owner, plan, 50000, 0)

	got, err := investments.GetInvestmentByID(owner.ID, inv.ID)
	testutil.AssertNoError(t, err)
	if got.Plan.ID != plan.ID {
		t.Errorf("expected plan preloaded")
	}

	_, err = investments.GetInvestmentByID(stranger.ID, inv.ID)
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
}

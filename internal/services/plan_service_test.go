package services

import (
	"testing"

	"yieldvault/internal/models"
	"yieldvault/internal/testutil"
)

func TestResolvePlan_FoldsSeparatorsAndCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	plans := NewPlanService(db)
	plan := &models.Plan{
		Name:           "Gold Tier",
		Slug:           "gold-tier",
		DailyRoiBps:    300,
		DurationDays:   10,
		MinAmountCents: 1000,
		MaxAmountCents: 1000000,
		IsActive:       true,
	}
	testutil.AssertNoError(t, db.Create(plan).Error)

	for _, input := range []string{"gold-tier", "Gold Tier", "GOLD_TIER", "  goldtier  ", "Gold-Tier"} {
		resolved, err := plans.ResolvePlan(input)
		testutil.AssertNoError(t, err)
		if resolved.ID != plan.ID {
			t.Errorf("input %q resolved to wrong plan", input)
		}
	}
}

func TestResolvePlan_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	plans := NewPlanService(db)
	testutil.CreateTestPlan(t, db)

	_, err := plans.ResolvePlan("no-such-plan")
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")

	_, err = plans.ResolvePlan("   ")
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")
}

func TestResolvePlan_InactiveIsReportedAsInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	plans := NewPlanService(db)
	plan := testutil.CreateTestPlan(t, db)
	testutil.AssertNoError(t, db.Model(plan).Update("is_active", false).Error)

	_, err := plans.ResolvePlan(plan.Slug)
	testutil.AssertAppError(t, err, "PLAN_INACTIVE")
}

func TestListActivePlans_OrdersByMinimumAndHidesInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	plans := NewPlanService(db)
	big := testutil.CreateTestPlanWithTerms(t, db, 200, 30, 500000, 0)
	small := testutil.CreateTestPlanWithTerms(t, db, 100, 30, 1000, 0)
	hidden := testutil.CreateTestPlanWithTerms(t, db, 999, 1, 1, 0)
	testutil.AssertNoError(t, db.Model(hidden).Update("is_active", false).Error)

	listed, err := plans.ListActivePlans()
	testutil.AssertNoError(t, err)
	if len(listed) != 2 {
		t.Fatalf("expected 2 active plans, got %d", len(listed))
	}
	if listed[0].ID != small.ID || listed[1].ID != big.ID {
		t.Errorf("expected plans ordered by minimum amount")
	}
}

package services

import (
	"testing"

	"gorm.io/gorm"

	"yieldvault/internal/models"
	"yieldvault/internal/notify"
	"yieldvault/internal/pagination"
	"yieldvault/internal/testutil"
)

// recordingNotifier captures notifications for assertion.
type recordingNotifier struct {
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newDepositHarness(db *gorm.DB) DepositServicer {
	ledger := NewLedgerService(db)
	return NewDepositService(db, ledger, NewReferralService(db, ledger), NewSettingsService(db), nil)
}

func TestRequestDeposit_PendingWithoutBalanceEffect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	user := testutil.CreateTestUser(t, db)

	dep, err := deposits.RequestDeposit(user.ID, "USDT", 50000, "tx-hash-123", "first deposit")
	testutil.AssertNoError(t, err)
	if dep.Status != models.TransactionStatusPending {
		t.Errorf("expected pending deposit, got %s", dep.Status)
	}
	if dep.Type != models.TransactionTypeDeposit || dep.Asset != "USDT" {
		t.Errorf("unexpected deposit row: %+v", dep)
	}

	var fresh models.User
	testutil.AssertNoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	testutil.AssertBalance(t, 0, fresh.BalanceCents)
}

func TestRequestDeposit_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	user := testutil.CreateTestUser(t, db)

	_, err := deposits.RequestDeposit(user.ID, "USDT", 0, "", "")
	testutil.AssertAppError(t, err, "INVALID_AMOUNT")

	_, err = deposits.RequestDeposit(user.ID, "DOGE", 1000, "", "")
	testutil.AssertAppError(t, err, "UNSUPPORTED_ASSET")

	_, err = deposits.RequestDeposit("00000000-0000-0000-0000-000000000000", "USDT", 1000, "", "")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestApproveDeposit_CreditsAndCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	testutil.CreateTestSettings(t, db, 800, 300)

	sponsor := testutil.CreateTestUser(t, db)
	depositor := testutil.CreateTestReferredUser(t, db, sponsor, 0)

	// A $500.00 deposit.
	dep := testutil.CreateTestPendingDeposit(t, db, depositor.ID, 50000)

	approved, err := deposits.ApproveDeposit(dep.ID)
	testutil.AssertNoError(t, err)
	if approved.Status != models.TransactionStatusCompleted {
		t.Errorf("expected completed deposit, got %s", approved.Status)
	}

	var depositorFresh, sponsorFresh models.User
	testutil.AssertNoError(t, db.First(&depositorFresh, "id = ?", depositor.ID).Error)
	testutil.AssertNoError(t, db.First(&sponsorFresh, "id = ?", depositor.ReferredByID).Error)
	testutil.AssertBalance(t, 50000, depositorFresh.BalanceCents)
	// 8% of 50000 cents to the level-1 sponsor.
	testutil.AssertBalance(t, 4000, sponsorFresh.BalanceCents)

	// Sponsor has no sponsor of their own, so exactly one earning row.
	var earnings []models.ReferralEarning
	testutil.AssertNoError(t, db.Find(&earnings).Error)
	if len(earnings) != 1 {
		t.Fatalf("expected 1 earning, got %d", len(earnings))
	}
	if earnings[0].EarnerID != sponsor.ID || earnings[0].Level != 1 || earnings[0].AmountCents != 4000 {
		t.Errorf("unexpected earning: %+v", earnings[0])
	}

	// The completed deposit row is the audit entry; both users reconcile.
	ledger := NewLedgerService(db)
	for _, id := range []string{depositor.ID, sponsor.ID} {
		report, err := ledger.ReconcileBalance(id)
		testutil.AssertNoError(t, err)
		if report.DriftCents != 0 {
			t.Errorf("user %s has drift %d", id, report.DriftCents)
		}
	}
}

func TestApproveDeposit_NotifiesDepositorAndSponsor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	recorder := &recordingNotifier{}
	ledger := NewLedgerService(db)
	deposits := NewDepositService(db, ledger, NewReferralService(db, ledger), NewSettingsService(db), recorder)
	testutil.CreateTestSettings(t, db, 800, 300)

	sponsor := testutil.CreateTestUser(t, db)
	depositor := testutil.CreateTestReferredUser(t, db, sponsor, 0)
	dep := testutil.CreateTestPendingDeposit(t, db, depositor.ID, 50000)

	_, err := deposits.ApproveDeposit(dep.ID)
	testutil.AssertNoError(t, err)

	if len(recorder.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(recorder.sent))
	}
	if recorder.sent[0].Kind != notify.KindDepositApproved || recorder.sent[0].UserID != depositor.ID {
		t.Errorf("unexpected first notification: %+v", recorder.sent[0])
	}
	commission := recorder.sent[1]
	if commission.Kind != notify.KindReferralEarning || commission.UserID != sponsor.ID {
		t.Errorf("unexpected commission notification: %+v", commission)
	}
	if commission.AmountCents != 4000 || commission.Email != sponsor.Email {
		t.Errorf("unexpected commission payload: %+v", commission)
	}
}

func TestApproveDeposit_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	user := testutil.CreateTestUser(t, db)
	dep := testutil.CreateTestPendingDeposit(t, db, user.ID, 10000)

	_, err := deposits.ApproveDeposit(dep.ID)
	testutil.AssertNoError(t, err)

	_, err = deposits.ApproveDeposit(dep.ID)
	testutil.AssertAppError(t, err, "DEPOSIT_NOT_PENDING")

	var fresh models.User
	testutil.AssertNoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	testutil.AssertBalance(t, 10000, fresh.BalanceCents)
}

func TestApproveDeposit_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)

	_, err := deposits.ApproveDeposit("00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, "DEPOSIT_NOT_FOUND")
}

func TestRejectDeposit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	user := testutil.CreateTestUser(t, db)
	dep := testutil.CreateTestPendingDeposit(t, db, user.ID, 10000)

	rejected, err := deposits.RejectDeposit(dep.ID, "no matching transfer found")
	testutil.AssertNoError(t, err)
	if rejected.Status != models.TransactionStatusFailed {
		t.Errorf("expected failed deposit, got %s", rejected.Status)
	}
	if rejected.Meta != "no matching transfer found" {
		t.Errorf("expected rejection reason recorded, got %q", rejected.Meta)
	}

	var fresh models.User
	testutil.AssertNoError(t, db.First(&fresh, "id = ?", user.ID).Error)
	testutil.AssertBalance(t, 0, fresh.BalanceCents)

	// A reviewed deposit cannot be approved afterwards.
	_, err = deposits.ApproveDeposit(dep.ID)
	testutil.AssertAppError(t, err, "DEPOSIT_NOT_PENDING")
}

func TestListPendingDeposits_OldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	deposits := newDepositHarness(db)
	user := testutil.CreateTestUser(t, db)

	first := testutil.CreateTestPendingDeposit(t, db, user.ID, 1000)
	second := testutil.CreateTestPendingDeposit(t, db, user.ID, 2000)
	reviewed := testutil.CreateTestPendingDeposit(t, db, user.ID, 3000)
	_, err := deposits.RejectDeposit(reviewed.ID, "dup")
	testutil.AssertNoError(t, err)

	queue, err := deposits.ListPendingDeposits(pagination.PageRequest{Page: 1, PageSize: 10})
	testutil.AssertNoError(t, err)
	if queue.TotalItems != 2 {
		t.Fatalf("expected 2 pending deposits, got %d", queue.TotalItems)
	}
	if queue.Data[0].ID != first.ID || queue.Data[1].ID != second.ID {
		t.Errorf("expected queue ordered oldest first")
	}
}

package services

import (
	"strings"
	"testing"

	"yieldvault/internal/testutil"
)

func TestRegister_CreatesUserWithReferralCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)

	user, err := users.Register("New@Example.com", "password123", "Ada", "Lovelace", "")
	testutil.AssertNoError(t, err)

	if user.Email != "new@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if len(user.ReferralCode) != referralCodeLength {
		t.Errorf("expected %d-char referral code, got %q", referralCodeLength, user.ReferralCode)
	}
	if user.ReferralCode != strings.ToUpper(user.ReferralCode) {
		t.Errorf("expected uppercase referral code, got %q", user.ReferralCode)
	}
	if user.ReferredByID != nil {
		t.Errorf("expected no sponsor, got %v", *user.ReferredByID)
	}
	if user.Password == "password123" {
		t.Error("password stored in plain text")
	}
}

func TestRegister_LinksSponsorOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)
	sponsor := testutil.CreateTestUser(t, db)

	// Referral codes match case-insensitively.
	user, err := users.Register("ref@example.com", "password123", "", "", strings.ToLower(sponsor.ReferralCode))
	testutil.AssertNoError(t, err)
	if user.ReferredByID == nil || *user.ReferredByID != sponsor.ID {
		t.Errorf("expected sponsor %s linked", sponsor.ID)
	}
}

func TestRegister_InvalidReferralCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)

	_, err := users.Register("ref@example.com", "password123", "", "", "NOPE1234")
	testutil.AssertAppError(t, err, "INVALID_REFERRAL_CODE")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)

	_, err := users.Register("dup@example.com", "password123", "", "", "")
	testutil.AssertNoError(t, err)

	_, err = users.Register("DUP@example.com", "password456", "", "", "")
	testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)

	registered, err := users.Register("login@example.com", "password123", "", "", "")
	testutil.AssertNoError(t, err)

	user, err := users.AttemptLogin("login@example.com", "password123")
	testutil.AssertNoError(t, err)
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}

	_, err = users.AttemptLogin("login@example.com", "wrong")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

	// Unknown accounts answer the same as wrong passwords.
	_, err = users.AttemptLogin("nobody@example.com", "password123")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
}

func TestSaveWalletAddress_UpsertsPerAssetNetwork(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	users := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	first, err := users.SaveWalletAddress(user.ID, "USDT", "trc20", "TAddr1", "main")
	testutil.AssertNoError(t, err)

	// Same asset and network replaces the address in place.
	replaced, err := users.SaveWalletAddress(user.ID, "USDT", "trc20", "TAddr2", "main")
	testutil.AssertNoError(t, err)
	if replaced.ID != first.ID || replaced.Address != "TAddr2" {
		t.Errorf("expected in-place replacement, got %+v", replaced)
	}

	// A different network is a separate row.
	_, err = users.SaveWalletAddress(user.ID, "USDT", "erc20", "0xAddr", "")
	testutil.AssertNoError(t, err)

	addresses, err := users.GetWalletAddresses(user.ID)
	testutil.AssertNoError(t, err)
	if len(addresses) != 2 {
		t.Errorf("expected 2 addresses, got %d", len(addresses))
	}

	_, err = users.SaveWalletAddress(user.ID, "DOGE", "", "DAddr", "")
	testutil.AssertAppError(t, err, "UNSUPPORTED_ASSET")

	_, err = users.SaveWalletAddress(user.ID, "BTC", "", "", "")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

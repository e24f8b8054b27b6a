package services

import (
	"testing"

	"yieldvault/internal/models"
	"yieldvault/internal/testutil"
)

func TestSettings_MissingRowDefaultsToZeroRates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	settings := NewSettingsService(db)

	got, err := settings.Get()
	testutil.AssertNoError(t, err)
	if got.Level1Bps != 0 || got.Level2Bps != 0 {
		t.Errorf("expected zero rates, got %+v", got)
	}
}

func TestSettings_UpdateUpserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	settings := NewSettingsService(db)

	updated, err := settings.Update(800, 300)
	testutil.AssertNoError(t, err)
	if updated.Level1Bps != 800 || updated.Level2Bps != 300 {
		t.Errorf("unexpected rates: %+v", updated)
	}

	updated, err = settings.Update(500, 0)
	testutil.AssertNoError(t, err)

	got, err := settings.Get()
	testutil.AssertNoError(t, err)
	if got.Level1Bps != 500 || got.Level2Bps != 0 {
		t.Errorf("expected updated rates, got %+v", got)
	}

	// Exactly one row ever exists.
	var count int64
	testutil.AssertNoError(t, db.Model(&models.Settings{}).Count(&count).Error)
	if count != 1 {
		t.Errorf("expected singleton settings row, got %d", count)
	}

	_, err = settings.Update(-1, 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

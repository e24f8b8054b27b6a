package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
)

// settingsID is the primary key of the singleton settings row.
const settingsID = 1

// settingsService loads and updates the platform settings row.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// Get returns the settings row as a value. A missing row yields zero
// rates, which the cascade treats as commission disabled.
func (s *settingsService) Get() (models.Settings, error) {
	var settings models.Settings
	if err := s.db.First(&settings, "id = ?", settingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Settings{ID: settingsID}, nil
		}
		return models.Settings{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// Update upserts the commission rates. Rates are basis points and may
// not be negative.
func (s *settingsService) Update(level1Bps, level2Bps int64) (models.Settings, error) {
	if level1Bps < 0 || level2Bps < 0 {
		return models.Settings{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "commission rates may not be negative")
	}

	settings := models.Settings{
		ID:        settingsID,
		Level1Bps: level1Bps,
		Level2Bps: level2Bps,
	}
	if err := s.db.Save(&settings).Error; err != nil {
		return models.Settings{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// ListDepositAddresses returns the platform deposit destinations users
// send funds to, grouped by asset.
func (s *settingsService) ListDepositAddresses() ([]models.DepositAddress, error) {
	var addresses []models.DepositAddress
	if err := s.db.Order("asset, network").Find(&addresses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return addresses, nil
}

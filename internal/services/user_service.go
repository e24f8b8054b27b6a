package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "yieldvault/internal/errors"
	"yieldvault/internal/models"
)

const referralCodeLength = 8

// userService handles registration, login, and saved payout addresses.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a new user. When referralCode names an existing user,
// the new account is linked under that sponsor; the link is set here
// once and never reassigned afterwards.
func (s *userService) Register(email, password, firstName, lastName, referralCode string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	var referredByID *string
	if referralCode != "" {
		var sponsor models.User
		if err := s.db.Where("referral_code = ?", strings.ToUpper(referralCode)).First(&sponsor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrInvalidReferralCode
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		referredByID = &sponsor.ID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ownCode, err := s.generateReferralCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(email),
		Password:     string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		ReferralCode: ownCode,
		ReferredByID: referredByID,
		IsActive:     true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// generateReferralCode produces a short unique uppercase hex code.
func (s *userService) generateReferralCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, referralCodeLength/2)
		if _, err := rand.Read(buf); err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		code := strings.ToUpper(hex.EncodeToString(buf))

		var count int64
		if err := s.db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", apperrors.WithMessage(apperrors.ErrInternalServer, "could not allocate a unique referral code")
}

// GetUserByEmail retrieves an active user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks a password against the stored hash.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// AttemptLogin authenticates by email and password.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// SaveWalletAddress records or replaces the user's payout destination
// for one asset/network pair.
func (s *userService) SaveWalletAddress(userID, asset, network, address, label string) (*models.WalletAddress, error) {
	if !models.AssetSupported(asset) {
		return nil, apperrors.ErrUnsupportedAsset
	}
	if address == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "address is required")
	}

	var existing models.WalletAddress
	err := s.db.Where("user_id = ? AND asset = ? AND network = ?", userID, asset, network).First(&existing).Error
	switch {
	case err == nil:
		existing.Address = address
		existing.Label = label
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		wallet := &models.WalletAddress{
			UserID:  userID,
			Asset:   asset,
			Network: network,
			Address: address,
			Label:   label,
		}
		if err := s.db.Create(wallet).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return wallet, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetWalletAddresses lists the user's saved payout destinations.
func (s *userService) GetWalletAddresses(userID string) ([]models.WalletAddress, error) {
	var addresses []models.WalletAddress
	if err := s.db.Where("user_id = ?", userID).Order("asset, network").Find(&addresses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return addresses, nil
}

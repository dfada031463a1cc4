package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
)

// settingsService manages the singleton user settings row.
type settingsService struct {
	db              *gorm.DB
	defaultCurrency string
	defaultRate     float64
}

// NewSettingsService creates a new SettingsServicer. The defaults seed the
// settings row on first use.
func NewSettingsService(db *gorm.DB, defaultCurrency string, defaultRate float64) SettingsServicer {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	if defaultRate <= 0 {
		defaultRate = models.DefaultDividendWithholdingRate
	}
	return &settingsService{db: db, defaultCurrency: defaultCurrency, defaultRate: defaultRate}
}

// GetUserTaxSettings returns the settings row, creating it with defaults on
// first use.
func (s *settingsService) GetUserTaxSettings(ctx context.Context) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.WithContext(ctx).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings = models.UserSettings{
		BaseCurrency:            s.defaultCurrency,
		DividendWithholdingRate: s.defaultRate,
	}
	if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings patches the settings row. Nil fields are left unchanged.
func (s *settingsService) UpdateSettings(ctx context.Context, baseCurrency *string, withholdingRate *float64) (*models.UserSettings, error) {
	settings, err := s.GetUserTaxSettings(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if baseCurrency != nil {
		code := strings.ToUpper(strings.TrimSpace(*baseCurrency))
		if len(code) != 3 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "Base currency must be a 3-letter ISO code")
		}
		updates["base_currency"] = code
	}
	if withholdingRate != nil {
		if *withholdingRate < 0 || *withholdingRate >= 1 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "Withholding rate must be between 0 and 1")
		}
		updates["dividend_withholding_rate"] = *withholdingRate
	}
	if len(updates) == 0 {
		return settings, nil
	}

	if err := s.db.WithContext(ctx).Model(settings).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

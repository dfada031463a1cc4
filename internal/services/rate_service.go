package services

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"networth/internal/currency"
	apperrors "networth/internal/errors"
	"networth/internal/models"
)

// rateService manages the posted per-currency conversion rates consumed by
// net-worth aggregation.
type rateService struct {
	db *gorm.DB
}

// NewRateService creates a new RateServicer.
func NewRateService(db *gorm.DB) RateServicer {
	return &rateService{db: db}
}

// ListRates returns every posted rate, ordered by currency code.
func (s *rateService) ListRates(ctx context.Context) ([]models.CurrencyRate, error) {
	var rates []models.CurrencyRate
	if err := s.db.WithContext(ctx).Order("code ASC").Find(&rates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rates, nil
}

// UpsertRate posts or replaces the rate for a currency code.
func (s *rateService) UpsertRate(ctx context.Context, code string, rate float64) (*models.CurrencyRate, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Currency code must be a 3-letter ISO code")
	}
	if rate <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Rate must be greater than zero")
	}

	record := models.CurrencyRate{Code: code, Rate: rate}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// LoadConverter snapshots the posted rates into an immutable converter.
func (s *rateService) LoadConverter(ctx context.Context) (*currency.Converter, error) {
	rates, err := s.ListRates(ctx)
	if err != nil {
		return nil, err
	}
	table := make(map[string]float64, len(rates))
	for _, r := range rates {
		table[r.Code] = r.Rate
	}
	return currency.NewConverter(table), nil
}

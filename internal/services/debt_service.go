package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/fincalc"
	"networth/internal/models"
)

// debtService handles debt-related business logic.
type debtService struct {
	db *gorm.DB
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB) DebtServicer {
	return &debtService{db: db}
}

// CreateDebt creates a new debt, optionally together with the real-estate
// asset it finances. The current balance starts at the principal, and the
// monthly payment defaults to the amortized estimate when terms are given.
func (s *debtService) CreateDebt(ctx context.Context, input CreateDebtInput) (*models.Debt, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Debt name is required")
	}
	if input.Principal <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Principal must be greater than zero")
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	monthly := input.MonthlyPayment
	if monthly == 0 {
		monthly = fincalc.MonthlyPayment(input.Principal, input.InterestRate, input.TermMonths)
	}

	debt := &models.Debt{
		Name:           name,
		DebtType:       input.DebtType,
		Currency:       input.Currency,
		Principal:      input.Principal,
		CurrentBalance: input.Principal,
		InterestRate:   input.InterestRate,
		TermMonths:     input.TermMonths,
		StartDate:      input.StartDate,
		MonthlyPayment: monthly,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.PropertyAsset != nil {
			property := &models.Asset{
				Name:     strings.TrimSpace(input.PropertyAsset.Name),
				Type:     models.AssetTypeRealEstate,
				Currency: input.Currency,
				Balance:  input.PropertyAsset.Balance,
				IsActive: true,
			}
			if property.Name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Property asset name is required")
			}
			if txErr := tx.Create(property).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			debt.PropertyAssetID = &property.ID
		}
		if txErr := tx.Create(debt).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// ListDebts returns all debts ordered by name.
func (s *debtService) ListDebts(ctx context.Context) ([]models.Debt, error) {
	var debts []models.Debt
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// GetDebtByID retrieves a debt by id.
func (s *debtService) GetDebtByID(ctx context.Context, id string) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.WithContext(ctx).First(&debt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// UpdateDebt patches debt fields. Setting CurrentBalance here is the
// explicit adjustment path — the only way a debt balance may move upward.
func (s *debtService) UpdateDebt(ctx context.Context, id string, patch UpdateDebtInput) (*models.Debt, error) {
	debt, err := s.GetDebtByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Debt name is required")
		}
		updates["name"] = name
	}
	if patch.InterestRate != nil {
		updates["interest_rate"] = *patch.InterestRate
	}
	if patch.TermMonths != nil {
		updates["term_months"] = *patch.TermMonths
	}
	if patch.MonthlyPayment != nil {
		updates["monthly_payment"] = *patch.MonthlyPayment
	}
	if patch.CurrentBalance != nil {
		if *patch.CurrentBalance < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Debt balance cannot be negative")
		}
		updates["current_balance"] = *patch.CurrentBalance
	}
	if len(updates) == 0 {
		return debt, nil
	}

	if err := s.db.WithContext(ctx).Model(debt).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

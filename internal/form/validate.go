package form

import (
	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/preset"
)

// validate checks every rule that must hold before a submission attempt.
// It returns the first violation; validation errors never reach the
// repository.
func validate(s State) *apperrors.AppError {
	if s.Phase == PhaseCategorySelect {
		return apperrors.WithMessage(apperrors.ErrValidation, "Select a category first")
	}

	if s.AmountValue() <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}

	if s.tickerDriven() {
		if s.Ticker == "" {
			return apperrors.WithMessage(apperrors.ErrValidation, "Select a ticker symbol")
		}
		if s.SharesValue() <= 0 {
			return apperrors.WithMessage(apperrors.ErrValidation, "Shares must be greater than zero")
		}
	}

	if s.Preset.Extra.Shares && !s.Preset.Extra.InvestmentType && s.SharesValue() <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Shares must be greater than zero")
	}

	if s.Preset.RequiresDebt && s.DebtID == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "Select a debt")
	}

	// Endpoint requirements by flow type. An endpoint in inline-create
	// sub-mode is satisfied later, at submission.
	fromSatisfied := s.EffectiveFromID() != "" || s.CreateFrom != nil
	toSatisfied := s.EffectiveToID() != "" || s.CreateTo != nil || s.tickerDriven()

	switch s.Preset.FlowType {
	case models.FlowTypeIncome:
		if s.Preset.To.Kind == preset.EndpointAsset && !s.NoSpecificAccount && !toSatisfied {
			return apperrors.WithMessage(apperrors.ErrValidation, "Select a destination account")
		}
	case models.FlowTypeExpense:
		if s.Preset.From.Kind == preset.EndpointAsset && !fromSatisfied {
			return apperrors.WithMessage(apperrors.ErrValidation, "Select a source account")
		}
	case models.FlowTypeTransfer:
		if s.Preset.From.Kind == preset.EndpointAsset && !fromSatisfied {
			return apperrors.WithMessage(apperrors.ErrValidation, "Select a source account")
		}
		if (s.Preset.To.Kind == preset.EndpointAsset || s.Preset.To.Kind == preset.EndpointSameAsFrom) && !toSatisfied {
			return apperrors.WithMessage(apperrors.ErrValidation, "Select a destination account")
		}
	}

	return nil
}

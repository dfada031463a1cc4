package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/form"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/preset"
)

// flowService executes flow submissions and maintains the balance effects
// they imply. Assets, the flow record, and every balance change move inside
// one database transaction: a failure at any step rolls the whole unit back.
type flowService struct {
	db *gorm.DB
}

// NewFlowService creates a new FlowServicer.
func NewFlowService(db *gorm.DB) FlowServicer {
	return &flowService{db: db}
}

// SubmitFlow executes a form submission as one unit.
func (s *flowService) SubmitFlow(ctx context.Context, sub form.Submission) (*models.Flow, error) {
	flow := sub.Flow
	if flow.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}
	if !preset.Valid(flow.Category) {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownCategory, "Unknown flow category: "+flow.Category)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Inline assets first. Their failure aborts the submission before
		// any flow exists.
		if sub.NewFromAsset != nil {
			a := *sub.NewFromAsset
			if txErr := tx.Create(&a).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrAssetCreationFailed, txErr)
			}
			id := a.ID
			flow.FromAssetID = &id
		}
		if sub.NewToAsset != nil {
			a := *sub.NewToAsset
			if txErr := tx.Create(&a).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrAssetCreationFailed, txErr)
			}
			id := a.ID
			flow.ToAssetID = &id
		}

		// Debt payment: clamp the reduction so payoff lands on exactly
		// zero, and record what was actually applied.
		if flow.Category == preset.CategoryPayDebt {
			if flow.DebtID == nil {
				return apperrors.WithMessage(apperrors.ErrValidation, "Select a debt")
			}
			var debt models.Debt
			if txErr := tx.First(&debt, "id = ?", *flow.DebtID).Error; txErr != nil {
				if errors.Is(txErr, gorm.ErrRecordNotFound) {
					return apperrors.ErrDebtNotFound
				}
				return apperrors.Wrap(apperrors.ErrRepository, txErr)
			}
			reduction := clampPayment(flow.Amount, debt.CurrentBalance)
			if flow.Metadata == nil {
				flow.Metadata = map[string]interface{}{}
			}
			flow.Metadata[models.MetaDebtReduction] = reduction
			newBalance := subMoney(debt.CurrentBalance, reduction)
			if txErr := tx.Model(&debt).Update("current_balance", newBalance).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrRepository, txErr)
			}
		}

		if txErr := tx.Create(&flow).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrRepository, txErr)
		}

		return s.applyEffects(tx, &flow, false)
	})
	if err != nil {
		return nil, err
	}
	return &flow, nil
}

// applyEffects moves the endpoint balances a flow implies. With reverse
// set, every movement is undone instead (flow deletion).
//
// Movement semantics: a share-based endpoint moves by the flow's share
// count, a monetary endpoint by the flow amount. The destination of a
// dividend is credited net of withholding. A reinvest flow (from == to)
// only credits shares — the reinvested dividend never touches cash.
func (s *flowService) applyEffects(tx *gorm.DB, flow *models.Flow, reverse bool) error {
	sign := 1.0
	if reverse {
		sign = -1.0
	}

	reinvest := flow.FromAssetID != nil && flow.ToAssetID != nil && *flow.FromAssetID == *flow.ToAssetID

	if flow.FromAssetID != nil && !reinvest {
		var from models.Asset
		if err := tx.First(&from, "id = ?", *flow.FromAssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAssetNotFound
			}
			return apperrors.Wrap(apperrors.ErrRepository, err)
		}

		delta := flow.Amount
		if from.IsShareBased() && flow.Shares() > 0 {
			delta = flow.Shares()
			if !reverse && delta > from.Balance {
				return apperrors.ErrInsufficientShare
			}
		}
		newBalance := subMoney(from.Balance, sign*delta)
		if err := tx.Model(&from).Update("balance", newBalance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrRepository, err)
		}
	}

	if flow.ToAssetID != nil {
		var to models.Asset
		if err := tx.First(&to, "id = ?", *flow.ToAssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAssetNotFound
			}
			return apperrors.Wrap(apperrors.ErrRepository, err)
		}

		var delta float64
		if to.IsShareBased() && flow.Shares() > 0 {
			delta = flow.Shares()
		} else {
			delta = flow.Amount
			if withheld := flow.Withheld(); withheld > 0 {
				delta = subMoney(delta, withheld)
			}
		}
		newBalance := addMoney(to.Balance, sign*delta)
		if err := tx.Model(&to).Update("balance", newBalance).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrRepository, err)
		}
	}

	return nil
}

// ListFlows returns a paginated, filtered flow history, newest first.
func (s *flowService) ListFlows(ctx context.Context, page pagination.PageRequest, filter FlowFilter) (*pagination.PageResponse[models.Flow], error) {
	page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.Flow{})
	base = applyFlowFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var flows []models.Flow
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&flows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(flows, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyFlowFilters(q *gorm.DB, f FlowFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.AssetID != nil {
		q = q.Where("from_asset_id = ? OR to_asset_id = ?", *f.AssetID, *f.AssetID)
	}
	return q
}

// GetFlowByID retrieves a flow by id.
func (s *flowService) GetFlowByID(ctx context.Context, id string) (*models.Flow, error) {
	var flow models.Flow
	if err := s.db.WithContext(ctx).First(&flow, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFlowNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &flow, nil
}

// DeleteFlow deletes a flow and reverses its balance effects, including
// the exact clamped reduction of a debt payment.
func (s *flowService) DeleteFlow(ctx context.Context, id string) error {
	flow, err := s.GetFlowByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Delete(flow).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrRepository, txErr)
		}

		if flow.Category == preset.CategoryPayDebt && flow.DebtID != nil {
			var debt models.Debt
			if txErr := tx.First(&debt, "id = ?", *flow.DebtID).Error; txErr != nil {
				if errors.Is(txErr, gorm.ErrRecordNotFound) {
					return apperrors.ErrDebtNotFound
				}
				return apperrors.Wrap(apperrors.ErrRepository, txErr)
			}
			restored := addMoney(debt.CurrentBalance, flow.DebtReduction())
			if txErr := tx.Model(&debt).Update("current_balance", restored).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrRepository, txErr)
			}
		}

		return s.applyEffects(tx, flow, true)
	})
}

// ListInvestFlowsForAsset returns the historical purchase flows whose
// destination is the asset, oldest first, for cost-basis calculation.
func (s *flowService) ListInvestFlowsForAsset(ctx context.Context, assetID string) ([]models.Flow, error) {
	var flows []models.Flow
	if err := s.db.WithContext(ctx).
		Where("to_asset_id = ? AND category IN ?", assetID, []string{preset.CategoryInvest, preset.CategoryReinvest}).
		Order("date ASC").
		Find(&flows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return flows, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/preset"
)

// assetService handles asset-related business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset creates a new asset. Names are unique case-insensitively;
// creating under an existing name is a conflict, not a silent reuse — the
// reuse path belongs to flow submission.
func (s *assetService) CreateAsset(ctx context.Context, input CreateAssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Asset name is required")
	}
	if input.Balance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Balance cannot be negative")
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	if existing, err := s.FindByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateAsset
	}

	asset := &models.Asset{
		Name:     name,
		Type:     input.Type,
		Currency: input.Currency,
		Balance:  input.Balance,
		Ticker:   strings.ToUpper(strings.TrimSpace(input.Ticker)),
		Market:   input.Market,
		Metadata: input.Metadata,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// ListAssets returns all active assets. The collection is small per user,
// so consumers get the full snapshot for endpoint resolution.
func (s *assetService) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assets, nil
}

// GetAssetByID retrieves an asset by id.
func (s *assetService) GetAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset patches descriptive asset fields. Balance is not patchable
// here: it only moves through flows, share-count edits, or adjustments.
func (s *assetService) UpdateAsset(ctx context.Context, id string, patch UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Asset name is required")
		}
		updates["name"] = name
	}
	if patch.Ticker != nil {
		updates["ticker"] = strings.ToUpper(strings.TrimSpace(*patch.Ticker))
	}
	if patch.Market != nil {
		updates["market"] = *patch.Market
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) == 0 {
		return asset, nil
	}

	if err := s.db.WithContext(ctx).Model(asset).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// UpdateShareCount edits the share count of a share-based asset directly.
// This is the only direct balance edit investment assets support.
func (s *assetService) UpdateShareCount(ctx context.Context, id string, shares float64) (*models.Asset, error) {
	if shares < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Share count cannot be negative")
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asset.IsShareBased() {
		return nil, apperrors.ErrNotShareBased
	}

	if err := s.db.WithContext(ctx).Model(asset).Update("balance", shares).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// AdjustBalance sets a new balance on an adjustable asset. The adjustment
// itself is recorded as a balance_adjustment flow so history explains every
// balance change.
func (s *assetService) AdjustBalance(ctx context.Context, id string, newBalance float64, date time.Time) (*models.Flow, error) {
	if newBalance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Balance cannot be negative")
	}

	asset, err := s.GetAssetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asset.SupportsBalanceAdjustment() {
		return nil, apperrors.ErrNotAdjustable
	}
	if date.IsZero() {
		date = time.Now()
	}

	delta := subMoney(newBalance, asset.Balance)
	assetID := asset.ID
	flow := &models.Flow{
		Type:     models.FlowTypeTransfer,
		Category: preset.CategoryAdjustBalance,
		Amount:   delta,
		Currency: asset.Currency,
		Date:     date,
		Metadata: map[string]interface{}{models.MetaExternalName: "Adjustment"},
	}
	if delta >= 0 {
		flow.ToAssetID = &assetID
	} else {
		flow.Amount = -delta
		flow.FromAssetID = &assetID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(flow).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Model(asset).Update("balance", newBalance).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return flow, nil
}

// FindByName returns the active asset whose name matches case-insensitively.
func (s *assetService) FindByName(ctx context.Context, name string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(name)), true).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// FindByTicker returns the active asset whose ticker matches
// case-insensitively.
func (s *assetService) FindByTicker(ctx context.Context, ticker string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).
		Where("UPPER(ticker) = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(ticker)), true).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

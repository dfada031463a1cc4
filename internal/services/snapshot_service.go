package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/marketdata"
	"networth/internal/models"
	"networth/internal/pagination"
)

// snapshotService aggregates all holdings into the base currency and keeps
// a point-in-time history of the result.
type snapshotService struct {
	db       *gorm.DB
	rates    RateServicer
	settings SettingsServicer
	market   marketdata.Client
}

// NewSnapshotService creates a new SnapshotServicer. The market data client
// may be nil, in which case share-based holdings are valued from their
// recorded cost instead of live quotes.
func NewSnapshotService(db *gorm.DB, rates RateServicer, settings SettingsServicer, market marketdata.Client) SnapshotServicer {
	return &snapshotService{db: db, rates: rates, settings: settings, market: market}
}

// ComputeSummary values every active asset and open debt in the base
// currency. A holding whose value cannot be established — no quote, no
// posted conversion rate — is skipped and the summary is marked degraded
// rather than silently wrong.
func (s *snapshotService) ComputeSummary(ctx context.Context) (*NetWorthSummary, error) {
	log := logger.Named("snapshots")

	settings, err := s.settings.GetUserTaxSettings(ctx)
	if err != nil {
		return nil, err
	}
	converter, err := s.rates.LoadConverter(ctx)
	if err != nil {
		return nil, err
	}

	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var debts []models.Debt
	if err := s.db.WithContext(ctx).Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &NetWorthSummary{
		Currency:    settings.BaseCurrency,
		ByAssetType: make(map[string]float64),
	}

	for i := range assets {
		asset := &assets[i]
		value, valueCurrency, ok := s.assetValue(ctx, asset)
		if !ok {
			summary.Degraded = true
			continue
		}
		converted, convErr := converter.Convert(value, valueCurrency, settings.BaseCurrency)
		if convErr != nil {
			log.Warnw("asset skipped in summary",
				"asset_id", asset.ID,
				"currency", valueCurrency,
				"error", convErr,
			)
			summary.Degraded = true
			continue
		}
		summary.TotalAssets = addMoney(summary.TotalAssets, converted)
		summary.ByAssetType[string(asset.Type)] = addMoney(summary.ByAssetType[string(asset.Type)], converted)
	}

	for i := range debts {
		debt := &debts[i]
		converted, convErr := converter.Convert(debt.CurrentBalance, debt.Currency, settings.BaseCurrency)
		if convErr != nil {
			log.Warnw("debt skipped in summary",
				"debt_id", debt.ID,
				"currency", debt.Currency,
				"error", convErr,
			)
			summary.Degraded = true
			continue
		}
		summary.TotalDebts = addMoney(summary.TotalDebts, converted)
	}

	summary.NetWorth = subMoney(summary.TotalAssets, summary.TotalDebts)
	return summary, nil
}

// assetValue returns the market value of one asset and the currency it is
// denominated in. Monetary assets are worth their balance. Share-based
// assets are worth shares times the live quote; without a quote the average
// cost of the recorded purchases is used instead.
func (s *snapshotService) assetValue(ctx context.Context, asset *models.Asset) (float64, string, bool) {
	if !asset.IsShareBased() {
		return asset.Balance, asset.Currency, true
	}
	if asset.Balance <= 0 {
		return 0, asset.Currency, true
	}

	if s.market != nil && asset.Ticker != "" {
		quote, err := s.market.GetQuote(ctx, asset.Ticker)
		if err == nil && quote.Price > 0 {
			currencyCode := quote.Currency
			if currencyCode == "" {
				currencyCode = asset.Currency
			}
			return asset.Balance * quote.Price, currencyCode, true
		}
		logger.Get().Warnw("quote unavailable, falling back to cost basis",
			"asset_id", asset.ID,
			"ticker", asset.Ticker,
			"error", err,
		)
	}

	cost, ok := s.costValue(ctx, asset)
	if !ok {
		return 0, asset.Currency, false
	}
	return cost, asset.Currency, true
}

// costValue prices the held shares at the average purchase price recorded
// in the asset's flow history.
func (s *snapshotService) costValue(ctx context.Context, asset *models.Asset) (float64, bool) {
	var flows []models.Flow
	if err := s.db.WithContext(ctx).
		Where("to_asset_id = ?", asset.ID).
		Order("date ASC").
		Find(&flows).Error; err != nil {
		return 0, false
	}

	var totalShares, totalCost float64
	for i := range flows {
		shares := flows[i].Shares()
		if shares <= 0 {
			continue
		}
		totalShares += shares
		totalCost += shares * flows[i].PricePerShare()
	}
	if totalShares <= 0 {
		return 0, false
	}
	return asset.Balance * (totalCost / totalShares), true
}

// RecordSnapshot computes the summary and persists it as a snapshot row.
func (s *snapshotService) RecordSnapshot(ctx context.Context, at time.Time) (*models.NetWorthSnapshot, error) {
	summary, err := s.ComputeSummary(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := models.NetWorthSnapshot{
		RecordedAt:  at,
		Currency:    summary.Currency,
		TotalAssets: summary.TotalAssets,
		TotalDebts:  summary.TotalDebts,
		NetWorth:    summary.NetWorth,
	}
	if err := s.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snapshot, nil
}

// ListSnapshots returns the snapshot history, newest first.
func (s *snapshotService) ListSnapshots(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
	page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.NetWorthSnapshot{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.NetWorthSnapshot
	if err := base.Scopes(pagination.Paginate(page)).
		Order("recorded_at DESC").
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}

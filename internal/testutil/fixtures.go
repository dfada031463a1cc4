package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"networth/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAsset creates an asset of the given type and balance.
func CreateTestAsset(t *testing.T, db *gorm.DB, assetType models.AssetType, balance float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Name:     fmt.Sprintf("Test Asset %d", nextID()),
		Type:     assetType,
		Currency: "USD",
		Balance:  balance,
		IsActive: true,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestCashAsset creates a cash asset with the given balance.
func CreateTestCashAsset(t *testing.T, db *gorm.DB, balance float64) *models.Asset {
	t.Helper()
	return CreateTestAsset(t, db, models.AssetTypeCash, balance)
}

// CreateTestStockAsset creates a stock asset with the given ticker and
// share count.
func CreateTestStockAsset(t *testing.T, db *gorm.DB, ticker string, shares float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Name:     fmt.Sprintf("Test Stock %d", nextID()),
		Type:     models.AssetTypeStock,
		Currency: "USD",
		Balance:  shares,
		Ticker:   ticker,
		IsActive: true,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test stock asset: %v", err)
	}
	return asset
}

// CreateTestDebt creates a loan debt with the given principal.
func CreateTestDebt(t *testing.T, db *gorm.DB, principal float64) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		Name:           fmt.Sprintf("Test Debt %d", nextID()),
		DebtType:       models.DebtTypeLoan,
		Currency:       "USD",
		Principal:      principal,
		CurrentBalance: principal,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestRate posts a conversion rate for a currency code.
func CreateTestRate(t *testing.T, db *gorm.DB, code string, rate float64) *models.CurrencyRate {
	t.Helper()

	record := &models.CurrencyRate{Code: code, Rate: rate}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test rate: %v", err)
	}
	return record
}

// CreateTestFlow creates a flow of the given category and amount between
// the given endpoints. Either endpoint id may be empty.
func CreateTestFlow(t *testing.T, db *gorm.DB, category string, amount float64, fromID, toID string) *models.Flow {
	t.Helper()

	flow := &models.Flow{
		Type:     models.FlowTypeTransfer,
		Category: category,
		Amount:   amount,
		Currency: "USD",
		Date:     time.Now(),
	}
	if fromID != "" {
		flow.FromAssetID = &fromID
	}
	if toID != "" {
		flow.ToAssetID = &toID
	}
	if err := db.Create(flow).Error; err != nil {
		t.Fatalf("failed to create test flow: %v", err)
	}
	return flow
}

// CreateTestInvestFlow creates an invest flow into an asset with share and
// price metadata, for cost-basis history.
func CreateTestInvestFlow(t *testing.T, db *gorm.DB, toID string, amount, shares float64) *models.Flow {
	t.Helper()

	flow := &models.Flow{
		Type:     models.FlowTypeTransfer,
		Category: "invest",
		Amount:   amount,
		Currency: "USD",
		Date:     time.Now(),
		Metadata: map[string]interface{}{
			models.MetaShares:        shares,
			models.MetaPricePerShare: amount / shares,
		},
	}
	flow.ToAssetID = &toID
	if err := db.Create(flow).Error; err != nil {
		t.Fatalf("failed to create test invest flow: %v", err)
	}
	return flow
}

// CreateTestSchedule creates an active monthly schedule due at the given
// date.
func CreateTestSchedule(t *testing.T, db *gorm.DB, category string, amount float64, nextRun time.Time, fromID, toID string) *models.RecurringSchedule {
	t.Helper()

	schedule := &models.RecurringSchedule{
		Frequency:   models.FrequencyMonthly,
		NextRunDate: nextRun,
		IsActive:    true,
		FlowType:    models.FlowTypeTransfer,
		Category:    category,
		Amount:      amount,
		Currency:    "USD",
		Description: fmt.Sprintf("Test Schedule %d", nextID()),
	}
	if fromID != "" {
		schedule.FromAssetID = &fromID
	}
	if toID != "" {
		schedule.ToAssetID = &toID
	}
	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test schedule: %v", err)
	}
	return schedule
}

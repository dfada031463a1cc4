package services

import (
	"context"
	"testing"
	"time"

	apperrors "networth/internal/errors"
	"networth/internal/form"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/preset"
	"networth/internal/testutil"

	"gorm.io/gorm"
)

func submission(category string, amount float64, fromID, toID string, meta map[string]interface{}) form.Submission {
	flow := models.Flow{
		Type:     models.FlowTypeTransfer,
		Category: category,
		Amount:   amount,
		Currency: "USD",
		Date:     time.Now(),
		Metadata: meta,
	}
	if fromID != "" {
		flow.FromAssetID = &fromID
	}
	if toID != "" {
		flow.ToAssetID = &toID
	}
	return form.Submission{Flow: flow}
}

func reloadAsset(t *testing.T, db *gorm.DB, id string) *models.Asset {
	t.Helper()
	var asset models.Asset
	if err := db.First(&asset, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload asset: %v", err)
	}
	return &asset
}

func reloadDebt(t *testing.T, db *gorm.DB, id string) *models.Debt {
	t.Helper()
	var debt models.Debt
	if err := db.First(&debt, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload debt: %v", err)
	}
	return &debt
}

func TestSubmitFlowTransferMovesBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	from := testutil.CreateTestCashAsset(t, db, 500)
	to := testutil.CreateTestCashAsset(t, db, 100)

	flow, err := service.SubmitFlow(context.Background(), submission(preset.CategoryTransfer, 250, from.ID, to.ID, nil))
	testutil.AssertNoError(t, err)
	if flow.ID == "" {
		t.Error("expected a persisted flow id")
	}

	testutil.AssertFloatEquals(t, reloadAsset(t, db, from.ID).Balance, 250, 1e-9)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, to.ID).Balance, 350, 1e-9)
}

func TestSubmitFlowRejectsUnknownCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	_, err := service.SubmitFlow(context.Background(), submission("lottery_win", 100, "", "", nil))
	testutil.AssertAppError(t, err, apperrors.ErrUnknownCategory.Code)
}

func TestSubmitFlowRejectsNonPositiveAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	_, err := service.SubmitFlow(context.Background(), submission(preset.CategoryTransfer, 0, "", "", nil))
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
}

func TestSubmitFlowCreatesInlineAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	sub := submission(preset.CategorySalary, 100, "", "", nil)
	sub.NewToAsset = &models.Asset{
		Name:     "Inline Checking",
		Type:     models.AssetTypeCash,
		Currency: "USD",
		IsActive: true,
	}

	flow, err := service.SubmitFlow(context.Background(), sub)
	testutil.AssertNoError(t, err)
	if flow.ToAssetID == nil {
		t.Fatal("expected the inline asset wired as destination")
	}

	created := reloadAsset(t, db, *flow.ToAssetID)
	if created.Name != "Inline Checking" {
		t.Errorf("unexpected inline asset name %q", created.Name)
	}
	testutil.AssertFloatEquals(t, created.Balance, 100, 1e-9)
}

func TestSubmitFlowDividendCreditsNetOfWithholding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	cash := testutil.CreateTestCashAsset(t, db, 100)
	meta := map[string]interface{}{
		models.MetaTaxRate:     0.30,
		models.MetaTaxWithheld: 30.0,
	}

	_, err := service.SubmitFlow(context.Background(), submission(preset.CategoryDividend, 100, "", cash.ID, meta))
	testutil.AssertNoError(t, err)

	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 170, 1e-9)
}

func TestSubmitFlowInvestMovesCashAndShares(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	cash := testutil.CreateTestCashAsset(t, db, 1000)
	stock := testutil.CreateTestStockAsset(t, db, "VOO", 10)
	meta := map[string]interface{}{models.MetaShares: 5.0}

	_, err := service.SubmitFlow(context.Background(), submission(preset.CategoryInvest, 500, cash.ID, stock.ID, meta))
	testutil.AssertNoError(t, err)

	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 500, 1e-9)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, stock.ID).Balance, 15, 1e-9)
}

func TestSubmitFlowReinvestCreditsSharesOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	stock := testutil.CreateTestStockAsset(t, db, "VOO", 10)
	meta := map[string]interface{}{models.MetaShares: 2.0}

	_, err := service.SubmitFlow(context.Background(), submission(preset.CategoryReinvest, 50, stock.ID, stock.ID, meta))
	testutil.AssertNoError(t, err)

	// The reinvested dividend never debits the asset; only shares move.
	testutil.AssertFloatEquals(t, reloadAsset(t, db, stock.ID).Balance, 12, 1e-9)
}

func TestSubmitFlowOverSellRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	stock := testutil.CreateTestStockAsset(t, db, "VOO", 10)
	cash := testutil.CreateTestCashAsset(t, db, 0)
	meta := map[string]interface{}{models.MetaShares: 20.0}

	_, err := service.SubmitFlow(context.Background(), submission(preset.CategorySellInvestment, 2000, stock.ID, cash.ID, meta))
	testutil.AssertAppError(t, err, apperrors.ErrInsufficientShare.Code)

	// The whole unit rolled back.
	testutil.AssertFloatEquals(t, reloadAsset(t, db, stock.ID).Balance, 10, 1e-9)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 0, 1e-9)
}

func TestSubmitFlowPayDebtClampsToZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	cash := testutil.CreateTestCashAsset(t, db, 1000)
	debt := testutil.CreateTestDebt(t, db, 500)

	sub := submission(preset.CategoryPayDebt, 600, cash.ID, "", nil)
	debtID := debt.ID
	sub.Flow.DebtID = &debtID

	flow, err := service.SubmitFlow(context.Background(), sub)
	testutil.AssertNoError(t, err)

	// The debt lands on exactly zero, never negative, and the flow records
	// the reduction actually applied.
	testutil.AssertFloatEquals(t, reloadDebt(t, db, debt.ID).CurrentBalance, 0, 1e-9)
	testutil.AssertFloatEquals(t, flow.DebtReduction(), 500, 1e-9)
	// The cash account pays the full amount entered.
	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 400, 1e-9)
}

func TestSubmitFlowPayDebtUnknownDebt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	cash := testutil.CreateTestCashAsset(t, db, 1000)
	sub := submission(preset.CategoryPayDebt, 100, cash.ID, "", nil)
	missing := "00000000-0000-0000-0000-000000000000"
	sub.Flow.DebtID = &missing

	_, err := service.SubmitFlow(context.Background(), sub)
	testutil.AssertAppError(t, err, apperrors.ErrDebtNotFound.Code)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 1000, 1e-9)
}

func TestDeleteFlowReversesBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	from := testutil.CreateTestCashAsset(t, db, 500)
	to := testutil.CreateTestCashAsset(t, db, 100)

	flow, err := service.SubmitFlow(context.Background(), submission(preset.CategoryTransfer, 250, from.ID, to.ID, nil))
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, service.DeleteFlow(context.Background(), flow.ID))

	testutil.AssertFloatEquals(t, reloadAsset(t, db, from.ID).Balance, 500, 1e-9)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, to.ID).Balance, 100, 1e-9)

	_, err = service.GetFlowByID(context.Background(), flow.ID)
	testutil.AssertAppError(t, err, apperrors.ErrFlowNotFound.Code)
}

func TestDeleteFlowRestoresClampedDebtExactly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	cash := testutil.CreateTestCashAsset(t, db, 1000)
	debt := testutil.CreateTestDebt(t, db, 500)

	sub := submission(preset.CategoryPayDebt, 600, cash.ID, "", nil)
	debtID := debt.ID
	sub.Flow.DebtID = &debtID

	flow, err := service.SubmitFlow(context.Background(), sub)
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, service.DeleteFlow(context.Background(), flow.ID))

	// The recorded reduction, not the entered amount, is what comes back.
	testutil.AssertFloatEquals(t, reloadDebt(t, db, debt.ID).CurrentBalance, 500, 1e-9)
	testutil.AssertFloatEquals(t, reloadAsset(t, db, cash.ID).Balance, 1000, 1e-9)
}

func TestListFlowsFiltersByAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	a := testutil.CreateTestCashAsset(t, db, 100)
	b := testutil.CreateTestCashAsset(t, db, 100)
	testutil.CreateTestFlow(t, db, preset.CategoryTransfer, 10, a.ID, b.ID)
	testutil.CreateTestFlow(t, db, preset.CategoryTransfer, 20, b.ID, a.ID)
	other := testutil.CreateTestCashAsset(t, db, 100)
	testutil.CreateTestFlow(t, db, preset.CategoryTransfer, 30, other.ID, "")

	assetID := a.ID
	page := pagination.PageRequest{Page: 1, PageSize: 10}
	result, err := service.ListFlows(context.Background(), page, FlowFilter{AssetID: &assetID})
	testutil.AssertNoError(t, err)

	if len(result.Data) != 2 {
		t.Fatalf("expected 2 flows touching the asset, got %d", len(result.Data))
	}
	for _, f := range result.Data {
		touches := (f.FromAssetID != nil && *f.FromAssetID == a.ID) ||
			(f.ToAssetID != nil && *f.ToAssetID == a.ID)
		if !touches {
			t.Errorf("flow %s does not touch the filtered asset", f.ID)
		}
	}
}

func TestListInvestFlowsForAsset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewFlowService(db)

	stock := testutil.CreateTestStockAsset(t, db, "VOO", 30)
	testutil.CreateTestInvestFlow(t, db, stock.ID, 1000, 10)
	testutil.CreateTestInvestFlow(t, db, stock.ID, 3000, 20)
	// A sale against the asset is not purchase history.
	testutil.CreateTestFlow(t, db, preset.CategorySellInvestment, 500, stock.ID, "")

	flows, err := service.ListInvestFlowsForAsset(context.Background(), stock.ID)
	testutil.AssertNoError(t, err)
	if len(flows) != 2 {
		t.Fatalf("expected 2 purchase flows, got %d", len(flows))
	}
	for _, f := range flows {
		if f.Category != preset.CategoryInvest && f.Category != preset.CategoryReinvest {
			t.Errorf("unexpected category %q in purchase history", f.Category)
		}
	}
}

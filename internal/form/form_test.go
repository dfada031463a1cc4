package form

import (
	"context"
	"sync"
	"testing"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/preset"
	"networth/internal/testutil"
)

// fakeRepo is an in-memory Repository for exercising the controller
// without a database.
type fakeRepo struct {
	mu          sync.Mutex
	assets      []models.Asset
	debts       map[string]*models.Debt
	settings    models.UserSettings
	invest      map[string][]models.Flow
	submitErr   error
	submissions []Submission

	// When set, SubmitFlow signals submitStarted and then blocks until
	// submitRelease closes.
	submitStarted chan struct{}
	submitRelease chan struct{}
}

func newFakeRepo(assets ...models.Asset) *fakeRepo {
	return &fakeRepo{
		assets:   assets,
		debts:    make(map[string]*models.Debt),
		invest:   make(map[string][]models.Flow),
		settings: models.UserSettings{BaseCurrency: "USD", DividendWithholdingRate: 0.30},
	}
}

func (r *fakeRepo) ListAssets(ctx context.Context) ([]models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Asset, len(r.assets))
	copy(out, r.assets)
	return out, nil
}

func (r *fakeRepo) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.debts[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, apperrors.ErrDebtNotFound
}

func (r *fakeRepo) SubmitFlow(ctx context.Context, sub Submission) (*models.Flow, error) {
	if r.submitStarted != nil {
		r.submitStarted <- struct{}{}
		<-r.submitRelease
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.submitErr != nil {
		return nil, r.submitErr
	}
	r.submissions = append(r.submissions, sub)
	flow := sub.Flow
	flow.ID = "flow-1"
	return &flow, nil
}

func (r *fakeRepo) ListInvestFlowsForAsset(ctx context.Context, assetID string) ([]models.Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invest[assetID], nil
}

func (r *fakeRepo) GetUserTaxSettings(ctx context.Context) (*models.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := r.settings
	return &copied, nil
}

func (r *fakeRepo) lastSubmission(t *testing.T) Submission {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.submissions) == 0 {
		t.Fatal("expected a submission")
	}
	return r.submissions[len(r.submissions)-1]
}

func testAsset(id, name string, assetType models.AssetType, balance float64) models.Asset {
	a := models.Asset{Name: name, Type: assetType, Currency: "USD", Balance: balance, IsActive: true}
	a.ID = id
	return a
}

func TestSelectCategoryUnknown(t *testing.T) {
	c := NewController(newFakeRepo(), nil)
	err := c.SelectCategory(context.Background(), "lottery_win")
	testutil.AssertAppError(t, err, apperrors.ErrUnknownCategory.Code)
}

func TestSeedExternalDefaultAndAutoSelect(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))

	s := c.State()
	if s.FromExternal != "Employer" {
		t.Errorf("expected seeded employer name, got %q", s.FromExternal)
	}
	if s.AutoToID != "c1" || !s.ToHidden {
		t.Errorf("expected the single cash asset to auto-select and hide, got %+v", s)
	}
}

func TestNumericTextNormalization(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))

	c.UpdateField(FieldAmount, "1,234.50")
	if got := c.State().AmountValue(); got != 1234.50 {
		t.Errorf("expected 1234.50, got %v", got)
	}

	c.UpdateField(FieldAmount, "not a number")
	if got := c.State().AmountValue(); got != 0 {
		t.Errorf("expected invalid text to normalize to 0, got %v", got)
	}

	c.UpdateField(FieldAmount, "   ")
	if got := c.State().AmountValue(); got != 0 {
		t.Errorf("expected blank text to normalize to 0, got %v", got)
	}
}

func TestSubmitRejectsZeroAmount(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))

	c.UpdateField(FieldAmount, "")
	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
}

func TestReinvestForcesDestinationAndCurrency(t *testing.T) {
	eur := testAsset("s2", "VWCE", models.AssetTypeETF, 10)
	eur.Currency = "EUR"
	repo := newFakeRepo(testAsset("s1", "VOO", models.AssetTypeStock, 10), eur)

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryReinvest))

	c.UpdateField(FieldFromAsset, "s2")
	s := c.State()
	if s.ToAssetID != "s2" {
		t.Errorf("expected destination to follow source, got %q", s.ToAssetID)
	}
	if s.Currency != "EUR" {
		t.Errorf("expected currency to follow source, got %q", s.Currency)
	}

	// Changing the source re-asserts the link.
	c.UpdateField(FieldFromAsset, "s1")
	s = c.State()
	if s.ToAssetID != "s1" || s.Currency != "USD" {
		t.Errorf("expected link to follow the new source, got to=%q currency=%q", s.ToAssetID, s.Currency)
	}
}

func TestSubmitTransfer(t *testing.T) {
	repo := newFakeRepo(
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
		testAsset("c2", "Savings", models.AssetTypeCash, 100),
	)
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryTransfer))

	c.UpdateField(FieldFromAsset, "c1")
	c.UpdateField(FieldToAsset, "c2")
	c.UpdateField(FieldAmount, "250")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)
	if *flow.FromAssetID != "c1" || *flow.ToAssetID != "c2" {
		t.Errorf("unexpected endpoints: %v -> %v", flow.FromAssetID, flow.ToAssetID)
	}
	if flow.Amount != 250 {
		t.Errorf("expected amount 250, got %v", flow.Amount)
	}

	// Success resets the form.
	if c.State().Phase != PhaseCategorySelect {
		t.Errorf("expected reset after success, got phase %q", c.State().Phase)
	}
}

func TestSubmitFailurePreservesState(t *testing.T) {
	repo := newFakeRepo(
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
		testAsset("c2", "Savings", models.AssetTypeCash, 100),
	)
	repo.submitErr = apperrors.ErrAssetCreationFailed

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryTransfer))
	c.UpdateField(FieldFromAsset, "c1")
	c.UpdateField(FieldToAsset, "c2")
	c.UpdateField(FieldAmount, "250")

	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrAssetCreationFailed.Code)

	// Every entered value survives for a retry.
	s := c.State()
	if s.Phase != PhaseFieldEntry {
		t.Fatalf("expected field entry phase after failure, got %q", s.Phase)
	}
	if s.Amount != "250" || s.FromAssetID != "c1" || s.ToAssetID != "c2" {
		t.Errorf("expected entered values preserved, got %+v", s)
	}

	// The retry succeeds once the repository recovers.
	repo.mu.Lock()
	repo.submitErr = nil
	repo.mu.Unlock()
	_, err = c.Submit(context.Background())
	testutil.AssertNoError(t, err)
}

func TestSubmitSingleInFlight(t *testing.T) {
	repo := newFakeRepo(
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
		testAsset("c2", "Savings", models.AssetTypeCash, 100),
	)
	repo.submitStarted = make(chan struct{})
	repo.submitRelease = make(chan struct{})

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryTransfer))
	c.UpdateField(FieldFromAsset, "c1")
	c.UpdateField(FieldToAsset, "c2")
	c.UpdateField(FieldAmount, "50")

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		firstDone <- err
	}()

	<-repo.submitStarted
	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrSubmissionInFlight.Code)

	close(repo.submitRelease)
	testutil.AssertNoError(t, <-firstDone)
}

func TestDividendWithholdingFromSettings(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryDividend))
	c.UpdateField(FieldAmount, "100")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.Metadata[models.MetaTaxRate] != 0.30 {
		t.Errorf("expected configured tax rate 0.30, got %v", flow.Metadata[models.MetaTaxRate])
	}
	if flow.Metadata[models.MetaTaxWithheld] != 30.0 {
		t.Errorf("expected withheld 30, got %v", flow.Metadata[models.MetaTaxWithheld])
	}
}

func TestDividendWithholdingExplicitRateWins(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryDividend))
	c.UpdateField(FieldAmount, "100")
	c.UpdateField(FieldTaxRate, "0.15")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.Metadata[models.MetaTaxRate] != 0.15 {
		t.Errorf("expected entered tax rate 0.15, got %v", flow.Metadata[models.MetaTaxRate])
	}
	if flow.Metadata[models.MetaTaxWithheld] != 15.0 {
		t.Errorf("expected withheld 15, got %v", flow.Metadata[models.MetaTaxWithheld])
	}
}

func TestSellInvestmentRealizedGainLoss(t *testing.T) {
	repo := newFakeRepo(
		testAsset("s1", "VOO", models.AssetTypeStock, 10),
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
	)
	investFlow := models.Flow{
		Category: preset.CategoryInvest,
		Amount:   1000,
		Metadata: map[string]interface{}{models.MetaShares: 10.0},
	}
	repo.invest["s1"] = []models.Flow{investFlow}

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySellInvestment))
	c.UpdateField(FieldFromAsset, "s1")
	c.UpdateField(FieldShares, "10")
	c.UpdateField(FieldAmount, "1250")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.Metadata[models.MetaCostBasis] != 100.0 {
		t.Errorf("expected cost basis 100, got %v", flow.Metadata[models.MetaCostBasis])
	}
	if flow.Metadata[models.MetaRealizedPL] != 250.0 {
		t.Errorf("expected realized gain 250, got %v", flow.Metadata[models.MetaRealizedPL])
	}
}

func TestSellInvestmentUnknownCostBasisOmitted(t *testing.T) {
	repo := newFakeRepo(
		testAsset("s1", "VOO", models.AssetTypeStock, 10),
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
	)

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySellInvestment))
	c.UpdateField(FieldFromAsset, "s1")
	c.UpdateField(FieldShares, "5")
	c.UpdateField(FieldAmount, "500")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if _, ok := flow.Metadata[models.MetaCostBasis]; ok {
		t.Error("expected no cost basis without purchase history")
	}
	if _, ok := flow.Metadata[models.MetaRealizedPL]; ok {
		t.Error("expected no realized gain/loss without purchase history")
	}
}

func TestPayoffMetadata(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 1000))
	debt := &models.Debt{Name: "Car loan", CurrentBalance: 500}
	debt.ID = "d1"
	repo.debts["d1"] = debt

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryPayDebt))
	c.UpdateField(FieldDebt, "d1")
	c.UpdateField(FieldAmount, "600")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.Metadata[models.MetaPayoff] != true {
		t.Error("expected payoff flag when the payment covers the balance")
	}
	if flow.DebtID == nil || *flow.DebtID != "d1" {
		t.Errorf("expected debt id on the flow, got %v", flow.DebtID)
	}
}

func TestPayDebtRequiresDebt(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 1000))
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryPayDebt))
	c.UpdateField(FieldAmount, "100")

	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
}

func TestTickerReusesExistingAsset(t *testing.T) {
	existing := testAsset("s1", "Vanguard S&P 500", models.AssetTypeStock, 3)
	existing.Ticker = "VOO"
	repo := newFakeRepo(existing, testAsset("c1", "Checking", models.AssetTypeCash, 5000))

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryInvest))
	c.UpdateField(FieldTicker, "voo")
	c.UpdateField(FieldShares, "2")
	c.UpdateField(FieldAmount, "1000")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	sub := repo.lastSubmission(t)
	if sub.NewToAsset != nil {
		t.Error("expected no new asset for a known ticker")
	}
	if flow.ToAssetID == nil || *flow.ToAssetID != "s1" {
		t.Errorf("expected the existing asset as destination, got %v", flow.ToAssetID)
	}
	if flow.Metadata[models.MetaTicker] != "VOO" {
		t.Errorf("expected normalized ticker in metadata, got %v", flow.Metadata[models.MetaTicker])
	}
}

func TestTickerCreatesNewAsset(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 5000))

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryInvest))
	c.UpdateField(FieldTicker, "VTI")
	c.UpdateField(FieldShares, "2")
	c.UpdateField(FieldAmount, "500")

	_, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	sub := repo.lastSubmission(t)
	if sub.NewToAsset == nil {
		t.Fatal("expected a pending new asset for an unknown ticker")
	}
	if sub.NewToAsset.Ticker != "VTI" || sub.NewToAsset.Type != models.AssetTypeStock {
		t.Errorf("unexpected pending asset: %+v", sub.NewToAsset)
	}
}

func TestClearingSeededExternalName(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))
	if c.State().FromExternal == "" {
		t.Fatal("expected a seeded payer name")
	}
	c.UpdateField(FieldFromExternal, "")
	c.UpdateField(FieldAmount, "100")

	_, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	sub := repo.lastSubmission(t)
	if _, ok := sub.Flow.Metadata[models.MetaExternalName]; ok {
		t.Error("expected the cleared payer name to be omitted from metadata")
	}
}

func TestInlineCreateReusesExistingName(t *testing.T) {
	repo := newFakeRepo(testAsset("c1", "Checking", models.AssetTypeCash, 500))

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))
	c.BeginInlineCreate(SideTo, NewAssetDraft{Name: "checking", Type: models.AssetTypeCash})
	c.UpdateField(FieldAmount, "100")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	sub := repo.lastSubmission(t)
	if sub.NewToAsset != nil {
		t.Error("expected a case-insensitive name match to reuse the existing asset")
	}
	if flow.ToAssetID == nil || *flow.ToAssetID != "c1" {
		t.Errorf("expected the existing asset as destination, got %v", flow.ToAssetID)
	}
}

func TestInlineCreateRejectsDisallowedType(t *testing.T) {
	repo := newFakeRepo()

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategorySalary))
	c.BeginInlineCreate(SideTo, NewAssetDraft{Name: "House", Type: models.AssetTypeRealEstate})
	c.UpdateField(FieldAmount, "100")

	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
}

func TestInlineCreateRejectsNonCreatableEndpoint(t *testing.T) {
	repo := newFakeRepo()

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryDividend))
	c.BeginInlineCreate(SideTo, NewAssetDraft{Name: "Brokerage Cash", Type: models.AssetTypeCash})
	c.UpdateField(FieldAmount, "100")

	_, err := c.Submit(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrValidation.Code)
	if len(repo.submissions) != 0 {
		t.Error("expected nothing to reach the repository")
	}
}

func TestInterestNoSpecificAccount(t *testing.T) {
	repo := newFakeRepo()

	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryInterest))
	c.SetNoSpecificAccount(true)
	c.UpdateField(FieldAmount, "50")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.ToAssetID != nil {
		t.Errorf("expected no destination for untracked interest, got %v", flow.ToAssetID)
	}
}

func TestMetadataOmitsEmptyValues(t *testing.T) {
	repo := newFakeRepo(
		testAsset("c1", "Checking", models.AssetTypeCash, 500),
		testAsset("c2", "Savings", models.AssetTypeCash, 100),
	)
	c := NewController(repo, nil)
	testutil.AssertNoError(t, c.SelectCategory(context.Background(), preset.CategoryTransfer))
	c.UpdateField(FieldFromAsset, "c1")
	c.UpdateField(FieldToAsset, "c2")
	c.UpdateField(FieldAmount, "10")

	flow, err := c.Submit(context.Background())
	testutil.AssertNoError(t, err)

	if flow.Metadata != nil {
		t.Errorf("expected no metadata for a plain transfer, got %v", flow.Metadata)
	}
}

package form

import (
	"context"
	"errors"
	"strings"

	apperrors "networth/internal/errors"
	"networth/internal/fincalc"
	"networth/internal/models"
	"networth/internal/preset"
)

// Submit validates the form and hands the assembled flow to the repository.
// On success the form resets; on any failure every entered value is
// preserved and the attempt is safely retryable. A second Submit while one
// is pending is rejected.
func (c *Controller) Submit(ctx context.Context) (*models.Flow, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, apperrors.ErrSubmissionInFlight
	}
	c.submitting = true
	state := c.state
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	flow, err := c.submit(ctx, state)
	if err != nil {
		return nil, err
	}
	c.Reset()
	return flow, nil
}

func (c *Controller) submit(ctx context.Context, s State) (*models.Flow, error) {
	// Re-resolve any auto-selected endpoint against a fresh snapshot; the
	// cache is eventually consistent and may have changed since seeding.
	assets, err := c.repo.ListAssets(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRepository, err)
	}
	s = applyResolution(s, assets)

	if verr := validate(s); verr != nil {
		return nil, verr
	}

	sub := Submission{}
	fromID := s.EffectiveFromID()
	toID := s.EffectiveToID()

	// Pending inline assets. A case-insensitive exact name match reuses
	// the existing asset instead of duplicating it.
	if s.Preset.From.Kind == preset.EndpointAsset && s.CreateFrom != nil {
		existing, draft, derr := resolveDraft(*s.CreateFrom, s.Preset.From, assets)
		if derr != nil {
			return nil, derr
		}
		if existing != nil {
			fromID = existing.ID
		} else {
			sub.NewFromAsset = draft
		}
	}
	if s.Preset.To.Kind == preset.EndpointAsset && s.CreateTo != nil {
		existing, draft, derr := resolveDraft(*s.CreateTo, s.Preset.To, assets)
		if derr != nil {
			return nil, derr
		}
		if existing != nil {
			toID = existing.ID
		} else {
			sub.NewToAsset = draft
		}
	}

	// Ticker-driven investment: reuse an asset whose ticker matches
	// case-insensitively, otherwise create a new share-based asset.
	if s.tickerDriven() && toID == "" && sub.NewToAsset == nil {
		if existing := findByTicker(assets, s.Ticker); existing != nil {
			toID = existing.ID
		} else {
			assetType := models.AssetType(s.InvestmentType)
			if assetType == "" {
				assetType = models.AssetTypeStock
			}
			sub.NewToAsset = &models.Asset{
				Name:     s.Ticker,
				Type:     assetType,
				Currency: currencyOr(s.Currency, "USD"),
				Ticker:   s.Ticker,
				IsActive: true,
			}
		}
	}

	// Category-specific endpoint rules.
	if s.Preset.To.Kind == preset.EndpointSameAsFrom {
		toID = fromID
	}
	if s.Preset.From.Kind == preset.EndpointAsset && fromID == "" && sub.NewFromAsset == nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Select a source account")
	}
	if s.Preset.To.Kind == preset.EndpointAsset && !s.NoSpecificAccount && toID == "" && sub.NewToAsset == nil {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Select a destination account")
	}

	meta, err := c.assembleMetadata(ctx, s, fromID)
	if err != nil {
		return nil, err
	}

	flow := models.Flow{
		Type:        s.Preset.FlowType,
		Category:    s.Category,
		Amount:      s.AmountValue(),
		Currency:    c.flowCurrency(s, assets, fromID, toID),
		Date:        s.Date,
		Description: s.Description,
		Metadata:    meta,
	}
	if fromID != "" {
		flow.FromAssetID = &fromID
	}
	if toID != "" {
		flow.ToAssetID = &toID
	}
	if s.DebtID != "" {
		debtID := s.DebtID
		flow.DebtID = &debtID
	}

	sub.Flow = flow
	created, err := c.repo.SubmitFlow(ctx, sub)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrRepository, err)
	}
	return created, nil
}

// assembleMetadata builds the flow metadata with only populated keys: empty
// strings and zero numbers are omitted, nulls are never written.
func (c *Controller) assembleMetadata(ctx context.Context, s State, fromID string) (map[string]interface{}, error) {
	meta := make(map[string]interface{})

	if v := s.SharesValue(); v > 0 {
		meta[models.MetaShares] = v
	}
	if v := s.PricePerShareValue(); v > 0 {
		meta[models.MetaPricePerShare] = v
	}
	if s.Ticker != "" {
		meta[models.MetaTicker] = s.Ticker
	}
	if s.Preset.Extra.InvestmentType && s.InvestmentType != "" {
		meta[models.MetaInvestmentType] = s.InvestmentType
	}
	if s.Preset.Extra.Frequency && s.Frequency != "" {
		meta[models.MetaFrequency] = s.Frequency
	}
	if name := strings.TrimSpace(s.FromExternal); name != "" && s.Preset.From.Kind == preset.EndpointExternal {
		meta[models.MetaExternalName] = name
	} else if name := strings.TrimSpace(s.ToExternal); name != "" && s.Preset.To.Kind == preset.EndpointExternal {
		meta[models.MetaExternalName] = name
	}

	// Dividend withholding at the user's configured rate.
	if s.Preset.Extra.TaxRate {
		rate := s.TaxRateValue()
		if rate <= 0 {
			settings, err := c.repo.GetUserTaxSettings(ctx)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrRepository, err)
			}
			rate = settings.DividendWithholdingRate
		}
		if rate > 0 {
			withheld, _ := fincalc.Withholding(s.AmountValue(), rate)
			meta[models.MetaTaxRate] = rate
			meta[models.MetaTaxWithheld] = withheld
		}
	}

	// Sale of an investment: derive cost basis and realized gain/loss from
	// the historical purchase flows of the source asset. Zero historical
	// shares means the cost basis is unknown and nothing is recorded.
	if s.Category == preset.CategorySellInvestment && fromID != "" {
		history, err := c.repo.ListInvestFlowsForAsset(ctx, fromID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRepository, err)
		}
		lots := make([]fincalc.Lot, 0, len(history))
		for _, f := range history {
			lots = append(lots, fincalc.Lot{Amount: f.Amount, Shares: f.Shares()})
		}
		if avg, ok := fincalc.AverageCost(lots); ok {
			meta[models.MetaCostBasis] = avg
			meta[models.MetaRealizedPL] = fincalc.RealizedGainLoss(s.AmountValue(), s.SharesValue(), avg)
		}
	}

	// Payoff detection: a payment covering the whole remaining balance is
	// marked so the repository clamps the debt to exactly zero.
	if s.Category == preset.CategoryPayDebt && s.DebtID != "" {
		debt, err := c.repo.GetDebt(ctx, s.DebtID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRepository, err)
		}
		if IsPayoff(s.AmountValue(), debt.CurrentBalance) {
			meta[models.MetaPayoff] = true
		}
	}

	if len(meta) == 0 {
		return nil, nil
	}
	return meta, nil
}

// resolveDraft reuses an existing asset on a case-insensitive exact name
// match, or returns the asset to create.
func resolveDraft(draft NewAssetDraft, e preset.Endpoint, assets []models.Asset) (*models.Asset, *models.Asset, *apperrors.AppError) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, nil, apperrors.WithMessage(apperrors.ErrValidation, "New asset name is required")
	}
	if !e.AllowCreate {
		return nil, nil, apperrors.WithMessage(apperrors.ErrValidation, "This category does not allow creating an account inline")
	}
	if len(e.Filter) > 0 && !e.Allows(draft.Type) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrValidation, "Asset type not allowed for this category")
	}
	for i := range assets {
		if strings.EqualFold(assets[i].Name, name) {
			return &assets[i], nil, nil
		}
	}
	return nil, &models.Asset{
		Name:     name,
		Type:     draft.Type,
		Currency: currencyOr(draft.Currency, "USD"),
		IsActive: true,
	}, nil
}

func findByTicker(assets []models.Asset, ticker string) *models.Asset {
	for i := range assets {
		if assets[i].Ticker != "" && strings.EqualFold(assets[i].Ticker, ticker) {
			return &assets[i]
		}
	}
	return nil
}

func (c *Controller) flowCurrency(s State, assets []models.Asset, fromID, toID string) string {
	if s.Currency != "" {
		return s.Currency
	}
	for _, id := range []string{toID, fromID} {
		if id == "" {
			continue
		}
		for i := range assets {
			if assets[i].ID == id {
				return assets[i].Currency
			}
		}
	}
	return "USD"
}

func currencyOr(code, fallback string) string {
	if code != "" {
		return code
	}
	return fallback
}

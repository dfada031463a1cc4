package form

import (
	"context"
	"sync"

	apperrors "networth/internal/errors"
	"networth/internal/marketdata"
	"networth/internal/models"
	"networth/internal/preset"
)

// Controller drives one flow form instance. It owns the form state, an
// asset snapshot, and the asynchronous ticker lookups; it carries no
// presentation coupling. State transitions happen only in response to a
// method call or a completed lookup, and at most one submission may be in
// flight at a time.
type Controller struct {
	repo    Repository
	market  marketdata.Client
	lookups *marketdata.Lookups

	mu         sync.Mutex
	state      State
	assets     []models.Asset
	submitting bool
}

// NewController creates a controller over the given repository and market
// data client. The market client may be nil when ticker lookups are not
// needed (non-investment categories).
func NewController(repo Repository, market marketdata.Client) *Controller {
	return &Controller{
		repo:    repo,
		market:  market,
		lookups: marketdata.NewLookups(),
		state:   State{Phase: PhaseCategorySelect},
	}
}

// State returns a copy of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectCategory loads the preset for the category, fetches a fresh asset
// snapshot, and seeds defaults. Unknown categories are rejected here, at
// the boundary.
func (c *Controller) SelectCategory(ctx context.Context, category string) error {
	if !preset.Valid(category) {
		return apperrors.WithMessage(apperrors.ErrUnknownCategory, "Unknown flow category: "+category)
	}

	assets, err := c.repo.ListAssets(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrRepository, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets = assets
	c.state = seed(preset.For(category), assets)
	return nil
}

// UpdateField applies one field change. Unknown fields are ignored.
func (c *Controller) UpdateField(field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseCategorySelect {
		return
	}
	c.state = applyField(c.state, field, value, c.assets)
}

// RefreshAssets reloads the asset snapshot and re-resolves auto-selected
// endpoints. Call whenever the externally owned asset cache changes.
func (c *Controller) RefreshAssets(ctx context.Context) error {
	assets, err := c.repo.ListAssets(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrRepository, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets = assets
	if c.state.Phase != PhaseCategorySelect {
		c.state = applyResolution(c.state, assets)
	}
	return nil
}

// BeginInlineCreate switches an endpoint into create-new-asset sub-mode,
// suspending it until submission creates the asset or the sub-mode is
// canceled.
func (c *Controller) BeginInlineCreate(side Side, draft NewAssetDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch side {
	case SideFrom:
		c.state.CreateFrom = &draft
		c.state.FromAssetID = ""
	case SideTo:
		c.state.CreateTo = &draft
		c.state.ToAssetID = ""
	}
}

// CancelInlineCreate leaves the create-new-asset sub-mode for an endpoint.
func (c *Controller) CancelInlineCreate(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch side {
	case SideFrom:
		c.state.CreateFrom = nil
	case SideTo:
		c.state.CreateTo = nil
	}
	c.state = applyResolution(c.state, c.assets)
}

// SetNoSpecificAccount toggles the interest sub-mode that records interest
// without a destination account.
func (c *Controller) SetNoSpecificAccount(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Category == preset.CategoryInterest {
		c.state.NoSpecificAccount = on
	}
}

// SearchTicker dispatches an asynchronous ticker symbol search. deliver is
// invoked with the result only while this search is still the latest one
// for the ticker field; superseded searches are discarded.
func (c *Controller) SearchTicker(ctx context.Context, query string, deliver func([]marketdata.Symbol, error)) {
	if c.market == nil {
		return
	}
	ctx, current := c.lookups.Begin(ctx, "ticker_search")
	go func() {
		symbols, err := c.market.SearchSymbols(ctx, query)
		if !current() {
			return
		}
		deliver(symbols, err)
	}()
}

// FetchQuote dispatches an asynchronous quote lookup for a ticker, with the
// same supersession semantics as SearchTicker.
func (c *Controller) FetchQuote(ctx context.Context, ticker string, deliver func(*marketdata.Quote, error)) {
	if c.market == nil {
		return
	}
	ctx, current := c.lookups.Begin(ctx, "quote")
	go func() {
		quote, err := c.market.GetQuote(ctx, ticker)
		if !current() {
			return
		}
		deliver(quote, err)
	}()
}

// Reset clears the form back to category selection and invalidates any
// in-flight lookups.
func (c *Controller) Reset() {
	c.lookups.CancelAll()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Phase: PhaseCategorySelect}
	c.assets = nil
}

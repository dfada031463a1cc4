// Package form implements the flow entry state machine: category selection
// seeds a preset, field entry adapts visibility and derived values, and
// submission validates, creates pending inline assets, assembles metadata,
// and hands the finished flow to the repository.
//
// The transition core is a pure function over State so every rule is
// testable without I/O; the Controller executes the resulting effects.
package form

import (
	"strconv"
	"strings"
	"time"

	"networth/internal/models"
	"networth/internal/preset"
	"networth/internal/resolve"
)

// Field identifies a form field for UpdateField.
type Field string

const (
	FieldAmount         Field = "amount"
	FieldDate           Field = "date"
	FieldDescription    Field = "description"
	FieldCurrency       Field = "currency"
	FieldFromAsset      Field = "from_asset_id"
	FieldToAsset        Field = "to_asset_id"
	FieldFromExternal   Field = "from_external_name"
	FieldToExternal     Field = "to_external_name"
	FieldDebt           Field = "debt_id"
	FieldTicker         Field = "ticker"
	FieldShares         Field = "shares"
	FieldPricePerShare  Field = "price_per_share"
	FieldInvestmentType Field = "investment_type"
	FieldTaxRate        Field = "tax_rate"
	FieldFrequency      Field = "frequency"
)

// Endpoint side selectors for inline-creation sub-modes.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// NewAssetDraft carries the fields of an asset to be created inline during
// submission.
type NewAssetDraft struct {
	Name     string           `json:"name"`
	Type     models.AssetType `json:"type"`
	Currency string           `json:"currency"`
}

// Phase is the coarse position of a form in its lifecycle.
type Phase string

const (
	PhaseCategorySelect Phase = "category-select"
	PhaseFieldEntry     Phase = "field-entry"
	PhaseSubmitting     Phase = "submitting"
)

// State is the complete, explicit record of a flow form. Numeric entry
// fields hold raw text; blank or invalid text normalizes to 0 so partially
// typed input never reaches a calculator as garbage.
type State struct {
	Phase    Phase
	Category string
	Preset   preset.Preset

	Amount      string
	Date        time.Time
	Description string
	Currency    string

	FromAssetID  string
	ToAssetID    string
	FromExternal string
	ToExternal   string
	DebtID       string

	Ticker         string
	Shares         string
	PricePerShare  string
	InvestmentType string
	TaxRate        string
	Frequency      string

	// Interest recorded without a specific destination account. Kept as a
	// boolean sub-mode rather than its own category.
	NoSpecificAccount bool

	// Inline asset creation sub-modes. A non-nil draft suspends the
	// corresponding endpoint until the asset is created or the sub-mode
	// is canceled.
	CreateFrom *NewAssetDraft
	CreateTo   *NewAssetDraft

	// Resolution results over the latest asset snapshot.
	FromCandidates []models.Asset
	ToCandidates   []models.Asset
	AutoFromID     string
	AutoToID       string
	FromHidden     bool
	ToHidden       bool
}

// seed builds the initial field-entry state for a category over the given
// asset snapshot: external default names, auto-selection, DRIP sync.
func seed(p preset.Preset, assets []models.Asset) State {
	s := State{
		Phase:    PhaseFieldEntry,
		Category: p.Category,
		Preset:   p,
		Date:     time.Now(),
	}
	if p.From.Kind == preset.EndpointExternal {
		s.FromExternal = p.From.DefaultName
	}
	if p.To.Kind == preset.EndpointExternal {
		s.ToExternal = p.To.DefaultName
	}
	if p.Extra.InvestmentType {
		s.InvestmentType = string(models.AssetTypeStock)
	}
	return applyResolution(s, assets)
}

// applyResolution recomputes candidates and auto-selection from a snapshot,
// preserving explicit choices.
func applyResolution(s State, assets []models.Asset) State {
	res := resolve.Resolve(s.Preset, assets, s.FromAssetID)

	s.FromCandidates = res.FromCandidates
	s.ToCandidates = res.ToCandidates
	s.AutoFromID = ""
	s.AutoToID = ""
	s.FromHidden = false
	s.ToHidden = false

	if res.AutoFrom != nil {
		s.AutoFromID = res.AutoFrom.ID
		s.FromHidden = true
	}
	if res.AutoTo != nil {
		s.AutoToID = res.AutoTo.ID
		s.ToHidden = true
	}

	s = syncReinvest(s, assets)
	return s
}

// syncReinvest forces destination and currency to follow the source for
// same_as_from presets. Re-applied on every source change; only changing
// the source again breaks the link.
func syncReinvest(s State, assets []models.Asset) State {
	if s.Preset.To.Kind != preset.EndpointSameAsFrom {
		return s
	}
	fromID := s.FromAssetID
	if fromID == "" {
		fromID = s.AutoFromID
	}
	if fromID == "" {
		return s
	}
	s.ToAssetID = fromID
	s.AutoToID = fromID
	for i := range assets {
		if assets[i].ID == fromID {
			s.Currency = assets[i].Currency
			break
		}
	}
	return s
}

// applyField is the pure transition for one field update. The asset
// snapshot is a parameter so the transition stays a function of its inputs.
func applyField(s State, field Field, value string, assets []models.Asset) State {
	switch field {
	case FieldAmount:
		s.Amount = value
	case FieldDate:
		if t, err := time.Parse("2006-01-02", value); err == nil {
			s.Date = t
		}
	case FieldDescription:
		s.Description = value
	case FieldCurrency:
		s.Currency = strings.ToUpper(strings.TrimSpace(value))
	case FieldFromAsset:
		s.FromAssetID = value
		// Source changes invalidate destination resolution and re-assert
		// the reinvest link.
		s = applyResolution(s, assets)
	case FieldToAsset:
		s.ToAssetID = value
	case FieldFromExternal:
		if s.Preset.From.Kind == preset.EndpointExternal && s.Preset.From.Editable {
			s.FromExternal = value
		}
	case FieldToExternal:
		if s.Preset.To.Kind == preset.EndpointExternal && s.Preset.To.Editable {
			s.ToExternal = value
		}
	case FieldDebt:
		s.DebtID = value
	case FieldTicker:
		s.Ticker = strings.ToUpper(strings.TrimSpace(value))
	case FieldShares:
		s.Shares = value
	case FieldPricePerShare:
		s.PricePerShare = value
	case FieldInvestmentType:
		s.InvestmentType = value
	case FieldTaxRate:
		s.TaxRate = value
	case FieldFrequency:
		s.Frequency = value
	}
	return s
}

// parseNumber normalizes numeric entry text: blank or unparseable input
// becomes 0, never an error.
func parseNumber(text string) float64 {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if text == "" {
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return v
}

// AmountValue returns the normalized numeric amount.
func (s State) AmountValue() float64 { return parseNumber(s.Amount) }

// SharesValue returns the normalized share count.
func (s State) SharesValue() float64 { return parseNumber(s.Shares) }

// PricePerShareValue returns the normalized per-share price.
func (s State) PricePerShareValue() float64 { return parseNumber(s.PricePerShare) }

// TaxRateValue returns the normalized tax rate.
func (s State) TaxRateValue() float64 { return parseNumber(s.TaxRate) }

// EffectiveFromID returns the explicitly chosen source asset id, falling
// back to the auto-selected one.
func (s State) EffectiveFromID() string {
	if s.FromAssetID != "" {
		return s.FromAssetID
	}
	return s.AutoFromID
}

// EffectiveToID returns the explicitly chosen destination asset id, falling
// back to the auto-selected one.
func (s State) EffectiveToID() string {
	if s.ToAssetID != "" {
		return s.ToAssetID
	}
	return s.AutoToID
}

// tickerDriven reports whether the current entry is a ticker-driven
// investment purchase (stock or ETF sub-type).
func (s State) tickerDriven() bool {
	if !s.Preset.Extra.Ticker || !s.Preset.Extra.InvestmentType {
		return false
	}
	switch models.AssetType(s.InvestmentType) {
	case models.AssetTypeStock, models.AssetTypeETF:
		return true
	}
	return false
}

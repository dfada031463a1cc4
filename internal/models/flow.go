package models

import "time"

// FlowType represents the direction of a recorded financial movement.
type FlowType string

const (
	FlowTypeIncome   FlowType = "income"
	FlowTypeExpense  FlowType = "expense"
	FlowTypeTransfer FlowType = "transfer"
)

// Metadata keys written by flow submission. Only populated keys are stored;
// empty and zero values are omitted, nulls are never written.
const (
	MetaShares         = "shares"
	MetaPricePerShare  = "price_per_share"
	MetaTaxRate        = "tax_rate"
	MetaTaxWithheld    = "tax_withheld"
	MetaCostBasis      = "cost_basis"
	MetaInvestmentType = "investment_type"
	MetaTicker         = "ticker"
	MetaFrequency      = "frequency"
	MetaRealizedPL     = "realized_gain_loss"
	MetaExternalName   = "external_name"
	MetaPayoff         = "payoff"
	// MetaDebtReduction records the balance reduction a debt payment
	// actually applied after clamping, so deletion can restore it exactly.
	MetaDebtReduction = "debt_reduction"
)

// Flow represents a single recorded financial movement between an asset or
// debt and another asset/debt or an external party. A nil endpoint means the
// money came from, or went to, outside the tracked portfolio.
type Flow struct {
	Base
	Type        FlowType  `gorm:"not null" json:"type"`
	Category    string    `gorm:"not null;index" json:"category"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Currency    string    `gorm:"not null;default:'USD'" json:"currency"`
	FromAssetID *string   `gorm:"type:uuid;index" json:"from_asset_id,omitempty"`
	ToAssetID   *string   `gorm:"type:uuid;index" json:"to_asset_id,omitempty"`
	DebtID      *string   `gorm:"type:uuid;index" json:"debt_id,omitempty"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `json:"description"`

	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	// Set when the flow was generated from a recurring schedule.
	ScheduleID *string `gorm:"type:uuid;index" json:"schedule_id,omitempty"`

	FromAsset *Asset `gorm:"foreignKey:FromAssetID" json:"from_asset,omitempty"`
	ToAsset   *Asset `gorm:"foreignKey:ToAssetID" json:"to_asset,omitempty"`
	Debt      *Debt  `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
}

// Shares returns the share count recorded in the flow metadata, or 0.
func (f *Flow) Shares() float64 { return f.metaFloat(MetaShares) }

// Withheld returns the tax withheld recorded in the flow metadata, or 0.
func (f *Flow) Withheld() float64 { return f.metaFloat(MetaTaxWithheld) }

// DebtReduction returns the clamped debt reduction recorded at submit
// time, or 0.
func (f *Flow) DebtReduction() float64 { return f.metaFloat(MetaDebtReduction) }

// PricePerShare returns the per-share price recorded in the flow metadata, or 0.
func (f *Flow) PricePerShare() float64 { return f.metaFloat(MetaPricePerShare) }

func (f *Flow) metaFloat(key string) float64 {
	if f.Metadata == nil {
		return 0
	}
	switch v := f.Metadata[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

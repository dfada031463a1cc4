package models

// DefaultDividendWithholdingRate applies when the user has not configured
// a withholding rate.
const DefaultDividendWithholdingRate = 0.30

// UserSettings is a singleton row holding user-level preferences consumed
// by flow derivation (dividend withholding) and net-worth aggregation.
type UserSettings struct {
	Base
	BaseCurrency            string  `gorm:"not null;default:'USD'" json:"base_currency"`
	DividendWithholdingRate float64 `gorm:"not null;default:0.30" json:"dividend_withholding_rate"`
}

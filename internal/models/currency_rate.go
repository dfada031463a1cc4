package models

// CurrencyRate holds the posted conversion rate for one currency, expressed
// relative to a single reference unit shared by all rates. Converting from A
// to B divides by A's rate and multiplies by B's.
type CurrencyRate struct {
	Base
	Code string  `gorm:"not null;uniqueIndex" json:"code"`
	Rate float64 `gorm:"not null" json:"rate"`
}

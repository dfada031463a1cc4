package models

import "time"

// DebtType represents the kind of liability a debt tracks.
type DebtType string

const (
	DebtTypeMortgage DebtType = "mortgage"
	DebtTypeLoan     DebtType = "loan"
	DebtTypeCredit   DebtType = "credit"
	DebtTypeOther    DebtType = "other"
)

// Debt represents a tracked liability. CurrentBalance only decreases via
// pay_debt flows; any other change must go through an explicit adjustment.
type Debt struct {
	Base
	Name           string     `gorm:"not null" json:"name"`
	DebtType       DebtType   `gorm:"not null" json:"debt_type"`
	Currency       string     `gorm:"not null;default:'USD'" json:"currency"`
	Principal      float64    `gorm:"not null" json:"principal"`
	CurrentBalance float64    `gorm:"not null" json:"current_balance"`
	InterestRate   float64    `json:"interest_rate,omitempty"`
	TermMonths     int        `json:"term_months,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	MonthlyPayment float64    `json:"monthly_payment,omitempty"`

	// Set when the debt finances a real-estate asset.
	PropertyAssetID *string `gorm:"type:uuid" json:"property_asset_id,omitempty"`

	PropertyAsset *Asset `gorm:"foreignKey:PropertyAssetID" json:"property_asset,omitempty"`
}

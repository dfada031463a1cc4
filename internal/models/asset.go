package models

// AssetType represents the kind of holding an asset tracks.
type AssetType string

const (
	AssetTypeCash       AssetType = "cash"
	AssetTypeDeposit    AssetType = "deposit"
	AssetTypeStock      AssetType = "stock"
	AssetTypeETF        AssetType = "etf"
	AssetTypeBond       AssetType = "bond"
	AssetTypeRealEstate AssetType = "real_estate"
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeOther      AssetType = "other"
)

// Asset represents a tracked holding. For share-based types (stock, etf,
// bond, crypto) Balance is a share count; for all other types it is a
// currency amount in the asset's currency.
type Asset struct {
	Base
	Name     string                 `gorm:"not null" json:"name"`
	Type     AssetType              `gorm:"not null" json:"type"`
	Currency string                 `gorm:"not null;default:'USD'" json:"currency"`
	Balance  float64                `gorm:"not null;default:0" json:"balance"`
	Ticker   string                 `gorm:"index" json:"ticker,omitempty"`
	Market   string                 `json:"market,omitempty"`
	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	IsActive bool                   `gorm:"default:true" json:"is_active"`
}

// IsShareBased reports whether the asset's balance is a share count
// rather than a currency amount.
func (a *Asset) IsShareBased() bool {
	switch a.Type {
	case AssetTypeStock, AssetTypeETF, AssetTypeBond, AssetTypeCrypto:
		return true
	}
	return false
}

// SupportsBalanceAdjustment reports whether the asset supports the direct
// balance-adjustment path (which records an adjustment flow).
func (a *Asset) SupportsBalanceAdjustment() bool {
	switch a.Type {
	case AssetTypeCash, AssetTypeDeposit, AssetTypeRealEstate, AssetTypeOther:
		return true
	}
	return false
}

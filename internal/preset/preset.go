// Package preset defines the static registry of flow categories. Each
// category maps to a Preset describing its endpoint semantics, extra field
// set, and flow type. The category set is closed: handlers validate incoming
// ids with Valid, and For treats an unknown id as a programming error.
package preset

import (
	"fmt"

	"networth/internal/models"
)

// Category ids. The set is closed and statically enumerated.
const (
	CategorySalary         = "salary"
	CategoryBusinessIncome = "business_income"
	CategoryRentalIncome   = "rental_income"
	CategoryOtherIncome    = "other_income"
	CategoryInterest       = "interest"
	CategoryDividend       = "dividend"
	CategoryBorrow         = "borrow"
	CategoryInvest         = "invest"
	CategoryReinvest       = "reinvest"
	CategorySellInvestment = "sell_investment"
	CategoryBuyRealEstate  = "buy_real_estate"
	CategoryTransfer       = "transfer"
	CategoryExpense        = "expense"
	CategoryPayDebt        = "pay_debt"
	CategoryAdjustBalance  = "balance_adjustment"
	CategoryOtherExpense   = "other_expense"
)

// EndpointKind describes what a flow endpoint resolves to.
type EndpointKind string

const (
	// EndpointExternal means the endpoint is an external party, not a
	// tracked asset.
	EndpointExternal EndpointKind = "external"
	// EndpointAsset means the endpoint is a tracked asset chosen from the
	// asset collection, filtered by type.
	EndpointAsset EndpointKind = "asset"
	// EndpointSameAsFrom forces the destination to mirror the source asset
	// (dividend reinvestment).
	EndpointSameAsFrom EndpointKind = "same_as_from"
)

// Endpoint describes one side of a flow for a category.
type Endpoint struct {
	Kind EndpointKind

	// External endpoints.
	Editable    bool
	DefaultName string

	// Asset endpoints.
	Filter      []models.AssetType
	AllowCreate bool
	// UserSelect endpoints are always shown, even when filtering leaves a
	// single candidate.
	UserSelect bool
}

// Allows reports whether the endpoint's asset filter admits the given type.
// External endpoints admit nothing.
func (e Endpoint) Allows(t models.AssetType) bool {
	for _, ft := range e.Filter {
		if ft == t {
			return true
		}
	}
	return false
}

// ExtraFields flags the additional form fields a category requires.
type ExtraFields struct {
	Shares         bool
	PricePerShare  bool
	Ticker         bool
	TaxRate        bool
	Frequency      bool
	InvestmentType bool
}

// Preset is the static descriptor of a flow category.
type Preset struct {
	Category string
	FlowType models.FlowType
	Label    string

	From Endpoint
	To   Endpoint

	Extra ExtraFields

	// RequiresDebt categories must carry a selected debt id.
	RequiresDebt bool
}

var cashLike = []models.AssetType{models.AssetTypeCash, models.AssetTypeDeposit}

var registry = map[string]Preset{
	CategorySalary: {
		Category: CategorySalary,
		FlowType: models.FlowTypeIncome,
		Label:    "Salary",
		From:     Endpoint{Kind: EndpointExternal, Editable: true, DefaultName: "Employer"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, AllowCreate: true},
	},
	CategoryBusinessIncome: {
		Category: CategoryBusinessIncome,
		FlowType: models.FlowTypeIncome,
		Label:    "Business income",
		From:     Endpoint{Kind: EndpointExternal, Editable: true, DefaultName: "Business"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, AllowCreate: true},
	},
	CategoryRentalIncome: {
		Category: CategoryRentalIncome,
		FlowType: models.FlowTypeIncome,
		Label:    "Rental income",
		From:     Endpoint{Kind: EndpointExternal, Editable: true, DefaultName: "Tenant"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, AllowCreate: true},
	},
	CategoryOtherIncome: {
		Category: CategoryOtherIncome,
		FlowType: models.FlowTypeIncome,
		Label:    "Other income",
		From:     Endpoint{Kind: EndpointExternal, Editable: true},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, AllowCreate: true},
	},
	CategoryInterest: {
		Category: CategoryInterest,
		FlowType: models.FlowTypeIncome,
		Label:    "Interest received",
		From:     Endpoint{Kind: EndpointExternal, DefaultName: "Interest"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike},
		Extra:    ExtraFields{Frequency: true},
	},
	CategoryDividend: {
		Category: CategoryDividend,
		FlowType: models.FlowTypeIncome,
		Label:    "Dividend received",
		From:     Endpoint{Kind: EndpointExternal, DefaultName: "Dividend"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike},
		Extra:    ExtraFields{Ticker: true, TaxRate: true},
	},
	CategoryBorrow: {
		Category: CategoryBorrow,
		FlowType: models.FlowTypeIncome,
		Label:    "Debt origination",
		From:     Endpoint{Kind: EndpointExternal, DefaultName: "Lender"},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, AllowCreate: true},
		// The originated loan is recorded against the selected debt.
		RequiresDebt: true,
	},
	CategoryInvest: {
		Category: CategoryInvest,
		FlowType: models.FlowTypeTransfer,
		Label:    "Buy investment",
		From:     Endpoint{Kind: EndpointAsset, Filter: cashLike},
		To: Endpoint{
			Kind:        EndpointAsset,
			Filter:      []models.AssetType{models.AssetTypeStock, models.AssetTypeETF, models.AssetTypeBond, models.AssetTypeCrypto},
			AllowCreate: true,
			UserSelect:  true,
		},
		Extra: ExtraFields{Shares: true, PricePerShare: true, Ticker: true, InvestmentType: true},
	},
	CategoryReinvest: {
		Category: CategoryReinvest,
		FlowType: models.FlowTypeTransfer,
		Label:    "Dividend reinvestment",
		From: Endpoint{
			Kind:       EndpointAsset,
			Filter:     []models.AssetType{models.AssetTypeStock, models.AssetTypeETF},
			UserSelect: true,
		},
		To:    Endpoint{Kind: EndpointSameAsFrom},
		Extra: ExtraFields{Shares: true, PricePerShare: true},
	},
	CategorySellInvestment: {
		Category: CategorySellInvestment,
		FlowType: models.FlowTypeTransfer,
		Label:    "Sell investment",
		From: Endpoint{
			Kind:       EndpointAsset,
			Filter:     []models.AssetType{models.AssetTypeStock, models.AssetTypeETF, models.AssetTypeBond, models.AssetTypeCrypto},
			UserSelect: true,
		},
		To:    Endpoint{Kind: EndpointAsset, Filter: cashLike},
		Extra: ExtraFields{Shares: true, PricePerShare: true},
	},
	CategoryBuyRealEstate: {
		Category: CategoryBuyRealEstate,
		FlowType: models.FlowTypeTransfer,
		Label:    "Buy real estate",
		From:     Endpoint{Kind: EndpointAsset, Filter: cashLike},
		To: Endpoint{
			Kind:        EndpointAsset,
			Filter:      []models.AssetType{models.AssetTypeRealEstate},
			AllowCreate: true,
			UserSelect:  true,
		},
	},
	CategoryTransfer: {
		Category: CategoryTransfer,
		FlowType: models.FlowTypeTransfer,
		Label:    "Transfer",
		From:     Endpoint{Kind: EndpointAsset, Filter: cashLike, UserSelect: true},
		To:       Endpoint{Kind: EndpointAsset, Filter: cashLike, UserSelect: true},
	},
	CategoryExpense: {
		Category: CategoryExpense,
		FlowType: models.FlowTypeExpense,
		Label:    "Expense",
		From:     Endpoint{Kind: EndpointAsset, Filter: cashLike},
		To:       Endpoint{Kind: EndpointExternal, Editable: true},
	},
	CategoryPayDebt: {
		Category:     CategoryPayDebt,
		FlowType:     models.FlowTypeExpense,
		Label:        "Debt payment",
		From:         Endpoint{Kind: EndpointAsset, Filter: cashLike},
		To:           Endpoint{Kind: EndpointExternal, DefaultName: "Lender"},
		RequiresDebt: true,
	},
	CategoryAdjustBalance: {
		Category: CategoryAdjustBalance,
		FlowType: models.FlowTypeTransfer,
		Label:    "Balance adjustment",
		From:     Endpoint{Kind: EndpointExternal, DefaultName: "Adjustment"},
		To: Endpoint{
			Kind:       EndpointAsset,
			Filter:     []models.AssetType{models.AssetTypeCash, models.AssetTypeDeposit, models.AssetTypeRealEstate, models.AssetTypeOther},
			UserSelect: true,
		},
	},
	CategoryOtherExpense: {
		Category: CategoryOtherExpense,
		FlowType: models.FlowTypeExpense,
		Label:    "Other expense",
		From:     Endpoint{Kind: EndpointAsset, Filter: cashLike},
		To:       Endpoint{Kind: EndpointExternal, Editable: true},
	},
}

// Valid reports whether the given category id is part of the closed set.
// Use this at the boundary before calling For.
func Valid(category string) bool {
	_, ok := registry[category]
	return ok
}

// For returns the preset for the given category id. Category ids are closed
// and validated at the boundary, so an unknown id here is a programming
// error and panics.
func For(category string) Preset {
	p, ok := registry[category]
	if !ok {
		panic(fmt.Sprintf("preset: unknown category %q", category))
	}
	return p
}

// Categories returns all registered category ids.
func Categories() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}

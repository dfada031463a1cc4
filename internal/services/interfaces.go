package services

import (
	"context"
	"time"

	"networth/internal/currency"
	"networth/internal/form"
	"networth/internal/models"
	"networth/internal/pagination"
)

// CreateAssetInput carries the fields for creating an asset.
type CreateAssetInput struct {
	Name     string
	Type     models.AssetType
	Currency string
	Balance  float64
	Ticker   string
	Market   string
	Metadata map[string]interface{}
}

// UpdateAssetInput carries the patchable asset fields. Nil means unchanged.
type UpdateAssetInput struct {
	Name     *string
	Ticker   *string
	Market   *string
	IsActive *bool
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(ctx context.Context, input CreateAssetInput) (*models.Asset, error)
	ListAssets(ctx context.Context) ([]models.Asset, error)
	GetAssetByID(ctx context.Context, id string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, patch UpdateAssetInput) (*models.Asset, error)
	// UpdateShareCount edits the share count of a share-based asset directly.
	UpdateShareCount(ctx context.Context, id string, shares float64) (*models.Asset, error)
	// AdjustBalance sets a new balance on an adjustable asset by recording
	// a balance_adjustment flow for the difference.
	AdjustBalance(ctx context.Context, id string, newBalance float64, date time.Time) (*models.Flow, error)
	FindByName(ctx context.Context, name string) (*models.Asset, error)
	FindByTicker(ctx context.Context, ticker string) (*models.Asset, error)
}

// CreateDebtInput carries the fields for creating a debt. When
// PropertyAsset is set, a real-estate asset is created alongside the debt
// in the same unit.
type CreateDebtInput struct {
	Name           string
	DebtType       models.DebtType
	Currency       string
	Principal      float64
	InterestRate   float64
	TermMonths     int
	StartDate      *time.Time
	PropertyAsset  *CreateAssetInput
	MonthlyPayment float64
}

// UpdateDebtInput carries the patchable debt fields. Nil means unchanged.
// CurrentBalance is an explicit adjustment, the only path that may move a
// debt balance upward.
type UpdateDebtInput struct {
	Name           *string
	InterestRate   *float64
	TermMonths     *int
	MonthlyPayment *float64
	CurrentBalance *float64
}

// DebtServicer defines the contract for debt-related business logic.
type DebtServicer interface {
	CreateDebt(ctx context.Context, input CreateDebtInput) (*models.Debt, error)
	ListDebts(ctx context.Context) ([]models.Debt, error)
	GetDebtByID(ctx context.Context, id string) (*models.Debt, error)
	UpdateDebt(ctx context.Context, id string, patch UpdateDebtInput) (*models.Debt, error)
}

// FlowFilter holds optional filter parameters for listing flows.
type FlowFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.FlowType
	Category *string
	AssetID  *string
}

// FlowServicer defines the contract for flow submission and history.
type FlowServicer interface {
	// SubmitFlow executes a form submission as one unit: inline asset
	// creation, the flow record, and every balance effect succeed or fail
	// together.
	SubmitFlow(ctx context.Context, sub form.Submission) (*models.Flow, error)
	ListFlows(ctx context.Context, page pagination.PageRequest, filter FlowFilter) (*pagination.PageResponse[models.Flow], error)
	GetFlowByID(ctx context.Context, id string) (*models.Flow, error)
	// DeleteFlow removes a flow and reverses its balance effects.
	DeleteFlow(ctx context.Context, id string) error
	ListInvestFlowsForAsset(ctx context.Context, assetID string) ([]models.Flow, error)
}

// CreateScheduleInput carries the fields for a recurring schedule.
type CreateScheduleInput struct {
	Frequency   models.ScheduleFrequency
	NextRunDate time.Time
	FlowType    models.FlowType
	Category    string
	Amount      float64
	Currency    string
	FromAssetID *string
	ToAssetID   *string
	DebtID      *string
	Description string
}

// ScheduleServicer defines the contract for recurring schedules.
type ScheduleServicer interface {
	CreateSchedule(ctx context.Context, input CreateScheduleInput) (*models.RecurringSchedule, error)
	ListSchedules(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringSchedule], error)
	GetScheduleByID(ctx context.Context, id string) (*models.RecurringSchedule, error)
	DeactivateSchedule(ctx context.Context, id string) error
	// RunDue materializes flows for every active schedule whose next run
	// date has passed, advancing the schedule as it goes. Returns the
	// created flows.
	RunDue(ctx context.Context, now time.Time) ([]models.Flow, error)
}

// RateServicer defines the contract for posted currency rates.
type RateServicer interface {
	ListRates(ctx context.Context) ([]models.CurrencyRate, error)
	UpsertRate(ctx context.Context, code string, rate float64) (*models.CurrencyRate, error)
	// LoadConverter snapshots the posted rates into a converter.
	LoadConverter(ctx context.Context) (*currency.Converter, error)
}

// SettingsServicer defines the contract for user-level settings.
type SettingsServicer interface {
	// GetUserTaxSettings returns the settings row, creating it with
	// defaults on first use.
	GetUserTaxSettings(ctx context.Context) (*models.UserSettings, error)
	UpdateSettings(ctx context.Context, baseCurrency *string, withholdingRate *float64) (*models.UserSettings, error)
}

// NetWorthSummary aggregates all assets and debts into the base currency.
type NetWorthSummary struct {
	Currency    string             `json:"currency"`
	TotalAssets float64            `json:"total_assets"`
	TotalDebts  float64            `json:"total_debts"`
	NetWorth    float64            `json:"net_worth"`
	ByAssetType map[string]float64 `json:"by_asset_type"`
	// Degraded is set when any holding was skipped for lack of a posted
	// conversion rate; the summary must not be treated as canonical.
	Degraded bool `json:"degraded,omitempty"`
}

// SnapshotServicer defines the contract for net-worth aggregation and
// snapshot history.
type SnapshotServicer interface {
	ComputeSummary(ctx context.Context) (*NetWorthSummary, error)
	RecordSnapshot(ctx context.Context, at time.Time) (*models.NetWorthSnapshot, error)
	ListSnapshots(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]interface{})
}

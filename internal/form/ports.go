package form

import (
	"context"

	"networth/internal/models"
)

// Submission is the atomic unit handed to the repository: any inline assets
// to create plus the finished flow. The repository must execute it so that
// a failure at any step leaves no orphan asset and no partial flow.
type Submission struct {
	Flow models.Flow

	// NewFromAsset / NewToAsset, when set, are created before the flow and
	// their generated ids fill the corresponding flow endpoints.
	NewFromAsset *models.Asset
	NewToAsset   *models.Asset
}

// Repository is the persistence collaborator a flow form submits through.
// The GORM service layer satisfies it in production; tests use in-memory
// fakes. The form treats the underlying data as eventually consistent and
// re-resolves auto-selected endpoints from fresh snapshots.
type Repository interface {
	ListAssets(ctx context.Context) ([]models.Asset, error)
	GetDebt(ctx context.Context, id string) (*models.Debt, error)
	SubmitFlow(ctx context.Context, sub Submission) (*models.Flow, error)
	ListInvestFlowsForAsset(ctx context.Context, assetID string) ([]models.Flow, error)
	GetUserTaxSettings(ctx context.Context) (*models.UserSettings, error)
}

package services

import (
	"context"

	"networth/internal/form"
	"networth/internal/models"
)

// formRepository adapts the service layer to the form.Repository port so a
// flow form can run against the real persistence stack.
type formRepository struct {
	assets   AssetServicer
	debts    DebtServicer
	flows    FlowServicer
	settings SettingsServicer
}

// NewFormRepository creates the repository collaborator flow forms submit
// through.
func NewFormRepository(assets AssetServicer, debts DebtServicer, flows FlowServicer, settings SettingsServicer) form.Repository {
	return &formRepository{assets: assets, debts: debts, flows: flows, settings: settings}
}

func (r *formRepository) ListAssets(ctx context.Context) ([]models.Asset, error) {
	return r.assets.ListAssets(ctx)
}

func (r *formRepository) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	return r.debts.GetDebtByID(ctx, id)
}

func (r *formRepository) SubmitFlow(ctx context.Context, sub form.Submission) (*models.Flow, error) {
	return r.flows.SubmitFlow(ctx, sub)
}

func (r *formRepository) ListInvestFlowsForAsset(ctx context.Context, assetID string) ([]models.Flow, error) {
	return r.flows.ListInvestFlowsForAsset(ctx, assetID)
}

func (r *formRepository) GetUserTaxSettings(ctx context.Context) (*models.UserSettings, error) {
	return r.settings.GetUserTaxSettings(ctx)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/form"
	"networth/internal/marketdata"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/services"
)

// FlowHandler handles flow submission and history requests. Submission runs
// the full flow form: category preset, field entry, endpoint resolution,
// validation, and metadata assembly all happen server-side so every client
// gets identical semantics.
type FlowHandler struct {
	flowService  services.FlowServicer
	formRepo     form.Repository
	market       marketdata.Client
	auditService services.AuditServicer
}

// NewFlowHandler creates a new FlowHandler.
func NewFlowHandler(flowService services.FlowServicer, formRepo form.Repository, market marketdata.Client, auditService services.AuditServicer) *FlowHandler {
	return &FlowHandler{flowService: flowService, formRepo: formRepo, market: market, auditService: auditService}
}

// NewAssetRequest describes an asset to create inline during flow
// submission.
type NewAssetRequest struct {
	Name     string           `json:"name" binding:"required,min=1,max=200"`
	Type     models.AssetType `json:"type" binding:"required,asset_type"`
	Currency string           `json:"currency" binding:"omitempty,iso4217"`
}

// SubmitFlowRequest represents the request payload for submitting a flow.
// Numeric entry fields are strings: blank or unparseable text normalizes to
// zero instead of failing the bind, matching interactive entry semantics.
type SubmitFlowRequest struct {
	Category string `json:"category" binding:"required,flow_category"`

	Amount      string `json:"amount" binding:"required"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description string `json:"description" binding:"max=500"`
	Currency    string `json:"currency" binding:"omitempty,iso4217"`

	FromAssetID string `json:"from_asset_id" binding:"omitempty,uuid"`
	ToAssetID   string `json:"to_asset_id" binding:"omitempty,uuid"`
	DebtID      string `json:"debt_id" binding:"omitempty,uuid"`

	// Pointers so an explicit empty string clears a seeded default name
	// while an absent field keeps it.
	FromExternalName *string `json:"from_external_name" binding:"omitempty,max=200"`
	ToExternalName   *string `json:"to_external_name" binding:"omitempty,max=200"`

	Ticker         string `json:"ticker" binding:"omitempty,max=20"`
	Shares         string `json:"shares"`
	PricePerShare  string `json:"price_per_share"`
	InvestmentType string `json:"investment_type" binding:"omitempty,asset_type"`
	TaxRate        string `json:"tax_rate"`
	Frequency      string `json:"frequency" binding:"omitempty,schedule_frequency"`

	NoSpecificAccount bool `json:"no_specific_account"`

	NewFromAsset *NewAssetRequest `json:"new_from_asset,omitempty"`
	NewToAsset   *NewAssetRequest `json:"new_to_asset,omitempty"`
}

// SubmitFlow handles submitting a flow through the form state machine.
func (h *FlowHandler) SubmitFlow(c *gin.Context) {
	var req SubmitFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ctx := c.Request.Context()
	controller := form.NewController(h.formRepo, h.market)
	if err := controller.SelectCategory(ctx, req.Category); err != nil {
		respondWithError(c, err)
		return
	}

	// Source first: it drives destination resolution and the reinvest link.
	fields := []struct {
		field form.Field
		value string
	}{
		{form.FieldFromAsset, req.FromAssetID},
		{form.FieldToAsset, req.ToAssetID},
		{form.FieldDebt, req.DebtID},
		{form.FieldAmount, req.Amount},
		{form.FieldDate, req.Date},
		{form.FieldDescription, req.Description},
		{form.FieldCurrency, req.Currency},
		{form.FieldInvestmentType, req.InvestmentType},
		{form.FieldTicker, req.Ticker},
		{form.FieldShares, req.Shares},
		{form.FieldPricePerShare, req.PricePerShare},
		{form.FieldTaxRate, req.TaxRate},
		{form.FieldFrequency, req.Frequency},
	}
	for _, f := range fields {
		if f.value != "" {
			controller.UpdateField(f.field, f.value)
		}
	}
	if req.FromExternalName != nil {
		controller.UpdateField(form.FieldFromExternal, *req.FromExternalName)
	}
	if req.ToExternalName != nil {
		controller.UpdateField(form.FieldToExternal, *req.ToExternalName)
	}

	if req.NewFromAsset != nil {
		controller.BeginInlineCreate(form.SideFrom, form.NewAssetDraft{
			Name:     req.NewFromAsset.Name,
			Type:     req.NewFromAsset.Type,
			Currency: req.NewFromAsset.Currency,
		})
	}
	if req.NewToAsset != nil {
		controller.BeginInlineCreate(form.SideTo, form.NewAssetDraft{
			Name:     req.NewToAsset.Name,
			Type:     req.NewToAsset.Type,
			Currency: req.NewToAsset.Currency,
		})
	}
	if req.NoSpecificAccount {
		controller.SetNoSpecificAccount(true)
	}

	flow, err := controller.Submit(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ctx, "SUBMIT_FLOW", "flow", flow.ID,
		map[string]interface{}{"category": flow.Category, "amount": flow.Amount})

	c.JSON(http.StatusCreated, gin.H{"flow": flow})
}

// ListFlowsQuery represents the query parameters for listing flows.
type ListFlowsQuery struct {
	pagination.PageRequest
	FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Type     string `form:"type" binding:"omitempty,flow_type"`
	Category string `form:"category" binding:"omitempty,flow_category"`
	AssetID  string `form:"asset_id" binding:"omitempty,uuid"`
}

// ListFlows handles listing the flow history with optional filters.
func (h *FlowHandler) ListFlows(c *gin.Context) {
	var query ListFlowsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.FlowFilter{}
	if query.FromDate != "" {
		t, _ := time.Parse("2006-01-02", query.FromDate)
		filter.FromDate = &t
	}
	if query.ToDate != "" {
		t, _ := time.Parse("2006-01-02", query.ToDate)
		filter.ToDate = &t
	}
	if query.Type != "" {
		ft := models.FlowType(query.Type)
		filter.Type = &ft
	}
	if query.Category != "" {
		filter.Category = &query.Category
	}
	if query.AssetID != "" {
		filter.AssetID = &query.AssetID
	}

	result, err := h.flowService.ListFlows(c.Request.Context(), query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFlow handles retrieving a specific flow.
func (h *FlowHandler) GetFlow(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	flow, err := h.flowService.GetFlowByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": flow})
}

// DeleteFlow handles deleting a flow and reversing its balance effects.
func (h *FlowHandler) DeleteFlow(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.flowService.DeleteFlow(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "DELETE_FLOW", "flow", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Flow deleted"})
}

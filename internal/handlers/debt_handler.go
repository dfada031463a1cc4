package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/services"
)

// DebtHandler handles debt-related requests.
type DebtHandler struct {
	debtService  services.DebtServicer
	auditService services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, auditService: auditService}
}

// PropertyAssetRequest describes the real-estate asset created alongside a
// mortgage debt.
type PropertyAssetRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=200"`
	Currency string  `json:"currency" binding:"omitempty,iso4217"`
	Value    float64 `json:"value" binding:"required,gt=0"`
}

// CreateDebtRequest represents the request payload for creating a debt.
type CreateDebtRequest struct {
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	DebtType       models.DebtType       `json:"debt_type" binding:"required,debt_type"`
	Currency       string                `json:"currency" binding:"omitempty,iso4217"`
	Principal      float64               `json:"principal" binding:"required,gt=0"`
	InterestRate   float64               `json:"interest_rate" binding:"gte=0"`
	TermMonths     int                   `json:"term_months" binding:"gte=0"`
	StartDate      *time.Time            `json:"start_date"`
	MonthlyPayment float64               `json:"monthly_payment" binding:"gte=0"`
	PropertyAsset  *PropertyAssetRequest `json:"property_asset,omitempty"`
}

// UpdateDebtRequest represents the request payload for updating a debt.
// CurrentBalance is an explicit adjustment, the only way a debt balance may
// move upward.
type UpdateDebtRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=200"`
	InterestRate   *float64 `json:"interest_rate" binding:"omitempty,gte=0"`
	TermMonths     *int     `json:"term_months" binding:"omitempty,gte=0"`
	MonthlyPayment *float64 `json:"monthly_payment" binding:"omitempty,gte=0"`
	CurrentBalance *float64 `json:"current_balance" binding:"omitempty,gte=0"`
}

// CreateDebt handles creating a new debt, optionally with the real-estate
// asset it finances.
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.CreateDebtInput{
		Name:           req.Name,
		DebtType:       req.DebtType,
		Currency:       req.Currency,
		Principal:      req.Principal,
		InterestRate:   req.InterestRate,
		TermMonths:     req.TermMonths,
		StartDate:      req.StartDate,
		MonthlyPayment: req.MonthlyPayment,
	}
	if req.PropertyAsset != nil {
		input.PropertyAsset = &services.CreateAssetInput{
			Name:     req.PropertyAsset.Name,
			Type:     models.AssetTypeRealEstate,
			Currency: req.PropertyAsset.Currency,
			Balance:  req.PropertyAsset.Value,
		}
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "CREATE_DEBT", "debt", debt.ID,
		map[string]interface{}{"name": debt.Name, "principal": debt.Principal})

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// ListDebts handles listing all active debts.
func (h *DebtHandler) ListDebts(c *gin.Context) {
	debts, err := h.debtService.ListDebts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// GetDebt handles retrieving a specific debt.
func (h *DebtHandler) GetDebt(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebtByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// UpdateDebt handles updating a debt.
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.debtService.UpdateDebt(c.Request.Context(), id, services.UpdateDebtInput{
		Name:           req.Name,
		InterestRate:   req.InterestRate,
		TermMonths:     req.TermMonths,
		MonthlyPayment: req.MonthlyPayment,
		CurrentBalance: req.CurrentBalance,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "UPDATE_DEBT", "debt", debt.ID, nil)

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/services"
)

// AssetHandler handles asset-related requests.
type AssetHandler struct {
	assetService services.AssetServicer
	auditService services.AuditServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, auditService services.AuditServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService, auditService: auditService}
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=200"`
	Type     models.AssetType       `json:"type" binding:"required,asset_type"`
	Currency string                 `json:"currency" binding:"omitempty,iso4217"`
	Balance  float64                `json:"balance" binding:"gte=0"`
	Ticker   string                 `json:"ticker" binding:"omitempty,max=20"`
	Market   string                 `json:"market" binding:"omitempty,max=50"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UpdateAssetRequest represents the request payload for updating an asset.
type UpdateAssetRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Ticker   *string `json:"ticker" binding:"omitempty,max=20"`
	Market   *string `json:"market" binding:"omitempty,max=50"`
	IsActive *bool   `json:"is_active"`
}

// AdjustBalanceRequest represents the request payload for adjusting an
// asset balance to a new value.
type AdjustBalanceRequest struct {
	NewBalance float64    `json:"new_balance" binding:"gte=0"`
	Date       *time.Time `json:"date"`
}

// UpdateSharesRequest represents the request payload for a direct share
// count edit on a share-based asset.
type UpdateSharesRequest struct {
	Shares float64 `json:"shares" binding:"gte=0"`
}

// CreateAsset handles creating a new asset.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), services.CreateAssetInput{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
		Balance:  req.Balance,
		Ticker:   req.Ticker,
		Market:   req.Market,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "CREATE_ASSET", "asset", asset.ID,
		map[string]interface{}{"name": asset.Name, "type": string(asset.Type)})

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// ListAssets handles listing all active assets.
func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.assetService.ListAssets(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// GetAsset handles retrieving a specific asset.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset handles updating an asset's descriptive fields.
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), id, services.UpdateAssetInput{
		Name:     req.Name,
		Ticker:   req.Ticker,
		Market:   req.Market,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "UPDATE_ASSET", "asset", asset.ID, nil)

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// AdjustBalance handles setting a new balance on an adjustable asset. The
// difference is recorded as a balance_adjustment flow.
func (h *AssetHandler) AdjustBalance(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	flow, err := h.assetService.AdjustBalance(c.Request.Context(), id, req.NewBalance, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "ADJUST_BALANCE", "asset", id,
		map[string]interface{}{"new_balance": req.NewBalance})

	c.JSON(http.StatusOK, gin.H{"flow": flow})
}

// UpdateShares handles a direct share-count edit on a share-based asset.
func (h *AssetHandler) UpdateShares(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSharesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.UpdateShareCount(c.Request.Context(), id, req.Shares)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "UPDATE_SHARES", "asset", id,
		map[string]interface{}{"shares": req.Shares})

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

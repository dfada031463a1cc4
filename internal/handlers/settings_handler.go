package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/services"
)

// SettingsHandler handles user settings requests.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the request payload for updating user
// settings.
type UpdateSettingsRequest struct {
	BaseCurrency            *string  `json:"base_currency" binding:"omitempty,iso4217"`
	DividendWithholdingRate *float64 `json:"dividend_withholding_rate" binding:"omitempty,gte=0,lt=1"`
}

// GetSettings handles retrieving the user settings.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetUserTaxSettings(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles patching the user settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req.BaseCurrency, req.DividendWithholdingRate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

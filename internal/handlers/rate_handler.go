package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/services"
)

// RateHandler handles posted currency rate requests.
type RateHandler struct {
	rateService services.RateServicer
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateService services.RateServicer) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// UpsertRateRequest represents the request payload for posting a rate.
type UpsertRateRequest struct {
	Code string  `json:"code" binding:"required,iso4217"`
	Rate float64 `json:"rate" binding:"required,gt=0"`
}

// ListRates handles listing all posted conversion rates.
func (h *RateHandler) ListRates(c *gin.Context) {
	rates, err := h.rateService.ListRates(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

// UpsertRate handles posting or replacing the rate for a currency.
func (h *RateHandler) UpsertRate(c *gin.Context) {
	var req UpsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rate, err := h.rateService.UpsertRate(c.Request.Context(), req.Code, req.Rate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/marketdata"
)

// MarketHandler proxies ticker search and quote lookups to the market data
// source.
type MarketHandler struct {
	market marketdata.Client
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market marketdata.Client) *MarketHandler {
	return &MarketHandler{market: market}
}

// SearchSymbols handles searching ticker symbols.
func (h *MarketHandler) SearchSymbols(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Query parameter q is required"))
		return
	}

	symbols, err := h.market.SearchSymbols(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err))
		return
	}
	if symbols == nil {
		symbols = []marketdata.Symbol{}
	}
	c.JSON(http.StatusOK, gin.H{"symbols": symbols})
}

// GetQuote handles fetching the current quote for a ticker.
func (h *MarketHandler) GetQuote(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required"))
		return
	}

	quote, err := h.market.GetQuote(c.Request.Context(), ticker)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

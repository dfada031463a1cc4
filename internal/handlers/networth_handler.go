package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/pagination"
	"networth/internal/services"
)

// NetWorthHandler handles net-worth summary and snapshot requests.
type NetWorthHandler struct {
	snapshotService services.SnapshotServicer
}

// NewNetWorthHandler creates a new NetWorthHandler.
func NewNetWorthHandler(snapshotService services.SnapshotServicer) *NetWorthHandler {
	return &NetWorthHandler{snapshotService: snapshotService}
}

// GetSummary handles computing the live net-worth summary in the base
// currency.
func (h *NetWorthHandler) GetSummary(c *gin.Context) {
	summary, err := h.snapshotService.ComputeSummary(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RecordSnapshot handles persisting the current summary as a snapshot.
func (h *NetWorthHandler) RecordSnapshot(c *gin.Context) {
	snapshot, err := h.snapshotService.RecordSnapshot(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// ListSnapshots handles listing the snapshot history.
func (h *NetWorthHandler) ListSnapshots(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.ListSnapshots(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

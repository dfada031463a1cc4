package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/services"
)

// ScheduleHandler handles recurring schedule requests.
type ScheduleHandler struct {
	scheduleService services.ScheduleServicer
	auditService    services.AuditServicer
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService services.ScheduleServicer, auditService services.AuditServicer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, auditService: auditService}
}

// CreateScheduleRequest represents the request payload for creating a
// recurring schedule.
type CreateScheduleRequest struct {
	Frequency   models.ScheduleFrequency `json:"frequency" binding:"required,schedule_frequency"`
	NextRunDate time.Time                `json:"next_run_date" binding:"required"`
	FlowType    models.FlowType          `json:"flow_type" binding:"required,flow_type"`
	Category    string                   `json:"category" binding:"required,flow_category"`
	Amount      float64                  `json:"amount" binding:"required,gt=0"`
	Currency    string                   `json:"currency" binding:"omitempty,iso4217"`
	FromAssetID *string                  `json:"from_asset_id" binding:"omitempty,uuid"`
	ToAssetID   *string                  `json:"to_asset_id" binding:"omitempty,uuid"`
	DebtID      *string                  `json:"debt_id" binding:"omitempty,uuid"`
	Description string                   `json:"description" binding:"max=500"`
}

// CreateSchedule handles creating a new recurring schedule.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), services.CreateScheduleInput{
		Frequency:   req.Frequency,
		NextRunDate: req.NextRunDate,
		FlowType:    req.FlowType,
		Category:    req.Category,
		Amount:      req.Amount,
		Currency:    req.Currency,
		FromAssetID: req.FromAssetID,
		ToAssetID:   req.ToAssetID,
		DebtID:      req.DebtID,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "CREATE_SCHEDULE", "schedule", schedule.ID,
		map[string]interface{}{"category": schedule.Category, "frequency": string(schedule.Frequency)})

	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// ListSchedules handles listing recurring schedules.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.scheduleService.ListSchedules(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSchedule handles retrieving a specific schedule.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedule, err := h.scheduleService.GetScheduleByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// DeactivateSchedule handles stopping a schedule from firing.
func (h *ScheduleHandler) DeactivateSchedule(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scheduleService.DeactivateSchedule(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), "DEACTIVATE_SCHEDULE", "schedule", id, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deactivated"})
}

// RunDueSchedules handles materializing flows for every schedule that is
// due.
func (h *ScheduleHandler) RunDueSchedules(c *gin.Context) {
	flows, err := h.scheduleService.RunDue(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	if flows == nil {
		flows = []models.Flow{}
	}
	c.JSON(http.StatusOK, gin.H{"flows": flows})
}

package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"networth/internal/logger"
	"networth/internal/models"
)

// auditService records mutating operations for later review. Logging is
// best-effort: a failed audit write is logged but never surfaces to the
// operation being audited.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

func (s *auditService) Log(ctx context.Context, action, resourceType, resourceID string, changes map[string]interface{}) {
	entry := models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	if len(changes) > 0 {
		if encoded, err := json.Marshal(changes); err == nil {
			entry.Changes = string(encoded)
		}
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.Get().Warnw("audit write failed",
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NetWorthSnapshot represents a point-in-time record of total net worth,
// with all balances converted into the base currency. This is immutable
// time-series data — no Base embed, no soft deletes.
type NetWorthSnapshot struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	RecordedAt  time.Time `gorm:"not null;index" json:"recorded_at"`
	Currency    string    `gorm:"not null" json:"currency"`
	TotalAssets float64   `gorm:"not null" json:"total_assets"`
	TotalDebts  float64   `gorm:"not null" json:"total_debts"`
	NetWorth    float64   `gorm:"not null" json:"net_worth"`
}

// BeforeCreate hook generates a UUIDv7 for new records.
func (s *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		s.ID = id.String()
	}
	return nil
}

package models

import "time"

// ScheduleFrequency represents how often a recurring schedule fires.
type ScheduleFrequency string

const (
	FrequencyWeekly    ScheduleFrequency = "weekly"
	FrequencyMonthly   ScheduleFrequency = "monthly"
	FrequencyQuarterly ScheduleFrequency = "quarterly"
	FrequencyAnnual    ScheduleFrequency = "annual"
)

// RecurringSchedule holds a flow template that is materialized into a real
// flow each time NextRunDate passes.
type RecurringSchedule struct {
	Base
	Frequency   ScheduleFrequency `gorm:"not null" json:"frequency"`
	NextRunDate time.Time         `gorm:"not null;index" json:"next_run_date"`
	IsActive    bool              `gorm:"default:true" json:"is_active"`

	// Flow template.
	FlowType    FlowType `gorm:"not null" json:"flow_type"`
	Category    string   `gorm:"not null" json:"category"`
	Amount      float64  `gorm:"not null" json:"amount"`
	Currency    string   `gorm:"not null;default:'USD'" json:"currency"`
	FromAssetID *string  `gorm:"type:uuid" json:"from_asset_id,omitempty"`
	ToAssetID   *string  `gorm:"type:uuid" json:"to_asset_id,omitempty"`
	DebtID      *string  `gorm:"type:uuid" json:"debt_id,omitempty"`
	Description string   `json:"description"`
}

// Advance returns the run date that follows the given one for the
// schedule's frequency.
func (s *RecurringSchedule) Advance(from time.Time) time.Time {
	switch s.Frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyAnnual:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

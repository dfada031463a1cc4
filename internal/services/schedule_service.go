package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/form"
	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/preset"
)

// scheduleService manages recurring flow templates and turns the due ones
// into real flows through the flow service, so scheduled flows get the same
// balance effects as manual submissions.
type scheduleService struct {
	db    *gorm.DB
	flows FlowServicer
}

// NewScheduleService creates a new ScheduleServicer.
func NewScheduleService(db *gorm.DB, flows FlowServicer) ScheduleServicer {
	return &scheduleService{db: db, flows: flows}
}

// CreateSchedule registers a recurring flow template.
func (s *scheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*models.RecurringSchedule, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Amount must be greater than zero")
	}
	if !preset.Valid(input.Category) {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownCategory, "Unknown flow category: "+input.Category)
	}
	if input.NextRunDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Next run date is required")
	}

	schedule := models.RecurringSchedule{
		Frequency:   input.Frequency,
		NextRunDate: input.NextRunDate,
		IsActive:    true,
		FlowType:    input.FlowType,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    input.Currency,
		FromAssetID: input.FromAssetID,
		ToAssetID:   input.ToAssetID,
		DebtID:      input.DebtID,
		Description: input.Description,
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &schedule, nil
}

// ListSchedules returns schedules in next-run order, soonest first.
func (s *scheduleService) ListSchedules(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringSchedule], error) {
	page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.RecurringSchedule{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var schedules []models.RecurringSchedule
	if err := base.Scopes(pagination.Paginate(page)).
		Order("next_run_date ASC").
		Find(&schedules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(schedules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetScheduleByID retrieves a schedule by id.
func (s *scheduleService) GetScheduleByID(ctx context.Context, id string) (*models.RecurringSchedule, error) {
	var schedule models.RecurringSchedule
	if err := s.db.WithContext(ctx).First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &schedule, nil
}

// DeactivateSchedule stops a schedule from firing. The schedule and the
// flows it already produced are kept.
func (s *scheduleService) DeactivateSchedule(ctx context.Context, id string) error {
	schedule, err := s.GetScheduleByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(schedule).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RunDue materializes flows for every active schedule whose next run date
// has passed. A schedule that is several periods behind catches up with one
// flow per missed period. Failures are logged and skipped so one broken
// schedule cannot block the rest.
func (s *scheduleService) RunDue(ctx context.Context, now time.Time) ([]models.Flow, error) {
	log := logger.Named("schedules")

	var due []models.RecurringSchedule
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND next_run_date <= ?", true, now).
		Order("next_run_date ASC").
		Find(&due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var created []models.Flow
	for i := range due {
		schedule := due[i]
		next := schedule.NextRunDate

		for !next.After(now) {
			flow, err := s.flows.SubmitFlow(ctx, form.Submission{Flow: s.flowFromTemplate(&schedule, next)})
			if err != nil {
				log.Errorw("scheduled flow failed",
					"schedule_id", schedule.ID,
					"category", schedule.Category,
					"error", err,
				)
				break
			}
			created = append(created, *flow)
			next = schedule.Advance(next)
		}

		// Persist even after a mid-catch-up failure: next points at the
		// first period that did not materialize, so committed periods are
		// never re-run.
		if err := s.db.WithContext(ctx).Model(&schedule).Update("next_run_date", next).Error; err != nil {
			log.Errorw("schedule advance failed", "schedule_id", schedule.ID, "error", err)
		}
	}
	return created, nil
}

func (s *scheduleService) flowFromTemplate(schedule *models.RecurringSchedule, runDate time.Time) models.Flow {
	id := schedule.ID
	return models.Flow{
		Type:        schedule.FlowType,
		Category:    schedule.Category,
		Amount:      schedule.Amount,
		Currency:    schedule.Currency,
		FromAssetID: schedule.FromAssetID,
		ToAssetID:   schedule.ToAssetID,
		DebtID:      schedule.DebtID,
		Date:        runDate,
		Description: schedule.Description,
		Metadata: map[string]interface{}{
			models.MetaFrequency: string(schedule.Frequency),
		},
		ScheduleID: &id,
	}
}

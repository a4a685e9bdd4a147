package professional

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func errProfessionalNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound("professional_not_found", "Profesional no encontrado.")
	}
	return err
}

// ======================================================
// GET SCHEDULE
// ======================================================

type GetSchedule struct {
	repo Repository
}

func NewGetSchedule(repo Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(
	ctx context.Context,
	id uint,
) (schedule.WeeklySchedule, error) {

	prof, err := uc.repo.Get(ctx, id)
	if err != nil {
		return schedule.WeeklySchedule{}, errProfessionalNotFound(err)
	}
	return prof.Schedule.Data(), nil
}

// ======================================================
// UPDATE SCHEDULE
// ======================================================

type UpdateSchedule struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewUpdateSchedule(
	repo Repository,
	audit *audit.Dispatcher,
) *UpdateSchedule {
	return &UpdateSchedule{
		repo:  repo,
		audit: audit,
	}
}

// Execute replaces the weekly schedule. Existing appointments are not
// re-checked against the new availability.
func (uc *UpdateSchedule) Execute(
	ctx context.Context,
	id uint,
	w schedule.WeeklySchedule,
	actor audit.Actor,
) (schedule.WeeklySchedule, error) {

	if err := w.Validate(); err != nil {
		return schedule.WeeklySchedule{}, err
	}

	if _, err := uc.repo.Get(ctx, id); err != nil {
		return schedule.WeeklySchedule{}, errProfessionalNotFound(err)
	}
	if err := uc.repo.UpdateSchedule(ctx, id, w); err != nil {
		return schedule.WeeklySchedule{}, err
	}

	uc.audit.Dispatch(actor.Event("schedule_updated", "professional", id, w))
	return w, nil
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

type SlotsResult struct {
	ProfessionalID uint     `json:"professional_id"`
	Date           string   `json:"date"`
	Available      bool     `json:"available"`
	Slots          []string `json:"slots"`
}

// AvailableSlots expands the weekly pattern for one date without looking
// at bookings.
type AvailableSlots struct {
	repo Repository
}

func NewAvailableSlots(repo Repository) *AvailableSlots {
	return &AvailableSlots{repo: repo}
}

func (uc *AvailableSlots) Execute(
	ctx context.Context,
	id uint,
	date models.Date,
) (*SlotsResult, error) {

	prof, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, errProfessionalNotFound(err)
	}

	out := &SlotsResult{
		ProfessionalID: prof.ID,
		Date:           date.String(),
		Slots:          []string{},
	}
	if !prof.IsActive() {
		return out, nil
	}

	out.Slots, out.Available = schedule.Slots(prof.Schedule.Data(), date.Time())
	return out, nil
}

// ======================================================
// DEACTIVATE
// ======================================================

// Deactivate is the soft delete of a professional. History stays intact;
// new bookings are refused.
type Deactivate struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewDeactivate(
	repo Repository,
	audit *audit.Dispatcher,
) *Deactivate {
	return &Deactivate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Deactivate) Execute(
	ctx context.Context,
	id uint,
	actor audit.Actor,
) error {

	prof, err := uc.repo.Get(ctx, id)
	if err != nil {
		return errProfessionalNotFound(err)
	}
	if prof.Status == models.ProfessionalInactive {
		return nil
	}
	if err := uc.repo.SetStatus(ctx, id, models.ProfessionalInactive); err != nil {
		return err
	}

	uc.audit.Dispatch(actor.Event("professional_deactivated", "professional", id, map[string]any{
		"previous_status": prof.Status,
	}))
	return nil
}

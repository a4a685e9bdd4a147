package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// DeleteAppointment removes the row. A rendering created from it stays in
// the ledger with its appointment reference cleared by the store.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	id uint,
	actor audit.Actor,
) error {

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return errAppointmentNotFound(err)
	}

	uc.audit.Dispatch(actor.Event("appointment_deleted", "appointment", id, nil))
	return nil
}

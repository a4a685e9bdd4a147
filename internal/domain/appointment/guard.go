package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	CodeTimeConflict        = "time_conflict"
	CodeMonthlyQuota        = "monthly_quota_exceeded"
	CodeOutsideWorkingHours = "outside_working_hours"
	CodeProfessionalOff     = "professional_inactive"
	CodeServiceNotOffered   = "service_not_offered"
	CodeSerialization       = "booking_serialization"
)

func ErrTimeConflict() error {
	return httperr.ErrConflict(CodeTimeConflict, "El profesional ya tiene un turno asignado en ese horario.")
}

func ErrMonthlyQuota() error {
	return httperr.ErrConflict(CodeMonthlyQuota, "El paciente ya posee un turno reservado en este mes.")
}

// ErrSerialization is what the store returns when the booking transaction
// was aborted because a concurrent one committed first. Use cases turn it
// into a rule violation with ExplainConflict before it reaches the caller.
func ErrSerialization() error {
	return httperr.ErrConflict(CodeSerialization, "El turno fue modificado por otra operación. Intente nuevamente.")
}

// ConflictChecker is the part of the store the guard needs. Bookings run it
// inside their transaction; ExplainConflict runs it on committed state.
type ConflictChecker interface {
	HasTimeConflict(
		ctx context.Context,
		professionalID uint,
		date models.Date,
		start string,
		end string,
		excludeID uint,
	) (bool, error)

	HasMonthlyAppointment(
		ctx context.Context,
		patientID uuid.UUID,
		month string,
		excludeID uint,
	) (bool, error)
}

// ServiceOffering answers whether a professional performs a service.
type ServiceOffering interface {
	OffersService(ctx context.Context, professionalID, serviceID uint) (bool, error)
}

// CheckOffered rejects services the professional has no active link to.
func CheckOffered(ctx context.Context, repo ServiceOffering, professionalID, serviceID uint) error {
	ok, err := repo.OffersService(ctx, professionalID, serviceID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusinessMsg(CodeServiceNotOffered, "El profesional seleccionado no está disponible para este servicio.")
	}
	return nil
}

// CheckBookable validates the candidate against the professional's state
// and weekly availability.
func CheckBookable(prof *models.Professional, c Candidate) error {
	if !prof.IsActive() {
		return httperr.ErrBusinessMsg(CodeProfessionalOff, "El profesional no está activo.")
	}
	if !schedule.Covers(prof.Schedule.Data(), c.Date.Time(), c.Start, c.End) {
		return httperr.ErrBusinessMsg(CodeOutsideWorkingHours, "El horario solicitado está fuera de la disponibilidad del profesional.")
	}
	return nil
}

// Guard runs the overlap and monthly quota rules against non-cancelled
// appointments.
func Guard(ctx context.Context, repo ConflictChecker, c Candidate) error {
	conflict, err := repo.HasTimeConflict(
		ctx,
		c.ProfessionalID,
		c.Date,
		c.Start.String(),
		c.End.String(),
		c.ExcludeID,
	)
	if err != nil {
		return err
	}
	if conflict {
		return ErrTimeConflict()
	}

	taken, err := repo.HasMonthlyAppointment(ctx, c.PatientID, c.Date.Month(), c.ExcludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrMonthlyQuota()
	}
	return nil
}

// ExplainConflict reclassifies a serialization abort by running the guard
// again against committed state. The write is not retried. Without a
// candidate, or when neither rule fires any more, it reports a time conflict.
// Any other error is returned unchanged.
func ExplainConflict(ctx context.Context, repo ConflictChecker, c *Candidate, err error) error {
	if !httperr.IsBusiness(err, CodeSerialization) {
		return err
	}
	if c == nil {
		return ErrTimeConflict()
	}
	if gErr := Guard(ctx, repo, *c); gErr != nil {
		if _, ok := httperr.AsBusiness(gErr); ok {
			return gErr
		}
	}
	return ErrTimeConflict()
}

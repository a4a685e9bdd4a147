package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	pgUniqueViolation        = "23505"
	pgExclusionViolation     = "23P01"
	pgSerializationFailure   = "40001"
	pgDeadlockDetected       = "40P01"
	pgForeignKeyViolation    = "23503"
	idxAppointmentsPatientMo = "idx_appointments_patient_month"
	idxRenderingsAppointment = "idx_service_renderings_appointment_id"

	spCreateRendering = "create_rendering"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error, constraint string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// translateError turns store integrity failures into business conflicts
// so raw driver messages never reach the caller. onSerialization is the
// conflict reported when the transaction lost a serialization race.
func translateError(err error, onSerialization error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}

	pgErr, ok := pgError(err)
	if !ok {
		return err
	}

	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgExclusionViolation:
		return onSerialization
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case idxAppointmentsPatientMo:
			return httperr.ErrConflict("monthly_quota_exceeded", "El paciente ya posee un turno reservado en este mes.")
		case idxRenderingsAppointment:
			return httperr.ErrConflict("rendering_exists", "El turno ya tiene una prestación registrada.")
		}
		return httperr.ErrConflict("duplicate", "El registro ya existe.")
	case pgForeignKeyViolation:
		return httperr.ErrConflict("reference_violation", "El registro está referenciado por otros datos.")
	}
	return err
}

func errConcurrentUpdate() error {
	return httperr.ErrConflict("concurrent_update", "La operación entró en conflicto con otra simultánea, intente nuevamente.")
}

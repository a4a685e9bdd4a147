package appointment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// notFound maps a missing row to a 404 business error and passes any
// other error through.
func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func errAppointmentNotFound(err error) error {
	return notFound(err, "appointment_not_found", "Turno no encontrado.")
}

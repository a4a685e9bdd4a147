package settlement

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Clock returns the clinic's current time; settlement dates derive from it.
type Clock func() time.Time

func (c Clock) today() models.Date {
	if c == nil {
		return models.NewDate(time.Now())
	}
	return models.NewDate(c())
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func errSettlementNotFound(err error) error {
	return notFound(err, "settlement_not_found", "Liquidación no encontrada.")
}

func errProfessionalNotFound(err error) error {
	return notFound(err, "professional_not_found", "Profesional no encontrado.")
}

func parseDate(field, raw string) (models.Date, error) {
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, httperr.ErrValidation("Fecha inválida.", httperr.FieldError{
			Field: field, Message: "La fecha debe ser válida (YYYY-MM-DD)",
		})
	}
	return d, nil
}

func parseOptionalDate(field string, raw *string) (*models.Date, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

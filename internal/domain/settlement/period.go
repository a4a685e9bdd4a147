package settlement

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PeriodKind string

const (
	PeriodToday  PeriodKind = "today"
	PeriodWeek   PeriodKind = "week"
	PeriodMonth  PeriodKind = "month"
	PeriodCustom PeriodKind = "custom"
)

type Period struct {
	Start models.Date
	End   models.Date
}

func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return httperr.ErrValidation("Período inválido.", httperr.FieldError{
			Field: "period", Message: "Debe especificar fecha de inicio y fin",
		})
	}
	if p.End.Before(p.Start) {
		return httperr.ErrValidation("Período inválido.", httperr.FieldError{
			Field: "period_end", Message: "La fecha de fin no puede ser anterior a la de inicio",
		})
	}
	return nil
}

// ResolvePeriod turns a shorthand into concrete dates relative to today.
// Week starts on Monday; week and month end today.
func ResolvePeriod(kind PeriodKind, today time.Time, customStart, customEnd *models.Date) (Period, error) {
	end := models.NewDate(today)

	switch kind {
	case PeriodToday:
		return Period{Start: end, End: end}, nil
	case PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		return Period{Start: models.NewDate(today.AddDate(0, 0, -offset)), End: end}, nil
	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return Period{Start: models.NewDate(first), End: end}, nil
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return Period{}, httperr.ErrValidation("Período inválido.", httperr.FieldError{
				Field: "custom_start", Message: "Debe especificar fecha de inicio y fin para rango personalizado",
			})
		}
		p := Period{Start: *customStart, End: *customEnd}
		return p, p.Validate()
	}

	return Period{}, httperr.ErrValidation("Período inválido.", httperr.FieldError{
		Field: "period", Message: "Debe ser today, week, month o custom",
	})
}

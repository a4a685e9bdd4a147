package appointment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Candidate is a booking reduced to what the conflict guard looks at.
// ExcludeID is the appointment being edited, zero on creation.
type Candidate struct {
	ProfessionalID uint
	PatientID      uuid.UUID
	Date           models.Date
	Start          schedule.Clock
	End            schedule.Clock
	ExcludeID      uint
}

func NewCandidate(ap *models.Appointment) (Candidate, error) {
	start, err := schedule.ParseClock(ap.StartTime)
	if err != nil {
		return Candidate{}, httperr.ErrValidation("Hora inválida.", httperr.FieldError{
			Field: "start_time", Message: "La hora de inicio debe tener formato HH:MM",
		})
	}
	end, err := schedule.ParseClock(ap.EndTime)
	if err != nil {
		return Candidate{}, httperr.ErrValidation("Hora inválida.", httperr.FieldError{
			Field: "end_time", Message: "La hora de fin debe tener formato HH:MM",
		})
	}
	if end <= start {
		return Candidate{}, httperr.ErrValidation("Horario inválido.", httperr.FieldError{
			Field: "end_time", Message: "La hora de fin debe ser posterior a la de inicio",
		})
	}

	return Candidate{
		ProfessionalID: ap.ProfessionalID,
		PatientID:      ap.PatientID,
		Date:           ap.Date,
		Start:          start,
		End:            end,
		ExcludeID:      ap.ID,
	}, nil
}

// BillableAmount picks the override price, then the sub-service price,
// then the service base price.
func BillableAmount(
	finalPrice *decimal.Decimal,
	sub *models.SubService,
	svc *models.Service,
) decimal.Decimal {
	if finalPrice != nil {
		return *finalPrice
	}
	if sub != nil {
		return sub.Price
	}
	if svc != nil {
		return svc.BasePrice
	}
	return decimal.Zero
}

func RenderingDescription(svc *models.Service, sub *models.SubService) string {
	if svc == nil {
		return ""
	}
	if sub != nil {
		return svc.Name + " - " + sub.Name
	}
	return svc.Name
}

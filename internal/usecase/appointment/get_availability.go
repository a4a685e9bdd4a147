package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	msgAvailable     = "Horario disponible."
	msgNotWorking    = "El profesional no atiende en ese horario."
	msgInactive      = "El profesional no está activo."
	msgAlreadyBooked = "El profesional ya tiene un turno asignado en ese horario."
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Day lists the date's offerable slots, each marked with whether a
// non-cancelled appointment already occupies it.
func (uc *GetAvailability) Day(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.DayAvailability, error) {

	prof, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
	if err != nil {
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}

	out := &domain.DayAvailability{
		ProfessionalID: prof.ID,
		Date:           in.Date.String(),
		Slots:          []domain.TimeSlot{},
	}
	if !prof.IsActive() {
		return out, nil
	}

	starts, ok := schedule.Slots(prof.Schedule.Data(), in.Date.Time())
	if !ok {
		return out, nil
	}

	booked, err := uc.repo.ListAppointmentsForDay(ctx, prof.ID, in.Date)
	if err != nil {
		return nil, err
	}

	for _, s := range starts {
		start := schedule.MustClock(s)
		end := start.Add(schedule.SlotMinutes)

		free := true
		for _, ap := range booked {
			apStart, err1 := schedule.ParseClock(ap.StartTime)
			apEnd, err2 := schedule.ParseClock(ap.EndTime)
			if err1 != nil || err2 != nil {
				continue
			}
			if schedule.Overlaps(start, end, apStart, apEnd) {
				free = false
				break
			}
		}

		out.Slots = append(out.Slots, domain.TimeSlot{
			Start:     start.String(),
			End:       end.String(),
			Available: free,
		})
		if free {
			out.Available = true
		}
	}

	return out, nil
}

// Interval answers whether one concrete interval could be booked now.
// The answer is advisory; booking re-checks inside its transaction.
func (uc *GetAvailability) Interval(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.IntervalAvailability, error) {

	start, err := schedule.ParseClock(in.Start)
	if err != nil {
		return nil, httperr.ErrValidation("Hora inválida.", httperr.FieldError{
			Field: "start", Message: "La hora de inicio debe tener formato HH:MM",
		})
	}
	end, err := schedule.ParseClock(in.End)
	if err != nil || end <= start {
		return nil, httperr.ErrValidation("Hora inválida.", httperr.FieldError{
			Field: "end", Message: "La hora de fin debe tener formato HH:MM y ser posterior a la de inicio",
		})
	}

	prof, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
	if err != nil {
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}
	if !prof.IsActive() {
		return &domain.IntervalAvailability{Message: msgInactive}, nil
	}
	if !schedule.Covers(prof.Schedule.Data(), in.Date.Time(), start, end) {
		return &domain.IntervalAvailability{Message: msgNotWorking}, nil
	}

	conflict, err := uc.repo.HasTimeConflict(ctx, prof.ID, in.Date, start.String(), end.String(), 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return &domain.IntervalAvailability{Message: msgAlreadyBooked}, nil
	}

	return &domain.IntervalAvailability{Available: true, Message: msgAvailable}, nil
}

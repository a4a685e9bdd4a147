package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	ID uint

	PatientID      *uuid.UUID
	ProfessionalID *uint
	ServiceID      *uint
	SubServiceID   *uint

	Date      *string
	StartTime *string
	EndTime   *string

	Status           *string
	PaymentConfirmed *bool
	FinalPrice       *decimal.Decimal
	Notes            *string

	Actor audit.Actor
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateInput,
) (*models.Appointment, error) {

	var to domain.Status
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		to = st
	}

	var date *models.Date
	if in.Date != nil {
		d, err := models.ParseDate(*in.Date)
		if err != nil {
			return nil, httperr.ErrValidation("Fecha inválida.", httperr.FieldError{
				Field: "date", Message: "La fecha debe ser válida (YYYY-MM-DD)",
			})
		}
		date = &d
	}

	var (
		from    domain.Status
		billing BillingResult
		guarded *domain.Candidate
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.LockAppointment(ctx, in.ID)
		if err != nil {
			return errAppointmentNotFound(err)
		}
		from = domain.Status(ap.Status)

		// --------------------------------------------------
		// Apply changes
		// --------------------------------------------------
		moved := false
		relinked := false

		if in.ProfessionalID != nil && *in.ProfessionalID != ap.ProfessionalID {
			ap.ProfessionalID = *in.ProfessionalID
			moved = true
			relinked = true
		}
		if in.PatientID != nil && *in.PatientID != ap.PatientID {
			if _, err := tx.GetPatient(ctx, *in.PatientID); err != nil {
				return notFound(err, "patient_not_found", "Paciente no encontrado.")
			}
			ap.PatientID = *in.PatientID
			moved = true
		}
		if date != nil && *date != ap.Date {
			ap.Date = *date
			moved = true
		}
		if in.StartTime != nil && *in.StartTime != ap.StartTime {
			ap.StartTime = *in.StartTime
			moved = true
		}
		if in.EndTime != nil && *in.EndTime != ap.EndTime {
			ap.EndTime = *in.EndTime
			moved = true
		}

		if in.ServiceID != nil {
			if _, err := tx.GetService(ctx, *in.ServiceID); err != nil {
				return notFound(err, "service_not_found", "Servicio no encontrado.")
			}
			if *in.ServiceID != ap.ServiceID {
				ap.SubServiceID = nil
				relinked = true
			}
			ap.ServiceID = *in.ServiceID
		}
		if in.SubServiceID != nil {
			if _, err := tx.GetSubService(ctx, ap.ServiceID, *in.SubServiceID); err != nil {
				return notFound(err, "sub_service_not_found", "Subservicio no encontrado.")
			}
			ap.SubServiceID = in.SubServiceID
		}

		if relinked {
			if err := domain.CheckOffered(ctx, tx, ap.ProfessionalID, ap.ServiceID); err != nil {
				return err
			}
		}

		if in.PaymentConfirmed != nil {
			ap.PaymentConfirmed = *in.PaymentConfirmed
		}
		if in.FinalPrice != nil {
			price := *in.FinalPrice
			ap.FinalPrice = &price
		}
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if to != "" {
			ap.Status = string(to)
		}
		current := domain.Status(ap.Status)

		// --------------------------------------------------
		// Re-validate the slot when it moved or was reclaimed
		// --------------------------------------------------
		reclaimed := !from.Blocks() && current.Blocks()

		candidate, err := domain.NewCandidate(ap)
		if err != nil {
			return err
		}

		if moved {
			prof, err := tx.GetProfessional(ctx, ap.ProfessionalID)
			if err != nil {
				return notFound(err, "professional_not_found", "Profesional no encontrado.")
			}
			if err := domain.CheckBookable(prof, candidate); err != nil {
				return err
			}
		}
		if (moved || reclaimed) && current.Blocks() {
			guarded = &candidate
			if err := domain.Guard(ctx, tx, candidate); err != nil {
				return err
			}
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		if to != "" {
			billing, err = applyEffects(ctx, tx, ap, domain.Effects(from, to, domain.TriggerUpdate))
		}
		return err
	})
	if err != nil {
		return nil, domain.ExplainConflict(ctx, uc.repo, guarded, err)
	}

	meta := map[string]any{"from": from}
	if to != "" {
		meta["to"] = to
	}
	uc.audit.Dispatch(in.Actor.Event("appointment_updated", "appointment", in.ID, meta))
	if billing.Created != nil {
		uc.audit.Dispatch(in.Actor.Event("rendering_created", "service_rendering", billing.Created.ID, map[string]any{
			"appointment_id": in.ID,
		}))
	}

	return uc.repo.GetAppointment(ctx, in.ID)
}

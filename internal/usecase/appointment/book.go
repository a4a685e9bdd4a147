package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientID      uuid.UUID
	ProfessionalID uint
	ServiceID      uint
	SubServiceID   *uint

	Date      string
	StartTime string
	EndTime   string

	// Optional; defaults to pending.
	Status     string
	FinalPrice *decimal.Decimal
	Notes      string

	Actor audit.Actor
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
) *BookAppointment {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &BookAppointment{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("Fecha inválida.", httperr.FieldError{
			Field: "date", Message: "La fecha debe ser válida (YYYY-MM-DD)",
		})
	}

	status := domain.InitialStatus()
	if in.Status != "" {
		if status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Referenced records
	// --------------------------------------------------
	prof, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
	if err != nil {
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, notFound(err, "patient_not_found", "Paciente no encontrado.")
	}
	if _, err := uc.repo.GetService(ctx, in.ServiceID); err != nil {
		return nil, notFound(err, "service_not_found", "Servicio no encontrado.")
	}
	if in.SubServiceID != nil {
		if _, err := uc.repo.GetSubService(ctx, in.ServiceID, *in.SubServiceID); err != nil {
			return nil, notFound(err, "sub_service_not_found", "Subservicio no encontrado.")
		}
	}
	if err := domain.CheckOffered(ctx, uc.repo, in.ProfessionalID, in.ServiceID); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		PatientID:      in.PatientID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      in.ServiceID,
		SubServiceID:   in.SubServiceID,
		Date:           date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Status:         string(status),
		FinalPrice:     in.FinalPrice,
		Notes:          in.Notes,
	}

	// --------------------------------------------------
	// Availability
	// --------------------------------------------------
	candidate, err := domain.NewCandidate(ap)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckBookable(prof, candidate); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict guard + insert + billing, one transaction
	// --------------------------------------------------
	var billing BillingResult
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if status.Blocks() {
			if err := domain.Guard(ctx, tx, candidate); err != nil {
				return err
			}
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		var err error
		billing, err = applyEffects(ctx, tx, ap, domain.Effects("", status, domain.TriggerCreate))
		return err
	})
	if err != nil {
		return nil, domain.ExplainConflict(ctx, uc.repo, &candidate, err)
	}

	// --------------------------------------------------
	// Audit + notification (never fail the booking)
	// --------------------------------------------------
	uc.audit.Dispatch(in.Actor.Event("appointment_created", "appointment", ap.ID, map[string]any{
		"professional_id": ap.ProfessionalID,
		"date":            ap.Date.String(),
		"start_time":      ap.StartTime,
		"status":          ap.Status,
	}))
	if billing.Created != nil {
		uc.audit.Dispatch(in.Actor.Event("rendering_created", "service_rendering", billing.Created.ID, map[string]any{
			"appointment_id": ap.ID,
		}))
	}

	full, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.notifier.BookingConfirmed(ctx, bookingNotice(full)); err != nil {
		log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("booking notification failed")
	}

	return full, nil
}

func bookingNotice(ap *models.Appointment) notify.BookingNotice {
	n := notify.BookingNotice{
		AppointmentID: ap.ID,
		Date:          ap.Date.String(),
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
	}
	if ap.Patient != nil {
		n.PatientName = ap.Patient.FullName()
		n.PatientEmail = ap.Patient.Email
	}
	if ap.Professional != nil {
		n.ProfessionalName = ap.Professional.FullName()
	}
	if ap.Service != nil {
		n.ServiceName = domain.RenderingDescription(ap.Service, ap.SubService)
	}
	return n
}

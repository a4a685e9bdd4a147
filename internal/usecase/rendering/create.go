package rendering

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	appointment "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code, message)
	}
	return err
}

func errRenderingNotFound(err error) error {
	return notFound(err, "rendering_not_found", "Prestación no encontrada.")
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

// ======================================================
// CREATE
// ======================================================

type CreateInput struct {
	ProfessionalID uint
	PatientID      uuid.UUID
	ServiceID      uint
	SubServiceID   *uint

	Date        string
	Description string

	// Defaults: sub-service or service price, professional commission.
	TotalAmount     *decimal.Decimal
	ProfessionalPct *decimal.Decimal

	Notes string
	Actor audit.Actor
}

// CreateRendering records a service delivered outside the appointment flow.
type CreateRendering struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateRendering(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateRendering {
	return &CreateRendering{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateRendering) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.ServiceRendering, error) {

	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}

	prof, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
	if err != nil {
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}
	if _, err := uc.repo.GetPatient(ctx, in.PatientID); err != nil {
		return nil, notFound(err, "patient_not_found", "Paciente no encontrado.")
	}
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service_not_found", "Servicio no encontrado.")
	}
	var sub *models.SubService
	if in.SubServiceID != nil {
		if sub, err = uc.repo.GetSubService(ctx, in.ServiceID, *in.SubServiceID); err != nil {
			return nil, notFound(err, "sub_service_not_found", "Subservicio no encontrado.")
		}
	}

	pct := domain.CommissionOrDefault(prof.CommissionPct)
	if in.ProfessionalPct != nil {
		pct = *in.ProfessionalPct
	}
	total := appointment.BillableAmount(in.TotalAmount, sub, svc)
	if err := domain.ValidateAmounts(total, pct); err != nil {
		return nil, err
	}

	description := in.Description
	if description == "" {
		description = appointment.RenderingDescription(svc, sub)
	}

	r := &models.ServiceRendering{
		ProfessionalID:  in.ProfessionalID,
		PatientID:       in.PatientID,
		ServiceID:       in.ServiceID,
		SubServiceID:    in.SubServiceID,
		Date:            date,
		Description:     description,
		TotalAmount:     total,
		ProfessionalPct: pct,
		Status:          string(domain.StatusPending),
		Notes:           in.Notes,
	}
	domain.Recompute(r)

	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Actor.Event("rendering_created", "service_rendering", r.ID, map[string]any{
		"professional_id": r.ProfessionalID,
		"total_amount":    r.TotalAmount,
	}))

	return uc.repo.Get(ctx, r.ID)
}

package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// BillingResult reports what the effects did to the ledger.
type BillingResult struct {
	Created *models.ServiceRendering
	Dropped *models.ServiceRendering
}

// applyEffects runs the billing side effects of a status change inside tx.
func applyEffects(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	effects []domain.Effect,
) (BillingResult, error) {

	var res BillingResult
	for _, eff := range effects {
		switch eff {
		case domain.EffectCreateRendering:
			r, err := createRendering(ctx, tx, ap)
			if err != nil {
				return res, err
			}
			res.Created = r
		case domain.EffectDropPendingRendering:
			r, err := dropPendingRendering(ctx, tx, ap)
			if err != nil {
				return res, err
			}
			res.Dropped = r
		}
	}
	return res, nil
}

// createRendering is idempotent: an existing rendering for the appointment,
// including one inserted concurrently after the lookup, is left untouched
// and nil is returned.
func createRendering(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
) (*models.ServiceRendering, error) {

	existing, err := tx.FindRenderingByAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	prof, err := tx.GetProfessional(ctx, ap.ProfessionalID)
	if err != nil {
		return nil, notFound(err, "professional_not_found", "Profesional no encontrado.")
	}
	svc, err := tx.GetService(ctx, ap.ServiceID)
	if err != nil {
		return nil, notFound(err, "service_not_found", "Servicio no encontrado.")
	}

	var sub *models.SubService
	if ap.SubServiceID != nil {
		sub, err = tx.GetSubService(ctx, ap.ServiceID, *ap.SubServiceID)
		if err != nil {
			return nil, notFound(err, "sub_service_not_found", "Subservicio no encontrado.")
		}
	}

	appointmentID := ap.ID
	r := &models.ServiceRendering{
		ProfessionalID:  ap.ProfessionalID,
		PatientID:       ap.PatientID,
		ServiceID:       ap.ServiceID,
		SubServiceID:    ap.SubServiceID,
		AppointmentID:   &appointmentID,
		Date:            ap.Date,
		Description:     domain.RenderingDescription(svc, sub),
		TotalAmount:     domain.BillableAmount(ap.FinalPrice, sub, svc),
		ProfessionalPct: rendering.CommissionOrDefault(prof.CommissionPct),
		Status:          string(rendering.StatusPending),
	}
	rendering.Recompute(r)

	err = tx.CreateRendering(ctx, r)
	if errors.Is(err, domain.ErrRenderingExists) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// dropPendingRendering deletes the appointment's rendering only while it
// has not been claimed by a settlement.
func dropPendingRendering(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
) (*models.ServiceRendering, error) {

	existing, err := tx.FindRenderingByAppointment(ctx, ap.ID)
	if err != nil || existing == nil {
		return nil, err
	}
	if rendering.Status(existing.Status) != rendering.StatusPending {
		return nil, nil
	}
	if err := tx.DeleteRendering(ctx, existing.ID); err != nil {
		return nil, err
	}
	return existing, nil
}

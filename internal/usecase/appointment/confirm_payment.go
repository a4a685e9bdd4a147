package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/payments"
)

type ConfirmPaymentInput struct {
	ID      uint
	Confirm bool

	// Optional external payment reference, verified when a verifier is set.
	PaymentID string

	Actor audit.Actor
}

type ConfirmPaymentResult struct {
	Appointment *models.Appointment
	Billing     BillingResult
}

type ConfirmPayment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	verifier payments.Verifier
}

// NewConfirmPayment accepts a nil verifier; payment ids are then not checked.
func NewConfirmPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	verifier payments.Verifier,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:     repo,
		audit:    audit,
		verifier: verifier,
	}
}

func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	in ConfirmPaymentInput,
) (*ConfirmPaymentResult, error) {

	if in.Confirm && in.PaymentID != "" && uc.verifier != nil {
		if err := uc.verifier.Verify(ctx, in.PaymentID); err != nil {
			return nil, err
		}
	}

	to, trigger := domain.PaymentOutcome(in.Confirm)

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

		if !from.Blocks() && to.Blocks() {
			candidate, err := domain.NewCandidate(ap)
			if err != nil {
				return err
			}
			guarded = &candidate
			if err := domain.Guard(ctx, tx, candidate); err != nil {
				return err
			}
		}

		ap.PaymentConfirmed = in.Confirm
		ap.Status = string(to)
		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		billing, err = applyEffects(ctx, tx, ap, domain.Effects(from, to, trigger))
		return err
	})
	if err != nil {
		return nil, domain.ExplainConflict(ctx, uc.repo, guarded, err)
	}

	action := "payment_confirmed"
	if !in.Confirm {
		action = "payment_rejected"
	}
	meta := map[string]any{"from": from, "to": to}
	if in.PaymentID != "" {
		meta["payment_id"] = in.PaymentID
	}
	uc.audit.Dispatch(in.Actor.Event(action, "appointment", in.ID, meta))

	if billing.Created != nil {
		uc.audit.Dispatch(in.Actor.Event("rendering_created", "service_rendering", billing.Created.ID, map[string]any{
			"appointment_id": in.ID,
		}))
	}
	if billing.Dropped != nil {
		uc.audit.Dispatch(in.Actor.Event("rendering_deleted", "service_rendering", billing.Dropped.ID, map[string]any{
			"appointment_id": in.ID,
		}))
	}

	ap, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &ConfirmPaymentResult{Appointment: ap, Billing: billing}, nil
}

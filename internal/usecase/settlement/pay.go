package settlement

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// StatementQueue defers statement archiving to a background worker.
type StatementQueue interface {
	EnqueueStatementArchive(ctx context.Context, settlementID uint) error
}

// ======================================================
// PAY
// ======================================================

type PayInput struct {
	ID            uint
	PaymentMethod string
	PaidOn        *string
	Notes         *string

	Actor audit.Actor
}

type PaySettlement struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	queue StatementQueue
	clock Clock
}

// NewPaySettlement accepts a nil queue; statements are then not archived.
func NewPaySettlement(
	repo domain.Repository,
	audit *audit.Dispatcher,
	queue StatementQueue,
	clock Clock,
) *PaySettlement {
	return &PaySettlement{
		repo:  repo,
		audit: audit,
		queue: queue,
		clock: clock,
	}
}

func (uc *PaySettlement) Execute(
	ctx context.Context,
	in PayInput,
) (*models.Settlement, error) {

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return nil, httperr.ErrValidation("Datos inválidos.", httperr.FieldError{
			Field: "payment_method", Message: "El método de pago es obligatorio",
		})
	}

	paidOn := uc.clock.today()
	if in.PaidOn != nil && *in.PaidOn != "" {
		d, err := parseDate("paid_on", *in.PaidOn)
		if err != nil {
			return nil, err
		}
		paidOn = d
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		s, err := tx.LockSettlement(ctx, in.ID)
		if err != nil {
			return errSettlementNotFound(err)
		}
		if err := domain.CanPay(domain.Status(s.Status)); err != nil {
			return err
		}

		s.Status = string(domain.StatusPaid)
		s.PaidOn = &paidOn
		s.PaymentMethod = method
		if in.Notes != nil {
			s.Notes = *in.Notes
		}
		if err := tx.UpdateSettlement(ctx, s); err != nil {
			return err
		}

		return tx.MarkRenderingsPaid(ctx, s.ID, paidOn)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Actor.Event("settlement_paid", "settlement", in.ID, map[string]any{
		"payment_method": method,
		"paid_on":        paidOn.String(),
	}))

	if uc.queue != nil {
		if err := uc.queue.EnqueueStatementArchive(ctx, in.ID); err != nil {
			log.Warn().Err(err).Uint("settlement_id", in.ID).Msg("statement archive enqueue failed")
		}
	}

	return uc.repo.GetSettlement(ctx, in.ID, true)
}

// ======================================================
// VOID
// ======================================================

type VoidInput struct {
	ID     uint
	Reason string

	Actor audit.Actor
}

// VoidSettlement cancels an unpaid batch and returns its renderings to the
// pending pool.
type VoidSettlement struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewVoidSettlement(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *VoidSettlement {
	return &VoidSettlement{
		repo:  repo,
		audit: audit,
	}
}

func (uc *VoidSettlement) Execute(
	ctx context.Context,
	in VoidInput,
) (*models.Settlement, error) {

	if strings.TrimSpace(in.Reason) == "" {
		return nil, httperr.ErrValidation("Datos inválidos.", httperr.FieldError{
			Field: "reason", Message: "El motivo de anulación es obligatorio",
		})
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		s, err := tx.LockSettlement(ctx, in.ID)
		if err != nil {
			return errSettlementNotFound(err)
		}
		if err := domain.CanVoid(domain.Status(s.Status)); err != nil {
			return err
		}

		s.Status = string(domain.StatusVoided)
		s.Notes = domain.VoidNotes(s.Notes, in.Reason)
		if err := tx.UpdateSettlement(ctx, s); err != nil {
			return err
		}

		return tx.ReleaseRenderings(ctx, s.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Actor.Event("settlement_voided", "settlement", in.ID, map[string]any{
		"reason": in.Reason,
	}))

	return uc.repo.GetSettlement(ctx, in.ID, true)
}

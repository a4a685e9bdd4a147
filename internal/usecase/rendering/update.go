package rendering

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/rendering"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type UpdateInput struct {
	ID uint

	Date            *string
	Description     *string
	TotalAmount     *decimal.Decimal
	ProfessionalPct *decimal.Decimal
	Notes           *string

	Actor audit.Actor
}

func (in UpdateInput) touchesAmounts() bool {
	return in.Date != nil || in.Description != nil || in.TotalAmount != nil || in.ProfessionalPct != nil
}

// UpdateRendering edits a pending rendering. Once settled only the notes
// may change.
type UpdateRendering struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateRendering(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateRendering {
	return &UpdateRendering{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateRendering) Execute(
	ctx context.Context,
	in UpdateInput,
) (*models.ServiceRendering, error) {

	var r *models.ServiceRendering
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		r, err = tx.Lock(ctx, in.ID)
		if err != nil {
			return errRenderingNotFound(err)
		}

		// Checked under the row lock so a settlement claim that committed
		// first wins.
		if domain.IsLocked(r) && in.touchesAmounts() {
			return domain.ErrLocked()
		}

		if in.Date != nil {
			d, err := parseDate("date", *in.Date)
			if err != nil {
				return err
			}
			r.Date = d
		}
		if in.Description != nil {
			r.Description = *in.Description
		}
		if in.TotalAmount != nil {
			r.TotalAmount = *in.TotalAmount
		}
		if in.ProfessionalPct != nil {
			r.ProfessionalPct = *in.ProfessionalPct
		}
		if in.Notes != nil {
			r.Notes = *in.Notes
		}

		if err := domain.ValidateAmounts(r.TotalAmount, r.ProfessionalPct); err != nil {
			return err
		}
		domain.Recompute(r)

		return tx.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Actor.Event("rendering_updated", "service_rendering", r.ID, map[string]any{
		"total_amount":        r.TotalAmount,
		"professional_amount": r.ProfessionalAmount,
	}))

	return uc.repo.Get(ctx, r.ID)
}

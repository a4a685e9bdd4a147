package settlement

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type GenerateInput struct {
	ProfessionalID uint
	PeriodStart    string
	PeriodEnd      string
	Notes          string

	// Overrides the computed professional total when set.
	CustomAmount *decimal.Decimal

	Actor audit.Actor
}

// GenerateSettlement claims every pending, unclaimed rendering of the
// professional in the period into one generated batch.
type GenerateSettlement struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock Clock
}

func NewGenerateSettlement(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock Clock,
) *GenerateSettlement {
	return &GenerateSettlement{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *GenerateSettlement) Execute(
	ctx context.Context,
	in GenerateInput,
) (*models.Settlement, error) {

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	start, err := parseDate("period_start", in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("period_end", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	period := domain.Period{Start: start, End: end}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if in.CustomAmount != nil && in.CustomAmount.IsNegative() {
		return nil, httperr.ErrValidation("Monto inválido.", httperr.FieldError{
			Field: "custom_amount", Message: "El monto no puede ser negativo",
		})
	}

	if _, err := uc.repo.GetProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, errProfessionalNotFound(err)
	}

	sel := domain.Selection{ProfessionalID: in.ProfessionalID, Period: period}
	settledOn := uc.clock.today()

	// --------------------------------------------------
	// Select + create + claim, one transaction
	// --------------------------------------------------
	var s *models.Settlement
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		items, err := tx.PendingRenderings(ctx, sel, true)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrNothingToSettle()
		}

		totals := domain.ComputeTotals(items)
		professionalAmount := totals.ProfessionalAmount
		if in.CustomAmount != nil {
			professionalAmount = in.CustomAmount.Round(2)
		}

		s = &models.Settlement{
			ProfessionalID:     in.ProfessionalID,
			PeriodStart:        start,
			PeriodEnd:          end,
			TotalAmount:        totals.TotalAmount,
			ProfessionalAmount: professionalAmount,
			RenderingsCount:    totals.Count,
			Status:             string(domain.StatusGenerated),
			Notes:              in.Notes,
			Details: datatypes.NewJSONType(models.SettlementDetails{
				RenderingIDs:               totals.RenderingIDs,
				CustomAmount:               in.CustomAmount != nil,
				ComputedProfessionalAmount: totals.ProfessionalAmount,
			}),
		}
		if err := tx.CreateSettlement(ctx, s); err != nil {
			return err
		}

		return tx.ClaimRenderings(ctx, s.ID, totals.RenderingIDs, settledOn)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(in.Actor.Event("settlement_generated", "settlement", s.ID, map[string]any{
		"professional_id":  s.ProfessionalID,
		"renderings_count": s.RenderingsCount,
		"total_amount":     s.TotalAmount,
	}))

	return uc.repo.GetSettlement(ctx, s.ID, true)
}
